package cmd

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/nickgulson11/nickPersonalSite/config"
	"github.com/nickgulson11/nickPersonalSite/dlog"
	"github.com/nickgulson11/nickPersonalSite/model"
	"github.com/spf13/cobra"
)

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("99")).Bold(true)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	// now is replaced in tests
	now = time.Now

	logger = dlog.NewServiceLogger("shuttle-times")
)

var rootCmd = &cobra.Command{
	Use:   "shuttle-times",
	Short: "Upcoming Northwestern intercampus shuttle times",
	Long: `shuttle-times reads live TripShot tracking data and reports when the
next shuttles arrive at or depart from a stop. It can also serve the bus-times
endpoint over HTTP and keep a static page up to date.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "YAML file with presets and settings (defaults to the built-in routes)")
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

// presetArg resolves the optional preset argument, outbound by default
func presetArg(cfg *config.Config, args []string) (string, config.Preset, error) {
	name := config.Outbound
	if len(args) > 0 {
		name = strings.ToLower(args[0])
	}

	preset, ok := cfg.Preset(name)
	if !ok {
		return "", config.Preset{}, fmt.Errorf("unknown preset '%s' (choose from %s)", name, strings.Join(cfg.Names(), ", "))
	}

	return name, preset, nil
}

// printBlock prints a text block with its first line as a heading
func printBlock(out io.Writer, block string) {
	lines := strings.SplitN(block, "\n", 2)
	fmt.Fprintln(out, headerStyle.Render(lines[0]))
	if len(lines) == 2 {
		fmt.Fprintln(out, lines[1])
	}
}

func sortedRoutes(routes map[string]model.RouteSummary) []string {
	names := make([]string, 0, len(routes))
	for name := range routes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
