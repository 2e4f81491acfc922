package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/nickgulson11/nickPersonalSite/config"
	"github.com/nickgulson11/nickPersonalSite/extractor"
	"github.com/spf13/cobra"
)

var stopsCmd = &cobra.Command{
	Use:   "stops [outbound|inbound]",
	Short: "List the stops served in a direction",
	Long:  "Lists every stop TripShot reports for a route, to find the exact stop name to configure.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		_, preset, err := presetArg(cfg, args)
		if err != nil {
			return err
		}

		sourceURL, _ := cmd.Flags().GetString("url")
		sample, _ := cmd.Flags().GetString("sample")
		direction, _ := cmd.Flags().GetString("direction")
		allDirections, _ := cmd.Flags().GetBool("all-directions")

		if direction != "" {
			preset.Direction = direction
		}

		return runStops(cmd.Context(), cmd.OutOrStdout(), cfg, preset, source{URL: sourceURL, Sample: sample}, allDirections)
	},
}

func runStops(ctx context.Context, out io.Writer, cfg *config.Config, preset config.Preset, src source, allDirections bool) error {
	if ctx == nil {
		ctx = context.Background()
	}

	payload, err := loadPayload(ctx, cfg, preset, src)
	if err != nil {
		return err
	}

	direction := &preset.Direction
	heading := fmt.Sprintf("Stops on the %s route:", preset.Direction)
	if allDirections {
		direction = nil
		heading = "Stops on every route:"
	}

	e := &extractor.Extractor{Logger: logger}
	stops := e.AvailableStops(payload, direction)

	fmt.Fprintln(out, headerStyle.Render(heading))

	if len(stops) == 0 {
		fmt.Fprintln(out, mutedStyle.Render("  none"))
		return nil
	}

	for _, stop := range stops {
		fmt.Fprintf(out, "  %s\n", stop)
	}

	return nil
}

func init() {
	rootCmd.AddCommand(stopsCmd)
	stopsCmd.Flags().StringP("url", "u", "", "Full routeSummary URL to read instead of the preset's route")
	stopsCmd.Flags().StringP("sample", "f", "", "Saved routeSummary JSON file to read instead of TripShot")
	stopsCmd.Flags().StringP("direction", "d", "", "Route direction (Outbound, Inbound)")
	stopsCmd.Flags().Bool("all-directions", false, "List the stops of rides in every direction")
}
