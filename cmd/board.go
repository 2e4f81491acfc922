package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/nickgulson11/nickPersonalSite/config"
	"github.com/nickgulson11/nickPersonalSite/extractor"
	"github.com/nickgulson11/nickPersonalSite/formatter"
	"github.com/rodaine/table"
	"github.com/spf13/cobra"
)

var boardCmd = &cobra.Command{
	Use:   "board [outbound|inbound]",
	Short: "Show every upcoming shuttle as a table",
	Long: `Lists all upcoming shuttles for a preset route, not just the next two. With
--all-stops every stop on the route is listed.`,
	Args: cobra.MaximumNArgs(1),
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
		allStops, _ := cmd.Flags().GetBool("all-stops")

		return runBoard(cmd.Context(), cmd.OutOrStdout(), cfg, preset, source{URL: sourceURL, Sample: sample}, !allStops)
	},
}

func runBoard(ctx context.Context, out io.Writer, cfg *config.Config, preset config.Preset, src source, byStop bool) error {
	if ctx == nil {
		ctx = context.Background()
	}

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	view := formatter.View{Stop: preset.Display(), Direction: preset.Direction}

	payload, err := loadPayload(ctx, cfg, preset, src)
	if err != nil {
		logger.Print(err)
		fmt.Fprintln(out, errorStyle.Render(formatter.Unavailable(view)))
		return nil
	}

	e := &extractor.Extractor{Logger: logger}
	deps := e.Extract(payload, extractor.Filter{
		TargetStop:      &preset.Stop,
		TargetDirection: &preset.Direction,
		FilterByStop:    byStop && cfg.StopFilter(),
	}, now())

	if len(deps) == 0 {
		fmt.Fprintln(out, noBuses(view, src, loc))
		return nil
	}

	tbl := table.New("Time", "Min", "Stop", "Vehicle", "Status").WithWriter(out)
	for _, d := range deps {
		tbl.AddRow(formatter.ClockTime(d.DepartureTime, loc), d.MinutesUntil, d.StopName, d.VehicleName, d.RiderStatus)
	}
	tbl.Print()

	return nil
}

func init() {
	rootCmd.AddCommand(boardCmd)
	boardCmd.Flags().StringP("url", "u", "", "Full routeSummary URL to read instead of the preset's route")
	boardCmd.Flags().StringP("sample", "f", "", "Saved routeSummary JSON file to read instead of TripShot")
	boardCmd.Flags().Bool("all-stops", false, "Include every stop on the route")
}
