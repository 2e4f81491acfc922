package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/nickgulson11/nickPersonalSite/config"
	"github.com/nickgulson11/nickPersonalSite/extractor"
	"github.com/nickgulson11/nickPersonalSite/formatter"
	"github.com/nickgulson11/nickPersonalSite/model"
	tripshot_client "github.com/nickgulson11/nickPersonalSite/tripshot-client"
	"github.com/spf13/cobra"
)

var nextCmd = &cobra.Command{
	Use:   "next [outbound|inbound]",
	Short: "Show the next shuttles at a stop",
	Long: `Shows the next two shuttles for a preset route. The stop and direction come
from the preset unless overridden; data comes from TripShot unless a saved
route summary is given with --sample.`,
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
		stop, _ := cmd.Flags().GetString("stop")
		direction, _ := cmd.Flags().GetString("direction")
		allStops, _ := cmd.Flags().GetBool("all-stops")
		detail, _ := cmd.Flags().GetBool("detail")

		if stop != "" {
			preset.Stop = stop
			preset.DisplayName = ""
		}
		if direction != "" {
			preset.Direction = direction
		}

		return runNext(cmd.Context(), cmd.OutOrStdout(), cfg, preset, source{URL: sourceURL, Sample: sample}, !allStops, detail)
	},
}

// source is where a route summary is read from: a saved file, a full URL,
// or the preset's route on TripShot
type source struct {
	URL    string
	Sample string
}

func loadPayload(ctx context.Context, cfg *config.Config, preset config.Preset, src source) (*model.Payload, error) {
	if src.Sample != "" {
		return tripshot_client.LoadSample(src.Sample)
	}

	timeout, err := cfg.TimeoutDuration()
	if err != nil {
		return nil, err
	}

	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	client := tripshot_client.NewTripShotClient(logger, cfg.BaseURL, timeout)

	if src.URL != "" {
		payload, _, err := client.Fetch(ctx, src.URL)
		return payload, err
	}

	payload, _, err := client.Request(ctx, preset.RouteID, now().In(loc))
	return payload, err
}

// noBuses is printed when nothing is coming; an empty live feed reads as
// possibly unavailable.
func noBuses(view formatter.View, src source, loc *time.Location) string {
	if src.Sample == "" {
		return formatter.Unavailable(view)
	}
	return formatter.Text(nil, view, loc)
}

func runNext(ctx context.Context, out io.Writer, cfg *config.Config, preset config.Preset, src source, byStop bool, detail bool) error {
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
	filter := extractor.Filter{
		TargetStop:      &preset.Stop,
		TargetDirection: &preset.Direction,
		FilterByStop:    byStop && cfg.StopFilter(),
	}

	t := now()

	if detail {
		dep := e.Next(payload, filter, t)
		if dep == nil {
			fmt.Fprintln(out, noBuses(view, src, loc))
			return nil
		}
		printBlock(out, formatter.NextBus(*dep, formatter.View{Stop: preset.Stop, Direction: preset.Direction}, loc))
		return nil
	}

	deps := e.Extract(payload, filter, t)
	if len(deps) == 0 {
		fmt.Fprintln(out, noBuses(view, src, loc))
		return nil
	}

	printBlock(out, formatter.Text(deps, view, loc))

	return nil
}

func init() {
	rootCmd.AddCommand(nextCmd)
	nextCmd.Flags().StringP("url", "u", "", "Full routeSummary URL to read instead of the preset's route")
	nextCmd.Flags().StringP("sample", "f", "", "Saved routeSummary JSON file to read instead of TripShot")
	nextCmd.Flags().StringP("stop", "s", "", "Stop name, exactly as TripShot spells it")
	nextCmd.Flags().StringP("direction", "d", "", "Route direction (Outbound, Inbound)")
	nextCmd.Flags().Bool("all-stops", false, "Include every stop on the route")
	nextCmd.Flags().Bool("detail", false, "Show the next shuttle in detail")
}
