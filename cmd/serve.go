package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/nickgulson11/nickPersonalSite/server"
	"github.com/nickgulson11/nickPersonalSite/summary"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the bus-times endpoint over HTTP",
	Long:  "Serves " + server.BusTimesPath + "?route=outbound|inbound|both, /health and Prometheus metrics on /metrics.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		addr, _ := cmd.Flags().GetString("addr")

		service, err := summary.NewService(logger, cfg)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		s := &server.Server{
			Logger:  logger,
			Service: service,
		}

		return s.ListenAndServe(ctx, addr)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("addr", "a", ":8080", "Address to listen on")
}
