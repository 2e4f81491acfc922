package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/nickgulson11/nickPersonalSite/site"
	"github.com/nickgulson11/nickPersonalSite/summary"
	"github.com/spf13/cobra"
)

var updateSiteCmd = &cobra.Command{
	Use:   "update-site",
	Short: "Write the current shuttle times into a static page",
	Long: `Replaces the generated regions of a page (OUTBOUND_DATA, INBOUND_DATA and
TIMESTAMP placeholders) with the current shuttle times. The page is read from
and written back to a local file, or to an S3 object with --bucket.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		page, _ := cmd.Flags().GetString("page")
		bucket, _ := cmd.Flags().GetString("bucket")
		key, _ := cmd.Flags().GetString("key")

		var store site.Store = site.FileStore{Path: page}
		if bucket != "" {
			sess, err := session.NewSession()
			if err != nil {
				return err
			}
			store = site.S3Store{
				Client: s3.New(sess),
				Logger: logger,
				Bucket: bucket,
				Key:    key,
			}
		}

		service, err := summary.NewService(logger, cfg)
		if err != nil {
			return err
		}

		u := &site.Updater{
			Logger:     logger,
			Summarizer: service,
			Store:      store,
		}

		return runUpdateSite(cmd.Context(), cmd.OutOrStdout(), u)
	},
}

func runUpdateSite(ctx context.Context, out io.Writer, u *site.Updater) error {
	if ctx == nil {
		ctx = context.Background()
	}

	summaries, err := u.Update(ctx)
	if err != nil {
		fmt.Fprintln(out, errorStyle.Render("Failed to update bus times"))
		return err
	}

	fmt.Fprintln(out, headerStyle.Render(fmt.Sprintf("Bus times updated at %s", summaries.Timestamp)))

	for _, name := range sortedRoutes(summaries.Routes) {
		route := summaries.Routes[name]
		status := fmt.Sprintf("%d bus(es)", len(route.Buses))
		if route.Error != "" {
			status = route.Error
		}
		fmt.Fprintf(out, "  %s: %s\n", name, mutedStyle.Render(status))
	}

	return nil
}

func init() {
	rootCmd.AddCommand(updateSiteCmd)
	updateSiteCmd.Flags().StringP("page", "p", "index.html", "Local page to update")
	updateSiteCmd.Flags().StringP("bucket", "b", "", "S3 bucket holding the page; the local page is ignored when set")
	updateSiteCmd.Flags().StringP("key", "k", "index.html", "Key of the page in the S3 bucket")
}
