package main

import (
	"context"
	"encoding/json"
	"os"

	duration "github.com/ChannelMeter/iso8601duration"
	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/sns"
	"github.com/aws/aws-sdk-go/service/sns/snsiface"
	"github.com/nickgulson11/nickPersonalSite/config"
	"github.com/nickgulson11/nickPersonalSite/dlog"
	"github.com/nickgulson11/nickPersonalSite/site"
	"github.com/nickgulson11/nickPersonalSite/summary"
	"github.com/pkg/errors"
)

type SiteUpdater struct {
	Logger      *dlog.Logger
	Updater     *site.Updater
	SNSClient   snsiface.SNSAPI
	SNSTopicARN *string
}

func main() {
	logger := dlog.NewServiceLogger("site-updater")

	logger.Debug("main")

	bucket, exists := os.LookupEnv("SITE_BUCKET")
	if !exists || bucket == "" {
		logger.Fatal("SITE_BUCKET not set in environment")
	}

	key, exists := os.LookupEnv("SITE_PAGE_KEY")
	if !exists || key == "" {
		key = "index.html"
	}

	cfg := config.Default()

	if timeout, exists := os.LookupEnv("TRIPSHOT_TIMEOUT"); exists && timeout != "" {
		if _, err := duration.FromString(timeout); err != nil {
			logger.Fatal(errors.Wrapf(err, "TRIPSHOT_TIMEOUT value `%s` is not a valid ISO8601 duration", timeout))
		}
		cfg.Timeout = timeout
	}

	if timezone, exists := os.LookupEnv("TIMEZONE"); exists && timezone != "" {
		cfg.Timezone = timezone
	}

	if err := cfg.Validate(); err != nil {
		logger.Fatal(err)
	}

	service, err := summary.NewService(logger, cfg)
	if err != nil {
		logger.Fatal(err)
	}

	sess := session.Must(session.NewSession())

	su := SiteUpdater{
		Logger: logger,
		Updater: &site.Updater{
			Logger:     logger,
			Summarizer: service,
			Store: site.S3Store{
				Client: s3.New(sess),
				Logger: logger,
				Bucket: bucket,
				Key:    key,
			},
		},
	}

	// Publishing updates is optional
	if snsTopicARN, exists := os.LookupEnv("AWS_SNS_TOPIC_ARN"); exists && snsTopicARN != "" {
		su.SNSClient = sns.New(sess)
		su.SNSTopicARN = aws.String(snsTopicARN)
	}

	lambda.Start(su.Handler)
}

// Handler runs on a schedule and rewrites the page with the current bus
// times, then publishes them if a topic is configured.
func (su *SiteUpdater) Handler(ctx context.Context, event events.CloudWatchEvent) error {
	su.Logger.Debugf("Handler for event %s", event.ID)

	summaries, err := su.Updater.Update(ctx)
	if err != nil {
		return errors.Wrap(err, "cannot update site")
	}

	if su.SNSClient == nil || su.SNSTopicARN == nil {
		return nil
	}

	summariesJSON, err := json.Marshal(summaries)
	if err != nil {
		return errors.Wrap(err, "cannot marshal JSON from bus times")
	}

	if _, err := su.SNSClient.PublishWithContext(ctx, &sns.PublishInput{
		Message:  aws.String(string(summariesJSON)),
		TopicArn: su.SNSTopicARN,
	}); err != nil {
		return errors.Wrapf(err, "cannot publish message to SNS topic `%s`", *su.SNSTopicARN)
	}

	return nil
}
