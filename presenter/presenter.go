package main

import (
	"context"
	"os"

	duration "github.com/ChannelMeter/iso8601duration"
	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/nickgulson11/nickPersonalSite/config"
	"github.com/nickgulson11/nickPersonalSite/dlog"
	"github.com/nickgulson11/nickPersonalSite/summary"
)

type Presenter struct {
	Logger  *dlog.Logger
	Service *summary.Service
	PresenterInterface
}

type PresenterInterface interface {
	Handler(ctx context.Context, request events.APIGatewayProxyRequest) (*events.APIGatewayProxyResponse, error)
}

func main() {
	logger := dlog.NewServiceLogger("presenter")

	logger.Debug("main")

	cfg := config.Default()

	if baseURL, exists := os.LookupEnv("TRIPSHOT_BASE_URL"); exists && baseURL != "" {
		cfg.BaseURL = baseURL
	}

	if timeout, exists := os.LookupEnv("TRIPSHOT_TIMEOUT"); exists && timeout != "" {
		if _, err := duration.FromString(timeout); err != nil {
			logger.Fatalf("TRIPSHOT_TIMEOUT `%s` is not a valid ISO-8601 duration: %s", timeout, err)
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

	p := &Presenter{
		Logger:  logger,
		Service: service,
	}

	lambda.Start(p.Handler)
}

// Handler serves the bus-times endpoint behind API Gateway. Failures are
// reported in the response, so the returned error is always nil.
func (p Presenter) Handler(ctx context.Context, request events.APIGatewayProxyRequest) (*events.APIGatewayProxyResponse, error) {
	p.Logger.Debug("Handler")

	route := request.QueryStringParameters["route"]

	resp := p.Service.BusTimes(ctx, request.HTTPMethod, route)

	return &events.APIGatewayProxyResponse{
		StatusCode: resp.StatusCode,
		Headers:    resp.Headers,
		Body:       resp.Body,
	}, nil
}
