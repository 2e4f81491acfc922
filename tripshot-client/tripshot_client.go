package tripshot_client

import (
	"context"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/nickgulson11/nickPersonalSite/dlog"
	"github.com/nickgulson11/nickPersonalSite/model"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"gopkg.in/resty.v1"
)

const (
	DefaultTimeout = 10 * time.Second

	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
	dayLayout = "2006-01-02"
)

var (
	fetchCount = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tripshot_fetch_count",
		Help: "Number of route summaries requested from TripShot, by HTTP status",
	}, []string{"status"})
	fetchErrorCount = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tripshot_fetch_error_count",
		Help: "Number of route summaries that could not be used, by reported status",
	}, []string{"status"})
	fetchDuration = prometheus.NewSummary(prometheus.SummaryOpts{
		Name: "tripshot_fetch_seconds",
		Help: "Time taken to fetch a route summary from TripShot",
	})
)

func init() {
	prometheus.MustRegister(fetchCount, fetchErrorCount, fetchDuration)
}

// TripShotClient requests route summaries from a TripShot instance
type TripShotClient struct {
	Client  *resty.Client
	Logger  *dlog.Logger
	BaseURL string
}

type TripShotClientInterface interface {
	Request(ctx context.Context, routeID string, day time.Time) (*model.Payload, int, error)
}

// NewTripShotClient sets the headers TripShot expects from a browser; a zero
// timeout means DefaultTimeout.
func NewTripShotClient(logger *dlog.Logger, baseURL string, timeout time.Duration) *TripShotClient {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	client := resty.New().
		SetTimeout(timeout).
		SetHeader("User-Agent", userAgent).
		SetHeader("Accept", "application/json").
		SetHeader("Content-Type", "application/json")

	return &TripShotClient{
		Client:  client,
		Logger:  logger,
		BaseURL: baseURL,
	}
}

// BuildURL returns the routeSummary URL for a route on the calendar day of
// day, in day's location.
func BuildURL(baseURL string, routeID string, day time.Time) string {
	return fmt.Sprintf("%s/v2/p/routeSummary/%s?day=%s&withNavigation=true&embedStops=true",
		strings.TrimRight(baseURL, "/"), url.PathEscape(routeID), day.Format(dayLayout))
}

// Request fetches today's summary of a route
func (c *TripShotClient) Request(ctx context.Context, routeID string, day time.Time) (*model.Payload, int, error) {
	c.Logger.Debugf("TripShot Request for %s", routeID)

	return c.Fetch(ctx, BuildURL(c.BaseURL, routeID, day))
}

// Fetch requests a route summary from a full URL and decodes it. The status
// returned describes the outcome the way a gateway would: the upstream
// status for client errors, 502 for upstream server errors and 504 when
// there was no response at all.
func (c *TripShotClient) Fetch(ctx context.Context, routeSummaryURL string) (*model.Payload, int, error) {
	c.Logger.Debug("Fetch")

	start := time.Now()
	defer func() { fetchDuration.Observe(time.Since(start).Seconds()) }()

	resp, err := c.makeTripShotHTTPRequest(ctx, routeSummaryURL)
	if err != nil {
		var statusCode int
		if resp != nil && resp.RawResponse != nil {
			if resp.StatusCode() >= http.StatusInternalServerError {
				statusCode = http.StatusBadGateway
			} else {
				statusCode = resp.StatusCode()
			}
		} else {
			statusCode = http.StatusGatewayTimeout
		}
		return nil, c.failed(statusCode), errors.Wrap(err, "cannot make TripShot HTTP request")
	}

	payload, err := c.createPayload(resp.Body())
	if err != nil {
		return nil, c.failed(http.StatusInternalServerError), errors.Wrap(err, "cannot unmarshal TripShot route summary")
	}

	return payload, http.StatusOK, nil
}

func (c *TripShotClient) makeTripShotHTTPRequest(ctx context.Context, routeSummaryURL string) (*resty.Response, error) {
	c.Logger.Debug("makeTripShotHTTPRequest")

	resp, err := c.Client.R().SetContext(ctx).Get(routeSummaryURL)
	if err != nil {
		return resp, err
	}

	fetchCount.With(prometheus.Labels{"status": strconv.Itoa(resp.StatusCode())}).Inc()

	switch true {
	case resp.StatusCode() >= http.StatusInternalServerError:
		return resp, errors.New("TripShot is unavailable")
	case resp.StatusCode() >= http.StatusBadRequest:
		return resp, errors.Errorf("bad request to TripShot: %s", resp.Status())
	default:
		return resp, nil
	}
}

func (c *TripShotClient) createPayload(body []byte) (*model.Payload, error) {
	c.Logger.Debug("createPayload")

	payload := model.Payload{}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, err
	}

	return &payload, nil
}

func (c *TripShotClient) failed(statusCode int) int {
	fetchErrorCount.With(prometheus.Labels{"status": strconv.Itoa(statusCode)}).Inc()
	return statusCode
}

// LoadSample reads a saved route summary from disk
func LoadSample(path string) (*model.Payload, error) {
	b, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot read sample `%s`", path)
	}

	payload := model.Payload{}
	if err := json.Unmarshal(b, &payload); err != nil {
		return nil, errors.Wrapf(err, "cannot unmarshal sample `%s`", path)
	}

	return &payload, nil
}
