// Package summary runs the per-route pipeline shared by every entry point:
// fetch the route summary, extract the departures and format them.
package summary

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/nickgulson11/nickPersonalSite/config"
	"github.com/nickgulson11/nickPersonalSite/dlog"
	"github.com/nickgulson11/nickPersonalSite/extractor"
	"github.com/nickgulson11/nickPersonalSite/formatter"
	"github.com/nickgulson11/nickPersonalSite/model"
	tripshot_client "github.com/nickgulson11/nickPersonalSite/tripshot-client"
	"github.com/pkg/errors"
)

// FetchFailed is reported in place of the buses of a route whose summary
// could not be fetched
const FetchFailed = "Failed to fetch data"

// InvalidRouteError is returned for a route selector that names no preset
type InvalidRouteError struct {
	Route string
}

func (e *InvalidRouteError) Error() string {
	return "Invalid route: " + e.Route
}

// IsInvalidRoute reports whether the cause of err is an InvalidRouteError
func IsInvalidRoute(err error) bool {
	_, ok := errors.Cause(err).(*InvalidRouteError)
	return ok
}

type Service struct {
	Logger    *dlog.Logger
	Client    tripshot_client.TripShotClientInterface
	Extractor *extractor.Extractor
	Config    *config.Config
	Location  *time.Location
	Now       func() time.Time
}

// NewService builds a service from cfg talking to TripShot over HTTP
func NewService(logger *dlog.Logger, cfg *config.Config) (*Service, error) {
	timeout, err := cfg.TimeoutDuration()
	if err != nil {
		return nil, err
	}

	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	return &Service{
		Logger:    logger,
		Client:    tripshot_client.NewTripShotClient(logger, cfg.BaseURL, timeout),
		Extractor: &extractor.Extractor{Logger: logger},
		Config:    cfg,
		Location:  loc,
		Now:       time.Now,
	}, nil
}

func (s *Service) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

// Routes resolves a route selector into preset names. An empty selector
// and "both" select every preset.
func (s *Service) Routes(selector string) ([]string, error) {
	s.Logger.Debugf("Routes for `%s`", selector)

	selector = strings.ToLower(strings.TrimSpace(selector))

	if selector == "" || selector == config.Both {
		return s.Config.Names(), nil
	}

	if _, ok := s.Config.Preset(selector); !ok {
		return nil, &InvalidRouteError{Route: selector}
	}

	return []string{selector}, nil
}

// Filter is the extractor filter for a preset
func (s *Service) Filter(preset config.Preset) extractor.Filter {
	return extractor.Filter{
		TargetStop:      &preset.Stop,
		TargetDirection: &preset.Direction,
		FilterByStop:    s.Config.StopFilter(),
	}
}

// View is how a preset's departures are labelled for riders
func View(preset config.Preset) formatter.View {
	return formatter.View{
		Stop:      preset.Display(),
		Direction: preset.Direction,
	}
}

// Departures fetches today's summary for preset and extracts the departures
// after now.
func (s *Service) Departures(ctx context.Context, preset config.Preset, now time.Time) ([]model.Departure, error) {
	s.Logger.Debugf("Departures for route %s", preset.RouteID)

	payload, statusCode, err := s.Client.Request(ctx, preset.RouteID, now.In(s.Location))
	if err != nil {
		return nil, errors.Wrapf(err, "cannot fetch route %s (status %d)", preset.RouteID, statusCode)
	}

	return s.Extractor.Extract(payload, s.Filter(preset), now), nil
}

// Summarize reports on a single preset. A failed fetch is not an error; it
// is reported in the summary itself.
func (s *Service) Summarize(ctx context.Context, name string, now time.Time) (model.RouteSummary, error) {
	s.Logger.Debugf("Summarize %s", name)

	preset, ok := s.Config.Preset(name)
	if !ok {
		return model.RouteSummary{}, &InvalidRouteError{Route: name}
	}

	summary := model.RouteSummary{
		StopName: preset.Display(),
		Buses:    []model.Bus{},
		Action:   formatter.Action(preset.Direction),
	}

	deps, err := s.Departures(ctx, preset, now)
	if err != nil {
		s.Logger.Printf("route %s: %s", name, err)
		summary.Error = FetchFailed
		return summary, nil
	}

	summary.Buses = formatter.Buses(deps, s.Location)

	return summary, nil
}

// SummarizeAll reports on every route the selector names. Routes are
// fetched concurrently.
func (s *Service) SummarizeAll(ctx context.Context, selector string) (model.Summaries, error) {
	s.Logger.Debug("SummarizeAll")

	now := s.now()

	names, err := s.Routes(selector)
	if err != nil {
		return model.Summaries{}, err
	}

	summaries := model.Summaries{
		Routes:    make(map[string]model.RouteSummary, len(names)),
		Timestamp: formatter.Timestamp(now),
	}

	var (
		mu   sync.Mutex
		wg   sync.WaitGroup
		errs []string
	)

	for _, name := range names {
		wg.Add(1)
		go func(name string) {
			defer wg.Done()

			summary, err := s.Summarize(ctx, name, now)

			mu.Lock()
			defer mu.Unlock()

			if err != nil {
				errs = append(errs, err.Error())
				return
			}
			summaries.Routes[name] = summary
		}(name)
	}

	wg.Wait()

	if len(errs) > 0 {
		sort.Strings(errs)
		return model.Summaries{}, errors.New(strings.Join(errs, "; "))
	}

	return summaries, nil
}
