// Package extractor turns a TripShot route summary into the upcoming
// departures at a single stop.
package extractor

import (
	"sort"
	"strings"
	"time"

	"github.com/nickgulson11/nickPersonalSite/dlog"
	"github.com/nickgulson11/nickPersonalSite/model"
	"github.com/pkg/errors"
)

// Filter selects which departures are extracted. A nil or empty target is
// not applied.
type Filter struct {
	TargetStop      *string
	TargetDirection *string
	FilterByStop    bool
}

func (f Filter) stop() (string, bool) {
	if !f.FilterByStop || f.TargetStop == nil || *f.TargetStop == "" {
		return "", false
	}
	return *f.TargetStop, true
}

func (f Filter) direction() (string, bool) {
	if f.TargetDirection == nil || *f.TargetDirection == "" {
		return "", false
	}
	return *f.TargetDirection, true
}

// Extractor holds no state besides its logger and is safe for concurrent use.
// A nil Logger discards output.
type Extractor struct {
	Logger *dlog.Logger
}

var discard = dlog.NewDiscardLogger()

func (e *Extractor) logger() *dlog.Logger {
	if e.Logger == nil {
		return discard
	}
	return e.Logger
}

// Extract returns the departures in payload that match filter and are
// strictly after now, sorted by departure time. Entries that cannot be
// read are skipped; a nil payload or one without rides yields no departures.
func (e *Extractor) Extract(payload *model.Payload, filter Filter, now time.Time) []model.Departure {
	e.logger().Debug("Extract")

	departures := []model.Departure{}

	if payload == nil {
		return departures
	}

	targetStop, byStop := filter.stop()
	targetDirection, byDirection := filter.direction()

	for r, ride := range payload.Rides {
		if ride.Err != nil {
			e.logger().Debugf("skip ride %d: %s", r, ride.Err)
			continue
		}

		if !ride.IsLive() {
			e.logger().Debugf("skip ride %d: state %v is neither Active nor Accepted", r, ride.State.Tags())
			continue
		}

		if byDirection && ride.Direction != targetDirection {
			e.logger().Debugf("skip ride %d: direction `%s` is not `%s`", r, ride.Direction, targetDirection)
			continue
		}

		for s, status := range ride.StopStatus {
			if status.Err != nil {
				e.logger().Debugf("skip ride %d stop %d: %s", r, s, status.Err)
				continue
			}

			if status.Tag != model.AwaitingTag || status.Awaiting == nil {
				continue
			}

			stop := status.Awaiting
			stopName := ride.StopName(stop.ViaIdx)

			if byStop && stopName != targetStop {
				continue
			}

			if stop.ExpectedArrivalTime == nil {
				e.logger().Debugf("skip ride %d stop %d: no expected arrival time", r, s)
				continue
			}

			departureTime, err := ParseTimestamp(*stop.ExpectedArrivalTime)
			if err != nil {
				e.logger().Debugf("skip ride %d stop %d: %s", r, s, err)
				continue
			}

			if !departureTime.After(now) {
				continue
			}

			departures = append(departures, model.Departure{
				RouteName:     ride.RouteName,
				VehicleName:   ride.VehicleName,
				Direction:     ride.Direction,
				StopName:      stopName,
				StopID:        stop.StopID,
				DepartureTime: departureTime,
				ScheduledTime: stop.ScheduledDepartureTime,
				RiderStatus:   stop.RiderStatus,
				MinutesUntil:  model.MinutesUntil(now, departureTime),
			})
		}
	}

	sort.Stable(model.ByDepartureTime(departures))

	e.logger().Debugf("extracted %d departure(s)", len(departures))

	return departures
}

// Next returns the earliest departure matching filter, or nil if there is
// none.
func (e *Extractor) Next(payload *model.Payload, filter Filter, now time.Time) *model.Departure {
	e.logger().Debug("Next")

	departures := e.Extract(payload, filter, now)
	if len(departures) == 0 {
		return nil
	}

	return &departures[0]
}

// AvailableStops lists, in lexical order, the names of every stop served by
// rides travelling in targetDirection (or by every ride if it is nil or
// empty). Ride state is not considered; this is meant for finding the exact
// stop name to configure.
func (e *Extractor) AvailableStops(payload *model.Payload, targetDirection *string) []string {
	e.logger().Debug("AvailableStops")

	stops := []string{}

	if payload == nil {
		return stops
	}

	direction, byDirection := Filter{TargetDirection: targetDirection}.direction()

	seen := map[string]struct{}{}

	for _, ride := range payload.Rides {
		if byDirection && ride.Direction != direction {
			continue
		}

		for _, via := range ride.Vias {
			if via.Tag != model.ViaStopTag || via.Stop == nil {
				continue
			}

			if _, ok := seen[via.Stop.Name]; ok {
				continue
			}

			seen[via.Stop.Name] = struct{}{}
			stops = append(stops, via.Stop.Name)
		}
	}

	sort.Strings(stops)

	return stops
}

var offsetLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04Z07:00",
}

// zoneless layouts are read as UTC
var zonelessLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
}

// ParseTimestamp reads an ISO-8601 timestamp. A `Z` suffix and a `+00:00`
// offset are equivalent; timestamps without an offset are taken to be UTC.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)

	for _, layout := range offsetLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}

	for _, layout := range zonelessLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}

	return time.Time{}, errors.Errorf("timestamp `%s` is not valid ISO-8601", s)
}
