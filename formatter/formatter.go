// Package formatter renders departures for riders: a short text block, the
// structured buses of the bus-times endpoint and a detail block for the next
// bus.
package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/nickgulson11/nickPersonalSite/model"
)

// MaxShown is the number of departures shown per stop
const MaxShown = 2

const (
	clockLayout          = "03:04 PM"
	timestampLayout      = "03:04:05 PM UTC on January 02, 2006"
	shortTimestampLayout = "03:04:05 PM UTC"
)

// View names the stop a block of departures is rendered for. Stop is the
// name shown to riders, which need not be the name the tracker uses.
type View struct {
	Stop      string
	Direction string
}

// Action describes what a bus does at the stop: outbound buses arrive at it,
// every other direction departs from it.
func Action(direction string) string {
	if direction == "Outbound" {
		return "arriving at"
	}
	return "departing from"
}

// ClockTime formats t on a 12-hour clock in loc. A nil loc means local time.
func ClockTime(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format(clockLayout)
}

func shown(deps []model.Departure) []model.Departure {
	if len(deps) > MaxShown {
		return deps[:MaxShown]
	}
	return deps
}

// Header is the first line of a block of n departures, e.g. "Next 2 buses
// arriving at Ward:"
func Header(n int, action string, stop string) string {
	noun := "bus"
	if n > 1 {
		noun = "buses"
	}
	return fmt.Sprintf("Next %d %s %s %s:", n, noun, action, stop)
}

// Text renders up to MaxShown departures as a header and one numbered line
// each.
func Text(deps []model.Departure, view View, loc *time.Location) string {
	if len(deps) == 0 {
		return fmt.Sprintf("No upcoming buses found for %s stop on %s route.", view.Stop, view.Direction)
	}

	deps = shown(deps)

	lines := []string{Header(len(deps), Action(view.Direction), view.Stop)}
	for i, dep := range deps {
		lines = append(lines, fmt.Sprintf("  %d. %s (%d min) - %s",
			i+1, ClockTime(dep.DepartureTime, loc), dep.MinutesUntil, dep.RiderStatus))
	}

	return strings.Join(lines, "\n")
}

// Unavailable is shown in place of Text when no payload could be obtained
func Unavailable(view View) string {
	return fmt.Sprintf("No upcoming buses found for %s stop or error fetching data.", view.Stop)
}

// Buses converts up to MaxShown departures into the bus-times format. The
// result is never nil.
func Buses(deps []model.Departure, loc *time.Location) []model.Bus {
	buses := []model.Bus{}
	for _, dep := range shown(deps) {
		buses = append(buses, model.Bus{
			Time:    ClockTime(dep.DepartureTime, loc),
			Minutes: dep.MinutesUntil,
			Status:  dep.RiderStatus,
		})
	}
	return buses
}

// Countdown reads minutes as "Now", "1 minute" or "N minutes"
func Countdown(minutes int) string {
	switch {
	case minutes <= 0:
		return "Now"
	case minutes == 1:
		return "1 minute"
	default:
		return fmt.Sprintf("%d minutes", minutes)
	}
}

// NextBus renders the detail block for a single departure
func NextBus(dep model.Departure, view View, loc *time.Location) string {
	event := "Departure from"
	if view.Direction == "Outbound" {
		event = "Arrival at"
	}

	b := strings.Builder{}
	fmt.Fprintf(&b, "Next Bus for %s:\n", view.Stop)
	fmt.Fprintf(&b, "  Route: %s (%s)\n", dep.RouteName, dep.Direction)
	fmt.Fprintf(&b, "  Vehicle: %s\n", dep.VehicleName)
	fmt.Fprintf(&b, "  %s %s: %s (%s)\n", event, view.Stop, ClockTime(dep.DepartureTime, loc), Countdown(dep.MinutesUntil))
	fmt.Fprintf(&b, "  Status: %s\n", dep.RiderStatus)

	return b.String()
}

// Timestamp is the generation time attached to bus-times responses
func Timestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

// ShortTimestamp is the time attached to error responses
func ShortTimestamp(t time.Time) string {
	return t.UTC().Format(shortTimestampLayout)
}
