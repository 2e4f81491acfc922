package model

import (
	"time"
)

// Departure is an upcoming arrival of a vehicle at a stop, normalised from
// a ride's Awaiting stop status.
type Departure struct {
	RouteName     string    `json:"routeName"`
	VehicleName   string    `json:"vehicleName"`
	Direction     string    `json:"direction"`
	StopName      string    `json:"stopName"`
	StopID        string    `json:"stopId,omitempty"`
	DepartureTime time.Time `json:"departureTime"`
	ScheduledTime *string   `json:"scheduledTime,omitempty"`
	RiderStatus   string    `json:"riderStatus"`
	MinutesUntil  int       `json:"minutesUntil"`
}

// MinutesUntil is the number of whole minutes from now until t, rounded
// down.
func MinutesUntil(now time.Time, t time.Time) int {
	wait := t.Sub(now)
	if wait < 0 {
		return int((wait - time.Minute + 1) / time.Minute)
	}
	return int(wait / time.Minute)
}

// ByDepartureTime sorts departures by ascending departure time. Use it with
// sort.Stable so that departures at the same instant keep their order.
type ByDepartureTime []Departure

func (a ByDepartureTime) Len() int {
	return len(a)
}

func (a ByDepartureTime) Swap(i, j int) {
	a[i], a[j] = a[j], a[i]
}

func (a ByDepartureTime) Less(i, j int) bool {
	return a[i].DepartureTime.Before(a[j].DepartureTime)
}
