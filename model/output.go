package model

import (
	"encoding/json"
)

// Bus is one departure as shown to riders:
// time - the departure in the observer's time zone on a 12-hour clock ("08:15 PM");
// minutes - whole minutes until the departure; and
// status - the rider status reported by the tracker (e.g. "OnTime").
type Bus struct {
	Time    string `json:"time"`
	Minutes int    `json:"minutes"`
	Status  string `json:"status"`
}

// RouteSummary is the per-route document returned by the bus-times endpoint.
// Error is only present when the payload for the route could not be fetched.
type RouteSummary struct {
	StopName string `json:"stop_name"`
	Buses    []Bus  `json:"buses"`
	Action   string `json:"action"`
	Error    string `json:"error,omitempty"`
}

// ErrorResponse is returned when a request cannot be served at all
type ErrorResponse struct {
	Error     string `json:"error"`
	Timestamp string `json:"timestamp"`
}

// Summaries is the bus-times response: one RouteSummary per requested route,
// keyed by route name, alongside the time the response was generated. It is
// marshalled as a single flat object.
type Summaries struct {
	Routes    map[string]RouteSummary
	Timestamp string
}

func (s Summaries) MarshalJSON() ([]byte, error) {
	flat := make(map[string]interface{}, len(s.Routes)+1)
	for name, route := range s.Routes {
		flat[name] = route
	}
	flat[TimestampKey] = s.Timestamp
	return json.Marshal(flat)
}

func (s *Summaries) UnmarshalJSON(b []byte) error {
	flat := map[string]json.RawMessage{}
	if err := json.Unmarshal(b, &flat); err != nil {
		return err
	}

	*s = Summaries{Routes: map[string]RouteSummary{}}

	for name, raw := range flat {
		if name == TimestampKey {
			if err := json.Unmarshal(raw, &s.Timestamp); err != nil {
				return err
			}
			continue
		}

		route := RouteSummary{}
		if err := json.Unmarshal(raw, &route); err != nil {
			return err
		}
		s.Routes[name] = route
	}

	return nil
}

// TimestampKey is reserved in Summaries and cannot be used as a route name
const TimestampKey = "timestamp"
