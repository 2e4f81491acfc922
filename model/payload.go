package model

import (
	"encoding/json"
	"sort"

	"github.com/pkg/errors"
)

const (
	UnknownRoute     = "Unknown Route"
	UnknownVehicle   = "Unknown Vehicle"
	UnknownDirection = "Unknown Direction"
	UnknownStop      = "Unknown Stop"
	UnknownStatus    = "Unknown"
)

// Payload is the body returned by the TripShot routeSummary endpoint. Only
// the rides are of interest; everything else in the document is ignored.
type Payload struct {
	Rides []Ride `json:"rides"`
}

// Ride is one vehicle trip on the route. Err is set when the ride is not an
// object at all; such rides are kept so the rest of the payload still decodes.
type Ride struct {
	State       RideState    `json:"state"`
	RouteName   string       `json:"routeName"`
	VehicleName string       `json:"vehicleName"`
	Direction   string       `json:"direction"`
	StopStatus  []StopStatus `json:"stopStatus"`
	Vias        []Via        `json:"vias"`
	Err         error        `json:"-"`
}

// UnmarshalJSON decodes each field on its own. A field of the wrong type is
// treated as missing rather than failing the payload.
func (r *Ride) UnmarshalJSON(b []byte) error {
	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(b, &fields); err != nil {
		*r = Ride{
			State:       RideState{},
			RouteName:   UnknownRoute,
			VehicleName: UnknownVehicle,
			Direction:   UnknownDirection,
			Err:         errors.Wrap(err, "cannot decode ride"),
		}
		return nil
	}

	*r = Ride{
		State:       RideState{},
		RouteName:   fieldString(fields, "routeName", UnknownRoute),
		VehicleName: fieldString(fields, "vehicleName", UnknownVehicle),
		Direction:   fieldString(fields, "direction", UnknownDirection),
	}

	if raw, ok := fields["state"]; ok {
		_ = json.Unmarshal(raw, &r.State)
	}

	// Entries never fail on their own, so only a value that is not a list
	// is dropped here.
	if raw, ok := fields["stopStatus"]; ok {
		if err := json.Unmarshal(raw, &r.StopStatus); err != nil {
			r.StopStatus = nil
		}
	}

	if raw, ok := fields["vias"]; ok {
		if err := json.Unmarshal(raw, &r.Vias); err != nil {
			r.Vias = nil
		}
	}

	return nil
}

// IsLive reports whether the ride is in progress or about to start
func (r Ride) IsLive() bool {
	return r.State.Has(RideActive) || r.State.Has(RideAccepted)
}

// StopName resolves a via index to the name of the stop it refers to.
// Indexes out of range and vias that are not stops resolve to UnknownStop.
func (r Ride) StopName(viaIdx int) string {
	if viaIdx < 0 || viaIdx >= len(r.Vias) {
		return UnknownStop
	}

	via := r.Vias[viaIdx]
	if via.Tag != ViaStopTag || via.Stop == nil {
		return UnknownStop
	}

	return via.Stop.Name
}

type RideStateTag string

const (
	RideActive    RideStateTag = "Active"
	RideAccepted  RideStateTag = "Accepted"
	RideCompleted RideStateTag = "Completed"
	RideCancelled RideStateTag = "Cancelled"
)

// RideState is the set of tags present on a ride's state. The API encodes a
// state as an object keyed by its tag (`{"Active": {...}}`); a list of tags or
// a bare tag string are accepted too.
type RideState map[RideStateTag]struct{}

func NewRideState(tags ...RideStateTag) RideState {
	s := RideState{}
	for _, tag := range tags {
		s[tag] = struct{}{}
	}
	return s
}

func (s RideState) Has(tag RideStateTag) bool {
	_, ok := s[tag]
	return ok
}

// Tags returns the tags in lexical order
func (s RideState) Tags() []RideStateTag {
	tags := make([]RideStateTag, 0, len(s))
	for tag := range s {
		tags = append(tags, tag)
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i] < tags[j] })
	return tags
}

func (s *RideState) UnmarshalJSON(b []byte) error {
	state := RideState{}

	var keyed map[string]json.RawMessage
	if err := json.Unmarshal(b, &keyed); err == nil {
		for k := range keyed {
			state[RideStateTag(k)] = struct{}{}
		}
		*s = state
		return nil
	}

	var list []string
	if err := json.Unmarshal(b, &list); err == nil {
		for _, k := range list {
			state[RideStateTag(k)] = struct{}{}
		}
		*s = state
		return nil
	}

	// Anything else leaves the state empty, which keeps the ride out of the
	// results without failing the whole payload.
	var single string
	if err := json.Unmarshal(b, &single); err == nil && single != "" {
		state[RideStateTag(single)] = struct{}{}
	}
	*s = state

	return nil
}

type StopStatusTag string

const (
	AwaitingTag StopStatusTag = "Awaiting"
	ArrivedTag  StopStatusTag = "Arrived"
	DepartedTag StopStatusTag = "Departed"
	SkippedTag  StopStatusTag = "Skipped"
)

// StopStatus is the progress of a ride against one of its stops. Only the
// Awaiting variant carries data this service uses; Awaiting is nil for every
// other tag. Err is set when the entry could not be decoded; such entries
// are kept so the rest of the payload still decodes.
type StopStatus struct {
	Tag      StopStatusTag
	Awaiting *AwaitingStop
	Err      error
}

// AwaitingStop is a stop the vehicle has not reached yet
type AwaitingStop struct {
	StopID                 string  `json:"stopId"`
	ViaIdx                 int     `json:"viaIdx"`
	ExpectedArrivalTime    *string `json:"expectedArrivalTime"`
	ScheduledDepartureTime *string `json:"scheduledDepartureTime"`
	RiderStatus            string  `json:"riderStatus"`
}

type rawAwaitingStop struct {
	StopID                 json.RawMessage `json:"stopId"`
	ViaIdx                 *int            `json:"viaIdx"`
	ExpectedArrivalTime    *string         `json:"expectedArrivalTime"`
	ScheduledDepartureTime *string         `json:"scheduledDepartureTime"`
	RiderStatus            *string         `json:"riderStatus"`
}

func (s *StopStatus) UnmarshalJSON(b []byte) error {
	tag, body, err := decodeTagged(b, string(AwaitingTag))
	if err != nil {
		*s = StopStatus{Err: errors.Wrap(err, "cannot decode stop status")}
		return nil
	}

	*s = StopStatus{Tag: StopStatusTag(tag)}

	if s.Tag != AwaitingTag {
		return nil
	}

	raw := rawAwaitingStop{}
	if len(body) > 0 && string(body) != "null" {
		if err := json.Unmarshal(body, &raw); err != nil {
			s.Err = errors.Wrap(err, "cannot decode Awaiting stop status")
			return nil
		}
	}

	s.Awaiting = &AwaitingStop{
		StopID:                 identifier(raw.StopID),
		ExpectedArrivalTime:    raw.ExpectedArrivalTime,
		ScheduledDepartureTime: raw.ScheduledDepartureTime,
		RiderStatus:            stringOr(raw.RiderStatus, UnknownStatus),
	}
	if raw.ViaIdx != nil {
		s.Awaiting.ViaIdx = *raw.ViaIdx
	}

	return nil
}

func (s StopStatus) MarshalJSON() ([]byte, error) {
	if s.Tag == AwaitingTag && s.Awaiting != nil {
		return json.Marshal(map[StopStatusTag]*AwaitingStop{s.Tag: s.Awaiting})
	}
	return json.Marshal(map[StopStatusTag]struct{}{s.Tag: {}})
}

type ViaTag string

const (
	ViaStopTag     ViaTag = "ViaStop"
	ViaWaypointTag ViaTag = "ViaWaypoint"
)

// Via is an entry in the ride's route sequence; only ViaStop entries name a
// stop.
type Via struct {
	Tag  ViaTag
	Stop *ViaStopDetail
}

type ViaStopDetail struct {
	Name string `json:"name"`
}

// UnmarshalJSON never fails: a via that cannot be read has no stop and so
// resolves to UnknownStop.
func (v *Via) UnmarshalJSON(b []byte) error {
	tag, body, err := decodeTagged(b, string(ViaStopTag))
	if err != nil {
		*v = Via{}
		return nil
	}

	*v = Via{Tag: ViaTag(tag)}

	if v.Tag != ViaStopTag {
		return nil
	}

	wrapper := struct {
		Stop *struct {
			Name *string `json:"name"`
		} `json:"stop"`
	}{}
	if len(body) > 0 && string(body) != "null" {
		if err := json.Unmarshal(body, &wrapper); err != nil {
			return nil
		}
	}

	if wrapper.Stop == nil {
		return nil
	}

	v.Stop = &ViaStopDetail{
		Name: stringOr(wrapper.Stop.Name, UnknownStop),
	}

	return nil
}

func (v Via) MarshalJSON() ([]byte, error) {
	if v.Tag == ViaStopTag && v.Stop != nil {
		return json.Marshal(map[ViaTag]interface{}{
			v.Tag: map[string]*ViaStopDetail{"stop": v.Stop},
		})
	}
	return json.Marshal(map[ViaTag]struct{}{v.Tag: {}})
}

// decodeTagged reads an object of the form {"Tag": body}. When the object
// carries several keys the preferred tag wins, then the first key in lexical
// order, so that decoding is deterministic.
func decodeTagged(b []byte, preferred string) (string, json.RawMessage, error) {
	var keyed map[string]json.RawMessage
	if err := json.Unmarshal(b, &keyed); err != nil {
		return "", nil, err
	}

	if len(keyed) == 0 {
		return "", nil, nil
	}

	if body, ok := keyed[preferred]; ok {
		return preferred, body, nil
	}

	keys := make([]string, 0, len(keyed))
	for k := range keyed {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return keys[0], keyed[keys[0]], nil
}

// fieldString reads a string field, falling back when it is missing, null or
// not a string
func fieldString(fields map[string]json.RawMessage, name string, fallback string) string {
	raw, ok := fields[name]
	if !ok {
		return fallback
	}

	var s *string
	if err := json.Unmarshal(raw, &s); err != nil {
		return fallback
	}

	return stringOr(s, fallback)
}

// identifier reads an ID given as either a string or a number
func identifier(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}

	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}

	return ""
}

func stringOr(s *string, fallback string) string {
	if s == nil {
		return fallback
	}
	return *s
}
