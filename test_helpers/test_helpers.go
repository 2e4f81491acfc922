package test_helpers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"

	"github.com/nickgulson11/nickPersonalSite/model"
)

func AssertBoolean(t *testing.T, got bool, want bool) {
	t.Helper()
	if got != want {
		t.Errorf("got '%t' want '%t'\n", got, want)
	}
}

func AssertInt(t *testing.T, got int, want int) {
	t.Helper()
	if got != want {
		t.Errorf("got '%d' want '%d'\n", got, want)
	}
}

// AssertJSONEquality compares the recorded body with expected, ignoring
// formatting and key order.
func AssertJSONEquality(t *testing.T, rr *httptest.ResponseRecorder, expected string) {
	t.Helper()
	AssertJSONStringEquality(t, rr.Body.String(), expected)
}

func AssertJSONStringEquality(t *testing.T, body string, expected string) {
	t.Helper()
	var got interface{}
	var want interface{}

	if err := json.Unmarshal([]byte(body), &got); err != nil {
		t.Fatalf("%s\n", err.Error())
	}

	if err := json.Unmarshal([]byte(expected), &want); err != nil {
		t.Fatalf("%s\n", err.Error())
	}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("unexpected body: got %#v, wanted %#v\n", body, expected)
	}
}

func AssertStatusCode(t *testing.T, rr *httptest.ResponseRecorder, want int) {
	t.Helper()
	if status := rr.Code; status != want {
		t.Errorf("wrong status code: got %v, wanted %v\n", status, want)
	}
}

func AssertString(t *testing.T, got string, want string) {
	t.Helper()
	if got != want {
		t.Errorf("got '%s' want '%s'\n", got, want)
	}
}

func AdjustTime(now time.Time, d string) time.Time {
	duration, _ := time.ParseDuration(d)
	return now.Add(duration)
}

// Ride builds a ride whose vias are ViaStop entries named after stops
func Ride(state model.RideStateTag, direction string, stops []string, statuses ...model.StopStatus) model.Ride {
	vias := make([]model.Via, 0, len(stops))
	for _, name := range stops {
		vias = append(vias, model.Via{
			Tag:  model.ViaStopTag,
			Stop: &model.ViaStopDetail{Name: name},
		})
	}

	return model.Ride{
		State:       model.NewRideState(state),
		RouteName:   "Intercampus",
		VehicleName: "Bus 1",
		Direction:   direction,
		StopStatus:  statuses,
		Vias:        vias,
	}
}

// Awaiting builds an Awaiting stop status expected at the given time; a zero
// time leaves the expected arrival time unset.
func Awaiting(viaIdx int, expected time.Time, riderStatus string) model.StopStatus {
	stop := &model.AwaitingStop{
		StopID:      "stop-" + string(rune('a'+viaIdx%26)),
		ViaIdx:      viaIdx,
		RiderStatus: riderStatus,
	}

	if !expected.IsZero() {
		ts := expected.UTC().Format(time.RFC3339)
		stop.ExpectedArrivalTime = &ts
	}

	return model.StopStatus{Tag: model.AwaitingTag, Awaiting: stop}
}

// PayloadJSON marshals rides into a routeSummary body
func PayloadJSON(t *testing.T, rides ...model.Ride) []byte {
	t.Helper()

	b, err := json.Marshal(model.Payload{Rides: rides})
	if err != nil {
		t.Fatal(err)
	}

	return b
}

// StubClient serves route summaries from memory. Routes without a payload
// fail as if TripShot did not know them.
type StubClient struct {
	Payloads map[string]*model.Payload
	Failures map[string]int

	mu       sync.Mutex
	requests []string
	days     []time.Time
}

func (c *StubClient) Request(ctx context.Context, routeID string, day time.Time) (*model.Payload, int, error) {
	c.mu.Lock()
	c.requests = append(c.requests, routeID)
	c.days = append(c.days, day)
	c.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, http.StatusGatewayTimeout, err
	}

	if statusCode, ok := c.Failures[routeID]; ok {
		return nil, statusCode, errors.Errorf("route %s failed with status %d", routeID, statusCode)
	}

	payload, ok := c.Payloads[routeID]
	if !ok {
		return nil, http.StatusNotFound, errors.Errorf("route %s not found", routeID)
	}

	return payload, http.StatusOK, nil
}

// Requests lists the requested route IDs in lexical order
func (c *StubClient) Requests() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	requests := append([]string{}, c.requests...)
	sort.Strings(requests)
	return requests
}

// Days lists the days that were requested, in request order
func (c *StubClient) Days() []time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	return append([]time.Time{}, c.days...)
}

// Payload decodes rides through JSON so that the payload looks exactly like
// one fetched from TripShot
func Payload(t *testing.T, rides ...model.Ride) *model.Payload {
	t.Helper()

	payload := model.Payload{}
	if err := json.Unmarshal(PayloadJSON(t, rides...), &payload); err != nil {
		t.Fatal(err)
	}

	return &payload
}
