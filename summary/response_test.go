package summary

import (
	"context"
	"net/http"
	"testing"

	"github.com/fortytw2/leaktest"
	"github.com/nickgulson11/nickPersonalSite/test_helpers"
)

func assertHeader(t *testing.T, headers map[string]string, name string, want string) {
	t.Helper()
	if got := headers[name]; got != want {
		t.Errorf("header %s: got '%s' want '%s'", name, got, want)
	}
}

func TestService_BusTimes(t *testing.T) {
	defer leaktest.Check(t)()

	t.Run("should answer a CORS preflight", func(t *testing.T) {
		client := &test_helpers.StubClient{Payloads: routePayloads(t)}
		s := newService(t, client)

		resp := s.BusTimes(context.Background(), http.MethodOptions, "")

		test_helpers.AssertInt(t, resp.StatusCode, http.StatusOK)
		test_helpers.AssertString(t, resp.Body, "")
		assertHeader(t, resp.Headers, "Access-Control-Allow-Origin", "*")
		assertHeader(t, resp.Headers, "Access-Control-Allow-Methods", "GET, OPTIONS")
		assertHeader(t, resp.Headers, "Access-Control-Allow-Headers", "Content-Type")
		test_helpers.AssertInt(t, len(client.Requests()), 0)
	})

	t.Run("should report on the selected route", func(t *testing.T) {
		s := newService(t, &test_helpers.StubClient{Payloads: routePayloads(t)})

		resp := s.BusTimes(context.Background(), http.MethodGet, "outbound")

		test_helpers.AssertInt(t, resp.StatusCode, http.StatusOK)
		assertHeader(t, resp.Headers, "Content-Type", "application/json")
		assertHeader(t, resp.Headers, "Access-Control-Allow-Origin", "*")
		assertHeader(t, resp.Headers, "Access-Control-Allow-Methods", "GET")
		test_helpers.AssertJSONStringEquality(t, resp.Body, `{
			"outbound": {
				"stop_name": "Ward",
				"buses": [
					{"time": "05:05 PM", "minutes": 5, "status": "OnTime"},
					{"time": "05:25 PM", "minutes": 25, "status": "Late"}
				],
				"action": "arriving at"
			},
			"timestamp": "05:00:00 PM UTC on October 01, 2025"
		}`)
	})

	t.Run("should report a route that failed to load", func(t *testing.T) {
		s := newService(t, &test_helpers.StubClient{
			Payloads: routePayloads(t),
			Failures: map[string]int{outboundRoute: http.StatusBadGateway},
		})

		resp := s.BusTimes(context.Background(), http.MethodGet, "")

		test_helpers.AssertInt(t, resp.StatusCode, http.StatusOK)
		test_helpers.AssertJSONStringEquality(t, resp.Body, `{
			"outbound": {
				"stop_name": "Ward",
				"buses": [],
				"error": "Failed to fetch data",
				"action": "arriving at"
			},
			"inbound": {
				"stop_name": "Tech",
				"buses": [{"time": "05:12 PM", "minutes": 12, "status": "Early"}],
				"action": "departing from"
			},
			"timestamp": "05:00:00 PM UTC on October 01, 2025"
		}`)
	})

	t.Run("should reject an invalid route", func(t *testing.T) {
		s := newService(t, &test_helpers.StubClient{Payloads: routePayloads(t)})

		resp := s.BusTimes(context.Background(), http.MethodGet, "x")

		test_helpers.AssertInt(t, resp.StatusCode, http.StatusBadRequest)
		assertHeader(t, resp.Headers, "Access-Control-Allow-Origin", "*")
		test_helpers.AssertJSONStringEquality(t, resp.Body, `{"error": "Invalid route: x", "timestamp": "05:00:00 PM UTC"}`)
	})

	t.Run("should reject other methods", func(t *testing.T) {
		s := newService(t, &test_helpers.StubClient{Payloads: routePayloads(t)})

		resp := s.BusTimes(context.Background(), http.MethodPost, "")

		test_helpers.AssertInt(t, resp.StatusCode, http.StatusMethodNotAllowed)
		assertHeader(t, resp.Headers, "Allow", "GET, OPTIONS")
	})
}
