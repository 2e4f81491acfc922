package site

import (
	"strings"
	"testing"

	"github.com/nickgulson11/nickPersonalSite/model"
	"github.com/nickgulson11/nickPersonalSite/test_helpers"
)

func TestRouteRegion(t *testing.T) {
	test_helpers.AssertString(t, RouteRegion("outbound"), "OUTBOUND_DATA")
	test_helpers.AssertString(t, RouteRegion("inbound"), "INBOUND_DATA")
}

func TestRenderRoute(t *testing.T) {
	t.Run("should render a header and one item per bus", func(t *testing.T) {
		summary := model.RouteSummary{
			StopName: "Ward",
			Action:   "arriving at",
			Buses: []model.Bus{
				{Time: "08:15 PM", Minutes: 20, Status: "OnTime"},
				{Time: "08:45 PM", Minutes: 50, Status: "Late"},
			},
		}

		want := `<div class="bus-header">Next 2 buses arriving at Ward:</div>
<div class="bus-time-item">
    <span class="time">08:15 PM</span>
    <span class="minutes">20 min</span>
    <span class="status">OnTime</span>
</div>
<div class="bus-time-item">
    <span class="time">08:45 PM</span>
    <span class="minutes">50 min</span>
    <span class="status">Late</span>
</div>`

		test_helpers.AssertString(t, RenderRoute("outbound", summary), want)
	})

	t.Run("should escape text from the tracker", func(t *testing.T) {
		summary := model.RouteSummary{
			StopName: "Sheridan & Noyes",
			Action:   "departing from",
			Buses:    []model.Bus{{Time: "08:15 PM", Minutes: 1, Status: "<b>Late</b>"}},
		}

		got := RenderRoute("inbound", summary)

		if !strings.Contains(got, "Next 1 bus departing from Sheridan &amp; Noyes:") {
			t.Errorf("header is not escaped: %s", got)
		}
		if !strings.Contains(got, `<span class="status">&lt;b&gt;Late&lt;/b&gt;</span>`) {
			t.Errorf("status is not escaped: %s", got)
		}
	})

	t.Run("should report a route that failed to load", func(t *testing.T) {
		summary := model.RouteSummary{StopName: "Tech", Buses: []model.Bus{}, Error: "Failed to fetch data"}

		test_helpers.AssertString(t, RenderRoute("inbound", summary), `<div class="error">Error loading inbound buses</div>`)
	})

	t.Run("should report a route without buses", func(t *testing.T) {
		summary := model.RouteSummary{StopName: "Tech", Buses: []model.Bus{}}

		test_helpers.AssertString(t, RenderRoute("inbound", summary), `<div class="error">No upcoming buses found</div>`)
	})
}

func TestReplaceRegion(t *testing.T) {
	page := `<html>
<p>Updated <!-- TIMESTAMP_PLACEHOLDER -->never<!-- END_TIMESTAMP_PLACEHOLDER --></p>
<div id="outbound">
    <!-- OUTBOUND_DATA_PLACEHOLDER -->
    <div class="loading">Loading...</div>
    <!-- END_OUTBOUND_DATA_PLACEHOLDER -->
</div>
</html>`

	t.Run("should replace content spanning several lines", func(t *testing.T) {
		got, ok := ReplaceRegion(page, "OUTBOUND_DATA", "\n<p>$1 buses</p>\n")

		test_helpers.AssertBoolean(t, ok, true)

		want := `<html>
<p>Updated <!-- TIMESTAMP_PLACEHOLDER -->never<!-- END_TIMESTAMP_PLACEHOLDER --></p>
<div id="outbound">
    <!-- OUTBOUND_DATA_PLACEHOLDER -->
<p>$1 buses</p>
<!-- END_OUTBOUND_DATA_PLACEHOLDER -->
</div>
</html>`

		test_helpers.AssertString(t, got, want)
	})

	t.Run("should replace inline content", func(t *testing.T) {
		got, ok := ReplaceRegion(page, "TIMESTAMP", "05:00:00 PM UTC on October 01, 2025")

		test_helpers.AssertBoolean(t, ok, true)

		if !strings.Contains(got, "<!-- TIMESTAMP_PLACEHOLDER -->05:00:00 PM UTC on October 01, 2025<!-- END_TIMESTAMP_PLACEHOLDER -->") {
			t.Errorf("timestamp was not replaced: %s", got)
		}
	})

	t.Run("should leave a page without the region untouched", func(t *testing.T) {
		got, ok := ReplaceRegion(page, "INBOUND_DATA", "<p>buses</p>")

		test_helpers.AssertBoolean(t, ok, false)
		test_helpers.AssertString(t, got, page)
	})

	t.Run("should be repeatable", func(t *testing.T) {
		once, _ := ReplaceRegion(page, "OUTBOUND_DATA", "first")
		twice, _ := ReplaceRegion(once, "OUTBOUND_DATA", "second")

		if strings.Contains(twice, "first") || !strings.Contains(twice, "second") {
			t.Errorf("second update did not replace the first: %s", twice)
		}
	})
}
