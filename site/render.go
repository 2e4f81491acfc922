// Package site keeps the bus times on a static web page up to date. The page
// marks each generated region with a pair of comments,
//
//	<!-- OUTBOUND_DATA_PLACEHOLDER -->...<!-- END_OUTBOUND_DATA_PLACEHOLDER -->
//
// and everything between them is replaced on each update.
package site

import (
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/nickgulson11/nickPersonalSite/formatter"
	"github.com/nickgulson11/nickPersonalSite/model"
)

const (
	TimestampRegion = "TIMESTAMP"

	busItem = `
<div class="bus-time-item">
    <span class="time">%s</span>
    <span class="minutes">%d min</span>
    <span class="status">%s</span>
</div>`
)

// RouteRegion names the page region a route's buses are rendered into,
// e.g. OUTBOUND_DATA for the outbound route.
func RouteRegion(route string) string {
	return strings.ToUpper(route) + "_DATA"
}

// RenderRoute renders a route summary as HTML
func RenderRoute(route string, summary model.RouteSummary) string {
	if summary.Error != "" {
		return fmt.Sprintf(`<div class="error">Error loading %s buses</div>`, html.EscapeString(route))
	}

	if len(summary.Buses) == 0 {
		return `<div class="error">No upcoming buses found</div>`
	}

	header := formatter.Header(len(summary.Buses), summary.Action, summary.StopName)

	b := strings.Builder{}
	fmt.Fprintf(&b, `<div class="bus-header">%s</div>`, html.EscapeString(header))
	for _, bus := range summary.Buses {
		fmt.Fprintf(&b, busItem, html.EscapeString(bus.Time), bus.Minutes, html.EscapeString(bus.Status))
	}

	return b.String()
}

func regionPattern(name string) *regexp.Regexp {
	name = regexp.QuoteMeta(name)
	return regexp.MustCompile(`(?s)<!-- ` + name + `_PLACEHOLDER -->.*?<!-- END_` + name + `_PLACEHOLDER -->`)
}

// ReplaceRegion replaces the content of every region called name in page.
// It reports whether the page has such a region.
func ReplaceRegion(page string, name string, content string) (string, bool) {
	re := regionPattern(name)
	if !re.MatchString(page) {
		return page, false
	}

	region := "<!-- " + name + "_PLACEHOLDER -->" + content + "<!-- END_" + name + "_PLACEHOLDER -->"

	return re.ReplaceAllLiteralString(page, region), true
}
