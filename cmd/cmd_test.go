package cmd

import (
	"bytes"
	"context"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/nickgulson11/nickPersonalSite/config"
	"github.com/nickgulson11/nickPersonalSite/dlog"
	"github.com/nickgulson11/nickPersonalSite/extractor"
	"github.com/nickgulson11/nickPersonalSite/model"
	"github.com/nickgulson11/nickPersonalSite/site"
	"github.com/nickgulson11/nickPersonalSite/summary"
	"github.com/nickgulson11/nickPersonalSite/test_helpers"
)

var fixedNow = time.Date(2025, 10, 1, 17, 0, 0, 0, time.UTC)

func TestMain(m *testing.M) {
	logger = dlog.NewDiscardLogger()
	now = func() time.Time { return fixedNow }

	os.Exit(m.Run())
}

func utcConfig() *config.Config {
	cfg := config.Default()
	cfg.Timezone = "UTC"
	return cfg
}

func writeSample(t *testing.T, dir string) string {
	t.Helper()

	body := test_helpers.PayloadJSON(t,
		test_helpers.Ride(model.RideActive, "Outbound", []string{"Sheridan/Noyes (IB)", "Chicago/Davis", "Ward"},
			test_helpers.Awaiting(0, fixedNow.Add(-2*time.Minute), "OnTime"),
			test_helpers.Awaiting(1, fixedNow.Add(4*time.Minute), "OnTime"),
			test_helpers.Awaiting(2, fixedNow.Add(9*time.Minute), "OnTime")),
		test_helpers.Ride(model.RideAccepted, "Outbound", []string{"Sheridan/Noyes (IB)", "Chicago/Davis", "Ward"},
			test_helpers.Awaiting(2, fixedNow.Add(31*time.Minute), "Late")),
		test_helpers.Ride(model.RideActive, "Inbound", []string{"Ward", "Sheridan/Noyes (IB)"},
			test_helpers.Awaiting(1, fixedNow.Add(1*time.Minute), "Early")),
	)

	path := filepath.Join(dir, "route_summary.json")
	if err := ioutil.WriteFile(path, body, 0644); err != nil {
		t.Fatal(err)
	}

	return path
}

func TestRunNext(t *testing.T) {
	dir, err := ioutil.TempDir("", "shuttle-times")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)

	sample := writeSample(t, dir)
	cfg := utcConfig()
	outbound, _ := cfg.Preset("outbound")
	inbound, _ := cfg.Preset("inbound")

	t.Run("should print the next two buses at the stop", func(t *testing.T) {
		out := bytes.Buffer{}

		if err := runNext(context.Background(), &out, cfg, outbound, source{Sample: sample}, true, false); err != nil {
			t.Fatal(err)
		}

		want := "Next 2 buses arriving at Ward:\n" +
			"  1. 05:09 PM (9 min) - OnTime\n" +
			"  2. 05:31 PM (31 min) - Late\n"

		test_helpers.AssertString(t, out.String(), want)
	})

	t.Run("should include every stop when asked", func(t *testing.T) {
		out := bytes.Buffer{}

		if err := runNext(context.Background(), &out, cfg, outbound, source{Sample: sample}, false, false); err != nil {
			t.Fatal(err)
		}

		if !strings.Contains(out.String(), "  1. 05:04 PM (4 min) - OnTime") {
			t.Errorf("should list the bus at Chicago/Davis first:\n%s", out.String())
		}
	})

	t.Run("should use the display name of the stop", func(t *testing.T) {
		out := bytes.Buffer{}

		if err := runNext(context.Background(), &out, cfg, inbound, source{Sample: sample}, true, false); err != nil {
			t.Fatal(err)
		}

		want := "Next 1 bus departing from Tech:\n" +
			"  1. 05:01 PM (1 min) - Early\n"

		test_helpers.AssertString(t, out.String(), want)
	})

	t.Run("should describe the next bus in detail", func(t *testing.T) {
		out := bytes.Buffer{}

		if err := runNext(context.Background(), &out, cfg, outbound, source{Sample: sample}, true, true); err != nil {
			t.Fatal(err)
		}

		for _, want := range []string{
			"Next Bus for Ward:",
			"  Route: Intercampus (Outbound)",
			"  Arrival at Ward: 05:09 PM (9 minutes)",
		} {
			if !strings.Contains(out.String(), want) {
				t.Errorf("output should contain %s:\n%s", want, out.String())
			}
		}
	})

	t.Run("should say when no bus is coming", func(t *testing.T) {
		out := bytes.Buffer{}
		preset := outbound
		preset.Stop = "Noyes"
		preset.DisplayName = ""

		if err := runNext(context.Background(), &out, cfg, preset, source{Sample: sample}, true, false); err != nil {
			t.Fatal(err)
		}

		test_helpers.AssertString(t, out.String(), "No upcoming buses found for Noyes stop on Outbound route.\n")
	})

	t.Run("should say when the data cannot be read", func(t *testing.T) {
		out := bytes.Buffer{}

		if err := runNext(context.Background(), &out, cfg, inbound, source{Sample: filepath.Join(dir, "missing.json")}, true, false); err != nil {
			t.Fatal(err)
		}

		test_helpers.AssertString(t, out.String(), "No upcoming buses found for Tech stop or error fetching data.\n")
	})

	t.Run("should treat an empty live feed as unavailable", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"rides": []}`))
		}))
		defer ts.Close()

		out := bytes.Buffer{}

		if err := runNext(context.Background(), &out, cfg, outbound, source{URL: ts.URL}, true, false); err != nil {
			t.Fatal(err)
		}

		test_helpers.AssertString(t, out.String(), "No upcoming buses found for Ward stop or error fetching data.\n")
	})
}

func TestRunStops(t *testing.T) {
	dir, err := ioutil.TempDir("", "shuttle-times")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)

	sample := writeSample(t, dir)
	cfg := utcConfig()
	outbound, _ := cfg.Preset("outbound")

	t.Run("should list the stops in the preset's direction", func(t *testing.T) {
		out := bytes.Buffer{}

		if err := runStops(context.Background(), &out, cfg, outbound, source{Sample: sample}, false); err != nil {
			t.Fatal(err)
		}

		want := "Stops on the Outbound route:\n" +
			"  Chicago/Davis\n" +
			"  Sheridan/Noyes (IB)\n" +
			"  Ward\n"

		test_helpers.AssertString(t, out.String(), want)
	})

	t.Run("should fail when the data cannot be read", func(t *testing.T) {
		out := bytes.Buffer{}

		if err := runStops(context.Background(), &out, cfg, outbound, source{Sample: filepath.Join(dir, "missing.json")}, true); err == nil {
			t.Error("should return an error")
		}
	})
}

func TestRunBoard(t *testing.T) {
	dir, err := ioutil.TempDir("", "shuttle-times")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)

	sample := writeSample(t, dir)
	cfg := utcConfig()
	outbound, _ := cfg.Preset("outbound")

	t.Run("should list every upcoming bus at the stop", func(t *testing.T) {
		out := bytes.Buffer{}

		if err := runBoard(context.Background(), &out, cfg, outbound, source{Sample: sample}, true); err != nil {
			t.Fatal(err)
		}

		lines := strings.Split(strings.TrimSpace(out.String()), "\n")
		if len(lines) != 3 {
			t.Fatalf("should print a header and two rows:\n%s", out.String())
		}

		for i, want := range [][]string{
			{"Time", "Min", "Stop", "Vehicle", "Status"},
			{"05:09 PM", "9", "Ward", "Bus 1", "OnTime"},
			{"05:31 PM", "31", "Ward", "Bus 1", "Late"},
		} {
			for _, field := range want {
				if !strings.Contains(lines[i], field) {
					t.Errorf("line %d should contain %s: %s", i, field, lines[i])
				}
			}
		}
	})

	t.Run("should include every stop when asked", func(t *testing.T) {
		out := bytes.Buffer{}

		if err := runBoard(context.Background(), &out, cfg, outbound, source{Sample: sample}, false); err != nil {
			t.Fatal(err)
		}

		if !strings.Contains(out.String(), "Chicago/Davis") {
			t.Errorf("should list the bus at Chicago/Davis:\n%s", out.String())
		}
	})

	t.Run("should say when the data cannot be read", func(t *testing.T) {
		out := bytes.Buffer{}

		if err := runBoard(context.Background(), &out, cfg, outbound, source{Sample: filepath.Join(dir, "missing.json")}, true); err != nil {
			t.Fatal(err)
		}

		test_helpers.AssertString(t, out.String(), "No upcoming buses found for Ward stop or error fetching data.\n")
	})
}

func TestRunUpdateSite(t *testing.T) {
	dir, err := ioutil.TempDir("", "shuttle-times")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)

	page := filepath.Join(dir, "index.html")
	if err := ioutil.WriteFile(page, []byte(`<!-- OUTBOUND_DATA_PLACEHOLDER --><!-- END_OUTBOUND_DATA_PLACEHOLDER -->
<!-- INBOUND_DATA_PLACEHOLDER --><!-- END_INBOUND_DATA_PLACEHOLDER -->
<!-- TIMESTAMP_PLACEHOLDER --><!-- END_TIMESTAMP_PLACEHOLDER -->`), 0644); err != nil {
		t.Fatal(err)
	}

	service := &summary.Service{
		Logger: logger,
		Client: &test_helpers.StubClient{
			Payloads: map[string]*model.Payload{
				"23174203-507c-48fe-811a-5d13fcf7be65": test_helpers.Payload(t,
					test_helpers.Ride(model.RideActive, "Outbound", []string{"Ward"},
						test_helpers.Awaiting(0, fixedNow.Add(6*time.Minute), "OnTime"))),
			},
			Failures: map[string]int{"EBEE9228-C993-4279-B7CE-8FCA0A46CA65": http.StatusBadGateway},
		},
		Extractor: &extractor.Extractor{Logger: logger},
		Config:    utcConfig(),
		Location:  time.UTC,
		Now:       now,
	}

	u := &site.Updater{Logger: logger, Summarizer: service, Store: site.FileStore{Path: page}}

	out := bytes.Buffer{}
	if err := runUpdateSite(context.Background(), &out, u); err != nil {
		t.Fatal(err)
	}

	want := "Bus times updated at 05:00:00 PM UTC on October 01, 2025\n" +
		"  inbound: Failed to fetch data\n" +
		"  outbound: 1 bus(es)\n"
	test_helpers.AssertString(t, out.String(), want)

	updated, err := ioutil.ReadFile(page)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(updated), `<span class="minutes">6 min</span>`) {
		t.Errorf("page should list the outbound bus:\n%s", updated)
	}
}

func TestPresetArg(t *testing.T) {
	cfg := config.Default()

	t.Run("should default to outbound", func(t *testing.T) {
		name, preset, err := presetArg(cfg, nil)
		if err != nil {
			t.Fatal(err)
		}
		test_helpers.AssertString(t, name, "outbound")
		test_helpers.AssertString(t, preset.Stop, "Ward")
	})

	t.Run("should reject an unknown preset", func(t *testing.T) {
		_, _, err := presetArg(cfg, []string{"crosstown"})
		if err == nil {
			t.Fatal("should return an error")
		}
		if !strings.Contains(err.Error(), "inbound, outbound") {
			t.Errorf("error should list the presets: %s", err)
		}
	})
}
