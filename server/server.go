// Package server serves the bus-times endpoint as a standalone HTTP server,
// alongside health and Prometheus metrics endpoints.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/nickgulson11/nickPersonalSite/dlog"
	"github.com/nickgulson11/nickPersonalSite/summary"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const BusTimesPath = "/api/bus-times"

var (
	busTimesSummary = prometheus.NewSummaryVec(prometheus.SummaryOpts{
		Name:        "req_bus_times",
		Help:        "Summary for serving bus times requests",
		ConstLabels: prometheus.Labels{"endpoint_type": "bus_times"},
	}, []string{"status"})
)

func init() {
	prometheus.MustRegister(busTimesSummary)
}

type Server struct {
	Logger  *dlog.Logger
	Service *summary.Service
}

type healthResponse struct {
	Status string `json:"status"`
}

// Router routes the bus-times, health and metrics endpoints
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc(BusTimesPath, s.handleBusTimes).Methods(http.MethodGet, http.MethodOptions)
	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	return r
}

func (s *Server) handleBusTimes(w http.ResponseWriter, r *http.Request) {
	s.Logger.Debug("handleBusTimes")

	reqStart := time.Now()

	resp := s.Service.BusTimes(r.Context(), r.Method, r.URL.Query().Get("route"))

	defer func() {
		busTimesSummary.With(prometheus.Labels{"status": strconv.Itoa(resp.StatusCode)}).Observe(time.Since(reqStart).Seconds())
	}()

	for name, value := range resp.Headers {
		w.Header().Set(name, value)
	}
	w.WriteHeader(resp.StatusCode)

	if _, err := w.Write([]byte(resp.Body)); err != nil {
		s.Logger.Printf("cannot write bus times response: %s", err)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(healthResponse{Status: "ok"})
}

// ListenAndServe serves on addr until ctx is done, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errs := make(chan error, 1)
	go func() {
		errs <- srv.ListenAndServe()
	}()

	s.Logger.Printf("server listening on %s", addr)

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
	}

	s.Logger.Print("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	if err := <-errs; err != nil && err != http.ErrServerClosed {
		return err
	}

	return nil
}
