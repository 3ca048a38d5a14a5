package metrics

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// Discard reasons recorded on gametime_sessions_discarded_total.
const (
	DiscardManual    = "manual"
	DiscardClockSkew = "clock_skew"
	DiscardOverlong  = "overlong"
)

var (
	// Session metrics
	SessionsStarted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "gametime_sessions_started_total",
			Help: "Total number of tracking sessions started",
		},
	)

	SessionsCommitted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "gametime_sessions_committed_total",
			Help: "Total number of sessions committed to the ledger",
		},
	)

	SessionsDiscarded = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gametime_sessions_discarded_total",
			Help: "Total number of sessions discarded without committing",
		},
		[]string{"reason"},
	)

	CommittedTenths = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "gametime_committed_tenths_total",
			Help: "Total committed play time in tenths of a second",
		},
	)

	SessionActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "gametime_session_active",
			Help: "Whether a tracking session is currently active (0 or 1)",
		},
	)
)

func init() {
	prometheus.MustRegister(
		SessionsStarted,
		SessionsCommitted,
		SessionsDiscarded,
		CommittedTenths,
		SessionActive,
	)
}

// Server exposes the Prometheus metrics endpoint.
type Server struct {
	server *http.Server
	logger zerolog.Logger
}

// NewServer creates a metrics server bound to addr.
func NewServer(addr string, logger zerolog.Logger) *Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	return &Server{
		server: &http.Server{Addr: addr, Handler: mux},
		logger: logger.With().Str("component", "metrics").Logger(),
	}
}

// Start begins serving metrics in the background.
func (s *Server) Start() error {
	listener, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.server.Addr, err)
	}

	go func() {
		if err := s.server.Serve(listener); err != nil && err != http.ErrServerClosed {
			s.logger.Error().Err(err).Msg("Metrics server error")
		}
	}()

	s.logger.Info().Str("addr", s.server.Addr).Msg("Metrics server started")
	return nil
}

// Stop gracefully shuts down the metrics server.
func (s *Server) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}
