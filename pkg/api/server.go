// Package api serves the dashboard session over HTTP: a JSON API for the
// draw plan, view actions and risk figures, a GraphQL endpoint, health
// probes and Prometheus metrics.
package api

import (
	"errors"
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/dd0wney/cluso-attackmap/pkg/api/middleware"
	"github.com/dd0wney/cluso-attackmap/pkg/dashboard"
	"github.com/dd0wney/cluso-attackmap/pkg/graphql"
	"github.com/dd0wney/cluso-attackmap/pkg/health"
	"github.com/dd0wney/cluso-attackmap/pkg/logging"
	"github.com/dd0wney/cluso-attackmap/pkg/pubsub"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewServer creates a new API server
func NewServer(opts Options) (*Server, error) {
	if opts.Session == nil {
		return nil, errors.New("api server requires a session")
	}

	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	logger = logger.With(logging.Component("api"))

	schema, err := graphql.GenerateSchema(opts.Session, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to generate GraphQL schema: %w", err)
	}

	s := &Server{
		session:         opts.Session,
		graphqlHandler:  graphql.NewGraphQLHandler(schema, opts.GraphQLMaxDepth, logger),
		events:          pubsub.NewBroker[streamEvent](opts.EventBuffer),
		metricsRegistry: opts.Metrics,
		healthChecker:   opts.Health,
		corsConfig:      opts.CORS,
		logger:          logger,
		maxBodyBytes:    opts.MaxBodyBytes,
		startTime:       time.Now(),
		version:         opts.Version,
	}

	if s.corsConfig == nil {
		s.corsConfig = middleware.DefaultCORSConfig()
	}
	if s.maxBodyBytes <= 0 {
		s.maxBodyBytes = middleware.DefaultMaxBodyBytes
	}
	if s.version == "" {
		s.version = "dev"
	}
	if s.healthChecker == nil {
		s.healthChecker = health.NewHealthChecker()
		s.healthChecker.SetVersion(s.version)
		s.registerHealthChecks()
	}

	opts.Session.Do(func(sess *dashboard.Session) error {
		sess.OnSelect(func(ev dashboard.SelectionEvent) {
			s.events.Publish(streamEvent{Name: eventSelection, Data: ev})
		})
		sess.OnGraphChange(func(ev dashboard.GraphChangeEvent) {
			s.events.Publish(streamEvent{Name: eventGraph, Data: ev})
		})
		return nil
	})

	return s, nil
}

// Close ends open event streams so a graceful shutdown can drain them
func (s *Server) Close() {
	s.events.Close()
}

// registerHealthChecks wires the session into the health checker
func (s *Server) registerHealthChecks() {
	sessionCheck := health.SessionCheck(func() health.SessionState {
		snap := s.session.Snapshot()
		st := health.SessionState{
			State: snap.State.String(),
			Ready: snap.State == dashboard.StateReady,
		}
		if snap.Error != "" {
			st.Err = errors.New(snap.Error)
		}
		return st
	})

	s.healthChecker.RegisterCheck("session", sessionCheck)
	s.healthChecker.RegisterReadinessCheck("session", sessionCheck)
	s.healthChecker.RegisterCheck("data", health.DataCheck(func() (int, int, int) {
		snap := s.session.Snapshot()
		return snap.Nodes, snap.Edges, snap.Attacks
	}))
	s.healthChecker.RegisterLivenessCheck("memory", health.MemoryCheck(func() (uint64, uint64) {
		var m runtime.MemStats
		runtime.ReadMemStats(&m)
		return m.Alloc, m.Sys
	}))
}

// Routes registers every endpoint on a new mux
func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	// Health and metrics
	mux.HandleFunc("GET /health", s.healthChecker.HTTPHandler())
	mux.HandleFunc("GET /health/ready", s.healthChecker.ReadinessHandler())
	mux.HandleFunc("GET /health/live", s.healthChecker.LivenessHandler())
	if s.metricsRegistry != nil {
		mux.Handle("GET /metrics", promhttp.HandlerFor(s.metricsRegistry.GetPrometheusRegistry(), promhttp.HandlerOpts{}))
	}

	// Session and data
	mux.HandleFunc("GET /api/info", s.handleInfo)
	mux.HandleFunc("GET /api/session", s.handleSession)
	mux.Handle("POST /api/data", middleware.BodySizeLimit(s.maxBodyBytes)(http.HandlerFunc(s.handleLoadData)))
	mux.HandleFunc("GET /api/graph", s.handleGraph)
	mux.HandleFunc("GET /api/graph/stats", s.handleGraphStats)
	mux.HandleFunc("GET /api/nodes", s.handleNodes)
	mux.HandleFunc("GET /api/plan", s.handlePlan)

	// Graph edits
	limit := middleware.BodySizeLimit(s.maxBodyBytes)
	mux.Handle("POST /api/graph/nodes", limit(http.HandlerFunc(s.handleAddNode)))
	mux.HandleFunc("DELETE /api/graph/nodes/{id}", s.handleRemoveNode)
	mux.Handle("POST /api/graph/edges", limit(http.HandlerFunc(s.handleAddEdge)))
	mux.HandleFunc("DELETE /api/graph/edges/{source}/{target}", s.handleRemoveEdge)

	// Risk
	mux.HandleFunc("GET /api/attacks", s.handleAttacks)
	mux.HandleFunc("GET /api/attacks/{id}", s.handleAttack)
	mux.HandleFunc("GET /api/risk", s.handleRisk)

	// View actions
	mux.HandleFunc("POST /api/view/zoom-in", s.viewAction((*dashboard.Session).ZoomIn))
	mux.HandleFunc("POST /api/view/zoom-out", s.viewAction((*dashboard.Session).ZoomOut))
	mux.HandleFunc("POST /api/view/reset", s.viewAction((*dashboard.Session).Reset))
	mux.HandleFunc("POST /api/view/pan", s.handlePan)
	mux.HandleFunc("POST /api/view/click", s.handleClick)
	mux.HandleFunc("GET /api/events", s.handleEvents)

	// GraphQL handles its own methods and preflight
	mux.Handle("/graphql", s.graphqlHandler)

	return mux
}

// Handler returns the routes wrapped in the middleware chain
func (s *Server) Handler() http.Handler {
	var handler http.Handler = s.Routes()

	// Metrics sits directly on the mux so the matched pattern is visible
	if s.metricsRegistry != nil {
		handler = s.metricsMiddleware(handler)
	}
	handler = s.corsMiddleware(handler)
	handler = s.loggingMiddleware(handler)
	handler = s.requestIDMiddleware(handler)
	handler = s.panicRecoveryMiddleware(handler)

	return handler
}

// HTTPServer builds an http.Server for addr with the given timeouts
func (s *Server) HTTPServer(addr string, readTimeout, writeTimeout, idleTimeout time.Duration) *http.Server {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadTimeout:       readTimeout,
		ReadHeaderTimeout: readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		MaxHeaderBytes:    1 << 20,
	}
	srv.RegisterOnShutdown(s.Close)
	return srv
}
