package api

import (
	"time"

	"github.com/dd0wney/cluso-attackmap/pkg/api/middleware"
	"github.com/dd0wney/cluso-attackmap/pkg/dashboard"
	"github.com/dd0wney/cluso-attackmap/pkg/graphql"
	"github.com/dd0wney/cluso-attackmap/pkg/health"
	"github.com/dd0wney/cluso-attackmap/pkg/logging"
	"github.com/dd0wney/cluso-attackmap/pkg/metrics"
	"github.com/dd0wney/cluso-attackmap/pkg/pubsub"
)

// Options configures a Server. Session is required; everything else has
// a default.
type Options struct {
	Session         *dashboard.Shared
	Logger          logging.Logger
	Metrics         *metrics.Registry
	Health          *health.HealthChecker
	CORS            *middleware.CORSConfig
	GraphQLMaxDepth int
	MaxBodyBytes    int64
	Version         string
	// Buffered events per /api/events client
	EventBuffer int
}

// Server represents the HTTP API server
type Server struct {
	session         *dashboard.Shared
	graphqlHandler  *graphql.GraphQLHandler
	events          *pubsub.Broker[streamEvent]
	metricsRegistry *metrics.Registry
	healthChecker   *health.HealthChecker
	corsConfig      *middleware.CORSConfig
	logger          logging.Logger
	maxBodyBytes    int64
	startTime       time.Time
	version         string
}
