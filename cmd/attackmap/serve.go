package main

import (
	"context"
	"fmt"

	"github.com/dd0wney/cluso-attackmap/pkg/api"
	"github.com/dd0wney/cluso-attackmap/pkg/api/middleware"
	"github.com/dd0wney/cluso-attackmap/pkg/dashboard"
	"github.com/dd0wney/cluso-attackmap/pkg/logging"
	"github.com/dd0wney/cluso-attackmap/pkg/metrics"
	"github.com/dd0wney/cluso-attackmap/pkg/server"
	"github.com/spf13/cobra"
)

func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the attack map API, GraphQL and metrics over HTTP",
		Long: `Starts the HTTP server. When a topology is configured it is loaded at
startup and reloaded on SIGHUP; otherwise data is posted to /api/data.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.serve(cmd.Context())
		},
	}

	cmd.Flags().Int("port", 0, "Listen port")
	cmd.Flags().StringSlice("cors-origins", nil, "Browser origins allowed to call the API")
	_ = a.v.BindPFlag("server.port", cmd.Flags().Lookup("port"))
	_ = a.v.BindPFlag("server.cors_origins", cmd.Flags().Lookup("cors-origins"))

	return cmd
}

func (a *app) serve(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	reg := metrics.NewRegistry()
	sess := a.newSession(reg)
	shared := dashboard.NewShared(sess)

	reload := func() error {
		if a.cfg.Data.GraphFile == "" {
			return nil
		}
		return shared.Do(func(s *dashboard.Session) error {
			return s.LoadFiles(a.cfg.Data.GraphFile, a.cfg.Data.AttacksFile)
		})
	}

	// A failed initial load leaves the session Failed and the server up,
	// so the error shows on /health and the next reload can recover
	if err := reload(); err != nil {
		a.logger.Error("initial data load failed", logging.Error(err))
	}

	cors := middleware.DefaultCORSConfig()
	cors.AllowedOrigins = a.cfg.Server.CORSOrigins

	srv, err := api.NewServer(api.Options{
		Session:         shared,
		Logger:          a.logger,
		Metrics:         reg,
		CORS:            cors,
		GraphQLMaxDepth: a.cfg.Server.GraphQLMaxDepth,
		Version:         version,
	})
	if err != nil {
		return fmt.Errorf("failed to create API server: %w", err)
	}

	httpSrv := srv.HTTPServer(a.cfg.Server.Addr(), a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.IdleTimeout)
	gs := server.NewGracefulServer(httpSrv, a.logger, a.cfg.Server.WriteTimeout)
	gs.SetReloadFunc(reload)

	return gs.Start(ctx)
}
