// Copyright (C) 2025-2026 CardinalHQ, Inc
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, version 3.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <http://www.gnu.org/licenses/>.

package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/cardinalhq/appstatus/config"
	"github.com/cardinalhq/appstatus/internal/appmeta"
	"github.com/cardinalhq/appstatus/internal/auth"
	"github.com/cardinalhq/appstatus/internal/configcache"
	"github.com/cardinalhq/appstatus/internal/debugging"
	"github.com/cardinalhq/appstatus/internal/healthcheck"
	"github.com/cardinalhq/appstatus/internal/revision"
	"github.com/cardinalhq/appstatus/internal/statusapi"
)

func init() {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "start the status API server",
		RunE: func(_ *cobra.Command, _ []string) error {
			servicename := "appstatus"
			ctx, doneFx, err := setupTelemetry(servicename)
			if err != nil {
				return fmt.Errorf("failed to setup telemetry: %w", err)
			}

			defer func() {
				if err := doneFx(); err != nil {
					slog.Error("Error shutting down telemetry", slog.Any("error", err))
				}
			}()

			cfg, err := config.Load()
			if err != nil {
				slog.Error("Failed to load configuration", slog.Any("error", err))
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			// Start pprof server
			debugging.RunPprof(ctx, cfg.Pprof)

			// Start health check server
			healthServer := healthcheck.NewServer(cfg.HealthCheck)

			cache := configcache.New(
				appmeta.NewFileReader(cfg.Metadata.Path),
				revision.NewGitSource(cfg.Revision.GitDir),
				configcache.WithFreshness(cfg.Cache.Freshness),
			)

			var verifier *auth.Verifier
			if cfg.API.AuthEnabled {
				if cfg.Auth.Secret == "" {
					return fmt.Errorf("auth is enabled but no signing secret is configured (APPSTATUS_AUTH_SECRET)")
				}
				verifier = auth.NewVerifier(cfg.Auth.Secret, cfg.Auth.CacheTTL)
				defer verifier.Close()
			} else {
				slog.Warn("Bearer authentication disabled; /status is reachable without a token")
			}

			service, err := statusapi.NewService(cfg.API, cache, verifier)
			if err != nil {
				slog.Error("Failed to create status API service", slog.Any("error", err))
				return fmt.Errorf("failed to create status API service: %w", err)
			}

			healthServer.SetStatus(healthcheck.StatusHealthy)
			healthServer.SetReady(true)

			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				return healthServer.Start(gctx)
			})
			g.Go(func() error {
				return service.Run(gctx)
			})
			return g.Wait()
		},
	}

	rootCmd.AddCommand(cmd)
}
