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

// Package statusapi serves the public HTTP surface: a greeting root route and
// an application status route backed by the config cache.
package statusapi

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/cardinalhq/appstatus/internal/auth"
	"github.com/cardinalhq/appstatus/internal/configcache"
)

const DefaultPort = 3000

var (
	meter = otel.Meter("github.com/cardinalhq/appstatus")

	requestCounter metric.Int64Counter
)

func init() {
	var err error
	requestCounter, err = meter.Int64Counter(
		"appstatus.api.requests",
		metric.WithDescription("API requests, by route and status code"),
	)
	if err != nil {
		panic(fmt.Errorf("failed to create request counter: %w", err))
	}
}

// Service is the public API server.
type Service struct {
	port        int
	cache       *configcache.Cache
	verifier    *auth.Verifier
	authEnabled bool
	server      *http.Server
}

// Config carries the settings the service needs from the process config.
type Config struct {
	Port        int  `mapstructure:"port"`
	AuthEnabled bool `mapstructure:"auth_enabled"`
}

// DefaultConfig returns the service defaults. The status route is guarded by
// default; the legacy unauthenticated behavior is opt-in via config.
func DefaultConfig() Config {
	return Config{
		Port:        DefaultPort,
		AuthEnabled: true,
	}
}

// NewService creates the API server. verifier may be nil only when auth is
// disabled in config.
func NewService(config Config, cache *configcache.Cache, verifier *auth.Verifier) (*Service, error) {
	if config.Port == 0 {
		config.Port = DefaultPort
	}
	if cache == nil {
		return nil, errors.New("statusapi: nil config cache")
	}
	if config.AuthEnabled && verifier == nil {
		return nil, errors.New("statusapi: auth enabled but no verifier provided")
	}
	return &Service{
		port:        config.Port,
		cache:       cache,
		verifier:    verifier,
		authEnabled: config.AuthEnabled,
	}, nil
}

// Handler builds the route table. Split out from Run so tests can drive the
// full middleware stack through httptest without binding a port.
func (s *Service) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.rootHandler)

	statusHandler := s.statusHandler
	if s.authEnabled {
		statusHandler = s.verifier.Middleware(statusHandler)
	}
	mux.HandleFunc("/status", statusHandler)

	return mux
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Service) Run(ctx context.Context) error {
	s.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", s.port),
		Handler: s.Handler(),
	}

	slog.Info("Starting status API server",
		slog.Int("port", s.port),
		slog.Bool("authEnabled", s.authEnabled))

	errC := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errC <- err
		}
		close(errC)
	}()

	select {
	case err := <-errC:
		return err
	case <-ctx.Done():
		return s.Stop()
	}
}

// Stop shuts the server down, allowing in-flight requests a short grace period.
func (s *Service) Stop() error {
	if s.server == nil {
		return nil
	}

	slog.Info("Stopping status API server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return s.server.Shutdown(ctx)
}

func countRequest(ctx context.Context, route string, status int) {
	requestCounter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("route", route),
		attribute.Int("status", status),
	))
}
