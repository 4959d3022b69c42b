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

// Package configcache serves application metadata and the deployed revision
// hash through a freshness-window cache, so the status endpoint does not hit
// the filesystem or fork git on every request.
package configcache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/cardinalhq/appstatus/internal/appmeta"
	"github.com/cardinalhq/appstatus/internal/logctx"
	"github.com/cardinalhq/appstatus/internal/revision"
)

// DefaultFreshness is how long a snapshot is served without re-reading the
// metadata file or re-invoking the revision source.
const DefaultFreshness = 5 * time.Minute

var (
	// ErrConfigLoad indicates the metadata document could not be read or parsed.
	ErrConfigLoad = errors.New("failed to load configuration")
	// ErrRevisionLookup indicates the revision source failed.
	ErrRevisionLookup = errors.New("failed to look up revision")
)

var (
	meter = otel.Meter("github.com/cardinalhq/appstatus")

	refreshCounter metric.Int64Counter
	hitCounter     metric.Int64Counter
)

func init() {
	var err error
	refreshCounter, err = meter.Int64Counter(
		"appstatus.configcache.refreshes",
		metric.WithDescription("Snapshot refresh attempts, by outcome"),
	)
	if err != nil {
		panic(fmt.Errorf("failed to create refresh counter: %w", err))
	}
	hitCounter, err = meter.Int64Counter(
		"appstatus.configcache.hits",
		metric.WithDescription("Snapshot requests served from cache"),
	)
	if err != nil {
		panic(fmt.Errorf("failed to create hit counter: %w", err))
	}
}

// Snapshot is the unit the cache hands out. Metadata and RevisionHash are
// always from the same refresh; callers never observe one without the other.
type Snapshot struct {
	Metadata     appmeta.Document
	RevisionHash string
	LastUpdated  int64 // epoch millis of the refresh that produced this snapshot
}

// Cache is a process-wide read-through cache over the metadata reader and
// the revision source. The zero value is not usable; construct with New.
type Cache struct {
	reader    appmeta.Reader
	source    revision.Source
	freshness time.Duration
	nowFn     func() time.Time

	mu       sync.Mutex
	snapshot Snapshot
	loaded   bool
}

// Option configures a Cache.
type Option func(*Cache)

// WithFreshness overrides the default freshness window.
func WithFreshness(d time.Duration) Option {
	return func(c *Cache) {
		if d > 0 {
			c.freshness = d
		}
	}
}

// WithClock overrides the time source. Tests use this to step through the
// freshness window without sleeping.
func WithClock(nowFn func() time.Time) Option {
	return func(c *Cache) {
		if nowFn != nil {
			c.nowFn = nowFn
		}
	}
}

// New creates a Cache over the given metadata reader and revision source.
func New(reader appmeta.Reader, source revision.Source, opts ...Option) *Cache {
	c := &Cache{
		reader:    reader,
		source:    source,
		freshness: DefaultFreshness,
		nowFn:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Snapshot returns the current snapshot, refreshing it first if the held one
// has aged out. The mutex is held across the refresh, so at most one metadata
// read and one revision invocation are in flight at any instant; concurrent
// callers serialize and observe the freshly committed snapshot without
// repeating the I/O.
func (c *Cache) Snapshot(ctx context.Context) (Snapshot, error) {
	now := c.nowFn().UnixMilli()

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.loaded && now-c.snapshot.LastUpdated < c.freshness.Milliseconds() {
		hitCounter.Add(ctx, 1)
		return c.snapshot, nil
	}

	doc, err := c.reader.Read(ctx)
	if err != nil {
		logctx.FromContext(ctx).Error("Configuration loading failed", slog.Any("error", err))
		refreshCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", "config_load_error")))
		return Snapshot{}, fmt.Errorf("%w: %w", ErrConfigLoad, err)
	}

	sha, err := c.source.Revision(ctx)
	if err != nil {
		logctx.FromContext(ctx).Error("Revision lookup failed", slog.Any("error", err))
		refreshCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", "revision_lookup_error")))
		return Snapshot{}, fmt.Errorf("%w: %w", ErrRevisionLookup, err)
	}

	c.snapshot = Snapshot{
		Metadata:     doc,
		RevisionHash: sha,
		LastUpdated:  now,
	}
	c.loaded = true

	refreshCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", "success")))
	return c.snapshot, nil
}
