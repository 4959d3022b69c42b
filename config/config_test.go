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

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardinalhq/appstatus/internal/configcache"
	"github.com/cardinalhq/appstatus/internal/healthcheck"
	"github.com/cardinalhq/appstatus/internal/statusapi"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, statusapi.DefaultPort, cfg.API.Port)
	assert.True(t, cfg.API.AuthEnabled)
	assert.Equal(t, configcache.DefaultFreshness, cfg.Cache.Freshness)
	assert.Equal(t, "./metadata.json", cfg.Metadata.Path)
	assert.Equal(t, healthcheck.DefaultPort, cfg.HealthCheck.Port)
	assert.Empty(t, cfg.Auth.Secret)
	assert.Empty(t, cfg.Revision.GitDir)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("APPSTATUS_API_PORT", "8181")
	t.Setenv("APPSTATUS_API_AUTH_ENABLED", "false")
	t.Setenv("APPSTATUS_AUTH_SECRET", "env-secret")
	t.Setenv("APPSTATUS_CACHE_FRESHNESS", "90s")
	t.Setenv("APPSTATUS_METADATA_PATH", "/etc/appstatus/metadata.json")
	t.Setenv("APPSTATUS_REVISION_GIT_DIR", "/srv/checkout")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8181, cfg.API.Port)
	assert.False(t, cfg.API.AuthEnabled)
	assert.Equal(t, "env-secret", cfg.Auth.Secret)
	assert.Equal(t, 90*time.Second, cfg.Cache.Freshness)
	assert.Equal(t, "/etc/appstatus/metadata.json", cfg.Metadata.Path)
	assert.Equal(t, "/srv/checkout", cfg.Revision.GitDir)
}
