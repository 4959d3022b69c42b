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

package healthcheck

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProbeHandlers(t *testing.T) {
	tests := []struct {
		name            string
		status          Status
		ready           bool
		path            string
		expectedCode    int
		expectedHealthy bool
	}{
		{"healthz while starting", StatusStarting, false, "/healthz", http.StatusServiceUnavailable, false},
		{"healthz when healthy", StatusHealthy, false, "/healthz", http.StatusOK, true},
		{"healthz when unhealthy", StatusUnhealthy, false, "/healthz", http.StatusServiceUnavailable, false},
		{"readyz before ready", StatusHealthy, false, "/readyz", http.StatusServiceUnavailable, false},
		{"readyz when ready", StatusHealthy, true, "/readyz", http.StatusOK, true},
		{"livez while starting", StatusStarting, false, "/livez", http.StatusOK, true},
		{"livez when unhealthy", StatusUnhealthy, false, "/livez", http.StatusServiceUnavailable, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewServer(DefaultConfig())
			s.SetStatus(tt.status)
			s.SetReady(tt.ready)

			var handler http.HandlerFunc
			switch tt.path {
			case "/healthz":
				handler = s.healthzHandler
			case "/readyz":
				handler = s.readyzHandler
			case "/livez":
				handler = s.livezHandler
			}

			rec := httptest.NewRecorder()
			handler(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, tt.expectedCode, rec.Code)
			if tt.expectedHealthy {
				assert.JSONEq(t, `{"healthy":true}`, rec.Body.String())
			} else {
				assert.JSONEq(t, `{"healthy":false}`, rec.Body.String())
			}
		})
	}
}

func TestNewServerDefaultsPort(t *testing.T) {
	s := NewServer(Config{})
	assert.Equal(t, DefaultPort, s.port)
}
