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

package statusapi

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
)

const internalErrorMessage = "Internal Server Error"

// statusEntry is one element of the "my-application" array in the status
// response body.
type statusEntry struct {
	Description string `json:"description"`
	Version     string `json:"version"`
	SHA         string `json:"sha"`
}

type statusResponse struct {
	MyApplication []statusEntry `json:"my-application"`
}

func (s *Service) rootHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(r.Context(), w, "/", http.StatusOK, map[string]string{"message": "Hello World"})
}

func (s *Service) statusHandler(w http.ResponseWriter, r *http.Request) {
	snap, err := s.cache.Snapshot(r.Context())
	if err != nil {
		// Detail was already logged by the cache; the client gets a fixed body.
		writeJSON(r.Context(), w, "/status", http.StatusInternalServerError,
			map[string]string{"error": internalErrorMessage})
		return
	}

	resp := statusResponse{
		MyApplication: []statusEntry{
			{
				Description: snap.Metadata.Description(),
				Version:     snap.Metadata.Version() + "-" + buildNumber(),
				SHA:         snap.RevisionHash,
			},
		},
	}
	writeJSON(r.Context(), w, "/status", http.StatusOK, resp)
}

func buildNumber() string {
	if v := os.Getenv("BUILD_NUMBER"); v != "" {
		return v
	}
	return "0"
}

func writeJSON(ctx context.Context, w http.ResponseWriter, route string, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("Failed to encode response", slog.String("route", route), slog.Any("error", err))
	}
	countRequest(ctx, route, status)
}
