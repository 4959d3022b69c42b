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

package auth

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/cardinalhq/appstatus/internal/logctx"
)

const unauthorizedMessage = "Unauthorized: Missing or invalid token"

// Context key for storing verified token claims
type contextKey struct{}

var claimsKey = contextKey{}

// WithClaims returns a new context with the verified claims stored in it.
func WithClaims(ctx context.Context, claims jwt.MapClaims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

// ClaimsFromContext retrieves verified claims from the context.
func ClaimsFromContext(ctx context.Context) (jwt.MapClaims, bool) {
	claims, ok := ctx.Value(claimsKey).(jwt.MapClaims)
	return claims, ok
}

// Middleware rejects requests that do not carry a validly signed bearer
// token, responding with a fixed 401 JSON body. The verification detail is
// logged server side only.
func (v *Verifier) Middleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tokenString, err := extractBearerToken(r.Header.Get("Authorization"))
		if err != nil {
			logctx.FromContext(r.Context()).Warn("Rejected request without bearer token",
				slog.String("path", r.URL.Path),
				slog.String("error", err.Error()))
			writeUnauthorized(w)
			return
		}

		claims, err := v.Verify(tokenString)
		if err != nil {
			logctx.FromContext(r.Context()).Warn("Rejected request with invalid bearer token",
				slog.String("path", r.URL.Path),
				slog.String("error", err.Error()))
			writeUnauthorized(w)
			return
		}

		next(w, r.WithContext(WithClaims(r.Context(), claims)))
	}
}

func extractBearerToken(authHeader string) (string, error) {
	const bearerPrefix = "Bearer "

	if authHeader == "" {
		return "", errMissingHeader
	}
	if !strings.HasPrefix(authHeader, bearerPrefix) {
		return "", errMalformedHeader
	}
	token := strings.TrimPrefix(authHeader, bearerPrefix)
	if token == "" {
		return "", errEmptyToken
	}
	return token, nil
}

var (
	errMissingHeader   = errors.New("missing Authorization header")
	errMalformedHeader = errors.New("authorization header must start with 'Bearer '")
	errEmptyToken      = errors.New("empty bearer token")
)

func writeUnauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	if err := json.NewEncoder(w).Encode(map[string]string{"error": unauthorizedMessage}); err != nil {
		slog.Error("Failed to encode unauthorized response", slog.Any("error", err))
	}
}
