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

// Package auth implements the bearer-token guard for protected endpoints.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jellydator/ttlcache/v3"
)

// DefaultCacheTTL bounds how long a verified token is trusted without
// re-checking the signature.
const DefaultCacheTTL = time.Minute

// ErrNotConfigured is returned when no signing secret has been provided.
var ErrNotConfigured = errors.New("bearer authentication not configured: no signing secret")

// Config carries the guard settings. The signing secret comes from
// configuration or environment; there is no compiled-in default.
type Config struct {
	Secret   string        `mapstructure:"secret"`
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

func DefaultConfig() Config {
	return Config{CacheTTL: DefaultCacheTTL}
}

// Verifier validates HS256-signed bearer tokens against a shared secret.
// Successful verifications are cached so hot endpoints do not redo the HMAC
// on every request; failures are never cached.
type Verifier struct {
	secret []byte
	ttl    time.Duration
	cache  *ttlcache.Cache[string, jwt.MapClaims]
}

// NewVerifier creates a Verifier for the given signing secret. cacheTTL <= 0
// selects DefaultCacheTTL.
func NewVerifier(secret string, cacheTTL time.Duration) *Verifier {
	if cacheTTL <= 0 {
		cacheTTL = DefaultCacheTTL
	}
	cache := ttlcache.New(
		ttlcache.WithTTL[string, jwt.MapClaims](cacheTTL),
	)
	go cache.Start()
	return &Verifier{
		secret: []byte(secret),
		ttl:    cacheTTL,
		cache:  cache,
	}
}

// Close stops the cache background goroutine.
func (v *Verifier) Close() {
	v.cache.Stop()
}

// Verify checks the token signature and registered claims, returning the
// token's claims on success.
func (v *Verifier) Verify(tokenString string) (jwt.MapClaims, error) {
	if len(v.secret) == 0 {
		return nil, ErrNotConfigured
	}

	if item := v.cache.Get(tokenString); item != nil {
		return item.Value(), nil
	}

	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return v.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("token validation failed: %w", err)
	}
	if !token.Valid {
		return nil, errors.New("token is not valid")
	}

	v.cache.Set(tokenString, claims, v.cacheTTLFor(claims))
	return claims, nil
}

// cacheTTLFor caps the cache entry lifetime at the token's own expiry so a
// token is never trusted past its exp claim.
func (v *Verifier) cacheTTLFor(claims jwt.MapClaims) time.Duration {
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return ttlcache.DefaultTTL
	}
	if remaining := time.Until(exp.Time); remaining > 0 && remaining < v.ttl {
		return remaining
	}
	return ttlcache.DefaultTTL
}
