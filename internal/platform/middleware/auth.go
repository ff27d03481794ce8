// Package middleware holds the HTTP middleware shared across routes.
package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// Authenticator guards the mutating endpoints. Two credentials are
// accepted: a bearer JWT signed with the configured HMAC key, or a raw API
// key whose bcrypt hash matches the configured one. Either may be left
// unconfigured; when both are, the middleware rejects everything except
// when auth is disabled entirely.
type Authenticator struct {
	signingKey []byte
	apiKeyHash []byte
	logger     *slog.Logger
}

// NewAuthenticator builds the Authenticator. Empty signingKey and
// apiKeyHash disable authentication (development mode); this is logged
// loudly at construction.
func NewAuthenticator(signingKey, apiKeyHash string, logger *slog.Logger) *Authenticator {
	a := &Authenticator{logger: logger}
	if signingKey != "" {
		a.signingKey = []byte(signingKey)
	}
	if apiKeyHash != "" {
		a.apiKeyHash = []byte(apiKeyHash)
	}
	if a.signingKey == nil && a.apiKeyHash == nil {
		logger.Warn("authentication disabled: no JWT signing key or API key hash configured")
	}
	return a
}

// Require wraps a handler with the credential check.
func (a *Authenticator) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if a.signingKey == nil && a.apiKeyHash == nil {
			next.ServeHTTP(w, r)
			return
		}

		if a.validBearer(r) || a.validAPIKey(r) {
			next.ServeHTTP(w, r)
			return
		}

		a.logger.WarnContext(r.Context(), "unauthorized request",
			"path", r.URL.Path,
			"remote", r.RemoteAddr,
		)
		writeJSONError(w, http.StatusUnauthorized, "unauthorized", "missing or invalid credentials")
	})
}

func (a *Authenticator) validBearer(r *http.Request) bool {
	if a.signingKey == nil {
		return false
	}
	token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok {
		return false
	}

	parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return a.signingKey, nil
	})
	return err == nil && parsed.Valid
}

func (a *Authenticator) validAPIKey(r *http.Request) bool {
	if a.apiKeyHash == nil {
		return false
	}
	key := r.Header.Get("X-Api-Key")
	if key == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword(a.apiKeyHash, []byte(key)) == nil
}

func writeJSONError(w http.ResponseWriter, status int, code, description string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = fmt.Fprintf(w, `{"error":%q,"error_description":%q}`, code, description)
}
