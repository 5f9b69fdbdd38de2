// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"blogapi/internal/models"
	"blogapi/internal/token"
)

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey string

const (
	// UserKey is the context key for the authenticated user.
	UserKey contextKey = "user"
)

// UserFinder resolves a token subject to a user record. Returns (nil, nil)
// when the user no longer exists.
type UserFinder interface {
	FindByID(id uuid.UUID) (*models.User, error)
}

// Guard verifies bearer tokens and loads the authenticated user. Every
// failure mode — missing header, malformed token, bad signature, expired
// token, deleted user — produces the same 401 response so callers can't
// probe which check failed.
type Guard struct {
	tokens *token.Manager
	users  UserFinder
}

// NewGuard creates a Guard backed by the given token manager and user lookup.
func NewGuard(tokens *token.Manager, users UserFinder) *Guard {
	return &Guard{tokens: tokens, users: users}
}

// RequireAuth rejects requests without a valid bearer token. On success
// the resolved user is stored in the request context for handlers.
func (g *Guard) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := g.resolve(r)
		if user == nil {
			unauthorized(w)
			return
		}
		r = r.WithContext(context.WithValue(r.Context(), UserKey, user))
		next.ServeHTTP(w, r)
	})
}

// OptionalAuth attaches the user to the context when a valid bearer token
// is present, and lets the request through anonymously otherwise. Used on
// endpoints that accept both signed and anonymous callers.
func (g *Guard) OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if user := g.resolve(r); user != nil {
			r = r.WithContext(context.WithValue(r.Context(), UserKey, user))
		}
		next.ServeHTTP(w, r)
	})
}

// resolve extracts and verifies the bearer token and loads the user.
// Returns nil on any failure.
func (g *Guard) resolve(r *http.Request) *models.User {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return nil
	}
	raw := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	if raw == "" {
		return nil
	}

	userID, _, err := g.tokens.Verify(raw)
	if err != nil {
		return nil
	}

	user, err := g.users.FindByID(userID)
	if err != nil || user == nil {
		return nil
	}
	return user
}

// RequireAdmin returns 403 if the authenticated user is not an admin.
// Must be applied after RequireAuth.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := UserFromCtx(r.Context())
		if user == nil || !user.IsAdmin() {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusForbidden)
			w.Write([]byte(`{"success":false,"error":"Forbidden"}`))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// UserFromCtx extracts the authenticated user from the request context.
// Returns nil if the request is anonymous.
func UserFromCtx(ctx context.Context) *models.User {
	user, _ := ctx.Value(UserKey).(*models.User)
	return user
}

// unauthorized writes the uniform 401 response. The body never varies with
// the failure cause.
func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"success":false,"error":"Not authorized"}`))
}
