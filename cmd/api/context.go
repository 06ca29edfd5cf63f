// cmd/api/context.go
// Request-scoped values: the authenticated user and the session key are
// stashed on the request context by the authenticate middleware and read
// back by handlers, so no handler ever re-parses credentials.
package main

import (
	"context"
	"net/http"

	"github.com/haleyb/libcatalog/internal/data"
)

// contextKey is a private type so our context keys can never collide
// with keys set by other packages.
type contextKey string

const (
	userContextKey       = contextKey("user")
	sessionKeyContextKey = contextKey("sessionKey")
)

// contextSetUser returns a copy of the request with user stored in its context.
func (app *applicationDependencies) contextSetUser(r *http.Request, user *data.User) *http.Request {
	ctx := context.WithValue(r.Context(), userContextKey, user)
	return r.WithContext(ctx)
}

// contextGetUser retrieves the user from the request context. Every
// request passes through authenticate, which always stores a user (the
// anonymous user at minimum), so a missing value is a programming error.
func (app *applicationDependencies) contextGetUser(r *http.Request) *data.User {
	user, ok := r.Context().Value(userContextKey).(*data.User)
	if !ok {
		panic("missing user value in request context")
	}
	return user
}

// contextSetSessionKey returns a copy of the request carrying the
// caller's session key (token ID or anonymous cookie value).
func (app *applicationDependencies) contextSetSessionKey(r *http.Request, key string) *http.Request {
	ctx := context.WithValue(r.Context(), sessionKeyContextKey, key)
	return r.WithContext(ctx)
}

// contextGetSessionKey retrieves the session key, or "" when the caller
// has no session yet.
func (app *applicationDependencies) contextGetSessionKey(r *http.Request) string {
	key, _ := r.Context().Value(sessionKeyContextKey).(string)
	return key
}
