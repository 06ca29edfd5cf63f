package main

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haleyb/libcatalog/internal/auth"
	"github.com/haleyb/libcatalog/internal/session"
)

// newTestApp builds an application with no database behind it. The
// middleware under test never reaches the model layer.
func newTestApp(t *testing.T) *applicationDependencies {
	t.Helper()

	var settings serverConfig
	settings.auth.secret = "test-secret-do-not-use-in-production"
	settings.auth.tokenTTL = time.Hour

	return &applicationDependencies{
		config:   settings,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		sessions: session.NewStore(time.Hour),
	}
}

// mintToken issues a token signed with the test app's secret.
func mintToken(t *testing.T, app *applicationDependencies, userID int64, staff bool) string {
	t.Helper()
	token, err := auth.GenerateToken([]byte(app.config.auth.secret), userID, "Terry", "Pratchett", staff, time.Hour)
	require.NoError(t, err)
	return token
}

// protectedProbe returns a staff-gated handler that records whether it ran.
func protectedProbe(app *applicationDependencies, invoked *bool) http.Handler {
	probe := func(w http.ResponseWriter, r *http.Request) {
		*invoked = true
		w.WriteHeader(http.StatusOK)
	}
	return app.authenticate(app.requireStaff(probe))
}

func TestWriteRoutesRejectAnonymousCallers(t *testing.T) {
	app := newTestApp(t)
	invoked := false
	handler := protectedProbe(app, &invoked)

	req := httptest.NewRequest(http.MethodPost, "/v1/books", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, invoked, "handler must not run for anonymous callers")
}

func TestWriteRoutesRejectNonStaffCallers(t *testing.T) {
	app := newTestApp(t)
	invoked := false
	handler := protectedProbe(app, &invoked)

	req := httptest.NewRequest(http.MethodPost, "/v1/books", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, app, 7, false))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.False(t, invoked, "handler must not run without the staff permission")
}

func TestWriteRoutesAdmitStaffCallers(t *testing.T) {
	app := newTestApp(t)
	invoked := false
	handler := protectedProbe(app, &invoked)

	req := httptest.NewRequest(http.MethodPost, "/v1/books", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, app, 7, true))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, invoked)
}

func TestAuthenticateResolvesUserFromBearerHeader(t *testing.T) {
	app := newTestApp(t)

	handler := app.authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := app.contextGetUser(r)
		assert.Equal(t, int64(7), user.ID)
		assert.Equal(t, "Pratchett, Terry", user.DisplayName())
		assert.NotEmpty(t, app.contextGetSessionKey(r))
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, app, 7, false))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthenticateResolvesUserFromCookie(t *testing.T) {
	app := newTestApp(t)

	handler := app.authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := app.contextGetUser(r)
		assert.Equal(t, int64(9), user.ID)
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: mintToken(t, app, 9, false)})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthenticateTreatsMissingTokenAsAnonymous(t *testing.T) {
	app := newTestApp(t)

	handler := app.authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, app.contextGetUser(r).IsAnonymous())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthenticateRejectsBadTokens(t *testing.T) {
	app := newTestApp(t)

	handler := app.authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run with a bad token")
	}))

	for name, header := range map[string]string{
		"garbage token": "Bearer not.a.token",
		"wrong scheme":  "Basic dXNlcjpwYXNz",
	} {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set("Authorization", header)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestRateLimitEventuallyRejects(t *testing.T) {
	app := newTestApp(t)

	handler := app.rateLimit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	// Burst capacity is 4; the fifth immediate request must be limited.
	var last int
	for range 5 {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.1:4000"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		last = rec.Code
	}

	assert.Equal(t, http.StatusTooManyRequests, last)
}
