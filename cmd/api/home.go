// cmd/api/home.go
// The home page aggregates catalog-wide counts and keeps a per-session
// visit counter. Counts are computed fresh on every request.
package main

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/haleyb/libcatalog/internal/data"
)

// Default substrings for the combined title-and-genre count shown on the
// home page, overridable via the title and genre query parameters.
const (
	defaultTitleFilter = "Harry"
	defaultGenreFilter = "Fantasy"
)

// homeHandler handles GET /.
// It reports the total number of books, copies, available copies, and
// authors, the count of books matching both the title and genre
// substring filters, and how many times this session had visited
// before, so a first visit reports zero.
func (app *applicationDependencies) homeHandler(w http.ResponseWriter, r *http.Request) {
	qs := r.URL.Query()
	title := app.readString(qs, "title", defaultTitleFilter)
	genre := app.readString(qs, "genre", defaultGenreFilter)

	numBooks, err := app.models.Books.Count()
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	numInstances, err := app.models.Instances.Count()
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	numAvailable, err := app.models.Instances.CountByStatus(data.StatusAvailable)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	numAuthors, err := app.models.Authors.Count()
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	numMatching, err := app.models.Books.CountMatching(title, genre)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	visits := app.sessions.Bump(app.sessionKey(w, r))

	response := envelope{
		"num_books":               numBooks,
		"num_instances":           numInstances,
		"num_instances_available": numAvailable,
		"num_authors":             numAuthors,
		"num_books_matching":      numMatching,
		"num_visits":              visits,
	}

	err = app.writeJSON(w, http.StatusOK, response, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// sessionKey resolves the caller's session key. Authenticated callers
// are keyed by their token ID; anonymous callers get a uuid cookie on
// first visit so their counter survives until the cookie (and with it
// the session) goes away.
func (app *applicationDependencies) sessionKey(w http.ResponseWriter, r *http.Request) string {
	if key := app.contextGetSessionKey(r); key != "" {
		return key
	}

	if cookie, err := r.Cookie("session_id"); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	key := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     "session_id",
		Value:    key,
		Path:     "/",
		MaxAge:   int(app.config.auth.tokenTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return key
}
