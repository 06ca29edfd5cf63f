// cmd/api/routes.go
package main

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
)

// routes registers all HTTP endpoints and returns the configured router
// wrapped in the recoverPanic, rateLimit, and authenticate middlewares.
//
// Middleware chain (outermost → innermost):
//
//	recoverPanic → rateLimit → authenticate → router
//
// Read routes are public; every catalog write requires an authenticated
// user carrying the can_mark_returned staff permission.
func (app *applicationDependencies) routes() http.Handler {
	router := httprouter.New()

	// Override the default httprouter error handlers to return JSON responses.
	router.NotFound = http.HandlerFunc(app.notFoundResponse)
	router.MethodNotAllowed = http.HandlerFunc(app.methodNotAllowedResponse)

	// Home page: catalog-wide counts plus the per-session visit counter.
	router.HandlerFunc(http.MethodGet, "/", app.homeHandler)

	// Book routes
	router.HandlerFunc(http.MethodGet, "/v1/books", app.listBooksHandler)
	router.HandlerFunc(http.MethodGet, "/v1/books/:id", app.showBookHandler)
	router.HandlerFunc(http.MethodPost, "/v1/books", app.requireStaff(app.createBookHandler))
	router.HandlerFunc(http.MethodPatch, "/v1/books/:id", app.requireStaff(app.updateBookHandler))
	router.HandlerFunc(http.MethodDelete, "/v1/books/:id", app.requireStaff(app.deleteBookHandler))

	// Author routes
	router.HandlerFunc(http.MethodGet, "/v1/authors", app.listAuthorsHandler)
	router.HandlerFunc(http.MethodGet, "/v1/authors/:id", app.showAuthorHandler)
	router.HandlerFunc(http.MethodPost, "/v1/authors", app.requireStaff(app.createAuthorHandler))
	router.HandlerFunc(http.MethodPatch, "/v1/authors/:id", app.requireStaff(app.updateAuthorHandler))
	router.HandlerFunc(http.MethodDelete, "/v1/authors/:id", app.requireStaff(app.deleteAuthorHandler))

	// Genre routes
	router.HandlerFunc(http.MethodGet, "/v1/genres", app.listGenresHandler)
	router.HandlerFunc(http.MethodPost, "/v1/genres", app.requireStaff(app.createGenreHandler))
	router.HandlerFunc(http.MethodPatch, "/v1/genres/:id", app.requireStaff(app.updateGenreHandler))
	router.HandlerFunc(http.MethodDelete, "/v1/genres/:id", app.requireStaff(app.deleteGenreHandler))

	// Language routes
	router.HandlerFunc(http.MethodGet, "/v1/languages", app.listLanguagesHandler)
	router.HandlerFunc(http.MethodPost, "/v1/languages", app.requireStaff(app.createLanguageHandler))
	router.HandlerFunc(http.MethodPatch, "/v1/languages/:id", app.requireStaff(app.updateLanguageHandler))
	router.HandlerFunc(http.MethodDelete, "/v1/languages/:id", app.requireStaff(app.deleteLanguageHandler))

	// Book copy routes. Copies are addressed by uuid token.
	router.HandlerFunc(http.MethodGet, "/v1/instances", app.requireStaff(app.listInstancesHandler))
	router.HandlerFunc(http.MethodGet, "/v1/instances/:id", app.showInstanceHandler)
	router.HandlerFunc(http.MethodPost, "/v1/instances", app.requireStaff(app.createInstanceHandler))
	router.HandlerFunc(http.MethodPatch, "/v1/instances/:id", app.requireStaff(app.updateInstanceHandler))
	router.HandlerFunc(http.MethodDelete, "/v1/instances/:id", app.requireStaff(app.deleteInstanceHandler))

	// Loan listings and the renewal workflow.
	router.HandlerFunc(http.MethodGet, "/v1/loans", app.requireStaff(app.listAllLoansHandler))
	router.HandlerFunc(http.MethodGet, "/v1/loans/mine", app.requireAuthenticatedUser(app.listMyLoansHandler))
	router.HandlerFunc(http.MethodGet, "/v1/instances/:id/renew", app.requireStaff(app.showRenewalHandler))
	router.HandlerFunc(http.MethodPost, "/v1/instances/:id/renew", app.requireStaff(app.renewLoanHandler))

	// Accounts and authentication.
	router.HandlerFunc(http.MethodPost, "/v1/users", app.registerUserHandler)
	router.HandlerFunc(http.MethodGet, "/v1/users", app.requireStaff(app.listUsersHandler))
	router.HandlerFunc(http.MethodPost, "/v1/tokens/authentication", app.createAuthenticationTokenHandler)

	// Wrap with middleware: recoverPanic is outermost so it catches panics
	// from rateLimit, authenticate, and router alike.
	return app.recoverPanic(app.rateLimit(app.authenticate(router)))
}
