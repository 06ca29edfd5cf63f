// cmd/api/tokens.go
// Authentication token issuance. A successful login returns a signed
// token which later requests present as a bearer header or cookie.
package main

import (
	"errors"
	"net/http"

	"github.com/haleyb/libcatalog/internal/auth"
	"github.com/haleyb/libcatalog/internal/data"
	"github.com/haleyb/libcatalog/internal/validator"
)

// createAuthenticationTokenHandler handles POST /v1/tokens/authentication.
// It verifies the email/password pair and mints a token carrying the
// user's identity and staff permission.
func (app *applicationDependencies) createAuthenticationTokenHandler(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	v := validator.New()
	data.ValidateEmail(v, input.Email)
	v.Check(input.Password != "", "password", "must be provided")
	if !v.Valid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}

	user, err := app.models.Users.GetByEmail(input.Email)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			// Same response as a bad password so the endpoint doesn't
			// reveal which emails are registered.
			app.invalidCredentialsResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	match, err := user.Password.Matches(input.Password)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
	if !match {
		app.invalidCredentialsResponse(w, r)
		return
	}

	token, err := auth.GenerateToken(
		[]byte(app.config.auth.secret),
		user.ID,
		user.FirstName,
		user.LastName,
		user.CanMarkReturned,
		app.config.auth.tokenTTL,
	)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	// Also set the token as a cookie so browser clients authenticate
	// without managing the header themselves.
	http.SetCookie(w, &http.Cookie{
		Name:     "token",
		Value:    token,
		Path:     "/",
		MaxAge:   int(app.config.auth.tokenTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	err = app.writeJSON(w, http.StatusCreated, envelope{"authentication_token": token}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
