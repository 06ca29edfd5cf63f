// cmd/api/users.go
// Account registration and the borrower listing used by the renewal form.
package main

import (
	"errors"
	"net/http"

	"github.com/haleyb/libcatalog/internal/data"
	"github.com/haleyb/libcatalog/internal/validator"
)

// registerUserHandler handles POST /v1/users.
// New accounts are plain patrons; the staff flag is granted out of band.
func (app *applicationDependencies) registerUserHandler(w http.ResponseWriter, r *http.Request) {
	var input data.RegisterUserInput

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	user := &data.User{
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Email:     input.Email,
	}

	err = user.Password.Set(input.Password)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	v := validator.New()
	if data.ValidateUser(v, user); !v.Valid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}

	err = app.models.Users.Insert(user)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrDuplicateEmail):
			v.AddError("email", "a user with this email address already exists")
			app.failedValidationResponse(w, r, v.Errors)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusCreated, envelope{"user": user}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// userListing is the borrower-selector shape: ordered by last name and
// rendered "Last, First".
type userListing struct {
	UserID      int64  `json:"user_id"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
}

// listUsersHandler handles GET /v1/users. Staff only.
func (app *applicationDependencies) listUsersHandler(w http.ResponseWriter, r *http.Request) {
	users, err := app.models.Users.GetAll()
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	listings := make([]userListing, 0, len(users))
	for _, user := range users {
		listings = append(listings, userListing{
			UserID:      user.ID,
			DisplayName: user.DisplayName(),
			Email:       user.Email,
		})
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"users": listings}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
