// cmd/api/loans.go
// Loan listings and the renewal workflow. A "loan" is a book copy with
// status "On loan"; renewing one moves its due date forward and can
// reassign the borrower.
package main

import (
	"errors"
	"net/http"

	"github.com/haleyb/libcatalog/internal/data"
	"github.com/haleyb/libcatalog/internal/validator"
)

// listMyLoansHandler handles GET /v1/loans/mine: the copies currently on
// loan to the requesting user, soonest due first (10 per page).
func (app *applicationDependencies) listMyLoansHandler(w http.ResponseWriter, r *http.Request) {
	user := app.contextGetUser(r)

	qs := r.URL.Query()
	filters := data.Filters{
		Page:         app.readInt(qs, "page", 1),
		PageSize:     app.readInt(qs, "page_size", 10),
		Sort:         "due_back",
		SortSafeList: []string{"due_back"},
	}

	v := validator.New()
	if data.ValidateFilters(v, filters); !v.Valid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}

	instances, metadata, err := app.models.Instances.GetAllOnLoan(&user.ID, filters)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"loans": instances, "metadata": metadata}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// listAllLoansHandler handles GET /v1/loans: every copy currently on
// loan, soonest due first (10 per page). Staff only.
func (app *applicationDependencies) listAllLoansHandler(w http.ResponseWriter, r *http.Request) {
	qs := r.URL.Query()
	filters := data.Filters{
		Page:         app.readInt(qs, "page", 1),
		PageSize:     app.readInt(qs, "page_size", 10),
		Sort:         "due_back",
		SortSafeList: []string{"due_back"},
	}

	v := validator.New()
	if data.ValidateFilters(v, filters); !v.Valid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}

	instances, metadata, err := app.models.Instances.GetAllOnLoan(nil, filters)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"loans": instances, "metadata": metadata}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// renewalChoice is one entry in the borrower selector: a user rendered
// as "Last, First".
type renewalChoice struct {
	UserID      int64  `json:"user_id"`
	DisplayName string `json:"display_name"`
}

// showRenewalHandler handles GET /v1/instances/:id/renew.
// It returns everything needed to render the renewal form: the copy
// being renewed, a proposed due date of today plus three weeks, and the
// borrower choices ordered by last name. Nothing is mutated.
func (app *applicationDependencies) showRenewalHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readUUIDParam(r)
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	instance, err := app.models.Instances.Get(id)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	users, err := app.models.Users.GetAll()
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	choices := make([]renewalChoice, 0, len(users))
	for _, user := range users {
		choices = append(choices, renewalChoice{
			UserID:      user.ID,
			DisplayName: user.DisplayName(),
		})
	}

	response := envelope{
		"instance":          instance,
		"proposed_due_back": data.Today().AddWeeks(3),
		"borrower_choices":  choices,
	}

	err = app.writeJSON(w, http.StatusOK, response, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// renewLoanHandler handles POST /v1/instances/:id/renew.
// The submitted due date must fall between today and four weeks out,
// and the borrower must resolve to a registered user. On success the
// copy's due date and borrower are persisted and the response points the
// client at the all-loans listing with a 303; on any validation failure
// the copy is left untouched.
func (app *applicationDependencies) renewLoanHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readUUIDParam(r)
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	instance, err := app.models.Instances.Get(id)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	var input data.RenewalInput
	err = app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	v := validator.New()
	data.ValidateRenewal(v, &input)

	if input.BorrowerID != nil {
		exists, err := app.models.Users.Exists(*input.BorrowerID)
		if err != nil {
			app.serverErrorResponse(w, r, err)
			return
		}
		if !exists {
			v.AddError("borrower_id", "must reference an existing user")
		}
	}

	if !v.Valid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}

	// Renewing keeps the copy on loan with the new due date and borrower.
	instance.DueBack = input.DueBack
	instance.BorrowerID = input.BorrowerID
	instance.Status = data.StatusOnLoan

	err = app.models.Instances.Update(instance)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	// Point the client at the all-loans listing, carrying the renewed
	// copy so it need not be re-fetched.
	headers := make(http.Header)
	headers.Set("Location", "/v1/loans")

	err = app.writeJSON(w, http.StatusSeeOther, envelope{"instance": instance}, headers)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
