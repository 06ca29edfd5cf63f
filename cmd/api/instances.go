// cmd/api/instances.go
// HTTP request handlers for book copies. Copies are addressed by uuid
// token rather than a small integer, since the token appears in URLs.
package main

import (
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/haleyb/libcatalog/internal/data"
	"github.com/haleyb/libcatalog/internal/validator"
)

// createInstanceHandler handles POST /v1/instances.
// The client may supply the uuid; otherwise one is generated. Status
// defaults to Maintenance, matching how new copies enter the catalog.
func (app *applicationDependencies) createInstanceHandler(w http.ResponseWriter, r *http.Request) {
	var input data.CreateInstanceInput

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	id := uuid.New()
	if input.ID != nil {
		id = *input.ID
	}
	status := input.Status
	if status == "" {
		status = data.StatusMaintenance
	}

	instance := &data.BookInstance{
		ID:         id,
		BookID:     input.BookID,
		Imprint:    input.Imprint,
		DueBack:    input.DueBack,
		Status:     status,
		BorrowerID: input.BorrowerID,
	}

	v := validator.New()
	data.ValidateInstance(v, instance)
	err = app.checkInstanceReferences(v, instance)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
	if !v.Valid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}

	err = app.models.Instances.Insert(instance)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrDuplicateInstance):
			v.AddError("instance_id", "a copy with this id already exists")
			app.failedValidationResponse(w, r, v.Errors)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusCreated, envelope{"instance": instance}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// checkInstanceReferences verifies that the book and borrower a copy
// points at actually exist, recording field errors on v. A lookup
// failure other than not-found is returned so the caller can report it
// instead of letting the write proceed.
func (app *applicationDependencies) checkInstanceReferences(v *validator.Validator, instance *data.BookInstance) error {
	if instance.BookID > 0 {
		_, err := app.models.Books.Get(instance.BookID)
		switch {
		case err == nil:
		case errors.Is(err, data.ErrRecordNotFound):
			v.AddError("book_id", "must reference an existing book")
		default:
			return err
		}
	}
	if instance.BorrowerID != nil {
		exists, err := app.models.Users.Exists(*instance.BorrowerID)
		if err != nil {
			return err
		}
		if !exists {
			v.AddError("borrower_id", "must reference an existing user")
		}
	}
	return nil
}

// showInstanceHandler handles GET /v1/instances/:id.
// Responds 404 if no copy with that uuid exists.
func (app *applicationDependencies) showInstanceHandler(w http.ResponseWriter, r *http.Request) {
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

	err = app.writeJSON(w, http.StatusOK, envelope{"instance": instance}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// listInstancesHandler handles GET /v1/instances, the staff view of
// every copy (50 per page by default).
func (app *applicationDependencies) listInstancesHandler(w http.ResponseWriter, r *http.Request) {
	qs := r.URL.Query()

	filters := data.Filters{
		Page:         app.readInt(qs, "page", 1),
		PageSize:     app.readInt(qs, "page_size", 50),
		Sort:         app.readString(qs, "sort", "due_back"),
		SortSafeList: []string{"due_back", "status", "imprint", "-due_back", "-status", "-imprint"},
	}

	v := validator.New()
	if data.ValidateFilters(v, filters); !v.Valid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}

	instances, metadata, err := app.models.Instances.GetAll(filters)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"instances": instances, "metadata": metadata}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// updateInstanceHandler handles PATCH /v1/instances/:id.
// Partial update of imprint, due date, status, and borrower. The merged
// record must still satisfy the status-consistency rules. Concurrent
// updates resolve last-write-wins.
func (app *applicationDependencies) updateInstanceHandler(w http.ResponseWriter, r *http.Request) {
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

	var input data.UpdateInstanceInput
	err = app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if input.Imprint != nil {
		instance.Imprint = *input.Imprint
	}
	if input.DueBack != nil {
		instance.DueBack = input.DueBack
	}
	if input.Status != nil {
		instance.Status = *input.Status
		// Leaving the loaned states clears the loan bookkeeping.
		if *input.Status != data.StatusOnLoan {
			instance.DueBack = nil
		}
		if *input.Status != data.StatusOnLoan && *input.Status != data.StatusReserved {
			instance.BorrowerID = nil
		}
	}
	if input.BorrowerID != nil {
		instance.BorrowerID = input.BorrowerID
	}

	v := validator.New()
	data.ValidateInstance(v, instance)
	err = app.checkInstanceReferences(v, instance)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
	if !v.Valid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}

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

	err = app.writeJSON(w, http.StatusOK, envelope{"instance": instance}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// deleteInstanceHandler handles DELETE /v1/instances/:id.
// Responds 404 if no copy with that uuid exists.
func (app *applicationDependencies) deleteInstanceHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readUUIDParam(r)
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	err = app.models.Instances.Delete(id)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"message": "instance successfully deleted"}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
