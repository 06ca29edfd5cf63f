// cmd/api/languages.go
// HTTP request handlers for language reference data.
package main

import (
	"errors"
	"net/http"

	"github.com/haleyb/libcatalog/internal/data"
	"github.com/haleyb/libcatalog/internal/validator"
)

// createLanguageHandler handles POST /v1/languages.
func (app *applicationDependencies) createLanguageHandler(w http.ResponseWriter, r *http.Request) {
	var input data.LanguageInput

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	language := &data.Language{Name: input.Name}

	v := validator.New()
	if data.ValidateLanguage(v, language); !v.Valid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}

	err = app.models.Languages.Insert(language)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusCreated, envelope{"language": language}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// listLanguagesHandler handles GET /v1/languages.
func (app *applicationDependencies) listLanguagesHandler(w http.ResponseWriter, r *http.Request) {
	qs := r.URL.Query()

	filters := data.Filters{
		Page:         app.readInt(qs, "page", 1),
		PageSize:     app.readInt(qs, "page_size", 50),
		Sort:         app.readString(qs, "sort", "name"),
		SortSafeList: []string{"language_id", "name", "-language_id", "-name"},
	}

	v := validator.New()
	if data.ValidateFilters(v, filters); !v.Valid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}

	languages, metadata, err := app.models.Languages.GetAll(filters)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"languages": languages, "metadata": metadata}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// updateLanguageHandler handles PATCH /v1/languages/:id (rename).
func (app *applicationDependencies) updateLanguageHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r)
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	language, err := app.models.Languages.Get(id)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	var input data.LanguageInput
	err = app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	language.Name = input.Name

	v := validator.New()
	if data.ValidateLanguage(v, language); !v.Valid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}

	err = app.models.Languages.Update(language)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"language": language}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// deleteLanguageHandler handles DELETE /v1/languages/:id.
func (app *applicationDependencies) deleteLanguageHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r)
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	err = app.models.Languages.Delete(id)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"message": "language successfully deleted"}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
