// cmd/api/books.go
// This file contains all HTTP request handlers for the books resource.
// Each handler is a method on *applicationDependencies so it has access
// to the logger and database models.
package main

import (
	"errors"
	"net/http"

	"github.com/haleyb/libcatalog/internal/data"
	"github.com/haleyb/libcatalog/internal/validator"
)

// createBookHandler handles POST /v1/books.
// It reads a JSON body containing the new book's details, validates it,
// inserts a record (plus genre links) into the database, and responds
// with the created book and a 201 Created status.
func (app *applicationDependencies) createBookHandler(w http.ResponseWriter, r *http.Request) {
	var input data.CreateBookInput

	// Decode the incoming JSON body into our input struct using the safe readJSON helper.
	// readJSON enforces a 1MB limit, rejects unknown fields, and ensures a single value.
	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	// Map the input fields onto a new Book struct.
	book := &data.Book{
		Title:      input.Title,
		Summary:    input.Summary,
		ISBN:       input.ISBN,
		AuthorID:   input.AuthorID,
		LanguageID: input.LanguageID,
	}

	v := validator.New()
	if data.ValidateBook(v, book, input.GenreIDs); !v.Valid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}

	// Persist the book and its genre links.
	err = app.models.Books.Insert(book, input.GenreIDs)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	// Re-read so the response carries the resolved genre names.
	book, err = app.models.Books.Get(book.ID)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusCreated, envelope{"book": book}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// showBookHandler handles GET /v1/books/:id.
// Responds 404 if no book with that ID exists.
func (app *applicationDependencies) showBookHandler(w http.ResponseWriter, r *http.Request) {
	// readIDParam extracts and validates the :id URL parameter.
	id, err := app.readIDParam(r)
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	book, err := app.models.Books.Get(id)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"book": book}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// listBooksHandler handles GET /v1/books.
// Supports optional case-insensitive title and genre substring filters,
// sorting, and pagination (10 per page by default).
func (app *applicationDependencies) listBooksHandler(w http.ResponseWriter, r *http.Request) {
	qs := r.URL.Query()

	title := app.readString(qs, "title", "")
	genre := app.readString(qs, "genre", "")

	filters := data.Filters{
		Page:         app.readInt(qs, "page", 1),
		PageSize:     app.readInt(qs, "page_size", 10),
		Sort:         app.readString(qs, "sort", "book_id"),
		SortSafeList: []string{"book_id", "title", "isbn", "-book_id", "-title", "-isbn"},
	}

	v := validator.New()
	if data.ValidateFilters(v, filters); !v.Valid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}

	books, metadata, err := app.models.Books.GetAll(title, genre, filters)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"books": books, "metadata": metadata}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// updateBookHandler handles PATCH /v1/books/:id.
// It reads a partial JSON body (UpdateBookInput), fetches the existing
// book, applies only the non-nil fields, re-validates, and saves.
// Responds 404 if the book does not exist.
func (app *applicationDependencies) updateBookHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r)
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	book, err := app.models.Books.Get(id)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	// Decode the partial update fields from the request body.
	var input data.UpdateBookInput
	err = app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	// Apply only the fields that were actually provided in the request body.
	// Each field is a pointer; nil means "not provided, leave as-is".
	if input.Title != nil {
		book.Title = *input.Title
	}
	if input.Summary != nil {
		book.Summary = *input.Summary
	}
	if input.ISBN != nil {
		book.ISBN = *input.ISBN
	}
	if input.AuthorID != nil {
		book.AuthorID = input.AuthorID
	}
	if input.LanguageID != nil {
		book.LanguageID = *input.LanguageID
	}

	// Existing genre links were validated when they were written; only a
	// newly supplied set needs checking.
	var genreIDs []int64
	if input.GenreIDs != nil {
		genreIDs = *input.GenreIDs
	}

	v := validator.New()
	if data.ValidateBook(v, book, genreIDs); !v.Valid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}

	// Persist the updated book back to the database.
	err = app.models.Books.Update(book, input.GenreIDs)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	// Re-read so the response carries the current genre names.
	book, err = app.models.Books.Get(book.ID)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"book": book}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// deleteBookHandler handles DELETE /v1/books/:id.
// Deletion is terminal; there is no confirmation round-trip or undo.
// Responds 404 if no book with that ID exists.
func (app *applicationDependencies) deleteBookHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r)
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	err = app.models.Books.Delete(id)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"message": "book successfully deleted"}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
