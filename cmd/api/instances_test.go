package main

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/haleyb/libcatalog/internal/data"
)

func postInstance(t *testing.T, app *applicationDependencies, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/v1/instances", strings.NewReader(body))
	rec := httptest.NewRecorder()
	app.createInstanceHandler(rec, req)
	return rec
}

func TestCreateInstanceReportsDuplicateID(t *testing.T) {
	app := newTestApp(t)
	app.models = data.Models{
		Instances: &stubInstanceStore{
			insertFunc: func(*data.BookInstance) error { return data.ErrDuplicateInstance },
		},
		Books: &stubBookStore{
			getFunc: func(int64) (*data.Book, error) { return &data.Book{ID: 1}, nil },
		},
	}

	body := fmt.Sprintf(`{"instance_id": %q, "book_id": 1, "imprint": "Penguin Classics, 2016", "status": "Available"}`, uuid.NewString())
	rec := postInstance(t, app, body)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "instance_id")
	assert.Contains(t, rec.Body.String(), "a copy with this id already exists")
}

func TestCreateInstanceReportsReferenceLookupFailures(t *testing.T) {
	t.Run("book lookup fails", func(t *testing.T) {
		app := newTestApp(t)
		inserted := false
		app.models = data.Models{
			Instances: &stubInstanceStore{
				insertFunc: func(*data.BookInstance) error {
					inserted = true
					return nil
				},
			},
			Books: &stubBookStore{
				getFunc: func(int64) (*data.Book, error) { return nil, errors.New("connection reset") },
			},
		}

		rec := postInstance(t, app, `{"book_id": 1, "imprint": "Penguin Classics, 2016", "status": "Available"}`)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.False(t, inserted, "the write must not proceed when the check could not run")
	})

	t.Run("borrower lookup fails", func(t *testing.T) {
		app := newTestApp(t)
		inserted := false
		app.models = data.Models{
			Instances: &stubInstanceStore{
				insertFunc: func(*data.BookInstance) error {
					inserted = true
					return nil
				},
			},
			Books: &stubBookStore{
				getFunc: func(int64) (*data.Book, error) { return &data.Book{ID: 1}, nil },
			},
			Users: &stubUserStore{
				existsFunc: func(int64) (bool, error) { return false, errors.New("connection reset") },
			},
		}

		rec := postInstance(t, app, `{"book_id": 1, "imprint": "Penguin Classics, 2016", "status": "Reserved", "borrower_id": 5}`)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.False(t, inserted)
	})
}

func TestCreateInstanceRejectsMissingBook(t *testing.T) {
	app := newTestApp(t)
	app.models = data.Models{
		Instances: &stubInstanceStore{
			insertFunc: func(*data.BookInstance) error { return nil },
		},
		Books: &stubBookStore{
			getFunc: func(int64) (*data.Book, error) { return nil, data.ErrRecordNotFound },
		},
	}

	rec := postInstance(t, app, `{"book_id": 404, "imprint": "Penguin Classics, 2016", "status": "Available"}`)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "must reference an existing book")
}
