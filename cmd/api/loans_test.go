package main

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haleyb/libcatalog/internal/data"
	"github.com/haleyb/libcatalog/internal/validator"
)

// Store stubs for handler tests. The embedded interface panics on any
// method a test forgot to stub, which is exactly what we want.

type stubInstanceStore struct {
	data.InstanceStore
	getFunc    func(id uuid.UUID) (*data.BookInstance, error)
	insertFunc func(instance *data.BookInstance) error
	updateFunc func(instance *data.BookInstance) error
}

func (s *stubInstanceStore) Get(id uuid.UUID) (*data.BookInstance, error) { return s.getFunc(id) }
func (s *stubInstanceStore) Insert(instance *data.BookInstance) error     { return s.insertFunc(instance) }
func (s *stubInstanceStore) Update(instance *data.BookInstance) error     { return s.updateFunc(instance) }

type stubUserStore struct {
	data.UserStore
	existsFunc func(id int64) (bool, error)
}

func (s *stubUserStore) Exists(id int64) (bool, error) { return s.existsFunc(id) }

type stubBookStore struct {
	data.BookStore
	getFunc func(id int64) (*data.Book, error)
}

func (s *stubBookStore) Get(id int64) (*data.Book, error) { return s.getFunc(id) }

// newRenewRouter routes the renewal POST so the uuid parameter is
// resolved the same way it is in production.
func newRenewRouter(app *applicationDependencies) http.Handler {
	router := httprouter.New()
	router.HandlerFunc(http.MethodPost, "/v1/instances/:id/renew", app.renewLoanHandler)
	return router
}

func onLoanInstance(id uuid.UUID) *data.BookInstance {
	borrower := int64(7)
	due := data.Today().AddDays(3)
	return &data.BookInstance{
		ID:         id,
		BookID:     1,
		Imprint:    "Penguin Classics, 2016",
		DueBack:    &due,
		Status:     data.StatusOnLoan,
		BorrowerID: &borrower,
	}
}

func postRenewal(t *testing.T, app *applicationDependencies, id uuid.UUID, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/v1/instances/"+id.String()+"/renew", strings.NewReader(body))
	rec := httptest.NewRecorder()
	newRenewRouter(app).ServeHTTP(rec, req)
	return rec
}

func TestRenewLoanPersistsAndPointsAtLoans(t *testing.T) {
	app := newTestApp(t)
	id := uuid.New()

	var updated *data.BookInstance
	app.models = data.Models{
		Instances: &stubInstanceStore{
			getFunc: func(got uuid.UUID) (*data.BookInstance, error) {
				require.Equal(t, id, got)
				return onLoanInstance(id), nil
			},
			updateFunc: func(instance *data.BookInstance) error {
				updated = instance
				return nil
			},
		},
		Users: &stubUserStore{existsFunc: func(int64) (bool, error) { return true, nil }},
	}

	dueBack := data.Today().AddWeeks(3)
	rec := postRenewal(t, app, id, fmt.Sprintf(`{"due_back": %q, "borrower_id": 42}`, dueBack))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/v1/loans", rec.Header().Get("Location"))

	require.NotNil(t, updated, "a valid renewal must be persisted")
	require.NotNil(t, updated.DueBack)
	assert.Equal(t, dueBack.String(), updated.DueBack.String())
	require.NotNil(t, updated.BorrowerID)
	assert.Equal(t, int64(42), *updated.BorrowerID)
	assert.Equal(t, data.StatusOnLoan, updated.Status)

	// The renewed copy rides along in the response body.
	assert.Contains(t, rec.Body.String(), dueBack.String())
}

func TestRenewLoanRejectsOutOfRangeDatesUntouched(t *testing.T) {
	cases := map[string]struct {
		dueBack data.Date
		message string
	}{
		"date in the past":     {data.Today().AddDays(-1), validator.MsgDateInPast},
		"more than four weeks": {data.Today().AddDays(29), validator.MsgDateTooFarAhead},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			app := newTestApp(t)
			id := uuid.New()

			updated := false
			app.models = data.Models{
				Instances: &stubInstanceStore{
					getFunc: func(uuid.UUID) (*data.BookInstance, error) {
						return onLoanInstance(id), nil
					},
					updateFunc: func(*data.BookInstance) error {
						updated = true
						return nil
					},
				},
				Users: &stubUserStore{existsFunc: func(int64) (bool, error) { return true, nil }},
			}

			rec := postRenewal(t, app, id, fmt.Sprintf(`{"due_back": %q, "borrower_id": 7}`, tc.dueBack))

			assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
			assert.Contains(t, rec.Body.String(), tc.message)
			assert.False(t, updated, "a failing renewal must leave the copy untouched")
		})
	}
}

func TestRenewLoanRejectsUnknownBorrowerUntouched(t *testing.T) {
	app := newTestApp(t)
	id := uuid.New()

	updated := false
	app.models = data.Models{
		Instances: &stubInstanceStore{
			getFunc: func(uuid.UUID) (*data.BookInstance, error) {
				return onLoanInstance(id), nil
			},
			updateFunc: func(*data.BookInstance) error {
				updated = true
				return nil
			},
		},
		Users: &stubUserStore{existsFunc: func(int64) (bool, error) { return false, nil }},
	}

	rec := postRenewal(t, app, id, fmt.Sprintf(`{"due_back": %q, "borrower_id": 999}`, data.Today().AddWeeks(2)))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "must reference an existing user")
	assert.False(t, updated)
}

func TestRenewLoanUnknownInstanceIs404(t *testing.T) {
	app := newTestApp(t)
	app.models = data.Models{
		Instances: &stubInstanceStore{
			getFunc: func(uuid.UUID) (*data.BookInstance, error) {
				return nil, data.ErrRecordNotFound
			},
		},
	}

	rec := postRenewal(t, app, uuid.New(), fmt.Sprintf(`{"due_back": %q, "borrower_id": 7}`, data.Today()))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
