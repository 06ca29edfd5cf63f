// internal/data/models.go
package data

import (
	"database/sql"
	"errors"
	"math"
	"strings"

	"github.com/google/uuid"

	"github.com/haleyb/libcatalog/internal/validator"
)

// The store interfaces describe what the handlers need from each model.
// The SQL-backed model types below satisfy them; handler tests substitute
// stubs so request flows can be exercised without a database.

type AuthorStore interface {
	Insert(author *Author) error
	Get(id int64) (*Author, error)
	GetAll(filters Filters) ([]*Author, Metadata, error)
	Count() (int, error)
	Update(author *Author) error
	Delete(id int64) error
}

type BookStore interface {
	Insert(book *Book, genreIDs []int64) error
	Get(id int64) (*Book, error)
	GetAll(title string, genre string, filters Filters) ([]*Book, Metadata, error)
	Count() (int, error)
	CountMatching(title, genre string) (int, error)
	Update(book *Book, genreIDs *[]int64) error
	Delete(id int64) error
}

type GenreStore interface {
	Insert(genre *Genre) error
	Get(id int64) (*Genre, error)
	GetAll(filters Filters) ([]*Genre, Metadata, error)
	Update(genre *Genre) error
	Delete(id int64) error
}

type LanguageStore interface {
	Insert(language *Language) error
	Get(id int64) (*Language, error)
	GetAll(filters Filters) ([]*Language, Metadata, error)
	Update(language *Language) error
	Delete(id int64) error
}

type InstanceStore interface {
	Insert(instance *BookInstance) error
	Get(id uuid.UUID) (*BookInstance, error)
	GetAll(filters Filters) ([]*BookInstance, Metadata, error)
	GetAllOnLoan(borrowerID *int64, filters Filters) ([]*BookInstance, Metadata, error)
	Count() (int, error)
	CountByStatus(status string) (int, error)
	Update(instance *BookInstance) error
	Delete(id uuid.UUID) error
}

type UserStore interface {
	Insert(user *User) error
	Get(id int64) (*User, error)
	GetByEmail(email string) (*User, error)
	GetAll() ([]*User, error)
	Exists(id int64) (bool, error)
}

// Models is a top-level container that groups all database model types together.
// It is passed around the application via applicationDependencies so every handler
// has access to the database without importing sql directly.
type Models struct {
	Authors   AuthorStore   // Author reference data
	Books     BookStore     // Catalog books and their genre links
	Genres    GenreStore    // Genre reference data
	Languages LanguageStore // Language reference data
	Instances InstanceStore // Physical copies and their loan state
	Users     UserStore     // Accounts, credentials, staff flag
}

// NewModels constructs a Models value wired up to the given database connection pool.
// Call this once during application startup and store the result in applicationDependencies.
func NewModels(db *sql.DB) Models {
	return Models{
		Authors:   AuthorModel{DB: db},
		Books:     BookModel{DB: db},
		Genres:    GenreModel{DB: db},
		Languages: LanguageModel{DB: db},
		Instances: InstanceModel{DB: db},
		Users:     UserModel{DB: db},
	}
}

// ErrRecordNotFound is returned when a query finds no matching row.
var ErrRecordNotFound = errors.New("record not found")

// ErrDuplicateEmail is returned when inserting a user whose email is taken.
var ErrDuplicateEmail = errors.New("duplicate email")

// ErrDuplicateInstance is returned when inserting a copy whose uuid is taken.
var ErrDuplicateInstance = errors.New("duplicate instance id")

// Filters holds pagination and sorting parameters extracted from URL query strings.
type Filters struct {
	Page         int      // Current page number (1-indexed)
	PageSize     int      // Number of records per page
	Sort         string   // Column name to sort by (prefix with "-" for DESC)
	SortSafeList []string // Allowed sort columns to prevent SQL injection
}

// ValidateFilters checks the pagination and sort parameters, recording any
// problems on v. Handlers call this before touching the database.
func ValidateFilters(v *validator.Validator, f Filters) {
	v.Check(f.Page > 0, "page", "must be greater than zero")
	v.Check(f.Page <= 10_000_000, "page", "must be a maximum of 10 million")
	v.Check(f.PageSize > 0, "page_size", "must be greater than zero")
	v.Check(f.PageSize <= 100, "page_size", "must be a maximum of 100")
	v.Check(validator.In(f.Sort, f.SortSafeList...), "sort", "invalid sort value")
}

// sortColumn returns the validated column name for ORDER BY, defaulting to
// the first entry in the safe list.
func (f Filters) sortColumn() string {
	for _, safe := range f.SortSafeList {
		if f.Sort == safe {
			return strings.TrimPrefix(f.Sort, "-")
		}
	}
	if len(f.SortSafeList) > 0 {
		return strings.TrimPrefix(f.SortSafeList[0], "-")
	}
	return "id" // safe fallback
}

// sortDirection returns "ASC" or "DESC" based on the Sort prefix.
func (f Filters) sortDirection() string {
	if strings.HasPrefix(f.Sort, "-") {
		return "DESC"
	}
	return "ASC"
}

// limit returns the SQL LIMIT value derived from PageSize.
func (f Filters) limit() int { return f.PageSize }

// offset returns the SQL OFFSET value derived from Page and PageSize.
func (f Filters) offset() int { return (f.Page - 1) * f.PageSize }

// Metadata contains pagination information returned alongside list responses.
type Metadata struct {
	CurrentPage  int `json:"current_page,omitempty"`
	PageSize     int `json:"page_size,omitempty"`
	FirstPage    int `json:"first_page,omitempty"`
	LastPage     int `json:"last_page,omitempty"`
	TotalRecords int `json:"total_records,omitempty"`
}

// calculateMetadata computes page metadata from total record count and filter values.
func calculateMetadata(totalRecords, page, pageSize int) Metadata {
	if totalRecords == 0 {
		return Metadata{}
	}
	return Metadata{
		CurrentPage:  page,
		PageSize:     pageSize,
		FirstPage:    1,
		LastPage:     int(math.Ceil(float64(totalRecords) / float64(pageSize))),
		TotalRecords: totalRecords,
	}
}
