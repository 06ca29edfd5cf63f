// internal/data/authors.go
package data

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/haleyb/libcatalog/internal/validator"
)

// Author represents a writer in the catalog. Authors are shared reference
// data: many books may point at one author, and an author may exist with
// no books at all.
type Author struct {
	ID          int64     `json:"author_id"`               // Unique identifier assigned by the database
	FirstName   string    `json:"first_name"`              // Given name
	LastName    string    `json:"last_name"`               // Family name
	DateOfBirth *Date     `json:"date_of_birth,omitempty"` // Optional birth date
	DateOfDeath *Date     `json:"date_of_death,omitempty"` // Optional death date
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// AuthorInput holds the fields a client supplies when creating an author.
type AuthorInput struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	DateOfBirth *Date  `json:"date_of_birth"`
	DateOfDeath *Date  `json:"date_of_death"`
}

// UpdateAuthorInput holds the fields a client may supply when partially
// updating an author. Every field is a pointer so we can distinguish
// between "not provided" (nil) and "intentionally set". Only non-nil
// fields are applied.
type UpdateAuthorInput struct {
	FirstName   *string `json:"first_name"`
	LastName    *string `json:"last_name"`
	DateOfBirth *Date   `json:"date_of_birth"`
	DateOfDeath *Date   `json:"date_of_death"`
}

// ValidateAuthor runs the field-level checks followed by both cross-field
// checks. The cross-field checks are evaluated unconditionally, so a
// submission breaking the date ordering and the name rule reports both
// violations at once.
func ValidateAuthor(v *validator.Validator, author *Author) {
	v.Check(author.FirstName != "", "first_name", "must be provided")
	v.Check(len(author.FirstName) <= 100, "first_name", "must not be more than 100 characters long")
	v.Check(author.LastName != "", "last_name", "must be provided")
	v.Check(len(author.LastName) <= 100, "last_name", "must not be more than 100 characters long")

	var birth, death *time.Time
	if author.DateOfBirth != nil {
		birth = &author.DateOfBirth.Time
	}
	if author.DateOfDeath != nil {
		death = &author.DateOfDeath.Time
	}
	v.Check(validator.DateOrder(birth, death), "date_of_death", validator.MsgDeathBeforeBirth)
	v.Check(validator.DistinctNames(author.FirstName, author.LastName), "last_name", validator.MsgSameName)
}

// AuthorModel wraps a *sql.DB connection and provides methods for
// creating, reading, updating, and deleting author records.
type AuthorModel struct {
	DB *sql.DB // Shared database connection pool
}

// Insert adds a new author record to the database.
// After a successful insert, the database-assigned author_id, created_at,
// and updated_at values are written back into the author struct.
func (m AuthorModel) Insert(author *Author) error {
	query := `
        INSERT INTO authors (first_name, last_name, date_of_birth, date_of_death)
        VALUES ($1, $2, $3, $4)
        RETURNING author_id, created_at, updated_at`

	return m.DB.QueryRow(
		query,
		author.FirstName,
		author.LastName,
		author.DateOfBirth,
		author.DateOfDeath,
	).Scan(&author.ID, &author.CreatedAt, &author.UpdatedAt)
}

// Get retrieves a single author by its primary key.
// Returns ErrRecordNotFound if no author with the given id exists.
func (m AuthorModel) Get(id int64) (*Author, error) {
	if id < 1 {
		return nil, ErrRecordNotFound
	}

	query := `
		SELECT author_id, first_name, last_name, date_of_birth, date_of_death, created_at, updated_at
		FROM authors
		WHERE author_id = $1`

	var author Author
	var birth, death sql.Null[Date]
	err := m.DB.QueryRow(query, id).Scan(
		&author.ID,
		&author.FirstName,
		&author.LastName,
		&birth,
		&death,
		&author.CreatedAt,
		&author.UpdatedAt,
	)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	if birth.Valid {
		author.DateOfBirth = &birth.V
	}
	if death.Valid {
		author.DateOfDeath = &death.V
	}
	return &author, nil
}

// GetAll retrieves a paginated, sorted list of authors together with
// pagination Metadata. A COUNT(*) OVER() window function keeps it to a
// single round-trip.
func (m AuthorModel) GetAll(filters Filters) ([]*Author, Metadata, error) {
	query := fmt.Sprintf(`
		SELECT count(*) OVER(), author_id, first_name, last_name, date_of_birth, date_of_death, created_at, updated_at
		FROM authors
		ORDER BY %s %s, author_id ASC
		LIMIT $1 OFFSET $2`, filters.sortColumn(), filters.sortDirection())

	rows, err := m.DB.Query(query, filters.limit(), filters.offset())
	if err != nil {
		return nil, Metadata{}, err
	}
	defer rows.Close()

	totalRecords := 0
	authors := []*Author{}

	for rows.Next() {
		var author Author
		var birth, death sql.Null[Date]
		err := rows.Scan(
			&totalRecords, // COUNT(*) OVER() – same value on every row
			&author.ID,
			&author.FirstName,
			&author.LastName,
			&birth,
			&death,
			&author.CreatedAt,
			&author.UpdatedAt,
		)
		if err != nil {
			return nil, Metadata{}, err
		}
		if birth.Valid {
			author.DateOfBirth = &birth.V
		}
		if death.Valid {
			author.DateOfDeath = &death.V
		}
		authors = append(authors, &author)
	}

	if err = rows.Err(); err != nil {
		return nil, Metadata{}, err
	}

	metadata := calculateMetadata(totalRecords, filters.Page, filters.PageSize)
	return authors, metadata, nil
}

// Count returns the total number of authors in the catalog.
func (m AuthorModel) Count() (int, error) {
	var count int
	err := m.DB.QueryRow(`SELECT count(*) FROM authors`).Scan(&count)
	return count, err
}

// Update saves the modified fields of author back to the database.
// Returns ErrRecordNotFound if the author no longer exists.
func (m AuthorModel) Update(author *Author) error {
	query := `
		UPDATE authors
		SET first_name = $1, last_name = $2, date_of_birth = $3, date_of_death = $4,
		    updated_at = CURRENT_TIMESTAMP
		WHERE author_id = $5
		RETURNING updated_at`

	args := []any{
		author.FirstName,
		author.LastName,
		author.DateOfBirth,
		author.DateOfDeath,
		author.ID,
	}

	err := m.DB.QueryRow(query, args...).Scan(&author.UpdatedAt)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return ErrRecordNotFound
		default:
			return err
		}
	}
	return nil
}

// Delete removes the author with the given id from the database.
// Books pointing at the author keep existing with a null author reference.
// Returns ErrRecordNotFound if no matching record exists.
func (m AuthorModel) Delete(id int64) error {
	if id < 1 {
		return ErrRecordNotFound
	}

	query := `DELETE FROM authors WHERE author_id = $1`

	result, err := m.DB.Exec(query, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrRecordNotFound
	}

	return nil
}
