// Package data provides the data models and database interaction logic
// for the library catalog service.
//
// Schema overview (PostgreSQL):
//
//	authors        (author_id serial PK, first_name, last_name, date_of_birth date NULL, date_of_death date NULL, created_at, updated_at)
//	genres         (genre_id serial PK, name)
//	languages      (language_id serial PK, name)
//	books          (book_id serial PK, title, summary, isbn, author_id FK NULL ON DELETE SET NULL, language_id FK, created_at, updated_at)
//	book_genres    (book_id FK ON DELETE CASCADE, genre_id FK ON DELETE CASCADE)
//	book_instances (instance_id uuid PK, book_id FK ON DELETE RESTRICT, imprint, due_back date NULL, status, borrower_id FK NULL ON DELETE SET NULL, created_at, updated_at)
//	users          (user_id serial PK, first_name, last_name, email UNIQUE, password_hash, can_mark_returned bool, created_at)
package data

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/haleyb/libcatalog/internal/validator"
)

// Book represents a catalog entry for a title. Physical copies are
// tracked separately as BookInstance records.
type Book struct {
	ID         int64     `json:"book_id"`             // Unique identifier assigned by the database
	Title      string    `json:"title"`               // Title of the book
	Summary    string    `json:"summary"`             // Short description shown on the detail page
	ISBN       string    `json:"isbn"`                // 13-digit ISBN identifier
	AuthorID   *int64    `json:"author_id,omitempty"` // Owning author; nil when unattributed
	LanguageID int64     `json:"language_id"`         // Language the book is written in
	Genres     []string  `json:"genres"`              // Genre names, sorted alphabetically
	GenreList  string    `json:"genre_list"`          // Comma-joined genre names for listings
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// CreateBookInput holds the fields a client must supply when creating a new book.
type CreateBookInput struct {
	Title      string  `json:"title"`
	Summary    string  `json:"summary"`
	ISBN       string  `json:"isbn"`
	AuthorID   *int64  `json:"author_id"`
	LanguageID int64   `json:"language_id"`
	GenreIDs   []int64 `json:"genre_ids"`
}

// UpdateBookInput holds the fields a client may supply when partially updating a book.
// Every field is a pointer so we can distinguish between "not provided" (nil)
// and "intentionally set to zero/empty". Only non-nil fields are applied.
type UpdateBookInput struct {
	Title      *string  `json:"title"`
	Summary    *string  `json:"summary"`
	ISBN       *string  `json:"isbn"`
	AuthorID   *int64   `json:"author_id"`
	LanguageID *int64   `json:"language_id"`
	GenreIDs   *[]int64 `json:"genre_ids"`
}

// ValidateBook checks the field-level constraints for a book write.
func ValidateBook(v *validator.Validator, book *Book, genreIDs []int64) {
	v.Check(book.Title != "", "title", "must be provided")
	v.Check(len(book.Title) <= 500, "title", "must not be more than 500 characters long")
	v.Check(book.Summary != "", "summary", "must be provided")
	v.Check(book.ISBN != "", "isbn", "must be provided")
	v.Check(len(book.ISBN) == 13, "isbn", "must be exactly 13 characters long")
	v.Check(book.LanguageID > 0, "language_id", "must be provided")
	v.Check(len(genreIDs) <= 10, "genre_ids", "must not contain more than 10 genres")

	seen := make(map[int64]bool)
	for _, id := range genreIDs {
		v.Check(id > 0, "genre_ids", "must contain valid identifiers")
		v.Check(!seen[id], "genre_ids", "must not contain duplicate values")
		seen[id] = true
	}
}

// BookModel wraps a *sql.DB connection and provides methods for
// creating, reading, updating, and deleting book records, including
// their genre links.
type BookModel struct {
	DB *sql.DB // Shared database connection pool
}

// Insert adds a new book record and its genre links in one transaction.
// After a successful insert, the database-assigned book_id, created_at,
// and updated_at values are written back into the book struct.
func (m BookModel) Insert(book *Book, genreIDs []int64) error {
	tx, err := m.DB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `
        INSERT INTO books (title, summary, isbn, author_id, language_id)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING book_id, created_at, updated_at`

	err = tx.QueryRow(
		query,
		book.Title,
		book.Summary,
		book.ISBN,
		book.AuthorID,
		book.LanguageID,
	).Scan(&book.ID, &book.CreatedAt, &book.UpdatedAt)
	if err != nil {
		return err
	}

	err = m.replaceGenres(tx, book.ID, genreIDs)
	if err != nil {
		return err
	}

	return tx.Commit()
}

// replaceGenres rewrites the book_genres rows for a book inside tx.
func (m BookModel) replaceGenres(tx *sql.Tx, bookID int64, genreIDs []int64) error {
	_, err := tx.Exec(`DELETE FROM book_genres WHERE book_id = $1`, bookID)
	if err != nil {
		return err
	}
	if len(genreIDs) == 0 {
		return nil
	}
	_, err = tx.Exec(`
		INSERT INTO book_genres (book_id, genre_id)
		SELECT $1, genre_id FROM genres WHERE genre_id = ANY($2)`,
		bookID, pq.Array(genreIDs))
	return err
}

// Get retrieves a single book by its primary key, with its genre names
// aggregated alphabetically. Returns ErrRecordNotFound if no book with
// the given id exists.
func (m BookModel) Get(id int64) (*Book, error) {
	if id < 1 {
		return nil, ErrRecordNotFound
	}

	query := `
		SELECT b.book_id, b.title, b.summary, b.isbn, b.author_id, b.language_id,
		       COALESCE(array_agg(g.name ORDER BY g.name) FILTER (WHERE g.name IS NOT NULL), '{}'),
		       b.created_at, b.updated_at
		FROM books b
		LEFT JOIN book_genres bg ON bg.book_id = b.book_id
		LEFT JOIN genres g ON g.genre_id = bg.genre_id
		WHERE b.book_id = $1
		GROUP BY b.book_id`

	var book Book
	var authorID sql.NullInt64
	err := m.DB.QueryRow(query, id).Scan(
		&book.ID,
		&book.Title,
		&book.Summary,
		&book.ISBN,
		&authorID,
		&book.LanguageID,
		pq.Array(&book.Genres),
		&book.CreatedAt,
		&book.UpdatedAt,
	)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	if authorID.Valid {
		book.AuthorID = &authorID.Int64
	}
	book.GenreList = strings.Join(book.Genres, ", ")
	return &book, nil
}

// GetAll retrieves a paginated, sorted list of books, optionally
// restricted to titles containing title and genre names containing genre
// (case-insensitive). Returns the book slice and pagination Metadata.
func (m BookModel) GetAll(title string, genre string, filters Filters) ([]*Book, Metadata, error) {
	// Build query dynamically using the validated sort column and direction.
	query := fmt.Sprintf(`
		SELECT count(*) OVER(), b.book_id, b.title, b.summary, b.isbn, b.author_id, b.language_id,
		       COALESCE(array_agg(g.name ORDER BY g.name) FILTER (WHERE g.name IS NOT NULL), '{}'),
		       b.created_at, b.updated_at
		FROM books b
		LEFT JOIN book_genres bg ON bg.book_id = b.book_id
		LEFT JOIN genres g ON g.genre_id = bg.genre_id
		WHERE ($1 = '' OR b.title ILIKE '%%' || $1 || '%%')
		GROUP BY b.book_id
		HAVING ($2 = '' OR bool_or(g.name ILIKE '%%' || $2 || '%%'))
		ORDER BY %s %s, b.book_id ASC
		LIMIT $3 OFFSET $4`, filters.sortColumn(), filters.sortDirection())

	rows, err := m.DB.Query(query, title, genre, filters.limit(), filters.offset())
	if err != nil {
		return nil, Metadata{}, err
	}
	defer rows.Close()

	totalRecords := 0
	books := []*Book{}

	for rows.Next() {
		var book Book
		var authorID sql.NullInt64
		err := rows.Scan(
			&totalRecords, // COUNT(*) OVER() – same value on every row
			&book.ID,
			&book.Title,
			&book.Summary,
			&book.ISBN,
			&authorID,
			&book.LanguageID,
			pq.Array(&book.Genres),
			&book.CreatedAt,
			&book.UpdatedAt,
		)
		if err != nil {
			return nil, Metadata{}, err
		}
		if authorID.Valid {
			book.AuthorID = &authorID.Int64
		}
		book.GenreList = strings.Join(book.Genres, ", ")
		books = append(books, &book)
	}

	if err = rows.Err(); err != nil {
		return nil, Metadata{}, err
	}

	metadata := calculateMetadata(totalRecords, filters.Page, filters.PageSize)
	return books, metadata, nil
}

// Count returns the total number of books in the catalog.
func (m BookModel) Count() (int, error) {
	var count int
	err := m.DB.QueryRow(`SELECT count(*) FROM books`).Scan(&count)
	return count, err
}

// CountMatching returns the number of books whose title contains title
// AND at least one of whose genres has a name containing genre, both
// case-insensitively. Used by the home aggregate view.
func (m BookModel) CountMatching(title, genre string) (int, error) {
	query := `
		SELECT count(DISTINCT b.book_id)
		FROM books b
		JOIN book_genres bg ON bg.book_id = b.book_id
		JOIN genres g ON g.genre_id = bg.genre_id
		WHERE b.title ILIKE '%' || $1 || '%'
		  AND g.name ILIKE '%' || $2 || '%'`

	var count int
	err := m.DB.QueryRow(query, title, genre).Scan(&count)
	return count, err
}

// Update saves the modified fields of book back to the database. When
// genreIDs is non-nil the book's genre links are rewritten to match it.
// Returns ErrRecordNotFound if the book no longer exists.
func (m BookModel) Update(book *Book, genreIDs *[]int64) error {
	tx, err := m.DB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `
		UPDATE books
		SET title = $1, summary = $2, isbn = $3, author_id = $4, language_id = $5,
		    updated_at = CURRENT_TIMESTAMP
		WHERE book_id = $6
		RETURNING updated_at`

	args := []any{
		book.Title,
		book.Summary,
		book.ISBN,
		book.AuthorID,
		book.LanguageID,
		book.ID,
	}

	err = tx.QueryRow(query, args...).Scan(&book.UpdatedAt)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return ErrRecordNotFound
		default:
			return err
		}
	}

	if genreIDs != nil {
		err = m.replaceGenres(tx, book.ID, *genreIDs)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// Delete removes the book with the given id from the database. Its genre
// links go with it; physical copies must be removed first.
// Returns ErrRecordNotFound if no matching record exists.
func (m BookModel) Delete(id int64) error {
	if id < 1 {
		return ErrRecordNotFound
	}

	query := `DELETE FROM books WHERE book_id = $1`

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
