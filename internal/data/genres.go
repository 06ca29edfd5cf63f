// internal/data/genres.go
package data

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/haleyb/libcatalog/internal/validator"
)

// Genre is a category label shared by many books.
type Genre struct {
	ID   int64  `json:"genre_id"`
	Name string `json:"name"`
}

// GenreInput holds the fields for creating or renaming a genre.
type GenreInput struct {
	Name string `json:"name"`
}

// ValidateGenre checks a genre write.
func ValidateGenre(v *validator.Validator, genre *Genre) {
	v.Check(genre.Name != "", "name", "must be provided")
	v.Check(len(genre.Name) <= 200, "name", "must not be more than 200 characters long")
}

// GenreModel provides CRUD access to the genres table.
type GenreModel struct {
	DB *sql.DB
}

// Insert adds a new genre, writing the assigned genre_id back into genre.
func (m GenreModel) Insert(genre *Genre) error {
	query := `INSERT INTO genres (name) VALUES ($1) RETURNING genre_id`
	return m.DB.QueryRow(query, genre.Name).Scan(&genre.ID)
}

// Get retrieves a genre by id, or ErrRecordNotFound.
func (m GenreModel) Get(id int64) (*Genre, error) {
	if id < 1 {
		return nil, ErrRecordNotFound
	}

	var genre Genre
	err := m.DB.QueryRow(`SELECT genre_id, name FROM genres WHERE genre_id = $1`, id).
		Scan(&genre.ID, &genre.Name)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	return &genre, nil
}

// GetAll retrieves a paginated, sorted list of genres plus pagination Metadata.
func (m GenreModel) GetAll(filters Filters) ([]*Genre, Metadata, error) {
	query := fmt.Sprintf(`
		SELECT count(*) OVER(), genre_id, name
		FROM genres
		ORDER BY %s %s, genre_id ASC
		LIMIT $1 OFFSET $2`, filters.sortColumn(), filters.sortDirection())

	rows, err := m.DB.Query(query, filters.limit(), filters.offset())
	if err != nil {
		return nil, Metadata{}, err
	}
	defer rows.Close()

	totalRecords := 0
	genres := []*Genre{}

	for rows.Next() {
		var genre Genre
		if err := rows.Scan(&totalRecords, &genre.ID, &genre.Name); err != nil {
			return nil, Metadata{}, err
		}
		genres = append(genres, &genre)
	}

	if err = rows.Err(); err != nil {
		return nil, Metadata{}, err
	}

	return genres, calculateMetadata(totalRecords, filters.Page, filters.PageSize), nil
}

// Update renames the genre. Returns ErrRecordNotFound if it no longer exists.
func (m GenreModel) Update(genre *Genre) error {
	result, err := m.DB.Exec(`UPDATE genres SET name = $1 WHERE genre_id = $2`, genre.Name, genre.ID)
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

// Delete removes a genre and, via cascade, its book links.
func (m GenreModel) Delete(id int64) error {
	if id < 1 {
		return ErrRecordNotFound
	}

	result, err := m.DB.Exec(`DELETE FROM genres WHERE genre_id = $1`, id)
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
