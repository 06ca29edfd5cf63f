// internal/data/languages.go
package data

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/haleyb/libcatalog/internal/validator"
)

// Language names the language a book is written in. One per book.
type Language struct {
	ID   int64  `json:"language_id"`
	Name string `json:"name"`
}

// LanguageInput holds the fields for creating or renaming a language.
type LanguageInput struct {
	Name string `json:"name"`
}

// ValidateLanguage checks a language write.
func ValidateLanguage(v *validator.Validator, language *Language) {
	v.Check(language.Name != "", "name", "must be provided")
	v.Check(len(language.Name) <= 200, "name", "must not be more than 200 characters long")
}

// LanguageModel provides CRUD access to the languages table.
type LanguageModel struct {
	DB *sql.DB
}

// Insert adds a new language, writing the assigned language_id back.
func (m LanguageModel) Insert(language *Language) error {
	query := `INSERT INTO languages (name) VALUES ($1) RETURNING language_id`
	return m.DB.QueryRow(query, language.Name).Scan(&language.ID)
}

// Get retrieves a language by id, or ErrRecordNotFound.
func (m LanguageModel) Get(id int64) (*Language, error) {
	if id < 1 {
		return nil, ErrRecordNotFound
	}

	var language Language
	err := m.DB.QueryRow(`SELECT language_id, name FROM languages WHERE language_id = $1`, id).
		Scan(&language.ID, &language.Name)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	return &language, nil
}

// GetAll retrieves a paginated, sorted list of languages plus pagination Metadata.
func (m LanguageModel) GetAll(filters Filters) ([]*Language, Metadata, error) {
	query := fmt.Sprintf(`
		SELECT count(*) OVER(), language_id, name
		FROM languages
		ORDER BY %s %s, language_id ASC
		LIMIT $1 OFFSET $2`, filters.sortColumn(), filters.sortDirection())

	rows, err := m.DB.Query(query, filters.limit(), filters.offset())
	if err != nil {
		return nil, Metadata{}, err
	}
	defer rows.Close()

	totalRecords := 0
	languages := []*Language{}

	for rows.Next() {
		var language Language
		if err := rows.Scan(&totalRecords, &language.ID, &language.Name); err != nil {
			return nil, Metadata{}, err
		}
		languages = append(languages, &language)
	}

	if err = rows.Err(); err != nil {
		return nil, Metadata{}, err
	}

	return languages, calculateMetadata(totalRecords, filters.Page, filters.PageSize), nil
}

// Update renames the language. Returns ErrRecordNotFound if it no longer exists.
func (m LanguageModel) Update(language *Language) error {
	result, err := m.DB.Exec(`UPDATE languages SET name = $1 WHERE language_id = $2`, language.Name, language.ID)
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

// Delete removes a language. Fails while books still reference it.
func (m LanguageModel) Delete(id int64) error {
	if id < 1 {
		return ErrRecordNotFound
	}

	result, err := m.DB.Exec(`DELETE FROM languages WHERE language_id = $1`, id)
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
