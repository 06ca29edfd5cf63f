// internal/data/instances.go
package data

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/haleyb/libcatalog/internal/validator"
)

// Loan status values for a book instance. Stored as-is in the status column.
const (
	StatusMaintenance = "Maintenance"
	StatusOnLoan      = "On loan"
	StatusAvailable   = "Available"
	StatusReserved    = "Reserved"
)

// Statuses lists every legal instance status.
var Statuses = []string{StatusMaintenance, StatusOnLoan, StatusAvailable, StatusReserved}

// BookInstance is one physical copy of a book, individually tracked for
// loan state. Its identifier is a uuid used directly in URLs.
type BookInstance struct {
	ID         uuid.UUID `json:"instance_id"`
	BookID     int64     `json:"book_id"`
	Imprint    string    `json:"imprint"`
	DueBack    *Date     `json:"due_back,omitempty"`    // Only meaningful while on loan
	Status     string    `json:"status"`                // One of Statuses
	BorrowerID *int64    `json:"borrower_id,omitempty"` // Set while on loan or reserved
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// IsOverdue reports whether the copy is on loan past its due date.
func (i *BookInstance) IsOverdue() bool {
	return i.Status == StatusOnLoan && i.DueBack != nil && i.DueBack.Before(Today().Time)
}

// CreateInstanceInput holds the fields for registering a new copy.
// ID is optional; a fresh uuid is generated when absent.
type CreateInstanceInput struct {
	ID         *uuid.UUID `json:"instance_id"`
	BookID     int64      `json:"book_id"`
	Imprint    string     `json:"imprint"`
	DueBack    *Date      `json:"due_back"`
	Status     string     `json:"status"`
	BorrowerID *int64     `json:"borrower_id"`
}

// UpdateInstanceInput holds the fields a client may change on an
// existing copy. Only non-nil fields are applied.
type UpdateInstanceInput struct {
	Imprint    *string `json:"imprint"`
	DueBack    *Date   `json:"due_back"`
	Status     *string `json:"status"`
	BorrowerID *int64  `json:"borrower_id"`
}

// RenewalInput is the loan-renewal submission: a new due date and the
// borrower the loan is (re)assigned to.
type RenewalInput struct {
	DueBack    *Date  `json:"due_back"`
	BorrowerID *int64 `json:"borrower_id"`
}

// ValidateInstance checks a full instance record prior to a write.
// Status consistency is enforced here: a due date requires the copy to
// be on loan, and a borrower requires it to be on loan or reserved.
func ValidateInstance(v *validator.Validator, instance *BookInstance) {
	v.Check(instance.BookID > 0, "book_id", "must be provided")
	v.Check(instance.Imprint != "", "imprint", "must be provided")
	v.Check(len(instance.Imprint) <= 500, "imprint", "must not be more than 500 characters long")
	v.Check(validator.In(instance.Status, Statuses...), "status", "must be one of: Maintenance, On loan, Available, Reserved")

	if instance.DueBack != nil {
		v.Check(instance.Status == StatusOnLoan, "due_back", "must only be set while the copy is on loan")
	}
	if instance.BorrowerID != nil {
		v.Check(instance.Status == StatusOnLoan || instance.Status == StatusReserved,
			"borrower_id", "must only be set while the copy is on loan or reserved")
	}
}

// ValidateRenewal checks a renewal submission against today's date: the
// new due date must not be in the past and must be at most four weeks
// out. Both range rules run, so a date failing each reports each.
func ValidateRenewal(v *validator.Validator, input *RenewalInput) {
	if input.DueBack == nil {
		v.AddError("due_back", "must be provided")
	} else {
		today := Today()
		v.CheckDate("due_back", input.DueBack.Time,
			validator.MinDate(today.Time, ""),
			validator.MaxDate(today.Time, 4*7*24*time.Hour, ""),
		)
	}

	if input.BorrowerID == nil {
		v.AddError("borrower_id", "must be provided")
	} else {
		v.Check(*input.BorrowerID > 0, "borrower_id", "must be a valid user")
	}
}

// InstanceModel wraps a *sql.DB connection and provides methods for
// creating, reading, updating, and deleting book copies.
type InstanceModel struct {
	DB *sql.DB // Shared database connection pool
}

// instanceColumns is the SELECT list shared by every instance query.
const instanceColumns = `instance_id, book_id, imprint, due_back, status, borrower_id, created_at, updated_at`

// scanInstance reads one instance row from a row scanner.
func scanInstance(scan func(dest ...any) error, totalRecords *int) (*BookInstance, error) {
	var instance BookInstance
	var dueBack sql.Null[Date]
	var borrowerID sql.NullInt64

	dest := []any{}
	if totalRecords != nil {
		dest = append(dest, totalRecords)
	}
	dest = append(dest,
		&instance.ID,
		&instance.BookID,
		&instance.Imprint,
		&dueBack,
		&instance.Status,
		&borrowerID,
		&instance.CreatedAt,
		&instance.UpdatedAt,
	)

	if err := scan(dest...); err != nil {
		return nil, err
	}
	if dueBack.Valid {
		instance.DueBack = &dueBack.V
	}
	if borrowerID.Valid {
		instance.BorrowerID = &borrowerID.Int64
	}
	return &instance, nil
}

// Insert adds a new copy record to the database.
// The caller supplies the uuid; created_at and updated_at are written
// back into the struct. Returns ErrDuplicateInstance when a copy with
// that uuid already exists.
func (m InstanceModel) Insert(instance *BookInstance) error {
	query := `
        INSERT INTO book_instances (instance_id, book_id, imprint, due_back, status, borrower_id)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING created_at, updated_at`

	err := m.DB.QueryRow(
		query,
		instance.ID,
		instance.BookID,
		instance.Imprint,
		instance.DueBack,
		instance.Status,
		instance.BorrowerID,
	).Scan(&instance.CreatedAt, &instance.UpdatedAt)
	if err != nil {
		switch {
		case strings.Contains(err.Error(), `duplicate key value violates unique constraint "book_instances_pkey"`):
			return ErrDuplicateInstance
		default:
			return err
		}
	}
	return nil
}

// Get retrieves a single copy by its uuid.
// Returns ErrRecordNotFound if no copy with the given id exists.
func (m InstanceModel) Get(id uuid.UUID) (*BookInstance, error) {
	query := `SELECT ` + instanceColumns + ` FROM book_instances WHERE instance_id = $1`

	row := m.DB.QueryRow(query, id)
	instance, err := scanInstance(row.Scan, nil)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	return instance, nil
}

// GetAll retrieves a paginated, sorted list of every copy plus
// pagination Metadata.
func (m InstanceModel) GetAll(filters Filters) ([]*BookInstance, Metadata, error) {
	query := fmt.Sprintf(`
		SELECT count(*) OVER(), `+instanceColumns+`
		FROM book_instances
		ORDER BY %s %s, instance_id ASC
		LIMIT $1 OFFSET $2`, filters.sortColumn(), filters.sortDirection())

	return m.queryPage(query, filters, filters.limit(), filters.offset())
}

// GetAllOnLoan retrieves copies with status "On loan" ordered ascending
// by due date. When borrowerID is non-nil the result is restricted to
// that borrower's loans.
func (m InstanceModel) GetAllOnLoan(borrowerID *int64, filters Filters) ([]*BookInstance, Metadata, error) {
	query := `
		SELECT count(*) OVER(), ` + instanceColumns + `
		FROM book_instances
		WHERE status = $1
		  AND ($2::bigint IS NULL OR borrower_id = $2)
		ORDER BY due_back ASC, instance_id ASC
		LIMIT $3 OFFSET $4`

	return m.queryPage(query, filters, StatusOnLoan, borrowerID, filters.limit(), filters.offset())
}

// queryPage runs a windowed-count list query and scans the result set.
func (m InstanceModel) queryPage(query string, filters Filters, args ...any) ([]*BookInstance, Metadata, error) {
	rows, err := m.DB.Query(query, args...)
	if err != nil {
		return nil, Metadata{}, err
	}
	defer rows.Close()

	totalRecords := 0
	instances := []*BookInstance{}

	for rows.Next() {
		instance, err := scanInstance(rows.Scan, &totalRecords)
		if err != nil {
			return nil, Metadata{}, err
		}
		instances = append(instances, instance)
	}

	if err = rows.Err(); err != nil {
		return nil, Metadata{}, err
	}

	return instances, calculateMetadata(totalRecords, filters.Page, filters.PageSize), nil
}

// Count returns the total number of copies in the catalog.
func (m InstanceModel) Count() (int, error) {
	var count int
	err := m.DB.QueryRow(`SELECT count(*) FROM book_instances`).Scan(&count)
	return count, err
}

// CountByStatus returns the number of copies currently in the given status.
func (m InstanceModel) CountByStatus(status string) (int, error) {
	var count int
	err := m.DB.QueryRow(`SELECT count(*) FROM book_instances WHERE status = $1`, status).Scan(&count)
	return count, err
}

// Update saves the modified fields of instance back to the database.
// Returns ErrRecordNotFound if the copy no longer exists. Concurrent
// writers resolve last-write-wins.
func (m InstanceModel) Update(instance *BookInstance) error {
	query := `
		UPDATE book_instances
		SET book_id = $1, imprint = $2, due_back = $3, status = $4, borrower_id = $5,
		    updated_at = CURRENT_TIMESTAMP
		WHERE instance_id = $6
		RETURNING updated_at`

	args := []any{
		instance.BookID,
		instance.Imprint,
		instance.DueBack,
		instance.Status,
		instance.BorrowerID,
		instance.ID,
	}

	err := m.DB.QueryRow(query, args...).Scan(&instance.UpdatedAt)
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

// Delete removes the copy with the given uuid from the database.
// Returns ErrRecordNotFound if no matching record exists.
func (m InstanceModel) Delete(id uuid.UUID) error {
	query := `DELETE FROM book_instances WHERE instance_id = $1`

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
