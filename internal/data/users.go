// internal/data/users.go
package data

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/haleyb/libcatalog/internal/validator"
)

// User is an account known to the catalog: a patron who can borrow
// copies, and optionally a staff member allowed to change catalog data.
type User struct {
	ID              int64     `json:"user_id"`
	FirstName       string    `json:"first_name"`
	LastName        string    `json:"last_name"`
	Email           string    `json:"email"`
	Password        password  `json:"-"` // Never serialized
	CanMarkReturned bool      `json:"can_mark_returned"` // Staff flag gating all catalog writes
	CreatedAt       time.Time `json:"created_at"`
}

// DisplayName renders the user as "Last, First", the form used in
// borrower listings.
func (u *User) DisplayName() string {
	return fmt.Sprintf("%s, %s", u.LastName, u.FirstName)
}

// IsAnonymous reports whether the user represents an unauthenticated caller.
func (u *User) IsAnonymous() bool {
	return u == AnonymousUser
}

// AnonymousUser stands in for requests carrying no valid credentials.
var AnonymousUser = &User{}

// password wraps the plaintext (transient) and bcrypt hash of a user's
// password. The plaintext pointer is nil whenever the struct was loaded
// from the database rather than bound from input.
type password struct {
	plaintext *string
	hash      []byte
}

// Set hashes the plaintext password with bcrypt and stores both forms.
func (p *password) Set(plaintext string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), 12)
	if err != nil {
		return err
	}
	p.plaintext = &plaintext
	p.hash = hash
	return nil
}

// Matches reports whether the provided plaintext matches the stored hash.
func (p *password) Matches(plaintext string) (bool, error) {
	err := bcrypt.CompareHashAndPassword(p.hash, []byte(plaintext))
	if err != nil {
		switch {
		case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
			return false, nil
		default:
			return false, err
		}
	}
	return true, nil
}

// RegisterUserInput holds the fields for creating an account.
type RegisterUserInput struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

// ValidateEmail checks a single email value.
func ValidateEmail(v *validator.Validator, email string) {
	v.Check(email != "", "email", "must be provided")
	v.Check(validator.Matches(email, validator.EmailRX), "email", "must be a valid email address")
}

// ValidatePasswordPlaintext checks a raw password before hashing.
func ValidatePasswordPlaintext(v *validator.Validator, plaintext string) {
	v.Check(plaintext != "", "password", "must be provided")
	v.Check(len(plaintext) >= 8, "password", "must be at least 8 characters long")
	v.Check(len(plaintext) <= 72, "password", "must not be more than 72 characters long")
}

// ValidateUser checks a full user record prior to insert.
func ValidateUser(v *validator.Validator, user *User) {
	v.Check(user.FirstName != "", "first_name", "must be provided")
	v.Check(len(user.FirstName) <= 100, "first_name", "must not be more than 100 characters long")
	v.Check(user.LastName != "", "last_name", "must be provided")
	v.Check(len(user.LastName) <= 100, "last_name", "must not be more than 100 characters long")
	v.Check(validator.DistinctNames(user.FirstName, user.LastName), "last_name", validator.MsgSameName)

	ValidateEmail(v, user.Email)

	if user.Password.plaintext != nil {
		ValidatePasswordPlaintext(v, *user.Password.plaintext)
	}

	// A user loaded from the database must always carry a hash; hitting
	// this is a programming error, not a validation failure.
	if user.Password.hash == nil {
		panic("missing password hash for user")
	}
}

// UserModel provides access to the users table.
type UserModel struct {
	DB *sql.DB
}

// Insert adds a new user record. Returns ErrDuplicateEmail when the
// email address is already registered.
func (m UserModel) Insert(user *User) error {
	query := `
        INSERT INTO users (first_name, last_name, email, password_hash, can_mark_returned)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING user_id, created_at`

	err := m.DB.QueryRow(
		query,
		user.FirstName,
		user.LastName,
		user.Email,
		user.Password.hash,
		user.CanMarkReturned,
	).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		switch {
		case strings.Contains(err.Error(), `duplicate key value violates unique constraint "users_email_key"`):
			return ErrDuplicateEmail
		default:
			return err
		}
	}
	return nil
}

// Get retrieves a user by id, or ErrRecordNotFound.
func (m UserModel) Get(id int64) (*User, error) {
	if id < 1 {
		return nil, ErrRecordNotFound
	}

	query := `
		SELECT user_id, first_name, last_name, email, password_hash, can_mark_returned, created_at
		FROM users
		WHERE user_id = $1`

	var user User
	err := m.DB.QueryRow(query, id).Scan(
		&user.ID,
		&user.FirstName,
		&user.LastName,
		&user.Email,
		&user.Password.hash,
		&user.CanMarkReturned,
		&user.CreatedAt,
	)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	return &user, nil
}

// GetByEmail retrieves a user by email address, or ErrRecordNotFound.
func (m UserModel) GetByEmail(email string) (*User, error) {
	query := `
		SELECT user_id, first_name, last_name, email, password_hash, can_mark_returned, created_at
		FROM users
		WHERE email = $1`

	var user User
	err := m.DB.QueryRow(query, email).Scan(
		&user.ID,
		&user.FirstName,
		&user.LastName,
		&user.Email,
		&user.Password.hash,
		&user.CanMarkReturned,
		&user.CreatedAt,
	)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	return &user, nil
}

// GetAll retrieves every user ordered by last name then first name, the
// ordering used to populate borrower selectors.
func (m UserModel) GetAll() ([]*User, error) {
	query := `
		SELECT user_id, first_name, last_name, email, password_hash, can_mark_returned, created_at
		FROM users
		ORDER BY last_name ASC, first_name ASC, user_id ASC`

	rows, err := m.DB.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []*User{}
	for rows.Next() {
		var user User
		err := rows.Scan(
			&user.ID,
			&user.FirstName,
			&user.LastName,
			&user.Email,
			&user.Password.hash,
			&user.CanMarkReturned,
			&user.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		users = append(users, &user)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return users, nil
}

// Exists reports whether a user with the given id is registered.
func (m UserModel) Exists(id int64) (bool, error) {
	if id < 1 {
		return false, nil
	}

	var exists bool
	err := m.DB.QueryRow(`SELECT EXISTS(SELECT 1 FROM users WHERE user_id = $1)`, id).Scan(&exists)
	return exists, err
}
