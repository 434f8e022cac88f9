// Package user provides the user entity, its store contract, and the
// service that couples entity mutations to domain event emission.
package user

import (
	"strings"
	"time"
)

const (
	// NameMaxLength bounds the name and surname fields.
	NameMaxLength = 255

	// MaxPerPage is the largest page size served by List; larger requests
	// are clamped.
	MaxPerPage = 100

	// DefaultPerPage is the page size used when the caller does not ask
	// for one.
	DefaultPerPage = 10
)

// User represents a stored user record. Password is kept opaque and stored
// as given; it is never included in API responses.
type User struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Surname   string    `db:"surname" json:"surname"`
	Password  string    `db:"password" json:"-"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// CreateInput holds the fields required to create a user.
type CreateInput struct {
	Name     string
	Surname  string
	Password string
}

// Validate checks the create input against the field bounds.
func (in CreateInput) Validate() error {
	if err := validateName("name", in.Name); err != nil {
		return err
	}
	if err := validateName("surname", in.Surname); err != nil {
		return err
	}
	if in.Password == "" {
		return NewError(ErrCodeValidation, "password is required")
	}
	return nil
}

// UpdateInput holds a partial field set for an update. Nil fields are left
// untouched by the store.
type UpdateInput struct {
	Name     *string
	Surname  *string
	Password *string
}

// Validate checks the supplied fields only.
func (in UpdateInput) Validate() error {
	if in.Name == nil && in.Surname == nil && in.Password == nil {
		return NewError(ErrCodeValidation, "at least one field must be provided")
	}
	if in.Name != nil {
		if err := validateName("name", *in.Name); err != nil {
			return err
		}
	}
	if in.Surname != nil {
		if err := validateName("surname", *in.Surname); err != nil {
			return err
		}
	}
	if in.Password != nil && *in.Password == "" {
		return NewError(ErrCodeValidation, "password must not be empty")
	}
	return nil
}

// PageRequest holds 1-based pagination parameters.
type PageRequest struct {
	Page    int
	PerPage int
}

// Normalize validates the page parameters and clamps PerPage to MaxPerPage.
func (p PageRequest) Normalize() (PageRequest, error) {
	if p.Page <= 0 {
		return PageRequest{}, NewError(ErrCodeValidation, "page must be positive")
	}
	if p.PerPage <= 0 {
		return PageRequest{}, NewError(ErrCodeValidation, "per_page must be positive")
	}
	if p.PerPage > MaxPerPage {
		p.PerPage = MaxPerPage
	}
	return p, nil
}

// Offset returns the row offset for the page.
func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.PerPage
}

// PageResult holds one page of users plus the total row count.
type PageResult struct {
	Users   []User
	Total   int64
	Page    int
	PerPage int
}

func validateName(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return NewError(ErrCodeValidation, field+" must not be empty")
	}
	if len(value) > NameMaxLength {
		return NewError(ErrCodeValidation, field+" exceeds maximum length")
	}
	return nil
}
