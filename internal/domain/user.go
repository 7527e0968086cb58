package domain

import (
	"strings"
	"time"
)

// User is the single resource managed by the service.
// ID and both timestamps are assigned by the persistence layer.
type User struct {
	ID        string
	Name      string
	Email     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewUser builds an unsaved User from raw input, normalizing both fields.
// Returns a ValidationError if either field is blank after normalization.
func NewUser(name, email string) (*User, error) {
	user := &User{
		Name:  NormalizeName(name),
		Email: NormalizeEmail(email),
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// Validate checks the fields a stored user must always have.
func (u *User) Validate() error {
	if u.Name == "" {
		return NewValidationError("name", "cannot be empty", ErrEmptyName)
	}
	if u.Email == "" {
		return NewValidationError("email", "cannot be empty", ErrEmptyEmail)
	}
	return nil
}

// UserPatch carries the fields supplied to an update. A nil field is left
// untouched.
type UserPatch struct {
	Name  *string
	Email *string
}

// Normalized returns a copy of the patch with supplied fields normalized the
// same way NewUser normalizes them.
func (p UserPatch) Normalized() UserPatch {
	var out UserPatch
	if p.Name != nil {
		name := NormalizeName(*p.Name)
		out.Name = &name
	}
	if p.Email != nil {
		email := NormalizeEmail(*p.Email)
		out.Email = &email
	}
	return out
}

// Validate applies the creation rules to every supplied field.
// It expects a normalized patch.
func (p UserPatch) Validate() error {
	if p.Name != nil && *p.Name == "" {
		return NewValidationError("name", "cannot be empty", ErrEmptyName)
	}
	if p.Email != nil && *p.Email == "" {
		return NewValidationError("email", "cannot be empty", ErrEmptyEmail)
	}
	return nil
}

// Apply copies the supplied fields onto u.
func (p UserPatch) Apply(u *User) {
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
}

// NormalizeName trims surrounding whitespace.
func NormalizeName(name string) string {
	return strings.TrimSpace(name)
}

// NormalizeEmail trims surrounding whitespace and lower-cases the address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
