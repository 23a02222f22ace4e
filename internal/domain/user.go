package domain

import (
	"errors"
	"time"
)

// MaxPasswordLength is the longest password bcrypt accepts, in bytes.
const MaxPasswordLength = 72

// Common user validation errors
var (
	ErrEmptyPassword       = errors.New("password cannot be empty")
	ErrPasswordTooLong     = errors.New("password must be at most 72 bytes long")
	ErrEmptyHashedPassword = errors.New("hashed password cannot be empty")
)

// User is a registered reader. The password hash is never serialized.
type User struct {
	ID           int64     `json:"idUtilisateur"`
	Username     string    `json:"nomUtilisateur"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	Proposals    int       `json:"nbPropositions"`
}

// Validate checks the fields that must hold before a user is stored.
// The password must already be hashed.
func (u *User) Validate() error {
	if err := ValidateUsername(u.Username); err != nil {
		return err
	}
	if u.PasswordHash == "" {
		return NewValidationError("mdp", "is required", ErrEmptyHashedPassword)
	}
	if u.Proposals < 0 {
		return NewValidationError("nbPropositions", "must not be negative", nil)
	}
	return nil
}

// ValidateUsername checks a username against the column constraints.
func ValidateUsername(name string) error {
	if err := checkRequired("nomUtilisateur", name); err != nil {
		return err
	}
	return checkMaxLen("nomUtilisateur", name, MaxNameLength)
}

// ValidatePassword checks a plaintext password before hashing.
func ValidatePassword(password string) error {
	if password == "" {
		return NewValidationError("mdp", "is required", ErrEmptyPassword)
	}
	if len(password) > MaxPasswordLength {
		return NewValidationError("mdp", "must be at most 72 bytes", ErrPasswordTooLong)
	}
	return nil
}

// UserPatch is a partial user update. PasswordHash must already be hashed.
type UserPatch struct {
	Username     *string
	PasswordHash *string
	Proposals    *int
}

// Validate checks the fields present in the patch.
func (p UserPatch) Validate() error {
	if p.Username == nil && p.PasswordHash == nil && p.Proposals == nil {
		return NewValidationError("", "request body must contain at least one field", ErrEmptyPatch)
	}
	if p.Username != nil {
		if err := ValidateUsername(*p.Username); err != nil {
			return err
		}
	}
	if p.PasswordHash != nil && *p.PasswordHash == "" {
		return NewValidationError("mdp", "is required", ErrEmptyHashedPassword)
	}
	if p.Proposals != nil && *p.Proposals < 0 {
		return NewValidationError("nbPropositions", "must not be negative", nil)
	}
	return nil
}
