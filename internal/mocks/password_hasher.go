package mocks

import (
	"strings"

	"github.com/ouvrages/livre-api/internal/service/auth"
)

// hashPrefix marks passwords "hashed" by MockPasswordHasher.
const hashPrefix = "hashed:"

// MockPasswordHasher implements auth.PasswordHasher for testing without
// paying for bcrypt. Hash prefixes the password and Compare checks it.
type MockPasswordHasher struct {
	HashFn    func(password string) (string, error)
	CompareFn func(hashedPassword, password string) error

	// CompareCallCount tracks how many times Compare was called
	CompareCallCount int
}

// Hash implements the auth.PasswordHasher interface
func (m *MockPasswordHasher) Hash(password string) (string, error) {
	if m.HashFn != nil {
		return m.HashFn(password)
	}
	return hashPrefix + password, nil
}

// Compare implements the auth.PasswordHasher interface
func (m *MockPasswordHasher) Compare(hashedPassword, password string) error {
	m.CompareCallCount++
	if m.CompareFn != nil {
		return m.CompareFn(hashedPassword, password)
	}
	if !strings.HasPrefix(hashedPassword, hashPrefix) || hashedPassword[len(hashPrefix):] != password {
		return auth.ErrInvalidCredentials
	}
	return nil
}
