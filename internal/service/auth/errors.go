package auth

import "errors"

// Common authentication service errors
var (
	// ErrInvalidToken indicates the token format is invalid or signature doesn't match
	ErrInvalidToken = errors.New("invalid authentication token")

	// ErrExpiredToken indicates the token has expired
	ErrExpiredToken = errors.New("authentication token has expired")

	// ErrTokenNotYetValid indicates the token is not yet valid (nbf claim in the future)
	ErrTokenNotYetValid = errors.New("authentication token not yet valid")

	// ErrMissingToken indicates a token was expected but not provided
	ErrMissingToken = errors.New("authentication token is missing")

	// ErrIdentityMismatch indicates a request acts on behalf of a user other
	// than the token holder.
	ErrIdentityMismatch = errors.New("user id does not match the authenticated user")

	// ErrInvalidCredentials indicates the password does not match the stored hash.
	ErrInvalidCredentials = errors.New("invalid credentials")
)
