package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/ouvrages/livre-api/internal/api/shared"
	"github.com/ouvrages/livre-api/internal/domain"
	"github.com/ouvrages/livre-api/internal/platform/covers"
	"github.com/ouvrages/livre-api/internal/service/auth"
	"github.com/ouvrages/livre-api/internal/store"
)

// Upload errors raised by multipart handlers.
var (
	// ErrInvalidForm is returned when a multipart body cannot be parsed.
	ErrInvalidForm = errors.New("invalid multipart form")

	// ErrMissingImage is returned when an image upload carries no file.
	ErrMissingImage = errors.New("no image file provided")
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	var validationErrs validator.ValidationErrors
	var maxBytesErr *http.MaxBytesError

	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrIdentityMismatch),
		errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized

	// Not found errors
	case store.IsNotFoundError(err):
		return http.StatusNotFound

	// Conflict errors
	case store.IsDuplicateError(err),
		errors.Is(err, store.ErrReferenced):
		return http.StatusConflict

	case errors.As(err, &maxBytesErr):
		return http.StatusRequestEntityTooLarge

	// Bad request errors
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, covers.ErrInvalidImage),
		errors.Is(err, shared.ErrInvalidJSON),
		errors.Is(err, ErrInvalidForm),
		errors.Is(err, ErrMissingImage),
		errors.As(err, &validationErrs):
		return http.StatusBadRequest

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	var validationErr *domain.ValidationError
	var validationErrs validator.ValidationErrors
	var maxBytesErr *http.MaxBytesError

	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrExpiredToken):
		return "Token expired"
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrTokenNotYetValid):
		return "Invalid token"
	case errors.Is(err, auth.ErrMissingToken):
		return "Authorization header required"
	case errors.Is(err, auth.ErrIdentityMismatch):
		return "User ID does not match the authenticated user"
	case errors.Is(err, auth.ErrInvalidCredentials):
		return "Incorrect password"

	// Not found errors
	case errors.Is(err, store.ErrBookNotFound):
		return "Book not found"
	case errors.Is(err, store.ErrAuthorNotFound):
		return "Author not found"
	case errors.Is(err, store.ErrEditorNotFound):
		return "Editor not found"
	case errors.Is(err, store.ErrCategoryNotFound):
		return "Category not found"
	case errors.Is(err, store.ErrUserNotFound):
		return "User not found"
	case errors.Is(err, store.ErrRatingNotFound):
		return "Rating not found"
	case errors.Is(err, store.ErrCommentNotFound):
		return "Comment not found"
	case store.IsNotFoundError(err):
		return "Resource not found"

	// Conflict errors
	case errors.Is(err, store.ErrUsernameExists):
		return "Username already exists"
	case errors.Is(err, store.ErrRatingExists):
		return "This user has already rated this book"
	case errors.Is(err, store.ErrCommentExists):
		return "This user has already commented on this book"
	case errors.Is(err, store.ErrReferenced):
		return "Resource is still referenced by other records"

	// Bad request errors
	case errors.As(err, &validationErr):
		return validationMessage(validationErr)
	case errors.As(err, &validationErrs):
		return SanitizeValidationError(err)
	case errors.Is(err, store.ErrInvalidEntity):
		return "Invalid entity data: a referenced record does not exist or a constraint failed"
	case errors.Is(err, covers.ErrInvalidImage):
		return "Invalid image file"
	case errors.As(err, &maxBytesErr):
		return fmt.Sprintf("Request body exceeds %d bytes", maxBytesErr.Limit)
	case errors.Is(err, shared.ErrInvalidJSON),
		errors.Is(err, ErrInvalidForm):
		return "Invalid request format"
	case errors.Is(err, ErrMissingImage):
		return "No image file provided"

	default:
		return "An unexpected error occurred"
	}
}

func validationMessage(err *domain.ValidationError) string {
	if err.Field == "" {
		return capitalize(err.Message)
	}
	return fmt.Sprintf("Invalid %s: %s", err.Field, err.Message)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// SanitizeValidationError reduces validator errors to a message naming the
// first failing field, e.g. "Invalid titre: required field".
func SanitizeValidationError(err error) string {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) && len(validationErrs) > 0 {
		fe := validationErrs[0]
		return fmt.Sprintf("Invalid %s: %s", fe.Field(), getValidationTagMessage(fe.Tag(), fe.Param()))
	}
	return "Validation error"
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag, param string) string {
	switch tag {
	case "required":
		return "required field"
	case "min":
		return "too short"
	case "max":
		return "too long"
	case "gte":
		return "must be at least " + param
	case "lte":
		return "must be at most " + param
	case "oneof":
		return "invalid value"
	default:
		return "validation failed"
	}
}

// HandleAPIError writes the error envelope for err. defaultMsg replaces the
// generic message of unmapped (500) errors when non-empty. The redacted
// error detail is only logged.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, defaultMsg string) {
	status := MapErrorToStatusCode(err)
	message := GetSafeErrorMessage(err)
	if status == http.StatusInternalServerError && defaultMsg != "" {
		message = defaultMsg
	}

	var opts []shared.ResponseOption
	if status == http.StatusUnauthorized {
		opts = append(opts, shared.WithElevatedLogLevel())
	}
	shared.RespondWithErrorAndLog(w, r, status, message, err, opts...)
}
