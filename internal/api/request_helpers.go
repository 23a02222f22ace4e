package api

import (
	"log/slog"
	"net/http"
	"strconv"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"
	"github.com/ouvrages/livre-api/internal/api/shared"
	"github.com/ouvrages/livre-api/internal/domain"
	"github.com/ouvrages/livre-api/internal/platform/logger"
)

// Search defaults for list endpoints.
const (
	// DefaultNameSearchLimit caps name searches on authors, editors,
	// categories and users.
	DefaultNameSearchLimit = 3

	// DefaultTitleSearchLimit caps title searches on books.
	DefaultTitleSearchLimit = 50

	// MinNameSearchLength is the shortest accepted name search term.
	MinNameSearchLength = 2
)

// getUserIDFromContext extracts the authenticated user's ID from the request context.
// The user ID is expected to be placed in the context by the authentication middleware.
func getUserIDFromContext(r *http.Request) (int64, bool) {
	return shared.GetUserID(r.Context())
}

// parseID parses a positive integer identifier.
func parseID(name, raw string) (int64, error) {
	if raw == "" {
		return 0, domain.NewValidationError(name, "is required", nil)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.NewValidationError(name, "must be a positive integer", domain.ErrInvalidID)
	}
	return id, nil
}

// getPathID extracts a positive integer ID from the URL path parameters.
func getPathID(r *http.Request, paramName string) (int64, error) {
	return parseID(paramName, chi.URLParam(r, paramName))
}

// handlePathID extracts a path ID, writing a 400 response on failure.
func handlePathID(w http.ResponseWriter, r *http.Request, paramName string) (int64, bool) {
	id, err := getPathID(r, paramName)
	if err != nil {
		logger.FromContext(r.Context()).Debug("invalid path parameter",
			slog.String("param_name", paramName),
			slog.String("value", chi.URLParam(r, paramName)))
		HandleAPIError(w, r, err, "")
		return 0, false
	}
	return id, true
}

// parseLimit reads the optional "limit" query parameter. An absent value
// yields def; anything but a positive integer is a validation error.
func parseLimit(r *http.Request, def int) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return def, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return 0, domain.NewValidationError("limit", "must be a positive integer", nil)
	}
	return limit, nil
}

// parseOptionalQueryID reads an optional positive integer query parameter.
// Zero means absent.
func parseOptionalQueryID(r *http.Request, name string) (int64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	return parseID(name, raw)
}

// nameSearch reads a name search term and the limit that applies to it.
// A present term shorter than MinNameSearchLength is rejected; with a term
// the limit defaults to DefaultNameSearchLimit, without one to no limit.
func nameSearch(r *http.Request, param string) (string, int, error) {
	term := r.URL.Query().Get(param)
	if term != "" && utf8.RuneCountInString(term) < MinNameSearchLength {
		return "", 0, domain.NewValidationError(param, "search term must contain at least 2 characters", nil)
	}
	def := 0
	if term != "" {
		def = DefaultNameSearchLimit
	}
	limit, err := parseLimit(r, def)
	if err != nil {
		return "", 0, err
	}
	return term, limit, nil
}
