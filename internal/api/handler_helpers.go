package api

import (
	"log/slog"
	"net/http"

	"github.com/ouvrages/livre-api/internal/api/shared"
	"github.com/ouvrages/livre-api/internal/platform/logger"
)

// decodeAndValidate reads a JSON body into req and validates it. On failure
// it writes the error response and returns false.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, req interface{}) bool {
	if err := shared.DecodeJSON(w, r, req); err != nil {
		HandleAPIError(w, r, err, "")
		return false
	}
	if err := shared.ValidateRequest(req); err != nil {
		HandleAPIError(w, r, err, "")
		return false
	}
	return true
}

// handleQueryError writes the 400 for a malformed query parameter.
func handleQueryError(w http.ResponseWriter, r *http.Request, err error) {
	logger.FromContext(r.Context()).Debug("invalid query parameter",
		slog.String("query", r.URL.RawQuery))
	HandleAPIError(w, r, err, "")
}

// requireUserID returns the authenticated user, writing a 401 when the
// route was mounted without the auth middleware.
func requireUserID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		shared.RespondWithErrorAndLog(w, r, http.StatusUnauthorized, "User ID not found or invalid", nil,
			shared.WithElevatedLogLevel())
		return 0, false
	}
	return userID, true
}

func componentLogger(log *slog.Logger, component string) *slog.Logger {
	if log == nil {
		// ALLOW-PANIC: constructor enforcing required dependency
		panic("logger cannot be nil for " + component)
	}
	return log.With(slog.String("component", component))
}
