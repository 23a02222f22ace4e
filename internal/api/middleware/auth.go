package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/ouvrages/livre-api/internal/api/shared"
	"github.com/ouvrages/livre-api/internal/platform/logger"
	"github.com/ouvrages/livre-api/internal/service/auth"
)

// maxInspectedBodyBytes bounds the JSON body read for the identity check.
const maxInspectedBodyBytes = 1 << 20

// identityFields are the body fields that name the acting user.
var identityFields = []string{"userId", "idUtilisateur"}

// AuthMiddleware provides JWT authentication for routes.
type AuthMiddleware struct {
	jwtService auth.JWTService
}

// NewAuthMiddleware creates a new AuthMiddleware with the given dependencies.
func NewAuthMiddleware(jwtService auth.JWTService) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
	}
}

// Authenticate validates the bearer token from the Authorization header and
// adds the user ID and claims to the request context. A JSON body naming a
// different user in userId or idUtilisateur is rejected; the body is left
// intact for the handler.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			unauthorized(w, r, "Authorization header required", auth.ErrMissingToken)
			return
		}

		parts := strings.Fields(authHeader)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			unauthorized(w, r, "Invalid authorization format", auth.ErrInvalidToken)
			return
		}

		claims, err := m.jwtService.ValidateToken(r.Context(), parts[1])
		if err != nil {
			switch {
			case errors.Is(err, auth.ErrExpiredToken):
				unauthorized(w, r, "Token expired", err)
			default:
				unauthorized(w, r, "Invalid token", err)
			}
			return
		}

		if err := checkBodyIdentity(w, r, claims.UserID); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				shared.RespondWithErrorAndLog(w, r, http.StatusRequestEntityTooLarge,
					fmt.Sprintf("Request body exceeds %d bytes", tooLarge.Limit), err)
				return
			}
			unauthorized(w, r, "User ID does not match the authenticated user", err)
			return
		}

		ctx := shared.WithUserID(r.Context(), claims.UserID)
		ctx = context.WithValue(ctx, shared.ClaimsContextKey, claims)
		ctx = logger.WithLogger(ctx, logger.FromContext(ctx).With(slog.Int64("user_id", claims.UserID)))

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func unauthorized(w http.ResponseWriter, r *http.Request, message string, err error) {
	shared.RespondWithErrorAndLog(w, r, http.StatusUnauthorized, message, err, shared.WithElevatedLogLevel())
}

// checkBodyIdentity compares the user named by a JSON body with userID and
// restores r.Body afterwards. Non-JSON and empty bodies pass. Oversize
// bodies fail with an error wrapping *http.MaxBytesError.
func checkBodyIdentity(w http.ResponseWriter, r *http.Request, userID int64) error {
	if r.Body == nil || r.Body == http.NoBody || !isJSON(r.Header.Get("Content-Type")) {
		return nil
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxInspectedBodyBytes))
	_ = r.Body.Close()
	r.Body = io.NopCloser(bytes.NewReader(body))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return err
		}
		return nil
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}

	var fields map[string]json.RawMessage
	if json.Unmarshal(body, &fields) != nil {
		// Not an object; the handler reports the malformed body.
		return nil
	}

	for _, name := range identityFields {
		raw, ok := fields[name]
		if !ok || string(raw) == "null" {
			continue
		}
		id, ok := parseIdentity(raw)
		if !ok || id != userID {
			return auth.ErrIdentityMismatch
		}
	}
	return nil
}

// parseIdentity accepts a JSON number or a numeric string.
func parseIdentity(raw json.RawMessage) (int64, bool) {
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		id, err := n.Int64()
		return id, err == nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, false
	}
	id, err := strconv.ParseInt(s, 10, 64)
	return id, err == nil
}

func isJSON(contentType string) bool {
	if contentType == "" {
		return false
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	return err == nil && (mediaType == "application/json" || strings.HasSuffix(mediaType, "+json"))
}

// GetUserID extracts the user ID from the request context.
// Returns the user ID and a boolean indicating if it was found.
func GetUserID(r *http.Request) (int64, bool) {
	return shared.GetUserID(r.Context())
}

// GetClaims returns the validated token claims stored by Authenticate.
func GetClaims(ctx context.Context) (*auth.Claims, bool) {
	claims, ok := ctx.Value(shared.ClaimsContextKey).(*auth.Claims)
	return claims, ok && claims != nil
}
