package api

import (
	"log/slog"
	"net/http"

	"github.com/ouvrages/livre-api/internal/api/shared"
	"github.com/ouvrages/livre-api/internal/platform/logger"
	"github.com/ouvrages/livre-api/internal/service/auth"
	"github.com/ouvrages/livre-api/internal/store"
)

// AuthHandler handles authentication-related API requests.
type AuthHandler struct {
	userStore  store.UserStore
	jwtService auth.JWTService
	hasher     auth.PasswordHasher
	logger     *slog.Logger
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
// It panics if any dependency is nil.
func NewAuthHandler(
	userStore store.UserStore,
	jwtService auth.JWTService,
	hasher auth.PasswordHasher,
	logger *slog.Logger,
) *AuthHandler {
	if userStore == nil || jwtService == nil || hasher == nil {
		// ALLOW-PANIC: constructor enforcing required dependency
		panic("auth handler dependencies cannot be nil")
	}
	return &AuthHandler{
		userStore:  userStore,
		jwtService: jwtService,
		hasher:     hasher,
		logger:     componentLogger(logger, "auth_handler"),
	}
}

// Login handles POST /api/login. An unknown username is a 404 and a wrong
// password a 401; success returns the user and a token.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromContextOrDefault(ctx, h.logger)

	var req LoginRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	user, err := h.userStore.GetByUsername(ctx, req.Username)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to authenticate user")
		return
	}

	if err := h.hasher.Compare(user.PasswordHash, req.Password); err != nil {
		log.Warn("login rejected", slog.Int64("user_id", user.ID))
		HandleAPIError(w, r, err, "")
		return
	}

	token, err := h.jwtService.GenerateToken(ctx, user.ID, user.Username)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to generate authentication token")
		return
	}

	log.Info("user logged in", slog.Int64("user_id", user.ID))
	shared.RespondWithJSON(w, r, http.StatusOK, shared.Envelope{
		Message: "L'utilisateur a été connecté avec succès",
		Data:    user,
		Token:   token,
	})
}
