package api

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/ouvrages/livre-api/internal/api/middleware"
	"github.com/ouvrages/livre-api/internal/api/shared"
	"github.com/ouvrages/livre-api/internal/domain"
	"github.com/ouvrages/livre-api/internal/platform/logger"
	"github.com/ouvrages/livre-api/internal/service/auth"
	"github.com/ouvrages/livre-api/internal/store"
)

// TokenCheckResponse is the payload of GET /api/users/token.
type TokenCheckResponse struct {
	UserID   int64  `json:"idUtilisateur"`
	Username string `json:"nomUtilisateur,omitempty"`
}

// UserHandler handles user registration and user management requests.
type UserHandler struct {
	users      store.UserStore
	jwtService auth.JWTService
	hasher     auth.PasswordHasher
	logger     *slog.Logger
}

// NewUserHandler creates a new UserHandler.
// It panics if any required dependency is nil.
func NewUserHandler(
	users store.UserStore,
	jwtService auth.JWTService,
	hasher auth.PasswordHasher,
	logger *slog.Logger,
) *UserHandler {
	if users == nil || jwtService == nil || hasher == nil {
		// ALLOW-PANIC: constructor enforcing required dependency
		panic("user handler dependencies cannot be nil")
	}
	return &UserHandler{
		users:      users,
		jwtService: jwtService,
		hasher:     hasher,
		logger:     componentLogger(logger, "user_handler"),
	}
}

// Signup handles POST /api/users. The password is hashed before storage
// and a token for the new user is returned alongside it.
func (h *UserHandler) Signup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromContextOrDefault(ctx, h.logger)

	var req SignupRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	if err := domain.ValidatePassword(req.Password); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	hash, err := h.hasher.Hash(req.Password)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create user")
		return
	}

	user := &domain.User{Username: req.Username, PasswordHash: hash}
	if err := h.users.Create(ctx, user); err != nil {
		HandleAPIError(w, r, err, "Failed to create user")
		return
	}

	token, err := h.jwtService.GenerateToken(ctx, user.ID, user.Username)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to generate authentication token")
		return
	}

	log.Info("user registered", slog.Int64("user_id", user.ID))
	shared.RespondWithJSON(w, r, http.StatusOK, shared.Envelope{
		Message: fmt.Sprintf("L'utilisateur %s a bien été créé !", user.Username),
		Data:    user,
		Token:   token,
	})
}

// List handles GET /api/users?name=&limit=.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	term, limit, err := nameSearch(r, "name")
	if err != nil {
		handleQueryError(w, r, err)
		return
	}

	users, err := h.users.List(r.Context(), store.ListOptions{Search: term, Limit: limit})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list users")
		return
	}

	shared.RespondWithData(w, r, http.StatusOK,
		listMessage(term != "", len(users), "utilisateur", "utilisateurs"), users)
}

// TokenCheck handles GET /api/users/token. Reaching it means the auth
// middleware accepted the token.
func (h *UserHandler) TokenCheck(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	resp := TokenCheckResponse{UserID: userID}
	if claims, ok := middleware.GetClaims(r.Context()); ok {
		resp.Username = claims.Username
	}
	shared.RespondWithData(w, r, http.StatusOK, "valid token", resp)
}

// Get handles GET /api/users/{id}.
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := handlePathID(w, r, "id")
	if !ok {
		return
	}

	user, err := h.users.GetByID(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get user")
		return
	}

	shared.RespondWithData(w, r, http.StatusOK, getMessage(subjectUser, user.ID), user)
}

// Update handles PUT /api/users/{id}. Users may only update themselves; a
// new password is hashed before storage.
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.ownUserID(w, r)
	if !ok {
		return
	}

	var req UserUpdateRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	patch := domain.UserPatch{Username: req.Username, Proposals: req.Proposals}
	if req.Password != nil {
		if err := domain.ValidatePassword(*req.Password); err != nil {
			HandleAPIError(w, r, err, "")
			return
		}
		hash, err := h.hasher.Hash(*req.Password)
		if err != nil {
			HandleAPIError(w, r, err, "Failed to update user")
			return
		}
		patch.PasswordHash = &hash
	}
	if err := patch.Validate(); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	user, err := h.users.Update(r.Context(), id, patch)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update user")
		return
	}

	shared.RespondWithData(w, r, http.StatusOK, updatedMessage(subjectUser, user.Username, user.ID), user)
}

// Delete handles DELETE /api/users/{id}. Users may only delete themselves;
// their ratings and comments go with them.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.ownUserID(w, r)
	if !ok {
		return
	}

	user, err := h.users.Delete(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to delete user")
		return
	}

	logger.FromContextOrDefault(r.Context(), h.logger).Info("user deleted", slog.Int64("user_id", id))
	shared.RespondWithData(w, r, http.StatusOK, deletedMessage(subjectUser, user.Username), user)
}

// ownUserID reads the {id} path parameter and checks it names the caller.
func (h *UserHandler) ownUserID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	callerID, ok := requireUserID(w, r)
	if !ok {
		return 0, false
	}
	id, ok := handlePathID(w, r, "id")
	if !ok {
		return 0, false
	}
	if id != callerID {
		HandleAPIError(w, r, auth.ErrIdentityMismatch, "")
		return 0, false
	}
	return id, true
}
