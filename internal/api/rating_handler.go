package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/ouvrages/livre-api/internal/api/shared"
	"github.com/ouvrages/livre-api/internal/domain"
	"github.com/ouvrages/livre-api/internal/service/auth"
	"github.com/ouvrages/livre-api/internal/store"
)

// Path parameters identifying a rating or comment.
const (
	userIDParam = "idUtilisateur"
	bookIDParam = "idOuvrage"
)

// RatingHandler handles rating ("appreciation") requests.
type RatingHandler struct {
	ratings store.RatingStore
	logger  *slog.Logger
}

// NewRatingHandler creates a new RatingHandler.
func NewRatingHandler(ratings store.RatingStore, logger *slog.Logger) *RatingHandler {
	return &RatingHandler{
		ratings: ratings,
		logger:  componentLogger(logger, "rating_handler"),
	}
}

// List handles GET /api/appreciation?note=&limit=. With note, only scores
// strictly above it are returned.
func (h *RatingHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := store.RatingFilter{}

	if raw := r.URL.Query().Get("note"); raw != "" {
		score, err := strconv.Atoi(raw)
		if err != nil || domain.ValidateScore(score) != nil {
			handleQueryError(w, r, domain.NewValidationError("note", "must be an integer between 0 and 5", nil))
			return
		}
		filter.ScoreAbove = &score
	}

	defaultLimit := 0
	if filter.ScoreAbove != nil {
		defaultLimit = DefaultNameSearchLimit
	}
	limit, err := parseLimit(r, defaultLimit)
	if err != nil {
		handleQueryError(w, r, err)
		return
	}
	filter.Limit = limit

	ratings, err := h.ratings.List(r.Context(), filter)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list ratings")
		return
	}

	shared.RespondWithData(w, r, http.StatusOK,
		listMessage(filter.ScoreAbove != nil, len(ratings), "appréciation", "appréciations"), ratings)
}

// Create handles POST /api/appreciation. A second rating of the same book
// by the same user is a conflict.
func (h *RatingHandler) Create(w http.ResponseWriter, r *http.Request) {
	callerID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req RatingRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	if req.UserID != callerID {
		HandleAPIError(w, r, auth.ErrIdentityMismatch, "")
		return
	}

	rating := &domain.Rating{UserID: req.UserID, BookID: req.BookID, Score: *req.Score}
	if err := h.ratings.Create(r.Context(), rating); err != nil {
		HandleAPIError(w, r, err, "Failed to create rating")
		return
	}

	shared.RespondWithData(w, r, http.StatusOK,
		reviewMessage(subjectRating, rating.UserID, rating.BookID, "créé"), rating)
}

// Get handles GET /api/appreciation/{idUtilisateur}/{idOuvrage}.
func (h *RatingHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, bookID, ok := handleReviewKey(w, r, false)
	if !ok {
		return
	}

	rating, err := h.ratings.Get(r.Context(), userID, bookID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get rating")
		return
	}

	shared.RespondWithData(w, r, http.StatusOK, reviewMessage(subjectRating, userID, bookID, "récupéré"), rating)
}

// Update handles PUT /api/appreciation/{idUtilisateur}/{idOuvrage}.
func (h *RatingHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, bookID, ok := handleReviewKey(w, r, true)
	if !ok {
		return
	}

	var req ScoreRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	if req.UserID != 0 && req.UserID != userID {
		HandleAPIError(w, r, auth.ErrIdentityMismatch, "")
		return
	}

	rating := &domain.Rating{UserID: userID, BookID: bookID, Score: *req.Score}
	if err := h.ratings.Update(r.Context(), rating); err != nil {
		HandleAPIError(w, r, err, "Failed to update rating")
		return
	}

	shared.RespondWithData(w, r, http.StatusOK, reviewMessage(subjectRating, userID, bookID, "mis à jour"), rating)
}

// Delete handles DELETE /api/appreciation/{idUtilisateur}/{idOuvrage}.
func (h *RatingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, bookID, ok := handleReviewKey(w, r, true)
	if !ok {
		return
	}

	rating, err := h.ratings.Delete(r.Context(), userID, bookID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to delete rating")
		return
	}

	shared.RespondWithData(w, r, http.StatusOK, reviewMessage(subjectRating, userID, bookID, "supprimé"), rating)
}

// handleReviewKey reads the (user, book) key of a rating or comment from
// the path. When own is set the user must be the caller.
func handleReviewKey(w http.ResponseWriter, r *http.Request, own bool) (int64, int64, bool) {
	userID, ok := handlePathID(w, r, userIDParam)
	if !ok {
		return 0, 0, false
	}
	bookID, ok := handlePathID(w, r, bookIDParam)
	if !ok {
		return 0, 0, false
	}
	if own {
		callerID, ok := requireUserID(w, r)
		if !ok {
			return 0, 0, false
		}
		if callerID != userID {
			HandleAPIError(w, r, auth.ErrIdentityMismatch, "")
			return 0, 0, false
		}
	}
	return userID, bookID, true
}
