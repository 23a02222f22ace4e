package api

import (
	"log/slog"
	"net/http"

	"github.com/ouvrages/livre-api/internal/api/shared"
	"github.com/ouvrages/livre-api/internal/domain"
	"github.com/ouvrages/livre-api/internal/service/auth"
	"github.com/ouvrages/livre-api/internal/store"
)

// CommentHandler handles comment ("commentaire") requests.
type CommentHandler struct {
	comments store.CommentStore
	logger   *slog.Logger
}

// NewCommentHandler creates a new CommentHandler.
func NewCommentHandler(comments store.CommentStore, logger *slog.Logger) *CommentHandler {
	return &CommentHandler{
		comments: comments,
		logger:   componentLogger(logger, "comment_handler"),
	}
}

// List handles GET /api/commentaires?idOuvrage=&limit=.
func (h *CommentHandler) List(w http.ResponseWriter, r *http.Request) {
	bookID, err := parseOptionalQueryID(r, bookIDParam)
	if err != nil {
		handleQueryError(w, r, err)
		return
	}
	limit, err := parseLimit(r, 0)
	if err != nil {
		handleQueryError(w, r, err)
		return
	}

	comments, err := h.comments.List(r.Context(), store.CommentFilter{BookID: bookID, Limit: limit})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list comments")
		return
	}

	shared.RespondWithData(w, r, http.StatusOK,
		listMessage(bookID != 0, len(comments), "commentaire", "commentaires"), comments)
}

// Create handles POST /api/commentaires. A second comment on the same book
// by the same user is a conflict.
func (h *CommentHandler) Create(w http.ResponseWriter, r *http.Request) {
	callerID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req CommentRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	if req.UserID != callerID {
		HandleAPIError(w, r, auth.ErrIdentityMismatch, "")
		return
	}

	comment := &domain.Comment{UserID: req.UserID, BookID: req.BookID, Text: req.Text}
	if err := h.comments.Create(r.Context(), comment); err != nil {
		HandleAPIError(w, r, err, "Failed to create comment")
		return
	}

	shared.RespondWithData(w, r, http.StatusOK,
		reviewMessage(subjectComment, comment.UserID, comment.BookID, "créé"), comment)
}

// Get handles GET /api/commentaires/{idUtilisateur}/{idOuvrage}.
func (h *CommentHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, bookID, ok := handleReviewKey(w, r, false)
	if !ok {
		return
	}

	comment, err := h.comments.Get(r.Context(), userID, bookID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get comment")
		return
	}

	shared.RespondWithData(w, r, http.StatusOK, reviewMessage(subjectComment, userID, bookID, "récupéré"), comment)
}

// Update handles PUT /api/commentaires/{idUtilisateur}/{idOuvrage}.
func (h *CommentHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, bookID, ok := handleReviewKey(w, r, true)
	if !ok {
		return
	}

	var req CommentTextRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	if req.UserID != 0 && req.UserID != userID {
		HandleAPIError(w, r, auth.ErrIdentityMismatch, "")
		return
	}

	comment := &domain.Comment{UserID: userID, BookID: bookID, Text: req.Text}
	if err := h.comments.Update(r.Context(), comment); err != nil {
		HandleAPIError(w, r, err, "Failed to update comment")
		return
	}

	shared.RespondWithData(w, r, http.StatusOK, reviewMessage(subjectComment, userID, bookID, "mis à jour"), comment)
}

// Delete handles DELETE /api/commentaires/{idUtilisateur}/{idOuvrage}.
func (h *CommentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, bookID, ok := handleReviewKey(w, r, true)
	if !ok {
		return
	}

	comment, err := h.comments.Delete(r.Context(), userID, bookID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to delete comment")
		return
	}

	shared.RespondWithData(w, r, http.StatusOK, reviewMessage(subjectComment, userID, bookID, "supprimé"), comment)
}
