package api

import (
	"log/slog"
	"net/http"

	"github.com/ouvrages/livre-api/internal/api/shared"
	"github.com/ouvrages/livre-api/internal/domain"
	"github.com/ouvrages/livre-api/internal/platform/logger"
	"github.com/ouvrages/livre-api/internal/store"
)

// AuthorHandler handles author requests.
type AuthorHandler struct {
	authors store.AuthorStore
	books   store.BookStore
	logger  *slog.Logger
}

// NewAuthorHandler creates a new AuthorHandler.
func NewAuthorHandler(authors store.AuthorStore, books store.BookStore, logger *slog.Logger) *AuthorHandler {
	return &AuthorHandler{
		authors: authors,
		books:   books,
		logger:  componentLogger(logger, "author_handler"),
	}
}

// List handles GET /api/auteurs?nom=&limit=.
func (h *AuthorHandler) List(w http.ResponseWriter, r *http.Request) {
	term, limit, err := nameSearch(r, "nom")
	if err != nil {
		handleQueryError(w, r, err)
		return
	}

	authors, err := h.authors.List(r.Context(), store.ListOptions{Search: term, Limit: limit})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list authors")
		return
	}

	shared.RespondWithData(w, r, http.StatusOK,
		listMessage(term != "", len(authors), "auteur", "auteurs"), authors)
}

// Get handles GET /api/auteurs/{id}.
func (h *AuthorHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := handlePathID(w, r, "id")
	if !ok {
		return
	}

	author, err := h.authors.GetByID(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get author")
		return
	}

	shared.RespondWithData(w, r, http.StatusOK, getMessage(subjectAuthor, author.ID), author)
}

// Create handles POST /api/auteurs.
func (h *AuthorHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req AuthorRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	author := &domain.Author{LastName: req.LastName, FirstName: req.FirstName}
	if err := h.authors.Create(r.Context(), author); err != nil {
		HandleAPIError(w, r, err, "Failed to create author")
		return
	}

	shared.RespondWithData(w, r, http.StatusOK, createdMessage(subjectAuthor, authorName(author)), author)
}

// Update handles PUT /api/auteurs/{id}.
func (h *AuthorHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := handlePathID(w, r, "id")
	if !ok {
		return
	}

	var req AuthorRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	patch := domain.AuthorPatch{LastName: req.LastName, FirstName: req.FirstName}
	if err := patch.Validate(); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	author, err := h.authors.Update(r.Context(), id, patch)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update author")
		return
	}

	shared.RespondWithData(w, r, http.StatusOK, updatedMessage(subjectAuthor, authorName(author), author.ID), author)
}

// Delete handles DELETE /api/auteurs/{id}. Authors with books cannot be
// deleted.
func (h *AuthorHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := handlePathID(w, r, "id")
	if !ok {
		return
	}

	author, err := h.authors.Delete(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to delete author")
		return
	}
	logger.FromContextOrDefault(r.Context(), h.logger).Info("author deleted", slog.Int64("author_id", id))

	shared.RespondWithData(w, r, http.StatusOK, deletedMessage(subjectAuthor, authorName(author)), author)
}

// ListBooks handles GET /api/auteurs/{id}/livres.
func (h *AuthorHandler) ListBooks(w http.ResponseWriter, r *http.Request) {
	id, ok := handlePathID(w, r, "id")
	if !ok {
		return
	}

	author, err := h.authors.GetByID(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get author")
		return
	}

	books, err := h.books.List(r.Context(), store.BookFilter{AuthorID: author.ID, ByTitle: true})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list books")
		return
	}

	shared.RespondWithData(w, r, http.StatusOK, booksOfMessage(joinWords("l'auteur", authorName(author))), books)
}

func authorName(a *domain.Author) string {
	return joinWords(derefString(a.FirstName), derefString(a.LastName))
}
