package api

import (
	"log/slog"
	"net/http"

	"github.com/ouvrages/livre-api/internal/api/shared"
	"github.com/ouvrages/livre-api/internal/domain"
	"github.com/ouvrages/livre-api/internal/platform/logger"
	"github.com/ouvrages/livre-api/internal/store"
)

// CategoryHandler handles category requests.
type CategoryHandler struct {
	categories store.CategoryStore
	books      store.BookStore
	logger     *slog.Logger
}

// NewCategoryHandler creates a new CategoryHandler.
func NewCategoryHandler(categories store.CategoryStore, books store.BookStore, logger *slog.Logger) *CategoryHandler {
	return &CategoryHandler{
		categories: categories,
		books:      books,
		logger:     componentLogger(logger, "category_handler"),
	}
}

// List handles GET /api/categories?nom=&limit=.
func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	term, limit, err := nameSearch(r, "nom")
	if err != nil {
		handleQueryError(w, r, err)
		return
	}

	categories, err := h.categories.List(r.Context(), store.ListOptions{Search: term, Limit: limit})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list categories")
		return
	}

	shared.RespondWithData(w, r, http.StatusOK,
		listMessage(term != "", len(categories), "catégorie", "catégories"), categories)
}

// Get handles GET /api/categories/{id}.
func (h *CategoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := handlePathID(w, r, "id")
	if !ok {
		return
	}

	category, err := h.categories.GetByID(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get category")
		return
	}

	shared.RespondWithData(w, r, http.StatusOK, getMessage(subjectCategory, category.ID), category)
}

// Create handles POST /api/categories.
func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CategoryRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	category := &domain.Category{Name: req.Name}
	if err := h.categories.Create(r.Context(), category); err != nil {
		HandleAPIError(w, r, err, "Failed to create category")
		return
	}

	shared.RespondWithData(w, r, http.StatusOK, createdMessage(subjectCategory, category.Name), category)
}

// Update handles PUT /api/categories/{id}.
func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := handlePathID(w, r, "id")
	if !ok {
		return
	}

	var req CategoryRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	category := &domain.Category{ID: id, Name: req.Name}
	if err := h.categories.Update(r.Context(), category); err != nil {
		HandleAPIError(w, r, err, "Failed to update category")
		return
	}

	shared.RespondWithData(w, r, http.StatusOK, updatedMessage(subjectCategory, category.Name, category.ID), category)
}

// Delete handles DELETE /api/categories/{id}. Categories with books cannot
// be deleted.
func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := handlePathID(w, r, "id")
	if !ok {
		return
	}

	category, err := h.categories.Delete(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to delete category")
		return
	}
	logger.FromContextOrDefault(r.Context(), h.logger).Info("category deleted", slog.Int64("category_id", id))

	shared.RespondWithData(w, r, http.StatusOK, deletedMessage(subjectCategory, category.Name), category)
}

// ListBooks handles GET /api/categories/{id}/livres.
func (h *CategoryHandler) ListBooks(w http.ResponseWriter, r *http.Request) {
	id, ok := handlePathID(w, r, "id")
	if !ok {
		return
	}

	category, err := h.categories.GetByID(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get category")
		return
	}

	books, err := h.books.List(r.Context(), store.BookFilter{CategoryID: category.ID, ByTitle: true})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list books")
		return
	}

	shared.RespondWithData(w, r, http.StatusOK, booksOfMessage("la catégorie "+category.Name), books)
}
