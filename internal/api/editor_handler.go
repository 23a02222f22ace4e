package api

import (
	"log/slog"
	"net/http"

	"github.com/ouvrages/livre-api/internal/api/shared"
	"github.com/ouvrages/livre-api/internal/domain"
	"github.com/ouvrages/livre-api/internal/platform/logger"
	"github.com/ouvrages/livre-api/internal/store"
)

// EditorHandler handles editor requests.
type EditorHandler struct {
	editors store.EditorStore
	books   store.BookStore
	logger  *slog.Logger
}

// NewEditorHandler creates a new EditorHandler.
func NewEditorHandler(editors store.EditorStore, books store.BookStore, logger *slog.Logger) *EditorHandler {
	return &EditorHandler{
		editors: editors,
		books:   books,
		logger:  componentLogger(logger, "editor_handler"),
	}
}

// List handles GET /api/editeurs?nom=&limit=.
func (h *EditorHandler) List(w http.ResponseWriter, r *http.Request) {
	term, limit, err := nameSearch(r, "nom")
	if err != nil {
		handleQueryError(w, r, err)
		return
	}

	editors, err := h.editors.List(r.Context(), store.ListOptions{Search: term, Limit: limit})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list editors")
		return
	}

	shared.RespondWithData(w, r, http.StatusOK,
		listMessage(term != "", len(editors), "éditeur", "éditeurs"), editors)
}

// Get handles GET /api/editeurs/{id}.
func (h *EditorHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := handlePathID(w, r, "id")
	if !ok {
		return
	}

	editor, err := h.editors.GetByID(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get editor")
		return
	}

	shared.RespondWithData(w, r, http.StatusOK, getMessage(subjectEditor, editor.ID), editor)
}

// Create handles POST /api/editeurs.
func (h *EditorHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req EditorRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	editor := &domain.Editor{Name: req.Name}
	if err := h.editors.Create(r.Context(), editor); err != nil {
		HandleAPIError(w, r, err, "Failed to create editor")
		return
	}

	shared.RespondWithData(w, r, http.StatusOK, createdMessage(subjectEditor, derefString(editor.Name)), editor)
}

// Update handles PUT /api/editeurs/{id}.
func (h *EditorHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := handlePathID(w, r, "id")
	if !ok {
		return
	}

	var req EditorRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	patch := domain.EditorPatch{Name: req.Name}
	if err := patch.Validate(); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	editor, err := h.editors.Update(r.Context(), id, patch)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update editor")
		return
	}

	shared.RespondWithData(w, r, http.StatusOK,
		updatedMessage(subjectEditor, derefString(editor.Name), editor.ID), editor)
}

// Delete handles DELETE /api/editeurs/{id}. Books keep existing without an
// editor.
func (h *EditorHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := handlePathID(w, r, "id")
	if !ok {
		return
	}

	editor, err := h.editors.Delete(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to delete editor")
		return
	}
	logger.FromContextOrDefault(r.Context(), h.logger).Info("editor deleted", slog.Int64("editor_id", id))

	shared.RespondWithData(w, r, http.StatusOK, deletedMessage(subjectEditor, derefString(editor.Name)), editor)
}

// ListBooks handles GET /api/editeurs/{id}/livres.
func (h *EditorHandler) ListBooks(w http.ResponseWriter, r *http.Request) {
	id, ok := handlePathID(w, r, "id")
	if !ok {
		return
	}

	editor, err := h.editors.GetByID(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get editor")
		return
	}

	books, err := h.books.List(r.Context(), store.BookFilter{EditorID: editor.ID, ByTitle: true})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list books")
		return
	}

	shared.RespondWithData(w, r, http.StatusOK, booksOfMessage(joinWords("l'éditeur", derefString(editor.Name))), books)
}
