package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/ouvrages/livre-api/internal/api/shared"
	"github.com/ouvrages/livre-api/internal/domain"
	"github.com/ouvrages/livre-api/internal/platform/logger"
	"github.com/ouvrages/livre-api/internal/service/auth"
	"github.com/ouvrages/livre-api/internal/store"
)

// CoverFormField is the multipart field carrying a cover image.
const CoverFormField = "imageCouverture"

// CoverStore persists uploaded cover images and returns their public path.
type CoverStore interface {
	Save(ctx context.Context, r io.Reader) (string, error)
	Remove(ctx context.Context, publicPath string) error
}

// BookHandler handles book requests, including the comment, rating and
// cover image sub-resources.
type BookHandler struct {
	books          store.BookStore
	ratings        store.RatingStore
	comments       store.CommentStore
	covers         CoverStore
	maxUploadBytes int64
	logger         *slog.Logger
}

// NewBookHandler creates a new BookHandler.
// It panics if any required dependency is nil.
func NewBookHandler(
	books store.BookStore,
	ratings store.RatingStore,
	comments store.CommentStore,
	covers CoverStore,
	maxUploadBytes int64,
	logger *slog.Logger,
) *BookHandler {
	if books == nil || ratings == nil || comments == nil || covers == nil {
		// ALLOW-PANIC: constructor enforcing required dependency
		panic("book handler stores cannot be nil")
	}
	return &BookHandler{
		books:          books,
		ratings:        ratings,
		comments:       comments,
		covers:         covers,
		maxUploadBytes: maxUploadBytes,
		logger:         componentLogger(logger, "book_handler"),
	}
}

// List handles GET /api/livres.
// Query: titre (substring), categorie (id), limit.
func (h *BookHandler) List(w http.ResponseWriter, r *http.Request) {
	title := r.URL.Query().Get("titre")

	categoryID, err := parseOptionalQueryID(r, "categorie")
	if err != nil {
		handleQueryError(w, r, err)
		return
	}

	defaultLimit := 0
	if title != "" {
		defaultLimit = DefaultTitleSearchLimit
	}
	limit, err := parseLimit(r, defaultLimit)
	if err != nil {
		handleQueryError(w, r, err)
		return
	}

	books, err := h.books.List(r.Context(), store.BookFilter{
		Title:      title,
		CategoryID: categoryID,
		Limit:      limit,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list books")
		return
	}

	shared.RespondWithData(w, r, http.StatusOK,
		listMessage(title != "", len(books), "livre", "livres"), books)
}

// Get handles GET /api/livres/{id}.
func (h *BookHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := handlePathID(w, r, "id")
	if !ok {
		return
	}

	book, err := h.books.GetByID(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get book")
		return
	}

	shared.RespondWithData(w, r, http.StatusOK, getMessage(subjectBook, book.ID), book)
}

// Create handles POST /api/livres. The body is either JSON or a multipart
// form whose optional imageCouverture file becomes the cover.
func (h *BookHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromContextOrDefault(ctx, h.logger)

	var req BookRequest
	var coverPath string

	if isMultipart(r) {
		form, cleanup, err := h.parseMultipart(w, r)
		if err != nil {
			HandleAPIError(w, r, err, "")
			return
		}
		defer cleanup()

		if req, err = bookRequestFromForm(form); err != nil {
			HandleAPIError(w, r, err, "")
			return
		}
		if err := shared.ValidateRequest(&req); err != nil {
			HandleAPIError(w, r, err, "")
			return
		}

		coverPath, err = h.saveCoverFromForm(r)
		if err != nil && !errors.Is(err, ErrMissingImage) {
			HandleAPIError(w, r, err, "Failed to store cover image")
			return
		}
		if coverPath != "" {
			req.CoverImage = &coverPath
		}
	} else if !decodeAndValidate(w, r, &req) {
		return
	}

	book := req.ToBook()
	if err := h.books.Create(ctx, book); err != nil {
		if coverPath != "" {
			h.removeCover(ctx, coverPath)
		}
		HandleAPIError(w, r, err, "Failed to create book")
		return
	}

	log.Info("book created", slog.Int64("book_id", book.ID), slog.Bool("with_cover", coverPath != ""))

	message := createdMessage(subjectBook, book.Title)
	if coverPath != "" {
		message = fmt.Sprintf("Le livre %s a bien été créé avec une image !", book.Title)
	}
	shared.RespondWithData(w, r, http.StatusOK, message, book)
}

// Update handles PUT /api/livres/{id} with a partial JSON body.
func (h *BookHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := handlePathID(w, r, "id")
	if !ok {
		return
	}

	var req BookUpdateRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	patch := req.ToPatch()
	if err := patch.Validate(); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	var previousCover string
	if patch.CoverImage != nil {
		current, err := h.books.GetByID(ctx, id)
		if err != nil {
			HandleAPIError(w, r, err, "Failed to update book")
			return
		}
		previousCover = derefString(current.CoverImage)
	}

	book, err := h.books.Update(ctx, id, patch)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update book")
		return
	}
	if previousCover != "" && previousCover != derefString(book.CoverImage) {
		h.removeCover(ctx, previousCover)
	}

	shared.RespondWithData(w, r, http.StatusOK, updatedMessage(subjectBook, book.Title, book.ID), book)
}

// Delete handles DELETE /api/livres/{id}. The book's ratings, comments and
// cover file go with it.
func (h *BookHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := handlePathID(w, r, "id")
	if !ok {
		return
	}

	book, err := h.books.Delete(ctx, id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to delete book")
		return
	}
	if cover := derefString(book.CoverImage); cover != "" {
		h.removeCover(ctx, cover)
	}

	shared.RespondWithData(w, r, http.StatusOK, deletedMessage(subjectBook, book.Title), book)
}

// ListComments handles GET /api/livres/{id}/comments.
func (h *BookHandler) ListComments(w http.ResponseWriter, r *http.Request) {
	book, ok := h.loadBook(w, r)
	if !ok {
		return
	}

	comments, err := h.comments.List(r.Context(), store.CommentFilter{BookID: book.ID})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list comments")
		return
	}

	message := fmt.Sprintf("Les commentaires du livre \"%s\" ont bien été récupérés.", book.Title)
	if len(comments) == 0 {
		message = fmt.Sprintf("Aucun commentaire pour le livre \"%s\".", book.Title)
	}
	shared.RespondWithData(w, r, http.StatusOK, message, comments)
}

// AddComment handles POST /api/livres/{id}/comments. The caller's comment
// on the book is created or replaced.
func (h *BookHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	book, ok := h.loadBook(w, r)
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

	comment := &domain.Comment{UserID: userID, BookID: book.ID, Text: req.Text}
	if err := h.comments.Upsert(r.Context(), comment); err != nil {
		HandleAPIError(w, r, err, "Failed to save comment")
		return
	}

	shared.RespondWithData(w, r, http.StatusOK,
		fmt.Sprintf("Le commentaire a été ajouté avec succès au livre \"%s\".", book.Title), comment)
}

// ListRatings handles GET /api/livres/{id}/appreciations.
func (h *BookHandler) ListRatings(w http.ResponseWriter, r *http.Request) {
	book, ok := h.loadBook(w, r)
	if !ok {
		return
	}

	ratings, err := h.ratings.List(r.Context(), store.RatingFilter{BookID: book.ID})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list ratings")
		return
	}

	message := fmt.Sprintf("Les appréciations du livre \"%s\" ont bien été récupérées.", book.Title)
	if len(ratings) == 0 {
		message = fmt.Sprintf("Aucune appréciation pour le livre \"%s\".", book.Title)
	}
	shared.RespondWithData(w, r, http.StatusOK, message, ratings)
}

// AddRating handles POST /api/livres/{id}/appreciations. The caller's
// score for the book is created or replaced in one statement.
func (h *BookHandler) AddRating(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	book, ok := h.loadBook(w, r)
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

	rating := &domain.Rating{UserID: userID, BookID: book.ID, Score: *req.Score}
	if err := h.ratings.Upsert(r.Context(), rating); err != nil {
		HandleAPIError(w, r, err, "Failed to save rating")
		return
	}

	shared.RespondWithData(w, r, http.StatusOK,
		fmt.Sprintf("Votre note pour le livre \"%s\" a été enregistrée.", book.Title), rating)
}

// GetImage handles GET /api/livres/{id}/image.
func (h *BookHandler) GetImage(w http.ResponseWriter, r *http.Request) {
	book, ok := h.loadBook(w, r)
	if !ok {
		return
	}

	cover := derefString(book.CoverImage)
	if cover == "" {
		shared.RespondWithErrorAndLog(w, r, http.StatusNotFound, "Image not found", nil)
		return
	}

	shared.RespondWithData(w, r, http.StatusOK, "Image retrieved successfully", ImageResponse{CoverImage: cover})
}

// UpdateImage handles PUT /api/livres/{id}/image with a multipart body
// holding the imageCouverture file. The previous cover file is removed.
func (h *BookHandler) UpdateImage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromContextOrDefault(ctx, h.logger)

	book, ok := h.loadBook(w, r)
	if !ok {
		return
	}

	if !isMultipart(r) {
		HandleAPIError(w, r, ErrMissingImage, "")
		return
	}
	_, cleanup, err := h.parseMultipart(w, r)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	defer cleanup()

	coverPath, err := h.saveCoverFromForm(r)
	if err != nil {
		HandleAPIError(w, r, err, "Could not update image")
		return
	}

	updated, err := h.books.Update(ctx, book.ID, domain.BookPatch{CoverImage: &coverPath})
	if err != nil {
		h.removeCover(ctx, coverPath)
		HandleAPIError(w, r, err, "Could not update image")
		return
	}
	if previous := derefString(book.CoverImage); previous != "" && previous != coverPath {
		h.removeCover(ctx, previous)
	}

	log.Info("book cover replaced", slog.Int64("book_id", book.ID))
	shared.RespondWithData(w, r, http.StatusOK, "Image updated successfully", updated)
}

// loadBook resolves the {id} path parameter to a stored book, writing the
// error response when it cannot.
func (h *BookHandler) loadBook(w http.ResponseWriter, r *http.Request) (*domain.Book, bool) {
	id, ok := handlePathID(w, r, "id")
	if !ok {
		return nil, false
	}
	book, err := h.books.GetByID(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get book")
		return nil, false
	}
	return book, true
}

// parseMultipart bounds and parses a multipart body. The returned cleanup
// removes temporary files.
func (h *BookHandler) parseMultipart(w http.ResponseWriter, r *http.Request) (url.Values, func(), error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		return nil, func() {}, fmt.Errorf("%w: %w", ErrInvalidForm, err)
	}
	cleanup := func() {
		if err := r.MultipartForm.RemoveAll(); err != nil {
			logger.FromContextOrDefault(r.Context(), h.logger).Warn("failed to remove multipart temp files",
				slog.String("error", err.Error()))
		}
	}
	return url.Values(r.MultipartForm.Value), cleanup, nil
}

// saveCoverFromForm stores the imageCouverture file of a parsed multipart
// request. Returns ErrMissingImage when the field is absent.
func (h *BookHandler) saveCoverFromForm(r *http.Request) (string, error) {
	file, _, err := r.FormFile(CoverFormField)
	if errors.Is(err, http.ErrMissingFile) {
		return "", ErrMissingImage
	}
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidForm, err)
	}
	defer func() { _ = file.Close() }()

	return h.covers.Save(r.Context(), file)
}

func (h *BookHandler) removeCover(ctx context.Context, publicPath string) {
	if err := h.covers.Remove(ctx, publicPath); err != nil {
		logger.FromContextOrDefault(ctx, h.logger).Warn("failed to remove cover image",
			slog.String("path", publicPath),
			slog.String("error", err.Error()))
	}
}

func isMultipart(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && strings.HasPrefix(mediaType, "multipart/")
}

// bookRequestFromForm reads book fields from multipart form values. Empty
// values count as absent.
func bookRequestFromForm(values url.Values) (BookRequest, error) {
	req := BookRequest{Title: values.Get("titre")}
	var err error

	if req.Pages, err = formInt(values, "nbPages"); err != nil {
		return req, err
	}
	if req.EditionYear, err = optionalFormInt(values, "anneeEdition"); err != nil {
		return req, err
	}
	if req.CategoryID, err = formInt64(values, "idCategorie"); err != nil {
		return req, err
	}
	if req.AuthorID, err = formInt64(values, "idAuteur"); err != nil {
		return req, err
	}
	if v := values.Get("idEditeur"); v != "" {
		id, err := formInt64(values, "idEditeur")
		if err != nil {
			return req, err
		}
		req.EditorID = &id
	}
	if v := values.Get("moyenneAppreciation"); v != "" {
		avg, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return req, domain.NewValidationError("moyenneAppreciation", "must be a number", nil)
		}
		req.AverageRating = &avg
	}
	req.Excerpt = optionalFormString(values, "extrait")
	req.Summary = optionalFormString(values, "resume")
	return req, nil
}

func formInt(values url.Values, name string) (int, error) {
	v := values.Get(name)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, domain.NewValidationError(name, "must be an integer", nil)
	}
	return n, nil
}

func formInt64(values url.Values, name string) (int64, error) {
	v := values.Get(name)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, domain.NewValidationError(name, "must be an integer", nil)
	}
	return n, nil
}

func optionalFormInt(values url.Values, name string) (*int, error) {
	if values.Get(name) == "" {
		return nil, nil
	}
	n, err := formInt(values, name)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func optionalFormString(values url.Values, name string) *string {
	if v := values.Get(name); v != "" {
		return &v
	}
	return nil
}
