package api

import (
	"context"
	"net/http"
	"testing"

	"github.com/ouvrages/livre-api/internal/domain"
	"github.com/ouvrages/livre-api/internal/mocks"
	"github.com/ouvrages/livre-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthorHandler_CRUD(t *testing.T) {
	books := mocks.NewMockBookStore()
	authors := mocks.NewMockAuthorStore()
	authors.Books = books
	h := NewAuthorHandler(authors, books, testLogger())

	rec := serve(h.Create, newJSONRequest(t, http.MethodPost, "/api/auteurs",
		map[string]string{"nomAuteur": "Herbert", "prenomAuteur": "Frank"}))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var author domain.Author
	assert.Equal(t, "L'auteur Frank Herbert a bien été créé !", decodeData(t, rec, &author))
	require.EqualValues(t, 1, author.ID)

	rec = serve(h.Update, withParams(newJSONRequest(t, http.MethodPut, "/api/auteurs/1",
		map[string]string{"prenomAuteur": "F."}), "id", "1"))
	require.Equal(t, http.StatusOK, rec.Code)
	decodeData(t, rec, &author)
	assert.Equal(t, "F.", *author.FirstName)
	assert.Equal(t, "Herbert", *author.LastName)

	// An author with books cannot be deleted.
	require.NoError(t, books.Create(context.Background(), &domain.Book{Title: "Dune", Pages: 412, CategoryID: 1, AuthorID: 1}))
	rec = serve(h.Delete, withParams(newJSONRequest(t, http.MethodDelete, "/api/auteurs/1", nil), "id", "1"))
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = serve(h.ListBooks, withParams(newJSONRequest(t, http.MethodGet, "/api/auteurs/1/livres", nil), "id", "1"))
	require.Equal(t, http.StatusOK, rec.Code)
	var list []domain.Book
	assert.Equal(t, "Les livres de l'auteur F. Herbert ont bien été récupérés.", decodeData(t, rec, &list))
	assert.Len(t, list, 1)

	_, err := books.Delete(context.Background(), 1)
	require.NoError(t, err)
	rec = serve(h.Delete, withParams(newJSONRequest(t, http.MethodDelete, "/api/auteurs/1", nil), "id", "1"))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = serve(h.Get, withParams(newJSONRequest(t, http.MethodGet, "/api/auteurs/1", nil), "id", "1"))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Author not found", decodeEnvelope(t, rec).Message)
}

func TestNameSearchLists(t *testing.T) {
	testCases := []struct {
		name       string
		query      string
		wantStatus int
		wantOpts   store.ListOptions
	}{
		{name: "no search has no limit", query: "", wantStatus: http.StatusOK, wantOpts: store.ListOptions{}},
		{name: "search defaults to three", query: "?nom=ro", wantStatus: http.StatusOK, wantOpts: store.ListOptions{Search: "ro", Limit: 3}},
		{name: "explicit limit", query: "?nom=ro&limit=10", wantStatus: http.StatusOK, wantOpts: store.ListOptions{Search: "ro", Limit: 10}},
		{name: "term too short", query: "?nom=r", wantStatus: http.StatusBadRequest},
		{name: "limit not a number", query: "?limit=ten", wantStatus: http.StatusBadRequest},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var got store.ListOptions
			authors := mocks.NewMockAuthorStore()
			authors.ListFn = func(ctx context.Context, opts store.ListOptions) ([]domain.Author, error) {
				got = opts
				return nil, nil
			}
			editors := mocks.NewMockEditorStore()
			editors.ListFn = func(ctx context.Context, opts store.ListOptions) ([]domain.Editor, error) {
				assert.Equal(t, got, opts)
				return nil, nil
			}
			categories := mocks.NewMockCategoryStore()
			categories.ListFn = func(ctx context.Context, opts store.ListOptions) ([]domain.Category, error) {
				assert.Equal(t, got, opts)
				return nil, nil
			}
			books := mocks.NewMockBookStore()

			handlers := []http.HandlerFunc{
				NewAuthorHandler(authors, books, testLogger()).List,
				NewEditorHandler(editors, books, testLogger()).List,
				NewCategoryHandler(categories, books, testLogger()).List,
			}
			for _, handler := range handlers {
				rec := serve(handler, newJSONRequest(t, http.MethodGet, "/"+tc.query, nil))
				require.Equal(t, tc.wantStatus, rec.Code, rec.Body.String())
			}
			if tc.wantStatus == http.StatusOK {
				assert.Equal(t, tc.wantOpts, got)
			}
		})
	}
}

func TestEditorHandler_DeleteKeepsBooks(t *testing.T) {
	books := mocks.NewMockBookStore()
	editors := mocks.NewMockEditorStore()
	h := NewEditorHandler(editors, books, testLogger())

	rec := serve(h.Create, newJSONRequest(t, http.MethodPost, "/api/editeurs", map[string]string{"nomEditeur": "Gallimard"}))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "L'éditeur Gallimard a bien été créé !", decodeEnvelope(t, rec).Message)

	rec = serve(h.Update, withParams(newJSONRequest(t, http.MethodPut, "/api/editeurs/1", map[string]string{}), "id", "1"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(h.Delete, withParams(newJSONRequest(t, http.MethodDelete, "/api/editeurs/1", nil), "id", "1"))
	require.Equal(t, http.StatusOK, rec.Code)
	var deleted domain.Editor
	assert.Equal(t, "L'éditeur Gallimard a bien été supprimé !", decodeData(t, rec, &deleted))
	assert.Equal(t, "Gallimard", *deleted.Name)
}

func TestCategoryHandler(t *testing.T) {
	books := mocks.NewMockBookStore()
	categories := mocks.NewMockCategoryStore()
	categories.Books = books
	h := NewCategoryHandler(categories, books, testLogger())

	rec := serve(h.Create, newJSONRequest(t, http.MethodPost, "/api/categories", map[string]string{"nomCategorie": ""}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid nomCategorie: required field", decodeEnvelope(t, rec).Message)

	rec = serve(h.Create, newJSONRequest(t, http.MethodPost, "/api/categories", map[string]string{"nomCategorie": "Roman"}))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "La catégorie Roman a bien été créée !", decodeEnvelope(t, rec).Message)

	rec = serve(h.Update, withParams(newJSONRequest(t, http.MethodPut, "/api/categories/1",
		map[string]string{"nomCategorie": "Science-fiction"}), "id", "1"))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "La catégorie Science-fiction dont l'id vaut 1 a été mise à jour avec succès !",
		decodeEnvelope(t, rec).Message)

	rec = serve(h.Update, withParams(newJSONRequest(t, http.MethodPut, "/api/categories/9",
		map[string]string{"nomCategorie": "Poésie"}), "id", "9"))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	require.NoError(t, books.Create(context.Background(), &domain.Book{Title: "Dune", Pages: 412, CategoryID: 1, AuthorID: 1}))
	rec = serve(h.Delete, withParams(newJSONRequest(t, http.MethodDelete, "/api/categories/1", nil), "id", "1"))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "Resource is still referenced by other records", decodeEnvelope(t, rec).Message)

	rec = serve(h.ListBooks, withParams(newJSONRequest(t, http.MethodGet, "/api/categories/1/livres", nil), "id", "1"))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Les livres de la catégorie Science-fiction ont bien été récupérés.", decodeEnvelope(t, rec).Message)

	rec = serve(h.Get, withParams(newJSONRequest(t, http.MethodGet, "/api/categories/1", nil), "id", "1"))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "La catégorie dont l'id vaut 1 a bien été récupérée.", decodeEnvelope(t, rec).Message)
}
