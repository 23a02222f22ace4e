package postgres

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/ouvrages/livre-api/internal/domain"
	"github.com/ouvrages/livre-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var bookRowColumns = []string{
	"id_ouvrage", "titre", "nb_pages", "extrait", "resume", "annee_edition",
	"moyenne_appreciation", "image_couverture", "id_categorie", "id_auteur", "id_editeur", "created_at",
}

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	return db, mock
}

func TestPostgresBookStore_List(t *testing.T) {
	t.Parallel()
	db, mock := newMock(t)
	s := NewPostgresBookStore(db, nil)
	created := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("FROM t_ouvrage")).
		WithArgs("%dune%", int64(1), nil, nil, int64(50)).
		WillReturnRows(sqlmock.NewRows(bookRowColumns).
			AddRow(int64(4), "Dune", int64(412), nil, "Arrakis", int64(1965), 4.5, nil, int64(1), int64(2), nil, created))

	books, err := s.List(context.Background(), store.BookFilter{Title: "dune", CategoryID: 1, Limit: 50})

	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, int64(4), books[0].ID)
	assert.Equal(t, "Dune", books[0].Title)
	assert.Nil(t, books[0].Excerpt)
	require.NotNil(t, books[0].Summary)
	assert.Equal(t, "Arrakis", *books[0].Summary)
	require.NotNil(t, books[0].AverageRating)
	assert.InDelta(t, 4.5, *books[0].AverageRating, 0.001)
	assert.Nil(t, books[0].EditorID)
	assert.Equal(t, created, books[0].CreatedAt)
}

func TestPostgresBookStore_ListEscapesWildcards(t *testing.T) {
	t.Parallel()
	db, mock := newMock(t)
	s := NewPostgresBookStore(db, nil)

	mock.ExpectQuery("FROM t_ouvrage").
		WithArgs(`%50\%\_off%`, nil, nil, nil, nil).
		WillReturnRows(sqlmock.NewRows(bookRowColumns))

	books, err := s.List(context.Background(), store.BookFilter{Title: "50%_off"})

	require.NoError(t, err)
	assert.NotNil(t, books)
	assert.Empty(t, books)
}

func TestPostgresBookStore_GetByID(t *testing.T) {
	t.Parallel()

	t.Run("not found", func(t *testing.T) {
		t.Parallel()
		db, mock := newMock(t)
		s := NewPostgresBookStore(db, nil)
		mock.ExpectQuery("FROM t_ouvrage WHERE id_ouvrage").
			WithArgs(int64(99)).
			WillReturnError(sql.ErrNoRows)

		book, err := s.GetByID(context.Background(), 99)

		assert.Nil(t, book)
		assert.ErrorIs(t, err, store.ErrBookNotFound)
		assert.True(t, store.IsNotFoundError(err))
	})
}

func TestPostgresBookStore_Create(t *testing.T) {
	t.Parallel()

	t.Run("success", func(t *testing.T) {
		t.Parallel()
		db, mock := newMock(t)
		s := NewPostgresBookStore(db, nil)
		now := time.Now().UTC()
		mock.ExpectQuery("INSERT INTO t_ouvrage").
			WillReturnRows(sqlmock.NewRows(bookRowColumns).
				AddRow(int64(12), "Dune", int64(412), nil, nil, nil, 4.57, nil, int64(1), int64(1), nil, now))

		avg := 4.567
		book := &domain.Book{Title: "Dune", Pages: 412, AverageRating: &avg, CategoryID: 1, AuthorID: 1}
		err := s.Create(context.Background(), book)

		require.NoError(t, err)
		assert.Equal(t, int64(12), book.ID)
		assert.Equal(t, now, book.CreatedAt)
		require.NotNil(t, book.AverageRating)
		assert.Equal(t, 4.57, *book.AverageRating)
	})

	t.Run("invalid book never reaches the database", func(t *testing.T) {
		t.Parallel()
		db, _ := newMock(t)
		s := NewPostgresBookStore(db, nil)

		err := s.Create(context.Background(), &domain.Book{Pages: 10, CategoryID: 1, AuthorID: 1})

		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("unknown category", func(t *testing.T) {
		t.Parallel()
		db, mock := newMock(t)
		s := NewPostgresBookStore(db, nil)
		mock.ExpectQuery("INSERT INTO t_ouvrage").
			WillReturnError(&pgconn.PgError{Code: foreignKeyViolationCode, ConstraintName: "t_ouvrage_id_categorie_fkey"})

		err := s.Create(context.Background(), &domain.Book{Title: "Dune", Pages: 412, CategoryID: 42, AuthorID: 1})

		assert.ErrorIs(t, err, store.ErrInvalidEntity)
	})
}

func TestPostgresBookStore_Update(t *testing.T) {
	t.Parallel()
	db, mock := newMock(t)
	s := NewPostgresBookStore(db, nil)
	title := "Dune Messiah"

	mock.ExpectQuery("UPDATE t_ouvrage SET").
		WithArgs(int64(4), title, nil, nil, nil, nil, nil, nil, nil, nil, nil).
		WillReturnRows(sqlmock.NewRows(bookRowColumns).
			AddRow(int64(4), title, int64(256), nil, nil, nil, nil, nil, int64(1), int64(2), int64(3), time.Now()))

	book, err := s.Update(context.Background(), 4, domain.BookPatch{Title: &title})

	require.NoError(t, err)
	assert.Equal(t, title, book.Title)
	require.NotNil(t, book.EditorID)
	assert.Equal(t, int64(3), *book.EditorID)
}

func TestPostgresBookStore_UpdateEmptyPatch(t *testing.T) {
	t.Parallel()
	db, _ := newMock(t)
	s := NewPostgresBookStore(db, nil)

	_, err := s.Update(context.Background(), 4, domain.BookPatch{})

	assert.ErrorIs(t, err, domain.ErrEmptyPatch)
}

func TestPostgresAuthorStore_DeleteReferenced(t *testing.T) {
	t.Parallel()
	db, mock := newMock(t)
	s := NewPostgresAuthorStore(db, nil)
	mock.ExpectQuery("DELETE FROM t_auteur").
		WithArgs(int64(1)).
		WillReturnError(&pgconn.PgError{Code: foreignKeyViolationCode})

	author, err := s.Delete(context.Background(), 1)

	assert.Nil(t, author)
	assert.ErrorIs(t, err, store.ErrReferenced)
}

func TestPostgresUserStore_Create(t *testing.T) {
	t.Parallel()

	t.Run("duplicate username", func(t *testing.T) {
		t.Parallel()
		db, mock := newMock(t)
		s := NewPostgresUserStore(db, nil)
		mock.ExpectQuery("INSERT INTO t_utilisateur").
			WithArgs("alice", "$2a$10$hash", 0).
			WillReturnError(&pgconn.PgError{Code: uniqueViolationCode})

		err := s.Create(context.Background(), &domain.User{Username: "alice", PasswordHash: "$2a$10$hash"})

		assert.ErrorIs(t, err, store.ErrUsernameExists)
		assert.True(t, store.IsDuplicateError(err))
	})

	t.Run("count", func(t *testing.T) {
		t.Parallel()
		db, mock := newMock(t)
		s := NewPostgresUserStore(db, nil)
		mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM t_utilisateur")).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

		n, err := s.Count(context.Background())

		require.NoError(t, err)
		assert.Equal(t, 3, n)
	})
}

func TestPostgresRatingStore_Create(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		setup   func(mock sqlmock.Sqlmock)
		rating  domain.Rating
		wantErr error
	}{
		{
			name: "inserted",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("INSERT INTO t_apprecier").
					WithArgs(int64(1), int64(4), 5).
					WillReturnRows(sqlmock.NewRows([]string{"id_utilisateur"}).AddRow(int64(1)))
			},
			rating: domain.Rating{UserID: 1, BookID: 4, Score: 5},
		},
		{
			name: "already rated",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("ON CONFLICT").
					WillReturnRows(sqlmock.NewRows([]string{"id_utilisateur"}))
			},
			rating:  domain.Rating{UserID: 1, BookID: 4, Score: 3},
			wantErr: store.ErrRatingExists,
		},
		{
			name:    "score out of range",
			setup:   func(sqlmock.Sqlmock) {},
			rating:  domain.Rating{UserID: 1, BookID: 4, Score: 6},
			wantErr: domain.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			db, mock := newMock(t)
			tt.setup(mock)
			s := NewPostgresRatingStore(db, nil)

			err := s.Create(context.Background(), &tt.rating)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestPostgresRatingStore_ListScoreAbove(t *testing.T) {
	t.Parallel()
	db, mock := newMock(t)
	s := NewPostgresRatingStore(db, nil)
	above := 3

	mock.ExpectQuery("FROM t_apprecier").
		WithArgs(3, nil, 3).
		WillReturnRows(sqlmock.NewRows([]string{"id_utilisateur", "id_ouvrage", "appreciation"}).
			AddRow(int64(1), int64(4), 4).
			AddRow(int64(2), int64(4), 5))

	ratings, err := s.List(context.Background(), store.RatingFilter{ScoreAbove: &above, Limit: 3})

	require.NoError(t, err)
	require.Len(t, ratings, 2)
	for _, r := range ratings {
		assert.Greater(t, r.Score, above)
	}
}

func TestPostgresRatingStore_UpdateMissing(t *testing.T) {
	t.Parallel()
	db, mock := newMock(t)
	s := NewPostgresRatingStore(db, nil)
	mock.ExpectExec("UPDATE t_apprecier").
		WithArgs(int64(1), int64(4), 2).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := s.Update(context.Background(), &domain.Rating{UserID: 1, BookID: 4, Score: 2})

	assert.ErrorIs(t, err, store.ErrRatingNotFound)
}

func TestPostgresCommentStore_Upsert(t *testing.T) {
	t.Parallel()
	db, mock := newMock(t)
	s := NewPostgresCommentStore(db, nil)
	text := "Très bon livre"
	mock.ExpectExec("INSERT INTO t_commenter").
		WithArgs(int64(1), int64(4), text).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := s.Upsert(context.Background(), &domain.Comment{UserID: 1, BookID: 4, Text: &text})

	assert.NoError(t, err)
}

func TestPostgresCategoryStore_UpdateMissing(t *testing.T) {
	t.Parallel()
	db, mock := newMock(t)
	s := NewPostgresCategoryStore(db, nil)
	mock.ExpectExec("UPDATE t_categorie").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := s.Update(context.Background(), &domain.Category{ID: 8, Name: "Polar"})

	assert.ErrorIs(t, err, store.ErrCategoryNotFound)
}

func TestNewStorePanicsOnNilDB(t *testing.T) {
	t.Parallel()
	assert.Panics(t, func() { NewPostgresEditorStore(nil, nil) })
}
