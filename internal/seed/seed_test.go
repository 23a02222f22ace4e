package seed

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/ouvrages/livre-api/internal/domain"
	"github.com/ouvrages/livre-api/internal/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	sql      sqlmock.Sqlmock
	users    *mocks.MockUserStore
	books    *mocks.MockBookStore
	ratings  *mocks.MockRatingStore
	comments *mocks.MockCommentStore
	seeder   *Seeder
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	f := &fixture{
		sql:      mock,
		users:    mocks.NewMockUserStore(),
		books:    mocks.NewMockBookStore(),
		ratings:  mocks.NewMockRatingStore(),
		comments: mocks.NewMockCommentStore(),
	}
	stores := Stores{
		Users:      f.users,
		Categories: mocks.NewMockCategoryStore(),
		Authors:    mocks.NewMockAuthorStore(),
		Editors:    mocks.NewMockEditorStore(),
		Books:      f.books,
		Ratings:    f.ratings,
		Comments:   f.comments,
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	f.seeder = New(db, stores, &mocks.MockPasswordHasher{}, logger)
	return f
}

func TestRun_SeedsEmptyDatabase(t *testing.T) {
	f := newFixture(t)
	f.sql.ExpectBegin()
	f.sql.ExpectCommit()

	result, err := f.seeder.Run(context.Background())

	require.NoError(t, err)
	require.False(t, result.Skipped)
	assert.Equal(t, AdminUsername, result.Admin.Username)
	assert.Equal(t, "hashed:"+AdminPassword, result.Admin.PasswordHash)
	assert.Equal(t, "Le Petit Prince", result.Book.Title)
	require.NotNil(t, result.Book.EditorID)

	rating, err := f.ratings.Get(context.Background(), result.Admin.ID, result.Book.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.MaxScore, rating.Score)

	comment, err := f.comments.Get(context.Background(), result.Admin.ID, result.Book.ID)
	require.NoError(t, err)
	assert.Equal(t, "Tres bon livre", *comment.Text)

	assert.NoError(t, f.sql.ExpectationsWereMet())
}

func TestRun_SkipsWhenUsersExist(t *testing.T) {
	f := newFixture(t)
	f.users.Add(domain.User{Username: "alice", PasswordHash: "x"})
	f.sql.ExpectBegin()
	f.sql.ExpectCommit()

	result, err := f.seeder.Run(context.Background())

	require.NoError(t, err)
	assert.True(t, result.Skipped)
	assert.Nil(t, result.Book)
	assert.Empty(t, f.books.Books)
	assert.NoError(t, f.sql.ExpectationsWereMet())
}

func TestRun_RollsBackOnFailure(t *testing.T) {
	f := newFixture(t)
	f.books.CreateFn = func(ctx context.Context, book *domain.Book) error {
		return errors.New("insert failed")
	}
	f.sql.ExpectBegin()
	f.sql.ExpectRollback()

	result, err := f.seeder.Run(context.Background())

	require.Error(t, err)
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), "failed to create sample book")
	assert.NoError(t, f.sql.ExpectationsWereMet())
}
