package store

import (
	"context"
	"database/sql"

	"github.com/ouvrages/livre-api/internal/domain"
)

// RatingFilter narrows a rating listing. Nil or zero values disable a criterion.
type RatingFilter struct {
	// ScoreAbove keeps ratings strictly greater than the value.
	ScoreAbove *int
	BookID     int64
	Limit      int
}

// RatingStore defines the interface for rating persistence. Ratings are
// keyed by (user, book).
type RatingStore interface {
	// List orders by score, then user and book.
	List(ctx context.Context, filter RatingFilter) ([]domain.Rating, error)
	Get(ctx context.Context, userID, bookID int64) (*domain.Rating, error)

	// Create inserts a new rating. Returns ErrRatingExists if the pair is
	// already rated and ErrInvalidEntity if the user or book is unknown.
	Create(ctx context.Context, rating *domain.Rating) error

	// Upsert inserts the rating or replaces the score of the existing one in a
	// single statement.
	Upsert(ctx context.Context, rating *domain.Rating) error

	// Update changes the score of an existing rating. Returns ErrRatingNotFound.
	Update(ctx context.Context, rating *domain.Rating) error
	Delete(ctx context.Context, userID, bookID int64) (*domain.Rating, error)
	WithTx(tx *sql.Tx) RatingStore
}

// CommentFilter narrows a comment listing.
type CommentFilter struct {
	BookID int64
	UserID int64
	Limit  int
}

// CommentStore defines the interface for comment persistence. Comments are
// keyed by (user, book).
type CommentStore interface {
	List(ctx context.Context, filter CommentFilter) ([]domain.Comment, error)
	Get(ctx context.Context, userID, bookID int64) (*domain.Comment, error)

	// Create returns ErrCommentExists if the user already commented the book.
	Create(ctx context.Context, comment *domain.Comment) error

	// Upsert inserts the comment or replaces the text of the existing one.
	Upsert(ctx context.Context, comment *domain.Comment) error
	Update(ctx context.Context, comment *domain.Comment) error
	Delete(ctx context.Context, userID, bookID int64) (*domain.Comment, error)
	WithTx(tx *sql.Tx) CommentStore
}
