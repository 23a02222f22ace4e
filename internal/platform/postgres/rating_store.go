package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ouvrages/livre-api/internal/domain"
	"github.com/ouvrages/livre-api/internal/platform/logger"
	"github.com/ouvrages/livre-api/internal/store"
)

const ratingColumns = `id_utilisateur, id_ouvrage, appreciation`

// PostgresRatingStore implements the store.RatingStore interface.
// The (id_utilisateur, id_ouvrage) primary key makes writes on the same pair
// serialize in the database.
type PostgresRatingStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresRatingStore creates a new PostgreSQL implementation of the RatingStore interface.
func NewPostgresRatingStore(db store.DBTX, logger *slog.Logger) *PostgresRatingStore {
	return &PostgresRatingStore{
		db:     db,
		logger: newComponentLogger(db, logger, "rating_store"),
	}
}

var _ store.RatingStore = (*PostgresRatingStore)(nil)

func scanRating(row rowScanner) (*domain.Rating, error) {
	var r domain.Rating
	if err := row.Scan(&r.UserID, &r.BookID, &r.Score); err != nil {
		return nil, err
	}
	return &r, nil
}

// List implements store.RatingStore.List
func (s *PostgresRatingStore) List(ctx context.Context, filter store.RatingFilter) ([]domain.Rating, error) {
	var above any
	if filter.ScoreAbove != nil {
		above = *filter.ScoreAbove
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+ratingColumns+`
		FROM t_apprecier
		WHERE ($1::int IS NULL OR appreciation > $1)
		  AND ($2::bigint IS NULL OR id_ouvrage = $2)
		ORDER BY appreciation, id_utilisateur, id_ouvrage
		LIMIT $3
	`, above, idArg(filter.BookID), limitArg(filter.Limit))
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list ratings",
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list ratings: %w", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	ratings := make([]domain.Rating, 0)
	for rows.Next() {
		r, err := scanRating(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan rating: %w", err)
		}
		ratings = append(ratings, *r)
	}
	return ratings, rows.Err()
}

// Get implements store.RatingStore.Get
func (s *PostgresRatingStore) Get(ctx context.Context, userID, bookID int64) (*domain.Rating, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+ratingColumns+` FROM t_apprecier
		WHERE id_utilisateur = $1 AND id_ouvrage = $2
	`, userID, bookID)
	r, err := scanRating(row)
	if err != nil {
		return nil, mapEntityError(err, store.ErrRatingNotFound, nil)
	}
	return r, nil
}

// Create implements store.RatingStore.Create
// The existence check and the insert are one statement.
func (s *PostgresRatingStore) Create(ctx context.Context, rating *domain.Rating) error {
	if err := rating.Validate(); err != nil {
		return err
	}

	var userID int64
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO t_apprecier (id_utilisateur, id_ouvrage, appreciation)
		VALUES ($1, $2, $3)
		ON CONFLICT (id_utilisateur, id_ouvrage) DO NOTHING
		RETURNING id_utilisateur
	`, rating.UserID, rating.BookID, rating.Score).Scan(&userID)
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrRatingExists
	}
	if err != nil {
		return fmt.Errorf("failed to create rating: %w", MapError(err))
	}
	return nil
}

// Upsert implements store.RatingStore.Upsert
func (s *PostgresRatingStore) Upsert(ctx context.Context, rating *domain.Rating) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := rating.Validate(); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO t_apprecier (id_utilisateur, id_ouvrage, appreciation)
		VALUES ($1, $2, $3)
		ON CONFLICT (id_utilisateur, id_ouvrage)
		DO UPDATE SET appreciation = EXCLUDED.appreciation
	`, rating.UserID, rating.BookID, rating.Score)
	if err != nil {
		log.Error("failed to upsert rating",
			slog.Int64("user_id", rating.UserID),
			slog.Int64("book_id", rating.BookID),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to upsert rating: %w", MapError(err))
	}

	log.Debug("rating saved",
		slog.Int64("user_id", rating.UserID),
		slog.Int64("book_id", rating.BookID),
		slog.Int("score", rating.Score))
	return nil
}

// Update implements store.RatingStore.Update
func (s *PostgresRatingStore) Update(ctx context.Context, rating *domain.Rating) error {
	if err := rating.Validate(); err != nil {
		return err
	}
	result, err := s.db.ExecContext(ctx, `
		UPDATE t_apprecier SET appreciation = $3
		WHERE id_utilisateur = $1 AND id_ouvrage = $2
	`, rating.UserID, rating.BookID, rating.Score)
	if err != nil {
		return fmt.Errorf("failed to update rating: %w", MapError(err))
	}
	if err := CheckRowsAffected(result, "rating"); err != nil {
		if store.IsNotFoundError(err) {
			return store.ErrRatingNotFound
		}
		return err
	}
	return nil
}

// Delete implements store.RatingStore.Delete
func (s *PostgresRatingStore) Delete(ctx context.Context, userID, bookID int64) (*domain.Rating, error) {
	row := s.db.QueryRowContext(ctx, `
		DELETE FROM t_apprecier WHERE id_utilisateur = $1 AND id_ouvrage = $2
		RETURNING `+ratingColumns, userID, bookID)
	r, err := scanRating(row)
	if err != nil {
		return nil, mapEntityError(err, store.ErrRatingNotFound, nil)
	}
	return r, nil
}

// WithTx implements store.RatingStore.WithTx
func (s *PostgresRatingStore) WithTx(tx *sql.Tx) store.RatingStore {
	return &PostgresRatingStore{db: tx, logger: s.logger}
}
