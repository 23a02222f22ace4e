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

const commentColumns = `id_utilisateur, id_ouvrage, commentaire`

// PostgresCommentStore implements the store.CommentStore interface.
type PostgresCommentStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresCommentStore creates a new PostgreSQL implementation of the CommentStore interface.
func NewPostgresCommentStore(db store.DBTX, logger *slog.Logger) *PostgresCommentStore {
	return &PostgresCommentStore{
		db:     db,
		logger: newComponentLogger(db, logger, "comment_store"),
	}
}

var _ store.CommentStore = (*PostgresCommentStore)(nil)

func scanComment(row rowScanner) (*domain.Comment, error) {
	var c domain.Comment
	if err := row.Scan(&c.UserID, &c.BookID, &c.Text); err != nil {
		return nil, err
	}
	return &c, nil
}

// List implements store.CommentStore.List
func (s *PostgresCommentStore) List(ctx context.Context, filter store.CommentFilter) ([]domain.Comment, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+commentColumns+`
		FROM t_commenter
		WHERE ($1::bigint IS NULL OR id_ouvrage = $1)
		  AND ($2::bigint IS NULL OR id_utilisateur = $2)
		ORDER BY id_ouvrage, id_utilisateur
		LIMIT $3
	`, idArg(filter.BookID), idArg(filter.UserID), limitArg(filter.Limit))
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list comments",
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list comments: %w", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	comments := make([]domain.Comment, 0)
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		comments = append(comments, *c)
	}
	return comments, rows.Err()
}

// Get implements store.CommentStore.Get
func (s *PostgresCommentStore) Get(ctx context.Context, userID, bookID int64) (*domain.Comment, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+commentColumns+` FROM t_commenter
		WHERE id_utilisateur = $1 AND id_ouvrage = $2
	`, userID, bookID)
	c, err := scanComment(row)
	if err != nil {
		return nil, mapEntityError(err, store.ErrCommentNotFound, nil)
	}
	return c, nil
}

// Create implements store.CommentStore.Create
func (s *PostgresCommentStore) Create(ctx context.Context, comment *domain.Comment) error {
	if err := comment.Validate(); err != nil {
		return err
	}

	var userID int64
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO t_commenter (id_utilisateur, id_ouvrage, commentaire)
		VALUES ($1, $2, $3)
		ON CONFLICT (id_utilisateur, id_ouvrage) DO NOTHING
		RETURNING id_utilisateur
	`, comment.UserID, comment.BookID, comment.Text).Scan(&userID)
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrCommentExists
	}
	if err != nil {
		return fmt.Errorf("failed to create comment: %w", MapError(err))
	}
	return nil
}

// Upsert implements store.CommentStore.Upsert
func (s *PostgresCommentStore) Upsert(ctx context.Context, comment *domain.Comment) error {
	if err := comment.Validate(); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO t_commenter (id_utilisateur, id_ouvrage, commentaire)
		VALUES ($1, $2, $3)
		ON CONFLICT (id_utilisateur, id_ouvrage)
		DO UPDATE SET commentaire = EXCLUDED.commentaire
	`, comment.UserID, comment.BookID, comment.Text)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to upsert comment",
			slog.Int64("user_id", comment.UserID),
			slog.Int64("book_id", comment.BookID),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to upsert comment: %w", MapError(err))
	}
	return nil
}

// Update implements store.CommentStore.Update
func (s *PostgresCommentStore) Update(ctx context.Context, comment *domain.Comment) error {
	if err := comment.Validate(); err != nil {
		return err
	}
	result, err := s.db.ExecContext(ctx, `
		UPDATE t_commenter SET commentaire = $3
		WHERE id_utilisateur = $1 AND id_ouvrage = $2
	`, comment.UserID, comment.BookID, comment.Text)
	if err != nil {
		return fmt.Errorf("failed to update comment: %w", MapError(err))
	}
	if err := CheckRowsAffected(result, "comment"); err != nil {
		if store.IsNotFoundError(err) {
			return store.ErrCommentNotFound
		}
		return err
	}
	return nil
}

// Delete implements store.CommentStore.Delete
func (s *PostgresCommentStore) Delete(ctx context.Context, userID, bookID int64) (*domain.Comment, error) {
	row := s.db.QueryRowContext(ctx, `
		DELETE FROM t_commenter WHERE id_utilisateur = $1 AND id_ouvrage = $2
		RETURNING `+commentColumns, userID, bookID)
	c, err := scanComment(row)
	if err != nil {
		return nil, mapEntityError(err, store.ErrCommentNotFound, nil)
	}
	return c, nil
}

// WithTx implements store.CommentStore.WithTx
func (s *PostgresCommentStore) WithTx(tx *sql.Tx) store.CommentStore {
	return &PostgresCommentStore{db: tx, logger: s.logger}
}
