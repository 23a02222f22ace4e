package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/ouvrages/livre-api/internal/domain"
	"github.com/ouvrages/livre-api/internal/platform/logger"
	"github.com/ouvrages/livre-api/internal/store"
)

const authorColumns = `id_auteur, nom_auteur, prenom_auteur`

// PostgresAuthorStore implements the store.AuthorStore interface.
type PostgresAuthorStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresAuthorStore creates a new PostgreSQL implementation of the AuthorStore interface.
func NewPostgresAuthorStore(db store.DBTX, logger *slog.Logger) *PostgresAuthorStore {
	return &PostgresAuthorStore{
		db:     db,
		logger: newComponentLogger(db, logger, "author_store"),
	}
}

var _ store.AuthorStore = (*PostgresAuthorStore)(nil)

func scanAuthor(row rowScanner) (*domain.Author, error) {
	var a domain.Author
	if err := row.Scan(&a.ID, &a.LastName, &a.FirstName); err != nil {
		return nil, err
	}
	return &a, nil
}

// List implements store.AuthorStore.List
func (s *PostgresAuthorStore) List(ctx context.Context, opts store.ListOptions) ([]domain.Author, error) {
	query := `
		SELECT ` + authorColumns + `
		FROM t_auteur
		WHERE ($1::text IS NULL OR nom_auteur ILIKE $1)
		ORDER BY nom_auteur, prenom_auteur, id_auteur
		LIMIT $2
	`
	rows, err := s.db.QueryContext(ctx, query, containsPattern(opts.Search), limitArg(opts.Limit))
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list authors",
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list authors: %w", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	authors := make([]domain.Author, 0)
	for rows.Next() {
		a, err := scanAuthor(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan author: %w", err)
		}
		authors = append(authors, *a)
	}
	return authors, rows.Err()
}

// GetByID implements store.AuthorStore.GetByID
func (s *PostgresAuthorStore) GetByID(ctx context.Context, id int64) (*domain.Author, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+authorColumns+` FROM t_auteur WHERE id_auteur = $1`, id)
	a, err := scanAuthor(row)
	if err != nil {
		return nil, mapEntityError(err, store.ErrAuthorNotFound, nil)
	}
	return a, nil
}

// Create implements store.AuthorStore.Create
func (s *PostgresAuthorStore) Create(ctx context.Context, author *domain.Author) error {
	if err := author.Validate(); err != nil {
		return err
	}

	err := s.db.QueryRowContext(ctx,
		`INSERT INTO t_auteur (nom_auteur, prenom_auteur) VALUES ($1, $2) RETURNING id_auteur`,
		author.LastName, author.FirstName,
	).Scan(&author.ID)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to create author",
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to create author: %w", MapError(err))
	}
	return nil
}

// Update implements store.AuthorStore.Update
func (s *PostgresAuthorStore) Update(ctx context.Context, id int64, patch domain.AuthorPatch) (*domain.Author, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		UPDATE t_auteur SET
			nom_auteur = COALESCE($2, nom_auteur),
			prenom_auteur = COALESCE($3, prenom_auteur)
		WHERE id_auteur = $1
		RETURNING `+authorColumns,
		id, patch.LastName, patch.FirstName,
	)
	a, err := scanAuthor(row)
	if err != nil {
		return nil, mapEntityError(err, store.ErrAuthorNotFound, nil)
	}
	return a, nil
}

// Delete implements store.AuthorStore.Delete
func (s *PostgresAuthorStore) Delete(ctx context.Context, id int64) (*domain.Author, error) {
	row := s.db.QueryRowContext(ctx,
		`DELETE FROM t_auteur WHERE id_auteur = $1 RETURNING `+authorColumns, id)
	a, err := scanAuthor(row)
	if err != nil {
		return nil, mapDeleteError(err, store.ErrAuthorNotFound)
	}
	return a, nil
}

// WithTx implements store.AuthorStore.WithTx
func (s *PostgresAuthorStore) WithTx(tx *sql.Tx) store.AuthorStore {
	return &PostgresAuthorStore{db: tx, logger: s.logger}
}
