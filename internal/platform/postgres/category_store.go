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

// PostgresCategoryStore implements the store.CategoryStore interface.
type PostgresCategoryStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresCategoryStore creates a new PostgreSQL implementation of the CategoryStore interface.
func NewPostgresCategoryStore(db store.DBTX, logger *slog.Logger) *PostgresCategoryStore {
	return &PostgresCategoryStore{
		db:     db,
		logger: newComponentLogger(db, logger, "category_store"),
	}
}

var _ store.CategoryStore = (*PostgresCategoryStore)(nil)

func scanCategory(row rowScanner) (*domain.Category, error) {
	var c domain.Category
	if err := row.Scan(&c.ID, &c.Name); err != nil {
		return nil, err
	}
	return &c, nil
}

// List implements store.CategoryStore.List
func (s *PostgresCategoryStore) List(ctx context.Context, opts store.ListOptions) ([]domain.Category, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id_categorie, nom_categorie
		FROM t_categorie
		WHERE ($1::text IS NULL OR nom_categorie ILIKE $1)
		ORDER BY nom_categorie, id_categorie
		LIMIT $2
	`, containsPattern(opts.Search), limitArg(opts.Limit))
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list categories",
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list categories: %w", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	categories := make([]domain.Category, 0)
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, *c)
	}
	return categories, rows.Err()
}

// GetByID implements store.CategoryStore.GetByID
func (s *PostgresCategoryStore) GetByID(ctx context.Context, id int64) (*domain.Category, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id_categorie, nom_categorie FROM t_categorie WHERE id_categorie = $1`, id)
	c, err := scanCategory(row)
	if err != nil {
		return nil, mapEntityError(err, store.ErrCategoryNotFound, nil)
	}
	return c, nil
}

// Create implements store.CategoryStore.Create
func (s *PostgresCategoryStore) Create(ctx context.Context, category *domain.Category) error {
	if err := category.Validate(); err != nil {
		return err
	}
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO t_categorie (nom_categorie) VALUES ($1) RETURNING id_categorie`, category.Name,
	).Scan(&category.ID)
	if err != nil {
		return fmt.Errorf("failed to create category: %w", MapError(err))
	}
	return nil
}

// Update implements store.CategoryStore.Update
func (s *PostgresCategoryStore) Update(ctx context.Context, category *domain.Category) error {
	if err := category.Validate(); err != nil {
		return err
	}
	result, err := s.db.ExecContext(ctx,
		`UPDATE t_categorie SET nom_categorie = $2 WHERE id_categorie = $1`,
		category.ID, category.Name)
	if err != nil {
		return fmt.Errorf("failed to update category: %w", MapError(err))
	}
	if err := CheckRowsAffected(result, "category"); err != nil {
		if store.IsNotFoundError(err) {
			return store.ErrCategoryNotFound
		}
		return err
	}
	return nil
}

// Delete implements store.CategoryStore.Delete
// Returns store.ErrReferenced while books still belong to the category.
func (s *PostgresCategoryStore) Delete(ctx context.Context, id int64) (*domain.Category, error) {
	row := s.db.QueryRowContext(ctx,
		`DELETE FROM t_categorie WHERE id_categorie = $1 RETURNING id_categorie, nom_categorie`, id)
	c, err := scanCategory(row)
	if err != nil {
		return nil, mapDeleteError(err, store.ErrCategoryNotFound)
	}
	return c, nil
}

// WithTx implements store.CategoryStore.WithTx
func (s *PostgresCategoryStore) WithTx(tx *sql.Tx) store.CategoryStore {
	return &PostgresCategoryStore{db: tx, logger: s.logger}
}
