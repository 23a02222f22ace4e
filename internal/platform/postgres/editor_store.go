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

// PostgresEditorStore implements the store.EditorStore interface.
type PostgresEditorStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresEditorStore creates a new PostgreSQL implementation of the EditorStore interface.
func NewPostgresEditorStore(db store.DBTX, logger *slog.Logger) *PostgresEditorStore {
	return &PostgresEditorStore{
		db:     db,
		logger: newComponentLogger(db, logger, "editor_store"),
	}
}

var _ store.EditorStore = (*PostgresEditorStore)(nil)

func scanEditor(row rowScanner) (*domain.Editor, error) {
	var e domain.Editor
	if err := row.Scan(&e.ID, &e.Name); err != nil {
		return nil, err
	}
	return &e, nil
}

// List implements store.EditorStore.List
func (s *PostgresEditorStore) List(ctx context.Context, opts store.ListOptions) ([]domain.Editor, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id_editeur, nom_editeur
		FROM t_editeur
		WHERE ($1::text IS NULL OR nom_editeur ILIKE $1)
		ORDER BY nom_editeur, id_editeur
		LIMIT $2
	`, containsPattern(opts.Search), limitArg(opts.Limit))
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list editors",
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list editors: %w", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	editors := make([]domain.Editor, 0)
	for rows.Next() {
		e, err := scanEditor(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan editor: %w", err)
		}
		editors = append(editors, *e)
	}
	return editors, rows.Err()
}

// GetByID implements store.EditorStore.GetByID
func (s *PostgresEditorStore) GetByID(ctx context.Context, id int64) (*domain.Editor, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id_editeur, nom_editeur FROM t_editeur WHERE id_editeur = $1`, id)
	e, err := scanEditor(row)
	if err != nil {
		return nil, mapEntityError(err, store.ErrEditorNotFound, nil)
	}
	return e, nil
}

// Create implements store.EditorStore.Create
func (s *PostgresEditorStore) Create(ctx context.Context, editor *domain.Editor) error {
	if err := editor.Validate(); err != nil {
		return err
	}
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO t_editeur (nom_editeur) VALUES ($1) RETURNING id_editeur`, editor.Name,
	).Scan(&editor.ID)
	if err != nil {
		return fmt.Errorf("failed to create editor: %w", MapError(err))
	}
	return nil
}

// Update implements store.EditorStore.Update
func (s *PostgresEditorStore) Update(ctx context.Context, id int64, patch domain.EditorPatch) (*domain.Editor, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}
	row := s.db.QueryRowContext(ctx, `
		UPDATE t_editeur SET nom_editeur = COALESCE($2, nom_editeur)
		WHERE id_editeur = $1
		RETURNING id_editeur, nom_editeur
	`, id, patch.Name)
	e, err := scanEditor(row)
	if err != nil {
		return nil, mapEntityError(err, store.ErrEditorNotFound, nil)
	}
	return e, nil
}

// Delete implements store.EditorStore.Delete
// Books keep existing with their editor cleared.
func (s *PostgresEditorStore) Delete(ctx context.Context, id int64) (*domain.Editor, error) {
	row := s.db.QueryRowContext(ctx,
		`DELETE FROM t_editeur WHERE id_editeur = $1 RETURNING id_editeur, nom_editeur`, id)
	e, err := scanEditor(row)
	if err != nil {
		return nil, mapDeleteError(err, store.ErrEditorNotFound)
	}
	return e, nil
}

// WithTx implements store.EditorStore.WithTx
func (s *PostgresEditorStore) WithTx(tx *sql.Tx) store.EditorStore {
	return &PostgresEditorStore{db: tx, logger: s.logger}
}
