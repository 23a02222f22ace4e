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

const userColumns = `id_utilisateur, nom_utilisateur, mdp, created_at, nb_propositions`

// PostgresUserStore implements the store.UserStore interface
// using a PostgreSQL database as the storage backend.
type PostgresUserStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresUserStore creates a new PostgreSQL implementation of the UserStore interface.
// It accepts a database connection or transaction that is managed by the caller.
func NewPostgresUserStore(db store.DBTX, logger *slog.Logger) *PostgresUserStore {
	return &PostgresUserStore{
		db:     db,
		logger: newComponentLogger(db, logger, "user_store"),
	}
}

// Ensure PostgresUserStore implements store.UserStore interface
var _ store.UserStore = (*PostgresUserStore)(nil)

func scanUser(row rowScanner) (*domain.User, error) {
	var u domain.User
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CreatedAt, &u.Proposals); err != nil {
		return nil, err
	}
	return &u, nil
}

// List implements store.UserStore.List
func (s *PostgresUserStore) List(ctx context.Context, opts store.ListOptions) ([]domain.User, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+userColumns+`
		FROM t_utilisateur
		WHERE ($1::text IS NULL OR nom_utilisateur ILIKE $1)
		ORDER BY nom_utilisateur
		LIMIT $2
	`, containsPattern(opts.Search), limitArg(opts.Limit))
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list users",
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list users: %w", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	users := make([]domain.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

// Create implements store.UserStore.Create
// Returns store.ErrUsernameExists if the username is already taken.
func (s *PostgresUserStore) Create(ctx context.Context, user *domain.User) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := user.Validate(); err != nil {
		log.Warn("user validation failed during create", slog.String("error", err.Error()))
		return err
	}

	err := s.db.QueryRowContext(ctx, `
		INSERT INTO t_utilisateur (nom_utilisateur, mdp, nb_propositions)
		VALUES ($1, $2, $3)
		RETURNING id_utilisateur, created_at
	`, user.Username, user.PasswordHash, user.Proposals).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		if IsUniqueViolation(err) {
			log.Debug("username already taken", slog.String("username", user.Username))
			return fmt.Errorf("%w: %v", store.ErrUsernameExists, err)
		}
		log.Error("failed to create user", slog.String("error", err.Error()))
		return fmt.Errorf("failed to create user: %w", MapError(err))
	}

	log.Info("user created", slog.Int64("user_id", user.ID))
	return nil
}

// GetByID implements store.UserStore.GetByID
func (s *PostgresUserStore) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM t_utilisateur WHERE id_utilisateur = $1`, id)
	u, err := scanUser(row)
	if err != nil {
		return nil, mapEntityError(err, store.ErrUserNotFound, nil)
	}
	return u, nil
}

// GetByUsername implements store.UserStore.GetByUsername
func (s *PostgresUserStore) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM t_utilisateur WHERE nom_utilisateur = $1`, username)
	u, err := scanUser(row)
	if err != nil {
		return nil, mapEntityError(err, store.ErrUserNotFound, nil)
	}
	return u, nil
}

// Update implements store.UserStore.Update
func (s *PostgresUserStore) Update(ctx context.Context, id int64, patch domain.UserPatch) (*domain.User, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		UPDATE t_utilisateur SET
			nom_utilisateur = COALESCE($2, nom_utilisateur),
			mdp = COALESCE($3, mdp),
			nb_propositions = COALESCE($4, nb_propositions)
		WHERE id_utilisateur = $1
		RETURNING `+userColumns,
		id, patch.Username, patch.PasswordHash, patch.Proposals,
	)
	u, err := scanUser(row)
	if err != nil {
		return nil, mapEntityError(err, store.ErrUserNotFound, store.ErrUsernameExists)
	}

	logger.FromContextOrDefault(ctx, s.logger).Debug("user updated", slog.Int64("user_id", id))
	return u, nil
}

// Delete implements store.UserStore.Delete
func (s *PostgresUserStore) Delete(ctx context.Context, id int64) (*domain.User, error) {
	row := s.db.QueryRowContext(ctx,
		`DELETE FROM t_utilisateur WHERE id_utilisateur = $1 RETURNING `+userColumns, id)
	u, err := scanUser(row)
	if err != nil {
		return nil, mapDeleteError(err, store.ErrUserNotFound)
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("user deleted", slog.Int64("user_id", id))
	return u, nil
}

// Count implements store.UserStore.Count
func (s *PostgresUserStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM t_utilisateur`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count users: %w", MapError(err))
	}
	return n, nil
}

// WithTx implements store.UserStore.WithTx
func (s *PostgresUserStore) WithTx(tx *sql.Tx) store.UserStore {
	return &PostgresUserStore{db: tx, logger: s.logger}
}
