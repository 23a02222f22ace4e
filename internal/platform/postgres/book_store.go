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

// bookColumns is shared by every statement returning books. The average is
// cast so that it scans into a float64.
const bookColumns = `id_ouvrage, titre, nb_pages, extrait, resume, annee_edition,
	moyenne_appreciation::float8, image_couverture, id_categorie, id_auteur, id_editeur, created_at`

// PostgresBookStore implements the store.BookStore interface
// using a PostgreSQL database as the storage backend.
type PostgresBookStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresBookStore creates a new PostgreSQL implementation of the BookStore interface.
// It accepts a database connection or transaction that is managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresBookStore(db store.DBTX, logger *slog.Logger) *PostgresBookStore {
	return &PostgresBookStore{
		db:     db,
		logger: newComponentLogger(db, logger, "book_store"),
	}
}

// Ensure PostgresBookStore implements store.BookStore interface
var _ store.BookStore = (*PostgresBookStore)(nil)

func scanBook(row rowScanner) (*domain.Book, error) {
	var b domain.Book
	err := row.Scan(
		&b.ID,
		&b.Title,
		&b.Pages,
		&b.Excerpt,
		&b.Summary,
		&b.EditionYear,
		&b.AverageRating,
		&b.CoverImage,
		&b.CategoryID,
		&b.AuthorID,
		&b.EditorID,
		&b.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// List implements store.BookStore.List
func (s *PostgresBookStore) List(ctx context.Context, filter store.BookFilter) ([]domain.Book, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	order := "created_at DESC, titre ASC"
	if filter.ByTitle {
		order = "titre ASC, id_ouvrage ASC"
	}
	query := `
		SELECT ` + bookColumns + `
		FROM t_ouvrage
		WHERE ($1::text IS NULL OR titre ILIKE $1)
		  AND ($2::bigint IS NULL OR id_categorie = $2)
		  AND ($3::bigint IS NULL OR id_auteur = $3)
		  AND ($4::bigint IS NULL OR id_editeur = $4)
		ORDER BY ` + order + `
		LIMIT $5
	`
	rows, err := s.db.QueryContext(ctx, query,
		containsPattern(filter.Title),
		idArg(filter.CategoryID),
		idArg(filter.AuthorID),
		idArg(filter.EditorID),
		limitArg(filter.Limit),
	)
	if err != nil {
		log.Error("failed to list books", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list books: %w", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	books := make([]domain.Book, 0)
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan book: %w", err)
		}
		books = append(books, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate books: %w", err)
	}

	log.Debug("books listed", slog.Int("count", len(books)))
	return books, nil
}

// GetByID implements store.BookStore.GetByID
func (s *PostgresBookStore) GetByID(ctx context.Context, id int64) (*domain.Book, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+bookColumns+` FROM t_ouvrage WHERE id_ouvrage = $1`, id)

	b, err := scanBook(row)
	if err != nil {
		return nil, mapEntityError(err, store.ErrBookNotFound, nil)
	}
	return b, nil
}

// Create implements store.BookStore.Create
// Returns store.ErrInvalidEntity if the category, author or editor doesn't exist.
// On success book holds the stored row, so rounded columns match later reads.
func (s *PostgresBookStore) Create(ctx context.Context, book *domain.Book) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := book.Validate(); err != nil {
		log.Warn("book validation failed during create", slog.String("error", err.Error()))
		return err
	}

	query := `
		INSERT INTO t_ouvrage (titre, nb_pages, extrait, resume, annee_edition,
			moyenne_appreciation, image_couverture, id_categorie, id_auteur, id_editeur)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + bookColumns
	row := s.db.QueryRowContext(ctx, query,
		book.Title,
		book.Pages,
		book.Excerpt,
		book.Summary,
		book.EditionYear,
		book.AverageRating,
		book.CoverImage,
		book.CategoryID,
		book.AuthorID,
		book.EditorID,
	)

	stored, err := scanBook(row)
	if err != nil {
		log.Error("failed to create book", slog.String("error", err.Error()))
		return fmt.Errorf("failed to create book: %w", MapError(err))
	}
	*book = *stored

	log.Debug("book created", slog.Int64("book_id", book.ID))
	return nil
}

// Update implements store.BookStore.Update
// Absent fields keep their stored value; the row is changed and returned in
// one statement.
func (s *PostgresBookStore) Update(ctx context.Context, id int64, patch domain.BookPatch) (*domain.Book, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := patch.Validate(); err != nil {
		return nil, err
	}

	query := `
		UPDATE t_ouvrage SET
			titre = COALESCE($2, titre),
			nb_pages = COALESCE($3, nb_pages),
			extrait = COALESCE($4, extrait),
			resume = COALESCE($5, resume),
			annee_edition = COALESCE($6, annee_edition),
			moyenne_appreciation = COALESCE($7, moyenne_appreciation),
			image_couverture = COALESCE($8, image_couverture),
			id_categorie = COALESCE($9, id_categorie),
			id_auteur = COALESCE($10, id_auteur),
			id_editeur = COALESCE($11, id_editeur)
		WHERE id_ouvrage = $1
		RETURNING ` + bookColumns
	row := s.db.QueryRowContext(ctx, query,
		id,
		patch.Title,
		patch.Pages,
		patch.Excerpt,
		patch.Summary,
		patch.EditionYear,
		patch.AverageRating,
		patch.CoverImage,
		patch.CategoryID,
		patch.AuthorID,
		patch.EditorID,
	)

	b, err := scanBook(row)
	if err != nil {
		mapped := mapEntityError(err, store.ErrBookNotFound, nil)
		if !store.IsNotFoundError(mapped) {
			log.Error("failed to update book", slog.Int64("book_id", id), slog.String("error", err.Error()))
		}
		return nil, mapped
	}

	log.Debug("book updated", slog.Int64("book_id", id))
	return b, nil
}

// Delete implements store.BookStore.Delete
// Ratings and comments on the book are removed by ON DELETE CASCADE.
func (s *PostgresBookStore) Delete(ctx context.Context, id int64) (*domain.Book, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	row := s.db.QueryRowContext(ctx,
		`DELETE FROM t_ouvrage WHERE id_ouvrage = $1 RETURNING `+bookColumns, id)

	b, err := scanBook(row)
	if err != nil {
		return nil, mapDeleteError(err, store.ErrBookNotFound)
	}

	log.Debug("book deleted", slog.Int64("book_id", id))
	return b, nil
}

// WithTx implements store.BookStore.WithTx
func (s *PostgresBookStore) WithTx(tx *sql.Tx) store.BookStore {
	return &PostgresBookStore{db: tx, logger: s.logger}
}
