// Package seed inserts the initial data set of a fresh database: a default
// category, author and editor, the admin account, one sample book and a
// rating and comment on it.
package seed

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/ouvrages/livre-api/internal/domain"
	"github.com/ouvrages/livre-api/internal/store"
)

// Default credentials of the seeded administrator account.
const (
	AdminUsername = "admin"
	AdminPassword = "admin"
)

// Hasher hashes the seeded password.
type Hasher interface {
	Hash(password string) (string, error)
}

// Stores are the stores written by the seeder.
type Stores struct {
	Users      store.UserStore
	Categories store.CategoryStore
	Authors    store.AuthorStore
	Editors    store.EditorStore
	Books      store.BookStore
	Ratings    store.RatingStore
	Comments   store.CommentStore
}

func (s Stores) withTx(tx *sql.Tx) Stores {
	return Stores{
		Users:      s.Users.WithTx(tx),
		Categories: s.Categories.WithTx(tx),
		Authors:    s.Authors.WithTx(tx),
		Editors:    s.Editors.WithTx(tx),
		Books:      s.Books.WithTx(tx),
		Ratings:    s.Ratings.WithTx(tx),
		Comments:   s.Comments.WithTx(tx),
	}
}

// Result reports what a seeding run did.
type Result struct {
	// Skipped is set when the database already had users.
	Skipped bool
	Admin   *domain.User
	Book    *domain.Book
}

// Seeder writes the initial data set in a single transaction.
type Seeder struct {
	db     *sql.DB
	stores Stores
	hasher Hasher
	logger *slog.Logger
}

// New creates a Seeder.
func New(db *sql.DB, stores Stores, hasher Hasher, logger *slog.Logger) *Seeder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Seeder{
		db:     db,
		stores: stores,
		hasher: hasher,
		logger: logger.With(slog.String("component", "seed")),
	}
}

// Run seeds the database unless it already has users.
func (s *Seeder) Run(ctx context.Context) (*Result, error) {
	result := &Result{}

	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		st := s.stores.withTx(tx)

		count, err := st.Users.Count(ctx)
		if err != nil {
			return fmt.Errorf("failed to count users: %w", err)
		}
		if count > 0 {
			result.Skipped = true
			return nil
		}

		category := &domain.Category{Name: "Default Category"}
		if err := st.Categories.Create(ctx, category); err != nil {
			return fmt.Errorf("failed to create default category: %w", err)
		}

		author := &domain.Author{LastName: strPtr("de Saint-Exupéry"), FirstName: strPtr("Antoine")}
		if err := st.Authors.Create(ctx, author); err != nil {
			return fmt.Errorf("failed to create default author: %w", err)
		}

		editor := &domain.Editor{Name: strPtr("Gallimard")}
		if err := st.Editors.Create(ctx, editor); err != nil {
			return fmt.Errorf("failed to create default editor: %w", err)
		}

		hash, err := s.hasher.Hash(AdminPassword)
		if err != nil {
			return fmt.Errorf("failed to hash admin password: %w", err)
		}
		admin := &domain.User{Username: AdminUsername, PasswordHash: hash}
		if err := st.Users.Create(ctx, admin); err != nil {
			return fmt.Errorf("failed to create admin user: %w", err)
		}

		year := 1943
		book := &domain.Book{
			Title:       "Le Petit Prince",
			Pages:       96,
			Excerpt:     strPtr("S'il vous plaît... dessine-moi un mouton !"),
			Summary:     strPtr("Un aviateur perdu dans le désert rencontre un petit prince venu d'une autre planète."),
			EditionYear: &year,
			CategoryID:  category.ID,
			AuthorID:    author.ID,
			EditorID:    &editor.ID,
		}
		if err := st.Books.Create(ctx, book); err != nil {
			return fmt.Errorf("failed to create sample book: %w", err)
		}

		if err := st.Ratings.Create(ctx, &domain.Rating{UserID: admin.ID, BookID: book.ID, Score: domain.MaxScore}); err != nil {
			return fmt.Errorf("failed to create sample rating: %w", err)
		}
		if err := st.Comments.Create(ctx, &domain.Comment{UserID: admin.ID, BookID: book.ID, Text: strPtr("Tres bon livre")}); err != nil {
			return fmt.Errorf("failed to create sample comment: %w", err)
		}

		result.Admin = admin
		result.Book = book
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.Skipped {
		s.logger.InfoContext(ctx, "database already seeded, skipping")
	} else {
		s.logger.InfoContext(ctx, "database seeded",
			slog.Int64("admin_id", result.Admin.ID),
			slog.Int64("book_id", result.Book.ID))
	}
	return result, nil
}

func strPtr(s string) *string { return &s }
