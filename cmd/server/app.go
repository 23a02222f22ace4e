package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/ouvrages/livre-api/internal/api"
	"github.com/ouvrages/livre-api/internal/config"
	"github.com/ouvrages/livre-api/internal/platform/covers"
	"github.com/ouvrages/livre-api/internal/platform/postgres"
	"github.com/ouvrages/livre-api/internal/seed"
	"github.com/ouvrages/livre-api/internal/service/auth"
	"github.com/ouvrages/livre-api/internal/store"
)

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	// Stores
	userStore     store.UserStore
	bookStore     store.BookStore
	authorStore   store.AuthorStore
	editorStore   store.EditorStore
	categoryStore store.CategoryStore
	ratingStore   store.RatingStore
	commentStore  store.CommentStore

	// Services
	jwtService auth.JWTService
	hasher     auth.PasswordHasher
	covers     api.CoverStore
	seeder     *seed.Seeder
}

// newApplication creates a new application instance with all dependencies initialized.
// The database connection must already be established.
func newApplication(_ context.Context, cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		slog.Int("token_lifetime_hours", cfg.Auth.TokenLifetimeHours))

	app.hasher = auth.NewBcryptHasher(cfg.Auth.BcryptCost)

	app.userStore = postgres.NewPostgresUserStore(db, logger)
	app.bookStore = postgres.NewPostgresBookStore(db, logger)
	app.authorStore = postgres.NewPostgresAuthorStore(db, logger)
	app.editorStore = postgres.NewPostgresEditorStore(db, logger)
	app.categoryStore = postgres.NewPostgresCategoryStore(db, logger)
	app.ratingStore = postgres.NewPostgresRatingStore(db, logger)
	app.commentStore = postgres.NewPostgresCommentStore(db, logger)

	coverStore, err := covers.NewStore(cfg.Server.PublicDir, cfg.Covers, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cover storage: %w", err)
	}
	app.covers = coverStore
	logger.Info("cover storage initialized", slog.String("dir", coverStore.Dir()))

	app.seeder = app.newSeeder()

	logger.Info("Application initialized successfully")
	return app, nil
}

func (app *application) newSeeder() *seed.Seeder {
	return seed.New(app.db, seed.Stores{
		Users:      app.userStore,
		Categories: app.categoryStore,
		Authors:    app.authorStore,
		Editors:    app.editorStore,
		Books:      app.bookStore,
		Ratings:    app.ratingStore,
		Comments:   app.commentStore,
	}, app.hasher, app.logger)
}

// handlers builds the HTTP handlers from the application dependencies.
func (app *application) handlers() api.Handlers {
	maxUpload := int64(app.config.Server.MaxUploadMB) << 20
	return api.Handlers{
		Books: api.NewBookHandler(app.bookStore, app.ratingStore, app.commentStore,
			app.covers, maxUpload, app.logger),
		Authors:    api.NewAuthorHandler(app.authorStore, app.bookStore, app.logger),
		Editors:    api.NewEditorHandler(app.editorStore, app.bookStore, app.logger),
		Categories: api.NewCategoryHandler(app.categoryStore, app.bookStore, app.logger),
		Users:      api.NewUserHandler(app.userStore, app.jwtService, app.hasher, app.logger),
		Auth:       api.NewAuthHandler(app.userStore, app.jwtService, app.hasher, app.logger),
		Ratings:    api.NewRatingHandler(app.ratingStore, app.logger),
		Comments:   api.NewCommentHandler(app.commentStore, app.logger),
	}
}

// Run starts the application server and blocks until ctx is cancelled or
// the server fails.
func (app *application) Run(ctx context.Context) error {
	router, err := app.setupRouter(ctx)
	if err != nil {
		return fmt.Errorf("failed to set up router: %w", err)
	}

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", slog.String("error", err.Error()))
		}
	}
	app.logger.Info("Application shutdown completed")
}
