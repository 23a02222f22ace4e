package main

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/ouvrages/livre-api/internal/api"
	apiMiddleware "github.com/ouvrages/livre-api/internal/api/middleware"
	"github.com/ouvrages/livre-api/internal/api/openapi"
	"github.com/ouvrages/livre-api/internal/api/shared"
	"github.com/ouvrages/livre-api/internal/platform/covers"
)

const (
	apiVersion = "1.0.0"
	apiTitle   = "Livre API"

	bannerText       = "API REST de la bibliothèque !"
	notFoundMessage  = "Impossible de trouver la ressource demandée ! Vous pouvez essayer une autre URL."
	docsPath         = "/api-docs"
	docsDocumentPath = "/api-docs/openapi.json"
)

// setupRouter creates and configures the application router with all routes and middleware.
// ctx bounds background work started for the router, such as rate limiter cleanup.
func (app *application) setupRouter(ctx context.Context) (http.Handler, error) {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	if app.config.Server.TrustProxyHeaders {
		r.Use(middleware.RealIP)
	}
	r.Use(apiMiddleware.NewTraceMiddleware(app.logger))
	r.Use(apiMiddleware.RequestLogger(app.logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.StripSlashes)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   app.config.Server.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{apiMiddleware.TraceIDHeader},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	routes := app.handlers().Routes()
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)
	limiter := apiMiddleware.NewRateLimiter(ctx, app.config.RateLimit)

	r.Route("/api", func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, "/", http.StatusFound)
		})

		for _, route := range routes {
			var chain []func(http.Handler) http.Handler
			if route.RateLimited {
				chain = append(chain, limiter.Limit)
			}
			if route.Secured {
				chain = append(chain, authMiddleware.Authenticate)
			}
			r.With(chain...).Method(route.Method, route.Path, route.Handler)
		}
	})

	doc, err := openapi.Build(openapi.Info{
		Title:       apiTitle,
		Version:     apiVersion,
		Description: "Catalogue de livres, auteurs, éditeurs et catégories avec appréciations et commentaires.",
		ServerURL:   "/api",
	}, api.Operations(routes))
	if err != nil {
		return nil, fmt.Errorf("failed to build OpenAPI document: %w", err)
	}
	docHandler, err := openapi.Handler(doc)
	if err != nil {
		return nil, err
	}
	r.Method(http.MethodGet, docsDocumentPath, docHandler)
	r.Method(http.MethodGet, docsPath, openapi.UIHandler(apiTitle, docsDocumentPath))

	publicDir := app.config.Server.PublicDir
	r.Handle("/public/*", http.StripPrefix("/public/", http.FileServer(http.Dir(publicDir))))
	r.Handle("/"+covers.Subdir+"/*", http.StripPrefix("/"+covers.Subdir+"/",
		http.FileServer(http.Dir(filepath.Join(publicDir, covers.Subdir)))))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte(bannerText))
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		shared.RespondWithError(w, r, http.StatusNotFound, notFoundMessage)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		shared.RespondWithError(w, r, http.StatusMethodNotAllowed, "Method not allowed")
	})

	return r, nil
}
