package api

import (
	"net/http"

	"github.com/ouvrages/livre-api/internal/api/openapi"
	"github.com/ouvrages/livre-api/internal/domain"
)

// Route binds a documented operation to its handler. Paths are relative to
// the /api prefix.
type Route struct {
	openapi.Operation
	Handler http.HandlerFunc

	// RateLimited routes sit behind the per-client limiter.
	RateLimited bool
}

// Handlers groups the handlers exposed under /api.
type Handlers struct {
	Books      *BookHandler
	Authors    *AuthorHandler
	Editors    *EditorHandler
	Categories *CategoryHandler
	Users      *UserHandler
	Auth       *AuthHandler
	Ratings    *RatingHandler
	Comments   *CommentHandler
}

var (
	limitParam = openapi.Param{Name: "limit", Description: "Maximum number of rows", Type: "integer"}
	nameParam  = openapi.Param{Name: "nom", Description: "Name substring, at least 2 characters", Type: "string"}
)

// Routes returns the route table. The router registers it and the OpenAPI
// document is built from it.
func (h Handlers) Routes() []Route {
	var routes []Route
	add := func(method, path, summary, tag string, secured bool, handler http.HandlerFunc, request, response interface{}, query ...openapi.Param) *Route {
		routes = append(routes, Route{
			Operation: openapi.Operation{
				Method:   method,
				Path:     path,
				Summary:  summary,
				Tag:      tag,
				Secured:  secured,
				Request:  request,
				Response: response,
				Query:    query,
			},
			Handler: handler,
		})
		return &routes[len(routes)-1]
	}

	// Books
	add(http.MethodGet, "/livres", "List books", "livres", false, h.Books.List, nil, []domain.Book{},
		openapi.Param{Name: "titre", Description: "Title substring", Type: "string"},
		openapi.Param{Name: "categorie", Description: "Category identifier", Type: "integer"},
		limitParam)
	add(http.MethodGet, "/livres/{id}", "Get a book", "livres", true, h.Books.Get, nil, domain.Book{})
	add(http.MethodPost, "/livres", "Create a book, optionally with a cover image", "livres", true,
		h.Books.Create, BookRequest{}, domain.Book{}).Multipart = CoverFormField
	add(http.MethodPut, "/livres/{id}", "Update a book", "livres", true, h.Books.Update, BookUpdateRequest{}, domain.Book{})
	add(http.MethodDelete, "/livres/{id}", "Delete a book", "livres", true, h.Books.Delete, nil, domain.Book{})
	add(http.MethodGet, "/livres/{id}/comments", "List the comments of a book", "livres", true,
		h.Books.ListComments, nil, []domain.Comment{})
	add(http.MethodPost, "/livres/{id}/comments", "Comment a book as the caller", "livres", true,
		h.Books.AddComment, CommentTextRequest{}, domain.Comment{})
	add(http.MethodGet, "/livres/{id}/appreciations", "List the ratings of a book", "livres", true,
		h.Books.ListRatings, nil, []domain.Rating{})
	add(http.MethodPost, "/livres/{id}/appreciations", "Rate a book as the caller", "livres", true,
		h.Books.AddRating, ScoreRequest{}, domain.Rating{})
	add(http.MethodGet, "/livres/{id}/image", "Get the cover image path of a book", "livres", false,
		h.Books.GetImage, nil, ImageResponse{})
	add(http.MethodPut, "/livres/{id}/image", "Replace the cover image of a book", "livres", true,
		h.Books.UpdateImage, nil, domain.Book{}).Multipart = CoverFormField

	// Authors
	add(http.MethodGet, "/auteurs", "List authors", "auteurs", true, h.Authors.List, nil, []domain.Author{}, nameParam, limitParam)
	add(http.MethodGet, "/auteurs/{id}", "Get an author", "auteurs", true, h.Authors.Get, nil, domain.Author{})
	add(http.MethodPost, "/auteurs", "Create an author", "auteurs", true, h.Authors.Create, AuthorRequest{}, domain.Author{})
	add(http.MethodPut, "/auteurs/{id}", "Update an author", "auteurs", true, h.Authors.Update, AuthorRequest{}, domain.Author{})
	add(http.MethodDelete, "/auteurs/{id}", "Delete an author", "auteurs", true, h.Authors.Delete, nil, domain.Author{})
	add(http.MethodGet, "/auteurs/{id}/livres", "List the books of an author", "auteurs", true,
		h.Authors.ListBooks, nil, []domain.Book{})

	// Editors
	add(http.MethodGet, "/editeurs", "List editors", "editeurs", true, h.Editors.List, nil, []domain.Editor{}, nameParam, limitParam)
	add(http.MethodGet, "/editeurs/{id}", "Get an editor", "editeurs", true, h.Editors.Get, nil, domain.Editor{})
	add(http.MethodPost, "/editeurs", "Create an editor", "editeurs", true, h.Editors.Create, EditorRequest{}, domain.Editor{})
	add(http.MethodPut, "/editeurs/{id}", "Update an editor", "editeurs", true, h.Editors.Update, EditorRequest{}, domain.Editor{})
	add(http.MethodDelete, "/editeurs/{id}", "Delete an editor", "editeurs", true, h.Editors.Delete, nil, domain.Editor{})
	add(http.MethodGet, "/editeurs/{id}/livres", "List the books of an editor", "editeurs", true,
		h.Editors.ListBooks, nil, []domain.Book{})

	// Categories
	add(http.MethodGet, "/categories", "List categories", "categories", false, h.Categories.List, nil, []domain.Category{}, nameParam, limitParam)
	add(http.MethodGet, "/categories/{id}", "Get a category", "categories", false, h.Categories.Get, nil, domain.Category{})
	add(http.MethodPost, "/categories", "Create a category", "categories", true, h.Categories.Create, CategoryRequest{}, domain.Category{})
	add(http.MethodPut, "/categories/{id}", "Rename a category", "categories", true, h.Categories.Update, CategoryRequest{}, domain.Category{})
	add(http.MethodDelete, "/categories/{id}", "Delete a category", "categories", true, h.Categories.Delete, nil, domain.Category{})
	add(http.MethodGet, "/categories/{id}/livres", "List the books of a category", "categories", true,
		h.Categories.ListBooks, nil, []domain.Book{})

	// Users
	signup := add(http.MethodPost, "/users", "Sign up", "users", false, h.Users.Signup, SignupRequest{}, domain.User{})
	signup.WithToken = true
	signup.RateLimited = true
	add(http.MethodGet, "/users", "List users", "users", true, h.Users.List, nil, []domain.User{},
		openapi.Param{Name: "name", Description: "Username substring, at least 2 characters", Type: "string"}, limitParam)
	add(http.MethodGet, "/users/token", "Check the bearer token", "users", true, h.Users.TokenCheck, nil, TokenCheckResponse{})
	add(http.MethodGet, "/users/{id}", "Get a user", "users", true, h.Users.Get, nil, domain.User{})
	add(http.MethodPut, "/users/{id}", "Update the caller's account", "users", true, h.Users.Update, UserUpdateRequest{}, domain.User{})
	add(http.MethodDelete, "/users/{id}", "Delete the caller's account", "users", true, h.Users.Delete, nil, domain.User{})

	// Ratings
	add(http.MethodGet, "/appreciation", "List ratings", "appreciations", true, h.Ratings.List, nil, []domain.Rating{},
		openapi.Param{Name: "note", Description: "Only scores strictly above this value (0 to 5)", Type: "integer"}, limitParam)
	add(http.MethodPost, "/appreciation", "Create a rating", "appreciations", true, h.Ratings.Create, RatingRequest{}, domain.Rating{})
	add(http.MethodGet, "/appreciation/{idUtilisateur}/{idOuvrage}", "Get a rating", "appreciations", true,
		h.Ratings.Get, nil, domain.Rating{})
	add(http.MethodPut, "/appreciation/{idUtilisateur}/{idOuvrage}", "Update the caller's rating", "appreciations", true,
		h.Ratings.Update, ScoreRequest{}, domain.Rating{})
	add(http.MethodDelete, "/appreciation/{idUtilisateur}/{idOuvrage}", "Delete the caller's rating", "appreciations", true,
		h.Ratings.Delete, nil, domain.Rating{})

	// Comments
	add(http.MethodGet, "/commentaires", "List comments", "commentaires", true, h.Comments.List, nil, []domain.Comment{},
		openapi.Param{Name: "idOuvrage", Description: "Book identifier", Type: "integer"}, limitParam)
	add(http.MethodPost, "/commentaires", "Create a comment", "commentaires", true, h.Comments.Create, CommentRequest{}, domain.Comment{})
	add(http.MethodGet, "/commentaires/{idUtilisateur}/{idOuvrage}", "Get a comment", "commentaires", true,
		h.Comments.Get, nil, domain.Comment{})
	add(http.MethodPut, "/commentaires/{idUtilisateur}/{idOuvrage}", "Update the caller's comment", "commentaires", true,
		h.Comments.Update, CommentTextRequest{}, domain.Comment{})
	add(http.MethodDelete, "/commentaires/{idUtilisateur}/{idOuvrage}", "Delete the caller's comment", "commentaires", true,
		h.Comments.Delete, nil, domain.Comment{})

	// Login
	login := add(http.MethodPost, "/login", "Log in", "auth", false, h.Auth.Login, LoginRequest{}, domain.User{})
	login.WithToken = true
	login.RateLimited = true

	return routes
}

// Operations returns the documented operations of the route table.
func Operations(routes []Route) []openapi.Operation {
	ops := make([]openapi.Operation, len(routes))
	for i, route := range routes {
		ops[i] = route.Operation
	}
	return ops
}
