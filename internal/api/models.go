package api

import (
	"github.com/ouvrages/livre-api/internal/domain"
)

// Request payloads. JSON names follow the public API; form tags are used by
// multipart book creation.

// BookRequest defines the payload for creating a book.
type BookRequest struct {
	Title         string   `json:"titre"               form:"titre"               validate:"required,max=100"`
	Pages         int      `json:"nbPages"             form:"nbPages"             validate:"required,gte=1"`
	Excerpt       *string  `json:"extrait"             form:"extrait"             validate:"omitempty,max=1000"`
	Summary       *string  `json:"resume"              form:"resume"              validate:"omitempty,max=2000"`
	EditionYear   *int     `json:"anneeEdition"        form:"anneeEdition"        validate:"omitempty,gte=0,lte=9999"`
	AverageRating *float64 `json:"moyenneAppreciation" form:"moyenneAppreciation" validate:"omitempty,gte=0,lte=5"`
	CoverImage    *string  `json:"imageCouverture"     form:"-"                   validate:"omitempty,max=255"`
	CategoryID    int64    `json:"idCategorie"         form:"idCategorie"         validate:"required,gte=1"`
	AuthorID      int64    `json:"idAuteur"            form:"idAuteur"            validate:"required,gte=1"`
	EditorID      *int64   `json:"idEditeur"           form:"idEditeur"           validate:"omitempty,gte=1"`
}

// ToBook converts the request into a domain book.
func (r BookRequest) ToBook() *domain.Book {
	return &domain.Book{
		Title:         r.Title,
		Pages:         r.Pages,
		Excerpt:       r.Excerpt,
		Summary:       r.Summary,
		EditionYear:   r.EditionYear,
		AverageRating: r.AverageRating,
		CoverImage:    r.CoverImage,
		CategoryID:    r.CategoryID,
		AuthorID:      r.AuthorID,
		EditorID:      r.EditorID,
	}
}

// BookUpdateRequest defines the payload for a partial book update.
type BookUpdateRequest struct {
	Title         *string  `json:"titre"               validate:"omitempty,min=1,max=100"`
	Pages         *int     `json:"nbPages"             validate:"omitempty,gte=1"`
	Excerpt       *string  `json:"extrait"             validate:"omitempty,max=1000"`
	Summary       *string  `json:"resume"              validate:"omitempty,max=2000"`
	EditionYear   *int     `json:"anneeEdition"        validate:"omitempty,gte=0,lte=9999"`
	AverageRating *float64 `json:"moyenneAppreciation" validate:"omitempty,gte=0,lte=5"`
	CoverImage    *string  `json:"imageCouverture"     validate:"omitempty,max=255"`
	CategoryID    *int64   `json:"idCategorie"         validate:"omitempty,gte=1"`
	AuthorID      *int64   `json:"idAuteur"            validate:"omitempty,gte=1"`
	EditorID      *int64   `json:"idEditeur"           validate:"omitempty,gte=1"`
}

// ToPatch converts the request into a domain patch.
func (r BookUpdateRequest) ToPatch() domain.BookPatch {
	return domain.BookPatch{
		Title:         r.Title,
		Pages:         r.Pages,
		Excerpt:       r.Excerpt,
		Summary:       r.Summary,
		EditionYear:   r.EditionYear,
		AverageRating: r.AverageRating,
		CoverImage:    r.CoverImage,
		CategoryID:    r.CategoryID,
		AuthorID:      r.AuthorID,
		EditorID:      r.EditorID,
	}
}

// AuthorRequest is used for both creating and updating an author.
type AuthorRequest struct {
	LastName  *string `json:"nomAuteur"    validate:"omitempty,max=50"`
	FirstName *string `json:"prenomAuteur" validate:"omitempty,max=50"`
}

// EditorRequest is used for both creating and updating an editor.
type EditorRequest struct {
	Name *string `json:"nomEditeur" validate:"omitempty,max=50"`
}

// CategoryRequest is used for both creating and renaming a category.
type CategoryRequest struct {
	Name string `json:"nomCategorie" validate:"required,max=50"`
}

// SignupRequest defines the payload for the user registration endpoint.
type SignupRequest struct {
	Username string `json:"nomUtilisateur" validate:"required,max=50"`
	Password string `json:"mdp"            validate:"required,max=72"`
}

// UserUpdateRequest defines the payload for a partial user update. A
// present password is hashed before it is stored.
type UserUpdateRequest struct {
	Username  *string `json:"nomUtilisateur" validate:"omitempty,min=1,max=50"`
	Password  *string `json:"mdp"            validate:"omitempty,min=1,max=72"`
	Proposals *int    `json:"nbPropositions" validate:"omitempty,gte=0"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// RatingRequest defines the payload for creating a rating.
type RatingRequest struct {
	UserID int64 `json:"idUtilisateur" validate:"required,gte=1"`
	BookID int64 `json:"idOuvrage"     validate:"required,gte=1"`
	Score  *int  `json:"appreciation"  validate:"required,gte=0,lte=5"`
}

// ScoreRequest carries a score for an identified rating. UserID is
// optional and defaults to the authenticated user on book sub-resources.
type ScoreRequest struct {
	UserID int64 `json:"idUtilisateur" validate:"omitempty,gte=1"`
	Score  *int  `json:"appreciation"  validate:"required,gte=0,lte=5"`
}

// CommentRequest defines the payload for creating a comment.
type CommentRequest struct {
	UserID int64   `json:"idUtilisateur" validate:"required,gte=1"`
	BookID int64   `json:"idOuvrage"     validate:"required,gte=1"`
	Text   *string `json:"commentaire"   validate:"required,max=150"`
}

// CommentTextRequest carries the text for an identified comment.
type CommentTextRequest struct {
	UserID int64   `json:"idUtilisateur" validate:"omitempty,gte=1"`
	Text   *string `json:"commentaire"   validate:"required,max=150"`
}

// ImageResponse is the payload of GET /livres/{id}/image.
type ImageResponse struct {
	CoverImage string `json:"imageCouverture"`
}
