package domain

import (
	"errors"
	"time"
)

// Length limits for book text fields.
const (
	MaxTitleLength      = 100
	MaxExcerptLength    = 1000
	MaxSummaryLength    = 2000
	MaxCoverImageLength = 255

	// MaxScore is the upper bound of ratings and of a book's average rating.
	MaxScore = 5
)

// Book is a catalogued work ("ouvrage"). It belongs to one category, one
// author and optionally one editor.
type Book struct {
	ID            int64     `json:"idOuvrage"`
	Title         string    `json:"titre"`
	Pages         int       `json:"nbPages"`
	Excerpt       *string   `json:"extrait"`
	Summary       *string   `json:"resume"`
	EditionYear   *int      `json:"anneeEdition"`
	AverageRating *float64  `json:"moyenneAppreciation"`
	CoverImage    *string   `json:"imageCouverture"`
	CategoryID    int64     `json:"idCategorie"`
	AuthorID      int64     `json:"idAuteur"`
	EditorID      *int64    `json:"idEditeur"`
	CreatedAt     time.Time `json:"createdAt"`
}

// Validate checks that the book can be stored.
func (b *Book) Validate() error {
	if err := validateTitle(b.Title); err != nil {
		return err
	}
	if b.Pages < 1 {
		return NewValidationError("nbPages", "must be a positive integer", nil)
	}
	return errors.Join(
		checkOptionalMaxLen("extrait", b.Excerpt, MaxExcerptLength),
		checkOptionalMaxLen("resume", b.Summary, MaxSummaryLength),
		checkOptionalMaxLen("imageCouverture", b.CoverImage, MaxCoverImageLength),
		validateEditionYear(b.EditionYear),
		validateAverageRating(b.AverageRating),
		checkID("idCategorie", b.CategoryID),
		checkID("idAuteur", b.AuthorID),
		validateOptionalID("idEditeur", b.EditorID),
	)
}

// BookPatch lists the fields of a partial book update. Nil fields are left
// unchanged.
type BookPatch struct {
	Title         *string
	Pages         *int
	Excerpt       *string
	Summary       *string
	EditionYear   *int
	AverageRating *float64
	CoverImage    *string
	CategoryID    *int64
	AuthorID      *int64
	EditorID      *int64
}

// IsEmpty reports whether the patch changes nothing.
func (p BookPatch) IsEmpty() bool {
	return p.Title == nil && p.Pages == nil && p.Excerpt == nil && p.Summary == nil &&
		p.EditionYear == nil && p.AverageRating == nil && p.CoverImage == nil &&
		p.CategoryID == nil && p.AuthorID == nil && p.EditorID == nil
}

// Validate checks the fields present in the patch.
func (p BookPatch) Validate() error {
	if p.IsEmpty() {
		return NewValidationError("", "request body must contain at least one field", ErrEmptyPatch)
	}
	if p.Title != nil {
		if err := validateTitle(*p.Title); err != nil {
			return err
		}
	}
	if p.Pages != nil && *p.Pages < 1 {
		return NewValidationError("nbPages", "must be a positive integer", nil)
	}
	return errors.Join(
		checkOptionalMaxLen("extrait", p.Excerpt, MaxExcerptLength),
		checkOptionalMaxLen("resume", p.Summary, MaxSummaryLength),
		checkOptionalMaxLen("imageCouverture", p.CoverImage, MaxCoverImageLength),
		validateEditionYear(p.EditionYear),
		validateAverageRating(p.AverageRating),
		validateOptionalID("idCategorie", p.CategoryID),
		validateOptionalID("idAuteur", p.AuthorID),
		validateOptionalID("idEditeur", p.EditorID),
	)
}

func validateTitle(title string) error {
	if err := checkRequired("titre", title); err != nil {
		return err
	}
	return checkMaxLen("titre", title, MaxTitleLength)
}

func validateEditionYear(year *int) error {
	if year != nil && (*year < 0 || *year > 9999) {
		return NewValidationError("anneeEdition", "must be between 0 and 9999", nil)
	}
	return nil
}

func validateAverageRating(avg *float64) error {
	if avg != nil && (*avg < 0 || *avg > MaxScore) {
		return NewValidationError("moyenneAppreciation", "must be between 0 and 5", nil)
	}
	return nil
}

func validateOptionalID(field string, id *int64) error {
	if id == nil {
		return nil
	}
	return checkID(field, *id)
}
