package domain

import "errors"

// MaxNameLength bounds every short name column (authors, editors,
// categories, usernames).
const MaxNameLength = 50

// Author is the writer of one or more books.
type Author struct {
	ID        int64   `json:"idAuteur"`
	LastName  *string `json:"nomAuteur"`
	FirstName *string `json:"prenomAuteur"`
}

// Validate checks name lengths.
func (a *Author) Validate() error {
	return errors.Join(
		checkOptionalMaxLen("nomAuteur", a.LastName, MaxNameLength),
		checkOptionalMaxLen("prenomAuteur", a.FirstName, MaxNameLength),
	)
}

// AuthorPatch is a partial author update.
type AuthorPatch struct {
	LastName  *string
	FirstName *string
}

// Validate checks the fields present in the patch.
func (p AuthorPatch) Validate() error {
	if p.LastName == nil && p.FirstName == nil {
		return NewValidationError("", "request body must contain at least one field", ErrEmptyPatch)
	}
	return (&Author{LastName: p.LastName, FirstName: p.FirstName}).Validate()
}

// Editor is a publishing house.
type Editor struct {
	ID   int64   `json:"idEditeur"`
	Name *string `json:"nomEditeur"`
}

// Validate checks the name length.
func (e *Editor) Validate() error {
	return checkOptionalMaxLen("nomEditeur", e.Name, MaxNameLength)
}

// EditorPatch is a partial editor update.
type EditorPatch struct {
	Name *string
}

// Validate checks the fields present in the patch.
func (p EditorPatch) Validate() error {
	if p.Name == nil {
		return NewValidationError("", "request body must contain at least one field", ErrEmptyPatch)
	}
	return (&Editor{Name: p.Name}).Validate()
}

// Category groups books by genre.
type Category struct {
	ID   int64  `json:"idCategorie"`
	Name string `json:"nomCategorie"`
}

// Validate checks that the category has a bounded, non-empty name.
func (c *Category) Validate() error {
	if err := checkRequired("nomCategorie", c.Name); err != nil {
		return err
	}
	return checkMaxLen("nomCategorie", c.Name, MaxNameLength)
}
