package domain

import "errors"

// MaxCommentLength bounds the text of a comment.
const MaxCommentLength = 150

// Rating is a user's score for a book ("appreciation"). A user holds at
// most one rating per book.
type Rating struct {
	UserID int64 `json:"idUtilisateur"`
	BookID int64 `json:"idOuvrage"`
	Score  int   `json:"appreciation"`
}

// Validate checks the key and the score range.
func (r *Rating) Validate() error {
	return errors.Join(
		checkID("idUtilisateur", r.UserID),
		checkID("idOuvrage", r.BookID),
		ValidateScore(r.Score),
	)
}

// ValidateScore checks that a score lies between 0 and MaxScore.
func ValidateScore(score int) error {
	if score < 0 || score > MaxScore {
		return NewValidationError("appreciation", "must be between 0 and 5", nil)
	}
	return nil
}

// Comment is a user's remark on a book. A user holds at most one comment
// per book.
type Comment struct {
	UserID int64   `json:"idUtilisateur"`
	BookID int64   `json:"idOuvrage"`
	Text   *string `json:"commentaire"`
}

// Validate checks the key and the text length.
func (c *Comment) Validate() error {
	return errors.Join(
		checkID("idUtilisateur", c.UserID),
		checkID("idOuvrage", c.BookID),
		checkOptionalMaxLen("commentaire", c.Text, MaxCommentLength),
	)
}
