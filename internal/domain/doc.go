// Package domain defines the catalogue entities (books, authors, editors,
// categories, users, ratings and comments) together with their validation
// rules and the errors shared by the other layers.
package domain
