// Package main implements the entry point of the Livre API server, a REST
// catalogue of books, authors, editors and categories with user ratings and
// comments.
package main

import (
	"fmt"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" database/sql driver
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
