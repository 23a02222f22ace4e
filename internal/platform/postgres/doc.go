// Package postgres implements the store interfaces on PostgreSQL through
// database/sql and the pgx driver. It also embeds the schema migrations and
// runs them with goose.
package postgres
