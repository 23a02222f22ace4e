// Package config handles configuration loading, parsing, and validation
// from a .env file, an optional config.yaml and LIVRE_ prefixed environment
// variables. It provides type-safe access to the settings needed by the
// server, the database layer, authentication and cover storage.
package config
