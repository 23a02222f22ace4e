// Package api holds the HTTP handlers of the book catalogue. Handlers
// decode and validate requests, call the stores and wrap results in the
// {message, data} envelope. Errors are mapped to status codes and
// client-safe messages by HandleAPIError.
package api
