// Package store defines interfaces for data persistence operations.
// These interfaces abstract the underlying data storage mechanism from
// the HTTP layer, so handlers depend on behaviour rather than on a
// particular database.
package store
