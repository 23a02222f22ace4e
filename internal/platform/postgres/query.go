package postgres

import (
	"log/slog"
	"strings"

	"github.com/ouvrages/livre-api/internal/store"
)

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern turns a search term into an ILIKE pattern matching any
// value that contains it. An empty term yields nil so that queries can use
// "$n::text IS NULL OR col ILIKE $n".
func containsPattern(term string) any {
	if term == "" {
		return nil
	}
	return "%" + likeEscaper.Replace(term) + "%"
}

// limitArg converts a limit into a LIMIT parameter. LIMIT NULL returns all rows.
func limitArg(limit int) any {
	if limit <= 0 {
		return nil
	}
	return limit
}

// idArg converts an optional identifier filter; zero disables it.
func idArg(id int64) any {
	if id == 0 {
		return nil
	}
	return id
}

func newComponentLogger(db store.DBTX, logger *slog.Logger, component string) *slog.Logger {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return logger.With(slog.String("component", component))
}
