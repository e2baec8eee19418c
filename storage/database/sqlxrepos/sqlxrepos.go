// Package sqlxrepos implements the domain repositories on SQLite via sqlx.
package sqlxrepos

import (
	"strings"

	sqlite3 "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/fractal-nyc/attendabot/core"
)

// orderBy renders an ORDER BY clause from the caller's ordering, falling
// back to def when none is given.
func orderBy(ordering []core.DBOrdering, def string) string {
	if len(ordering) == 0 {
		if def == "" {
			return ""
		}
		return " ORDER BY " + def
	}
	parts := make([]string, 0, len(ordering))
	for _, ord := range ordering {
		parts = append(parts, ord.String())
	}
	return " ORDER BY " + strings.Join(parts, ", ")
}

// trapFatalErr escalates SQLite errors that mean the database file itself
// is unusable into a shutdown error so the service exits instead of failing
// every request. Anything else is wrapped as usual.
func trapFatalErr(err error, msg string) error {
	if sqliteErr, ok := errors.Cause(err).(sqlite3.Error); ok {
		switch sqliteErr.Code {
		case sqlite3.ErrCorrupt, sqlite3.ErrNotADB:
			return core.NewShutdownError(msg + ": " + sqliteErr.Error())
		}
	}
	return errors.Wrap(err, msg)
}
