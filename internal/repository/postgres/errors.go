package postgres

import (
	"database/sql"
	"errors"

	"github.com/lib/pq"
)

const (
	uniqueViolation = "23505"
	// Raised when a malformed id is compared against a uuid column.
	invalidTextRepresentation = "22P02"
)

func hasCode(err error, code pq.ErrorCode) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == code
}

// isNoRow reports whether err means the lookup matched nothing. An id that
// is not a valid uuid can never match a row.
func isNoRow(err error) bool {
	return errors.Is(err, sql.ErrNoRows) || hasCode(err, invalidTextRepresentation)
}
