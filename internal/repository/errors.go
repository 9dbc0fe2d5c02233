package repository

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// Postgres SQLSTATEs raised when concurrent transactions collide.
const (
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
)

// isConflict reports whether err was caused by a concurrent writer and the
// transaction can be retried.
func isConflict(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgSerializationFailure || pgErr.Code == pgDeadlockDetected
	}
	// SQLITE_BUSY surfaces only as text through database/sql.
	return strings.Contains(err.Error(), "database is locked")
}
