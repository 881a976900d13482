package postgres

import (
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

// isUniqueViolation reports whether the error is a PostgreSQL unique
// constraint violation.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == pgerrcode.UniqueViolation
}

// foreignKeyConstraint returns the name of the violated foreign key
// constraint, or "" if the error is not a foreign key violation.
// Callers map the constraint name to the matching NotFound sentinel, so
// a missing parent row surfaces as "not found" rather than a raw
// database error.
func foreignKeyConstraint(err error) string {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return ""
	}
	if pgErr.Code != pgerrcode.ForeignKeyViolation {
		return ""
	}
	return pgErr.ConstraintName
}
