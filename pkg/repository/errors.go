package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// PostgreSQL error codes mapped by MapError.
const (
	pgUniqueViolation = "23505"
	pgCheckViolation  = "23514"
)

// ErrConstraint indicates a row was rejected by a table CHECK constraint.
var ErrConstraint = errors.New("constraint violated")

// MapError translates database errors to domain errors.
// It maps sql.ErrNoRows to notFoundErr, unique violations to duplicateErr,
// and check violations to ErrConstraint wrapped with the constraint name.
// Other errors are returned unchanged.
func MapError(err error, notFoundErr, duplicateErr error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return notFoundErr
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return duplicateErr
		case pgCheckViolation:
			return fmt.Errorf("%w: %s", ErrConstraint, pgErr.ConstraintName)
		}
	}

	return err
}
