package repository

import (
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// PostgreSQL SQLSTATE codes.
const (
	codeUniqueViolation = "23505"
	codeInvalidText     = "22P02"
)

// MapError translates database errors into a domain's sentinels:
// sql.ErrNoRows and malformed identifiers become notFound, unique
// violations become duplicate. Anything else is returned unchanged.
func MapError(err, notFound, duplicate error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return notFound
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case codeUniqueViolation:
		return duplicate
	case codeInvalidText:
		return notFound
	default:
		return err
	}
}
