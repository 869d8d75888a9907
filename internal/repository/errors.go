package repository

import (
	"context"
	"database/sql"
	"errors"
	"net"

	"app/internal/apperr"

	"github.com/jackc/pgx/v5/pgconn"
)

// Postgres error classes. Class 23 is integrity constraint violation,
// class 08 is connection exception.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgNotNullViolation    = "23502"
	pgCheckViolation      = "23514"
)

// mapError translates driver-level failures into the store's typed
// failures. sql.ErrNoRows is intentionally not handled here; point reads
// return (nil, nil) for missing rows.
func mapError(op string, err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return apperr.Wrap(apperr.KindConstraintViolation, op, err)
		case pgForeignKeyViolation, pgNotNullViolation, pgCheckViolation:
			return apperr.Wrap(apperr.KindValidationFailed, op, err)
		}
		// Class 08: the backend dropped or refused the connection.
		if len(pgErr.Code) >= 2 && pgErr.Code[:2] == "08" {
			return apperr.Wrap(apperr.KindBackendUnavailable, op, err)
		}
		return apperr.Wrap(apperr.KindUnknown, op, err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) ||
		errors.Is(err, sql.ErrConnDone) ||
		errors.Is(err, context.DeadlineExceeded) {
		return apperr.Wrap(apperr.KindBackendUnavailable, op, err)
	}

	return apperr.Wrap(apperr.KindUnknown, op, err)
}
