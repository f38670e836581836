package errors

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// reKeyField extracts the field name from a unique violation detail:
// "Key (field)=(value) already exists.".
var reKeyField = regexp.MustCompile(`Key \(([^)]+)\)=`)

// MapDBError maps database errors to AppError instances:
//   - pgx.ErrNoRows → NOT_FOUND
//   - unique constraint violations → CONFLICT with the offending field
//   - check / NOT NULL violations → BAD_REQUEST with the offending field
//   - context timeouts/cancellations and everything else → INTERNAL
//
// If the error is not a recognized database error, it is wrapped as INTERNAL
// so the resolver never leaks driver internals to a caller.
func MapDBError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return Wrap(err, KindInternal, "The request could not be completed in time")
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return Wrap(err, KindNotFound, "")
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return mapPgError(pgErr)
	}

	return Wrap(err, KindInternal, "")
}

func mapPgError(pgErr *pgconn.PgError) error {
	switch pgErr.Code {
	case pgerrcode.UniqueViolation:
		appErr := Wrap(pgErr, KindConflict, "This value already exists")
		if field := uniqueViolationField(pgErr); field != "" {
			appErr.WithDetail(field, "already exists")
		}
		return appErr
	case pgerrcode.NotNullViolation:
		appErr := Wrap(pgErr, KindBadRequest, "Required field is missing")
		if pgErr.ColumnName != "" {
			appErr.WithDetail(pgErr.ColumnName, "is required")
		}
		return appErr
	case pgerrcode.CheckViolation:
		appErr := Wrap(pgErr, KindBadRequest, "Invalid field value")
		if pgErr.ColumnName != "" {
			appErr.WithDetail(pgErr.ColumnName, "has an invalid value")
		}
		return appErr
	case pgerrcode.ForeignKeyViolation:
		return Wrap(pgErr, KindConflict, "Operation conflicts with related data")
	default:
		return Wrap(pgErr, KindInternal, "")
	}
}

// uniqueViolationField determines the field behind a unique violation.
// ColumnName metadata is preferred; the Detail message is parsed as a
// fallback, then the constraint name ("entries_slug_key" → "slug").
func uniqueViolationField(pgErr *pgconn.PgError) string {
	if pgErr.ColumnName != "" {
		return pgErr.ColumnName
	}
	if pgErr.Detail != "" {
		if m := reKeyField.FindStringSubmatch(pgErr.Detail); len(m) == 2 {
			return m[1]
		}
	}
	parts := strings.Split(pgErr.ConstraintName, "_")
	if len(parts) == 3 {
		return parts[1]
	}
	return ""
}
