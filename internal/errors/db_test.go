package errors

import (
	"context"
	"fmt"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapDBError_Nil(t *testing.T) {
	assert.NoError(t, MapDBError(nil))
}

func TestMapDBError_NoRows(t *testing.T) {
	err := MapDBError(fmt.Errorf("query: %w", pgx.ErrNoRows))
	assert.True(t, IsNotFound(err))
}

func TestMapDBError_ContextTimeout(t *testing.T) {
	err := MapDBError(context.DeadlineExceeded)
	assert.Equal(t, KindInternal, GetKind(err))

	err = MapDBError(context.Canceled)
	assert.Equal(t, KindInternal, GetKind(err))
}

func TestMapDBError_UniqueViolation(t *testing.T) {
	err := MapDBError(&pgconn.PgError{
		Code:   pgerrcode.UniqueViolation,
		Detail: "Key (email)=(a@b.com) already exists.",
	})

	require.True(t, IsConflict(err))
	var appErr *AppError
	require.ErrorAs(t, err, &appErr)
	require.Len(t, appErr.Details, 1)
	assert.Equal(t, "email", appErr.Details[0].Field)
}

func TestMapDBError_UniqueViolationFallsBackToConstraintName(t *testing.T) {
	err := MapDBError(&pgconn.PgError{
		Code:           pgerrcode.UniqueViolation,
		ConstraintName: "entries_slug_key",
	})

	var appErr *AppError
	require.ErrorAs(t, err, &appErr)
	require.Len(t, appErr.Details, 1)
	assert.Equal(t, "slug", appErr.Details[0].Field)
}

func TestMapDBError_NotNullViolation(t *testing.T) {
	err := MapDBError(&pgconn.PgError{
		Code:       pgerrcode.NotNullViolation,
		ColumnName: "title",
	})

	require.True(t, IsBadRequest(err))
	var appErr *AppError
	require.ErrorAs(t, err, &appErr)
	require.Len(t, appErr.Details, 1)
	assert.Equal(t, "title", appErr.Details[0].Field)
}

func TestMapDBError_ForeignKeyViolation(t *testing.T) {
	err := MapDBError(&pgconn.PgError{Code: pgerrcode.ForeignKeyViolation})
	assert.True(t, IsConflict(err))
}

func TestMapDBError_UnknownPgErrorIsInternal(t *testing.T) {
	err := MapDBError(&pgconn.PgError{Code: pgerrcode.SerializationFailure})
	assert.Equal(t, KindInternal, GetKind(err))
}

func TestMapDBError_UnknownErrorIsInternal(t *testing.T) {
	err := MapDBError(fmt.Errorf("connection reset"))
	assert.Equal(t, KindInternal, GetKind(err))
	assert.Equal(t, "An internal error occurred", Resolve(err).Body.Error.Message)
}
