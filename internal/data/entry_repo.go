package data

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/daybook-app/daybook-api/internal/domain/model"
	apperrors "github.com/daybook-app/daybook-api/internal/errors"
)

// EntryRepo provides Postgres-backed access to diary entries. All database
// failures are classified through MapDBError so callers only ever see
// AppError kinds.
type EntryRepo struct {
	pool *pgxpool.Pool
}

// NewEntryRepo creates an EntryRepo backed by the given pool.
func NewEntryRepo(pool *pgxpool.Pool) *EntryRepo {
	return &EntryRepo{pool: pool}
}

const entryColumns = "id, user_id, title, body, entry_date, created_at, updated_at"

// Create inserts a new entry for the user.
func (r *EntryRepo) Create(
	ctx context.Context,
	userID string,
	req model.CreateEntryRequest,
) (*model.Entry, error) {
	query := fmt.Sprintf(`
		INSERT INTO entries (id, user_id, title, body, entry_date)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING %s`, entryColumns)

	row := r.pool.QueryRow(ctx, query, uuid.NewString(), userID, req.Title, req.Body, req.EntryDate)
	entry, err := scanEntry(row)
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return entry, nil
}

// GetByID fetches a single entry by id, regardless of owner. Ownership is
// enforced by the service layer so cross-user access can distinguish
// FORBIDDEN from NOT_FOUND.
func (r *EntryRepo) GetByID(ctx context.Context, id string) (*model.Entry, error) {
	query := fmt.Sprintf("SELECT %s FROM entries WHERE id = $1", entryColumns)
	entry, err := scanEntry(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return entry, nil
}

// ListByUser returns the user's entries, newest first.
func (r *EntryRepo) ListByUser(
	ctx context.Context,
	userID string,
	opts model.EntryListOptions,
) ([]*model.Entry, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM entries
		WHERE user_id = $1
		ORDER BY entry_date DESC, created_at DESC
		LIMIT $2 OFFSET $3`, entryColumns)

	rows, err := r.pool.Query(ctx, query, userID, opts.Limit, opts.Offset)
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}
	defer rows.Close()

	var entries []*model.Entry
	for rows.Next() {
		entry, scanErr := scanEntry(rows)
		if scanErr != nil {
			return nil, apperrors.MapDBError(scanErr)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return entries, nil
}

// Delete removes an entry by id. Reports whether a row was deleted.
func (r *EntryRepo) Delete(ctx context.Context, id string) (bool, error) {
	tag, err := r.pool.Exec(ctx, "DELETE FROM entries WHERE id = $1", id)
	if err != nil {
		return false, apperrors.MapDBError(err)
	}
	return tag.RowsAffected() > 0, nil
}

func scanEntry(row pgx.Row) (*model.Entry, error) {
	var e model.Entry
	err := row.Scan(&e.ID, &e.UserID, &e.Title, &e.Body, &e.EntryDate, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &e, nil
}
