package httpx

import (
	"context"
	"net/http"
	"strconv"

	"github.com/daybook-app/daybook-api/internal/domain/model"
	apperrors "github.com/daybook-app/daybook-api/internal/errors"
)

// EntryService is the surface the entry handlers need from the business layer.
type EntryService interface {
	Create(ctx context.Context, userID string, req model.CreateEntryRequest) (*model.Entry, error)
	Get(ctx context.Context, userID, entryID string) (*model.Entry, error)
	List(ctx context.Context, userID string, opts model.EntryListOptions) ([]*model.Entry, error)
	Delete(ctx context.Context, userID, entryID string) error
}

// EntryHandlers exposes the diary-entry endpoints. Every handler runs behind
// RequireAuth, so the identity is always present in the context.
type EntryHandlers struct {
	Svc EntryService
}

// List handles GET /api/entries.
func (h *EntryHandlers) List(w http.ResponseWriter, r *http.Request) error {
	identity, ok := IdentityFromContext(r.Context())
	if !ok {
		return apperrors.Unauthorized("")
	}

	opts := model.EntryListOptions{}
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return apperrors.BadRequest("").WithDetail("limit", "must be an integer")
		}
		opts.Limit = n
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return apperrors.BadRequest("").WithDetail("offset", "must be an integer")
		}
		opts.Offset = n
	}

	entries, err := h.Svc.List(r.Context(), identity.UserID, opts)
	if err != nil {
		return err
	}
	if entries == nil {
		entries = []*model.Entry{}
	}
	WriteJSON(w, http.StatusOK, map[string]any{"entries": entries})
	return nil
}

// Create handles POST /api/entries.
func (h *EntryHandlers) Create(w http.ResponseWriter, r *http.Request) error {
	identity, ok := IdentityFromContext(r.Context())
	if !ok {
		return apperrors.Unauthorized("")
	}

	var req model.CreateEntryRequest
	if err := DecodeJSON(r, &req); err != nil {
		return err
	}

	entry, err := h.Svc.Create(r.Context(), identity.UserID, req)
	if err != nil {
		return err
	}
	WriteJSON(w, http.StatusCreated, entry)
	return nil
}

// Get handles GET /api/entries/{id}.
func (h *EntryHandlers) Get(w http.ResponseWriter, r *http.Request) error {
	identity, ok := IdentityFromContext(r.Context())
	if !ok {
		return apperrors.Unauthorized("")
	}

	entry, err := h.Svc.Get(r.Context(), identity.UserID, r.PathValue("id"))
	if err != nil {
		return err
	}
	WriteJSON(w, http.StatusOK, entry)
	return nil
}

// Delete handles DELETE /api/entries/{id}.
func (h *EntryHandlers) Delete(w http.ResponseWriter, r *http.Request) error {
	identity, ok := IdentityFromContext(r.Context())
	if !ok {
		return apperrors.Unauthorized("")
	}

	if err := h.Svc.Delete(r.Context(), identity.UserID, r.PathValue("id")); err != nil {
		return err
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}
