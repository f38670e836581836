package service

import (
	"context"
	"time"

	"github.com/daybook-app/daybook-api/internal/domain/model"
	apperrors "github.com/daybook-app/daybook-api/internal/errors"
)

// EntryRepository is the persistence surface the entry service depends on.
type EntryRepository interface {
	Create(ctx context.Context, userID string, req model.CreateEntryRequest) (*model.Entry, error)
	GetByID(ctx context.Context, id string) (*model.Entry, error)
	ListByUser(ctx context.Context, userID string, opts model.EntryListOptions) ([]*model.Entry, error)
	Delete(ctx context.Context, id string) (bool, error)
}

const (
	maxTitleLength    = 200
	defaultListLimit  = 50
	maxListLimit      = 200
	entryDateLayout   = "2006-01-02"
	maxEntryBodyBytes = 64 * 1024
)

// EntryService owns diary-entry business rules: input validation and per-user
// ownership. It consumes the trust boundary's outputs (the authenticated user
// id and the classified error taxonomy).
type EntryService struct {
	repo EntryRepository
}

// NewEntryService constructs an EntryService.
func NewEntryService(repo EntryRepository) *EntryService {
	return &EntryService{repo: repo}
}

// Create validates and stores a new entry for the user.
func (s *EntryService) Create(
	ctx context.Context,
	userID string,
	req model.CreateEntryRequest,
) (*model.Entry, error) {
	if issues := validateCreateEntry(req); len(issues) > 0 {
		return nil, apperrors.FromValidationIssues(issues)
	}
	return s.repo.Create(ctx, userID, req)
}

// Get returns one of the user's entries. Another user's entry reports
// FORBIDDEN, not NOT_FOUND, because the caller is authenticated but
// disallowed.
func (s *EntryService) Get(ctx context.Context, userID, entryID string) (*model.Entry, error) {
	entry, err := s.repo.GetByID(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if entry.UserID != userID {
		return nil, apperrors.Forbidden("")
	}
	return entry, nil
}

// List returns the user's entries, newest first.
func (s *EntryService) List(
	ctx context.Context,
	userID string,
	opts model.EntryListOptions,
) ([]*model.Entry, error) {
	if opts.Limit <= 0 {
		opts.Limit = defaultListLimit
	}
	if opts.Limit > maxListLimit {
		opts.Limit = maxListLimit
	}
	if opts.Offset < 0 {
		opts.Offset = 0
	}
	return s.repo.ListByUser(ctx, userID, opts)
}

// Delete removes one of the user's entries.
func (s *EntryService) Delete(ctx context.Context, userID, entryID string) error {
	entry, err := s.repo.GetByID(ctx, entryID)
	if err != nil {
		return err
	}
	if entry.UserID != userID {
		return apperrors.Forbidden("")
	}
	deleted, err := s.repo.Delete(ctx, entryID)
	if err != nil {
		return err
	}
	if !deleted {
		return apperrors.NotFound("")
	}
	return nil
}

func validateCreateEntry(req model.CreateEntryRequest) []apperrors.Issue {
	var issues []apperrors.Issue
	if req.Title == "" {
		issues = append(issues, apperrors.Issue{Path: []string{"title"}, Message: "is required"})
	}
	if len(req.Title) > maxTitleLength {
		issues = append(issues, apperrors.Issue{Path: []string{"title"}, Message: "is too long"})
	}
	if len(req.Body) > maxEntryBodyBytes {
		issues = append(issues, apperrors.Issue{Path: []string{"body"}, Message: "is too long"})
	}
	if req.EntryDate == "" {
		issues = append(issues, apperrors.Issue{Path: []string{"entry_date"}, Message: "is required"})
	} else if _, err := time.Parse(entryDateLayout, req.EntryDate); err != nil {
		issues = append(issues, apperrors.Issue{Path: []string{"entry_date"}, Message: "must be YYYY-MM-DD"})
	}
	return issues
}
