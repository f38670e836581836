package model

import "time"

// Entry is a single diary entry owned by one user.
type Entry struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	EntryDate string    `json:"entry_date"` // YYYY-MM-DD
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateEntryRequest carries the caller-supplied fields for a new entry.
type CreateEntryRequest struct {
	Title     string `json:"title"`
	Body      string `json:"body"`
	EntryDate string `json:"entry_date"`
}

// EntryListOptions controls entry listing.
type EntryListOptions struct {
	Limit  int
	Offset int
}
