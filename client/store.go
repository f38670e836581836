package client

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
)

// ExpiryStore persists a single integer: the access-token expiry in seconds
// since epoch. Written on login/refresh, read before every authenticated
// request, cleared on logout.
type ExpiryStore interface {
	// Load returns the persisted expiry and whether a record exists.
	Load() (int64, bool, error)
	Save(expiresAt int64) error
	Clear() error
}

// MemoryStore keeps the expiry in process memory.
type MemoryStore struct {
	mu        sync.Mutex
	expiresAt int64
	present   bool
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore { return &MemoryStore{} }

func (s *MemoryStore) Load() (int64, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.expiresAt, s.present, nil
}

func (s *MemoryStore) Save(expiresAt int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expiresAt = expiresAt
	s.present = true
	return nil
}

func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expiresAt = 0
	s.present = false
	return nil
}

// FileStore persists the expiry to a file so it survives process restarts,
// the way a mobile client persists it to device storage.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore creates a file-backed store at path.
func NewFileStore(path string) *FileStore { return &FileStore{path: path} }

func (s *FileStore) Load() (int64, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("read expiry record: %w", err)
	}

	expiresAt, err := strconv.ParseInt(strings.TrimSpace(string(data)), 10, 64)
	if err != nil {
		// A corrupt record is treated as absent rather than valid.
		return 0, false, nil
	}
	return expiresAt, true, nil
}

func (s *FileStore) Save(expiresAt int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	const ownerOnly = 0o600
	if err := os.WriteFile(s.path, []byte(strconv.FormatInt(expiresAt, 10)), ownerOnly); err != nil {
		return fmt.Errorf("write expiry record: %w", err)
	}
	return nil
}

func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("clear expiry record: %w", err)
	}
	return nil
}
