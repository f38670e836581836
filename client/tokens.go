// Package client implements the device-side token lifecycle: it persists the
// access-token expiry, decides when a refresh is due without a network call,
// and coalesces concurrent refresh attempts into a single rotation.
package client

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"
)

// RefreshMargin is how long before expiry a proactive refresh is triggered,
// so a request never has to fail before the client notices.
const RefreshMargin = 5 * time.Minute

// State describes the persisted expiry relative to the current time.
type State int

const (
	// StateUnknown means no expiry is persisted. Treated as expired for
	// safety: absence of data must never be interpreted as validity.
	StateUnknown State = iota
	// StateFresh means the token has more than the refresh margin left.
	StateFresh
	// StateExpiringSoon means the token is within the refresh margin.
	StateExpiringSoon
	// StateExpired means the expiry has passed.
	StateExpired
)

// String returns the state name for logs.
func (s State) String() string {
	switch s {
	case StateFresh:
		return "fresh"
	case StateExpiringSoon:
		return "expiring_soon"
	case StateExpired:
		return "expired"
	default:
		return "unknown"
	}
}

// RefreshFunc performs one token rotation and returns the new absolute expiry
// in seconds since epoch.
type RefreshFunc func(ctx context.Context) (int64, error)

// TokenManager tracks the access token's expiry across requests.
type TokenManager struct {
	store   ExpiryStore
	refresh RefreshFunc
	now     func() time.Time

	group singleflight.Group
}

// TokenManagerOptions groups dependencies for TokenManager.
type TokenManagerOptions struct {
	Store   ExpiryStore
	Refresh RefreshFunc
	// Now pins the clock in tests. Defaults to time.Now.
	Now func() time.Time
}

// NewTokenManager constructs a TokenManager. A nil store falls back to an
// in-memory record.
func NewTokenManager(opts TokenManagerOptions) *TokenManager {
	store := opts.Store
	if store == nil {
		store = NewMemoryStore()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &TokenManager{store: store, refresh: opts.Refresh, now: now}
}

// RecordLogin persists the expiry of a newly issued token. Also used after a
// successful refresh.
func (m *TokenManager) RecordLogin(expiresAt int64) error {
	return m.store.Save(expiresAt)
}

// Logout clears the persisted record. The next check reports Unknown, which
// is treated as expired.
func (m *TokenManager) Logout() error {
	return m.store.Clear()
}

// State classifies the persisted expiry relative to now.
func (m *TokenManager) State() State {
	expiresAt, ok, err := m.store.Load()
	if err != nil || !ok {
		return StateUnknown
	}
	now := m.now().Unix()
	switch {
	case expiresAt <= now:
		return StateExpired
	case expiresAt-now <= int64(RefreshMargin.Seconds()):
		return StateExpiringSoon
	default:
		return StateFresh
	}
}

// IsExpiringSoon reports whether a proactive refresh is due. True when no
// expiry is persisted.
func (m *TokenManager) IsExpiringSoon() bool {
	s := m.State()
	return s != StateFresh
}

// IsExpired reports whether the token's expiry has passed. True when no
// expiry is persisted.
func (m *TokenManager) IsExpired() bool {
	s := m.State()
	return s == StateExpired || s == StateUnknown
}

// EnsureFresh triggers a rotation when the token is expiring soon or already
// expired. Concurrent callers observing the same state are coalesced into a
// single in-flight refresh so the refresh token is not rotated against
// itself.
func (m *TokenManager) EnsureFresh(ctx context.Context) error {
	if !m.IsExpiringSoon() {
		return nil
	}
	if m.refresh == nil {
		return fmt.Errorf("token expiring and no refresh function configured")
	}

	_, err, _ := m.group.Do("refresh", func() (any, error) {
		// Re-check under the flight: another caller may have just rotated.
		if m.State() == StateFresh {
			return nil, nil
		}
		expiresAt, refreshErr := m.refresh(ctx)
		if refreshErr != nil {
			return nil, refreshErr
		}
		return nil, m.store.Save(expiresAt)
	})
	return err
}
