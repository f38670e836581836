package client

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var clientNow = time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

func newManager(t *testing.T, refresh RefreshFunc) *TokenManager {
	t.Helper()
	return NewTokenManager(TokenManagerOptions{
		Refresh: refresh,
		Now:     func() time.Time { return clientNow },
	})
}

func TestState_Boundaries(t *testing.T) {
	m := newManager(t, nil)
	now := clientNow.Unix()

	tests := []struct {
		name      string
		expiresAt int64
		want      State
	}{
		{"well before margin", now + 3600, StateFresh},
		{"just outside margin", now + 301, StateFresh},
		{"exactly at margin", now + 300, StateExpiringSoon},
		{"inside margin", now + 60, StateExpiringSoon},
		{"exactly at expiry", now, StateExpired},
		{"past expiry", now - 60, StateExpired},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, m.RecordLogin(tt.expiresAt))
			assert.Equal(t, tt.want, m.State())
		})
	}
}

func TestState_NoRecordIsUnknown(t *testing.T) {
	m := newManager(t, nil)
	assert.Equal(t, StateUnknown, m.State())
	assert.True(t, m.IsExpired())
	assert.True(t, m.IsExpiringSoon())
}

func TestIsExpiringSoon(t *testing.T) {
	m := newManager(t, nil)
	now := clientNow.Unix()

	require.NoError(t, m.RecordLogin(now+3600))
	assert.False(t, m.IsExpiringSoon())
	assert.False(t, m.IsExpired())

	require.NoError(t, m.RecordLogin(now+120))
	assert.True(t, m.IsExpiringSoon())
	assert.False(t, m.IsExpired())

	require.NoError(t, m.RecordLogin(now-1))
	assert.True(t, m.IsExpiringSoon())
	assert.True(t, m.IsExpired())
}

func TestLogout_ClearsRecord(t *testing.T) {
	m := newManager(t, nil)
	require.NoError(t, m.RecordLogin(clientNow.Unix()+3600))
	require.NoError(t, m.Logout())
	assert.Equal(t, StateUnknown, m.State())
}

func TestEnsureFresh_NoopWhenFresh(t *testing.T) {
	m := newManager(t, func(context.Context) (int64, error) {
		t.Fatal("refresh must not run for a fresh token")
		return 0, nil
	})
	require.NoError(t, m.RecordLogin(clientNow.Unix()+3600))
	require.NoError(t, m.EnsureFresh(context.Background()))
}

func TestEnsureFresh_RotatesAndRecords(t *testing.T) {
	newExpiry := clientNow.Unix() + 3600
	m := newManager(t, func(context.Context) (int64, error) {
		return newExpiry, nil
	})
	require.NoError(t, m.RecordLogin(clientNow.Unix()+60))

	require.NoError(t, m.EnsureFresh(context.Background()))
	assert.Equal(t, StateFresh, m.State())
}

func TestEnsureFresh_NoRefreshFuncConfigured(t *testing.T) {
	m := newManager(t, nil)
	require.NoError(t, m.RecordLogin(clientNow.Unix()-1))
	assert.Error(t, m.EnsureFresh(context.Background()))
}

func TestEnsureFresh_CoalescesConcurrentCallers(t *testing.T) {
	var calls atomic.Int64
	newExpiry := clientNow.Unix() + 3600
	m := newManager(t, func(context.Context) (int64, error) {
		calls.Add(1)
		time.Sleep(20 * time.Millisecond)
		return newExpiry, nil
	})
	require.NoError(t, m.RecordLogin(clientNow.Unix()+60))

	const callers = 8
	var wg sync.WaitGroup
	errs := make([]error, callers)
	for i := range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[i] = m.EnsureFresh(context.Background())
		}()
	}
	wg.Wait()

	for i := range callers {
		require.NoError(t, errs[i])
	}
	assert.Equal(t, int64(1), calls.Load())
	assert.Equal(t, StateFresh, m.State())
}

func TestEnsureFresh_RefreshErrorPropagates(t *testing.T) {
	m := newManager(t, func(context.Context) (int64, error) {
		return 0, fmt.Errorf("refresh rejected")
	})
	require.NoError(t, m.RecordLogin(clientNow.Unix()-1))

	err := m.EnsureFresh(context.Background())
	require.Error(t, err)
	// The stale record stays; the next check still reports expired.
	assert.True(t, m.IsExpired())
}
