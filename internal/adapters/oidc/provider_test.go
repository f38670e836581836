package oidc

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/daybook-app/daybook-api/internal/errors"
)

// fakeIDP serves an OIDC discovery document plus a scriptable userinfo
// endpoint.
type fakeIDP struct {
	server *httptest.Server

	userinfoStatus atomic.Int32
	userinfoBody   atomic.Value // string
	revoked        atomic.Int32
}

func newFakeIDP(t *testing.T) *fakeIDP {
	t.Helper()
	idp := &fakeIDP{}
	idp.userinfoStatus.Store(http.StatusOK)
	idp.userinfoBody.Store(`{"sub":"u-1","email":"a@b.com"}`)

	mux := http.NewServeMux()
	mux.HandleFunc("/.well-known/openid-configuration", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"issuer":                 idp.server.URL,
			"authorization_endpoint": idp.server.URL + "/authorize",
			"token_endpoint":         idp.server.URL + "/token",
			"jwks_uri":               idp.server.URL + "/jwks",
			"userinfo_endpoint":      idp.server.URL + "/userinfo",
			"revocation_endpoint":    idp.server.URL + "/revoke",
		})
	})
	mux.HandleFunc("/userinfo", func(w http.ResponseWriter, _ *http.Request) {
		status := int(idp.userinfoStatus.Load())
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if status == http.StatusOK {
			fmt.Fprint(w, idp.userinfoBody.Load().(string))
		}
	})
	mux.HandleFunc("/revoke", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.NotEmpty(t, r.PostForm.Get("token"))
		idp.revoked.Add(1)
		w.WriteHeader(http.StatusOK)
	})

	idp.server = httptest.NewServer(mux)
	t.Cleanup(idp.server.Close)
	return idp
}

func newTestProvider(t *testing.T, idp *fakeIDP) *Provider {
	t.Helper()
	p, err := NewProvider(context.Background(), ProviderConfig{
		ClientID:     "daybook",
		ClientSecret: "secret",
		DiscoveryURL: idp.server.URL + "/.well-known/openid-configuration",
	})
	require.NoError(t, err)
	return p
}

func TestNewProvider_RequiresClientIDAndDiscoveryURL(t *testing.T) {
	_, err := NewProvider(context.Background(), ProviderConfig{DiscoveryURL: "https://idp.example.com"})
	require.Error(t, err)

	_, err = NewProvider(context.Background(), ProviderConfig{ClientID: "daybook"})
	require.Error(t, err)
}

func TestVerify_MapsUserinfoClaims(t *testing.T) {
	idp := newFakeIDP(t)
	p := newTestProvider(t, idp)

	identity, err := p.Verify(context.Background(), "valid-token")
	require.NoError(t, err)
	assert.Equal(t, "u-1", identity.UserID)
	assert.Equal(t, "a@b.com", identity.Email)
}

func TestVerify_ProviderRejectionIsUnauthorized(t *testing.T) {
	idp := newFakeIDP(t)
	p := newTestProvider(t, idp)

	for _, status := range []int{http.StatusUnauthorized, http.StatusForbidden} {
		idp.userinfoStatus.Store(int32(status))
		_, err := p.Verify(context.Background(), "stale-token")
		assert.True(t, apperrors.IsUnauthorized(err), "status %d", status)
	}
}

func TestVerify_ProviderFailureIsInternal(t *testing.T) {
	idp := newFakeIDP(t)
	p := newTestProvider(t, idp)

	idp.userinfoStatus.Store(http.StatusBadGateway)
	_, err := p.Verify(context.Background(), "token")
	assert.Equal(t, apperrors.KindInternal, apperrors.GetKind(err))
	assert.False(t, apperrors.IsUnauthorized(err))
}

func TestVerify_UnreachableProviderIsInternal(t *testing.T) {
	idp := newFakeIDP(t)
	p := newTestProvider(t, idp)
	idp.server.Close()

	_, err := p.Verify(context.Background(), "token")
	assert.Equal(t, apperrors.KindInternal, apperrors.GetKind(err))
}

func TestVerify_EmptyClaimsIsUnauthorized(t *testing.T) {
	idp := newFakeIDP(t)
	p := newTestProvider(t, idp)

	idp.userinfoBody.Store(`{"name":"nobody"}`)
	_, err := p.Verify(context.Background(), "token")
	assert.True(t, apperrors.IsUnauthorized(err))
}

func TestRevoke_PostsToRevocationEndpoint(t *testing.T) {
	idp := newFakeIDP(t)
	p := newTestProvider(t, idp)

	require.NoError(t, p.Revoke(context.Background(), "at-1"))
	assert.Equal(t, int32(1), idp.revoked.Load())
}

func TestRevoke_NoEndpointIsNoop(t *testing.T) {
	idp := newFakeIDP(t)
	p := newTestProvider(t, idp)
	p.revocationEndpoint = ""

	require.NoError(t, p.Revoke(context.Background(), "at-1"))
}
