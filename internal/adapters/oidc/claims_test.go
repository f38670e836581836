package oidc

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClaimMapper_Defaults(t *testing.T) {
	m, err := newClaimMapper(ProviderConfig{})
	require.NoError(t, err)

	identity, err := m.identityFromJSON([]byte(`{
		"sub": "u-1",
		"email": "a@b.com",
		"created_at": "2024-01-15T10:00:00Z"
	}`))
	require.NoError(t, err)

	assert.Equal(t, "u-1", identity.UserID)
	assert.Equal(t, "a@b.com", identity.Email)
	assert.Equal(t, time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC), identity.CreatedAt)
}

func TestClaimMapper_CustomPaths(t *testing.T) {
	m, err := newClaimMapper(ProviderConfig{
		UserIDClaim: "user.id",
		EmailClaim:  "user.contact.email",
	})
	require.NoError(t, err)

	identity, err := m.identityFromJSON([]byte(`{
		"user": {"id": "u-2", "contact": {"email": "c@d.com"}}
	}`))
	require.NoError(t, err)

	assert.Equal(t, "u-2", identity.UserID)
	assert.Equal(t, "c@d.com", identity.Email)
}

func TestClaimMapper_MissingClaimsYieldZeroIdentity(t *testing.T) {
	m, err := newClaimMapper(ProviderConfig{})
	require.NoError(t, err)

	identity, err := m.identityFromJSON([]byte(`{"name": "nobody"}`))
	require.NoError(t, err)
	assert.True(t, identity.IsZero())
}

func TestClaimMapper_UnparseableCreatedAtIsIgnored(t *testing.T) {
	m, err := newClaimMapper(ProviderConfig{})
	require.NoError(t, err)

	identity, err := m.identityFromJSON([]byte(`{"sub": "u-1", "created_at": "yesterday"}`))
	require.NoError(t, err)
	assert.Equal(t, "u-1", identity.UserID)
	assert.True(t, identity.CreatedAt.IsZero())
}

func TestClaimMapper_InvalidExpression(t *testing.T) {
	_, err := newClaimMapper(ProviderConfig{UserIDClaim: "user.["})
	require.Error(t, err)
}

func TestClaimMapper_MalformedDocument(t *testing.T) {
	m, err := newClaimMapper(ProviderConfig{})
	require.NoError(t, err)

	_, err = m.identityFromJSON([]byte(`{not json`))
	require.Error(t, err)
}
