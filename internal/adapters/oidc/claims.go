package oidc

import (
	"fmt"
	"time"

	jmespath "github.com/jmespath-community/go-jmespath"

	domainauth "github.com/daybook-app/daybook-api/internal/domain/auth"
)

// claimMapper maps provider userinfo claims onto the application identity via
// configurable JMESPath expressions, compiled once at startup. Providers
// disagree on claim names; the expressions absorb that variation so the rest
// of the system only sees domainauth.Identity.
type claimMapper struct {
	userID    jmespath.JMESPath
	email     jmespath.JMESPath
	createdAt jmespath.JMESPath
}

func newClaimMapper(cfg ProviderConfig) (*claimMapper, error) {
	m := &claimMapper{}
	for _, c := range []struct {
		name string
		expr string
		dst  *jmespath.JMESPath
	}{
		{"user id", defaultExpr(cfg.UserIDClaim, "sub"), &m.userID},
		{"email", defaultExpr(cfg.EmailClaim, "email"), &m.email},
		{"created at", defaultExpr(cfg.CreatedAtClaim, "created_at"), &m.createdAt},
	} {
		compiled, err := jmespath.Compile(c.expr)
		if err != nil {
			return nil, fmt.Errorf("compile %s claim path %q: %w", c.name, c.expr, err)
		}
		*c.dst = compiled
	}
	return m, nil
}

func defaultExpr(expr, fallback string) string {
	if expr == "" {
		return fallback
	}
	return expr
}

// identityFromJSON evaluates the claim paths against a raw claims document.
func (m *claimMapper) identityFromJSON(body []byte) (domainauth.Identity, error) {
	data, err := decodeClaims(body)
	if err != nil {
		return domainauth.Identity{}, err
	}

	identity := domainauth.Identity{
		UserID: searchString(m.userID, data),
		Email:  searchString(m.email, data),
	}
	if raw := searchString(m.createdAt, data); raw != "" {
		if t, parseErr := time.Parse(time.RFC3339, raw); parseErr == nil {
			identity.CreatedAt = t
		}
	}
	return identity, nil
}

func searchString(jp jmespath.JMESPath, data any) string {
	v, err := jp.Search(data)
	if err != nil {
		return ""
	}
	s, _ := v.(string)
	return s
}
