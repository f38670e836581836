package httpx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, raw string) []OriginPattern {
	t.Helper()
	patterns, err := ParseAllowList(raw)
	require.NoError(t, err)
	return patterns
}

func TestAuthorize_WildcardSubdomainAndApex(t *testing.T) {
	patterns := mustParse(t, "*.example.com")

	assert.Equal(t, "https://api.example.com", Authorize("https://api.example.com", patterns))
	assert.Equal(t, "https://deep.nested.example.com", Authorize("https://deep.nested.example.com", patterns))
	assert.Equal(t, "https://example.com", Authorize("https://example.com", patterns))
	assert.Empty(t, Authorize("https://evilexample.com", patterns))
	assert.Empty(t, Authorize("http://example.org", patterns))
}

func TestAuthorize_ExactMatchIsByteIdentical(t *testing.T) {
	patterns := mustParse(t, "https://app.daybook.io")

	assert.Equal(t, "https://app.daybook.io", Authorize("https://app.daybook.io", patterns))
	assert.Empty(t, Authorize("https://App.daybook.io", patterns))
	assert.Empty(t, Authorize("https://app.daybook.io/", patterns))
	assert.Empty(t, Authorize("http://app.daybook.io", patterns))
}

func TestAuthorize_AbsentOriginIsDenied(t *testing.T) {
	patterns := mustParse(t, "*.example.com,https://app.daybook.io")
	assert.Empty(t, Authorize("", patterns))
}

func TestAuthorize_NeverReturnsWildcard(t *testing.T) {
	patterns := mustParse(t, "*.example.com,https://app.daybook.io")
	for _, origin := range []string{"https://a.example.com", "https://app.daybook.io", "https://other.io", ""} {
		assert.NotEqual(t, "*", Authorize(origin, patterns))
	}
}

func TestAuthorize_FirstMatchWins(t *testing.T) {
	patterns := mustParse(t, "https://app.example.com,*.example.com")
	assert.Equal(t, "https://app.example.com", Authorize("https://app.example.com", patterns))
}

func TestParseAllowList_EmptyFallsBackToDevOrigin(t *testing.T) {
	patterns := mustParse(t, "")
	assert.Equal(t, DefaultAllowedOrigin, Authorize(DefaultAllowedOrigin, patterns))
	assert.Empty(t, Authorize("https://anything.else", patterns))
}

func TestParseAllowList_TrimsAndSkipsEmptyEntries(t *testing.T) {
	patterns := mustParse(t, " *.example.com , https://app.daybook.io ,")
	assert.Len(t, patterns, 2)
	assert.Equal(t, "https://a.example.com", Authorize("https://a.example.com", patterns))
}

func TestParseAllowList_RejectsPublicSuffixWildcard(t *testing.T) {
	_, err := ParseAllowList("*.com")
	require.Error(t, err)

	_, err = ParseAllowList("*.co.uk")
	require.Error(t, err)

	_, err = ParseAllowList("*.")
	require.Error(t, err)
}

func TestOriginPattern_String(t *testing.T) {
	patterns := mustParse(t, "*.example.com,https://app.daybook.io")
	assert.Equal(t, "*.example.com", patterns[0].String())
	assert.Equal(t, "https://app.daybook.io", patterns[1].String())
}
