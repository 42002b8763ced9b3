package match

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Another0Noob/tachibk/internal/catalog"
	"github.com/Another0Noob/tachibk/internal/similarity"
)

func TestMatchCrossReferenceBeatsFuzzy(t *testing.T) {
	e := NewExtractor(nil)
	m := NewMatcher(similarity.Edit{})

	// The titles are well under the fuzzy threshold, so only the shared id
	// can connect these two.
	a := e.Extract(catalog.Record{Title: "Berserk", URL: "https://anilist.co/manga/30013"})
	b := e.Extract(catalog.Record{Title: "Kenpuu Denki Berserk", URL: "https://anilist.co/manga/30013/Berserk"})

	res := m.Match(a, b)
	require.True(t, res.OK)
	assert.Equal(t, BasisCrossRef, res.Basis)

	res = m.Match(b, a)
	require.True(t, res.OK)
	assert.Equal(t, BasisCrossRef, res.Basis)
}

func TestMatchTitleViaAlternates(t *testing.T) {
	e := NewExtractor(nil)
	m := NewMatcher(similarity.Edit{})

	a := e.Extract(catalog.Record{Title: "Boku no Hero Academia", AltTitles: []string{"My Hero Academia"}})
	b := e.Extract(catalog.Record{Title: "MY HERO ACADEMIA!!"})

	res := m.Match(a, b)
	require.True(t, res.OK)
	assert.Equal(t, BasisTitle, res.Basis)

	res = m.Match(b, a)
	require.True(t, res.OK)
	assert.Equal(t, BasisTitle, res.Basis)
}

func TestMatchFuzzyThresholdIsStrict(t *testing.T) {
	e := NewExtractor(nil)
	m := NewMatcher(similarity.Edit{})

	// Two substitutions on a 20-char pair score exactly 90, which must not
	// match; one substitution scores 95, which must.
	base := strings.Repeat("a", 18)
	at90 := e.Extract(catalog.Record{Title: base + "xy"})
	peer90 := e.Extract(catalog.Record{Title: base + "zw"})
	res := m.Match(at90, peer90)
	assert.False(t, res.OK, "a ratio of exactly 90 is not above the threshold")

	at95 := e.Extract(catalog.Record{Title: base + "ax"})
	peer95 := e.Extract(catalog.Record{Title: base + "ay"})
	res = m.Match(at95, peer95)
	require.True(t, res.OK)
	assert.Equal(t, BasisFuzzy, res.Basis)
}

func TestMatchEmptyNormalizedTitles(t *testing.T) {
	e := NewExtractor(nil)
	m := NewMatcher(similarity.Edit{})

	// Distinct native-script titles both normalize to "", which must not make
	// them equal.
	a := e.Extract(catalog.Record{Title: "ワンピース"})
	b := e.Extract(catalog.Record{Title: "ベルセルク"})

	res := m.Match(a, b)
	assert.False(t, res.OK)
}

func TestMatchNothingInCommon(t *testing.T) {
	e := NewExtractor(nil)
	m := NewMatcher(similarity.Edit{})

	a := e.Extract(catalog.Record{Title: "One Piece", URL: "https://anilist.co/manga/21"})
	b := e.Extract(catalog.Record{Title: "Berserk", URL: "https://anilist.co/manga/30013"})

	res := m.Match(a, b)
	assert.False(t, res.OK)
	assert.Equal(t, BasisNone, res.Basis)
}

func TestBasisString(t *testing.T) {
	assert.Equal(t, "cross-reference", BasisCrossRef.String())
	assert.Equal(t, "title", BasisTitle.String())
	assert.Equal(t, "fuzzy", BasisFuzzy.String())
	assert.Equal(t, "none", BasisNone.String())
}
