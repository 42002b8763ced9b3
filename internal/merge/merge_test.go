package merge

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Another0Noob/tachibk/internal/catalog"
)

func testRecord(title, url string) catalog.Record {
	return catalog.Record{Title: title, URL: url, SourceID: "2499283573021220255"}
}

func staticSource(name string, aux any, recs ...catalog.Record) Source {
	col := &catalog.Collection{Name: name, Records: recs, Aux: aux}
	return Source{Name: name, Open: func() (*catalog.Collection, error) { return col, nil }}
}

func brokenSource(name string, err error) Source {
	return Source{Name: name, Open: func() (*catalog.Collection, error) { return nil, err }}
}

func TestParseMode(t *testing.T) {
	for _, want := range []Mode{ModeReplace, ModeKeepFirst, ModeKeepBoth} {
		got, err := ParseMode(string(want))
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := ParseMode("newest")
	assert.ErrorContains(t, err, "unknown merge mode")
}

func TestMergeReplace(t *testing.T) {
	sources := []Source{
		staticSource("a.tachibk", nil,
			testRecord("One Piece", "https://src/a/one-piece"),
			testRecord("Naruto", "https://src/a/naruto"),
		),
		staticSource("b.tachibk", nil,
			testRecord("One Piece", "https://src/b/one-piece"),
			testRecord("Berserk", "https://src/b/berserk"),
		),
	}

	res, err := NewEngine(zerolog.Nop()).Merge(sources, ModeReplace)
	require.NoError(t, err)

	require.Len(t, res.Records, 3)
	assert.Equal(t, "One Piece", res.Records[0].Title)
	assert.Equal(t, "https://src/b/one-piece", res.Records[0].URL, "later input should win the bucket")
	assert.Equal(t, "Naruto", res.Records[1].Title)
	assert.Equal(t, "Berserk", res.Records[2].Title)

	require.Len(t, res.Decisions, 4)
	assert.Equal(t, KindAdded, res.Decisions[0].Kind)
	assert.Equal(t, KindAdded, res.Decisions[1].Kind)
	assert.Equal(t, KindAdded, res.Decisions[3].Kind)

	replaced := res.Decisions[2]
	assert.Equal(t, KindReplaced, replaced.Kind)
	assert.Equal(t, "https://src/b/one-piece", replaced.Record.URL)
	require.NotNil(t, replaced.Other)
	assert.Equal(t, "https://src/a/one-piece", replaced.Other.URL)
	assert.Equal(t, "One Piece", replaced.BucketKey)

	assert.Equal(t, 4, res.TotalIn)
	assert.Equal(t, []string{"a.tachibk", "b.tachibk"}, res.Processed)
	assert.Equal(t, 3, res.Count(KindAdded))
	assert.Equal(t, 1, res.Count(KindReplaced))
	assert.Equal(t, 0, res.Count(KindKeptBoth))
}

func TestMergeKeepFirst(t *testing.T) {
	sources := []Source{
		staticSource("a.tachibk", nil, testRecord("One Piece", "https://src/a/one-piece")),
		staticSource("b.tachibk", nil, testRecord("One Piece", "https://src/b/one-piece")),
	}

	res, err := NewEngine(zerolog.Nop()).Merge(sources, ModeKeepFirst)
	require.NoError(t, err)

	require.Len(t, res.Records, 1)
	assert.Equal(t, "https://src/a/one-piece", res.Records[0].URL, "first occurrence should survive")

	require.Len(t, res.Decisions, 2)
	skipped := res.Decisions[1]
	assert.Equal(t, KindSkippedDuplicate, skipped.Kind)
	assert.Equal(t, "https://src/b/one-piece", skipped.Record.URL)
	require.NotNil(t, skipped.Other)
	assert.Equal(t, "https://src/a/one-piece", skipped.Other.URL)
}

func TestMergeKeepBoth(t *testing.T) {
	sources := []Source{
		staticSource("a.tachibk", nil, testRecord("One Piece", "https://src/a/one-piece")),
		staticSource("b.tachibk", nil, testRecord("One Piece", "https://src/b/one-piece")),
		staticSource("c.tachibk", nil, testRecord("One Piece", "https://src/c/one-piece")),
	}

	res, err := NewEngine(zerolog.Nop()).Merge(sources, ModeKeepBoth)
	require.NoError(t, err)

	require.Len(t, res.Records, 3)
	assert.Equal(t, "https://src/a/one-piece", res.Records[0].URL)
	assert.Equal(t, "https://src/b/one-piece", res.Records[1].URL)
	assert.Equal(t, "https://src/c/one-piece", res.Records[2].URL)

	require.Len(t, res.Decisions, 3)
	assert.Equal(t, KindAdded, res.Decisions[0].Kind)
	assert.Equal(t, KindKeptBoth, res.Decisions[1].Kind)
	assert.Equal(t, "One Piece_duplicate_1", res.Decisions[1].BucketKey)
	assert.Equal(t, KindKeptBoth, res.Decisions[2].Kind)
	assert.Equal(t, "One Piece_duplicate_2", res.Decisions[2].BucketKey)

	for _, d := range res.Decisions[1:] {
		require.NotNil(t, d.Other)
		assert.Equal(t, "https://src/a/one-piece", d.Other.URL, "the bucket holder stays the first occurrence")
	}
}

func TestMergeKeepBothSkipsOccupiedSyntheticKeys(t *testing.T) {
	// A real title can collide with the synthetic naming scheme; the engine
	// must probe past it.
	sources := []Source{
		staticSource("a.tachibk", nil,
			testRecord("One Piece", "https://src/a/one-piece"),
			testRecord("One Piece_duplicate_1", "https://src/a/decoy"),
			testRecord("One Piece", "https://src/a/one-piece-again"),
		),
	}

	res, err := NewEngine(zerolog.Nop()).Merge(sources, ModeKeepBoth)
	require.NoError(t, err)

	require.Len(t, res.Decisions, 3)
	assert.Equal(t, "One Piece_duplicate_2", res.Decisions[2].BucketKey)
	require.Len(t, res.Records, 3)
}

func TestMergeSkipsUnreadableSource(t *testing.T) {
	sources := []Source{
		staticSource("a.tachibk", nil, testRecord("One Piece", "https://src/a/one-piece")),
		brokenSource("b.tachibk", errors.New("gzip: invalid header")),
		staticSource("c.tachibk", nil, testRecord("Berserk", "https://src/c/berserk")),
	}

	res, err := NewEngine(zerolog.Nop()).Merge(sources, ModeReplace)
	require.NoError(t, err)

	assert.Equal(t, []string{"a.tachibk", "c.tachibk"}, res.Processed)
	require.Len(t, res.Skipped, 1)
	assert.Equal(t, "b.tachibk", res.Skipped[0].Name)
	assert.ErrorContains(t, res.Skipped[0].Err, "gzip")

	require.Len(t, res.Records, 2)
	assert.Equal(t, "One Piece", res.Records[0].Title)
	assert.Equal(t, "Berserk", res.Records[1].Title)
}

func TestMergeFailsWhenNothingReadable(t *testing.T) {
	sources := []Source{
		brokenSource("a.tachibk", errors.New("no such file")),
		brokenSource("b.tachibk", errors.New("truncated")),
	}

	_, err := NewEngine(zerolog.Nop()).Merge(sources, ModeReplace)
	assert.ErrorContains(t, err, "none of the 2 input collections could be read")
}

func TestMergeAuxLastNonNilWins(t *testing.T) {
	sources := []Source{
		staticSource("a.tachibk", "settings-a", testRecord("One Piece", "https://src/a/one-piece")),
		staticSource("b.tachibk", nil, testRecord("Naruto", "https://src/b/naruto")),
	}

	res, err := NewEngine(zerolog.Nop()).Merge(sources, ModeReplace)
	require.NoError(t, err)
	assert.Equal(t, "settings-a", res.Aux, "nil aux from a later input must not clobber earlier settings")

	sources[1] = staticSource("b.tachibk", "settings-b", testRecord("Naruto", "https://src/b/naruto"))
	res, err = NewEngine(zerolog.Nop()).Merge(sources, ModeReplace)
	require.NoError(t, err)
	assert.Equal(t, "settings-b", res.Aux)
}

func TestMergeAuxCustomFunc(t *testing.T) {
	engine := NewEngine(zerolog.Nop())
	engine.MergeAux = func(acc, next any) any {
		a, _ := acc.(string)
		n, _ := next.(string)
		return a + n
	}

	sources := []Source{
		staticSource("a.tachibk", "a", testRecord("One Piece", "https://src/a/one-piece")),
		staticSource("b.tachibk", "b", testRecord("Naruto", "https://src/b/naruto")),
	}

	res, err := engine.Merge(sources, ModeReplace)
	require.NoError(t, err)
	assert.Equal(t, "ab", res.Aux)
}
