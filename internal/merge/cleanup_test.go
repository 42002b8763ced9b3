package merge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Another0Noob/tachibk/internal/catalog"
)

func dupCollection() catalog.Collection {
	return catalog.Collection{
		Name: "library.tachibk",
		Records: []catalog.Record{
			testRecord("One Piece", "https://src/a/one-piece"),
			testRecord("Naruto", "https://src/a/naruto"),
			testRecord("One Piece", "https://src/b/one-piece"),
		},
		Aux: "prefs",
	}
}

func TestParseCleanupMode(t *testing.T) {
	for _, want := range []CleanupMode{CleanupKeepFirst, CleanupKeepLast} {
		got, err := ParseCleanupMode(string(want))
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := ParseCleanupMode("keep_both")
	assert.ErrorContains(t, err, "unknown cleanup mode")
}

func TestCleanupKeepFirst(t *testing.T) {
	res := Cleanup(dupCollection(), CleanupKeepFirst)

	require.Len(t, res.Records, 2)
	assert.Equal(t, "https://src/a/one-piece", res.Records[0].URL)
	assert.Equal(t, "Naruto", res.Records[1].Title)

	require.Len(t, res.Decisions, 3)
	assert.Equal(t, KindAdded, res.Decisions[0].Kind)
	assert.Equal(t, KindAdded, res.Decisions[1].Kind)

	skipped := res.Decisions[2]
	assert.Equal(t, KindSkippedDuplicate, skipped.Kind)
	assert.Equal(t, "https://src/b/one-piece", skipped.Record.URL)
	require.NotNil(t, skipped.Other)
	assert.Equal(t, "https://src/a/one-piece", skipped.Other.URL)

	assert.Equal(t, 3, res.TotalIn)
	assert.Equal(t, []string{"library.tachibk"}, res.Processed)
	assert.Equal(t, "prefs", res.Aux)
}

func TestCleanupKeepLast(t *testing.T) {
	res := Cleanup(dupCollection(), CleanupKeepLast)

	// The survivor is the later occurrence but it inherits the first
	// occurrence's output position.
	require.Len(t, res.Records, 2)
	assert.Equal(t, "https://src/b/one-piece", res.Records[0].URL)
	assert.Equal(t, "Naruto", res.Records[1].Title)

	skipped := res.Decisions[2]
	assert.Equal(t, KindSkippedDuplicate, skipped.Kind)
	assert.Equal(t, "https://src/a/one-piece", skipped.Record.URL)
	require.NotNil(t, skipped.Other)
	assert.Equal(t, "https://src/b/one-piece", skipped.Other.URL)
}

func TestCleanupNoDuplicates(t *testing.T) {
	col := catalog.Collection{
		Name: "library.tachibk",
		Records: []catalog.Record{
			testRecord("One Piece", "https://src/a/one-piece"),
			testRecord("Naruto", "https://src/a/naruto"),
		},
	}

	res := Cleanup(col, CleanupKeepFirst)
	require.Len(t, res.Records, 2)
	assert.Equal(t, 0, res.Count(KindSkippedDuplicate))
	assert.Equal(t, 2, res.Count(KindAdded))
}
