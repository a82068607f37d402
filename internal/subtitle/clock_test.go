package subtitle

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touchingEntries() []Entry {
	return []Entry{
		{Index: 1, Start: 0, End: 2, Text: "A"},
		{Index: 2, Start: 2, End: 4, Text: "B"},
		{Index: 3, Start: 5, End: 7, Text: "C"},
	}
}

func TestActiveText(t *testing.T) {
	entries := touchingEntries()
	ix := NewIndex(entries)

	tests := []struct {
		at   float64
		want string
	}{
		{-1, ""},
		{0, "A"},
		{1.5, "A"},
		{2.0, "A"}, // closed intervals touch; earliest start wins
		{2.5, "B"},
		{4.0, "B"},
		{4.5, ""},
		{5, "C"},
		{7.0, "C"},
		{7.001, ""},
		{math.NaN(), ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ActiveText(entries, tt.at), "ActiveText at %v", tt.at)
		assert.Equal(t, tt.want, ix.ActiveText(tt.at), "Index.ActiveText at %v", tt.at)
	}
}

func TestActiveTextOverlapEarliestStartWins(t *testing.T) {
	entries := []Entry{
		{Start: 0, End: 10, Text: "long"},
		{Start: 1, End: 2, Text: "short"},
		{Start: 1, End: 3, Text: "later tie"},
	}
	assert.Equal(t, "long", ActiveText(entries, 1.5))
	assert.Equal(t, "long", NewIndex(entries).ActiveText(1.5))
}

func TestActiveTextEmpty(t *testing.T) {
	assert.Equal(t, "", ActiveText(nil, 1))
	assert.Equal(t, "", NewIndex(nil).ActiveText(1))
}

func TestIndexMatchesLinearScan(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for round := 0; round < 50; round++ {
		n := rng.Intn(40)
		entries := make([]Entry, n)
		for i := range entries {
			start := math.Round(rng.Float64()*600) / 10
			entries[i] = Entry{
				Start: start,
				End:   start + math.Round(rng.Float64()*80)/10,
				Text:  string(rune('a' + i%26)),
			}
		}

		ix := NewIndex(entries)
		sorted := ix.Entries()
		require.Len(t, sorted, n)

		for i := 0; i < 300; i++ {
			at := math.Round(rng.Float64()*700) / 10
			want, wantOK := Active(sorted, at)
			got, gotOK := ix.Active(at)
			require.Equal(t, wantOK, gotOK, "round %d at %v", round, at)
			require.Equal(t, want, got, "round %d at %v", round, at)
		}
	}
}

func TestIndexDoesNotAliasInput(t *testing.T) {
	entries := []Entry{
		{Start: 5, End: 6, Text: "second"},
		{Start: 1, End: 2, Text: "first"},
	}
	ix := NewIndex(entries)
	assert.Equal(t, "second", entries[0].Text)
	assert.Equal(t, "first", ix.Entries()[0].Text)
	assert.Equal(t, 2, ix.Len())
}
