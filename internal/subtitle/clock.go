package subtitle

import (
	"math"
	"sort"
)

// Active returns the earliest-starting entry whose closed interval contains t.
// Entries must already be in ascending start order, as Parse returns them.
func Active(entries []Entry, t float64) (Entry, bool) {
	if math.IsNaN(t) {
		return Entry{}, false
	}
	for _, e := range entries {
		if e.Contains(t) {
			return e, true
		}
	}
	return Entry{}, false
}

// ActiveText is Active reduced to the display text; "" means nothing is active.
func ActiveText(entries []Entry, t float64) string {
	e, ok := Active(entries, t)
	if !ok {
		return ""
	}
	return e.Text
}

// Index answers the same queries as Active in O(log n) for long tracks.
type Index struct {
	entries []Entry
	maxEnd  []float64 // maxEnd[i] = max(entries[0..i].End)
}

// NewIndex copies and stable-sorts entries by start.
func NewIndex(entries []Entry) *Index {
	sorted := make([]Entry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Start < sorted[j].Start
	})

	maxEnd := make([]float64, len(sorted))
	running := math.Inf(-1)
	for i, e := range sorted {
		if e.End > running {
			running = e.End
		}
		maxEnd[i] = running
	}

	return &Index{entries: sorted, maxEnd: maxEnd}
}

func (ix *Index) Len() int {
	return len(ix.entries)
}

func (ix *Index) Entries() []Entry {
	return ix.entries
}

func (ix *Index) Active(t float64) (Entry, bool) {
	if math.IsNaN(t) || len(ix.entries) == 0 {
		return Entry{}, false
	}

	// only entries starting at or before t can contain it
	limit := sort.Search(len(ix.entries), func(i int) bool {
		return ix.entries[i].Start > t
	})
	// maxEnd is non-decreasing, so the first prefix reaching t ends at an entry that does
	first := sort.Search(limit, func(i int) bool {
		return ix.maxEnd[i] >= t
	})
	if first >= limit {
		return Entry{}, false
	}
	return ix.entries[first], true
}

func (ix *Index) ActiveText(t float64) string {
	e, ok := ix.Active(t)
	if !ok {
		return ""
	}
	return e.Text
}
