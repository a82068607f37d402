package translate

import (
	"fmt"

	"github.com/mgpai22/tapsync/internal/subtitle"
)

// Items turns subtitle entries into translation items keyed by position.
func Items(entries []subtitle.Entry) []TranslationItem {
	items := make([]TranslationItem, len(entries))
	for i, e := range entries {
		items[i] = TranslationItem{Index: i, Text: e.Text}
	}
	return items
}

// Apply returns a copy of entries with translated text. With overlay the translation is
// shown above the original line. Results with an index outside entries, or with empty
// text, are skipped and reported.
func Apply(entries []subtitle.Entry, results []TranslationResult, overlay bool) ([]subtitle.Entry, []string) {
	out := make([]subtitle.Entry, len(entries))
	copy(out, entries)

	var skipped []string
	for _, r := range results {
		if r.Index < 0 || r.Index >= len(out) {
			skipped = append(skipped, fmt.Sprintf("result index %d is out of range (0-%d)", r.Index, len(out)-1))
			continue
		}
		if r.Text == "" {
			skipped = append(skipped, fmt.Sprintf("entry %d: empty translation, original kept", r.Index+1))
			continue
		}
		if overlay {
			out[r.Index].Text = r.Text + "\n" + entries[r.Index].Text
		} else {
			out[r.Index].Text = r.Text
		}
	}
	return out, skipped
}
