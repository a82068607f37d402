package subtitle

import (
	"sort"
	"strings"
)

// the literal separator between the two timecodes of a block
const arrow = " --> "

type rawBlock struct {
	number    int
	firstLine int
	lines     []string
}

// Parse decodes subtitle track text. It never fails: blocks with fewer than three lines are
// dropped silently, blocks with bad timing are dropped with a warning, and empty input yields
// no entries. Entries come back stable-sorted by start and renumbered from 1.
func Parse(raw string) ParseResult {
	result := ParseResult{Entries: []Entry{}}

	for _, block := range splitBlocks(raw) {
		if len(block.lines) < 3 {
			continue
		}

		entry, warn, ok := parseBlock(block)
		if !ok {
			result.Warnings = append(result.Warnings, warn)
			continue
		}
		result.Entries = append(result.Entries, entry)
	}

	sort.SliceStable(result.Entries, func(i, j int) bool {
		return result.Entries[i].Start < result.Entries[j].Start
	})
	for i := range result.Entries {
		result.Entries[i].Index = i + 1
	}

	return result
}

// ParseEntries is Parse without the warnings.
func ParseEntries(raw string) []Entry {
	return Parse(raw).Entries
}

func splitBlocks(raw string) []rawBlock {
	raw = strings.TrimPrefix(raw, "\ufeff")
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	raw = strings.ReplaceAll(raw, "\r", "\n")

	var (
		blocks  []rawBlock
		current *rawBlock
	)
	for i, line := range strings.Split(raw, "\n") {
		if strings.TrimSpace(line) == "" {
			if current != nil {
				blocks = append(blocks, *current)
				current = nil
			}
			continue
		}
		if current == nil {
			current = &rawBlock{number: len(blocks) + 1, firstLine: i + 1}
		}
		current.lines = append(current.lines, line)
	}
	if current != nil {
		blocks = append(blocks, *current)
	}

	return blocks
}

func parseBlock(block rawBlock) (Entry, Warning, bool) {
	warn := Warning{Block: block.number, Line: block.firstLine}

	startToken, endToken, found := strings.Cut(block.lines[1], arrow)
	if !found {
		warn.Reason = "timing line has no \"-->\" separator"
		return Entry{}, warn, false
	}
	if strings.Contains(endToken, arrow) {
		warn.Reason = "timing line has more than one \"-->\" separator"
		return Entry{}, warn, false
	}
	// WebVTT cue settings may follow the end timecode
	if fields := strings.Fields(endToken); len(fields) > 0 {
		endToken = fields[0]
	}

	start, err := ParseTimecode(startToken)
	if err != nil {
		warn.Reason = "invalid start timecode"
		warn.Err = err
		return Entry{}, warn, false
	}
	end, err := ParseTimecode(endToken)
	if err != nil {
		warn.Reason = "invalid end timecode"
		warn.Err = err
		return Entry{}, warn, false
	}
	if end < start {
		warn.Reason = "end precedes start"
		return Entry{}, warn, false
	}

	return Entry{
		Start: start,
		End:   end,
		Text:  strings.Join(block.lines[2:], "\n"),
	}, warn, true
}
