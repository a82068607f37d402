package subtitle

import (
	"errors"
	"reflect"
	"testing"
)

func TestParseSRT(t *testing.T) {
	content := `1
00:00:01,000 --> 00:00:04,000
Hello, world!

2
00:00:05,500 --> 00:00:08,200
This is a test.
With multiple lines.

3
00:00:10,000 --> 00:00:12,500
Final subtitle.
`
	result := Parse(content)
	if len(result.Warnings) != 0 {
		t.Fatalf("expected no warnings, got %v", result.Warnings)
	}

	entries := result.Entries
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}

	if entries[0].Start != 1 {
		t.Errorf("entry 0: expected start 1s, got %v", entries[0].Start)
	}
	if entries[0].End != 4 {
		t.Errorf("entry 0: expected end 4s, got %v", entries[0].End)
	}
	if entries[0].Text != "Hello, world!" {
		t.Errorf("entry 0: expected 'Hello, world!', got %q", entries[0].Text)
	}
	if entries[1].Start != 5.5 || entries[1].End != 8.2 {
		t.Errorf("entry 1: expected 5.5-8.2, got %v-%v", entries[1].Start, entries[1].End)
	}

	expectedText := "This is a test.\nWith multiple lines."
	if entries[1].Text != expectedText {
		t.Errorf("entry 1: expected %q, got %q", expectedText, entries[1].Text)
	}

	for i, e := range entries {
		if e.Index != i+1 {
			t.Errorf("entry %d: expected index %d, got %d", i, i+1, e.Index)
		}
	}
}

func TestParseEmptyInput(t *testing.T) {
	for _, raw := range []string{"", "   ", "\n\n\n", " \r\n\t\n"} {
		result := Parse(raw)
		if result.Entries == nil || len(result.Entries) != 0 {
			t.Errorf("Parse(%q): expected empty entry list, got %v", raw, result.Entries)
		}
		if len(result.Warnings) != 0 {
			t.Errorf("Parse(%q): expected no warnings, got %v", raw, result.Warnings)
		}
	}
}

func TestParseSkipsMalformedTimecode(t *testing.T) {
	content := `1
00:00:00,500 --> 00:00:02,000
Good line

2
garbage --> 00:00:01,000
Bad line
`
	result := Parse(content)
	if len(result.Entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(result.Entries))
	}
	if result.Entries[0].Text != "Good line" {
		t.Errorf("expected the well-formed block, got %q", result.Entries[0].Text)
	}
	if len(result.Warnings) != 1 {
		t.Fatalf("expected 1 warning, got %d", len(result.Warnings))
	}
	w := result.Warnings[0]
	if w.Block != 2 || w.Line != 5 {
		t.Errorf("expected warning for block 2 at line 5, got block %d line %d", w.Block, w.Line)
	}
	if !errors.Is(w.Err, ErrMalformedTimecode) {
		t.Errorf("expected ErrMalformedTimecode, got %v", w.Err)
	}
}

func TestParseSkipsShortBlocksSilently(t *testing.T) {
	content := `1
00:00:01,000 --> 00:00:02,000

2
00:00:03,000 --> 00:00:04,000
Kept
`
	result := Parse(content)
	if len(result.Entries) != 1 || result.Entries[0].Text != "Kept" {
		t.Fatalf("expected only the complete block, got %v", result.Entries)
	}
	if len(result.Warnings) != 0 {
		t.Errorf("short blocks should not produce warnings, got %v", result.Warnings)
	}
}

func TestParseRejectsInvertedInterval(t *testing.T) {
	content := `1
00:00:05,000 --> 00:00:04,000
Backwards
`
	result := Parse(content)
	if len(result.Entries) != 0 {
		t.Fatalf("expected no entries, got %v", result.Entries)
	}
	if len(result.Warnings) != 1 || result.Warnings[0].Reason != "end precedes start" {
		t.Errorf("expected an inverted interval warning, got %v", result.Warnings)
	}
}

func TestParseTimingLineVariants(t *testing.T) {
	tests := []struct {
		name   string
		timing string
		ok     bool
	}{
		{"comma", "00:00:01,000 --> 00:00:02,000", true},
		{"period", "00:00:01.000 --> 00:00:02.000", true},
		{"cue settings", "00:00:01.000 --> 00:00:02.000 align:start", true},
		{"no spaces", "00:00:01,000-->00:00:02,000", false},
		{"double arrow", "00:00:01,000 --> 00:00:02,000 --> 00:00:03,000", false},
		{"missing arrow", "00:00:01,000 00:00:02,000", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Parse("1\n" + tt.timing + "\nText\n")
			if got := len(result.Entries) == 1; got != tt.ok {
				t.Errorf("timing %q: parsed=%v, want %v (warnings %v)", tt.timing, got, tt.ok, result.Warnings)
			}
		})
	}
}

func TestParseSortsStableByStart(t *testing.T) {
	content := `1
00:00:05,000 --> 00:00:06,000
Late

2
00:00:01,000 --> 00:00:02,000
Early A

3
00:00:01,000 --> 00:00:03,000
Early B
`
	entries := ParseEntries(content)
	var texts []string
	for _, e := range entries {
		texts = append(texts, e.Text)
	}
	want := []string{"Early A", "Early B", "Late"}
	if !reflect.DeepEqual(texts, want) {
		t.Errorf("expected order %v, got %v", want, texts)
	}
}

func TestParseNormalizesLineEndingsAndBOM(t *testing.T) {
	content := "\ufeff1\r\n00:00:01,000 --> 00:00:02,000\r\nFirst\r\nSecond\r\n\r\n"
	entries := ParseEntries(content)
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].Text != "First\nSecond" {
		t.Errorf("expected CRLF text joined with LF, got %q", entries[0].Text)
	}
}

func TestParseReadsWebVTT(t *testing.T) {
	content := `WEBVTT

1
00:00:01.000 --> 00:00:04.000
Hello, world!

2
00:00:05.500 --> 00:00:08.200
This is a test.
`
	entries := ParseEntries(content)
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[1].Start != 5.5 {
		t.Errorf("expected start 5.5, got %v", entries[1].Start)
	}
}

func TestParseIsIdempotent(t *testing.T) {
	content := `2
00:00:03,000 --> 00:00:04,000
B

1
00:00:01,000 --> 00:00:02,000
A

x
bad --> timing
C
`
	first := Parse(content)
	second := Parse(content)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("parsing twice differs:\n%v\n%v", first, second)
	}
}
