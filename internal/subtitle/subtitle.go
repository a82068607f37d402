package subtitle

import (
	"errors"
	"fmt"
)

// represents single subtitle entry, times in seconds
type Entry struct {
	Index int
	Start float64
	End   float64
	Text  string
}

// Duration is the length of the entry interval in seconds.
func (e Entry) Duration() float64 {
	return e.End - e.Start
}

// Contains reports whether t falls in the closed interval [Start, End].
func (e Entry) Contains(t float64) bool {
	return e.Start <= t && t <= e.End
}

// represents supported subtitle formats
type Format string

const (
	FormatSRT Format = "srt"
	FormatVTT Format = "vtt"
)

var (
	// ErrMalformedTimecode reports a token that is not HH:MM:SS,mmm.
	ErrMalformedTimecode = errors.New("malformed timecode")
	// ErrLengthMismatch reports lines/starts/ends of different lengths.
	ErrLengthMismatch = errors.New("lines, starts and ends must have equal length")
)

// TimecodeError carries the offending token.
type TimecodeError struct {
	Value  string
	Reason string
}

func (e *TimecodeError) Error() string {
	return fmt.Sprintf("malformed timecode %q: %s", e.Value, e.Reason)
}

func (e *TimecodeError) Unwrap() error {
	return ErrMalformedTimecode
}

// Warning describes a block the parser skipped.
type Warning struct {
	Block  int // 1-based block position in the raw text
	Line   int // 1-based physical line of the block's first line
	Reason string
	Err    error
}

func (w Warning) String() string {
	if w.Err != nil {
		return fmt.Sprintf("block %d (line %d): %s: %v", w.Block, w.Line, w.Reason, w.Err)
	}
	return fmt.Sprintf("block %d (line %d): %s", w.Block, w.Line, w.Reason)
}

// ParseResult holds the entries recovered from a track and why any blocks were dropped.
type ParseResult struct {
	Entries  []Entry
	Warnings []Warning
}
