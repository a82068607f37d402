// Package timing captures per-line subtitle intervals from press/release events while audio
// plays. A Session is a small state machine:
//
//	Idle --Begin--> Ready --MarkStart--> Armed --MarkEnd--> Ready | Done
//
// Reset returns to Idle from anywhere. Events that do not apply to the current state are
// ignored, so duplicate presses can never misalign the start and end slices.
package timing

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/mgpai22/tapsync/internal/subtitle"
)

// State of a timing session.
type State int

const (
	StateIdle State = iota
	StateReady
	StateArmed
	StateDone
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateReady:
		return "ready"
	case StateArmed:
		return "armed"
	case StateDone:
		return "done"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

var (
	// ErrIncompleteSession is returned when exporting before every line is timed.
	ErrIncompleteSession = errors.New("timing session incomplete")
	// ErrNoLines is returned by Begin when there is nothing to time.
	ErrNoLines = errors.New("no lines to time")
	// ErrNotIdle is returned by Begin on a session that was already started.
	ErrNotIdle = errors.New("timing session already started")
)

// IncompleteSessionError reports how far a session got.
type IncompleteSessionError struct {
	State State
	Timed int
	Total int
}

func (e *IncompleteSessionError) Error() string {
	return fmt.Sprintf(
		"timing session incomplete: %d of %d lines timed (state %s)",
		e.Timed,
		e.Total,
		e.State,
	)
}

func (e *IncompleteSessionError) Unwrap() error {
	return ErrIncompleteSession
}

// Clock is the audio position source, in seconds. Callers feeding a backend that reports
// 0 right after pause/resume should wrap it with audio.FallbackClock first.
type Clock interface {
	Position() float64
}

// Session records start/end marks for a fixed list of lines.
type Session struct {
	id     uuid.UUID
	lines  []string
	clock  Clock
	state  State
	origin float64
	cursor int
	starts []float64
	ends   []float64
}

// NewSession copies lines; the session starts Idle.
func NewSession(lines []string, clock Clock) *Session {
	owned := make([]string, len(lines))
	copy(owned, lines)
	return &Session{
		lines: owned,
		clock: clock,
	}
}

// Begin captures the clock origin and moves Idle -> Ready.
func (s *Session) Begin() error {
	if s.state != StateIdle {
		return ErrNotIdle
	}
	if len(s.lines) == 0 {
		return ErrNoLines
	}

	s.id = uuid.New()
	s.origin = s.clock.Position()
	s.cursor = 0
	s.starts = make([]float64, 0, len(s.lines))
	s.ends = make([]float64, 0, len(s.lines))
	s.state = StateReady
	return nil
}

// MarkStart opens the line under the cursor. It reports whether the event was accepted;
// it is ignored unless the session is Ready.
func (s *Session) MarkStart() bool {
	if s.state != StateReady || s.cursor >= len(s.lines) {
		return false
	}
	s.starts = append(s.starts, s.elapsed())
	s.state = StateArmed
	return true
}

// MarkEnd closes the open line and advances the cursor. Ignored unless Armed.
func (s *Session) MarkEnd() bool {
	if s.state != StateArmed {
		return false
	}
	s.ends = append(s.ends, s.elapsed())
	s.cursor++
	if s.cursor == len(s.lines) {
		s.state = StateDone
	} else {
		s.state = StateReady
	}
	return true
}

// Tap alternates MarkStart and MarkEnd for single-key input.
func (s *Session) Tap() bool {
	if s.state == StateArmed {
		return s.MarkEnd()
	}
	return s.MarkStart()
}

// Reset discards everything captured and returns to Idle.
func (s *Session) Reset() {
	s.id = uuid.Nil
	s.state = StateIdle
	s.origin = 0
	s.cursor = 0
	s.starts = nil
	s.ends = nil
}

func (s *Session) elapsed() float64 {
	return s.clock.Position() - s.origin
}

// Export returns copies of the captured timestamps. It fails with ErrIncompleteSession
// unless every line has both marks.
func (s *Session) Export() (starts, ends []float64, err error) {
	if s.state != StateDone {
		return nil, nil, &IncompleteSessionError{
			State: s.state,
			Timed: len(s.ends),
			Total: len(s.lines),
		}
	}

	starts = make([]float64, len(s.starts))
	copy(starts, s.starts)
	ends = make([]float64, len(s.ends))
	copy(ends, s.ends)
	return starts, ends, nil
}

// Entries exports the session as subtitle entries.
func (s *Session) Entries() ([]subtitle.Entry, error) {
	starts, ends, err := s.Export()
	if err != nil {
		return nil, err
	}
	return subtitle.Zip(s.lines, starts, ends)
}

// Render exports the session as SRT text.
func (s *Session) Render() (string, error) {
	starts, ends, err := s.Export()
	if err != nil {
		return "", err
	}
	return subtitle.Write(s.lines, starts, ends)
}

func (s *Session) ID() string {
	if s.id == uuid.Nil {
		return ""
	}
	return s.id.String()
}

func (s *Session) State() State {
	return s.state
}

// Cursor is the index of the next line awaiting a start mark, or of the open line while Armed.
func (s *Session) Cursor() int {
	return s.cursor
}

func (s *Session) Lines() []string {
	out := make([]string, len(s.lines))
	copy(out, s.lines)
	return out
}

// Current returns the line under the cursor, if any.
func (s *Session) Current() (string, bool) {
	if s.cursor >= len(s.lines) {
		return "", false
	}
	return s.lines[s.cursor], true
}

// Progress returns timed and total line counts.
func (s *Session) Progress() (timed, total int) {
	return len(s.ends), len(s.lines)
}

// Elapsed is the current clock reading relative to the session origin.
func (s *Session) Elapsed() float64 {
	if s.state == StateIdle {
		return 0
	}
	return s.elapsed()
}
