package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/mgpai22/tapsync/internal/audio"
	"github.com/mgpai22/tapsync/internal/logging"
	"github.com/mgpai22/tapsync/internal/timing"
)

// keyMap decides which session event a key press triggers.
type keyMap struct {
	toggle bool
	start  rune
	end    rune
}

// timer drives one timing session from key presses while the track plays.
type timer struct {
	session  *timing.Session
	track    audio.Transport
	fallback *audio.FallbackClock
	keys     keyMap
	out      io.Writer
	logger   *logging.Logger
}

func newTimer(lines []string, track audio.Transport, keys keyMap, out io.Writer, logger *logging.Logger) *timer {
	fallback := audio.NewFallbackClock(track)
	return &timer{
		session:  timing.NewSession(lines, fallback),
		track:    track,
		fallback: fallback,
		keys:     keys,
		out:      out,
		logger:   logger,
	}
}

// start begins a session at the top of the track and starts playback.
func (t *timer) start() error {
	if err := t.session.Begin(); err != nil {
		return err
	}
	if err := t.track.Play(); err != nil {
		return fmt.Errorf("failed to start playback: %w", err)
	}
	t.logger.Debugw("Timing session started", "session", t.session.ID())
	t.printNext()
	return nil
}

// restart throws the capture away and starts over from the top of the track.
func (t *timer) restart() error {
	if err := t.track.Stop(); err != nil {
		return err
	}
	t.fallback.Reset()
	t.session.Reset()
	fmt.Fprintln(t.out, "-- starting over --")
	return t.start()
}

// run consumes keys until every line is timed, the user quits, or ctx ends. Quitting
// early returns the session's IncompleteSessionError.
func (t *timer) run(ctx context.Context, keys <-chan rune, trackDone <-chan struct{}) error {
	defer func() { _ = t.track.Stop() }()

	if err := t.start(); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-trackDone:
			trackDone = nil
			t.logger.Warnw("Track finished before every line was timed; press q to quit or n to start over")
		case key, ok := <-keys:
			if !ok {
				return t.abort()
			}
			done, err := t.handle(key)
			if err != nil {
				return err
			}
			if done {
				return nil
			}
		}
	}
}

func (t *timer) handle(key rune) (bool, error) {
	switch key {
	case 'q', 'Q', keyCtrlC:
		return true, t.abort()
	case 'n', 'N':
		return false, t.restart()
	}

	var accepted bool
	switch {
	case t.keys.toggle && key == t.keys.start:
		accepted = t.session.Tap()
	case !t.keys.toggle && key == t.keys.start:
		accepted = t.session.MarkStart()
	case !t.keys.toggle && key == t.keys.end:
		accepted = t.session.MarkEnd()
	default:
		return false, nil
	}

	if !accepted {
		t.logger.Debugw("Ignored key", "key", string(key), "state", t.session.State().String())
		return false, nil
	}

	t.printEvent()
	return t.session.State() == timing.StateDone, nil
}

func (t *timer) abort() error {
	_, _, err := t.session.Export()
	return err
}

func (t *timer) printEvent() {
	timed, total := t.session.Progress()
	switch t.session.State() {
	case timing.StateArmed:
		line, _ := t.session.Current()
		fmt.Fprintf(t.out, "[%d/%d] %8.3fs  > %s\n", t.session.Cursor()+1, total, t.session.Elapsed(), line)
	case timing.StateReady:
		fmt.Fprintf(t.out, "        %8.3fs  | end (%d/%d)\n", t.session.Elapsed(), timed, total)
		t.printNext()
	case timing.StateDone:
		fmt.Fprintf(t.out, "        %8.3fs  | end, all %d lines timed\n", t.session.Elapsed(), total)
	}
}

func (t *timer) printNext() {
	if line, ok := t.session.Current(); ok {
		fmt.Fprintf(t.out, "   next: %s\n", line)
	}
}
