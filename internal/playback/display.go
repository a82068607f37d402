// Package playback drives the karaoke display: it polls the playback clock at a fixed
// cadence and reports the active subtitle whenever it changes.
package playback

import (
	"context"
	"sync"
	"time"

	"github.com/mgpai22/tapsync/internal/audio"
	"github.com/mgpai22/tapsync/internal/subtitle"
)

const DefaultInterval = 100 * time.Millisecond

type Option func(*Display)

// WithInterval sets the polling cadence. Non-positive values keep the default.
func WithInterval(d time.Duration) Option {
	return func(disp *Display) {
		if d > 0 {
			disp.interval = d
		}
	}
}

// WithOffset shifts every clock sample; positive values show lines earlier.
func WithOffset(d time.Duration) Option {
	return func(disp *Display) {
		disp.offset = d.Seconds()
	}
}

// WithOnChange registers the callback that receives each new active text. An empty string
// means the previous line must be cleared.
func WithOnChange(fn func(text string)) Option {
	return func(disp *Display) {
		disp.onChange = fn
	}
}

// Display remembers the last text it reported so that unchanged polls stay silent.
type Display struct {
	index    *subtitle.Index
	clock    audio.Clock
	interval time.Duration
	offset   float64
	onChange func(text string)

	mu      sync.Mutex
	current string
}

func NewDisplay(entries []subtitle.Entry, clock audio.Clock, opts ...Option) *Display {
	d := &Display{
		index:    subtitle.NewIndex(entries),
		clock:    clock,
		interval: DefaultInterval,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// TextAt returns the text active at t seconds of the track, offset applied.
func (d *Display) TextAt(t float64) string {
	return d.index.ActiveText(t + d.offset)
}

// Current is the text most recently reported.
func (d *Display) Current() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.current
}

// Tick samples the clock once. It reports the active text and whether it differs from the
// previous tick. A paused clock holds the current line.
func (d *Display) Tick() (string, bool) {
	if !d.clock.Playing() {
		return d.Current(), false
	}

	text := d.TextAt(d.clock.Position())

	d.mu.Lock()
	if text == d.current {
		d.mu.Unlock()
		return text, false
	}
	d.current = text
	fn := d.onChange
	d.mu.Unlock()

	if fn != nil {
		fn(text)
	}
	return text, true
}

// Run polls until ctx is cancelled.
func (d *Display) Run(ctx context.Context) error {
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	d.Tick()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			d.Tick()
		}
	}
}

// Clear forgets the current line, reporting the change if one was shown.
func (d *Display) Clear() {
	d.mu.Lock()
	had := d.current != ""
	d.current = ""
	fn := d.onChange
	d.mu.Unlock()

	if had && fn != nil {
		fn("")
	}
}
