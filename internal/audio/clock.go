// Package audio provides the playback-position sources that timing sessions and the karaoke
// display read from.
package audio

import (
	"sync"
	"time"
)

// Clock reports the current playback position in seconds.
type Clock interface {
	Position() float64
	Playing() bool
}

// Transport is a clock the caller can start and stop.
type Transport interface {
	Clock
	Play() error
	Pause() error
	Stop() error
}

// WallClock measures elapsed wall time. It stands in for a track when no audio is played.
type WallClock struct {
	mu      sync.Mutex
	now     func() time.Time
	started time.Time
	offset  float64
	running bool
}

func NewWallClock() *WallClock {
	return &WallClock{now: time.Now}
}

// Play runs the clock from its current position. Playing a running clock is a no-op.
func (c *WallClock) Play() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.running {
		c.started = c.now()
		c.running = true
	}
	return nil
}

// Pause freezes the clock at its current position.
func (c *WallClock) Pause() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.running {
		c.offset += c.now().Sub(c.started).Seconds()
		c.running = false
	}
	return nil
}

// Stop halts the clock and rewinds it to zero.
func (c *WallClock) Stop() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.offset = 0
	c.running = false
	return nil
}

func (c *WallClock) Position() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.running {
		return c.offset
	}
	return c.offset + c.now().Sub(c.started).Seconds()
}

func (c *WallClock) Playing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

// FallbackClock corrects a backend that reports 0 right after a pause or resume. Whenever
// the wrapped clock reads 0 while a paused position is known, that position is returned
// instead.
type FallbackClock struct {
	mu     sync.Mutex
	clock  Clock
	paused float64
	known  bool
}

func NewFallbackClock(clock Clock) *FallbackClock {
	return &FallbackClock{clock: clock}
}

func (c *FallbackClock) Position() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	pos := c.clock.Position()
	playing := c.clock.Playing()

	if pos == 0 && c.known {
		return c.paused
	}
	if !playing && pos > 0 {
		c.paused = pos
		c.known = true
	} else if playing && pos > c.paused {
		// playback has moved past the pause point, the backend is reporting again
		c.known = false
	}
	return pos
}

func (c *FallbackClock) Playing() bool {
	return c.clock.Playing()
}

// MarkPaused records pos as the last paused position.
func (c *FallbackClock) MarkPaused(pos float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.paused = pos
	c.known = true
}

// Reset forgets the paused position, for example after the track was stopped.
func (c *FallbackClock) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.paused = 0
	c.known = false
}
