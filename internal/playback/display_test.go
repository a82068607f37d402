package playback

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mgpai22/tapsync/internal/subtitle"
)

type fakeClock struct {
	mu      sync.Mutex
	pos     float64
	playing bool
}

func (c *fakeClock) Position() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pos
}

func (c *fakeClock) Playing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.playing
}

func (c *fakeClock) set(pos float64, playing bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pos = pos
	c.playing = playing
}

var track = []subtitle.Entry{
	{Index: 1, Start: 1.0, End: 2.0, Text: "A"},
	{Index: 2, Start: 3.0, End: 4.0, Text: "B"},
}

func TestDisplayReportsOnlyChanges(t *testing.T) {
	clock := &fakeClock{playing: true}
	var shown []string
	d := NewDisplay(track, clock, WithOnChange(func(text string) {
		shown = append(shown, text)
	}))

	samples := []float64{0.5, 1.0, 1.5, 2.0, 2.5, 3.2, 3.9, 4.1, 4.2}
	for _, pos := range samples {
		clock.set(pos, true)
		d.Tick()
	}

	// "" at 0.5 equals the initial state, so nothing is reported there
	assert.Equal(t, []string{"A", "", "B", ""}, shown)
}

func TestDisplayHoldsWhilePaused(t *testing.T) {
	clock := &fakeClock{pos: 1.5, playing: true}
	d := NewDisplay(track, clock)

	text, changed := d.Tick()
	assert.Equal(t, "A", text)
	assert.True(t, changed)

	clock.set(0, false)
	text, changed = d.Tick()
	assert.Equal(t, "A", text)
	assert.False(t, changed)
}

func TestDisplayOffset(t *testing.T) {
	clock := &fakeClock{pos: 0.8, playing: true}
	d := NewDisplay(track, clock, WithOffset(250*time.Millisecond))

	text, _ := d.Tick()
	assert.Equal(t, "A", text)
	assert.Equal(t, "B", d.TextAt(2.9))
}

func TestDisplayClear(t *testing.T) {
	clock := &fakeClock{pos: 3.5, playing: true}
	var shown []string
	d := NewDisplay(track, clock, WithOnChange(func(text string) {
		shown = append(shown, text)
	}))

	d.Tick()
	d.Clear()
	d.Clear()
	assert.Equal(t, []string{"B", ""}, shown)
	assert.Empty(t, d.Current())
}

func TestDisplayRun(t *testing.T) {
	clock := &fakeClock{pos: 1.5, playing: true}
	changes := make(chan string, 4)
	d := NewDisplay(track, clock,
		WithInterval(5*time.Millisecond),
		WithOnChange(func(text string) { changes <- text }),
	)

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- d.Run(ctx) }()

	require.Equal(t, "A", waitFor(t, changes))
	clock.set(3.5, true)
	require.Equal(t, "B", waitFor(t, changes))

	cancel()
	select {
	case err := <-errc:
		assert.True(t, errors.Is(err, context.Canceled))
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func waitFor(t *testing.T, ch <-chan string) string {
	t.Helper()
	select {
	case text := <-ch:
		return text
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for display change")
		return ""
	}
}
