package audio

import (
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"strconv"
	"sync"
	"time"

	ffmpeg "github.com/u2takey/ffmpeg-go"

	ffmpegbin "github.com/mgpai22/tapsync/internal/ffmpeg"
)

// ErrNoSink is returned when no audio output is known for the platform.
var ErrNoSink = errors.New("no audio sink available")

// Sink is an ffmpeg output device: the muxer name and its target.
type Sink struct {
	Format string
	Device string
}

// ResolveSink maps a configured sink name to an ffmpeg output device. "auto" picks the
// platform default.
func ResolveSink(name string) (Sink, error) {
	switch name {
	case "", "auto":
		return defaultSink(runtime.GOOS)
	case "pulse":
		return Sink{Format: "pulse", Device: "tapsync"}, nil
	case "alsa":
		return Sink{Format: "alsa", Device: "default"}, nil
	case "audiotoolbox":
		return Sink{Format: "audiotoolbox", Device: "-"}, nil
	case "null":
		return Sink{Format: "null", Device: "-"}, nil
	default:
		return Sink{}, fmt.Errorf("%w: unknown sink %q", ErrNoSink, name)
	}
}

func defaultSink(goos string) (Sink, error) {
	switch goos {
	case "linux", "freebsd":
		return Sink{Format: "pulse", Device: "tapsync"}, nil
	case "darwin":
		return Sink{Format: "audiotoolbox", Device: "-"}, nil
	default:
		return Sink{}, fmt.Errorf("%w on %s (use --no-audio and play the track elsewhere)", ErrNoSink, goos)
	}
}

// process is the running ffmpeg instance
type process interface {
	Wait() error
	Kill() error
}

type cmdProcess struct {
	cmd *exec.Cmd
}

func (p cmdProcess) Wait() error { return p.cmd.Wait() }

func (p cmdProcess) Kill() error {
	if p.cmd.Process == nil {
		return nil
	}
	return p.cmd.Process.Kill()
}

type PlayerOptions struct {
	Sink Sink
	// Duration of the track; zero disables clamping of the position.
	Duration time.Duration
	// Latency is subtracted from the reported position to account for sink buffering.
	Latency time.Duration
}

// Player plays a track through ffmpeg in realtime and reports the playback position. The
// position is derived from wall time since the process was started at a known offset.
type Player struct {
	path string
	opts PlayerOptions

	mu      sync.Mutex
	proc    process
	gen     int
	offset  float64
	started time.Time
	playing bool
	done    chan struct{}
	err     error

	now    func() time.Time
	launch func(offset float64) (process, error)
}

func NewPlayer(path string, opts PlayerOptions) *Player {
	p := &Player{
		path: path,
		opts: opts,
		done: make(chan struct{}),
		now:  time.Now,
	}
	p.launch = p.startFFmpeg
	return p
}

// Args returns the ffmpeg arguments used to play from offset seconds.
func (p *Player) Args(ffmpegPath string, offset float64) []string {
	return p.command(ffmpegPath, offset).Args
}

func (p *Player) command(ffmpegPath string, offset float64) *exec.Cmd {
	input := ffmpeg.KwArgs{"re": ""}
	if offset > 0 {
		input["ss"] = strconv.FormatFloat(offset, 'f', 3, 64)
	}

	return ffmpeg.Input(p.path, input).
		Output(p.opts.Sink.Device, ffmpeg.KwArgs{
			"f":        p.opts.Sink.Format,
			"vn":       "",
			"loglevel": "error",
			"nostdin":  "",
		}).
		SetFfmpegPath(ffmpegPath).
		Compile()
}

func (p *Player) startFFmpeg(offset float64) (process, error) {
	ffmpegPath, err := ffmpegbin.FFmpegPath()
	if err != nil {
		return nil, err
	}

	cmd := p.command(ffmpegPath, offset)
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start ffmpeg: %w", err)
	}
	return cmdProcess{cmd: cmd}, nil
}

// Play starts playback from the current position. Playing an already playing track is a
// no-op; playing a finished track starts it over.
func (p *Player) Play() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.playing {
		return nil
	}
	if p.finished() {
		p.offset = 0
		p.done = make(chan struct{})
		p.err = nil
	}

	proc, err := p.launch(p.offset)
	if err != nil {
		return err
	}

	p.gen++
	p.proc = proc
	p.started = p.now()
	p.playing = true

	go p.wait(proc, p.gen)
	return nil
}

// Resume is Play, named for the paused case.
func (p *Player) Resume() error {
	return p.Play()
}

// Pause stops the ffmpeg process and remembers where playback was.
func (p *Player) Pause() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.playing {
		return nil
	}

	p.offset = p.position()
	p.playing = false
	return p.kill()
}

// Toggle pauses a playing track and resumes a paused one.
func (p *Player) Toggle() error {
	if p.Playing() {
		return p.Pause()
	}
	return p.Resume()
}

// Stop halts playback and rewinds to the beginning.
func (p *Player) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.offset = 0
	wasPlaying := p.playing
	p.playing = false
	if !wasPlaying {
		return nil
	}
	return p.kill()
}

// Position implements Clock.
func (p *Player) Position() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.position()
}

// Playing implements Clock.
func (p *Player) Playing() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.playing
}

// Done is closed when the track plays through to its end.
func (p *Player) Done() <-chan struct{} {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.done
}

// Err reports why playback ended on its own, if it failed.
func (p *Player) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}

func (p *Player) position() float64 {
	if !p.playing {
		return p.offset
	}

	pos := p.offset + p.now().Sub(p.started).Seconds() - p.opts.Latency.Seconds()
	if pos < p.offset {
		pos = p.offset
	}
	if d := p.opts.Duration.Seconds(); d > 0 && pos > d {
		pos = d
	}
	return pos
}

func (p *Player) kill() error {
	if p.proc == nil {
		return nil
	}
	proc := p.proc
	p.proc = nil
	if err := proc.Kill(); err != nil {
		return fmt.Errorf("failed to stop ffmpeg: %w", err)
	}
	return nil
}

func (p *Player) finished() bool {
	select {
	case <-p.done:
		return true
	default:
		return false
	}
}

// wait reaps the process; when it exits on its own the track has ended.
func (p *Player) wait(proc process, gen int) {
	err := proc.Wait()

	p.mu.Lock()
	defer p.mu.Unlock()

	if gen != p.gen || p.proc != proc {
		// killed by Pause or Stop, or superseded by a later Play
		return
	}

	p.offset = p.position()
	if d := p.opts.Duration.Seconds(); d > 0 && err == nil {
		p.offset = d
	}
	p.playing = false
	p.proc = nil
	if err != nil {
		p.err = fmt.Errorf("ffmpeg exited: %w", err)
	}
	close(p.done)
}

var (
	_ Transport = (*Player)(nil)
	_ Transport = (*WallClock)(nil)
	_ Clock     = (*FallbackClock)(nil)
)
