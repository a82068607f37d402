package config

import (
	"fmt"
	"strings"
	"time"
)

// Normalize expands paths, lowercases enumerations and clamps the poll interval.
func (c *Config) Normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizePlayback()
	c.normalizeTiming()
	c.normalizeTranslate()
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.LibraryDB) == "" {
		c.Paths.LibraryDB = defaultLibraryDB
	}
	if c.Paths.LyricsDir, err = expandPath(c.Paths.LyricsDir); err != nil {
		return fmt.Errorf("paths.lyrics_dir: %w", err)
	}
	if c.Paths.LibraryDB, err = expandPath(c.Paths.LibraryDB); err != nil {
		return fmt.Errorf("paths.library_db: %w", err)
	}
	if c.FFmpeg.FFmpegPath, err = expandPath(c.FFmpeg.FFmpegPath); err != nil {
		return fmt.Errorf("ffmpeg.ffmpeg_path: %w", err)
	}
	if c.FFmpeg.FFprobePath, err = expandPath(c.FFmpeg.FFprobePath); err != nil {
		return fmt.Errorf("ffmpeg.ffprobe_path: %w", err)
	}
	return nil
}

func (c *Config) normalizePlayback() {
	switch {
	case c.Playback.PollIntervalMS <= 0:
		c.Playback.PollIntervalMS = DefaultPollIntervalMS
	case c.Playback.PollIntervalMS < MinPollIntervalMS:
		c.Playback.PollIntervalMS = MinPollIntervalMS
	case c.Playback.PollIntervalMS > MaxPollIntervalMS:
		c.Playback.PollIntervalMS = MaxPollIntervalMS
	}
	c.Playback.AudioSink = strings.ToLower(strings.TrimSpace(c.Playback.AudioSink))
	if c.Playback.AudioSink == "" {
		c.Playback.AudioSink = "auto"
	}
	if c.Playback.LatencyMS < 0 {
		c.Playback.LatencyMS = 0
	}
}

func (c *Config) normalizeTiming() {
	if c.Timing.StartKey == "" {
		c.Timing.StartKey = " "
	}
	if c.Timing.EndKey == "" {
		c.Timing.EndKey = c.Timing.StartKey
	}
	c.Timing.Format = strings.ToLower(strings.TrimSpace(c.Timing.Format))
	if c.Timing.Format == "" {
		c.Timing.Format = "srt"
	}
}

func (c *Config) normalizeTranslate() {
	c.Translate.Provider = strings.ToLower(strings.TrimSpace(c.Translate.Provider))
	if c.Translate.Provider == "" {
		c.Translate.Provider = "gemini"
	}
	if c.Translate.BatchSize <= 0 {
		c.Translate.BatchSize = 50
	}
	if c.Translate.Concurrency <= 0 {
		c.Translate.Concurrency = 4
	}
}

// PollInterval is the display polling cadence.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.Playback.PollIntervalMS) * time.Millisecond
}

// DisplayOffset is the shift applied to every display clock sample.
func (c *Config) DisplayOffset() time.Duration {
	return time.Duration(c.Playback.OffsetMS) * time.Millisecond
}

// Latency is the audio output delay subtracted from the player position.
func (c *Config) Latency() time.Duration {
	return time.Duration(c.Playback.LatencyMS) * time.Millisecond
}
