package config

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateTiming(); err != nil {
		return err
	}
	if err := c.validatePlayback(); err != nil {
		return err
	}
	if err := c.validateTranslate(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateTiming() error {
	if utf8.RuneCountInString(c.Timing.StartKey) != 1 {
		return fmt.Errorf("timing.start_key must be a single character, got %q", c.Timing.StartKey)
	}
	if utf8.RuneCountInString(c.Timing.EndKey) != 1 {
		return fmt.Errorf("timing.end_key must be a single character, got %q", c.Timing.EndKey)
	}
	if !c.Timing.ToggleMode && c.Timing.StartKey == c.Timing.EndKey {
		return errors.New("timing.start_key and timing.end_key must differ when toggle_mode is off")
	}
	for _, reserved := range []string{"q", "n"} {
		if c.Timing.StartKey == reserved || c.Timing.EndKey == reserved {
			return fmt.Errorf("timing keys cannot use %q, it is reserved", reserved)
		}
	}
	switch c.Timing.Format {
	case "srt", "vtt":
	default:
		return fmt.Errorf("timing.format must be srt or vtt, got %q", c.Timing.Format)
	}
	return nil
}

func (c *Config) validatePlayback() error {
	switch c.Playback.AudioSink {
	case "auto", "pulse", "alsa", "audiotoolbox", "null":
		return nil
	default:
		return fmt.Errorf("playback.audio_sink %q is not supported", c.Playback.AudioSink)
	}
}

func (c *Config) validateTranslate() error {
	switch c.Translate.Provider {
	case "gemini", "openai", "anthropic":
	default:
		return fmt.Errorf("translate.provider must be gemini, openai or anthropic, got %q", c.Translate.Provider)
	}
	if c.Translate.Concurrency > 32 {
		return fmt.Errorf("translate.concurrency must be at most 32, got %d", c.Translate.Concurrency)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("logging.level must be debug, info, warn or error, got %q", c.Logging.Level)
	}
}
