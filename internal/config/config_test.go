package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/mgpai22/tapsync/internal/config"
)

func TestLoadDefaultsWhenMissing(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv(config.EnvConfigPath, "")

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}
	if want := filepath.Join(tempHome, ".config", "tapsync", "config.toml"); resolved != want {
		t.Fatalf("resolved = %q, want %q", resolved, want)
	}
	if cfg.Paths.LibraryDB != filepath.Join(tempHome, ".local", "share", "tapsync", "library.db") {
		t.Fatalf("unexpected library db: %q", cfg.Paths.LibraryDB)
	}
	if cfg.PollInterval() != 100*time.Millisecond {
		t.Fatalf("PollInterval = %v", cfg.PollInterval())
	}
	if !cfg.Timing.ToggleMode || cfg.Timing.StartKey != " " {
		t.Fatalf("unexpected timing defaults: %+v", cfg.Timing)
	}
}

func TestLoadFromEnvPath(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "custom.toml")
	writeConfig(t, path, `
[playback]
poll_interval_ms = 1
offset_ms = -250
audio_sink = "ALSA"

[timing]
toggle_mode = false
start_key = "s"
end_key = "e"
format = "VTT"
`)
	t.Setenv(config.EnvConfigPath, path)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("expected %s to be read, got %s (exists=%v)", path, resolved, exists)
	}
	if cfg.Playback.PollIntervalMS != config.MinPollIntervalMS {
		t.Errorf("poll interval not clamped: %d", cfg.Playback.PollIntervalMS)
	}
	if cfg.DisplayOffset() != -250*time.Millisecond {
		t.Errorf("DisplayOffset = %v", cfg.DisplayOffset())
	}
	if cfg.Playback.AudioSink != "alsa" || cfg.Timing.Format != "vtt" {
		t.Errorf("enumerations not normalized: %q %q", cfg.Playback.AudioSink, cfg.Timing.Format)
	}
	if cfg.Translate.Provider != "gemini" {
		t.Errorf("unset sections should keep defaults, got provider %q", cfg.Translate.Provider)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"multi-char key", "[timing]\nstart_key = \"ab\"\n", "single character"},
		{"same keys without toggle", "[timing]\ntoggle_mode = false\nstart_key = \"x\"\nend_key = \"x\"\n", "must differ"},
		{"reserved key", "[timing]\nstart_key = \"q\"\n", "reserved"},
		{"bad format", "[timing]\nformat = \"ass\"\n", "timing.format"},
		{"bad sink", "[playback]\naudio_sink = \"speaker\"\n", "audio_sink"},
		{"bad provider", "[translate]\nprovider = \"llama\"\n", "translate.provider"},
		{"bad level", "[logging]\nlevel = \"loud\"\n", "logging.level"},
		{"unknown field", "[timing]\nkey = \" \"\n", "parse config"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			writeConfig(t, path, tt.content)

			_, _, _, err := config.Load(path)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestSampleConfigLoads(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "sub", "config.toml")

	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}
	if err := config.CreateSample(path); err == nil {
		t.Fatal("expected CreateSample to refuse overwriting")
	}

	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("sample config does not load: %v", err)
	}
	if !exists {
		t.Fatal("expected sample to exist")
	}

	encoded, err := config.Encode(cfg)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	var decoded config.Config
	if err := toml.Unmarshal([]byte(encoded), &decoded); err != nil {
		t.Fatalf("encoded config is not valid TOML: %v", err)
	}
	if decoded.Paths.LibraryDB != cfg.Paths.LibraryDB {
		t.Errorf("library_db = %q, want %q", decoded.Paths.LibraryDB, cfg.Paths.LibraryDB)
	}
}

func writeConfig(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}
