package config

const (
	DefaultPollIntervalMS = 100
	MinPollIntervalMS     = 10
	MaxPollIntervalMS     = 2000

	defaultLyricsDir = "~/Music/lyrics"
	defaultLibraryDB = "~/.local/share/tapsync/library.db"
)

// Default returns a Config populated with default values.
func Default() Config {
	return Config{
		Paths: Paths{
			LyricsDir: defaultLyricsDir,
			LibraryDB: defaultLibraryDB,
		},
		Playback: Playback{
			PollIntervalMS: DefaultPollIntervalMS,
			AudioSink:      "auto",
		},
		Timing: Timing{
			ToggleMode: true,
			StartKey:   " ",
			EndKey:     " ",
			Format:     "srt",
		},
		Translate: Translate{
			Provider:    "gemini",
			BatchSize:   50,
			Concurrency: 4,
		},
		Logging: Logging{
			Level: "info",
		},
	}
}
