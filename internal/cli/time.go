package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"unicode/utf8"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/mgpai22/tapsync/internal/audio"
	"github.com/mgpai22/tapsync/internal/library"
	"github.com/mgpai22/tapsync/internal/lyrics"
	"github.com/mgpai22/tapsync/internal/subtitle"
	"github.com/mgpai22/tapsync/internal/timing"
)

var timeCmd = &cobra.Command{
	Use:   "time [lyrics_file]",
	Short: "Time lyric lines by tapping along to the song",
	Long: `Play a song and capture when each lyric line starts and ends.

Each non-empty line of the lyrics file becomes one subtitle. Press the timing key
when a line starts and again when it ends (with toggle_mode off, use the separate
start and end keys). Press n to throw the capture away and start over, q to quit
without saving.

With --no-audio the session runs on a wall clock, so the song can be played by
any other player started at the same moment.

Examples:
  tapsync time song.txt --audio song.mp3
  tapsync time song.txt --audio song.flac -o ~/lyrics/song.vtt
  tapsync time song.txt --no-audio --clipboard`,
	Args: cobra.ExactArgs(1),
	RunE: runTime,
}

func init() {
	rootCmd.AddCommand(timeCmd)

	timeCmd.Flags().StringP("audio", "a", "", "Song to play while timing")
	timeCmd.Flags().Bool("no-audio", false, "Time against a wall clock instead of playing the song")
	timeCmd.Flags().StringP("format", "f", "", "Output format (srt, vtt); defaults to the output extension or config")
	timeCmd.Flags().Bool("clipboard", false, "Copy the finished track to the clipboard")
	timeCmd.Flags().Bool("no-library", false, "Do not record the session in the library")
}

func runTime(cmd *cobra.Command, args []string) error {
	lyricsPath := args[0]

	audioPath, _ := cmd.Flags().GetString("audio")
	noAudio, _ := cmd.Flags().GetBool("no-audio")
	formatStr, _ := cmd.Flags().GetString("format")
	toClipboard, _ := cmd.Flags().GetBool("clipboard")
	noLibrary, _ := cmd.Flags().GetBool("no-library")
	outputPath, _ := cmd.Flags().GetString("output")

	if audioPath == "" && !noAudio {
		return fmt.Errorf("--audio is required (or use --no-audio to time against a wall clock)")
	}
	if !isInteractive(os.Stdin) {
		return fmt.Errorf("time %w", errNotInteractive)
	}

	lines, err := lyrics.LoadFile(lyricsPath)
	if err != nil {
		return err
	}
	if len(lines) == 0 {
		return fmt.Errorf("%s: %w", lyricsPath, timing.ErrNoLines)
	}

	format, outputPath, err := resolveOutput(lyricsPath, outputPath, formatStr, cfg.Timing.Format)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	track, trackDone, err := openTrack(ctx, audioPath, noAudio)
	if err != nil {
		return err
	}

	logger.Infow("Starting timing session",
		"lyrics", lyricsPath,
		"lines", len(lines),
		"audio", audioPath,
		"output", outputPath,
		"format", string(format),
	)

	keys := keyMap{
		toggle: cfg.Timing.ToggleMode,
		start:  firstRune(cfg.Timing.StartKey),
		end:    firstRune(cfg.Timing.EndKey),
	}
	printKeyHelp(keys, len(lines))

	keyCh, restore, err := rawKeys(ctx, os.Stdin)
	if err != nil {
		return err
	}

	t := newTimer(lines, track, keys, crlfWriter{w: os.Stdout}, logger)
	runErr := t.run(ctx, keyCh, trackDone)
	restore()

	if runErr != nil {
		var incomplete *timing.IncompleteSessionError
		if errors.As(runErr, &incomplete) {
			logger.Warnw("Session abandoned, nothing written",
				"timed", incomplete.Timed,
				"total", incomplete.Total,
			)
		}
		return runErr
	}

	return finishSession(ctx, t.session, format, outputPath, audioPath, toClipboard, !noLibrary)
}

// openTrack returns the clock a session runs on and a channel closed when the song ends.
func openTrack(ctx context.Context, audioPath string, noAudio bool) (audio.Transport, <-chan struct{}, error) {
	if noAudio {
		return audio.NewWallClock(), nil, nil
	}

	if _, err := os.Stat(audioPath); err != nil {
		return nil, nil, fmt.Errorf("audio file not found: %s", audioPath)
	}
	if !audio.IsMediaFile(audioPath) {
		return nil, nil, fmt.Errorf("unsupported file type: %s (expected audio or video file)", filepath.Ext(audioPath))
	}

	info, err := audio.Probe(ctx, audioPath)
	if err != nil {
		logger.Warnw("Could not probe track, playing without a known duration", "error", err)
	} else if !info.HasAudio {
		return nil, nil, fmt.Errorf("%s has no audio stream", audioPath)
	}

	sink, err := audio.ResolveSink(cfg.Playback.AudioSink)
	if err != nil {
		return nil, nil, err
	}

	player := audio.NewPlayer(audioPath, audio.PlayerOptions{
		Sink:     sink,
		Duration: info.Duration,
		Latency:  cfg.Latency(),
	})
	return player, player.Done(), nil
}

// resolveOutput picks the output format and path. An explicit format wins, then the output
// extension, then the configured default.
func resolveOutput(lyricsPath, outputPath, formatFlag, configured string) (subtitle.Format, string, error) {
	var (
		format subtitle.Format
		err    error
	)
	switch {
	case formatFlag != "":
		format, err = subtitle.ParseFormat(formatFlag)
	case outputPath != "":
		format = subtitle.GetFormatFromExtension(outputPath)
	default:
		format, err = subtitle.ParseFormat(configured)
	}
	if err != nil {
		return "", "", err
	}

	if outputPath == "" {
		base := strings.TrimSuffix(lyricsPath, filepath.Ext(lyricsPath))
		outputPath = base + subtitle.GetExtensionForFormat(format)
	}
	return format, outputPath, nil
}

func finishSession(
	ctx context.Context,
	session *timing.Session,
	format subtitle.Format,
	outputPath, audioPath string,
	toClipboard, record bool,
) error {
	entries, err := session.Entries()
	if err != nil {
		return err
	}

	warnings := session.Audit()
	for _, w := range warnings {
		logger.Warnw("Suspicious timing", "line", w.Line+1, "kind", string(w.Kind), "detail", w.Text)
	}

	writer, err := subtitle.NewWriter(format)
	if err != nil {
		return err
	}
	content := writer.Encode(entries)

	if err := subtitle.SaveFile(ctx, outputPath, content); err != nil {
		return err
	}

	absOutput, _ := filepath.Abs(outputPath)
	logger.Infow("Subtitle track written",
		"session", session.ID(),
		"output", absOutput,
		"lines", len(entries),
		"warnings", len(warnings),
	)

	if toClipboard {
		if err := clipboard.WriteAll(content); err != nil {
			logger.Warnw("Could not copy to clipboard", "error", err)
		} else {
			logger.Infow("Copied track to clipboard")
		}
	}

	if record && audioPath != "" {
		if err := recordSession(ctx, session, audioPath, absOutput, len(entries), len(warnings)); err != nil {
			logger.Warnw("Could not update library", "error", err)
		}
	}

	fmt.Printf("Subtitles written: %s\n", absOutput)
	fmt.Printf("  Lines: %d\n", len(entries))
	if len(warnings) > 0 {
		fmt.Printf("  Warnings: %d (run tapsync check %s)\n", len(warnings), outputPath)
	}
	return nil
}

func recordSession(ctx context.Context, session *timing.Session, audioPath, subtitlePath string, lines, warnings int) error {
	store, err := library.Open(cfg.Paths.LibraryDB)
	if err != nil {
		return err
	}
	defer store.Close()

	track, err := trackKey(audioPath)
	if err != nil {
		return err
	}

	return store.RecordSession(ctx, library.SessionRecord{
		ID:           session.ID(),
		Track:        track,
		SubtitlePath: subtitlePath,
		Lines:        lines,
		Warnings:     warnings,
	})
}

func printKeyHelp(keys keyMap, lines int) {
	fmt.Printf("Timing %d lines.\n", lines)
	if keys.toggle {
		fmt.Printf("  %s  start a line, press again to end it\n", keyName(keys.start))
	} else {
		fmt.Printf("  %s  start a line\n  %s  end it\n", keyName(keys.start), keyName(keys.end))
	}
	fmt.Println("  n      start over")
	fmt.Println("  q      quit without saving")
	fmt.Println()
}

func keyName(r rune) string {
	if r == ' ' {
		return "space"
	}
	return string(r)
}

func firstRune(s string) rune {
	r, _ := utf8.DecodeRuneInString(s)
	return r
}
