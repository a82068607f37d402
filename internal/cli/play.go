package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mgpai22/tapsync/internal/audio"
	"github.com/mgpai22/tapsync/internal/library"
	"github.com/mgpai22/tapsync/internal/lyrics"
	"github.com/mgpai22/tapsync/internal/playback"
	"github.com/mgpai22/tapsync/internal/subtitle"
)

var playCmd = &cobra.Command{
	Use:   "play [song]",
	Short: "Play a song with its lyrics shown in sync",
	Long: `Play a song and show each timed lyric line while it is sung.

The subtitle track is taken from --subs, then from the library, then from
<lyrics_dir>/<song>.srt, then from an .srt next to the song. When only plain
lyrics are found they are printed once before playback starts.

Keys: space pauses and resumes, q quits.

Examples:
  tapsync play song.mp3
  tapsync play song.mp3 --subs song.srt`,
	Args: cobra.ExactArgs(1),
	RunE: runPlay,
}

func init() {
	rootCmd.AddCommand(playCmd)

	playCmd.Flags().StringP("subs", "s", "", "Subtitle track to show")
	playCmd.Flags().Duration("offset", 0, "Show lines earlier (positive) or later (negative); overrides playback.offset_ms")
}

func runPlay(cmd *cobra.Command, args []string) error {
	songPath := args[0]
	subsFlag, _ := cmd.Flags().GetString("subs")

	offset := cfg.DisplayOffset()
	if cmd.Flags().Changed("offset") {
		offset, _ = cmd.Flags().GetDuration("offset")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var lib mappingLookup
	if store, err := library.Open(cfg.Paths.LibraryDB); err != nil {
		logger.Warnw("Library unavailable, using file lookups only", "error", err)
	} else {
		defer store.Close()
		lib = store
	}

	sources, err := resolveLyrics(ctx, songPath, subsFlag, lib, cfg.Paths.LyricsDir)
	if err != nil {
		return err
	}

	var entries []subtitle.Entry
	if sources.SubtitlePath != "" {
		result, err := subtitle.LoadFile(sources.SubtitlePath)
		if err != nil {
			return err
		}
		for _, w := range result.Warnings {
			logger.Warnw("Skipped subtitle block", "file", sources.SubtitlePath, "detail", w.String())
		}
		entries = result.Entries
		logger.Infow("Loaded subtitle track", "path", sources.SubtitlePath, "entries", len(entries))
	}

	if len(entries) == 0 {
		if sources.TextPath == "" {
			return fmt.Errorf("no lyrics found for %s (time them with: tapsync time <lyrics.txt> --audio %s)", songPath, songPath)
		}
		lines, err := lyrics.LoadFile(sources.TextPath)
		if err != nil {
			return err
		}
		logger.Infow("No timed track, showing plain lyrics", "path", sources.TextPath)
		fmt.Println(strings.Join(lines, "\n"))
		fmt.Println()
	}

	track, done, err := openTrack(ctx, songPath, false)
	if err != nil {
		return err
	}
	player := track.(*audio.Player)

	var out io.Writer = os.Stdout
	keys, restore, err := rawKeys(ctx, os.Stdin)
	if err != nil {
		logger.Debugw("Keyboard control disabled", "reason", err)
		keys = nil
	} else {
		defer restore()
		out = crlfWriter{w: os.Stdout}
	}

	clock := audio.NewFallbackClock(player)
	display := playback.NewDisplay(entries, clock,
		playback.WithInterval(cfg.PollInterval()),
		playback.WithOffset(offset),
		playback.WithOnChange(func(text string) { showLine(out, text) }),
	)

	if err := player.Play(); err != nil {
		return err
	}
	defer func() { _ = player.Stop() }()

	displayCtx, cancelDisplay := context.WithCancel(ctx)
	defer cancelDisplay()
	go func() { _ = display.Run(displayCtx) }()

	for {
		select {
		case <-ctx.Done():
			cancelDisplay()
			display.Clear()
			return nil
		case <-done:
			cancelDisplay()
			display.Clear()
			if err := player.Err(); err != nil {
				return err
			}
			fmt.Fprintln(out)
			return nil
		case key, ok := <-keys:
			if !ok {
				keys = nil
				continue
			}
			switch key {
			case 'q', 'Q', keyCtrlC:
				cancelDisplay()
				display.Clear()
				fmt.Fprintln(out)
				return nil
			case ' ':
				if player.Playing() {
					clock.MarkPaused(player.Position())
				}
				if err := player.Toggle(); err != nil {
					return err
				}
			}
		}
	}
}

// showLine replaces the current terminal line with text; multi-line entries are joined.
func showLine(w io.Writer, text string) {
	text = strings.ReplaceAll(text, "\n", " / ")
	fmt.Fprintf(w, "\r\033[K%s", text)
}
