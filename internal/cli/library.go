package cli

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mgpai22/tapsync/internal/library"
)

var libraryCmd = &cobra.Command{
	Use:   "library",
	Short: "Manage which lyrics belong to which song",
	Long: `The library remembers, per song, where its plain lyrics and its timed track
live. The time command updates it after every saved session and play reads it
to find the track for a song.`,
}

var librarySetCmd = &cobra.Command{
	Use:   "set [song]",
	Short: "Link a song to its lyrics and subtitle track",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		textPath, _ := cmd.Flags().GetString("text")
		subsPath, _ := cmd.Flags().GetString("subs")
		if textPath == "" && subsPath == "" {
			return fmt.Errorf("nothing to set: pass --text and/or --subs")
		}

		track, err := trackKey(args[0])
		if err != nil {
			return err
		}
		m := library.Mapping{Track: track}
		if m.TextPath, err = existingAbs(textPath); err != nil {
			return err
		}
		if m.SubtitlePath, err = existingAbs(subsPath); err != nil {
			return err
		}

		store, err := library.Open(cfg.Paths.LibraryDB)
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.SetMapping(cmd.Context(), m); err != nil {
			return err
		}
		logger.Infow("Library updated", "track", track, "text", m.TextPath, "subs", m.SubtitlePath)
		return nil
	},
}

var libraryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List linked songs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := library.Open(cfg.Paths.LibraryDB)
		if err != nil {
			return err
		}
		defer store.Close()

		mappings, err := store.Mappings(cmd.Context())
		if err != nil {
			return err
		}
		if len(mappings) == 0 {
			fmt.Println("Library is empty.")
			return nil
		}

		rows := make([][]string, 0, len(mappings))
		for _, m := range mappings {
			rows = append(rows, []string{
				filepath.Base(m.Track),
				orDash(m.TextPath),
				orDash(m.SubtitlePath),
				m.UpdatedAt.Local().Format("2006-01-02 15:04"),
			})
		}
		fmt.Println(renderTable(
			[]string{"Song", "Lyrics", "Track", "Updated"},
			rows,
			[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft},
		))
		return nil
	},
}

var libraryHistoryCmd = &cobra.Command{
	Use:   "history [song]",
	Short: "Show saved timing sessions for a song",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		track, err := trackKey(args[0])
		if err != nil {
			return err
		}

		store, err := library.Open(cfg.Paths.LibraryDB)
		if err != nil {
			return err
		}
		defer store.Close()

		sessions, err := store.Sessions(cmd.Context(), track, limit)
		if err != nil {
			return err
		}
		if len(sessions) == 0 {
			fmt.Printf("No sessions recorded for %s.\n", filepath.Base(track))
			return nil
		}

		rows := make([][]string, 0, len(sessions))
		for _, s := range sessions {
			rows = append(rows, []string{
				s.CreatedAt.Local().Format("2006-01-02 15:04:05"),
				strconv.Itoa(s.Lines),
				strconv.Itoa(s.Warnings),
				s.SubtitlePath,
				s.ID,
			})
		}
		fmt.Println(renderTable(
			[]string{"Saved", "Lines", "Warnings", "Track", "Session"},
			rows,
			[]columnAlignment{alignLeft, alignRight, alignRight, alignLeft, alignLeft},
		))
		return nil
	},
}

var libraryRemoveCmd = &cobra.Command{
	Use:   "remove [song]",
	Short: "Forget a song's links",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		track, err := trackKey(args[0])
		if err != nil {
			return err
		}

		store, err := library.Open(cfg.Paths.LibraryDB)
		if err != nil {
			return err
		}
		defer store.Close()

		removed, err := store.RemoveMapping(cmd.Context(), track)
		if err != nil {
			return err
		}
		if !removed {
			return fmt.Errorf("%s: %w", track, library.ErrNotFound)
		}
		logger.Infow("Removed from library", "track", track)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(libraryCmd)
	libraryCmd.AddCommand(librarySetCmd, libraryListCmd, libraryHistoryCmd, libraryRemoveCmd)

	librarySetCmd.Flags().String("text", "", "Plain lyrics file")
	librarySetCmd.Flags().String("subs", "", "Timed subtitle track")
	libraryHistoryCmd.Flags().Int("limit", 10, "Maximum number of sessions to show")
}

func existingAbs(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	if !fileExists(path) {
		return "", fmt.Errorf("file not found: %s", path)
	}
	return filepath.Abs(path)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
