package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mgpai22/tapsync/internal/subtitle"
	"github.com/mgpai22/tapsync/internal/timing"
)

var checkCmd = &cobra.Command{
	Use:   "check [subtitle_file]",
	Short: "Inspect a subtitle track for skipped blocks and timing mistakes",
	Long: `Parse a subtitle track and print its entries, the blocks the parser had to skip,
and any lines that end before they start or start before the previous line.

With --at the text shown at that moment is printed instead.

Examples:
  tapsync check song.srt
  tapsync check song.srt --at 42.5
  tapsync check song.srt --at 00:01:02,300`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().String("at", "", "Print the active text at this time (seconds or HH:MM:SS,mmm)")
}

func runCheck(cmd *cobra.Command, args []string) error {
	path := args[0]
	at, _ := cmd.Flags().GetString("at")

	result, err := subtitle.LoadFile(path)
	if err != nil {
		return err
	}

	if at != "" {
		t, err := parseMoment(at)
		if err != nil {
			return err
		}
		fmt.Println(subtitle.NewIndex(result.Entries).ActiveText(t))
		return nil
	}

	rows := make([][]string, 0, len(result.Entries))
	starts := make([]float64, len(result.Entries))
	ends := make([]float64, len(result.Entries))
	for i, e := range result.Entries {
		starts[i], ends[i] = e.Start, e.End
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			subtitle.FormatTimecode(e.Start),
			subtitle.FormatTimecode(e.End),
			strings.ReplaceAll(e.Text, "\n", " / "),
		})
	}
	fmt.Println(renderTable(
		[]string{"#", "Start", "End", "Text"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft},
	))

	orderWarnings := timing.Audit(starts, ends)

	for _, w := range result.Warnings {
		fmt.Printf("skipped %s\n", w.String())
	}
	for _, w := range orderWarnings {
		fmt.Printf("entry %d: %s\n", w.Line+1, w.Text)
	}

	fmt.Printf("%d entries, %d skipped blocks, %d timing warnings\n",
		len(result.Entries), len(result.Warnings), len(orderWarnings))
	return nil
}

// parseMoment accepts plain seconds or a subtitle timecode.
func parseMoment(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if strings.Contains(s, ":") {
		return subtitle.ParseTimecode(s)
	}
	t, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q: use seconds or HH:MM:SS,mmm", s)
	}
	if t < 0 {
		return 0, fmt.Errorf("invalid time %q: must not be negative", s)
	}
	return t, nil
}
