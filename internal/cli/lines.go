package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mgpai22/tapsync/internal/lyrics"
)

var linesCmd = &cobra.Command{
	Use:   "lines [lyrics_file]",
	Short: "Print the cleaned lyric lines a timing session would use",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		numbered, _ := cmd.Flags().GetBool("number")

		lines, err := lyrics.LoadFile(args[0])
		if err != nil {
			return err
		}
		for i, line := range lines {
			if numbered {
				fmt.Printf("%3d  %s\n", i+1, line)
			} else {
				fmt.Println(line)
			}
		}
		logger.Debugw("Loaded lyrics", "path", args[0], "lines", len(lines))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(linesCmd)

	linesCmd.Flags().BoolP("number", "n", false, "Prefix each line with its number")
}
