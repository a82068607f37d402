package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mgpai22/tapsync/internal/subtitle"
)

var convertCmd = &cobra.Command{
	Use:   "convert [subtitle_file]",
	Short: "Rewrite a subtitle track as SRT or WebVTT",
	Long: `Parse a subtitle track and write it again, renumbering the entries and dropping
blocks that cannot be read.

Examples:
  tapsync convert song.srt -o song.vtt
  tapsync convert song.vtt --format srt`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)

	convertCmd.Flags().StringP("format", "f", "", "Output format (srt, vtt); defaults to the output extension")
}

func runConvert(cmd *cobra.Command, args []string) error {
	inputPath := args[0]
	formatStr, _ := cmd.Flags().GetString("format")
	outputPath, _ := cmd.Flags().GetString("output")

	if formatStr == "" && outputPath == "" {
		// flip between the two formats
		formatStr = string(subtitle.FormatVTT)
		if subtitle.GetFormatFromExtension(inputPath) == subtitle.FormatVTT {
			formatStr = string(subtitle.FormatSRT)
		}
	}

	format, outputPath, err := resolveOutput(inputPath, outputPath, formatStr, cfg.Timing.Format)
	if err != nil {
		return err
	}
	if samePath(inputPath, outputPath) {
		return fmt.Errorf("output %s would overwrite the input", outputPath)
	}

	result, err := subtitle.LoadFile(inputPath)
	if err != nil {
		return err
	}
	for _, w := range result.Warnings {
		logger.Warnw("Skipped subtitle block", "file", inputPath, "detail", w.String())
	}
	if len(result.Entries) == 0 {
		return fmt.Errorf("%s contains no readable entries", inputPath)
	}

	writer, err := subtitle.NewWriter(format)
	if err != nil {
		return err
	}
	if err := subtitle.SaveFile(cmd.Context(), outputPath, writer.Encode(result.Entries)); err != nil {
		return err
	}

	absOutput, _ := filepath.Abs(outputPath)
	logger.Infow("Converted subtitle track",
		"input", inputPath,
		"output", absOutput,
		"format", string(format),
		"entries", len(result.Entries),
		"skipped", len(result.Warnings),
	)
	fmt.Printf("Subtitles written: %s\n", absOutput)
	return nil
}

func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return a == b
	}
	return filepath.Clean(absA) == filepath.Clean(absB)
}
