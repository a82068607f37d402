package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mgpai22/tapsync/internal/subtitle"
	"github.com/mgpai22/tapsync/internal/translate"
)

var translateCmd = &cobra.Command{
	Use:   "translate [subtitle_file]",
	Short: "Translate a timed lyrics track into another language",
	Long: `Translate the text of a timed lyrics track, keeping every entry's timing.

The --overlay flag writes bilingual lines: the translation first, then the
original lyric on the next line.

Provider, model, batch size and concurrency default to the [translate]
section of the config file.

Examples:
  tapsync translate song.srt --target-language japanese
  tapsync translate song.srt -t es --overlay
  tapsync translate song.vtt -t english --provider anthropic -o song.en.vtt`,
	Args: cobra.ExactArgs(1),
	RunE: runTranslate,
}

func init() {
	rootCmd.AddCommand(translateCmd)

	translateCmd.Flags().
		StringP("target-language", "t", "", "Target language for translation (required)")
	translateCmd.Flags().
		StringP("language", "l", "", "Language of the lyrics (optional hint)")
	translateCmd.Flags().
		Bool("overlay", false, "Show the translation above the original line")
	translateCmd.Flags().
		StringP("api-key", "k", "", "API key (or set GEMINI_API_KEY/OPENAI_API_KEY/ANTHROPIC_API_KEY)")
	translateCmd.Flags().
		String("model", "", "Model to use (provider-specific)")
	translateCmd.Flags().
		String("provider", "", "Translation provider (gemini, openai, anthropic)")
	translateCmd.Flags().
		String("prompt", "", "Additional instructions for the translator")
	translateCmd.Flags().
		Int("concurrency", 0, "Number of parallel translation workers")
	translateCmd.Flags().
		Int("batch-size", 0, "Number of entries per API request")

	_ = translateCmd.MarkFlagRequired("target-language")
}

func runTranslate(cmd *cobra.Command, args []string) error {
	subtitlePath := args[0]
	ctx := cmd.Context()

	targetLang, _ := cmd.Flags().GetString("target-language")
	inputLang, _ := cmd.Flags().GetString("language")
	overlay, _ := cmd.Flags().GetBool("overlay")
	apiKey, _ := cmd.Flags().GetString("api-key")
	model, _ := cmd.Flags().GetString("model")
	providerStr, _ := cmd.Flags().GetString("provider")
	prompt, _ := cmd.Flags().GetString("prompt")
	concurrency, _ := cmd.Flags().GetInt("concurrency")
	batchSize, _ := cmd.Flags().GetInt("batch-size")
	outputPath, _ := cmd.Flags().GetString("output")

	if providerStr == "" {
		providerStr = cfg.Translate.Provider
	}
	if model == "" {
		model = cfg.Translate.Model
	}
	if concurrency == 0 {
		concurrency = cfg.Translate.Concurrency
	}
	if batchSize == 0 {
		batchSize = cfg.Translate.BatchSize
	}

	if strings.TrimSpace(targetLang) == "" {
		return fmt.Errorf("target language is required")
	}
	if inputLang != "" && strings.EqualFold(strings.TrimSpace(inputLang), strings.TrimSpace(targetLang)) {
		return fmt.Errorf("input language %q and target language %q cannot be the same", inputLang, targetLang)
	}
	if concurrency <= 0 {
		return fmt.Errorf("concurrency must be positive, got %d", concurrency)
	}
	if batchSize <= 0 {
		return fmt.Errorf("batch-size must be positive, got %d", batchSize)
	}

	provider := translate.Provider(strings.ToLower(providerStr))
	if apiKey == "" {
		apiKey = os.Getenv(provider.APIKeyEnv())
	}
	if apiKey == "" {
		return fmt.Errorf("API key is required: use --api-key flag or set %s environment variable", provider.APIKeyEnv())
	}

	result, err := subtitle.LoadFile(subtitlePath)
	if err != nil {
		return err
	}
	for _, w := range result.Warnings {
		logger.Warnw("Skipped subtitle block", "file", subtitlePath, "detail", w.String())
	}
	if len(result.Entries) == 0 {
		return fmt.Errorf("subtitle file contains no entries")
	}

	format := subtitle.GetFormatFromExtension(subtitlePath)
	if outputPath == "" {
		outputPath = translatedPath(subtitlePath, targetLang, overlay)
	}

	logger.Infow("Starting lyrics translation",
		"input", subtitlePath,
		"output", outputPath,
		"entries", len(result.Entries),
		"target_language", targetLang,
		"provider", string(provider),
		"overlay", overlay,
	)

	translator, err := translate.Factory(ctx, provider, apiKey, translate.Options{
		InputLanguage:  inputLang,
		TargetLanguage: targetLang,
		Model:          model,
		Prompt:         prompt,
		BatchSize:      batchSize,
	})
	if err != nil {
		return fmt.Errorf("failed to create translator: %w", err)
	}

	results, err := translator.TranslateWithConcurrency(ctx, translate.Items(result.Entries), concurrency)
	if err != nil {
		return fmt.Errorf("translation failed: %w", err)
	}

	entries, skipped := translate.Apply(result.Entries, results, overlay)
	for _, s := range skipped {
		logger.Warnw("Translation result ignored", "detail", s)
	}

	writer, err := subtitle.NewWriter(subtitle.GetFormatFromExtension(outputPath))
	if err != nil {
		return err
	}
	if err := subtitle.SaveFile(ctx, outputPath, writer.Encode(entries)); err != nil {
		return err
	}

	absOutput, _ := filepath.Abs(outputPath)
	fmt.Printf("Lyrics translated: %s\n", absOutput)
	fmt.Printf("  Entries: %d\n", len(entries))
	fmt.Printf("  Target language: %s\n", targetLang)
	if overlay {
		fmt.Printf("  Mode: bilingual overlay\n")
	}
	logger.Debugw("Translation written", "format", string(format), "results", len(results))
	return nil
}

// translatedPath is song.srt -> song.<lang>.srt, or song.<lang>.overlay.srt.
func translatedPath(path, lang string, overlay bool) string {
	ext := filepath.Ext(path)
	base := strings.TrimSuffix(path, ext)
	lang = strings.ToLower(strings.ReplaceAll(strings.TrimSpace(lang), " ", "-"))
	if overlay {
		return fmt.Sprintf("%s.%s.overlay%s", base, lang, ext)
	}
	return fmt.Sprintf("%s.%s%s", base, lang, ext)
}
