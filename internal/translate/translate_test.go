package translate

import (
	"context"
	"os"
	"strings"
	"testing"
)

func TestFactoryReturnsProviderTranslators(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		provider Provider
		check    func(ConcurrentTranslator) bool
	}{
		{ProviderGemini, func(tr ConcurrentTranslator) bool { _, ok := tr.(*GeminiTranslator); return ok }},
		{ProviderOpenAI, func(tr ConcurrentTranslator) bool { _, ok := tr.(*OpenAITranslator); return ok }},
		{ProviderAnthropic, func(tr ConcurrentTranslator) bool { _, ok := tr.(*AnthropicTranslator); return ok }},
	}

	for _, tt := range tests {
		t.Run(string(tt.provider), func(t *testing.T) {
			translator, err := Factory(ctx, tt.provider, "fake-key", Options{TargetLanguage: "Japanese"})
			if err != nil {
				t.Fatalf("Factory(%s) returned error: %v", tt.provider, err)
			}
			if !tt.check(translator) {
				t.Errorf("unexpected translator type %T", translator)
			}
		})
	}
}

func TestFactoryRequiresTargetLanguage(t *testing.T) {
	_, err := Factory(context.Background(), ProviderGemini, "fake-key", Options{})
	if err == nil {
		t.Error("expected error for missing target language")
	}
}

func TestFactoryRequiresAPIKey(t *testing.T) {
	_, err := Factory(context.Background(), ProviderOpenAI, "", Options{TargetLanguage: "German"})
	if err == nil {
		t.Error("expected error for missing API key")
	}
}

func TestFactoryRejectsUnknownProvider(t *testing.T) {
	_, err := Factory(context.Background(), Provider("unknown"), "fake-key", Options{TargetLanguage: "French"})
	if err == nil {
		t.Error("expected error for unknown provider")
	}
}

func TestProviderAPIKeyEnv(t *testing.T) {
	if got := ProviderAnthropic.APIKeyEnv(); got != "ANTHROPIC_API_KEY" {
		t.Errorf("APIKeyEnv = %q", got)
	}
	if got := Provider("other").APIKeyEnv(); got != "API_KEY" {
		t.Errorf("APIKeyEnv = %q", got)
	}
}

func TestBuildPrompt(t *testing.T) {
	opts := Options{InputLanguage: "English", TargetLanguage: "Japanese", Prompt: "keep it singable"}
	items := []TranslationItem{
		{Index: 0, Text: "Hello world"},
		{Index: 1, Text: "Goodbye"},
	}

	prompt := BuildPrompt(opts, items)

	for _, want := range []string{"English song lyric lines", "to Japanese", "Hello world", `"index": 0`, "keep it singable"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt should contain %q", want)
		}
	}
}

func TestBuildPromptWithoutInputLanguage(t *testing.T) {
	prompt := BuildPrompt(Options{TargetLanguage: "Spanish"}, []TranslationItem{{Index: 0, Text: "Hello"}})

	if strings.Contains(prompt, "English") {
		t.Error("prompt should not contain input language when not specified")
	}
	if !strings.Contains(prompt, "to Spanish") {
		t.Error("prompt should contain target language")
	}
}

// Integration test: only runs if OPENAI_API_KEY is set
func TestOpenAITranslatorIntegration(t *testing.T) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		t.Skip("OPENAI_API_KEY not set; skipping integration test")
	}

	ctx := context.Background()
	translator, err := NewOpenAITranslator(ctx, apiKey, Options{TargetLanguage: "Spanish"})
	if err != nil {
		t.Fatalf("NewOpenAITranslator error: %v", err)
	}

	items := []TranslationItem{
		{Index: 0, Text: "Hello"},
		{Index: 1, Text: "Goodbye"},
	}

	results, err := translator.Translate(ctx, items)
	if err != nil {
		t.Fatalf("Translate error: %v", err)
	}
	if len(results) != 2 {
		t.Errorf("expected 2 results, got %d", len(results))
	}
	for _, r := range results {
		if r.Text == "" {
			t.Errorf("result index %d has empty text", r.Index)
		}
	}
}
