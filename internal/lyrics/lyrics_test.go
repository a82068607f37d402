package lyrics

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestClean(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"  Hello   world  ", "Hello world"},
		{"Hello\u00a0world", "Hello world"},
		{"zero\u200bwidth", "zerowidth"},
		{"\ufeffStart", "Start"},
		{"tab\tseparated", "tab separated"},
		{"cafe\u0301", "caf\u00e9"}, // NFC
		{"\u200b \u200e", ""},
	}

	for _, tt := range tests {
		if got := Clean(tt.in); got != tt.want {
			t.Errorf("Clean(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSplitLines(t *testing.T) {
	text := "\n  First line \r\n\r\n\u00a0\nSecond\u00a0line\rThird\n\n"
	got := SplitLines(text)
	want := []string{"First line", "Second line", "Third"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SplitLines = %q, want %q", got, want)
	}
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
		want string
	}{
		{"utf8", []byte("caf\xc3\xa9"), "café"},
		{"utf8 bom", []byte("\xef\xbb\xbfhi"), "hi"},
		{"latin1", []byte("caf\xe9"), "café"},
		{"cp1252 quotes", []byte("\x93quoted\x94"), "“quoted”"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(tt.in)
			if err != nil {
				t.Fatalf("Decode error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Decode = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "song.txt")
	if err := os.WriteFile(path, []byte("Verse one\n\n\tVerse two \n"), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	lines, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile error: %v", err)
	}
	want := []string{"Verse one", "Verse two"}
	if !reflect.DeepEqual(lines, want) {
		t.Errorf("LoadFile = %q, want %q", lines, want)
	}
}

func TestLoadFileRejectsDocuments(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "song.docx"))
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
}
