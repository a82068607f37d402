package subtitle

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestWriteScenario(t *testing.T) {
	got, err := Write(
		[]string{"Hello", "World"},
		[]float64{2.0, 4.0},
		[]float64{3.5, 6.0},
	)
	if err != nil {
		t.Fatalf("Write returned error: %v", err)
	}

	want := "1\n00:00:02,000 --> 00:00:03,500\nHello\n\n" +
		"2\n00:00:04,000 --> 00:00:06,000\nWorld\n\n"
	if got != want {
		t.Errorf("unexpected output:\n%q\nwant:\n%q", got, want)
	}
}

func TestWriteLengthMismatch(t *testing.T) {
	_, err := Write([]string{"a", "b"}, []float64{1, 2}, []float64{1.5})
	if !errors.Is(err, ErrLengthMismatch) {
		t.Fatalf("expected ErrLengthMismatch, got %v", err)
	}
}

func TestWriteEmpty(t *testing.T) {
	got, err := Write(nil, nil, nil)
	if err != nil {
		t.Fatalf("Write returned error: %v", err)
	}
	if got != "" {
		t.Errorf("expected empty output, got %q", got)
	}
}

func TestRoundTrip(t *testing.T) {
	entries := []Entry{
		{Index: 7, Start: 0, End: 1.25, Text: "First"},
		{Index: 3, Start: 1.25, End: 2.5, Text: "Two\nlines"},
		{Index: 9, Start: 2.5, End: 2.5, Text: "Zero length"},
		{Index: 1, Start: 3661.001, End: 3662.999, Text: "After an hour"},
	}

	for _, format := range []Format{FormatSRT, FormatVTT} {
		writer, err := NewWriter(format)
		if err != nil {
			t.Fatalf("NewWriter(%s): %v", format, err)
		}
		result := Parse(writer.Encode(entries))
		if len(result.Warnings) != 0 {
			t.Fatalf("%s: unexpected warnings %v", format, result.Warnings)
		}
		if len(result.Entries) != len(entries) {
			t.Fatalf("%s: expected %d entries, got %d", format, len(entries), len(result.Entries))
		}
		for i := range entries {
			want := entries[i]
			want.Index = i + 1
			if !reflect.DeepEqual(result.Entries[i], want) {
				t.Errorf("%s entry %d: got %+v, want %+v", format, i, result.Entries[i], want)
			}
		}
	}
}

func TestVTTHeader(t *testing.T) {
	out := (&VTTWriter{}).Encode([]Entry{{Start: 1, End: 2, Text: "x"}})
	want := "WEBVTT\n\n1\n00:00:01.000 --> 00:00:02.000\nx\n\n"
	if out != want {
		t.Errorf("got %q, want %q", out, want)
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatSRT, false},
		{"SRT", FormatSRT, false},
		{" vtt ", FormatVTT, false},
		{"webvtt", FormatVTT, false},
		{"ass", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatExtensions(t *testing.T) {
	if GetFormatFromExtension("song.VTT") != FormatVTT {
		t.Error("expected .VTT to map to vtt")
	}
	if GetFormatFromExtension("song.txt") != FormatSRT {
		t.Error("expected unknown extensions to default to srt")
	}
	if GetExtensionForFormat(FormatVTT) != ".vtt" {
		t.Error("expected .vtt extension")
	}
}

func TestSaveAndLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "song.srt")
	content, err := Write([]string{"Hello"}, []float64{1}, []float64{2})
	if err != nil {
		t.Fatalf("Write: %v", err)
	}

	if err := SaveFile(context.Background(), path, content); err != nil {
		t.Fatalf("SaveFile: %v", err)
	}

	if _, err := os.Stat(path + ".lock"); !os.IsNotExist(err) {
		t.Errorf("expected lock file to be removed, stat err = %v", err)
	}

	result, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if len(result.Entries) != 1 || result.Entries[0].Text != "Hello" {
		t.Errorf("unexpected entries %+v", result.Entries)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Mode().Perm() != 0644 {
		t.Errorf("expected 0644 permissions, got %v", info.Mode().Perm())
	}
}

func TestLoadFileMissing(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.srt")); err == nil {
		t.Error("expected error for missing file")
	}
}
