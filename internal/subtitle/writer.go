package subtitle

import (
	"fmt"
	"path/filepath"
	"strings"
)

// SubRip format
type SRTWriter struct{}

// WebVTT format
type VTTWriter struct{}

// interface for serializing entries into track text
type Writer interface {
	Encode(entries []Entry) string
	Format() Format
}

func NewWriter(format Format) (Writer, error) {
	switch format {
	case FormatSRT:
		return &SRTWriter{}, nil
	case FormatVTT:
		return &VTTWriter{}, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

// Write renders timed lyric lines as SRT. Every block, including the last, is followed by a
// blank line.
func Write(lines []string, starts, ends []float64) (string, error) {
	entries, err := Zip(lines, starts, ends)
	if err != nil {
		return "", err
	}
	return (&SRTWriter{}).Encode(entries), nil
}

// Zip pairs lines with their timestamps.
func Zip(lines []string, starts, ends []float64) ([]Entry, error) {
	if len(lines) != len(starts) || len(starts) != len(ends) {
		return nil, fmt.Errorf(
			"%w: %d lines, %d starts, %d ends",
			ErrLengthMismatch,
			len(lines),
			len(starts),
			len(ends),
		)
	}

	entries := make([]Entry, len(lines))
	for i := range lines {
		entries[i] = Entry{
			Index: i + 1,
			Start: starts[i],
			End:   ends[i],
			Text:  lines[i],
		}
	}
	return entries, nil
}

func (w *SRTWriter) Format() Format {
	return FormatSRT
}

// Encode ignores entry indexes and numbers blocks by position.
func (w *SRTWriter) Encode(entries []Entry) string {
	var sb strings.Builder
	for i, entry := range entries {
		// index (1-based)
		fmt.Fprintf(&sb, "%d\n", i+1)

		// timestamps: 00:00:00,000 --> 00:00:00,000
		sb.WriteString(FormatTimecode(entry.Start))
		sb.WriteString(arrow)
		sb.WriteString(FormatTimecode(entry.End))
		sb.WriteString("\n")

		sb.WriteString(entry.Text)
		sb.WriteString("\n\n")
	}
	return sb.String()
}

func (w *VTTWriter) Format() Format {
	return FormatVTT
}

func (w *VTTWriter) Encode(entries []Entry) string {
	var sb strings.Builder

	// VTT header
	sb.WriteString("WEBVTT\n\n")

	for i, entry := range entries {
		// optional cue identifier
		fmt.Fprintf(&sb, "%d\n", i+1)

		// timestamps: 00:00:00.000 --> 00:00:00.000
		sb.WriteString(formatVTTTimecode(entry.Start))
		sb.WriteString(arrow)
		sb.WriteString(formatVTTTimecode(entry.End))
		sb.WriteString("\n")

		sb.WriteString(entry.Text)
		sb.WriteString("\n\n")
	}
	return sb.String()
}

// subtitle format based on file extension
func GetFormatFromExtension(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".vtt":
		return FormatVTT
	default:
		return FormatSRT
	}
}

// file extension for a format
func GetExtensionForFormat(format Format) string {
	switch format {
	case FormatVTT:
		return ".vtt"
	default:
		return ".srt"
	}
}

// ParseFormat maps a user supplied name onto a Format.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "srt":
		return FormatSRT, nil
	case "vtt", "webvtt":
		return FormatVTT, nil
	default:
		return "", fmt.Errorf("unsupported format %q: use srt or vtt", name)
	}
}
