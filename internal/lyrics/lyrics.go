// Package lyrics loads the plain-text lyric lines that a timing session works through.
package lyrics

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/unicode/norm"
)

// ErrUnsupportedFormat is returned for lyric documents that are not plain text.
var ErrUnsupportedFormat = errors.New("unsupported lyrics format")

// characters pasted from web pages and word processors that should not reach a subtitle
var cleaner = strings.NewReplacer(
	"\u00a0", " ", // no-break space
	"\u202f", " ", // narrow no-break space
	"\u2007", " ", // figure space
	"\t", " ",
	"\u200b", "", // zero-width space
	"\u200c", "",
	"\u200d", "",
	"\u200e", "", // direction marks
	"\u200f", "",
	"\ufeff", "",
	"\r", "",
	"\f", "",
	"\v", "",
)

// Clean normalizes one line: invisible characters removed, whitespace collapsed, NFC.
func Clean(line string) string {
	line = cleaner.Replace(line)
	line = strings.Join(strings.Fields(line), " ")
	return norm.NFC.String(line)
}

// SplitLines cleans every line of text and drops the ones left empty.
func SplitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	var lines []string
	for _, raw := range strings.Split(text, "\n") {
		if line := Clean(raw); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// Decode turns file bytes into a string: UTF-8 when valid, otherwise Windows-1252 when the
// C1 range is used (curly quotes and dashes), otherwise Latin-1.
func Decode(data []byte) (string, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	if utf8.Valid(data) {
		return string(data), nil
	}

	var enc encoding.Encoding = charmap.ISO8859_1
	for _, b := range data {
		if b >= 0x80 && b <= 0x9f {
			enc = charmap.Windows1252
			break
		}
	}

	decoded, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("failed to decode lyrics: %w", err)
	}
	return string(decoded), nil
}

// LoadFile reads a lyrics file and returns its cleaned, non-empty lines.
func LoadFile(path string) ([]string, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".docx", ".odt", ".doc", ".rtf", ".pdf":
		return nil, fmt.Errorf("%w: %s (save it as .txt)", ErrUnsupportedFormat, ext)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read lyrics file: %w", err)
	}

	text, err := Decode(data)
	if err != nil {
		return nil, err
	}
	return SplitLines(text), nil
}
