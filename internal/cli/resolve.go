package cli

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/mgpai22/tapsync/internal/library"
)

// lyricSources is what was found for a song: a timed track, plain text, or both.
type lyricSources struct {
	SubtitlePath string
	TextPath     string
}

// mappingLookup is the part of the library the resolver needs.
type mappingLookup interface {
	Mapping(ctx context.Context, track string) (library.Mapping, error)
}

// trackKey is how songs are identified in the library.
func trackKey(audioPath string) (string, error) {
	abs, err := filepath.Abs(audioPath)
	if err != nil {
		return "", err
	}
	return filepath.Clean(abs), nil
}

// resolveLyrics finds the lyrics for a song. For each kind the explicit path wins, then the
// library mapping, then <lyrics_dir>/<base>.<ext>, then a file next to the song.
func resolveLyrics(ctx context.Context, songPath, subsFlag string, lib mappingLookup, lyricsDir string) (lyricSources, error) {
	var found lyricSources

	if subsFlag != "" {
		if !fileExists(subsFlag) {
			return found, errors.New("subtitle file not found: " + subsFlag)
		}
		found.SubtitlePath = subsFlag
	}

	if lib != nil {
		key, err := trackKey(songPath)
		if err != nil {
			return found, err
		}
		m, err := lib.Mapping(ctx, key)
		switch {
		case err == nil:
			if found.SubtitlePath == "" && fileExists(m.SubtitlePath) {
				found.SubtitlePath = m.SubtitlePath
			}
			if fileExists(m.TextPath) {
				found.TextPath = m.TextPath
			}
		case !errors.Is(err, library.ErrNotFound):
			return found, err
		}
	}

	base := strings.TrimSuffix(filepath.Base(songPath), filepath.Ext(songPath))
	candidates := func(ext string) []string {
		var paths []string
		if lyricsDir != "" {
			paths = append(paths, filepath.Join(lyricsDir, base+ext))
		}
		return append(paths, strings.TrimSuffix(songPath, filepath.Ext(songPath))+ext)
	}

	if found.SubtitlePath == "" {
		found.SubtitlePath = firstExisting(append(candidates(".srt"), candidates(".vtt")...))
	}
	if found.TextPath == "" {
		found.TextPath = firstExisting(candidates(".txt"))
	}
	return found, nil
}

func firstExisting(paths []string) string {
	for _, p := range paths {
		if fileExists(p) {
			return p
		}
	}
	return ""
}

func fileExists(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
