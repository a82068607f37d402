package ffmpeg

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"sync"
)

// ErrNotFound is returned when a binary is neither configured nor on PATH.
var ErrNotFound = errors.New("ffmpeg binary not found")

type BinaryPaths struct {
	FFmpeg  string
	FFprobe string
}

var (
	mu         sync.Mutex
	configured BinaryPaths
	resolved   *BinaryPaths
	lookPath   = exec.LookPath
)

// Configure sets explicit binary locations, typically from the config file. Empty fields
// fall back to the environment and PATH. It resets any previously resolved paths.
func Configure(paths BinaryPaths) {
	mu.Lock()
	defer mu.Unlock()
	configured = paths
	resolved = nil
}

// Ensure resolves both binaries once per configuration: environment
// (TAPSYNC_FFMPEG_PATH, TAPSYNC_FFPROBE_PATH) first, then Configure, then PATH.
func Ensure() (BinaryPaths, error) {
	mu.Lock()
	defer mu.Unlock()

	if resolved != nil {
		return *resolved, nil
	}

	ffmpegPath, err := resolve("ffmpeg", os.Getenv("TAPSYNC_FFMPEG_PATH"), configured.FFmpeg)
	if err != nil {
		return BinaryPaths{}, err
	}
	ffprobePath, err := resolve("ffprobe", os.Getenv("TAPSYNC_FFPROBE_PATH"), configured.FFprobe)
	if err != nil {
		return BinaryPaths{}, err
	}

	resolved = &BinaryPaths{FFmpeg: ffmpegPath, FFprobe: ffprobePath}
	return *resolved, nil
}

func FFmpegPath() (string, error) {
	paths, err := Ensure()
	if err != nil {
		return "", err
	}
	return paths.FFmpeg, nil
}

func FFprobePath() (string, error) {
	paths, err := Ensure()
	if err != nil {
		return "", err
	}
	return paths.FFprobe, nil
}

func resolve(name string, candidates ...string) (string, error) {
	for _, candidate := range candidates {
		if candidate == "" {
			continue
		}
		if !fileExists(candidate) {
			return "", fmt.Errorf("%s: configured path %q does not exist", name, candidate)
		}
		return candidate, nil
	}

	found, err := lookPath(name)
	if err != nil {
		return "", fmt.Errorf("%w: %s is not on PATH (install ffmpeg or set TAPSYNC_%s_PATH)",
			ErrNotFound, name, upper(name))
	}
	return found, nil
}

func upper(name string) string {
	if name == "ffprobe" {
		return "FFPROBE"
	}
	return "FFMPEG"
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir() && info.Size() > 0
}
