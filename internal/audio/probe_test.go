package audio

import (
	"testing"
	"time"
)

func TestParseProbe(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantDur   time.Duration
		wantAudio bool
		wantErr   bool
	}{
		{
			name:      "audio track",
			input:     `{"format":{"duration":"215.250000"},"streams":[{"codec_type":"audio"}]}`,
			wantDur:   215250 * time.Millisecond,
			wantAudio: true,
		},
		{
			name:      "video with audio",
			input:     `{"format":{"duration":"3.5"},"streams":[{"codec_type":"video"},{"codec_type":"audio"}]}`,
			wantDur:   3500 * time.Millisecond,
			wantAudio: true,
		},
		{
			name:    "silent video",
			input:   `{"format":{"duration":"1"},"streams":[{"codec_type":"video"}]}`,
			wantDur: time.Second,
		},
		{
			name:      "no duration",
			input:     `{"format":{},"streams":[{"codec_type":"audio"}]}`,
			wantAudio: true,
		},
		{
			name:    "bad duration",
			input:   `{"format":{"duration":"N/A"}}`,
			wantErr: true,
		},
		{
			name:    "not json",
			input:   `nope`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, err := parseProbe([]byte(tt.input))
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseProbe() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if info.Duration != tt.wantDur {
				t.Errorf("Duration = %v, want %v", info.Duration, tt.wantDur)
			}
			if info.HasAudio != tt.wantAudio {
				t.Errorf("HasAudio = %v, want %v", info.HasAudio, tt.wantAudio)
			}
		})
	}
}

func TestMediaFileTypes(t *testing.T) {
	tests := []struct {
		path  string
		audio bool
		video bool
	}{
		{"song.mp3", true, false},
		{"SONG.FLAC", true, false},
		{"track.opus", true, false},
		{"clip.mp4", false, true},
		{"clip.MKV", false, true},
		{"lyrics.txt", false, false},
		{"noext", false, false},
	}

	for _, tt := range tests {
		if got := IsAudioFile(tt.path); got != tt.audio {
			t.Errorf("IsAudioFile(%q) = %v, want %v", tt.path, got, tt.audio)
		}
		if got := IsVideoFile(tt.path); got != tt.video {
			t.Errorf("IsVideoFile(%q) = %v, want %v", tt.path, got, tt.video)
		}
		if got := IsMediaFile(tt.path); got != (tt.audio || tt.video) {
			t.Errorf("IsMediaFile(%q) = %v", tt.path, got)
		}
	}
}
