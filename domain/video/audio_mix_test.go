package video

import (
	"errors"
	"strings"
	"testing"
)

func TestBuildAudioMixExpression(t *testing.T) {
	tests := []struct {
		name   string
		tracks AudioTrackSet
		want   string
	}{
		{"single track", AudioTrackSet{0}, "[0:a:0]amix=inputs=1:duration=longest[a]"},
		{"two tracks", AudioTrackSet{0, 1}, "[0:a:0][0:a:1]amix=inputs=2:duration=longest[a]"},
		{"three tracks", AudioTrackSet{0, 1, 2}, "[0:a:0][0:a:1][0:a:2]amix=inputs=3:duration=longest[a]"},
		{"sparse ordinals", AudioTrackSet{1, 3}, "[0:a:1][0:a:3]amix=inputs=2:duration=longest[a]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := BuildAudioMixExpression(tt.tracks)
			if err != nil {
				t.Fatalf("BuildAudioMixExpression() unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("BuildAudioMixExpression() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBuildAudioMixExpression_ReferencesEveryTrack(t *testing.T) {
	got, err := BuildAudioMixExpression(NewAudioTrackSet(3))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n := strings.Count(got, "[0:a:"); n != 3 {
		t.Errorf("expression %q references %d inputs, want 3", got, n)
	}
	if !strings.Contains(got, "inputs=3") || !strings.Contains(got, "duration=longest") {
		t.Errorf("expression %q missing mix parameters", got)
	}
}

func TestBuildAudioMixExpression_Empty(t *testing.T) {
	if _, err := BuildAudioMixExpression(nil); !errors.Is(err, ErrNoAudioTracks) {
		t.Errorf("error = %v, want ErrNoAudioTracks", err)
	}
}

func TestNewAudioTrackSet(t *testing.T) {
	if got := NewAudioTrackSet(0); got.Len() != 0 || got.NeedsMix() {
		t.Errorf("NewAudioTrackSet(0) = %v", got)
	}
	if got := NewAudioTrackSet(-2); got.Len() != 0 {
		t.Errorf("NewAudioTrackSet(-2) = %v", got)
	}
	got := NewAudioTrackSet(2)
	if len(got) != 2 || got[0] != 0 || got[1] != 1 || !got.NeedsMix() {
		t.Errorf("NewAudioTrackSet(2) = %v", got)
	}
}
