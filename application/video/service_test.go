package video

import (
	"context"
	"errors"
	"strings"
	"testing"

	"clip-trimmer/domain/video"
)

// --- Mock implementations for testing ---

// mockFileChecker implements video.FileChecker for testing
type mockFileChecker struct {
	existingFiles map[string]bool
}

func (m *mockFileChecker) Exists(path string) bool {
	return m.existingFiles[path]
}

// mockProber implements video.AudioProber for testing
type mockProber struct {
	count int
	err   error
}

func (m *mockProber) ProbeAudioTrackCount(ctx context.Context, path string) (int, error) {
	return m.count, m.err
}

// mockDurations implements video.DurationReader for testing
type mockDurations struct {
	seconds int
	err     error
}

func (m *mockDurations) DurationSeconds(ctx context.Context, path string) (int, error) {
	return m.seconds, m.err
}

func TestTrimService_Plan(t *testing.T) {
	checker := &mockFileChecker{existingFiles: map[string]bool{"/in/match.mp4": true}}

	tests := []struct {
		name       string
		prober     *mockProber
		durations  *mockDurations
		input      TrimInput
		wantErr    error
		errMsg     string
		wantFilter bool
		wantRate   int64
	}{
		{
			name:       "multi-track source",
			prober:     &mockProber{count: 2},
			input:      TrimInput{SourcePath: "/in/match.mp4", StartTime: "00:00:10", EndTime: "40"},
			wantFilter: true,
			wantRate:   2432696,
		},
		{
			name:     "custom target size",
			prober:   &mockProber{count: 1},
			input:    TrimInput{SourcePath: "/in/match.mp4", StartTime: "0", EndTime: "60", TargetSizeMB: 8.5},
			wantRate: 1033895,
		},
		{
			name:   "missing source",
			prober: &mockProber{count: 1},
			input:  TrimInput{SourcePath: "/in/nope.mp4", StartTime: "0", EndTime: "10"},
			errMsg: "source file does not exist",
		},
		{
			name:   "bad start",
			prober: &mockProber{count: 1},
			input:  TrimInput{SourcePath: "/in/match.mp4", StartTime: "abc", EndTime: "10"},
			errMsg: "invalid start time",
		},
		{
			name:    "end before start",
			prober:  &mockProber{count: 1},
			input:   TrimInput{SourcePath: "/in/match.mp4", StartTime: "00:01:00", EndTime: "00:00:30"},
			wantErr: video.ErrInvalidRange,
		},
		{
			name:    "shorter than min length",
			prober:  &mockProber{count: 1},
			input:   TrimInput{SourcePath: "/in/match.mp4", StartTime: "0", EndTime: "1"},
			wantErr: video.ErrInvalidRange,
			errMsg:  "shorter than the 3s minimum",
		},
		{
			name:    "end past media duration",
			prober:  &mockProber{count: 1},
			input:   TrimInput{SourcePath: "/in/match.mp4", StartTime: "0", EndTime: "99:00:00"},
			wantErr: video.ErrInvalidRange,
			errMsg:  "nearest valid range is 00:00:00-00:10:00",
		},
		{
			name:     "range ending at media end",
			prober:   &mockProber{count: 1},
			input:    TrimInput{SourcePath: "/in/match.mp4", StartTime: "00:09:30", EndTime: "00:10:00"},
			wantRate: 2432696,
		},
		{
			name:      "media shorter than min length",
			prober:    &mockProber{count: 1},
			durations: &mockDurations{seconds: 2},
			input:     TrimInput{SourcePath: "/in/match.mp4", StartTime: "0", EndTime: "3"},
			wantErr:   video.ErrDegenerateMedia,
		},
		{
			name:      "duration failure",
			prober:    &mockProber{count: 1},
			durations: &mockDurations{err: errors.New("ffprobe missing")},
			input:     TrimInput{SourcePath: "/in/match.mp4", StartTime: "0", EndTime: "10"},
			errMsg:    "failed to read duration",
		},
		{
			name:   "probe failure",
			prober: &mockProber{err: errors.New("ffprobe missing")},
			input:  TrimInput{SourcePath: "/in/match.mp4", StartTime: "0", EndTime: "10"},
			errMsg: "failed to probe audio tracks",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			durations := tt.durations
			if durations == nil {
				durations = &mockDurations{seconds: 600}
			}
			svc := NewTrimService(tt.prober, durations, checker, "/out", "", 0)

			plan, err := svc.Plan(context.Background(), tt.input)

			if tt.wantErr != nil || tt.errMsg != "" {
				if err == nil {
					t.Fatal("expected error but got none")
				}
				if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
					t.Errorf("error = %v, want %v", err, tt.wantErr)
				}
				if tt.errMsg != "" && !strings.Contains(err.Error(), tt.errMsg) {
					t.Errorf("error = %q, want containing %q", err.Error(), tt.errMsg)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if (plan.AudioFilter != "") != tt.wantFilter {
				t.Errorf("AudioFilter = %q", plan.AudioFilter)
			}
			if plan.VideoBitrate != tt.wantRate {
				t.Errorf("VideoBitrate = %d, want %d", plan.VideoBitrate, tt.wantRate)
			}
			if plan.OutputPath != "/out/match - Trim.mp4" {
				t.Errorf("OutputPath = %q", plan.OutputPath)
			}
		})
	}
}

func TestTrimService_PlanRange(t *testing.T) {
	svc := NewTrimService(&mockProber{}, nil, &mockFileChecker{}, "/out", " (cut)", 25)

	plan, err := svc.PlanRange("/in/a.mkv", video.TrimRange{Start: 0, End: 3600}, video.NewAudioTrackSet(0), 0)
	if err != nil {
		t.Fatalf("PlanRange() unexpected error: %v", err)
	}
	if plan.VideoBitrate != 50681 {
		t.Errorf("VideoBitrate = %d, want 50681", plan.VideoBitrate)
	}
	if plan.OutputPath != "/out/a (cut).mkv" {
		t.Errorf("OutputPath = %q", plan.OutputPath)
	}
	if plan.HasAudio() {
		t.Error("plan without tracks should not carry audio")
	}
}
