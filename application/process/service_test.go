package process

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	appvideo "clip-trimmer/application/video"
	"clip-trimmer/domain/distribution"
	"clip-trimmer/domain/video"
)

// --- Mock implementations for testing ---

// mockTranscoder implements video.Transcoder for testing
type mockTranscoder struct {
	shouldFail bool
	failError  error
	plans      []video.TranscodePlan
}

func (m *mockTranscoder) Transcode(ctx context.Context, plan video.TranscodePlan, progress video.ProgressFunc) error {
	m.plans = append(m.plans, plan)
	progress(video.Progress{Fraction: 0.5})
	progress(video.Progress{Fraction: 1})
	if m.shouldFail {
		return m.failError
	}
	return nil
}

// mockProber implements video.AudioProber for testing
type mockProber struct {
	count int
}

func (m *mockProber) ProbeAudioTrackCount(ctx context.Context, path string) (int, error) {
	return m.count, nil
}

// mockDurations implements video.DurationReader for testing
type mockDurations struct {
	seconds int
}

func (m *mockDurations) DurationSeconds(ctx context.Context, path string) (int, error) {
	return m.seconds, nil
}

// mockFileChecker implements video.FileChecker for testing
type mockFileChecker struct {
	existingFiles map[string]bool
}

func (m *mockFileChecker) Exists(path string) bool {
	return m.existingFiles[path]
}

// mockFileSizer implements FileSizer for testing
type mockFileSizer struct {
	sizes map[string]int64
}

func (m *mockFileSizer) Size(path string) int64 {
	return m.sizes[path]
}

// mockFinder implements FileFinder for testing
type mockFinder struct {
	newest string
	err    error
}

func (m *mockFinder) FindNewestVideo(dir string) (string, error) {
	return m.newest, m.err
}

// mockSharer implements Sharer for testing
type mockSharer struct {
	shared []string
	err    error
}

func (m *mockSharer) Share(ctx context.Context, clipPath string) (*distribution.UploadResult, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.shared = append(m.shared, clipPath)
	return &distribution.UploadResult{ShareableURL: "https://drive.google.com/file/d/x/view"}, nil
}

type fixture struct {
	transcoder *mockTranscoder
	sharer     *mockSharer
	finder     *mockFinder
	output     *bytes.Buffer
}

func newService(f *fixture, withSharer bool) *Service {
	checker := &mockFileChecker{existingFiles: map[string]bool{
		"/input/game.mp4":   true,
		"/input/newest.mkv": true,
	}}
	trims := appvideo.NewTrimService(&mockProber{count: 2}, &mockDurations{seconds: 600}, checker, "/output", "", 10)
	jobs := appvideo.NewJobRunner(f.transcoder, nil)
	sizer := &mockFileSizer{sizes: map[string]int64{"/output/game - Trim.mp4": 9_800_000}}

	var sharer Sharer
	if withSharer {
		sharer = f.sharer
	}
	return NewService(trims, jobs, sizer, f.finder, sharer, "/input", f.output)
}

func newFixture() *fixture {
	return &fixture{
		transcoder: &mockTranscoder{},
		sharer:     &mockSharer{},
		finder:     &mockFinder{newest: "/input/newest.mkv"},
		output:     &bytes.Buffer{},
	}
}

func TestService_Run(t *testing.T) {
	f := newFixture()
	svc := newService(f, true)

	var fractions []float64
	result, err := svc.Run(context.Background(), Input{
		InputPath:  "/input/game.mp4",
		StartTime:  "00:00:10",
		EndTime:    "00:00:40",
		Share:      true,
		OnProgress: func(p video.Progress) { fractions = append(fractions, p.Fraction) },
	})
	if err != nil {
		t.Fatalf("Run() unexpected error: %v", err)
	}

	if result.OutputPath != "/output/game - Trim.mp4" {
		t.Errorf("OutputPath = %q", result.OutputPath)
	}
	if result.OutputSize != 9_800_000 {
		t.Errorf("OutputSize = %d", result.OutputSize)
	}
	if result.VideoBitrate != 2432696 {
		t.Errorf("VideoBitrate = %d", result.VideoBitrate)
	}
	if result.ShareURL == "" || len(f.sharer.shared) != 1 {
		t.Errorf("clip was not shared: %+v", result)
	}
	if result.JobID == "" {
		t.Error("missing job ID")
	}
	if len(fractions) != 2 {
		t.Errorf("progress callbacks = %v", fractions)
	}
	if f.transcoder.plans[0].AudioFilter == "" {
		t.Error("two tracks should be mixed")
	}

	out := f.output.String()
	for _, want := range []string{"Using source: game.mp4", "[1/3] Planning trim", "[3/3] Sharing", "9.8 MB", "Done in"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestService_RunUsesNewestInput(t *testing.T) {
	f := newFixture()
	svc := newService(f, false)

	result, err := svc.Run(context.Background(), Input{StartTime: "0", EndTime: "5"})
	if err != nil {
		t.Fatalf("Run() unexpected error: %v", err)
	}
	if result.OutputPath != "/output/newest - Trim.mkv" {
		t.Errorf("OutputPath = %q", result.OutputPath)
	}
	if strings.Contains(f.output.String(), "Sharing") {
		t.Error("share step should be skipped")
	}
	if !strings.Contains(f.output.String(), "[2/2] Encoding") {
		t.Errorf("output = %s", f.output.String())
	}
}

func TestService_RunErrors(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(*fixture)
		sharer  bool
		input   Input
		wantErr error
		errMsg  string
		recover bool
	}{
		{
			name:    "share without sharer",
			input:   Input{InputPath: "/input/game.mp4", StartTime: "0", EndTime: "5", Share: true},
			wantErr: ErrSharingUnavailable,
		},
		{
			name:   "no input available",
			setup:  func(f *fixture) { f.finder.err = errors.New("no video files found in /input") },
			input:  Input{StartTime: "0", EndTime: "5"},
			errMsg: "no video files found",
		},
		{
			name:    "invalid range",
			input:   Input{InputPath: "/input/game.mp4", StartTime: "10", EndTime: "5"},
			wantErr: video.ErrInvalidRange,
		},
		{
			name: "encode failure",
			setup: func(f *fixture) {
				f.transcoder.shouldFail = true
				f.transcoder.failError = &video.ToolError{Tool: "ffmpeg", ExitCode: 1}
			},
			input:   Input{InputPath: "/input/game.mp4", StartTime: "0", EndTime: "5"},
			errMsg:  "trim failed",
			recover: true,
		},
		{
			name:   "share failure",
			setup:  func(f *fixture) { f.sharer.err = errors.New("quota") },
			sharer: true,
			input:  Input{InputPath: "/input/game.mp4", StartTime: "0", EndTime: "5", Share: true},
			errMsg: "share failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			if tt.setup != nil {
				tt.setup(f)
			}
			svc := newService(f, tt.sharer)

			_, err := svc.Run(context.Background(), tt.input)

			if err == nil {
				t.Fatal("expected error but got none")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
			if tt.errMsg != "" && !strings.Contains(err.Error(), tt.errMsg) {
				t.Errorf("error = %q, want containing %q", err.Error(), tt.errMsg)
			}
			if tt.recover && !strings.Contains(f.output.String(), "To retry:") {
				t.Errorf("recovery commands not shown:\n%s", f.output.String())
			}
		})
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{4 * time.Second, "4s"},
		{90 * time.Second, "1m 30s"},
		{1500 * time.Millisecond, "2s"},
	}
	for _, tt := range tests {
		if got := formatDuration(tt.d); got != tt.want {
			t.Errorf("formatDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}
