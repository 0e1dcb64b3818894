package video

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"go.uber.org/zap"

	"clip-trimmer/domain/video"
)

// lockRetryDelay is how often a busy merge-cache lock is retried
const lockRetryDelay = 250 * time.Millisecond

// FileStat reports file existence and modification times
type FileStat interface {
	video.FileChecker
	ModTime(path string) (time.Time, bool)
}

// MergeResult tells the caller which file to preview
type MergeResult struct {
	PreviewPath string
	Merged      bool // a merged derivative is used
	Cached      bool // the derivative already existed and was reused
}

// MergeService produces the merged-audio preview derivative for multi-track
// sources
type MergeService struct {
	merger   video.AudioMerger
	files    FileStat
	cacheDir string
	bitrate  string
	logger   *zap.Logger
}

// NewMergeService creates a new MergeService
func NewMergeService(merger video.AudioMerger, files FileStat, cacheDir, bitrate string, logger *zap.Logger) *MergeService {
	if bitrate == "" {
		bitrate = video.DefaultAudioBitrate
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MergeService{
		merger:   merger,
		files:    files,
		cacheDir: cacheDir,
		bitrate:  bitrate,
		logger:   logger,
	}
}

// Prepare returns the path to preview for sourcePath. Sources with at most
// one audio track are previewed directly. Otherwise the merged derivative is
// reused when it is newer than the source and rebuilt when it is not.
func (s *MergeService) Prepare(ctx context.Context, sourcePath string, tracks video.AudioTrackSet) (*MergeResult, error) {
	if !s.files.Exists(sourcePath) {
		return nil, fmt.Errorf("source video does not exist: %s", sourcePath)
	}
	if !tracks.NeedsMix() {
		return &MergeResult{PreviewPath: sourcePath}, nil
	}

	req, err := video.NewMergeRequest(sourcePath, tracks, s.cacheDir, s.bitrate)
	if err != nil {
		return nil, err
	}
	cachePath := req.CachePath()

	if err := os.MkdirAll(s.cacheDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	lock := flock.New(cachePath + ".lock")
	locked, err := lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return nil, fmt.Errorf("failed to lock merge cache: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("merge cache %s is locked", cachePath)
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			s.logger.Warn("failed to release merge cache lock", zap.Error(err))
		}
	}()

	if s.isFresh(cachePath, sourcePath) {
		s.logger.Debug("reusing merged audio", zap.String("path", cachePath))
		return &MergeResult{PreviewPath: cachePath, Merged: true, Cached: true}, nil
	}

	partial := PartialPath(cachePath)
	s.logger.Info("merging audio tracks", zap.String("source", sourcePath), zap.Int("tracks", tracks.Len()))
	if err := s.merger.Merge(ctx, req, partial); err != nil {
		_ = os.Remove(partial)
		return nil, err
	}
	if err := os.Rename(partial, cachePath); err != nil {
		_ = os.Remove(partial)
		return nil, fmt.Errorf("failed to finalize merged audio: %w", err)
	}

	return &MergeResult{PreviewPath: cachePath, Merged: true}, nil
}

func (s *MergeService) isFresh(cachePath, sourcePath string) bool {
	cached, ok := s.files.ModTime(cachePath)
	if !ok {
		return false
	}
	source, ok := s.files.ModTime(sourcePath)
	if !ok {
		return false
	}
	return cached.After(source)
}

// PartialPath returns the in-progress name for path, keeping the extension
// so ffmpeg can pick the container
func PartialPath(path string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + ".partial" + ext
}
