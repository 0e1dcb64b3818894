package filesystem

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"clip-trimmer/domain/video"
)

// Finder lists the video files of a directory
type Finder struct{}

// NewFinder creates a new Finder
func NewFinder() *Finder {
	return &Finder{}
}

// ListVideos returns the video files in dir, most recently modified first
func (f *Finder) ListVideos(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	type candidate struct {
		path string
		mod  int64
	}
	var found []candidate
	for _, entry := range entries {
		if entry.IsDir() || !video.IsVideoFile(entry.Name()) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		found = append(found, candidate{
			path: filepath.Join(dir, entry.Name()),
			mod:  info.ModTime().UnixNano(),
		})
	}

	sort.SliceStable(found, func(i, j int) bool {
		if found[i].mod != found[j].mod {
			return found[i].mod > found[j].mod
		}
		return found[i].path < found[j].path
	})

	files := make([]string, len(found))
	for i, c := range found {
		files[i] = c.path
	}
	return files, nil
}

// FindNewestVideo returns the most recently modified video file in dir
func (f *Finder) FindNewestVideo(dir string) (string, error) {
	files, err := f.ListVideos(dir)
	if err != nil {
		return "", err
	}
	if len(files) == 0 {
		return "", fmt.Errorf("no video files found in %s", dir)
	}
	return files[0], nil
}
