package filesystem

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestFinder_ListVideos(t *testing.T) {
	dir := t.TempDir()
	base := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	files := map[string]time.Duration{
		"old.mp4":   0,
		"new.MKV":   2 * time.Hour,
		"mid.mov":   time.Hour,
		"notes.txt": 3 * time.Hour,
	}
	for name, offset := range files {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, nil, 0644); err != nil {
			t.Fatal(err)
		}
		stamp := base.Add(offset)
		if err := os.Chtimes(path, stamp, stamp); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "sub.mp4"), 0755); err != nil {
		t.Fatal(err)
	}

	f := NewFinder()
	got, err := f.ListVideos(dir)
	if err != nil {
		t.Fatalf("ListVideos() unexpected error: %v", err)
	}

	var names []string
	for _, p := range got {
		names = append(names, filepath.Base(p))
	}
	if strings.Join(names, ",") != "new.MKV,mid.mov,old.mp4" {
		t.Errorf("ListVideos() = %v", names)
	}

	newest, err := f.FindNewestVideo(dir)
	if err != nil || filepath.Base(newest) != "new.MKV" {
		t.Errorf("FindNewestVideo() = %q, %v", newest, err)
	}
}

func TestFinder_Empty(t *testing.T) {
	f := NewFinder()
	if _, err := f.FindNewestVideo(t.TempDir()); err == nil {
		t.Error("expected error for directory without videos")
	}
	if _, err := f.ListVideos(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("expected error for missing directory")
	}
}
