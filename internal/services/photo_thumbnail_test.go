package services

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestGenerateThumbnail(t *testing.T) {
	dir := t.TempDir()
	storage := NewPhotoStorage(dir)

	relPath, err := storage.StorePassport("ADM100", jpegBytes(t, 350, 450))
	if err != nil {
		t.Fatalf("store failed: %v", err)
	}

	thumb := storage.GenerateThumbnail(relPath, 100, 100)
	if thumb == nil {
		t.Fatal("expected a thumbnail path")
	}
	if !strings.HasPrefix(filepath.Base(*thumb), "thumb_") {
		t.Errorf("thumbnail name = %q, want thumb_ prefix", *thumb)
	}
	if filepath.ToSlash(filepath.Dir(*thumb)) != filepath.ToSlash(filepath.Dir(relPath)) {
		t.Errorf("thumbnail should sit next to the source: %q vs %q", *thumb, relPath)
	}

	w, h := decodeDims(t, filepath.Join(dir, filepath.FromSlash(*thumb)))
	if w != 100 || h != 100 {
		t.Errorf("thumbnail size = %dx%d, want 100x100", w, h)
	}
}

func TestGenerateThumbnailDefaultBox(t *testing.T) {
	dir := t.TempDir()
	storage := NewPhotoStorage(dir)

	relPath, err := storage.StorePassport("ADM101", jpegBytes(t, 350, 450))
	if err != nil {
		t.Fatalf("store failed: %v", err)
	}

	thumb := storage.GenerateThumbnail(relPath, 0, 0)
	if thumb == nil {
		t.Fatal("expected a thumbnail path")
	}
	w, h := decodeDims(t, filepath.Join(dir, filepath.FromSlash(*thumb)))
	if w != 100 || h != 100 {
		t.Errorf("default thumbnail size = %dx%d, want 100x100", w, h)
	}
}

func TestGenerateThumbnailMissingSource(t *testing.T) {
	storage := NewPhotoStorage(t.TempDir())

	if thumb := storage.GenerateThumbnail("students/2026/NOPE.jpg", 100, 100); thumb != nil {
		t.Errorf("missing source should yield nil, got %q", *thumb)
	}
	if thumb := storage.GenerateThumbnail("", 100, 100); thumb != nil {
		t.Errorf("empty path should yield nil, got %q", *thumb)
	}
}
