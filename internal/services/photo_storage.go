package services

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// PhotoStorage places normalized photos under a year-partitioned tree
// rooted at the injected base upload dir:
//
//	<base>/students/<YYYY>/<sanitized-admission-no>.jpg
type PhotoStorage struct {
	baseDir string
}

func NewPhotoStorage(baseDir string) *PhotoStorage {
	return &PhotoStorage{baseDir: baseDir}
}

// BaseDir returns the upload tree root.
func (s *PhotoStorage) BaseDir() string {
	return s.baseDir
}

// SanitizeAdmissionNumber strips every character outside [A-Za-z0-9].
// "A-123/B" and "A123B" map to the same filename component.
func SanitizeAdmissionNumber(admissionNumber string) string {
	var sb strings.Builder
	for _, r := range admissionNumber {
		if (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// RelativePhotoPath returns the deterministic storage path for an admission
// number at the given time, without touching the filesystem.
func RelativePhotoPath(admissionNumber string, now time.Time) (string, error) {
	clean := SanitizeAdmissionNumber(admissionNumber)
	if clean == "" {
		return "", errors.New("Invalid admission number")
	}
	return filepath.ToSlash(filepath.Join("students", now.Format("2006"), clean+".jpg")), nil
}

// StorePassport writes the encoded JPEG at the deterministic path for the
// admission number and returns the relative path.
//
// The write is atomic: data lands in a temp file in the target directory
// and is renamed over the final name, so a concurrent reader sees either
// the old complete file or the new complete file, never a partial one.
// Re-ingestion for the same admission number overwrites in place.
func (s *PhotoStorage) StorePassport(admissionNumber string, jpegData []byte) (string, error) {
	relPath, err := RelativePhotoPath(admissionNumber, time.Now())
	if err != nil {
		return "", err
	}

	finalPath := filepath.Join(s.baseDir, filepath.FromSlash(relPath))
	dir := filepath.Dir(finalPath)

	// MkdirAll tolerates the directory already existing, including one
	// created by a racing concurrent request
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", errors.New("Failed to create upload directory")
	}

	tmpPath := filepath.Join(dir, "."+uuid.New().String()+".tmp")
	if err := os.WriteFile(tmpPath, jpegData, 0644); err != nil {
		os.Remove(tmpPath)
		return "", errors.New("Failed to save processed photo")
	}
	if err := os.Rename(tmpPath, finalPath); err != nil {
		os.Remove(tmpPath)
		return "", errors.New("Failed to save processed photo")
	}

	// World-readable so the web layer can serve it as a static asset
	if err := os.Chmod(finalPath, 0644); err != nil {
		return "", fmt.Errorf("failed to set photo permissions: %w", err)
	}

	return relPath, nil
}

// Delete removes a stored photo. Deleting a missing file is success, so
// the operation is idempotent.
func (s *PhotoStorage) Delete(relPath string) error {
	abs, err := s.absPath(relPath)
	if err != nil {
		return err
	}
	if err := os.Remove(abs); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete photo: %w", err)
	}
	return nil
}

// Resolve returns relPath if the file currently exists on disk, else the
// placeholder. The existence check happens at read time, so an externally
// deleted file degrades to the placeholder without a database update.
func (s *PhotoStorage) Resolve(relPath, placeholder string) string {
	if relPath == "" {
		return placeholder
	}
	abs, err := s.absPath(relPath)
	if err != nil {
		return placeholder
	}
	if info, err := os.Stat(abs); err != nil || info.IsDir() {
		return placeholder
	}
	return relPath
}

// absPath maps a stored relative path onto the base dir, refusing paths
// that would escape the upload tree.
func (s *PhotoStorage) absPath(relPath string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(relPath))
	if clean == "." || strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return "", fmt.Errorf("invalid photo path %q", relPath)
	}
	return filepath.Join(s.baseDir, clean), nil
}
