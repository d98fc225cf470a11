package services

import (
	"bytes"
	"image/color"
	"log"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"

	"github.com/openschool/schoolhub/backend/internal/metrics"
)

const thumbnailJPEGQuality = 85

// GenerateThumbnail derives a small letterboxed preview from a stored
// photo and writes it next to the source as thumb_<name>.jpg, returning
// the thumbnail's relative path.
//
// Thumbnails are best-effort: a missing source, decode failure or write
// failure returns nil rather than an error, and the caller treats that as
// "no thumbnail available". Unlike the passport crop, the source is FIT
// into the box (aspect preserved, white letterbox margins), not cropped.
func (s *PhotoStorage) GenerateThumbnail(relPath string, width, height int) *string {
	if width <= 0 || height <= 0 {
		width, height = 100, 100
	}

	srcAbs, err := s.absPath(relPath)
	if err != nil {
		metrics.ThumbnailsTotal.WithLabelValues("failed").Inc()
		return nil
	}
	if _, err := os.Stat(srcAbs); err != nil {
		metrics.ThumbnailsTotal.WithLabelValues("missing").Inc()
		return nil
	}

	src, err := imaging.Open(srcAbs)
	if err != nil {
		log.Printf("Thumbnail: failed to decode %s: %v", relPath, err)
		metrics.ThumbnailsTotal.WithLabelValues("failed").Inc()
		return nil
	}

	fitted := imaging.Fit(src, width, height, imaging.Lanczos)
	canvas := imaging.New(width, height, color.White)
	canvas = imaging.PasteCenter(canvas, fitted)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, canvas, imaging.JPEG, imaging.JPEGQuality(thumbnailJPEGQuality)); err != nil {
		log.Printf("Thumbnail: failed to encode %s: %v", relPath, err)
		metrics.ThumbnailsTotal.WithLabelValues("failed").Inc()
		return nil
	}

	thumbRel := filepath.ToSlash(filepath.Join(filepath.Dir(filepath.FromSlash(relPath)), "thumb_"+filepath.Base(relPath)))
	thumbAbs, err := s.absPath(thumbRel)
	if err != nil {
		metrics.ThumbnailsTotal.WithLabelValues("failed").Inc()
		return nil
	}

	// Same temp-then-rename discipline as the main photo write
	tmpPath := filepath.Join(filepath.Dir(thumbAbs), "."+uuid.New().String()+".tmp")
	if err := os.WriteFile(tmpPath, buf.Bytes(), 0644); err != nil {
		os.Remove(tmpPath)
		log.Printf("Thumbnail: failed to write %s: %v", thumbRel, err)
		metrics.ThumbnailsTotal.WithLabelValues("failed").Inc()
		return nil
	}
	if err := os.Rename(tmpPath, thumbAbs); err != nil {
		os.Remove(tmpPath)
		log.Printf("Thumbnail: failed to write %s: %v", thumbRel, err)
		metrics.ThumbnailsTotal.WithLabelValues("failed").Inc()
		return nil
	}

	metrics.ThumbnailsTotal.WithLabelValues("success").Inc()
	return &thumbRel
}
