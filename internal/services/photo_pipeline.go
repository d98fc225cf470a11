package services

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/openschool/schoolhub/backend/internal/metrics"
)

const (
	// defaultMaxPhotoBytes caps accepted photo payloads (raw or base64-decoded)
	defaultMaxPhotoBytes = 5 * 1024 * 1024

	// PlaceholderPhotoPath is served whenever a student has no usable photo
	PlaceholderPhotoPath = "placeholder.jpg"
)

// PhotoResult is the outcome of a photo ingestion. Success is false exactly
// when Errors is non-empty; Path is nil when no photo was supplied or the
// operation failed.
type PhotoResult struct {
	Success bool     `json:"success"`
	Path    *string  `json:"path"`
	Errors  []string `json:"errors,omitempty"`
}

func photoFailure(errs ...string) PhotoResult {
	return PhotoResult{Success: false, Errors: errs}
}

// PhotoPipeline validates an uploaded or camera-captured student photo,
// normalizes it to the passport format and stores it under the upload dir.
type PhotoPipeline struct {
	storage  *PhotoStorage
	guard    *UploadGuard
	maxBytes int64
}

// NewPhotoPipeline creates a pipeline rooted at UPLOAD_DIR (default
// ./data/uploads) with a MAX_PHOTO_BYTES size cap.
func NewPhotoPipeline() *PhotoPipeline {
	uploadDir := os.Getenv("UPLOAD_DIR")
	if uploadDir == "" {
		uploadDir = "./data/uploads"
	}

	maxBytes := int64(defaultMaxPhotoBytes)
	if capStr := os.Getenv("MAX_PHOTO_BYTES"); capStr != "" {
		if v, err := strconv.ParseInt(capStr, 10, 64); err == nil && v > 0 {
			maxBytes = v
		}
	}

	return NewPhotoPipelineWithConfig(uploadDir, maxBytes)
}

// NewPhotoPipelineWithConfig creates a pipeline rooted at baseDir. Tests
// point this at a temp dir.
func NewPhotoPipelineWithConfig(baseDir string, maxBytes int64) *PhotoPipeline {
	return &PhotoPipeline{
		storage:  NewPhotoStorage(baseDir),
		guard:    NewUploadGuard(baseDir),
		maxBytes: maxBytes,
	}
}

// Storage exposes the underlying storage manager for path resolution and
// thumbnail generation.
func (p *PhotoPipeline) Storage() *PhotoStorage {
	return p.storage
}

// Ingest runs the full pipeline for one student photo: validate, normalize
// to 350x450 JPEG, store atomically at students/<year>/<admission>.jpg.
//
// A nil source is the "no photo provided" case and succeeds with a nil path.
// No partial file is ever left behind on any failure path.
func (p *PhotoPipeline) Ingest(admissionNumber string, src PhotoSource) PhotoResult {
	start := time.Now()

	data, errs := p.validate(src)
	if len(errs) > 0 {
		metrics.PhotoIngestsTotal.WithLabelValues(sourceLabel(src), "rejected").Inc()
		return photoFailure(errs...)
	}
	if data == nil {
		metrics.PhotoIngestsTotal.WithLabelValues("none", "success").Inc()
		return PhotoResult{Success: true}
	}

	if SanitizeAdmissionNumber(admissionNumber) == "" {
		metrics.PhotoIngestsTotal.WithLabelValues(sourceLabel(src), "rejected").Inc()
		return photoFailure("Invalid admission number")
	}

	// Hardening is best-effort: a failure here is logged inside Ensure and
	// never blocks the photo write.
	p.guard.Ensure()

	normalized, err := normalizePassport(data)
	if err != nil {
		metrics.PhotoIngestsTotal.WithLabelValues(sourceLabel(src), "failed").Inc()
		return photoFailure(err.Error())
	}

	relPath, err := p.storage.StorePassport(admissionNumber, normalized)
	if err != nil {
		metrics.PhotoIngestsTotal.WithLabelValues(sourceLabel(src), "failed").Inc()
		return photoFailure(err.Error())
	}

	metrics.PhotoIngestsTotal.WithLabelValues(sourceLabel(src), "success").Inc()
	metrics.PhotoBytesIn.Observe(float64(len(data)))
	metrics.PhotoProcessingDuration.Observe(time.Since(start).Seconds())

	return PhotoResult{Success: true, Path: &relPath}
}

// Delete removes a stored photo. Missing files are treated as success.
func (p *PhotoPipeline) Delete(relPath string) error {
	return p.storage.Delete(relPath)
}

// ChooseSource resolves the file-vs-base64 precedence: when both are
// present the file upload wins and the capture is dropped with a warning.
func ChooseSource(file *FileUpload, capture *CameraCapture) PhotoSource {
	if file != nil && capture != nil {
		log.Printf("Photo pipeline: both file and camera payloads present, using file upload")
		return file
	}
	if file != nil {
		return file
	}
	if capture != nil {
		return capture
	}
	return nil
}

func sourceLabel(src PhotoSource) string {
	switch src.(type) {
	case *FileUpload:
		return "file"
	case *CameraCapture:
		return "base64"
	default:
		return "none"
	}
}
