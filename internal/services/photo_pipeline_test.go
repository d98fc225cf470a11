package services

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestIngestCameraCapture(t *testing.T) {
	dir := t.TempDir()
	p := NewPhotoPipelineWithConfig(dir, defaultMaxPhotoBytes)

	result := p.Ingest("ADM-2026/010", captureOf(pngBytes(t, 1600, 900)))
	if !result.Success {
		t.Fatalf("ingest failed: %v", result.Errors)
	}
	if result.Path == nil {
		t.Fatal("expected a stored path")
	}

	wantPath := "students/" + time.Now().Format("2006") + "/ADM2026010.jpg"
	if *result.Path != wantPath {
		t.Errorf("path = %q, want %q", *result.Path, wantPath)
	}

	abs := filepath.Join(dir, filepath.FromSlash(*result.Path))
	w, h := decodeDims(t, abs)
	if w != passportWidth || h != passportHeight {
		t.Errorf("stored photo is %dx%d, want %dx%d", w, h, passportWidth, passportHeight)
	}
}

func TestIngestFileUpload(t *testing.T) {
	dir := t.TempDir()
	p := NewPhotoPipelineWithConfig(dir, defaultMaxPhotoBytes)

	result := p.Ingest("ADM011", fileUploadOf("portrait.jpg", jpegBytes(t, 600, 1200)))
	if !result.Success {
		t.Fatalf("ingest failed: %v", result.Errors)
	}

	abs := filepath.Join(dir, filepath.FromSlash(*result.Path))
	w, h := decodeDims(t, abs)
	if w != passportWidth || h != passportHeight {
		t.Errorf("stored photo is %dx%d, want %dx%d", w, h, passportWidth, passportHeight)
	}
}

func TestIngestNoPhotoIsSuccess(t *testing.T) {
	dir := t.TempDir()
	p := NewPhotoPipelineWithConfig(dir, defaultMaxPhotoBytes)

	result := p.Ingest("ADM012", nil)
	if !result.Success {
		t.Fatalf("no-photo ingest should succeed, got %v", result.Errors)
	}
	if result.Path != nil {
		t.Errorf("no-photo ingest should have nil path, got %q", *result.Path)
	}

	// Nothing must land under students/
	if _, err := os.Stat(filepath.Join(dir, "students")); !os.IsNotExist(err) {
		t.Error("no-photo ingest must not create the students tree")
	}
}

func TestIngestReingestLeavesOneFile(t *testing.T) {
	dir := t.TempDir()
	p := NewPhotoPipelineWithConfig(dir, defaultMaxPhotoBytes)

	if r := p.Ingest("ADM013", captureOf(pngBytes(t, 500, 500))); !r.Success {
		t.Fatalf("first ingest failed: %v", r.Errors)
	}
	if r := p.Ingest("ADM013", captureOf(jpegBytes(t, 1600, 900))); !r.Success {
		t.Fatalf("second ingest failed: %v", r.Errors)
	}

	yearDir := filepath.Join(dir, "students", time.Now().Format("2006"))
	entries, err := os.ReadDir(yearDir)
	if err != nil {
		t.Fatalf("failed to read year dir: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("expected one file after re-ingestion, found %d", len(entries))
	}
}

func TestIngestInvalidAdmission(t *testing.T) {
	p := NewPhotoPipelineWithConfig(t.TempDir(), defaultMaxPhotoBytes)

	result := p.Ingest("///", captureOf(pngBytes(t, 100, 100)))
	if result.Success {
		t.Fatal("ingest should fail for unsanitizable admission number")
	}
	if len(result.Errors) == 0 {
		t.Fatal("expected error messages")
	}
}

func TestIngestFailureLeavesNoFile(t *testing.T) {
	dir := t.TempDir()
	p := NewPhotoPipelineWithConfig(dir, defaultMaxPhotoBytes)

	result := p.Ingest("ADM014", &CameraCapture{Data: "%%%corrupt%%%"})
	if result.Success {
		t.Fatal("ingest should fail for corrupt capture data")
	}

	if _, err := os.Stat(filepath.Join(dir, "students")); !os.IsNotExist(err) {
		t.Error("failed ingest must not leave files behind")
	}
}

func TestIngestAppliesGuard(t *testing.T) {
	dir := t.TempDir()
	p := NewPhotoPipelineWithConfig(dir, defaultMaxPhotoBytes)

	if r := p.Ingest("ADM015", captureOf(pngBytes(t, 350, 450))); !r.Success {
		t.Fatalf("ingest failed: %v", r.Errors)
	}

	if _, err := os.Stat(filepath.Join(dir, guardManifestName)); err != nil {
		t.Error("ingest should drop the hardening manifest")
	}
	if _, err := os.Stat(filepath.Join(dir, guardIndexName)); err != nil {
		t.Error("ingest should drop the anti-browsing stub")
	}
}
