package services

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestUploadGuardCreatesArtifacts(t *testing.T) {
	dir := t.TempDir()
	guard := NewUploadGuard(dir)

	guard.Ensure()

	manifest, err := os.ReadFile(filepath.Join(dir, guardManifestName))
	if err != nil {
		t.Fatalf("hardening manifest missing: %v", err)
	}
	if !strings.Contains(string(manifest), "-Indexes") {
		t.Error("manifest should disable directory listing")
	}
	if !strings.Contains(string(manifest), "php_flag engine off") {
		t.Error("manifest should disable script execution")
	}

	stub, err := os.ReadFile(filepath.Join(dir, guardIndexName))
	if err != nil {
		t.Fatalf("anti-browsing stub missing: %v", err)
	}
	if !strings.Contains(string(stub), "403") {
		t.Error("stub should answer 403")
	}
}

func TestUploadGuardIdempotent(t *testing.T) {
	dir := t.TempDir()
	guard := NewUploadGuard(dir)

	for i := 0; i < 5; i++ {
		guard.Ensure()
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("failed to read dir: %v", err)
	}
	if len(entries) != 2 {
		t.Errorf("expected exactly 2 guard artifacts, found %d", len(entries))
	}
}

func TestUploadGuardPreservesCustomizedManifest(t *testing.T) {
	dir := t.TempDir()
	custom := "# operator tuned this by hand\n"

	if err := os.WriteFile(filepath.Join(dir, guardManifestName), []byte(custom), 0644); err != nil {
		t.Fatalf("failed to seed custom manifest: %v", err)
	}

	NewUploadGuard(dir).Ensure()

	got, err := os.ReadFile(filepath.Join(dir, guardManifestName))
	if err != nil {
		t.Fatalf("manifest disappeared: %v", err)
	}
	if string(got) != custom {
		t.Error("Ensure must never overwrite an existing manifest")
	}
}
