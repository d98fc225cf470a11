package services

import (
	"errors"
	"io/fs"
	"log"
	"os"
	"path/filepath"
)

const guardManifestName = ".access-rules"
const guardIndexName = "index"

// accessRules is the hardening manifest dropped at the root of the upload
// tree: no script execution, no directory listing, no dotfiles, images only.
const accessRules = `# Upload tree hardening. Managed by schoolhub; edits are preserved.
Options -Indexes -ExecCGI
RemoveHandler .php .phtml .php3 .php4 .php5 .pl .py .cgi .sh
RemoveType .php .phtml .php3 .php4 .php5 .pl .py .cgi .sh
php_flag engine off

<FilesMatch "^\.">
    Require all denied
</FilesMatch>

<FilesMatch "\.(?i:jpe?g|png|gif|webp)$">
    Require all granted
</FilesMatch>

<FilesMatch "^(?!.*\.(?i:jpe?g|png|gif|webp)$).*$">
    Require all denied
</FilesMatch>
`

const guardIndexBody = "403 Forbidden\n"

// UploadGuard applies one-time hardening to the upload directory tree.
// Both artifacts are created only if missing and never overwritten, so an
// operator's customized manifest survives restarts.
type UploadGuard struct {
	baseDir string
}

func NewUploadGuard(baseDir string) *UploadGuard {
	return &UploadGuard{baseDir: baseDir}
}

// Ensure creates the hardening manifest and the anti-browsing stub if
// absent. Failures are logged, not returned: hardening is best-effort and
// must never block a photo write.
func (g *UploadGuard) Ensure() {
	if err := os.MkdirAll(g.baseDir, 0755); err != nil {
		log.Printf("Upload guard: could not create base dir %s: %v", g.baseDir, err)
		return
	}

	if err := createIfMissing(filepath.Join(g.baseDir, guardManifestName), accessRules); err != nil {
		log.Printf("Upload guard: could not write hardening manifest: %v", err)
	}
	if err := createIfMissing(filepath.Join(g.baseDir, guardIndexName), guardIndexBody); err != nil {
		log.Printf("Upload guard: could not write anti-browsing stub: %v", err)
	}
}

// createIfMissing writes content with O_EXCL so an existing file is left
// untouched. "Already exists" is success.
func createIfMissing(path, content string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return nil
		}
		return err
	}
	defer f.Close()

	_, err = f.WriteString(content)
	return err
}
