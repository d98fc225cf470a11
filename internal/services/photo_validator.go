package services

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"mime/multipart"
	"strings"
)

// PhotoSource is the tagged union of the two ways a photo reaches the
// pipeline: a multipart file upload or a base64 camera capture.
type PhotoSource interface {
	photoSource()
}

// FileUpload is a photo arriving as a multipart form file.
type FileUpload struct {
	Filename string
	Size     int64
	// TransferErr is non-nil when the upload itself failed in transit.
	TransferErr error
	Open        func() (io.ReadCloser, error)
}

func (*FileUpload) photoSource() {}

// FileUploadFromMultipart adapts a multipart file header to a FileUpload.
func FileUploadFromMultipart(fh *multipart.FileHeader) *FileUpload {
	return &FileUpload{
		Filename: fh.Filename,
		Size:     fh.Size,
		Open: func() (io.ReadCloser, error) {
			return fh.Open()
		},
	}
}

// CameraCapture is a photo arriving as a base64 string, optionally with a
// data-URI prefix (data:image/jpeg;base64,...).
type CameraCapture struct {
	Data string
}

func (*CameraCapture) photoSource() {}

// validate decides whether the source is acceptable and returns the decoded
// bytes. A nil source returns (nil, nil): the valid "no photo" skip path.
// Validation is pure: it never touches the filesystem.
func (p *PhotoPipeline) validate(src PhotoSource) ([]byte, []string) {
	switch s := src.(type) {
	case nil:
		return nil, nil
	case *FileUpload:
		return p.validateFile(s)
	case *CameraCapture:
		return p.validateCapture(s)
	default:
		return nil, []string{"Unsupported photo source"}
	}
}

func (p *PhotoPipeline) validateFile(f *FileUpload) ([]byte, []string) {
	if f.TransferErr != nil {
		return nil, []string{"Photo upload failed, please try again"}
	}
	if f.Size == 0 {
		return nil, []string{"Uploaded photo is empty"}
	}
	if f.Size > p.maxBytes {
		return nil, []string{fmt.Sprintf("Photo exceeds the maximum size of %d MB", p.maxBytes/(1024*1024))}
	}

	src, err := f.Open()
	if err != nil {
		return nil, []string{"Photo upload failed, please try again"}
	}
	defer src.Close()

	// LimitReader guards against a lying Size field
	data, err := io.ReadAll(io.LimitReader(src, p.maxBytes+1))
	if err != nil {
		return nil, []string{"Photo upload failed, please try again"}
	}

	return p.checkBytes(data)
}

func (p *PhotoPipeline) validateCapture(c *CameraCapture) ([]byte, []string) {
	payload := stripDataURIPrefix(c.Data)

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, []string{"Invalid camera capture data"}
	}

	return p.checkBytes(data)
}

// checkBytes applies the shared size and content-signature checks. The
// declared MIME type is never trusted; only the sniffed signature counts.
func (p *PhotoPipeline) checkBytes(data []byte) ([]byte, []string) {
	if len(data) == 0 {
		return nil, []string{"Uploaded photo is empty"}
	}
	if int64(len(data)) > p.maxBytes {
		return nil, []string{fmt.Sprintf("Photo exceeds the maximum size of %d MB", p.maxBytes/(1024*1024))}
	}
	if !isJPEG(data) && !isPNG(data) {
		return nil, []string{"Photo must be a JPEG or PNG image"}
	}
	return data, nil
}

// stripDataURIPrefix removes a leading data:<mime>;base64, marker if present.
func stripDataURIPrefix(s string) string {
	if !strings.HasPrefix(s, "data:") {
		return s
	}
	if idx := strings.Index(s, ";base64,"); idx >= 0 {
		return s[idx+len(";base64,"):]
	}
	return s
}

var (
	jpegMagic = []byte{0xFF, 0xD8, 0xFF}
	pngMagic  = []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}
)

func isJPEG(data []byte) bool {
	return bytes.HasPrefix(data, jpegMagic)
}

func isPNG(data []byte) bool {
	return bytes.HasPrefix(data, pngMagic)
}
