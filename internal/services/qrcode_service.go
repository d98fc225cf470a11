package services

import (
	"fmt"
	"log"

	lru "github.com/hashicorp/golang-lru/v2"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/openschool/schoolhub/backend/internal/metrics"
)

const qrImageSize = 256

// QRCodeService renders the QR code printed on student ID cards. Codes are
// deterministic per admission number, so generated PNGs sit behind an LRU
// cache (max 256 entries, a few hundred KB).
type QRCodeService struct {
	cache *lru.Cache[string, []byte]
}

func NewQRCodeService() *QRCodeService {
	cache, err := lru.New[string, []byte](256)
	if err != nil {
		log.Printf("Failed to create QR code cache: %v", err)
	}
	return &QRCodeService{cache: cache}
}

// IDCardQR returns a PNG QR code encoding the student's admission number.
func (s *QRCodeService) IDCardQR(admissionNumber string) ([]byte, error) {
	clean := SanitizeAdmissionNumber(admissionNumber)
	if clean == "" {
		return nil, fmt.Errorf("invalid admission number %q", admissionNumber)
	}

	if s.cache != nil {
		if png, ok := s.cache.Get(clean); ok {
			metrics.QRCacheHits.Inc()
			return png, nil
		}
	}
	metrics.QRCacheMisses.Inc()

	png, err := qrcode.Encode("schoolhub:student:"+clean, qrcode.Medium, qrImageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to encode QR code: %w", err)
	}

	if s.cache != nil {
		s.cache.Add(clean, png)
	}
	return png, nil
}
