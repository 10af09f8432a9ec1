package qrcode

import (
	"fmt"

	qr "github.com/skip2/go-qrcode"

	"eventregistration/internal/domain"
)

// DefaultSize is the PNG edge length in pixels.
const DefaultSize = 256

type encoder struct {
	size  int
	level qr.RecoveryLevel
}

// NewEncoder returns a QREncoder producing size x size PNGs with medium error correction.
func NewEncoder(size int) domain.QREncoder {
	if size <= 0 {
		size = DefaultSize
	}
	return &encoder{size: size, level: qr.Medium}
}

func (e *encoder) EncodePNG(content string) ([]byte, error) {
	png, err := qr.Encode(content, e.level, e.size)
	if err != nil {
		return nil, fmt.Errorf("failed to encode qr code: %w", err)
	}
	return png, nil
}
