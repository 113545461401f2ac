package qrcode

import (
	"encoding/base64"
	"fmt"

	goqrcode "github.com/skip2/go-qrcode"
)

const dataURLPrefix = "data:image/png;base64,"

// PNGEncoder renders payloads as base64 PNG data URLs.
type PNGEncoder struct {
	size  int
	level goqrcode.RecoveryLevel
}

func NewPNGEncoder(size int) *PNGEncoder {
	if size <= 0 {
		size = 256
	}
	return &PNGEncoder{size: size, level: goqrcode.Medium}
}

func (e *PNGEncoder) Encode(payload []byte) (string, error) {
	png, err := goqrcode.Encode(string(payload), e.level, e.size)
	if err != nil {
		return "", fmt.Errorf("encode qr: %w", err)
	}
	return dataURLPrefix + base64.StdEncoding.EncodeToString(png), nil
}
