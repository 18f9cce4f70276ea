package qr

import (
	"encoding/base64"

	qrcode "github.com/skip2/go-qrcode"
)

// Encoder renders QR codes as PNG data URIs suitable for embedding in an
// <img> tag.
type Encoder struct{}

// NewEncoder creates a QR encoder.
func NewEncoder() *Encoder {
	return &Encoder{}
}

// DataURI encodes text as a size x size PNG QR code and returns it as a
// base64 data URI.
func (e *Encoder) DataURI(text string, size int) (string, error) {
	png, err := qrcode.Encode(text, qrcode.Medium, size)
	if err != nil {
		return "", err
	}

	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
