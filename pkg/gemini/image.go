package gemini

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"

	"github.com/gabriel-vasile/mimetype"
	_ "golang.org/x/image/webp"
)

const fallbackMIME = "image/jpeg"

var supportedMIME = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// DetectMIME sniffs the image format from magic bytes, falling back to JPEG.
func DetectMIME(b []byte) string {
	m := mimetype.Detect(b).String()
	if supportedMIME[m] {
		return m
	}
	return fallbackMIME
}

// ToPNG re-encodes any decodable image as PNG.
func ToPNG(b []byte) ([]byte, error) {
	img, format, err := image.Decode(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}
	if format == "png" {
		return b, nil
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encoding %s as png: %w", format, err)
	}
	return buf.Bytes(), nil
}
