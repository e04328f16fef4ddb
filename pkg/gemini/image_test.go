package gemini

import (
	"bytes"
	"image/png"
	"testing"
)

func TestDetectMIME(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		expected string
	}{
		{"png", testImage(t, png.Encode), "image/png"},
		{"jpeg", testImage(t, encodeJPEG), "image/jpeg"},
		{"gif", []byte("GIF89a\x01\x00\x01\x00\x00\x00\x00;"), "image/gif"},
		{"webp", []byte("RIFF\x1a\x00\x00\x00WEBPVP8 "), "image/webp"},
		{"unknown", []byte("definitely not an image"), "image/jpeg"},
		{"empty", nil, "image/jpeg"},
	}

	for _, test := range tests {
		if got := DetectMIME(test.data); got != test.expected {
			t.Errorf("%s: expected %s, got %s", test.name, test.expected, got)
		}
	}
}

func TestToPNG(t *testing.T) {
	out, err := ToPNG(testImage(t, encodeJPEG))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("\x89PNG")) {
		t.Errorf("expected png signature")
	}

	if _, err := ToPNG([]byte("garbage")); err == nil {
		t.Error("expected error for undecodable input")
	}
}
