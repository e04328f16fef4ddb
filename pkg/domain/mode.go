package domain

import "fmt"

type Mode string

const (
	ModeTextToImage  Mode = ModeTextToImageCallback
	ModeImageToImage Mode = ModeImageToImageCallback
	ModeMultiImage   Mode = ModeMultiImageCallback
)

const (
	MaxReferenceImages = 14
	MinMultiImages     = 2
)

var Modes = []Mode{ModeTextToImage, ModeImageToImage, ModeMultiImage}

func ParseMode(s string) (Mode, error) {
	for _, m := range Modes {
		if string(m) == s {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown mode %q", s)
}

func (m Mode) Icon() string {
	switch m {
	case ModeTextToImage:
		return "🎨"
	case ModeImageToImage:
		return "✏️"
	case ModeMultiImage:
		return "🧩"
	}
	return ""
}

// ReferenceBounds returns the inclusive number of reference images a mode accepts.
func (m Mode) ReferenceBounds() (min, max int) {
	switch m {
	case ModeImageToImage:
		return 1, 1
	case ModeMultiImage:
		return MinMultiImages, MaxReferenceImages
	}
	return 0, 0
}
