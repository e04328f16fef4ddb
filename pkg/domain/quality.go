package domain

import "fmt"

type Quality string

const (
	QualityLow    Quality = "low"
	QualityMedium Quality = "medium"
	QualityHigh   Quality = "high"
)

var Qualities = []Quality{QualityLow, QualityMedium, QualityHigh}

func ParseQuality(s string) (Quality, error) {
	for _, q := range Qualities {
		if string(q) == s {
			return q, nil
		}
	}
	return "", fmt.Errorf("unknown quality %q", s)
}

// Tier is the resolution label shown to users and sent to the backend as imageSize.
func (q Quality) Tier() string {
	switch q {
	case QualityLow:
		return "1K"
	case QualityMedium:
		return "2K"
	case QualityHigh:
		return "4K"
	}
	return ""
}

func (q Quality) Icon() string {
	switch q {
	case QualityLow:
		return "📱"
	case QualityMedium:
		return "🖥"
	case QualityHigh:
		return "🎬"
	}
	return ""
}
