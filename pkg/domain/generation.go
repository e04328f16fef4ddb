package domain

import "time"

type Generation struct {
	ID          int64
	UserID      int64
	Mode        Mode
	Quality     Quality
	AspectRatio string
	Prompt      string
	Success     bool
	Cost        float64
	SalePrice   float64
	CreatedAt   time.Time
}

type Stats struct {
	Users       int
	Generations int
	Successful  int
	Cost        float64
	Revenue     float64
}

// GenerationRequest is everything the image backend needs for one generation.
type GenerationRequest struct {
	Mode        Mode
	Prompt      string
	References  [][]byte
	AspectRatio string
	Quality     Quality
	Search      bool
}
