package domain

import "time"

type Pricing struct {
	ID        int64
	Mode      Mode
	Quality   Quality
	Cost      float64
	SalePrice float64
	UpdatedAt time.Time
}
