package domain

import "time"

const DefaultAllowance = 10

type User struct {
	ID          int64
	DisplayName string
	Allowance   int
	Blocked     bool
	Admin       bool
	Locale      Locale
	CreatedAt   time.Time
	LastActive  time.Time
}

type UserSummary struct {
	User
	Generations int
	Spent       float64
}
