package models

import (
	"time"

	"gorm.io/gorm"
)

// DailyBalance tracks target vs consumed calories for one day.
// Only the most recent 7 days are retained; older rows are pruned
// on every write so the spendable budget is always a 7-day sum.
type DailyBalance struct {
	gorm.Model
	UserID uint      `gorm:"index;not null"`
	Date   time.Time `gorm:"index;not null"`

	TargetCalories   float64
	ConsumedCalories float64
	Balance          float64 // target - consumed
	CheatDay         bool
}

// CheatLedger is the per-user treat-meal state. The weekly usage
// counter never exceeds 2 and resets when the 7-day window anchored
// at WindowStart rolls over.
type CheatLedger struct {
	gorm.Model
	UserID uint `gorm:"uniqueIndex;not null"`

	LastUsedAt  time.Time
	UsesInWeek  int
	WindowStart time.Time
	TotalSpent  float64
}
