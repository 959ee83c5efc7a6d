package models

import (
	"time"

	"gorm.io/gorm"
)

// DailyLog is the once-per-day wellness entry. Re-logging the same
// date updates the existing row (upsert on user_id+date).
type DailyLog struct {
	gorm.Model
	UserID uint      `gorm:"index;not null"`
	Date   time.Time `gorm:"index;not null"` // local midnight

	Steps        int
	SleepHours   float64
	SleepQuality int // 1-5
	Energy       int // 1-5
	Stress       int // 1-5
	Mood         int // 1-5

	StrengthSession bool
	WalkingMinutes  int
}
