package models

import (
	"time"

	"gorm.io/gorm"
)

// The four fixed program phases, in progression order.
const (
	PhaseDiscovery   = "discovery"
	PhaseWalking     = "walking"
	PhaseResistance  = "resistance"
	PhaseFullProgram = "full_program"
)

// PhaseState is the per-user position in the metabolic program.
// The phase only ever advances through the fixed sequence.
type PhaseState struct {
	gorm.Model
	UserID uint `gorm:"uniqueIndex;not null"`

	Phase       string    `gorm:"size:20;not null"`
	CurrentWeek int       `gorm:"default:1"`
	StartedAt   time.Time
}

// WeekSummary is archived when a week closes or a phase transition
// happens, for the history screen and the weekly email.
type WeekSummary struct {
	gorm.Model
	UserID uint `gorm:"index;not null"`

	Phase          string `gorm:"size:20"`
	Week           int
	CompletionRate float64 // fraction of days logged, 0-1
	AvgEnergy      float64
	AvgSleepHours  float64
	AvgSteps       float64
	StrengthCount  int
}
