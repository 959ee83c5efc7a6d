package models

import (
	"time"

	"gorm.io/gorm"
)

// CoachItem types.
const (
	CoachTip         = "tip"
	CoachAnalysis    = "analysis"
	CoachAlert       = "alert"
	CoachCelebration = "celebration"
)

// CoachItem is one generated coaching message. Items come either from
// deterministic rule evaluation or from an LLM call; dismissed items
// stay in a capped history.
type CoachItem struct {
	gorm.Model
	UserID uint `gorm:"index;not null"`

	Type     string `gorm:"size:16;not null"`
	Category string `gorm:"size:24"` // nutrition|activity|sleep|phase|budget
	Title    string
	Body     string `gorm:"type:text"`
	Priority int    // higher shows first

	ExpiresAt *time.Time
	Read      bool
	Dismissed bool
}
