package models

import "gorm.io/gorm"

// Reminder is a scheduled local-time notification (meal or logging
// nudge). Identifier is the handle used to cancel the cron entry.
type Reminder struct {
	gorm.Model
	UserID uint `gorm:"index;not null"`

	Identifier string `gorm:"size:40;uniqueIndex"` // uuid
	Kind       string `gorm:"size:16"`             // breakfast|lunch|dinner|snack|log
	Hour       int
	Minute     int
	Enabled    bool `gorm:"default:true"`
}
