package models

import (
	"time"

	"gorm.io/gorm"
)

// Meal is one logged meal with its nutrition snapshot. Source records
// where the entry came from (gustar|off|ciqual|llm|manual|photo).
type Meal struct {
	gorm.Model
	UserID uint      `gorm:"index;not null"`
	Type   string    `gorm:"size:16"` // breakfast|lunch|dinner|snack
	AteAt  time.Time `gorm:"index"`

	Name   string
	Source string `gorm:"size:12"`

	Calories float64
	Proteins float64
	Carbs    float64
	Fats     float64

	CheatMeal bool
}
