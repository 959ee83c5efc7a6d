package models

import (
	"time"

	"gorm.io/gorm"
)

// Goal values accepted on the profile.
const (
	GoalWeightLoss = "weight_loss"
	GoalMaintain   = "maintain"
	GoalMuscleGain = "muscle_gain"
)

type User struct {
	gorm.Model
	Email    string `gorm:"uniqueIndex;not null"`
	Password string `gorm:"not null"`
	FullName string

	// Coaching profile, filled during onboarding
	Goal          string    `gorm:"size:20;default:maintain"`
	Sex           string    `gorm:"size:10"`
	Birthday      time.Time
	HeightCm      float64
	WeightKg      float64
	ActivityLevel string `gorm:"size:20"` // sedentary|light|moderate|active|very_active
	DietType      string `gorm:"size:20"` // omnivore|vegetarian|vegan|pescatarian|keto|lowcarb
	Allergens     string `gorm:"type:text"` // comma-separated allergen codes

	// Meal suggestion preference: fresh|recipes|quick|balanced
	MealSourcePreference string `gorm:"size:16;default:balanced"`

	// Computed at onboarding from profile + goal
	TargetCalories float64
	ProteinPerKg   float64

	// Treat-meal frequency mode: weekly|biweekly|monthly
	CheatFrequency string `gorm:"size:12;default:weekly"`

	Onboarded  bool
	MFAEnabled bool
	MFACode    string
	ResetToken string
	Disabled   bool
}
