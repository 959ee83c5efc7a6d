package models

import "gorm.io/gorm"

// Recipe is a row of the Gustar recipe dataset, seeded into the DB.
// Macros are per 100g; ServingGrams gives the default portion.
type Recipe struct {
	gorm.Model
	Name      string `gorm:"not null"`
	NameFr    string
	MealTypes string `gorm:"size:64"` // comma-separated: breakfast,lunch,dinner,snack
	DietTags  string `gorm:"size:128"`
	Allergens string `gorm:"size:128"`

	Calories float64 // per 100g
	Proteins float64
	Carbs    float64
	Fats     float64

	ServingGrams float64
	ImageURL     string
}

// CiqualFood is one entry of the French CIQUAL nutrition-facts table
// (generic foods, per-100g values).
type CiqualFood struct {
	gorm.Model
	Code     string `gorm:"uniqueIndex;size:16"`
	Name     string `gorm:"not null"`
	NameFr   string
	Group    string `gorm:"size:64"`

	Calories float64
	Proteins float64
	Carbs    float64
	Fats     float64
	Fiber    float64
	Sodium   float64 // mg
}
