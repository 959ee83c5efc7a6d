package utils

import (
	"errors"
	"math"
	"time"
)

// activityMultipliers maps activity level strings to their TDEE
// multiplier. Also the source of truth for valid levels on input.
var activityMultipliers = map[string]float64{
	"sedentary":   1.2,
	"light":       1.375,
	"moderate":    1.55,
	"active":      1.725,
	"very_active": 1.9,
}

func ValidActivityLevel(level string) bool {
	_, ok := activityMultipliers[level]
	return ok
}

func CalculateAge(birthday time.Time) int {
	now := time.Now()
	age := now.Year() - birthday.Year()
	if now.Before(birthday.AddDate(age, 0, 0)) {
		age--
	}
	return age
}

// CalculateBMR uses Mifflin-St Jeor. Height in cm, weight in kg.
func CalculateBMR(sex string, age int, heightCm, weightKg float64) (float64, error) {
	if heightCm <= 0 || weightKg <= 0 || age <= 0 {
		return 0, errors.New("age, height and weight must be positive")
	}
	if heightCm < 50 || heightCm > 250 || weightKg < 10 || weightKg > 400 {
		return 0, errors.New("height/weight out of plausible range")
	}

	bmr := 10*weightKg + 6.25*heightCm - 5*float64(age)
	if sex == "male" {
		bmr += 5
	} else {
		bmr -= 161
	}
	return bmr, nil
}

// CalculateTDEE multiplies BMR by the activity multiplier; unknown
// levels fall back to sedentary.
func CalculateTDEE(bmr float64, activityLevel string) float64 {
	mult, ok := activityMultipliers[activityLevel]
	if !ok {
		mult = activityMultipliers["sedentary"]
	}
	return bmr * mult
}

// TargetCalories adjusts TDEE for the coaching goal. This is also the
// deterministic fallback used when the AI estimate is unavailable.
func TargetCalories(tdee float64, goal string) float64 {
	switch goal {
	case "weight_loss":
		return math.Round(tdee * 0.85)
	case "muscle_gain":
		return math.Round(tdee * 1.10)
	default:
		return math.Round(tdee)
	}
}

// CalculateBMI expects height in centimeters and weight in kilograms.
func CalculateBMI(heightCm, weightKg float64) (float64, error) {
	if heightCm <= 0 || weightKg <= 0 {
		return 0, errors.New("height and weight must be positive")
	}
	if heightCm < 50 || heightCm > 250 || weightKg < 10 || weightKg > 400 {
		return 0, errors.New("height/weight out of plausible range")
	}

	h := heightCm / 100.0
	return weightKg / (h * h), nil
}

func BMICategory(bmi float64) string {
	switch {
	case bmi < 18.5:
		return "Underweight"
	case bmi < 25.0:
		return "Normal weight"
	case bmi < 30.0:
		return "Overweight"
	default:
		return "Obesity"
	}
}
