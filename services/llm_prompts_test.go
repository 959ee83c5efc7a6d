package services

import (
	"strings"
	"testing"

	"github.com/maous26/lvmeal-sub008/models"
)

func TestBuildMealPromptConstraints(t *testing.T) {
	mc := MealContext{
		MealType:            "dinner",
		DietType:            "vegetarian",
		Allergens:           []string{"gluten", "arachide"},
		TargetCalories:      2000,
		CalorieTolerancePct: 5,
		Query:               "quelque chose de léger",
	}
	prompt := BuildMealPrompt(mc)

	for _, want := range []string{"dinner", "vegetarian", "gluten", "arachide", "5%", "quelque chose de léger", "JSON"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q:\n%s", want, prompt)
		}
	}
	// dinner share of a 2000 kcal day
	if !strings.Contains(prompt, "600 kcal") {
		t.Errorf("prompt should target the dinner calorie share, got:\n%s", prompt)
	}
}

func TestBuildMealPromptOmitsEmptyConstraints(t *testing.T) {
	prompt := BuildMealPrompt(MealContext{MealType: "lunch", DietType: "omnivore", TargetCalories: 2000})
	if strings.Contains(prompt, "Diet:") {
		t.Error("omnivore must not be announced as a dietary constraint")
	}
	if strings.Contains(prompt, "allergens") {
		t.Error("no allergens were given")
	}
}

func TestBuildAnswerPromptCitesPassages(t *testing.T) {
	passages := []Passage{
		{ID: "anses-001", Source: "anses", Content: "Les protéines contribuent au maintien de la masse musculaire."},
		{ID: "inserm-002", Source: "inserm", Content: "Le sommeil régule l'appétit."},
	}
	prompt := BuildAnswerPrompt("Combien de protéines par jour ?", passages, models.User{Goal: models.GoalMuscleGain})

	for _, want := range []string{"[anses-001]", "[inserm-002]", "Combien de protéines par jour ?", models.GoalMuscleGain} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestBuildCoachPromptIncludesWeek(t *testing.T) {
	prompt := BuildCoachPrompt(CoachContext{
		Goal:           models.GoalWeightLoss,
		Phase:          models.PhaseWalking,
		CurrentWeek:    2,
		AvgEnergy:      3.2,
		AvgSleepHours:  6.8,
		AvgSteps:       7200,
		CompletionRate: 0.86,
		BudgetKcal:     800,
	})

	for _, want := range []string{"week 2", "walking", "86%", "800 kcal", "French"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q:\n%s", want, prompt)
		}
	}
}
