package services

import (
	"fmt"
	"strings"

	"github.com/maous26/lvmeal-sub008/models"
)

// Prompt construction is kept as pure functions from typed contexts to
// strings so it can be unit-tested without any network call.

// BuildMealPrompt asks the model for a single meal proposal as JSON.
func BuildMealPrompt(mc MealContext) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Propose one %s around %.0f kcal.\n", mc.MealType, mealTargetCalories(mc)))
	if mc.DietType != "" && mc.DietType != "omnivore" {
		sb.WriteString(fmt.Sprintf("Diet: %s.\n", mc.DietType))
	}
	if len(mc.Allergens) > 0 {
		sb.WriteString(fmt.Sprintf("Strictly exclude these allergens: %s.\n", strings.Join(mc.Allergens, ", ")))
	}
	if mc.CalorieTolerancePct > 0 {
		sb.WriteString(fmt.Sprintf("Stay within %.0f%% of the calorie target.\n", mc.CalorieTolerancePct))
	}
	if mc.Query != "" {
		sb.WriteString(fmt.Sprintf("The user asked for: %q.\n", mc.Query))
	}
	sb.WriteString(`Answer as JSON: {"name": string, "grams": number, "calories": number, "proteins": number, "carbs": number, "fats": number, "note": string}.`)
	return sb.String()
}

// CoachContext is the typed input of the coach-message prompt.
type CoachContext struct {
	Goal           string
	Phase          string
	CurrentWeek    int
	AvgEnergy      float64
	AvgSleepHours  float64
	AvgSteps       float64
	CompletionRate float64
	BudgetKcal     float64
}

// BuildCoachPrompt asks for a short personalized tip as JSON.
func BuildCoachPrompt(cc CoachContext) string {
	var sb strings.Builder
	sb.WriteString("You are a supportive nutrition and wellness coach.\n")
	sb.WriteString(fmt.Sprintf("The user's goal is %s, currently in week %d of the %s phase.\n", cc.Goal, cc.CurrentWeek, cc.Phase))
	sb.WriteString(fmt.Sprintf(
		"Last 7 days: energy %.1f/5, sleep %.1fh, %.0f steps/day, logging completion %.0f%%, treat budget %.0f kcal.\n",
		cc.AvgEnergy, cc.AvgSleepHours, cc.AvgSteps, cc.CompletionRate*100, cc.BudgetKcal,
	))
	sb.WriteString("Write one short, concrete, encouraging tip (max 2 sentences) in French.\n")
	sb.WriteString(`Answer as JSON: {"title": string, "body": string, "category": string}.`)
	return sb.String()
}

// BuildRewritePrompt turns a naive user question into targeted
// knowledge-base search queries.
func BuildRewritePrompt(question string, user models.User) string {
	var sb strings.Builder
	sb.WriteString("Rewrite this nutrition/wellness question into 1-3 short French search queries for a scientific knowledge base.\n")
	sb.WriteString(fmt.Sprintf("Question: %q\n", question))
	sb.WriteString(fmt.Sprintf("User goal: %s.\n", user.Goal))
	sb.WriteString(`Answer as JSON: {"queries": [string], "category": "nutrition"|"wellness"|"metabolism"|"sport"|"health"}.`)
	return sb.String()
}

// BuildAnswerPrompt asks for a grounded answer citing passage ids.
func BuildAnswerPrompt(question string, passages []Passage, user models.User) string {
	var sb strings.Builder
	sb.WriteString("Answer the question in French using ONLY the passages below. ")
	sb.WriteString("Cite the passage id in [brackets] after every factual claim.\n\n")
	for _, p := range passages {
		sb.WriteString(fmt.Sprintf("[%s] (%s) %s\n", p.ID, p.Source, p.Content))
	}
	sb.WriteString(fmt.Sprintf("\nQuestion: %s\n", question))
	sb.WriteString(fmt.Sprintf("User goal: %s.\n", user.Goal))
	sb.WriteString(`Answer as JSON: {"answer": string, "citations": [string], "confidence": number}.`)
	return sb.String()
}
