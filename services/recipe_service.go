package services

import (
	"context"
	"math"
	"strings"

	"github.com/maous26/lvmeal-sub008/models"

	"gorm.io/gorm"
)

// Share of the daily calorie target each meal type gets, used when a
// meal-level target is not supplied.
var mealCalorieShare = map[string]float64{
	"breakfast": 0.25,
	"lunch":     0.35,
	"snack":     0.10,
	"dinner":    0.30,
}

// RecipeService is the Gustar recipe dataset source, DB-backed.
type RecipeService struct {
	db *gorm.DB
}

func NewRecipeService(db *gorm.DB) *RecipeService {
	return &RecipeService{db: db}
}

func (s *RecipeService) Name() string { return SourceGustar }

// mealTargetCalories resolves the per-meal calorie budget for the
// context, falling back to the type's share of a 2000 kcal day.
func mealTargetCalories(mc MealContext) float64 {
	share, ok := mealCalorieShare[mc.MealType]
	if !ok {
		share = 0.25
	}
	daily := mc.TargetCalories
	if daily <= 0 {
		daily = 2000
	}
	return daily * share
}

func (s *RecipeService) FindMeal(ctx context.Context, mc MealContext) (*MealSuggestion, error) {
	target := mealTargetCalories(mc)

	q := s.db.WithContext(ctx).
		Where("meal_types LIKE ?", "%"+mc.MealType+"%").
		Where("calories > 0")

	if mc.DietType != "" && mc.DietType != "omnivore" {
		q = q.Where("diet_tags LIKE ?", "%"+mc.DietType+"%")
	}
	for _, a := range mc.Allergens {
		q = q.Where("allergens NOT LIKE ?", "%"+a+"%")
	}
	if mc.Query != "" {
		q = q.Where("name LIKE ? OR name_fr LIKE ?", "%"+mc.Query+"%", "%"+mc.Query+"%")
	}

	var recipes []models.Recipe
	if err := q.Limit(10).Find(&recipes).Error; err != nil {
		return nil, err
	}
	if len(recipes) == 0 {
		return nil, nil
	}

	// Pick the recipe whose default serving lands closest to the
	// meal budget, then scale the portion onto the target.
	best := recipes[0]
	bestDelta := math.MaxFloat64
	for _, r := range recipes {
		serving := r.ServingGrams
		if serving <= 0 {
			serving = 100
		}
		kcal := r.Calories * serving / 100
		if d := math.Abs(kcal - target); d < bestDelta {
			best, bestDelta = r, d
		}
	}

	grams := target / best.Calories * 100
	grams = math.Round(grams*10) / 10
	factor := grams / 100

	name := best.Name
	if best.NameFr != "" {
		name = best.NameFr
	}
	return &MealSuggestion{
		Name:     name,
		Grams:    grams,
		Calories: math.Round(best.Calories * factor),
		Proteins: math.Round(best.Proteins*factor*10) / 10,
		Carbs:    math.Round(best.Carbs*factor*10) / 10,
		Fats:     math.Round(best.Fats*factor*10) / 10,
		Note:     strings.TrimSpace("recipe portion sized for " + mc.MealType),
	}, nil
}

// SearchRecipes backs the recipe-browsing endpoint.
func (s *RecipeService) SearchRecipes(ctx context.Context, query, mealType string, limit int) ([]models.Recipe, error) {
	if limit <= 0 || limit > 50 {
		limit = 20
	}
	q := s.db.WithContext(ctx).Model(&models.Recipe{})
	if query != "" {
		q = q.Where("name LIKE ? OR name_fr LIKE ?", "%"+query+"%", "%"+query+"%")
	}
	if mealType != "" {
		q = q.Where("meal_types LIKE ?", "%"+mealType+"%")
	}
	var recipes []models.Recipe
	err := q.Limit(limit).Find(&recipes).Error
	return recipes, err
}
