package services

import (
	"context"
	"testing"

	"github.com/maous26/lvmeal-sub008/models"
)

func seedRecipes(t *testing.T, svc *RecipeService) {
	t.Helper()
	recipes := []models.Recipe{
		{Name: "Chicken rice bowl", NameFr: "Bol poulet riz", MealTypes: "lunch,dinner", DietTags: "", Allergens: "", Calories: 150, Proteins: 12, Carbs: 18, Fats: 4, ServingGrams: 450},
		{Name: "Lentil curry", NameFr: "Curry de lentilles", MealTypes: "lunch,dinner", DietTags: "vegetarian,vegan", Allergens: "", Calories: 120, Proteins: 8, Carbs: 16, Fats: 3, ServingGrams: 400},
		{Name: "Peanut granola", NameFr: "Granola cacahuète", MealTypes: "breakfast", DietTags: "vegetarian", Allergens: "peanut,gluten", Calories: 450, Proteins: 12, Carbs: 55, Fats: 20, ServingGrams: 60},
	}
	for _, r := range recipes {
		if err := svc.db.Create(&r).Error; err != nil {
			t.Fatal(err)
		}
	}
}

func TestRecipeFindMealFiltersDietAndAllergens(t *testing.T) {
	svc := NewRecipeService(newTestDB(t))
	seedRecipes(t, svc)

	s, err := svc.FindMeal(context.Background(), MealContext{
		MealType:       "lunch",
		DietType:       "vegetarian",
		TargetCalories: 2000,
	})
	if err != nil {
		t.Fatal(err)
	}
	if s == nil || s.Name != "Curry de lentilles" {
		t.Fatalf("suggestion = %+v, want the vegetarian curry", s)
	}

	// allergen excludes the only breakfast recipe
	s, err = svc.FindMeal(context.Background(), MealContext{
		MealType:  "breakfast",
		Allergens: []string{"peanut"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if s != nil {
		t.Fatalf("peanut allergy must exclude the granola, got %+v", s)
	}
}

func TestRecipeFindMealScalesPortion(t *testing.T) {
	svc := NewRecipeService(newTestDB(t))
	seedRecipes(t, svc)

	// lunch share of 2000 kcal = 700; chicken bowl at 150/100g → 466.7 g
	s, err := svc.FindMeal(context.Background(), MealContext{MealType: "lunch", TargetCalories: 2000})
	if err != nil {
		t.Fatal(err)
	}
	if s == nil {
		t.Fatal("no suggestion")
	}
	if s.Calories != 700 {
		t.Fatalf("calories = %.0f, want the 700 kcal lunch share", s.Calories)
	}
	if s.Grams != 466.7 {
		t.Fatalf("grams = %.1f, want 466.7", s.Grams)
	}
}

func TestMealTargetCalories(t *testing.T) {
	tests := []struct {
		mc   MealContext
		want float64
	}{
		{MealContext{MealType: "breakfast", TargetCalories: 2000}, 500},
		{MealContext{MealType: "lunch", TargetCalories: 2000}, 700},
		{MealContext{MealType: "snack", TargetCalories: 2000}, 200},
		{MealContext{MealType: "dinner", TargetCalories: 2000}, 600},
		{MealContext{MealType: "dinner"}, 600},            // default 2000 kcal day
		{MealContext{MealType: "other", TargetCalories: 2000}, 500}, // unknown type gets a quarter
	}
	for _, tt := range tests {
		if got := mealTargetCalories(tt.mc); got != tt.want {
			t.Errorf("mealTargetCalories(%s) = %.0f, want %.0f", tt.mc.MealType, got, tt.want)
		}
	}
}

func TestCiqualFindMealUsesGroups(t *testing.T) {
	db := newTestDB(t)
	svc := NewCiqualService(db)

	foods := []models.CiqualFood{
		{Code: "1001", Name: "Apple", NameFr: "Pomme", Group: "fruits", Calories: 52, Proteins: 0.3, Carbs: 14, Fats: 0.2},
		{Code: "2001", Name: "Chicken breast", NameFr: "Blanc de poulet", Group: "meat", Calories: 120, Proteins: 26, Carbs: 0, Fats: 1.8},
	}
	for _, f := range foods {
		if err := db.Create(&f).Error; err != nil {
			t.Fatal(err)
		}
	}

	s, err := svc.FindMeal(context.Background(), MealContext{MealType: "snack", TargetCalories: 2000})
	if err != nil {
		t.Fatal(err)
	}
	if s == nil || s.Name != "Pomme" {
		t.Fatalf("snack suggestion = %+v, want the fruit", s)
	}

	s, err = svc.FindMeal(context.Background(), MealContext{MealType: "lunch", TargetCalories: 2000, Query: "poulet"})
	if err != nil {
		t.Fatal(err)
	}
	if s == nil || s.Name != "Blanc de poulet" {
		t.Fatalf("query suggestion = %+v, want the chicken", s)
	}
}
