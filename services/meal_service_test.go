package services

import (
	"testing"
	"time"

	"github.com/maous26/lvmeal-sub008/models"
)

func TestLogMealUpdatesBalance(t *testing.T) {
	db := newTestDB(t)
	balance := NewBalanceService(db)
	svc := NewMealService(db, balance)

	user := models.User{Email: "a@b.c", Password: "x", TargetCalories: 2000}
	if err := db.Create(&user).Error; err != nil {
		t.Fatal(err)
	}

	if _, err := svc.LogMeal(user.ID, models.Meal{Type: "lunch", Name: "Gratin", Calories: 700}); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.LogMeal(user.ID, models.Meal{Type: "dinner", Name: "Soupe", Calories: 400}); err != nil {
		t.Fatal(err)
	}

	rows, err := balance.ListBalances(user.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 {
		t.Fatalf("got %d balance rows, want 1", len(rows))
	}
	if rows[0].ConsumedCalories != 1100 || rows[0].Balance != 900 {
		t.Fatalf("balance row = consumed %.0f / balance %.0f, want 1100 / 900", rows[0].ConsumedCalories, rows[0].Balance)
	}
}

func TestLogMealRejectsBadInput(t *testing.T) {
	db := newTestDB(t)
	svc := NewMealService(db, NewBalanceService(db))

	if _, err := svc.LogMeal(1, models.Meal{Type: "brunch", Name: "X", Calories: 500}); err == nil {
		t.Fatal("unknown meal type accepted")
	}
	if _, err := svc.LogMeal(1, models.Meal{Type: "lunch", Name: "X", Calories: -100}); err == nil {
		t.Fatal("negative calories accepted")
	}
}

func TestDeleteMealRefreshesBalance(t *testing.T) {
	db := newTestDB(t)
	balance := NewBalanceService(db)
	svc := NewMealService(db, balance)

	user := models.User{Email: "a@b.c", Password: "x", TargetCalories: 2000}
	if err := db.Create(&user).Error; err != nil {
		t.Fatal(err)
	}

	meal, err := svc.LogMeal(user.ID, models.Meal{Type: "lunch", Name: "Gratin", Calories: 700})
	if err != nil {
		t.Fatal(err)
	}
	if err := svc.DeleteMeal(user.ID, meal.ID); err != nil {
		t.Fatal(err)
	}

	rows, err := balance.ListBalances(user.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 || rows[0].ConsumedCalories != 0 {
		t.Fatalf("balance after delete = %+v, want consumed 0", rows)
	}
}

func TestSummaryAggregatesDay(t *testing.T) {
	db := newTestDB(t)
	svc := NewMealService(db, NewBalanceService(db))

	user := models.User{Email: "a@b.c", Password: "x", TargetCalories: 2000}
	if err := db.Create(&user).Error; err != nil {
		t.Fatal(err)
	}

	meals := []models.Meal{
		{Type: "breakfast", Name: "Muesli", Calories: 350, Proteins: 12},
		{Type: "lunch", Name: "Poulet riz", Calories: 650, Proteins: 40},
	}
	for _, m := range meals {
		if _, err := svc.LogMeal(user.ID, m); err != nil {
			t.Fatal(err)
		}
	}
	// yesterday's meal must not leak into today's summary
	if _, err := svc.LogMeal(user.ID, models.Meal{Type: "dinner", Name: "Soupe", Calories: 400, AteAt: time.Now().AddDate(0, 0, -1)}); err != nil {
		t.Fatal(err)
	}

	sum, err := svc.Summary(user.ID, time.Now())
	if err != nil {
		t.Fatal(err)
	}
	if len(sum.Meals) != 2 || sum.Calories != 1000 || sum.Proteins != 52 {
		t.Fatalf("summary = %d meals / %.0f kcal / %.0f protein, want 2 / 1000 / 52", len(sum.Meals), sum.Calories, sum.Proteins)
	}
}
