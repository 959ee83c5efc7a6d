package services

import (
	"errors"
	"time"

	"github.com/maous26/lvmeal-sub008/models"

	"gorm.io/gorm"
)

var validMealTypes = map[string]bool{
	"breakfast": true,
	"lunch":     true,
	"dinner":    true,
	"snack":     true,
}

// MealService logs meals and keeps the day's caloric balance in sync:
// every write recomputes the day's consumed total and pushes it into
// the balance table.
type MealService struct {
	db      *gorm.DB
	balance *BalanceService
}

func NewMealService(db *gorm.DB, balance *BalanceService) *MealService {
	return &MealService{db: db, balance: balance}
}

// LogMeal stores the meal and refreshes the day's balance against the
// user's calorie target.
func (s *MealService) LogMeal(userID uint, meal models.Meal) (*models.Meal, error) {
	if !validMealTypes[meal.Type] {
		return nil, errors.New("invalid meal type")
	}
	if meal.Calories < 0 {
		return nil, errors.New("calories cannot be negative")
	}
	if meal.AteAt.IsZero() {
		meal.AteAt = time.Now()
	}
	meal.UserID = userID
	if meal.Source == "" {
		meal.Source = "manual"
	}

	if err := s.db.Create(&meal).Error; err != nil {
		return nil, err
	}
	if err := s.refreshBalance(userID, meal.AteAt); err != nil {
		return nil, err
	}
	return &meal, nil
}

// DeleteMeal removes a logged meal and refreshes that day's balance.
func (s *MealService) DeleteMeal(userID, mealID uint) error {
	var meal models.Meal
	if err := s.db.Where("id = ? AND user_id = ?", mealID, userID).First(&meal).Error; err != nil {
		return err
	}
	if err := s.db.Unscoped().Delete(&meal).Error; err != nil {
		return err
	}
	return s.refreshBalance(userID, meal.AteAt)
}

func (s *MealService) refreshBalance(userID uint, at time.Time) error {
	day := dayStartLocal(at)

	var consumed float64
	err := s.db.Model(&models.Meal{}).
		Where("user_id = ? AND ate_at >= ? AND ate_at < ?", userID, day, day.AddDate(0, 0, 1)).
		Select("COALESCE(SUM(calories), 0)").
		Scan(&consumed).Error
	if err != nil {
		return err
	}

	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		return err
	}

	_, err = s.balance.UpdateDailyBalance(userID, day, user.TargetCalories, consumed)
	return err
}

// ListMeals returns the meals of one local day, oldest first.
func (s *MealService) ListMeals(userID uint, date time.Time) ([]models.Meal, error) {
	day := dayStartLocal(date)
	var meals []models.Meal
	err := s.db.
		Where("user_id = ? AND ate_at >= ? AND ate_at < ?", userID, day, day.AddDate(0, 0, 1)).
		Order("ate_at ASC").
		Find(&meals).Error
	return meals, err
}

// DaySummary aggregates a day's meals into totals per macro.
type DaySummary struct {
	Date     time.Time     `json:"date"`
	Meals    []models.Meal `json:"meals"`
	Calories float64       `json:"calories"`
	Proteins float64       `json:"proteins"`
	Carbs    float64       `json:"carbs"`
	Fats     float64       `json:"fats"`
}

func (s *MealService) Summary(userID uint, date time.Time) (*DaySummary, error) {
	meals, err := s.ListMeals(userID, date)
	if err != nil {
		return nil, err
	}
	sum := &DaySummary{Date: dayStartLocal(date), Meals: meals}
	for _, m := range meals {
		sum.Calories += m.Calories
		sum.Proteins += m.Proteins
		sum.Carbs += m.Carbs
		sum.Fats += m.Fats
	}
	return sum, nil
}
