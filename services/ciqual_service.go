package services

import (
	"context"
	"math"

	"github.com/maous26/lvmeal-sub008/models"

	"gorm.io/gorm"
)

// Food groups worth proposing as the base of a meal, per meal type.
var ciqualGroupsByMeal = map[string][]string{
	"breakfast": {"cereals", "dairy", "fruits"},
	"lunch":     {"meat", "fish", "starches", "vegetables"},
	"dinner":    {"fish", "meat", "starches", "vegetables"},
	"snack":     {"fruits", "dairy", "nuts"},
}

// CiqualService serves generic foods from the CIQUAL nutrition table.
type CiqualService struct {
	db *gorm.DB
}

func NewCiqualService(db *gorm.DB) *CiqualService {
	return &CiqualService{db: db}
}

func (s *CiqualService) Name() string { return SourceCiqual }

func (s *CiqualService) FindMeal(ctx context.Context, mc MealContext) (*MealSuggestion, error) {
	target := mealTargetCalories(mc)

	groups := ciqualGroupsByMeal[mc.MealType]
	q := s.db.WithContext(ctx).Where("calories > 0")
	if mc.Query != "" {
		q = q.Where("name LIKE ? OR name_fr LIKE ?", "%"+mc.Query+"%", "%"+mc.Query+"%")
	} else if len(groups) > 0 {
		q = q.Where("\"group\" IN ?", groups)
	}

	var foods []models.CiqualFood
	if err := q.Limit(5).Find(&foods).Error; err != nil {
		return nil, err
	}
	if len(foods) == 0 {
		return nil, nil
	}

	f := foods[0]
	grams := math.Round(target/f.Calories*100*10) / 10
	factor := grams / 100

	name := f.Name
	if f.NameFr != "" {
		name = f.NameFr
	}
	return &MealSuggestion{
		Name:     name,
		Grams:    grams,
		Calories: math.Round(f.Calories * factor),
		Proteins: math.Round(f.Proteins*factor*10) / 10,
		Carbs:    math.Round(f.Carbs*factor*10) / 10,
		Fats:     math.Round(f.Fats*factor*10) / 10,
		Note:     "fresh generic food from the CIQUAL table",
	}, nil
}

// LookupFood backs the nutrition-facts lookup endpoint.
func (s *CiqualService) LookupFood(ctx context.Context, query string, limit int) ([]models.CiqualFood, error) {
	if limit <= 0 || limit > 50 {
		limit = 20
	}
	var foods []models.CiqualFood
	err := s.db.WithContext(ctx).
		Where("name LIKE ? OR name_fr LIKE ?", "%"+query+"%", "%"+query+"%").
		Limit(limit).
		Find(&foods).Error
	return foods, err
}
