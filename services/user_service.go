package services

import (
	"errors"
	"strings"
	"time"

	"github.com/maous26/lvmeal-sub008/models"
	"github.com/maous26/lvmeal-sub008/utils"

	"gorm.io/gorm"
)

var validGoals = map[string]bool{
	models.GoalWeightLoss: true,
	models.GoalMaintain:   true,
	models.GoalMuscleGain: true,
}

var validDietTypes = map[string]bool{
	"omnivore":    true,
	"vegetarian":  true,
	"vegan":       true,
	"pescatarian": true,
	"keto":        true,
	"lowcarb":     true,
}

var validPreferences = map[string]bool{
	"fresh":    true,
	"recipes":  true,
	"quick":    true,
	"balanced": true,
}

var validCheatFrequencies = map[string]bool{
	"weekly":   true,
	"biweekly": true,
	"monthly":  true,
}

// Protein targets per goal, g per kg of body weight.
var proteinPerKgByGoal = map[string]float64{
	models.GoalWeightLoss: 1.8,
	models.GoalMaintain:   1.2,
	models.GoalMuscleGain: 2.0,
}

type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

func (s *UserService) FindByID(userID uint) (*models.User, error) {
	var user models.User
	if err := s.db.Where("id = ? AND disabled = ?", userID, false).First(&user).Error; err != nil {
		return nil, errors.New("user not found or disabled")
	}
	return &user, nil
}

// OnboardingInput is the full profile collected by the onboarding
// flow. Birthday is sent as YYYY-MM-DD.
type OnboardingInput struct {
	Goal                 string   `json:"goal"`
	Sex                  string   `json:"sex"`
	Birthday             string   `json:"birthday"`
	HeightCm             float64  `json:"height_cm"`
	WeightKg             float64  `json:"weight_kg"`
	ActivityLevel        string   `json:"activity_level"`
	DietType             string   `json:"diet_type"`
	Allergens            []string `json:"allergens"`
	MealSourcePreference string   `json:"meal_source_preference"`
	CheatFrequency       string   `json:"cheat_frequency"`
}

func (in OnboardingInput) validate() error {
	if !validGoals[in.Goal] {
		return errors.New("invalid goal")
	}
	if in.Sex != "male" && in.Sex != "female" {
		return errors.New("invalid sex")
	}
	if !utils.ValidActivityLevel(in.ActivityLevel) {
		return errors.New("invalid activity level")
	}
	if in.DietType != "" && !validDietTypes[in.DietType] {
		return errors.New("invalid diet type")
	}
	if in.MealSourcePreference != "" && !validPreferences[in.MealSourcePreference] {
		return errors.New("invalid meal source preference")
	}
	if in.CheatFrequency != "" && !validCheatFrequencies[in.CheatFrequency] {
		return errors.New("invalid cheat frequency")
	}
	return nil
}

// CompleteOnboarding fills the coaching profile, computes the calorie
// and protein targets from it, and seeds the program at discovery
// week 1.
func (s *UserService) CompleteOnboarding(userID uint, in OnboardingInput) (*models.User, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	user, err := s.FindByID(userID)
	if err != nil {
		return nil, err
	}

	birthday, err := time.Parse("2006-01-02", in.Birthday)
	if err != nil {
		return nil, errors.New("birthday must be YYYY-MM-DD")
	}

	age := utils.CalculateAge(birthday)
	bmr, err := utils.CalculateBMR(in.Sex, age, in.HeightCm, in.WeightKg)
	if err != nil {
		return nil, err
	}
	tdee := utils.CalculateTDEE(bmr, in.ActivityLevel)

	user.Goal = in.Goal
	user.Sex = in.Sex
	user.Birthday = birthday
	user.HeightCm = in.HeightCm
	user.WeightKg = in.WeightKg
	user.ActivityLevel = in.ActivityLevel
	if in.DietType != "" {
		user.DietType = in.DietType
	}
	user.Allergens = strings.Join(in.Allergens, ",")
	if in.MealSourcePreference != "" {
		user.MealSourcePreference = in.MealSourcePreference
	}
	if in.CheatFrequency != "" {
		user.CheatFrequency = in.CheatFrequency
	}
	user.TargetCalories = utils.TargetCalories(tdee, in.Goal)
	user.ProteinPerKg = proteinPerKgByGoal[in.Goal]
	user.Onboarded = true

	if err := s.db.Save(user).Error; err != nil {
		return nil, err
	}

	// Seed the program position; re-onboarding never resets it.
	state := models.PhaseState{
		UserID:      userID,
		Phase:       models.PhaseDiscovery,
		CurrentWeek: 1,
		StartedAt:   time.Now(),
	}
	if err := s.db.Where("user_id = ?", userID).FirstOrCreate(&state).Error; err != nil {
		return nil, err
	}

	return user, nil
}

// ProfileUpdate carries the mutable subset of the profile; zero
// values mean "leave unchanged".
type ProfileUpdate struct {
	FullName             string   `json:"full_name"`
	WeightKg             float64  `json:"weight_kg"`
	ActivityLevel        string   `json:"activity_level"`
	DietType             string   `json:"diet_type"`
	Allergens            []string `json:"allergens"`
	MealSourcePreference string   `json:"meal_source_preference"`
	CheatFrequency       string   `json:"cheat_frequency"`
	MFAEnabled           *bool    `json:"mfa_enabled"`
}

// UpdateProfile applies the changes and recomputes the calorie target
// when weight or activity moved.
func (s *UserService) UpdateProfile(userID uint, in ProfileUpdate) (*models.User, error) {
	user, err := s.FindByID(userID)
	if err != nil {
		return nil, err
	}

	recompute := false
	if in.FullName != "" {
		user.FullName = in.FullName
	}
	if in.WeightKg > 0 {
		user.WeightKg = in.WeightKg
		recompute = true
	}
	if in.ActivityLevel != "" {
		if !utils.ValidActivityLevel(in.ActivityLevel) {
			return nil, errors.New("invalid activity level")
		}
		user.ActivityLevel = in.ActivityLevel
		recompute = true
	}
	if in.DietType != "" {
		if !validDietTypes[in.DietType] {
			return nil, errors.New("invalid diet type")
		}
		user.DietType = in.DietType
	}
	if in.Allergens != nil {
		user.Allergens = strings.Join(in.Allergens, ",")
	}
	if in.MealSourcePreference != "" {
		if !validPreferences[in.MealSourcePreference] {
			return nil, errors.New("invalid meal source preference")
		}
		user.MealSourcePreference = in.MealSourcePreference
	}
	if in.CheatFrequency != "" {
		if !validCheatFrequencies[in.CheatFrequency] {
			return nil, errors.New("invalid cheat frequency")
		}
		user.CheatFrequency = in.CheatFrequency
	}
	if in.MFAEnabled != nil {
		user.MFAEnabled = *in.MFAEnabled
	}

	if recompute && user.Onboarded && !user.Birthday.IsZero() {
		age := utils.CalculateAge(user.Birthday)
		if bmr, err := utils.CalculateBMR(user.Sex, age, user.HeightCm, user.WeightKg); err == nil {
			user.TargetCalories = utils.TargetCalories(utils.CalculateTDEE(bmr, user.ActivityLevel), user.Goal)
		}
	}

	if err := s.db.Save(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// Profile is the user as exposed over the API, password and secrets
// stripped, with derived values the app displays.
func (s *UserService) Profile(userID uint) (map[string]interface{}, error) {
	user, err := s.FindByID(userID)
	if err != nil {
		return nil, err
	}

	age := 0
	if !user.Birthday.IsZero() {
		age = utils.CalculateAge(user.Birthday)
	}

	out := map[string]interface{}{
		"id":                     user.ID,
		"email":                  user.Email,
		"full_name":              user.FullName,
		"goal":                   user.Goal,
		"sex":                    user.Sex,
		"age":                    age,
		"height_cm":              user.HeightCm,
		"weight_kg":              user.WeightKg,
		"activity_level":         user.ActivityLevel,
		"diet_type":              user.DietType,
		"allergens":              splitCSV(user.Allergens),
		"meal_source_preference": user.MealSourcePreference,
		"target_calories":        user.TargetCalories,
		"protein_per_kg":         user.ProteinPerKg,
		"cheat_frequency":        user.CheatFrequency,
		"onboarded":              user.Onboarded,
		"mfa_enabled":            user.MFAEnabled,
	}

	if bmi, err := utils.CalculateBMI(user.HeightCm, user.WeightKg); err == nil {
		out["bmi"] = bmi
		out["bmi_category"] = utils.BMICategory(bmi)
	}
	return out, nil
}

// Disable soft-deletes the account.
func (s *UserService) Disable(userID uint) error {
	return s.db.Model(&models.User{}).
		Where("id = ?", userID).
		Update("disabled", true).Error
}

func splitCSV(s string) []string {
	if s == "" {
		return []string{}
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
