package services

import (
	"testing"

	"github.com/maous26/lvmeal-sub008/models"

	"gorm.io/gorm"
)

func createUser(t *testing.T, db *gorm.DB) models.User {
	t.Helper()
	user := models.User{Email: "a@b.c", Password: "hashed", FullName: "Test"}
	if err := db.Create(&user).Error; err != nil {
		t.Fatal(err)
	}
	return user
}

func TestCompleteOnboardingComputesTargets(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)
	user := createUser(t, db)

	got, err := svc.CompleteOnboarding(user.ID, OnboardingInput{
		Goal:          models.GoalWeightLoss,
		Sex:           "male",
		Birthday:      "1990-01-15",
		HeightCm:      180,
		WeightKg:      85,
		ActivityLevel: "moderate",
		DietType:      "omnivore",
	})
	if err != nil {
		t.Fatal(err)
	}
	if !got.Onboarded {
		t.Fatal("onboarded flag not set")
	}
	if got.TargetCalories <= 0 {
		t.Fatal("target calories not computed")
	}
	// weight loss trims the TDEE, so the target sits below it
	if got.TargetCalories >= 2800 {
		t.Fatalf("target %.0f looks like an unadjusted TDEE", got.TargetCalories)
	}
	if got.ProteinPerKg != 1.8 {
		t.Fatalf("protein target = %.1f g/kg, want 1.8 for weight loss", got.ProteinPerKg)
	}

	// program seeded at discovery week 1
	var state models.PhaseState
	if err := db.Where("user_id = ?", user.ID).First(&state).Error; err != nil {
		t.Fatal(err)
	}
	if state.Phase != models.PhaseDiscovery || state.CurrentWeek != 1 {
		t.Fatalf("seeded state = %s week %d", state.Phase, state.CurrentWeek)
	}
}

func TestCompleteOnboardingValidation(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)
	user := createUser(t, db)

	base := OnboardingInput{
		Goal: models.GoalMaintain, Sex: "female", Birthday: "1995-06-01",
		HeightCm: 165, WeightKg: 60, ActivityLevel: "light",
	}

	bad := base
	bad.Goal = "bulk"
	if _, err := svc.CompleteOnboarding(user.ID, bad); err == nil {
		t.Fatal("invalid goal accepted")
	}

	bad = base
	bad.ActivityLevel = "couch"
	if _, err := svc.CompleteOnboarding(user.ID, bad); err == nil {
		t.Fatal("invalid activity level accepted")
	}

	bad = base
	bad.Birthday = "01/06/1995"
	if _, err := svc.CompleteOnboarding(user.ID, bad); err == nil {
		t.Fatal("invalid birthday format accepted")
	}
}

func TestUpdateProfileRecomputesTarget(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)
	user := createUser(t, db)

	onboarded, err := svc.CompleteOnboarding(user.ID, OnboardingInput{
		Goal: models.GoalMaintain, Sex: "male", Birthday: "1990-01-15",
		HeightCm: 180, WeightKg: 85, ActivityLevel: "moderate",
	})
	if err != nil {
		t.Fatal(err)
	}
	before := onboarded.TargetCalories

	updated, err := svc.UpdateProfile(user.ID, ProfileUpdate{WeightKg: 78})
	if err != nil {
		t.Fatal(err)
	}
	if updated.TargetCalories >= before {
		t.Fatalf("target %.0f did not drop after losing weight (was %.0f)", updated.TargetCalories, before)
	}
}

func TestDisableHidesUser(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)
	user := createUser(t, db)

	if err := svc.Disable(user.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.FindByID(user.ID); err == nil {
		t.Fatal("disabled user still found")
	}
}
