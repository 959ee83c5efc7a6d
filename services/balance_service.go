package services

import (
	"errors"
	"math"
	"time"

	"github.com/maous26/lvmeal-sub008/models"

	"gorm.io/gorm"
)

// Treat-meal budget thresholds per frequency mode (kcal).
const (
	cheatThresholdWeekly   = 500
	cheatThresholdBiweekly = 1000
	cheatThresholdMonthly  = 2000

	// Above this budget a single meal may only spend half of it.
	cheatSplitThreshold = 600

	// Hard cap on uses inside one rolling 7-day window.
	cheatMaxUsesPerWeek = 2

	balanceRetentionDays = 7
)

// Denial reasons returned by UseCheatMeal. The caller surfaces these
// as user-facing messages; no state changes on denial.
const (
	DenyBudgetBelowThreshold = "budget_below_threshold"
	DenyTooSoon              = "too_soon_since_last_use"
	DenyWeeklyLimit          = "weekly_limit_reached"
	DenyExceedsBudget        = "exceeds_remaining_budget"
	DenyExceedsMealCap       = "exceeds_per_meal_cap"
)

type CheatResult struct {
	Allowed         bool    `json:"allowed"`
	Reason          string  `json:"reason,omitempty"`
	Budget          float64 `json:"budget"`
	MaxPerMeal      float64 `json:"max_per_meal"`
	UsesInWeek      int     `json:"uses_in_week"`
	NextAvailableAt string  `json:"next_available_at,omitempty"`
}

type BalanceService struct {
	db *gorm.DB
}

func NewBalanceService(db *gorm.DB) *BalanceService {
	return &BalanceService{db: db}
}

func dayStartLocal(t time.Time) time.Time {
	loc := time.Local
	tt := t.In(loc)
	return time.Date(tt.Year(), tt.Month(), tt.Day(), 0, 0, 0, 0, loc)
}

// UpdateDailyBalance upserts the balance row for a date and prunes
// everything older than the 7-day retention window. The window is
// anchored at the most recent retained entry, so the list never holds
// more than 7 days.
func (s *BalanceService) UpdateDailyBalance(userID uint, date time.Time, target, consumed float64) (*models.DailyBalance, error) {
	day := dayStartLocal(date)

	bal := models.DailyBalance{
		UserID:           userID,
		Date:             day,
		TargetCalories:   target,
		ConsumedCalories: consumed,
		Balance:          target - consumed,
	}

	err := s.db.
		Where("user_id = ? AND date = ?", userID, day).
		Assign(map[string]interface{}{
			"target_calories":   target,
			"consumed_calories": consumed,
			"balance":           target - consumed,
		}).
		FirstOrCreate(&bal).Error
	if err != nil {
		return nil, err
	}

	if err := s.pruneOld(userID); err != nil {
		return nil, err
	}
	return &bal, nil
}

func (s *BalanceService) pruneOld(userID uint) error {
	var newest models.DailyBalance
	err := s.db.
		Where("user_id = ?", userID).
		Order("date DESC").
		First(&newest).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}

	cutoff := newest.Date.AddDate(0, 0, -(balanceRetentionDays - 1))
	return s.db.
		Where("user_id = ? AND date < ?", userID, cutoff).
		Unscoped().
		Delete(&models.DailyBalance{}).Error
}

func (s *BalanceService) ListBalances(userID uint) ([]models.DailyBalance, error) {
	var rows []models.DailyBalance
	err := s.db.
		Where("user_id = ?", userID).
		Order("date ASC").
		Find(&rows).Error
	return rows, err
}

// CheatMealBudget is the sum of positive per-day balances in the
// retained window, minus what was already spent inside the current
// ledger window. Never negative.
func (s *BalanceService) CheatMealBudget(userID uint) (float64, error) {
	rows, err := s.ListBalances(userID)
	if err != nil {
		return 0, err
	}

	var positive float64
	for _, r := range rows {
		if r.Balance > 0 {
			positive += r.Balance
		}
	}

	ledger, err := s.ledger(userID)
	if err != nil {
		return 0, err
	}

	budget := positive - ledger.TotalSpent
	if budget < 0 {
		budget = 0
	}
	return budget, nil
}

// MaxPlaisirPerMeal caps a single treat meal at half the budget once
// the budget passes the split threshold; below it the full budget can
// go into one meal.
func (s *BalanceService) MaxPlaisirPerMeal(budget float64) float64 {
	if budget > cheatSplitThreshold {
		return math.Floor(budget * 0.5)
	}
	return budget
}

func cheatThreshold(frequency string) float64 {
	switch frequency {
	case "biweekly":
		return cheatThresholdBiweekly
	case "monthly":
		return cheatThresholdMonthly
	default:
		return cheatThresholdWeekly
	}
}

func cheatSpacingDays(frequency string) int {
	switch frequency {
	case "biweekly":
		return 14
	case "monthly":
		return 30
	default:
		return 7
	}
}

// ledger fetches the per-user treat state, rolling the 7-day window
// (and its usage counter) forward when it has expired.
func (s *BalanceService) ledger(userID uint) (*models.CheatLedger, error) {
	var l models.CheatLedger
	err := s.db.Where("user_id = ?", userID).First(&l).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		l = models.CheatLedger{UserID: userID, WindowStart: dayStartLocal(time.Now())}
		if err := s.db.Create(&l).Error; err != nil {
			return nil, err
		}
		return &l, nil
	}
	if err != nil {
		return nil, err
	}

	if time.Since(l.WindowStart) >= balanceRetentionDays*24*time.Hour {
		l.WindowStart = dayStartLocal(time.Now())
		l.UsesInWeek = 0
		l.TotalSpent = 0
		if err := s.db.Save(&l).Error; err != nil {
			return nil, err
		}
	}
	return &l, nil
}

// CanHaveCheatMeal answers the gating question without spending.
func (s *BalanceService) CanHaveCheatMeal(userID uint, frequency string) (*CheatResult, error) {
	budget, err := s.CheatMealBudget(userID)
	if err != nil {
		return nil, err
	}
	ledger, err := s.ledger(userID)
	if err != nil {
		return nil, err
	}

	res := &CheatResult{
		Budget:     budget,
		MaxPerMeal: s.MaxPlaisirPerMeal(budget),
		UsesInWeek: ledger.UsesInWeek,
	}

	if budget < cheatThreshold(frequency) {
		res.Reason = DenyBudgetBelowThreshold
		return res, nil
	}
	if !ledger.LastUsedAt.IsZero() {
		next := ledger.LastUsedAt.AddDate(0, 0, cheatSpacingDays(frequency))
		if time.Now().Before(next) {
			res.Reason = DenyTooSoon
			res.NextAvailableAt = next.Format("2006-01-02")
			return res, nil
		}
	}
	if ledger.UsesInWeek >= cheatMaxUsesPerWeek {
		res.Reason = DenyWeeklyLimit
		return res, nil
	}

	res.Allowed = true
	return res, nil
}

// UseCheatMeal spends calories from the treat budget. All gates are
// re-checked; on any denial nothing is written.
func (s *BalanceService) UseCheatMeal(userID uint, frequency string, calories float64) (*CheatResult, error) {
	res, err := s.CanHaveCheatMeal(userID, frequency)
	if err != nil {
		return nil, err
	}
	if !res.Allowed {
		return res, nil
	}

	if calories > res.Budget {
		res.Allowed = false
		res.Reason = DenyExceedsBudget
		return res, nil
	}
	if calories > res.MaxPerMeal {
		res.Allowed = false
		res.Reason = DenyExceedsMealCap
		return res, nil
	}

	ledger, err := s.ledger(userID)
	if err != nil {
		return nil, err
	}
	ledger.TotalSpent += calories
	ledger.LastUsedAt = time.Now()
	ledger.UsesInWeek++
	if err := s.db.Save(ledger).Error; err != nil {
		return nil, err
	}

	// Flag today as a cheat day when a balance row exists for it.
	today := dayStartLocal(time.Now())
	s.db.Model(&models.DailyBalance{}).
		Where("user_id = ? AND date = ?", userID, today).
		Update("cheat_day", true)

	res.Budget -= calories
	res.MaxPerMeal = s.MaxPlaisirPerMeal(res.Budget)
	res.UsesInWeek = ledger.UsesInWeek
	return res, nil
}
