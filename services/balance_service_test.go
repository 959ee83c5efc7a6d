package services

import (
	"testing"
	"time"

	"github.com/maous26/lvmeal-sub008/models"
)

func seedBalances(t *testing.T, svc *BalanceService, userID uint, days int, dailySurplus float64) {
	t.Helper()
	for i := days - 1; i >= 0; i-- {
		date := time.Now().AddDate(0, 0, -i)
		if _, err := svc.UpdateDailyBalance(userID, date, 2000, 2000-dailySurplus); err != nil {
			t.Fatalf("seed balance: %v", err)
		}
	}
}

func TestCheatMealBudgetSumsPositiveBalances(t *testing.T) {
	svc := NewBalanceService(newTestDB(t))

	seedBalances(t, svc, 1, 7, 500)

	budget, err := svc.CheatMealBudget(1)
	if err != nil {
		t.Fatalf("CheatMealBudget: %v", err)
	}
	if budget != 3500 {
		t.Fatalf("budget = %.0f, want 3500", budget)
	}
}

func TestCheatMealBudgetIgnoresNegativeDays(t *testing.T) {
	svc := NewBalanceService(newTestDB(t))

	// three days +400, two days -300
	for i := 0; i < 3; i++ {
		if _, err := svc.UpdateDailyBalance(1, time.Now().AddDate(0, 0, -i), 2000, 1600); err != nil {
			t.Fatal(err)
		}
	}
	for i := 3; i < 5; i++ {
		if _, err := svc.UpdateDailyBalance(1, time.Now().AddDate(0, 0, -i), 2000, 2300); err != nil {
			t.Fatal(err)
		}
	}

	budget, err := svc.CheatMealBudget(1)
	if err != nil {
		t.Fatal(err)
	}
	if budget != 1200 {
		t.Fatalf("budget = %.0f, want 1200 (negative days must not subtract)", budget)
	}
}

func TestBalanceRetentionKeepsSevenDays(t *testing.T) {
	svc := NewBalanceService(newTestDB(t))

	seedBalances(t, svc, 1, 10, 100)

	rows, err := svc.ListBalances(1)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 7 {
		t.Fatalf("retained %d rows, want 7", len(rows))
	}
	oldest := rows[0].Date
	if time.Since(oldest) > 7*24*time.Hour {
		t.Fatalf("oldest retained row %s is outside the window", oldest)
	}
}

func TestUpdateDailyBalanceUpsertsSameDay(t *testing.T) {
	svc := NewBalanceService(newTestDB(t))

	if _, err := svc.UpdateDailyBalance(1, time.Now(), 2000, 1500); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.UpdateDailyBalance(1, time.Now(), 2000, 1800); err != nil {
		t.Fatal(err)
	}

	rows, err := svc.ListBalances(1)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 {
		t.Fatalf("got %d rows for one day, want 1", len(rows))
	}
	if rows[0].Balance != 200 {
		t.Fatalf("balance = %.0f, want 200 (second write wins)", rows[0].Balance)
	}
}

func TestMaxPlaisirPerMeal(t *testing.T) {
	svc := NewBalanceService(newTestDB(t))

	tests := []struct {
		budget float64
		want   float64
	}{
		{0, 0},
		{400, 400},   // at or below the split threshold: whole budget
		{600, 600},   // boundary stays un-split
		{601, 300},   // above it: floor of half
		{3500, 1750},
		{999, 499}, // floor, not round
	}
	for _, tt := range tests {
		if got := svc.MaxPlaisirPerMeal(tt.budget); got != tt.want {
			t.Errorf("MaxPlaisirPerMeal(%.0f) = %.0f, want %.0f", tt.budget, got, tt.want)
		}
	}
}

func TestUseCheatMealSpendingScenario(t *testing.T) {
	svc := NewBalanceService(newTestDB(t))

	seedBalances(t, svc, 1, 7, 500) // budget 3500, per-meal cap 1750

	res, err := svc.UseCheatMeal(1, "weekly", 1800)
	if err != nil {
		t.Fatal(err)
	}
	if res.Allowed {
		t.Fatal("1800 kcal exceeds the per-meal cap and must be denied")
	}
	if res.Reason != DenyExceedsMealCap {
		t.Fatalf("reason = %q, want %q", res.Reason, DenyExceedsMealCap)
	}

	res, err = svc.UseCheatMeal(1, "weekly", 1700)
	if err != nil {
		t.Fatal(err)
	}
	if !res.Allowed {
		t.Fatalf("1700 kcal within the cap was denied: %s", res.Reason)
	}
	if res.Budget != 1800 {
		t.Fatalf("remaining budget = %.0f, want 1800", res.Budget)
	}

	budget, err := svc.CheatMealBudget(1)
	if err != nil {
		t.Fatal(err)
	}
	if budget != 1800 {
		t.Fatalf("persisted budget = %.0f, want 1800", budget)
	}
}

func TestUseCheatMealDeniesBelowThreshold(t *testing.T) {
	svc := NewBalanceService(newTestDB(t))

	seedBalances(t, svc, 1, 4, 100) // budget 400 < weekly threshold 500

	res, err := svc.UseCheatMeal(1, "weekly", 300)
	if err != nil {
		t.Fatal(err)
	}
	if res.Allowed {
		t.Fatal("budget below the weekly threshold must deny the treat")
	}
	if res.Reason != DenyBudgetBelowThreshold {
		t.Fatalf("reason = %q, want %q", res.Reason, DenyBudgetBelowThreshold)
	}
}

func TestUseCheatMealSpacingGate(t *testing.T) {
	db := newTestDB(t)
	svc := NewBalanceService(db)

	seedBalances(t, svc, 1, 7, 500)

	// a use two days ago inside a live window
	ledger := models.CheatLedger{
		UserID:      1,
		LastUsedAt:  time.Now().AddDate(0, 0, -2),
		UsesInWeek:  1,
		WindowStart: dayStartLocal(time.Now().AddDate(0, 0, -2)),
	}
	if err := db.Create(&ledger).Error; err != nil {
		t.Fatal(err)
	}

	res, err := svc.CanHaveCheatMeal(1, "weekly")
	if err != nil {
		t.Fatal(err)
	}
	if res.Allowed {
		t.Fatal("7-day spacing not elapsed, must deny")
	}
	if res.Reason != DenyTooSoon {
		t.Fatalf("reason = %q, want %q", res.Reason, DenyTooSoon)
	}
	if res.NextAvailableAt == "" {
		t.Fatal("NextAvailableAt should be populated on a spacing denial")
	}
}

func TestUseCheatMealWeeklyLimit(t *testing.T) {
	db := newTestDB(t)
	svc := NewBalanceService(db)

	seedBalances(t, svc, 1, 7, 500)

	ledger := models.CheatLedger{
		UserID:      1,
		LastUsedAt:  time.Now().AddDate(0, 0, -8),
		UsesInWeek:  2,
		WindowStart: dayStartLocal(time.Now().AddDate(0, 0, -1)),
	}
	if err := db.Create(&ledger).Error; err != nil {
		t.Fatal(err)
	}

	res, err := svc.CanHaveCheatMeal(1, "weekly")
	if err != nil {
		t.Fatal(err)
	}
	if res.Allowed {
		t.Fatal("two uses already in the window, must deny")
	}
	if res.Reason != DenyWeeklyLimit {
		t.Fatalf("reason = %q, want %q", res.Reason, DenyWeeklyLimit)
	}
}

func TestCheatThresholdsPerFrequency(t *testing.T) {
	tests := []struct {
		frequency string
		want      float64
	}{
		{"weekly", 500},
		{"biweekly", 1000},
		{"monthly", 2000},
		{"", 500}, // default
	}
	for _, tt := range tests {
		if got := cheatThreshold(tt.frequency); got != tt.want {
			t.Errorf("cheatThreshold(%q) = %.0f, want %.0f", tt.frequency, got, tt.want)
		}
	}
}

func TestCheatSpacingPerFrequency(t *testing.T) {
	tests := []struct {
		frequency string
		want      int
	}{
		{"weekly", 7},
		{"biweekly", 14},
		{"monthly", 30},
	}
	for _, tt := range tests {
		if got := cheatSpacingDays(tt.frequency); got != tt.want {
			t.Errorf("cheatSpacingDays(%q) = %d, want %d", tt.frequency, got, tt.want)
		}
	}
}

func TestLedgerWindowRollsOver(t *testing.T) {
	db := newTestDB(t)
	svc := NewBalanceService(db)

	old := models.CheatLedger{
		UserID:      1,
		LastUsedAt:  time.Now().AddDate(0, 0, -9),
		UsesInWeek:  2,
		WindowStart: dayStartLocal(time.Now().AddDate(0, 0, -9)),
		TotalSpent:  900,
	}
	if err := db.Create(&old).Error; err != nil {
		t.Fatal(err)
	}

	ledger, err := svc.ledger(1)
	if err != nil {
		t.Fatal(err)
	}
	if ledger.UsesInWeek != 0 || ledger.TotalSpent != 0 {
		t.Fatalf("expired window must reset counters, got uses=%d spent=%.0f", ledger.UsesInWeek, ledger.TotalSpent)
	}
}
