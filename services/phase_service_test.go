package services

import (
	"strings"
	"testing"
	"time"

	"github.com/maous26/lvmeal-sub008/models"
)

func weekOfLogs(days int, energy int, steps int) []models.DailyLog {
	logs := make([]models.DailyLog, 0, days)
	for i := 0; i < days; i++ {
		logs = append(logs, models.DailyLog{
			Date:       time.Now().AddDate(0, 0, -i),
			Energy:     energy,
			Steps:      steps,
			SleepHours: 7.5,
		})
	}
	return logs
}

func TestEvaluateProgressionGateOrder(t *testing.T) {
	cfg, _ := ConfigForPhase(models.PhaseDiscovery)

	tests := []struct {
		name        string
		state       models.PhaseState
		logs        []models.DailyLog
		canProgress bool
		reasonPart  string
	}{
		{
			name:        "week gate fires first even with perfect logs",
			state:       models.PhaseState{Phase: models.PhaseDiscovery, CurrentWeek: 1},
			logs:        weekOfLogs(7, 5, 10000),
			canProgress: false,
			reasonPart:  "week",
		},
		{
			name:        "completion gate fires before energy",
			state:       models.PhaseState{Phase: models.PhaseDiscovery, CurrentWeek: 2},
			logs:        weekOfLogs(3, 1, 1000), // 43% completion AND low energy
			canProgress: false,
			reasonPart:  "completion",
		},
		{
			name:        "energy gate fires last",
			state:       models.PhaseState{Phase: models.PhaseDiscovery, CurrentWeek: 2},
			logs:        weekOfLogs(6, 2, 6000), // 86% completion, energy 2.0
			canProgress: false,
			reasonPart:  "energy",
		},
		{
			name:        "all gates pass",
			state:       models.PhaseState{Phase: models.PhaseDiscovery, CurrentWeek: 2},
			logs:        weekOfLogs(6, 3, 6000), // 86%, energy 3.0
			canProgress: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			check := EvaluateProgression(tt.state, cfg, tt.logs)
			if check.CanProgress != tt.canProgress {
				t.Fatalf("CanProgress = %v, want %v (reason %q)", check.CanProgress, tt.canProgress, check.Reason)
			}
			if tt.reasonPart != "" && !strings.Contains(check.Reason, tt.reasonPart) {
				t.Fatalf("reason %q does not mention %q", check.Reason, tt.reasonPart)
			}
		})
	}
}

func TestEvaluateProgressionEmptyWeek(t *testing.T) {
	cfg, _ := ConfigForPhase(models.PhaseDiscovery)
	state := models.PhaseState{Phase: models.PhaseDiscovery, CurrentWeek: 2}

	check := EvaluateProgression(state, cfg, nil)
	if check.CanProgress {
		t.Fatal("empty week must not progress")
	}
	if check.CompletionRate != 0 || check.AvgEnergy != 0 {
		t.Fatalf("empty week stats should be zero, got completion %.2f energy %.1f", check.CompletionRate, check.AvgEnergy)
	}
}

func TestPhaseSequence(t *testing.T) {
	order := []string{models.PhaseDiscovery, models.PhaseWalking, models.PhaseResistance, models.PhaseFullProgram}
	for i := 0; i < len(order)-1; i++ {
		next, ok := nextPhase(order[i])
		if !ok || next != order[i+1] {
			t.Fatalf("nextPhase(%s) = %q/%v, want %s", order[i], next, ok, order[i+1])
		}
	}
	if _, ok := nextPhase(models.PhaseFullProgram); ok {
		t.Fatal("full_program must be terminal")
	}
}

func TestStateSeedsDiscovery(t *testing.T) {
	svc := NewPhaseService(newTestDB(t), nil)

	st, err := svc.State(42)
	if err != nil {
		t.Fatal(err)
	}
	if st.Phase != models.PhaseDiscovery || st.CurrentWeek != 1 {
		t.Fatalf("new user state = %s week %d, want discovery week 1", st.Phase, st.CurrentWeek)
	}
}

func TestStateDerivesWeekFromStart(t *testing.T) {
	db := newTestDB(t)
	svc := NewPhaseService(db, nil)

	seed := models.PhaseState{
		UserID:      7,
		Phase:       models.PhaseWalking,
		CurrentWeek: 1,
		StartedAt:   time.Now().AddDate(0, 0, -15), // two full weeks elapsed
	}
	if err := db.Create(&seed).Error; err != nil {
		t.Fatal(err)
	}

	st, err := svc.State(7)
	if err != nil {
		t.Fatal(err)
	}
	if st.CurrentWeek != 3 {
		t.Fatalf("CurrentWeek = %d, want 3 after 15 days", st.CurrentWeek)
	}
}

func TestProgressToNextPhaseDeniedKeepsState(t *testing.T) {
	db := newTestDB(t)
	svc := NewPhaseService(db, nil)

	// brand-new user: week gate blocks
	if _, err := svc.State(1); err != nil {
		t.Fatal(err)
	}

	st, check, err := svc.ProgressToNextPhase(1)
	if err != nil {
		t.Fatal(err)
	}
	if check == nil || check.CanProgress {
		t.Fatal("check must explain the denial")
	}
	if st.Phase != models.PhaseDiscovery {
		t.Fatalf("denied progression must leave the phase alone, got %s", st.Phase)
	}

	after, err := svc.State(1)
	if err != nil {
		t.Fatal(err)
	}
	if after.Phase != models.PhaseDiscovery {
		t.Fatalf("phase changed to %s on a denied progression", after.Phase)
	}
}

func TestProgressToNextPhaseAdvancesAndArchives(t *testing.T) {
	db := newTestDB(t)
	svc := NewPhaseService(db, nil)

	seed := models.PhaseState{
		UserID:      1,
		Phase:       models.PhaseDiscovery,
		CurrentWeek: 2,
		StartedAt:   time.Now().AddDate(0, 0, -14),
	}
	if err := db.Create(&seed).Error; err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 6; i++ {
		log := models.DailyLog{
			UserID: 1,
			Date:   dayStartLocal(time.Now().AddDate(0, 0, -i)),
			Energy: 4, Steps: 7000, SleepHours: 7.5,
		}
		if err := db.Create(&log).Error; err != nil {
			t.Fatal(err)
		}
	}

	st, check, err := svc.ProgressToNextPhase(1)
	if err != nil {
		t.Fatal(err)
	}
	if st == nil || !check.CanProgress {
		t.Fatalf("expected progression, got check %+v", check)
	}
	if st.Phase != models.PhaseWalking || st.CurrentWeek != 1 {
		t.Fatalf("state after progression = %s week %d, want walking week 1", st.Phase, st.CurrentWeek)
	}

	summaries, err := svc.WeekSummaries(1)
	if err != nil {
		t.Fatal(err)
	}
	if len(summaries) != 1 {
		t.Fatalf("got %d week summaries, want 1", len(summaries))
	}
	if summaries[0].Phase != models.PhaseDiscovery {
		t.Fatalf("archived summary phase = %s, want discovery", summaries[0].Phase)
	}
}

func TestReadinessScoreBounds(t *testing.T) {
	cfg, _ := ConfigForPhase(models.PhaseResistance)

	if got := readinessScore(cfg, nil); got != 0 {
		t.Fatalf("empty logs readiness = %.1f, want 0", got)
	}

	perfect := weekOfLogs(7, 5, 10000)
	for i := range perfect {
		perfect[i].SleepHours = 8
		perfect[i].StrengthSession = true
	}
	if got := readinessScore(cfg, perfect); got < 99.9 || got > 100.01 {
		t.Fatalf("perfect week readiness = %.1f, want 100", got)
	}
}
