package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/maous26/lvmeal-sub008/models"
	"github.com/maous26/lvmeal-sub008/utils"

	"gorm.io/gorm"
)

// Progression gates shared by every phase.
const (
	minCompletionRate = 0.70
	minAvgEnergy      = 2.5
)

// PhaseConfig is the static target set for one program phase.
type PhaseConfig struct {
	Phase           string
	DurationWeeks   int
	StepTarget      int
	SleepHoursMin   float64
	ProteinPerKg    float64
	StrengthPerWeek int
	Tips            []string
}

// phaseConfigs is the fixed four-stage sequence, in order. full_program
// is terminal.
var phaseConfigs = []PhaseConfig{
	{
		Phase:         models.PhaseDiscovery,
		DurationWeeks: 2,
		StepTarget:    6000,
		SleepHoursMin: 7,
		ProteinPerKg:  1.2,
		Tips: []string{
			"Log every day, even imperfect ones — the pattern matters more than any single entry.",
			"Aim for a consistent bedtime before chasing step goals.",
		},
	},
	{
		Phase:          models.PhaseWalking,
		DurationWeeks:  3,
		StepTarget:     8000,
		SleepHoursMin:  7,
		ProteinPerKg:   1.4,
		Tips: []string{
			"Add a 20-minute walk after your largest meal.",
			"NEAT adds up: stairs, short errands on foot, standing breaks.",
		},
	},
	{
		Phase:           models.PhaseResistance,
		DurationWeeks:   4,
		StepTarget:      8000,
		SleepHoursMin:   7.5,
		ProteinPerKg:    1.6,
		StrengthPerWeek: 2,
		Tips: []string{
			"Two short strength sessions beat one exhausting one.",
			"Protein at every meal supports recovery.",
		},
	},
	{
		Phase:           models.PhaseFullProgram,
		DurationWeeks:   4,
		StepTarget:      10000,
		SleepHoursMin:   7.5,
		ProteinPerKg:    1.8,
		StrengthPerWeek: 3,
		Tips: []string{
			"You are running the full program — keep the weekly rhythm.",
		},
	},
}

func ConfigForPhase(phase string) (PhaseConfig, bool) {
	for _, c := range phaseConfigs {
		if c.Phase == phase {
			return c, true
		}
	}
	return PhaseConfig{}, false
}

func nextPhase(phase string) (string, bool) {
	for i, c := range phaseConfigs {
		if c.Phase == phase {
			if i+1 < len(phaseConfigs) {
				return phaseConfigs[i+1].Phase, true
			}
			return "", false // terminal
		}
	}
	return "", false
}

// ProgressionCheck is the result of evaluating the progression gates.
type ProgressionCheck struct {
	CanProgress    bool    `json:"can_progress"`
	Reason         string  `json:"reason,omitempty"`
	Phase          string  `json:"phase"`
	CurrentWeek    int     `json:"current_week"`
	DurationWeeks  int     `json:"duration_weeks"`
	CompletionRate float64 `json:"completion_rate"`
	AvgEnergy      float64 `json:"avg_energy"`
	Readiness      float64 `json:"readiness"` // 0-100
}

// EvaluateProgression applies the gates in order: minimum weeks in
// phase, prior-week logging completion, then average energy. logs is
// the last 7 days. Pure so it can be table-tested.
func EvaluateProgression(state models.PhaseState, cfg PhaseConfig, logs []models.DailyLog) ProgressionCheck {
	check := ProgressionCheck{
		Phase:         state.Phase,
		CurrentWeek:   state.CurrentWeek,
		DurationWeeks: cfg.DurationWeeks,
	}

	check.CompletionRate = float64(len(logs)) / 7.0
	if check.CompletionRate > 1 {
		check.CompletionRate = 1
	}
	if len(logs) > 0 {
		var energy float64
		for _, l := range logs {
			energy += float64(l.Energy)
		}
		check.AvgEnergy = energy / float64(len(logs))
	}
	check.Readiness = readinessScore(cfg, logs)

	if state.CurrentWeek < cfg.DurationWeeks {
		remaining := cfg.DurationWeeks - state.CurrentWeek
		check.Reason = fmt.Sprintf("%d more week(s) needed in the %s phase", remaining, state.Phase)
		return check
	}
	if check.CompletionRate < minCompletionRate {
		check.Reason = fmt.Sprintf("logging completion %.0f%% is below the %.0f%% required", check.CompletionRate*100, minCompletionRate*100)
		return check
	}
	if check.AvgEnergy < minAvgEnergy {
		check.Reason = fmt.Sprintf("average energy %.1f/5 is too low to progress safely", check.AvgEnergy)
		return check
	}

	check.CanProgress = true
	return check
}

// readinessScore blends the heterogeneous weekly signals against the
// phase targets into a 0-100 score shown alongside the gate result.
func readinessScore(cfg PhaseConfig, logs []models.DailyLog) float64 {
	if len(logs) == 0 {
		return 0
	}

	var steps, sleep, energy float64
	strength := 0
	for _, l := range logs {
		steps += float64(l.Steps)
		sleep += l.SleepHours
		energy += float64(l.Energy)
		if l.StrengthSession {
			strength++
		}
	}
	n := float64(len(logs))

	ratio := func(v, target float64) float64 {
		if target <= 0 {
			return 1
		}
		r := v / target
		if r > 1 {
			r = 1
		}
		return r
	}

	score := 0.0
	score += 30 * ratio(steps/n, float64(cfg.StepTarget))
	score += 25 * ratio(sleep/n, cfg.SleepHoursMin)
	score += 25 * ((energy / n) / 5.0)
	if cfg.StrengthPerWeek > 0 {
		score += 20 * ratio(float64(strength), float64(cfg.StrengthPerWeek))
	} else {
		score += 20 * (n / 7.0)
	}
	return score
}

type PhaseService struct {
	db  *gorm.DB
	bus *CoachBus
}

func NewPhaseService(db *gorm.DB, bus *CoachBus) *PhaseService {
	return &PhaseService{db: db, bus: bus}
}

// State fetches (or seeds) the user's phase state and refreshes the
// derived week-in-phase counter from the phase start date.
func (s *PhaseService) State(userID uint) (*models.PhaseState, error) {
	var st models.PhaseState
	err := s.db.Where("user_id = ?", userID).First(&st).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		st = models.PhaseState{
			UserID:      userID,
			Phase:       models.PhaseDiscovery,
			CurrentWeek: 1,
			StartedAt:   time.Now(),
		}
		if err := s.db.Create(&st).Error; err != nil {
			return nil, err
		}
		return &st, nil
	}
	if err != nil {
		return nil, err
	}

	week := int(time.Since(st.StartedAt).Hours()/(24*7)) + 1
	if week != st.CurrentWeek {
		st.CurrentWeek = week
		if err := s.db.Save(&st).Error; err != nil {
			return nil, err
		}
	}
	return &st, nil
}

func (s *PhaseService) lastWeekLogs(userID uint) ([]models.DailyLog, error) {
	since := dayStartLocal(time.Now()).AddDate(0, 0, -6)
	var logs []models.DailyLog
	err := s.db.
		Where("user_id = ? AND date >= ?", userID, since).
		Order("date ASC").
		Find(&logs).Error
	return logs, err
}

// CheckPhaseProgression evaluates the gates for the user's current
// state. Called from the phase screen; a failed check changes nothing.
func (s *PhaseService) CheckPhaseProgression(userID uint) (*ProgressionCheck, error) {
	st, err := s.State(userID)
	if err != nil {
		return nil, err
	}
	cfg, ok := ConfigForPhase(st.Phase)
	if !ok {
		return nil, fmt.Errorf("unknown phase %q", st.Phase)
	}
	logs, err := s.lastWeekLogs(userID)
	if err != nil {
		return nil, err
	}
	check := EvaluateProgression(*st, cfg, logs)
	return &check, nil
}

// ProgressToNextPhase advances the fixed sequence when the gates pass.
// It archives the closing week, resets the week counter and emits a
// one-time transition message with the next phase's tips.
func (s *PhaseService) ProgressToNextPhase(userID uint) (*models.PhaseState, *ProgressionCheck, error) {
	st, err := s.State(userID)
	if err != nil {
		return nil, nil, err
	}
	check, err := s.CheckPhaseProgression(userID)
	if err != nil {
		return nil, nil, err
	}
	if !check.CanProgress {
		return st, check, nil
	}

	next, ok := nextPhase(st.Phase)
	if !ok {
		check.CanProgress = false
		check.Reason = "full_program is the final phase"
		return st, check, nil
	}

	if err := s.archiveWeek(userID, st, check); err != nil {
		return nil, nil, err
	}

	st.Phase = next
	st.CurrentWeek = 1
	st.StartedAt = time.Now()
	if err := s.db.Save(st).Error; err != nil {
		return nil, nil, err
	}

	if s.bus != nil {
		cfg, _ := ConfigForPhase(next)
		body := fmt.Sprintf("Welcome to the %s phase!", next)
		if len(cfg.Tips) > 0 {
			body += " " + cfg.Tips[0]
		}
		s.bus.Emit(userID, models.CoachItem{
			UserID:   userID,
			Type:     models.CoachCelebration,
			Category: "phase",
			Title:    "Phase unlocked",
			Body:     body,
			Priority: 10,
		})
	}
	return st, check, nil
}

func (s *PhaseService) archiveWeek(userID uint, st *models.PhaseState, check *ProgressionCheck) error {
	logs, err := s.lastWeekLogs(userID)
	if err != nil {
		return err
	}

	summary := models.WeekSummary{
		UserID:         userID,
		Phase:          st.Phase,
		Week:           st.CurrentWeek,
		CompletionRate: check.CompletionRate,
		AvgEnergy:      check.AvgEnergy,
	}
	for _, l := range logs {
		summary.AvgSleepHours += l.SleepHours
		summary.AvgSteps += float64(l.Steps)
		if l.StrengthSession {
			summary.StrengthCount++
		}
	}
	if len(logs) > 0 {
		summary.AvgSleepHours /= float64(len(logs))
		summary.AvgSteps /= float64(len(logs))
	}

	if err := s.db.Create(&summary).Error; err != nil {
		return err
	}

	// Recap email is best-effort.
	var user models.User
	if err := s.db.First(&user, userID).Error; err == nil {
		_ = utils.SendWeekSummaryEmail(user.Email, st.Phase, st.CurrentWeek, summary.CompletionRate, summary.AvgEnergy)
	}
	return nil
}

func (s *PhaseService) WeekSummaries(userID uint) ([]models.WeekSummary, error) {
	var rows []models.WeekSummary
	err := s.db.
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&rows).Error
	return rows, err
}
