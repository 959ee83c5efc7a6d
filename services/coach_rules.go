package services

import (
	"fmt"
	"math"

	"github.com/maous26/lvmeal-sub008/models"
)

// FindingSeverity categorizes how serious the flag is.
type FindingSeverity string

const (
	FindingInfo    FindingSeverity = "info"
	FindingCaution FindingSeverity = "caution"
	FindingHigh    FindingSeverity = "high"
)

// Finding is a structured coaching observation produced by the rule
// engine, before it is turned into a CoachItem.
type Finding struct {
	Code     string          `json:"code"`
	Severity FindingSeverity `json:"severity"`
	Category string          `json:"category"`
	Title    string          `json:"title"`
	Message  string          `json:"message"`
	Metric   string          `json:"metric,omitempty"`
	Value    float64         `json:"value,omitempty"`
	Limit    float64         `json:"limit,omitempty"`
}

// WeekStats aggregates the last 7 days of logs and balances into the
// averages the rules reason about.
type WeekStats struct {
	DaysLogged     int
	CompletionRate float64
	AvgEnergy      float64
	AvgSleepHours  float64
	AvgSteps       float64
	AvgStress      float64
	StrengthCount  int
	AvgDeficit     float64 // mean of (target - consumed), logged days only
	OverBudgetDays int
}

// ComputeWeekStats is a pure aggregation over at most 7 days of data.
func ComputeWeekStats(logs []models.DailyLog, balances []models.DailyBalance) WeekStats {
	stats := WeekStats{DaysLogged: len(logs)}
	stats.CompletionRate = float64(len(logs)) / 7

	for _, l := range logs {
		stats.AvgEnergy += float64(l.Energy)
		stats.AvgSleepHours += l.SleepHours
		stats.AvgSteps += float64(l.Steps)
		stats.AvgStress += float64(l.Stress)
		if l.StrengthSession {
			stats.StrengthCount++
		}
	}
	if len(logs) > 0 {
		n := float64(len(logs))
		stats.AvgEnergy /= n
		stats.AvgSleepHours /= n
		stats.AvgSteps /= n
		stats.AvgStress /= n
	}

	for _, b := range balances {
		stats.AvgDeficit += b.Balance
		if b.Balance < 0 && !b.CheatDay {
			stats.OverBudgetDays++
		}
	}
	if len(balances) > 0 {
		stats.AvgDeficit /= float64(len(balances))
	}
	return stats
}

// Rule thresholds. Sleep and steps follow common public-health
// guidance; the deficit guard catches overly aggressive restriction.
const (
	minSleepHours      = 7.0
	minDailySteps      = 5000.0
	maxSafeDeficit     = 800.0
	highStressLevel    = 3.5
	lowEnergyLevel     = 2.5
	minWeekCompletion  = 0.5
	overBudgetDayLimit = 3
)

// EvaluateCoachRules runs the deterministic findings over a week of
// data. Only emits findings when enough days are logged to mean
// something; an empty week yields a single logging nudge.
func EvaluateCoachRules(user models.User, stats WeekStats) []Finding {
	findings := []Finding{}

	if stats.DaysLogged == 0 {
		return []Finding{{
			Code:     "no_logs",
			Severity: FindingInfo,
			Category: "nutrition",
			Title:    "On reprend le fil ?",
			Message:  "Aucune journée enregistrée cette semaine. Un simple check-in quotidien suffit pour garder le cap.",
		}}
	}

	if stats.CompletionRate < minWeekCompletion {
		findings = append(findings, Finding{
			Code:     "low_completion",
			Severity: FindingCaution,
			Category: "nutrition",
			Title:    "Suivi irrégulier",
			Message:  fmt.Sprintf("Seulement %d jours sur 7 enregistrés. La progression de phase demande un suivi régulier.", stats.DaysLogged),
			Metric:   "completion",
			Value:    math.Round(stats.CompletionRate * 100),
			Limit:    minWeekCompletion * 100,
		})
	}

	// Sleep and energy rules need at least 3 data points.
	if stats.DaysLogged >= 3 {
		if stats.AvgSleepHours > 0 && stats.AvgSleepHours < minSleepHours {
			findings = append(findings, Finding{
				Code:     "short_sleep",
				Severity: FindingCaution,
				Category: "sleep",
				Title:    "Sommeil trop court",
				Message:  fmt.Sprintf("%.1fh de sommeil en moyenne cette semaine. Sous 7h, la récupération et la satiété se dérèglent.", stats.AvgSleepHours),
				Metric:   "sleep_hours",
				Value:    stats.AvgSleepHours,
				Limit:    minSleepHours,
			})
		}
		if stats.AvgEnergy > 0 && stats.AvgEnergy < lowEnergyLevel {
			findings = append(findings, Finding{
				Code:     "low_energy",
				Severity: FindingHigh,
				Category: "activity",
				Title:    "Énergie en berne",
				Message:  fmt.Sprintf("Énergie moyenne à %.1f/5. Ralentissez le rythme cette semaine et privilégiez la récupération.", stats.AvgEnergy),
				Metric:   "energy",
				Value:    stats.AvgEnergy,
				Limit:    lowEnergyLevel,
			})
		}
		if stats.AvgStress >= highStressLevel {
			findings = append(findings, Finding{
				Code:     "high_stress",
				Severity: FindingCaution,
				Category: "sleep",
				Title:    "Stress élevé",
				Message:  fmt.Sprintf("Stress moyen à %.1f/5. Une marche de 10 minutes après le déjeuner aide plus qu'on ne le croit.", stats.AvgStress),
				Metric:   "stress",
				Value:    stats.AvgStress,
				Limit:    highStressLevel,
			})
		}
		if stats.AvgSteps > 0 && stats.AvgSteps < minDailySteps {
			findings = append(findings, Finding{
				Code:     "low_steps",
				Severity: FindingInfo,
				Category: "activity",
				Title:    "Un peu plus de pas",
				Message:  fmt.Sprintf("%.0f pas/jour en moyenne. Visez %.0f pour soutenir la dépense sans effort perçu.", stats.AvgSteps, minDailySteps),
				Metric:   "steps",
				Value:    stats.AvgSteps,
				Limit:    minDailySteps,
			})
		}
	}

	if user.Goal == models.GoalWeightLoss && stats.AvgDeficit > maxSafeDeficit {
		findings = append(findings, Finding{
			Code:     "aggressive_deficit",
			Severity: FindingHigh,
			Category: "budget",
			Title:    "Déficit trop agressif",
			Message:  fmt.Sprintf("Déficit moyen de %.0f kcal/jour. Au-delà de %.0f, le métabolisme s'adapte et la perte ralentit.", stats.AvgDeficit, maxSafeDeficit),
			Metric:   "deficit",
			Value:    stats.AvgDeficit,
			Limit:    maxSafeDeficit,
		})
	}

	if stats.OverBudgetDays >= overBudgetDayLimit {
		findings = append(findings, Finding{
			Code:     "frequent_overshoot",
			Severity: FindingCaution,
			Category: "budget",
			Title:    "Budget souvent dépassé",
			Message:  fmt.Sprintf("%d jours au-dessus de l'objectif cette semaine. Pensez au budget plaisir plutôt qu'aux écarts non planifiés.", stats.OverBudgetDays),
			Metric:   "over_budget_days",
			Value:    float64(stats.OverBudgetDays),
			Limit:    overBudgetDayLimit,
		})
	}

	if user.Goal == models.GoalMuscleGain && stats.DaysLogged >= 5 && stats.StrengthCount < 2 {
		findings = append(findings, Finding{
			Code:     "missing_strength",
			Severity: FindingCaution,
			Category: "activity",
			Title:    "Renforcement manquant",
			Message:  fmt.Sprintf("%d séance(s) de renforcement cette semaine. Deux séances minimum pour construire du muscle.", stats.StrengthCount),
			Metric:   "strength_sessions",
			Value:    float64(stats.StrengthCount),
			Limit:    2,
		})
	}

	return findings
}

func severityPriority(s FindingSeverity) int {
	switch s {
	case FindingHigh:
		return 3
	case FindingCaution:
		return 2
	default:
		return 1
	}
}
