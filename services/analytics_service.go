package services

import (
	"context"
	"math"
	"time"

	"github.com/maous26/lvmeal-sub008/models"

	"gorm.io/gorm"
)

type AnalyticsService struct{ db *gorm.DB }

func NewAnalyticsService(db *gorm.DB) *AnalyticsService { return &AnalyticsService{db: db} }

// MetricAvg is one averaged wellness metric over the range.
type MetricAvg struct {
	Avg  float64 `json:"avg"`
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	Unit string  `json:"unit,omitempty"`
}

// TrendPoint is one day of the balance series for the chart.
type TrendPoint struct {
	Date     string  `json:"date"`
	Target   float64 `json:"target"`
	Consumed float64 `json:"consumed"`
	Balance  float64 `json:"balance"`
	CheatDay bool    `json:"cheat_day,omitempty"`
}

type RangeSummary struct {
	Range struct {
		From string `json:"from"`
		To   string `json:"to"`
	} `json:"range"`

	Wellness map[string]MetricAvg `json:"wellness"` // steps, sleep_hours, energy, stress, mood

	CompletionRate float64 `json:"completion_rate"` // days logged / days in range
	StrengthCount  int     `json:"strength_count"`

	BalanceTrend []TrendPoint `json:"balance_trend"`
	AvgBalance   float64      `json:"avg_balance"`
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }

// Summary aggregates logs and balances over an inclusive local-day
// range for the progress screen.
func (s *AnalyticsService) Summary(ctx context.Context, userID uint, from, to time.Time) (*RangeSummary, error) {
	fromDay := dayStartLocal(from)
	toDay := dayStartLocal(to)

	var logs []models.DailyLog
	if err := s.db.WithContext(ctx).
		Where("user_id = ? AND date >= ? AND date <= ?", userID, fromDay, toDay).
		Order("date ASC").
		Find(&logs).Error; err != nil {
		return nil, err
	}

	var balances []models.DailyBalance
	if err := s.db.WithContext(ctx).
		Where("user_id = ? AND date >= ? AND date <= ?", userID, fromDay, toDay).
		Order("date ASC").
		Find(&balances).Error; err != nil {
		return nil, err
	}

	out := &RangeSummary{Wellness: map[string]MetricAvg{}}
	out.Range.From = fromDay.Format("2006-01-02")
	out.Range.To = toDay.Format("2006-01-02")

	daysInRange := int(toDay.Sub(fromDay).Hours()/24) + 1
	if daysInRange < 1 {
		daysInRange = 1
	}
	out.CompletionRate = round1(float64(len(logs))/float64(daysInRange)*100) / 100

	type acc struct {
		sum, min, max float64
		unit          string
	}
	metrics := map[string]*acc{
		"steps":       {min: math.MaxFloat64, unit: "steps"},
		"sleep_hours": {min: math.MaxFloat64, unit: "h"},
		"energy":      {min: math.MaxFloat64},
		"stress":      {min: math.MaxFloat64},
		"mood":        {min: math.MaxFloat64},
	}
	observe := func(name string, v float64) {
		a := metrics[name]
		a.sum += v
		if v < a.min {
			a.min = v
		}
		if v > a.max {
			a.max = v
		}
	}

	for _, l := range logs {
		observe("steps", float64(l.Steps))
		observe("sleep_hours", l.SleepHours)
		observe("energy", float64(l.Energy))
		observe("stress", float64(l.Stress))
		observe("mood", float64(l.Mood))
		if l.StrengthSession {
			out.StrengthCount++
		}
	}

	for name, a := range metrics {
		if len(logs) == 0 {
			out.Wellness[name] = MetricAvg{Unit: a.unit}
			continue
		}
		out.Wellness[name] = MetricAvg{
			Avg:  round1(a.sum / float64(len(logs))),
			Min:  a.min,
			Max:  a.max,
			Unit: a.unit,
		}
	}

	for _, b := range balances {
		out.BalanceTrend = append(out.BalanceTrend, TrendPoint{
			Date:     b.Date.Format("2006-01-02"),
			Target:   b.TargetCalories,
			Consumed: b.ConsumedCalories,
			Balance:  b.Balance,
			CheatDay: b.CheatDay,
		})
		out.AvgBalance += b.Balance
	}
	if len(balances) > 0 {
		out.AvgBalance = round1(out.AvgBalance / float64(len(balances)))
	}

	return out, nil
}
