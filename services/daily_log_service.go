package services

import (
	"errors"
	"time"

	"github.com/maous26/lvmeal-sub008/models"

	"gorm.io/gorm"
)

// DailyLogService handles the once-per-day wellness check-in. One row
// per user per local day; re-submitting a day updates it in place.
type DailyLogService struct {
	db *gorm.DB
}

func NewDailyLogService(db *gorm.DB) *DailyLogService {
	return &DailyLogService{db: db}
}

type DailyLogInput struct {
	Date            string  `json:"date"` // YYYY-MM-DD, empty means today
	Steps           int     `json:"steps"`
	SleepHours      float64 `json:"sleep_hours"`
	SleepQuality    int     `json:"sleep_quality"`
	Energy          int     `json:"energy"`
	Stress          int     `json:"stress"`
	Mood            int     `json:"mood"`
	StrengthSession bool    `json:"strength_session"`
	WalkingMinutes  int     `json:"walking_minutes"`
}

func ratingValid(v int) bool { return v >= 0 && v <= 5 }

func (in DailyLogInput) validate() error {
	if in.Steps < 0 || in.WalkingMinutes < 0 {
		return errors.New("steps and walking minutes cannot be negative")
	}
	if in.SleepHours < 0 || in.SleepHours > 24 {
		return errors.New("sleep hours out of range")
	}
	if !ratingValid(in.SleepQuality) || !ratingValid(in.Energy) || !ratingValid(in.Stress) || !ratingValid(in.Mood) {
		return errors.New("ratings must be between 1 and 5")
	}
	return nil
}

// Upsert writes the check-in for the given day. Future dates are
// rejected; past days can be backfilled.
func (s *DailyLogService) Upsert(userID uint, in DailyLogInput) (*models.DailyLog, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	day := dayStartLocal(time.Now())
	if in.Date != "" {
		parsed, err := time.Parse("2006-01-02", in.Date)
		if err != nil {
			return nil, errors.New("date must be YYYY-MM-DD")
		}
		day = dayStartLocal(parsed)
	}
	if day.After(dayStartLocal(time.Now())) {
		return nil, errors.New("cannot log a future date")
	}

	entry := models.DailyLog{
		UserID: userID,
		Date:   day,
	}
	err := s.db.
		Where("user_id = ? AND date = ?", userID, day).
		Assign(map[string]interface{}{
			"steps":            in.Steps,
			"sleep_hours":      in.SleepHours,
			"sleep_quality":    in.SleepQuality,
			"energy":           in.Energy,
			"stress":           in.Stress,
			"mood":             in.Mood,
			"strength_session": in.StrengthSession,
			"walking_minutes":  in.WalkingMinutes,
		}).
		FirstOrCreate(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// List returns the logs of an inclusive day range, oldest first.
func (s *DailyLogService) List(userID uint, from, to time.Time) ([]models.DailyLog, error) {
	var logs []models.DailyLog
	err := s.db.
		Where("user_id = ? AND date >= ? AND date <= ?", userID, dayStartLocal(from), dayStartLocal(to)).
		Order("date ASC").
		Find(&logs).Error
	return logs, err
}

// Today returns today's entry or nil when nothing was logged yet.
func (s *DailyLogService) Today(userID uint) (*models.DailyLog, error) {
	var entry models.DailyLog
	err := s.db.
		Where("user_id = ? AND date = ?", userID, dayStartLocal(time.Now())).
		First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}
