package services

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/maous26/lvmeal-sub008/models"
	"github.com/maous26/lvmeal-sub008/utils"

	"gorm.io/gorm"
)

const (
	// A generation is considered fresh this long; triggers inside the
	// window are no-ops unless forced.
	coachFreshnessWindow = 6 * time.Hour

	// Rule items expire after a week, tips after two days.
	findingTTL = 7 * 24 * time.Hour
	tipTTL     = 48 * time.Hour

	// Dismissed items beyond this count are deleted oldest-first.
	coachHistoryCap = 50

	// Log writes within this delay coalesce into one regeneration.
	coachDebounceDelay = 30 * time.Second
)

// CoachService turns weekly stats into coaching messages: the
// deterministic rule findings always run, and an LLM-written tip is
// layered on top when the model is configured.
type CoachService struct {
	db      *gorm.DB
	llm     *LLMClient
	bus     *CoachBus
	balance *BalanceService
	phase   *PhaseService

	mu        sync.Mutex
	inFlight  map[uint]bool
	debouncer map[uint]*utils.Debouncer
}

func NewCoachService(db *gorm.DB, llm *LLMClient, bus *CoachBus, balance *BalanceService, phase *PhaseService) *CoachService {
	return &CoachService{
		db:        db,
		llm:       llm,
		bus:       bus,
		balance:   balance,
		phase:     phase,
		inFlight:  make(map[uint]bool),
		debouncer: make(map[uint]*utils.Debouncer),
	}
}

// TriggerRegeneration schedules a regeneration after the debounce
// delay. Called from the log and meal write paths, where several
// writes often arrive in a burst.
func (s *CoachService) TriggerRegeneration(userID uint) {
	s.mu.Lock()
	d, ok := s.debouncer[userID]
	if !ok {
		d = utils.NewDebouncer(coachDebounceDelay)
		s.debouncer[userID] = d
	}
	s.mu.Unlock()

	d.Trigger(func() {
		if err := s.Regenerate(context.Background(), userID, false); err != nil {
			log.Printf("coach regeneration for user %d failed: %v", userID, err)
		}
	})
}

// Regenerate rebuilds the user's coaching feed. A run already in
// flight for the user makes this call a silent drop; fresh output
// short-circuits unless force is set.
func (s *CoachService) Regenerate(ctx context.Context, userID uint, force bool) error {
	s.mu.Lock()
	if s.inFlight[userID] {
		s.mu.Unlock()
		return nil
	}
	s.inFlight[userID] = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		delete(s.inFlight, userID)
		s.mu.Unlock()
	}()

	if !force {
		fresh, err := s.hasFreshItems(userID)
		if err != nil {
			return err
		}
		if fresh {
			return nil
		}
	}

	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		return err
	}

	stats, err := s.weekStats(userID)
	if err != nil {
		return err
	}

	if err := s.expireGenerated(userID); err != nil {
		return err
	}

	for _, f := range EvaluateCoachRules(user, stats) {
		expires := time.Now().Add(findingTTL)
		itemType := models.CoachAnalysis
		if f.Severity == FindingHigh {
			itemType = models.CoachAlert
		}
		s.bus.Emit(userID, models.CoachItem{
			Type:      itemType,
			Category:  f.Category,
			Title:     f.Title,
			Body:      f.Message,
			Priority:  severityPriority(f.Severity),
			ExpiresAt: &expires,
		})
	}

	s.emitTip(ctx, user, stats)
	return s.trimHistory(userID)
}

func (s *CoachService) hasFreshItems(userID uint) (bool, error) {
	var count int64
	err := s.db.Model(&models.CoachItem{}).
		Where("user_id = ? AND created_at > ? AND dismissed = ?", userID, time.Now().Add(-coachFreshnessWindow), false).
		Count(&count).Error
	return count > 0, err
}

// expireGenerated dismisses previous rule output so the feed reflects
// the current week only. Tips and celebrations age out by ExpiresAt.
func (s *CoachService) expireGenerated(userID uint) error {
	return s.db.Model(&models.CoachItem{}).
		Where("user_id = ? AND type IN ? AND dismissed = ?", userID, []string{models.CoachAnalysis, models.CoachAlert}, false).
		Update("dismissed", true).Error
}

func (s *CoachService) weekStats(userID uint) (WeekStats, error) {
	since := dayStartLocal(time.Now()).AddDate(0, 0, -6)

	var logs []models.DailyLog
	if err := s.db.Where("user_id = ? AND date >= ?", userID, since).Find(&logs).Error; err != nil {
		return WeekStats{}, err
	}
	var balances []models.DailyBalance
	if err := s.db.Where("user_id = ? AND date >= ?", userID, since).Find(&balances).Error; err != nil {
		return WeekStats{}, err
	}
	return ComputeWeekStats(logs, balances), nil
}

type coachTip struct {
	Title    string `json:"title"`
	Body     string `json:"body"`
	Category string `json:"category"`
}

// emitTip asks the model for a personalized tip; when the model is
// unavailable or fails, a phase tip from the static catalog goes out
// instead so the feed is never empty.
func (s *CoachService) emitTip(ctx context.Context, user models.User, stats WeekStats) {
	expires := time.Now().Add(tipTTL)

	state, err := s.phase.State(user.ID)
	if err != nil {
		log.Printf("phase lookup for tip failed: %v", err)
		return
	}
	budget, err := s.balance.CheatMealBudget(user.ID)
	if err != nil {
		budget = 0
	}

	if s.llm.Configured() {
		cc := CoachContext{
			Goal:           user.Goal,
			Phase:          state.Phase,
			CurrentWeek:    state.CurrentWeek,
			AvgEnergy:      stats.AvgEnergy,
			AvgSleepHours:  stats.AvgSleepHours,
			AvgSteps:       stats.AvgSteps,
			CompletionRate: stats.CompletionRate,
			BudgetKcal:     budget,
		}
		var tip coachTip
		err := s.llm.ChatJSON(ctx, []ChatMessage{
			{Role: "system", Content: "You are a concise, warm French nutrition coach."},
			{Role: "user", Content: BuildCoachPrompt(cc)},
		}, 0.8, &tip)
		if err == nil && tip.Body != "" {
			s.bus.Emit(user.ID, models.CoachItem{
				Type:      models.CoachTip,
				Category:  tip.Category,
				Title:     tip.Title,
				Body:      tip.Body,
				Priority:  2,
				ExpiresAt: &expires,
			})
			return
		}
		if err != nil {
			log.Printf("LLM tip for user %d failed, using catalog: %v", user.ID, err)
		}
	}

	cfg, ok := ConfigForPhase(state.Phase)
	if !ok || len(cfg.Tips) == 0 {
		return
	}
	tip := cfg.Tips[(state.CurrentWeek-1)%len(cfg.Tips)]
	s.bus.Emit(user.ID, models.CoachItem{
		Type:      models.CoachTip,
		Category:  "phase",
		Title:     "Conseil de la semaine",
		Body:      tip,
		Priority:  2,
		ExpiresAt: &expires,
	})
}

// trimHistory deletes the oldest dismissed items beyond the cap.
func (s *CoachService) trimHistory(userID uint) error {
	var ids []uint
	err := s.db.Model(&models.CoachItem{}).
		Where("user_id = ? AND dismissed = ?", userID, true).
		Order("created_at DESC").
		Offset(coachHistoryCap).
		Pluck("id", &ids).Error
	if err != nil || len(ids) == 0 {
		return err
	}
	return s.db.Unscoped().Delete(&models.CoachItem{}, ids).Error
}

// ListItems returns the active feed: not dismissed, not expired,
// highest priority first.
func (s *CoachService) ListItems(userID uint) ([]models.CoachItem, error) {
	var items []models.CoachItem
	err := s.db.
		Where("user_id = ? AND dismissed = ?", userID, false).
		Where("expires_at IS NULL OR expires_at > ?", time.Now()).
		Order("priority DESC, created_at DESC").
		Find(&items).Error
	return items, err
}

func (s *CoachService) MarkRead(userID, itemID uint) error {
	return s.db.Model(&models.CoachItem{}).
		Where("id = ? AND user_id = ?", itemID, userID).
		Update("read", true).Error
}

func (s *CoachService) Dismiss(userID, itemID uint) error {
	return s.db.Model(&models.CoachItem{}).
		Where("id = ? AND user_id = ?", itemID, userID).
		Update("dismissed", true).Error
}
