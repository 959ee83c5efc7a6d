package services

import (
	"errors"
	"fmt"
	"sync"

	"github.com/maous26/lvmeal-sub008/models"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

var reminderBodies = map[string]string{
	"breakfast": "C'est l'heure du petit-déjeuner. Besoin d'une idée ?",
	"lunch":     "Pause déjeuner ! Pensez à enregistrer votre repas.",
	"dinner":    "Le dîner approche. Une suggestion adaptée vous attend.",
	"snack":     "Petit creux ? Une collation est prévue dans votre plan.",
	"log":       "Votre check-in du jour vous attend (2 minutes suffisent).",
}

// ReminderService schedules recurring local-time notifications on a
// shared cron runner. Reminders survive restarts through the table;
// LoadAll re-registers them at boot.
type ReminderService struct {
	db   *gorm.DB
	cron *cron.Cron
	push *PushService
	hub  *RealtimeHub

	mu      sync.Mutex
	entries map[string]cron.EntryID
}

func NewReminderService(db *gorm.DB, push *PushService, hub *RealtimeHub) *ReminderService {
	return &ReminderService{
		db:      db,
		cron:    cron.New(),
		push:    push,
		hub:     hub,
		entries: make(map[string]cron.EntryID),
	}
}

// Start launches the cron runner after LoadAll.
func (s *ReminderService) Start() {
	s.cron.Start()
}

func (s *ReminderService) Stop() {
	s.cron.Stop()
}

// LoadAll re-registers every enabled reminder, called once at boot.
func (s *ReminderService) LoadAll() error {
	var reminders []models.Reminder
	if err := s.db.Where("enabled = ?", true).Find(&reminders).Error; err != nil {
		return err
	}
	for i := range reminders {
		if err := s.schedule(&reminders[i]); err != nil {
			return err
		}
	}
	return nil
}

func (s *ReminderService) schedule(r *models.Reminder) error {
	spec := fmt.Sprintf("%d %d * * *", r.Minute, r.Hour)
	userID := r.UserID
	kind := r.Kind

	id, err := s.cron.AddFunc(spec, func() {
		s.fire(userID, kind)
	})
	if err != nil {
		return fmt.Errorf("failed to schedule reminder %s: %w", r.Identifier, err)
	}

	s.mu.Lock()
	s.entries[r.Identifier] = id
	s.mu.Unlock()
	return nil
}

func (s *ReminderService) unschedule(identifier string) {
	s.mu.Lock()
	if id, ok := s.entries[identifier]; ok {
		s.cron.Remove(id)
		delete(s.entries, identifier)
	}
	s.mu.Unlock()
}

func (s *ReminderService) fire(userID uint, kind string) {
	body, ok := reminderBodies[kind]
	if !ok {
		body = "Petit rappel de votre coach."
	}
	if s.push != nil {
		s.push.PushToUser(userID, "LYM", body, map[string]string{"kind": "reminder." + kind})
	}
	if s.hub != nil {
		s.hub.BroadcastEvent(userID, "reminder.fired", map[string]string{"reminder": kind})
	}
}

// Create registers a new reminder and schedules it immediately.
func (s *ReminderService) Create(userID uint, kind string, hour, minute int) (*models.Reminder, error) {
	if _, ok := reminderBodies[kind]; !ok {
		return nil, fmt.Errorf("unknown reminder kind %q", kind)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return nil, errors.New("invalid time")
	}

	r := &models.Reminder{
		UserID:     userID,
		Identifier: uuid.NewString(),
		Kind:       kind,
		Hour:       hour,
		Minute:     minute,
		Enabled:    true,
	}
	if err := s.db.Create(r).Error; err != nil {
		return nil, err
	}
	if err := s.schedule(r); err != nil {
		return nil, err
	}
	return r, nil
}

// SetEnabled pauses or resumes a reminder without losing its slot.
func (s *ReminderService) SetEnabled(userID uint, identifier string, enabled bool) (*models.Reminder, error) {
	var r models.Reminder
	if err := s.db.Where("user_id = ? AND identifier = ?", userID, identifier).First(&r).Error; err != nil {
		return nil, err
	}
	if r.Enabled == enabled {
		return &r, nil
	}

	r.Enabled = enabled
	if err := s.db.Save(&r).Error; err != nil {
		return nil, err
	}

	if enabled {
		if err := s.schedule(&r); err != nil {
			return nil, err
		}
	} else {
		s.unschedule(identifier)
	}
	return &r, nil
}

// Delete removes the reminder and cancels its cron entry.
func (s *ReminderService) Delete(userID uint, identifier string) error {
	res := s.db.Where("user_id = ? AND identifier = ?", userID, identifier).
		Unscoped().
		Delete(&models.Reminder{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	s.unschedule(identifier)
	return nil
}

func (s *ReminderService) List(userID uint) ([]models.Reminder, error) {
	var reminders []models.Reminder
	err := s.db.Where("user_id = ?", userID).
		Order("hour ASC, minute ASC").
		Find(&reminders).Error
	return reminders, err
}
