package services

import (
	"fmt"

	"github.com/maous26/lvmeal-sub008/models"

	"gorm.io/gorm"
)

// CoachBus is the single exit point for coaching messages: persist the
// item, broadcast it to open websockets, and push it to the user's
// devices when its priority warrants interrupting them.
type CoachBus struct {
	db   *gorm.DB
	hub  *RealtimeHub
	push *PushService
}

// Items at or above this priority also go out as a mobile push.
const pushPriorityThreshold = 5

func NewCoachBus(db *gorm.DB, hub *RealtimeHub, push *PushService) *CoachBus {
	return &CoachBus{db: db, hub: hub, push: push}
}

func (b *CoachBus) Emit(userID uint, item models.CoachItem) {
	item.UserID = userID
	if err := b.db.Create(&item).Error; err != nil {
		return
	}

	if b.hub != nil {
		b.hub.BroadcastEvent(userID, "coach.item", item)
	}
	if b.push != nil && item.Priority >= pushPriorityThreshold {
		b.push.PushToUser(userID, item.Title, item.Body, map[string]string{
			"type":   item.Type,
			"itemId": fmt.Sprintf("%d", item.ID),
		})
	}
}
