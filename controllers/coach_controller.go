package controllers

import (
	"net/http"
	"strconv"

	"github.com/maous26/lvmeal-sub008/services"

	"github.com/gin-gonic/gin"
)

type CoachController struct {
	coach     *services.CoachService
	knowledge *services.KnowledgeService
	users     *services.UserService
}

func NewCoachController(coach *services.CoachService, knowledge *services.KnowledgeService, users *services.UserService) *CoachController {
	return &CoachController{coach: coach, knowledge: knowledge, users: users}
}

func (cc *CoachController) ListItems(c *gin.Context) {
	items, err := cc.coach.ListItems(c.GetUint("userID"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, items)
}

// Regenerate forces a rebuild of the feed, bypassing the freshness
// window.
func (cc *CoachController) Regenerate(c *gin.Context) {
	if err := cc.coach.Regenerate(c.Request.Context(), c.GetUint("userID"), true); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	items, err := cc.coach.ListItems(c.GetUint("userID"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, items)
}

func itemIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid item id"})
		return 0, false
	}
	return uint(id), true
}

func (cc *CoachController) MarkRead(c *gin.Context) {
	id, ok := itemIDParam(c)
	if !ok {
		return
	}
	if err := cc.coach.MarkRead(c.GetUint("userID"), id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "marked read"})
}

func (cc *CoachController) Dismiss(c *gin.Context) {
	id, ok := itemIDParam(c)
	if !ok {
		return
	}
	if err := cc.coach.Dismiss(c.GetUint("userID"), id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "dismissed"})
}

// Ask answers a free-form nutrition question from the knowledge base.
func (cc *CoachController) Ask(c *gin.Context) {
	var body struct {
		Question string `json:"question" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := cc.users.FindByID(c.GetUint("userID"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	answer, err := cc.knowledge.AnswerQuestion(c.Request.Context(), *user, body.Question)
	if err != nil {
		if err == services.ErrLLMNotConfigured {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "question answering is not available"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, answer)
}
