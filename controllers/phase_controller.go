package controllers

import (
	"net/http"

	"github.com/maous26/lvmeal-sub008/services"

	"github.com/gin-gonic/gin"
)

type PhaseController struct {
	phase *services.PhaseService
}

func NewPhaseController(phase *services.PhaseService) *PhaseController {
	return &PhaseController{phase: phase}
}

func (pc *PhaseController) GetState(c *gin.Context) {
	state, err := pc.phase.State(c.GetUint("userID"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	cfg, _ := services.ConfigForPhase(state.Phase)
	c.JSON(http.StatusOK, gin.H{
		"phase":          state.Phase,
		"current_week":   state.CurrentWeek,
		"duration_weeks": cfg.DurationWeeks,
		"started_at":     state.StartedAt.Format("2006-01-02"),
		"tips":           cfg.Tips,
	})
}

// CheckProgression runs the gates without advancing anything.
func (pc *PhaseController) CheckProgression(c *gin.Context) {
	check, err := pc.phase.CheckPhaseProgression(c.GetUint("userID"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, check)
}

// Progress advances to the next phase when the gates pass; a failed
// gate comes back as 422 with the blocking reason.
func (pc *PhaseController) Progress(c *gin.Context) {
	state, check, err := pc.phase.ProgressToNextPhase(c.GetUint("userID"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if !check.CanProgress {
		c.JSON(http.StatusUnprocessableEntity, check)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"phase":        state.Phase,
		"current_week": state.CurrentWeek,
		"check":        check,
	})
}

func (pc *PhaseController) WeekSummaries(c *gin.Context) {
	summaries, err := pc.phase.WeekSummaries(c.GetUint("userID"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, summaries)
}
