package controllers

import (
	"net/http"
	"time"

	"github.com/maous26/lvmeal-sub008/services"

	"github.com/gin-gonic/gin"
)

type DailyLogController struct {
	logs  *services.DailyLogService
	coach *services.CoachService
}

func NewDailyLogController(logs *services.DailyLogService, coach *services.CoachService) *DailyLogController {
	return &DailyLogController{logs: logs, coach: coach}
}

func (dc *DailyLogController) Upsert(c *gin.Context) {
	var body services.DailyLogInput
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := c.GetUint("userID")
	entry, err := dc.logs.Upsert(userID, body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	dc.coach.TriggerRegeneration(userID)
	c.JSON(http.StatusOK, entry)
}

// List reads ?from=YYYY-MM-DD&to=YYYY-MM-DD, defaulting to the last 7
// days.
func (dc *DailyLogController) List(c *gin.Context) {
	to := time.Now()
	from := to.AddDate(0, 0, -6)

	if v := c.Query("from"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "from must be YYYY-MM-DD"})
			return
		}
		from = parsed
	}
	if v := c.Query("to"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "to must be YYYY-MM-DD"})
			return
		}
		to = parsed
	}

	entries, err := dc.logs.List(c.GetUint("userID"), from, to)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, entries)
}

func (dc *DailyLogController) Today(c *gin.Context) {
	entry, err := dc.logs.Today(c.GetUint("userID"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if entry == nil {
		c.JSON(http.StatusOK, gin.H{"logged": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"logged": true, "entry": entry})
}
