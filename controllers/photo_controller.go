package controllers

import (
	"net/http"

	"github.com/maous26/lvmeal-sub008/services"

	"github.com/gin-gonic/gin"
)

type PhotoController struct {
	vision *services.VisionService
}

func NewPhotoController(vision *services.VisionService) *PhotoController {
	return &PhotoController{vision: vision}
}

// AnalyzePhoto labels a meal photo and attaches a nutrition estimate.
// The client reviews the match before logging it as a meal.
func (pc *PhotoController) AnalyzePhoto(c *gin.Context) {
	var body struct {
		Image string `json:"image" binding:"required"` // data URI
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	analysis, err := pc.vision.AnalyzeMealPhoto(c.Request.Context(), c.GetUint("userID"), body.Image)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, analysis)
}
