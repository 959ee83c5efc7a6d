package controllers

import (
	"net/http"

	"github.com/maous26/lvmeal-sub008/services"

	"github.com/gin-gonic/gin"
)

type DevController struct {
	push *services.PushService
}

func NewDevController(push *services.PushService) *DevController {
	return &DevController{push: push}
}

// PushTest sends a test notification to the caller's own devices.
func (d *DevController) PushTest(c *gin.Context) {
	var req struct {
		Title string            `json:"title"`
		Body  string            `json:"body"`
		Data  map[string]string `json:"data"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Title == "" {
		req.Title = "Test"
	}
	if req.Body == "" {
		req.Body = "This is only a test."
	}
	if req.Data == nil {
		req.Data = map[string]string{"type": "test"}
	}

	d.push.PushToUser(c.GetUint("userID"), req.Title, req.Body, req.Data)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
