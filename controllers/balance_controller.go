package controllers

import (
	"net/http"

	"github.com/maous26/lvmeal-sub008/services"

	"github.com/gin-gonic/gin"
)

type BalanceController struct {
	balance *services.BalanceService
	users   *services.UserService
}

func NewBalanceController(balance *services.BalanceService, users *services.UserService) *BalanceController {
	return &BalanceController{balance: balance, users: users}
}

func (bc *BalanceController) ListBalances(c *gin.Context) {
	rows, err := bc.balance.ListBalances(c.GetUint("userID"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, rows)
}

// CheatStatus answers "can I have a treat meal right now, and how
// big" without spending anything.
func (bc *BalanceController) CheatStatus(c *gin.Context) {
	userID := c.GetUint("userID")
	user, err := bc.users.FindByID(userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	res, err := bc.balance.CanHaveCheatMeal(userID, user.CheatFrequency)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, res)
}

func (bc *BalanceController) UseCheatMeal(c *gin.Context) {
	var body struct {
		Calories float64 `json:"calories" binding:"required,gt=0"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := c.GetUint("userID")
	user, err := bc.users.FindByID(userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	res, err := bc.balance.UseCheatMeal(userID, user.CheatFrequency, body.Calories)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if !res.Allowed {
		c.JSON(http.StatusUnprocessableEntity, res)
		return
	}
	c.JSON(http.StatusOK, res)
}
