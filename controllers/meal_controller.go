package controllers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/maous26/lvmeal-sub008/models"
	"github.com/maous26/lvmeal-sub008/services"

	"github.com/gin-gonic/gin"
)

type MealController struct {
	meals *services.MealService
	rag   *services.RAGMealService
	users *services.UserService
	coach *services.CoachService
}

func NewMealController(meals *services.MealService, rag *services.RAGMealService, users *services.UserService, coach *services.CoachService) *MealController {
	return &MealController{meals: meals, rag: rag, users: users, coach: coach}
}

// Suggest routes the meal request to the best source and returns a
// proposal with the routing explanation.
func (mc *MealController) Suggest(c *gin.Context) {
	var body struct {
		MealType            string  `json:"meal_type" binding:"required"`
		Query               string  `json:"query"`
		Quick               bool    `json:"quick"`
		CalorieTolerancePct float64 `json:"calorie_tolerance_pct"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := mc.users.FindByID(c.GetUint("userID"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	ctx := services.MealContext{
		MealType:            body.MealType,
		DietType:            user.DietType,
		TargetCalories:      user.TargetCalories,
		CalorieTolerancePct: body.CalorieTolerancePct,
		Quick:               body.Quick,
		Preference:          user.MealSourcePreference,
		Query:               body.Query,
	}
	if user.Allergens != "" {
		ctx.Allergens = strings.Split(user.Allergens, ",")
	}

	result, err := mc.rag.GetRAGMeal(c.Request.Context(), ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if result.Suggestion == nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error":    "no source could propose a meal for these constraints",
			"decision": result.Decision,
		})
		return
	}
	c.JSON(http.StatusOK, result)
}

// Route exposes the routing verdict alone, for the app to show which
// dataset a suggestion would come from.
func (mc *MealController) Route(c *gin.Context) {
	var body struct {
		MealType            string  `json:"meal_type" binding:"required"`
		Quick               bool    `json:"quick"`
		CalorieTolerancePct float64 `json:"calorie_tolerance_pct"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := mc.users.FindByID(c.GetUint("userID"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	ctx := services.MealContext{
		MealType:            body.MealType,
		DietType:            user.DietType,
		TargetCalories:      user.TargetCalories,
		CalorieTolerancePct: body.CalorieTolerancePct,
		Quick:               body.Quick,
		Preference:          user.MealSourcePreference,
	}
	if user.Allergens != "" {
		ctx.Allergens = strings.Split(user.Allergens, ",")
	}
	c.JSON(http.StatusOK, services.DecideMealSource(ctx))
}

func (mc *MealController) LogMeal(c *gin.Context) {
	var body struct {
		Type      string    `json:"type" binding:"required"`
		AteAt     time.Time `json:"ate_at"`
		Name      string    `json:"name" binding:"required"`
		Source    string    `json:"source"`
		Calories  float64   `json:"calories" binding:"required"`
		Proteins  float64   `json:"proteins"`
		Carbs     float64   `json:"carbs"`
		Fats      float64   `json:"fats"`
		CheatMeal bool      `json:"cheat_meal"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := c.GetUint("userID")
	meal, err := mc.meals.LogMeal(userID, models.Meal{
		Type:      body.Type,
		AteAt:     body.AteAt,
		Name:      body.Name,
		Source:    body.Source,
		Calories:  body.Calories,
		Proteins:  body.Proteins,
		Carbs:     body.Carbs,
		Fats:      body.Fats,
		CheatMeal: body.CheatMeal,
	})
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	mc.coach.TriggerRegeneration(userID)
	c.JSON(http.StatusCreated, meal)
}

func parseDayParam(c *gin.Context) (time.Time, bool) {
	v := c.Query("date")
	if v == "" {
		return time.Now(), true
	}
	parsed, err := time.Parse("2006-01-02", v)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
		return time.Time{}, false
	}
	return parsed, true
}

func (mc *MealController) ListMeals(c *gin.Context) {
	date, ok := parseDayParam(c)
	if !ok {
		return
	}
	summary, err := mc.meals.Summary(c.GetUint("userID"), date)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (mc *MealController) DeleteMeal(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid meal id"})
		return
	}
	if err := mc.meals.DeleteMeal(c.GetUint("userID"), uint(id)); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "meal deleted"})
}
