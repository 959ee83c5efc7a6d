package routes

import (
	"github.com/maous26/lvmeal-sub008/controllers"
	"github.com/maous26/lvmeal-sub008/middlewares"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Controllers bundles every controller the router mounts.
type Controllers struct {
	Auth      *controllers.AuthController
	User      *controllers.UserController
	DailyLog  *controllers.DailyLogController
	Balance   *controllers.BalanceController
	Phase     *controllers.PhaseController
	Meal      *controllers.MealController
	Food      *controllers.FoodController
	Photo     *controllers.PhotoController
	Coach     *controllers.CoachController
	Reminder  *controllers.ReminderController
	Device    *controllers.DeviceController
	Realtime  *controllers.RealtimeController
	Analytics *controllers.AnalyticsController
	Dev       *controllers.DevController
}

func SetupRouter(db *gorm.DB, c Controllers) *gin.Engine {
	r := gin.Default()

	r.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(200, gin.H{"status": "ok"})
	})

	// Public auth routes
	auth := r.Group("/auth")
	{
		auth.POST("/register", c.Auth.Register)
		auth.POST("/login", c.Auth.Login)
		auth.POST("/mfa/verify", c.Auth.VerifyMFA)
		auth.POST("/forgot-password", c.Auth.ForgotPassword)
		auth.POST("/reset-password", c.Auth.ResetPassword)
	}

	authed := r.Group("/")
	authed.Use(middlewares.AuthMiddleware(db))
	{
		user := authed.Group("/user")
		{
			user.GET("/profile", c.User.GetProfile)
			user.PUT("/profile", c.User.UpdateProfile)
			user.POST("/onboarding", c.User.CompleteOnboarding)
			user.DELETE("/account", c.User.DeleteAccount)
		}

		logs := authed.Group("/logs")
		{
			logs.POST("", c.DailyLog.Upsert)
			logs.GET("", c.DailyLog.List)
			logs.GET("/today", c.DailyLog.Today)
		}

		balance := authed.Group("/balance")
		{
			balance.GET("", c.Balance.ListBalances)
			balance.GET("/cheat-meal", c.Balance.CheatStatus)
			balance.POST("/cheat-meal", c.Balance.UseCheatMeal)
		}

		phase := authed.Group("/phase")
		{
			phase.GET("", c.Phase.GetState)
			phase.GET("/check", c.Phase.CheckProgression)
			phase.POST("/progress", c.Phase.Progress)
			phase.GET("/history", c.Phase.WeekSummaries)
		}

		meals := authed.Group("/meals")
		{
			meals.POST("/suggest", c.Meal.Suggest)
			meals.POST("/route", c.Meal.Route)
			meals.POST("", c.Meal.LogMeal)
			meals.GET("", c.Meal.ListMeals)
			meals.DELETE("/:id", c.Meal.DeleteMeal)
			meals.POST("/photo", c.Photo.AnalyzePhoto)
		}

		foods := authed.Group("/foods")
		{
			foods.GET("/search", c.Food.SearchFoods)
			foods.GET("/products", c.Food.SearchProducts)
			foods.GET("/barcode/:code", c.Food.Barcode)
			foods.GET("/recipes", c.Food.SearchRecipes)
		}

		coach := authed.Group("/coach")
		{
			coach.GET("/items", c.Coach.ListItems)
			coach.POST("/regenerate", c.Coach.Regenerate)
			coach.POST("/items/:id/read", c.Coach.MarkRead)
			coach.POST("/items/:id/dismiss", c.Coach.Dismiss)
			coach.POST("/ask", c.Coach.Ask)
		}

		reminders := authed.Group("/reminders")
		{
			reminders.GET("", c.Reminder.List)
			reminders.POST("", c.Reminder.Create)
			reminders.PATCH("/:identifier", c.Reminder.SetEnabled)
			reminders.DELETE("/:identifier", c.Reminder.Delete)
		}

		authed.POST("/devices", c.Device.RegisterDevice)
		authed.PUT("/notifications", c.Device.SetNotifications)
		authed.GET("/ws/events", c.Realtime.EventsWS)
		authed.GET("/analytics/summary", c.Analytics.Summary)
		authed.POST("/dev/push-test", c.Dev.PushTest)
	}

	return r
}
