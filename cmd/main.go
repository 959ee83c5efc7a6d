package main

import (
	"log"

	"github.com/maous26/lvmeal-sub008/config"
	"github.com/maous26/lvmeal-sub008/controllers"
	"github.com/maous26/lvmeal-sub008/routes"
	"github.com/maous26/lvmeal-sub008/services"
	"github.com/maous26/lvmeal-sub008/utils"
)

func main() {
	db := config.InitDB()
	utils.InitMailer()
	utils.InitS3()

	hub := services.NewRealtimeHub()
	push, err := services.NewPushService(db)
	if err != nil {
		log.Fatalf("push service init failed: %v", err)
	}
	bus := services.NewCoachBus(db, hub, push)

	llm := services.NewLLMClient()
	balanceSvc := services.NewBalanceService(db)
	phaseSvc := services.NewPhaseService(db, bus)
	coachSvc := services.NewCoachService(db, llm, bus, balanceSvc, phaseSvc)
	knowledgeSvc := services.NewKnowledgeService(db, llm)

	offSvc := services.NewOFFService()
	ciqualSvc := services.NewCiqualService(db)
	recipeSvc := services.NewRecipeService(db)
	ragSvc := services.NewRAGMealService(
		recipeSvc,
		offSvc,
		ciqualSvc,
		services.NewLLMMealSource(llm),
	)

	authSvc := services.NewAuthService(db)
	userSvc := services.NewUserService(db)
	logSvc := services.NewDailyLogService(db)
	mealSvc := services.NewMealService(db, balanceSvc)
	analyticsSvc := services.NewAnalyticsService(db)

	visionSvc, err := services.NewVisionService(offSvc)
	if err != nil {
		log.Fatalf("vision service init failed: %v", err)
	}

	reminderSvc := services.NewReminderService(db, push, hub)
	if err := reminderSvc.LoadAll(); err != nil {
		log.Fatalf("reminder load failed: %v", err)
	}
	reminderSvc.Start()
	defer reminderSvc.Stop()

	r := routes.SetupRouter(db, routes.Controllers{
		Auth:      controllers.NewAuthController(authSvc),
		User:      controllers.NewUserController(userSvc),
		DailyLog:  controllers.NewDailyLogController(logSvc, coachSvc),
		Balance:   controllers.NewBalanceController(balanceSvc, userSvc),
		Phase:     controllers.NewPhaseController(phaseSvc),
		Meal:      controllers.NewMealController(mealSvc, ragSvc, userSvc, coachSvc),
		Food:      controllers.NewFoodController(ciqualSvc, offSvc, recipeSvc),
		Photo:     controllers.NewPhotoController(visionSvc),
		Coach:     controllers.NewCoachController(coachSvc, knowledgeSvc, userSvc),
		Reminder:  controllers.NewReminderController(reminderSvc),
		Device:    controllers.NewDeviceController(push),
		Realtime:  controllers.NewRealtimeController(hub),
		Analytics: controllers.NewAnalyticsController(analyticsSvc),
		Dev:       controllers.NewDevController(push),
	})

	if err := r.Run(":8080"); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}
