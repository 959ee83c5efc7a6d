package config

import (
	"fmt"
	"log"
	"os"

	"github.com/maous26/lvmeal-sub008/models"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// InitDB loads .env, connects to Postgres and migrates the schema.
// The handle is passed to services explicitly so tests can substitute
// an in-memory database.
func InitDB() *gorm.DB {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file, using process environment")
	}

	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := Migrate(db); err != nil {
		log.Fatalf("AutoMigrate failed: %v", err)
	}
	return db
}

// Migrate runs the schema migration for every model. Shared with the
// sqlite-backed service tests.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.DailyLog{},
		&models.DailyBalance{},
		&models.CheatLedger{},
		&models.PhaseState{},
		&models.WeekSummary{},
		&models.CoachItem{},
		&models.Meal{},
		&models.Recipe{},
		&models.CiqualFood{},
		&models.KnowledgeEntry{},
		&models.Reminder{},
		&models.UserDevice{},
	)
}
