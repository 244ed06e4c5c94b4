package database

import (
	"fmt"
	"log"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/teampulse/feedback-backend/config"
	"github.com/teampulse/feedback-backend/internal/models"
)

// Connect opens the application database.
func Connect(cfg *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	log.Printf("Database connected successfully")
	return db, nil
}

// Migrate creates the schema and secondary indexes. Unique indexes on
// users.email and users.employee_id and the feedback/forms indexes come
// from the model tags.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Feedback{},
		&models.FeedbackForm{},
	)
}
