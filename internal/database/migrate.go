package database

import (
	"log"

	"fittrack_backend/internal/models"

	"gorm.io/gorm"
)

// AutoMigrate выполняет миграцию всех моделей
func AutoMigrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.Member{},
		&models.Program{},
		&models.ProgramMembership{},
		&models.Notification{},
		&models.NotificationRecipient{},
		&models.ProgramInvite{},
		&models.Workout{},
		&models.HealthLog{},
	)
	if err != nil {
		return err
	}

	log.Println("✅ AutoMigrate успешно завершен.")
	return nil
}
