package config

import (
	"github.com/anasyaks/arewabites/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func Migrate(db *gorm.DB, log *zap.Logger) error {
	// Migrate the schema
	err := db.AutoMigrate(
		&models.Vendor{},
		&models.Snack{},
		&models.Review{},
		&models.Ad{},
	)
	if err != nil {
		log.Error("failed to migrate database schema", zap.Error(err))
		return err
	}

	log.Info("database migrations completed")
	return nil
}
