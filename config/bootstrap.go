package config

import (
	"errors"

	"github.com/anasyaks/arewabites/models"
	"github.com/anasyaks/arewabites/utils"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Canonical admin account. The password is reset to this value on every
// startup, so manual changes to it do not survive a restart.
const (
	AdminEmail    = "admin@arewabites.com"
	adminPassword = "adminpass"
)

// BootstrapAdmin creates the default admin vendor if absent, or resets its
// credential and admin flag to the canonical values if present. Idempotent.
func BootstrapAdmin(db *gorm.DB, log *zap.Logger) error {
	hashed, err := utils.HashPassword(adminPassword)
	if err != nil {
		return err
	}

	var admin models.Vendor
	err = db.Where("email = ?", AdminEmail).First(&admin).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		admin = models.Vendor{
			BusinessName:   "Arewa Bites Admin",
			ContactName:    "Admin User",
			WhatsappNumber: "2348000000000",
			LocationZone:   "Headquarters",
			State:          "Lagos",
			Email:          AdminEmail,
			Password:       hashed,
			IsAdmin:        true,
			IsVerified:     true,
			LogoURL:        "logos/admin_logo.png",
		}
		if err := db.Create(&admin).Error; err != nil {
			return err
		}
		log.Info("default admin user created")
		return nil
	}
	if err != nil {
		return err
	}

	if err := db.Model(&admin).Updates(map[string]interface{}{
		"password": hashed,
		"is_admin": true,
	}).Error; err != nil {
		return err
	}
	log.Info("admin user already exists, password has been reset")
	return nil
}
