package models

import (
	"github.com/anasyaks/arewabites/utils"
	"gorm.io/gorm"
)

// DefaultLogoURL is used when a vendor registers without uploading a logo.
const DefaultLogoURL = "https://res.cloudinary.com/dlwkdmh7b/image/upload/v1723991206/logos/default.png"

type Vendor struct {
	ID uint `gorm:"primaryKey" json:"id"`

	// Business identity
	BusinessName   string `gorm:"unique;not null;size:100" json:"business_name"`
	ContactName    string `gorm:"not null;size:100" json:"contact_name"`
	WhatsappNumber string `gorm:"unique;not null;size:20" json:"whatsapp_number"`
	LocationZone   string `gorm:"not null;size:100" json:"location_zone"`
	State          string `gorm:"not null;size:100" json:"state"`

	// Login
	Email    string `gorm:"unique;not null;size:120" json:"email"`
	Password string `gorm:"not null;size:200" json:"-"`

	LogoURL string `gorm:"not null;size:200" json:"logo_url"`

	// Role & Status
	IsAdmin    bool `gorm:"default:false" json:"is_admin"`
	IsVerified bool `gorm:"default:false" json:"is_verified"`

	// Referral lineage. ReferredBy points at the vendor whose code was used
	// at registration; nil when no (or an invalid) code was supplied.
	ReferralCode string `gorm:"unique;not null;size:10" json:"referral_code"`
	ReferredBy   *uint  `gorm:"index" json:"referred_by"`

	// Relations
	Snacks []Snack `gorm:"foreignKey:VendorID;constraint:OnDelete:CASCADE" json:"snacks,omitempty"`
}

// BeforeCreate assigns a referral code and the default logo when absent.
func (v *Vendor) BeforeCreate(tx *gorm.DB) error {
	if v.ReferralCode == "" {
		code, err := utils.GenerateReferralCode()
		if err != nil {
			return err
		}
		v.ReferralCode = code
	}
	if v.LogoURL == "" {
		v.LogoURL = DefaultLogoURL
	}
	return nil
}

// BeforeDelete cascades the delete to the vendor's snacks and, transitively,
// their reviews. Done here rather than relying on database-level FK actions
// so the cascade holds on every supported driver.
func (v *Vendor) BeforeDelete(tx *gorm.DB) error {
	db := tx.Session(&gorm.Session{NewDB: true})
	snackIDs := db.Model(&Snack{}).Select("id").Where("vendor_id = ?", v.ID)
	if err := db.Where("snack_id IN (?)", snackIDs).Delete(&Review{}).Error; err != nil {
		return err
	}
	return db.Where("vendor_id = ?", v.ID).Delete(&Snack{}).Error
}
