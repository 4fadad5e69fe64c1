package models

import (
	"time"

	"gorm.io/gorm"
)

// VisibilityWindow is how long a snack stays on public listings after being
// posted. Rows older than this are hidden from queries first and physically
// removed later by the sweeper.
const VisibilityWindow = 24 * time.Hour

const (
	MediaTypeImage = "image"
	MediaTypeVideo = "video"
)

type Snack struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	VendorID    uint    `gorm:"index;not null" json:"vendor_id"`
	Name        string  `gorm:"not null;size:100" json:"name"`
	Description string  `gorm:"type:text;not null" json:"description"`
	Price       float64 `gorm:"not null" json:"price"`
	MediaURL    string  `gorm:"size:200" json:"media_url"`
	MediaType   string  `gorm:"size:10;default:'image'" json:"media_type"`

	DatePosted time.Time `gorm:"not null;index" json:"date_posted"`

	// Relations
	Vendor  Vendor   `gorm:"foreignKey:VendorID" json:"vendor,omitempty"`
	Reviews []Review `gorm:"foreignKey:SnackID;constraint:OnDelete:CASCADE" json:"reviews,omitempty"`
}

func (s *Snack) BeforeCreate(tx *gorm.DB) error {
	if s.DatePosted.IsZero() {
		s.DatePosted = time.Now().UTC()
	}
	if s.MediaType == "" {
		s.MediaType = MediaTypeImage
	}
	return nil
}

// BeforeDelete removes the snack's reviews.
func (s *Snack) BeforeDelete(tx *gorm.DB) error {
	db := tx.Session(&gorm.Session{NewDB: true})
	return db.Where("snack_id = ?", s.ID).Delete(&Review{}).Error
}

// Fresh is the read-time visibility filter: only snacks posted strictly
// later than now minus the visibility window. There is no stored "expired"
// flag; the predicate is re-evaluated against the query time.
func Fresh(now time.Time) func(*gorm.DB) *gorm.DB {
	cutoff := now.Add(-VisibilityWindow)
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("snacks.date_posted > ?", cutoff)
	}
}
