package models

import (
	"time"

	"gorm.io/gorm"
)

// Ad is an admin-managed promotional unit. It has no owner and no time
// window; visibility is gated solely by IsActive.
type Ad struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	Title     string `gorm:"not null;size:100" json:"title"`
	Content   string `gorm:"type:text;not null" json:"content"`
	MediaURL  string `gorm:"size:255" json:"media_url,omitempty"`
	MediaType string `gorm:"size:10" json:"media_type,omitempty"`
	LinkURL   string `gorm:"size:255" json:"link_url,omitempty"`
	IsActive  bool   `gorm:"not null;default:true" json:"is_active"`

	DatePosted time.Time `gorm:"not null" json:"date_posted"`
}

func (a *Ad) BeforeCreate(tx *gorm.DB) error {
	if a.DatePosted.IsZero() {
		a.DatePosted = time.Now().UTC()
	}
	return nil
}
