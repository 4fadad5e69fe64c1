package models

import (
	"time"

	"gorm.io/gorm"
)

// Review is create-only: there is no exposed operation that edits or
// removes one, short of its snack being deleted.
type Review struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	SnackID uint   `gorm:"index;not null" json:"snack_id"`
	Rating  int    `gorm:"not null" json:"rating"`
	Comment string `gorm:"type:text;not null" json:"comment"`

	DatePosted time.Time `gorm:"not null" json:"date_posted"`
}

func (r *Review) BeforeCreate(tx *gorm.DB) error {
	if r.DatePosted.IsZero() {
		r.DatePosted = time.Now().UTC()
	}
	return nil
}
