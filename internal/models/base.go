package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base is the base model for admin-managed entities.
// ID is an opaque string; prefixed ids (DON-, MSG-) pass through untouched.
type Base struct {
	ID        string         `json:"id"        gorm:"type:char(64);primaryKey"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `json:"-"         gorm:"index"`
}

func (b *Base) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	return nil
}

// NewEntityID returns a fresh id for admin-managed entities.
func NewEntityID() string {
	return uuid.New().String()
}

// NewDonationID returns a fresh donation reference id.
// The human-readable prefix is kept from the legacy scheme; the suffix is a
// UUID instead of a short random token so collisions are not a concern.
func NewDonationID() string {
	return "DON-" + uuid.New().String()
}

// NewMessageID returns a fresh contact-message id.
func NewMessageID() string {
	return "MSG-" + uuid.New().String()
}
