package models

import "time"

// MessageModel stores a contact-form submission. Immutable after creation
// except for the IsRead flag, which flips to true exactly once.
type MessageModel struct {
	Base
	Name    string    `json:"name"    gorm:"not null"`
	Email   string    `json:"email"`
	Subject string    `json:"subject"`
	Message string    `json:"message" gorm:"type:text"`
	Date    time.Time `json:"date"    gorm:"index;not null"`
	IsRead  bool      `json:"isRead"  gorm:"not null;default:false"`
}

func (MessageModel) TableName() string { return "messages" }
