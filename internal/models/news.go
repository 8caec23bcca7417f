package models

import "time"

// NewsModel stores an admin-authored news update. No aggregate linkage.
type NewsModel struct {
	Base
	Title    string    `json:"title"   gorm:"not null"`
	Content  string    `json:"content" gorm:"type:longtext"`
	Author   string    `json:"author"`
	Date     time.Time `json:"date"    gorm:"index;not null"`
	ImageURL string    `json:"imageUrl,omitempty"`
}

func (NewsModel) TableName() string { return "news" }
