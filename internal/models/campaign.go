package models

import "time"

// CampaignStatus is the lifecycle state of a time-bound campaign.
type CampaignStatus string

const (
	CampaignActive    CampaignStatus = "active"
	CampaignCompleted CampaignStatus = "completed"
	CampaignUrgent    CampaignStatus = "urgent"
)

// ValidCampaignStatus reports whether s is a known status.
func ValidCampaignStatus(s CampaignStatus) bool {
	switch s {
	case CampaignActive, CampaignCompleted, CampaignUrgent:
		return true
	}
	return false
}

// CampaignModel stores a deadline-bound fundraising drive.
type CampaignModel struct {
	Base
	Title         string         `json:"title"         gorm:"not null"`
	Description   string         `json:"description"   gorm:"type:text"`
	Goal          float64        `json:"goal"          gorm:"not null"`
	CurrentAmount float64        `json:"currentAmount" gorm:"not null;default:0"`
	Deadline      time.Time      `json:"deadline"      gorm:"index"`
	ImageURL      string         `json:"imageUrl"`
	Status        CampaignStatus `json:"status"        gorm:"index;default:'active'"`
}

func (CampaignModel) TableName() string { return "campaigns" }
