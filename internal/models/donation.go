package models

import "time"

// DonationModel is an immutable donation record. At most one of ProjectID and
// CampaignID is set; neither denotes a general-fund donation. Targets are weak
// references: a dangling id is rendered as "General Fund" downstream, never an
// error.
type DonationModel struct {
	ID            string    `json:"id"            gorm:"type:char(64);primaryKey"`
	ProjectID     *string   `json:"projectId,omitempty"  gorm:"type:char(64);index"`
	CampaignID    *string   `json:"campaignId,omitempty" gorm:"type:char(64);index"`
	Amount        float64   `json:"amount"        gorm:"not null"`
	DonorName     string    `json:"donorName"`
	DonorEmail    string    `json:"donorEmail"`
	Date          time.Time `json:"date"          gorm:"index;not null"`
	Message       string    `json:"message,omitempty"       gorm:"type:text"`
	IsAnonymous   bool      `json:"isAnonymous"`
	PaymentMethod string    `json:"paymentMethod,omitempty"`
}

func (DonationModel) TableName() string { return "donations" }

// Target returns the single aggregate target of the donation, if any.
func (d *DonationModel) Target() (kind string, id string, ok bool) {
	if d.ProjectID != nil && *d.ProjectID != "" {
		return "project", *d.ProjectID, true
	}
	if d.CampaignID != nil && *d.CampaignID != "" {
		return "campaign", *d.CampaignID, true
	}
	return "", "", false
}
