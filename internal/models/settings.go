package models

// SettingsID is the constant primary key of the settings singleton row.
const SettingsID = "site"

// SettingsModel is the site-settings singleton. Exactly one row exists; reads
// and writes always address SettingsID.
type SettingsModel struct {
	ID               string `json:"-"                gorm:"type:char(16);primaryKey"`
	LogoURL          string `json:"logoUrl"`
	HeroImageURL     string `json:"heroImageUrl"`
	OrganizationName string `json:"organizationName"`
	PrimaryColor     string `json:"primaryColor"`
	HeroTitle        string `json:"heroTitle"`
	HeroSubtitle     string `json:"heroSubtitle"`
	ContactEmail     string `json:"contactEmail"`
	ContactPhone     string `json:"contactPhone"`
	Address          string `json:"address"`
}

func (SettingsModel) TableName() string { return "settings" }
