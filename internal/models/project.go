package models

// ProjectCategory classifies a fundraising project.
type ProjectCategory string

const (
	CategoryEducation      ProjectCategory = "Education"
	CategoryHealth         ProjectCategory = "Health"
	CategoryEnvironment    ProjectCategory = "Environment"
	CategoryDisasterRelief ProjectCategory = "Disaster Relief"
	CategoryCommunity      ProjectCategory = "Community"
)

// ValidProjectCategory reports whether c is one of the known categories.
func ValidProjectCategory(c ProjectCategory) bool {
	switch c {
	case CategoryEducation, CategoryHealth, CategoryEnvironment, CategoryDisasterRelief, CategoryCommunity:
		return true
	}
	return false
}

// ProjectModel stores a long-running fundraising project.
// CurrentAmount only grows through donations; admin edits are the one
// sanctioned exception.
type ProjectModel struct {
	Base
	Title         string          `json:"title"         gorm:"not null"`
	Description   string          `json:"description"   gorm:"type:text"`
	Category      ProjectCategory `json:"category"      gorm:"index;not null"`
	Goal          float64         `json:"goal"          gorm:"not null"`
	CurrentAmount float64         `json:"currentAmount" gorm:"not null;default:0"`
	ImageURL      string          `json:"imageUrl"`
}

func (ProjectModel) TableName() string { return "projects" }
