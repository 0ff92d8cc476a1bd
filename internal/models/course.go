package models

import "time"

// Minimum skill levels a course can require.
const (
	SkillBeginner     = "beginner"
	SkillIntermediate = "intermediate"
	SkillAdvanced     = "advanced"
)

// Course is one curriculum offered by a bootcamp. Its tuition feeds the
// bootcamp's average cost.
type Course struct {
	ID                   uint      `gorm:"primaryKey" json:"id"`
	Title                string    `gorm:"size:255;not null" json:"title"`
	Description          string    `gorm:"type:text;not null" json:"description"`
	Weeks                string    `gorm:"size:20;not null" json:"weeks"`
	Tuition              float64   `gorm:"not null" json:"tuition"`
	MinimumSkill         string    `gorm:"size:20;not null" json:"minimum_skill"`
	ScholarshipAvailable bool      `gorm:"not null;default:false" json:"scholarship_available"`
	BootcampID           uint      `gorm:"not null;index" json:"bootcamp_id"`
	Bootcamp             *Bootcamp `gorm:"foreignKey:BootcampID;constraint:OnDelete:CASCADE" json:"bootcamp,omitempty"`
	UserID               uint      `gorm:"not null;index" json:"user_id"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM.
func (Course) TableName() string {
	return "courses"
}
