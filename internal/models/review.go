package models

import "time"

// Review is a user's rating of a bootcamp. A user may review a bootcamp once.
type Review struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Title      string    `gorm:"size:100;not null" json:"title"`
	Text       string    `gorm:"type:text;not null" json:"text"`
	Rating     int       `gorm:"not null" json:"rating"`
	BootcampID uint      `gorm:"not null;uniqueIndex:idx_reviews_bootcamp_user,priority:1" json:"bootcamp_id"`
	Bootcamp   *Bootcamp `gorm:"foreignKey:BootcampID;constraint:OnDelete:CASCADE" json:"bootcamp,omitempty"`
	UserID     uint      `gorm:"not null;uniqueIndex:idx_reviews_bootcamp_user,priority:2;index" json:"user_id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM.
func (Review) TableName() string {
	return "reviews"
}
