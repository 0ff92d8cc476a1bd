package models

import "time"

// DefaultPhoto is the photo name stored until an upload replaces it.
const DefaultPhoto = "no-photo.jpg"

// Careers a bootcamp can advertise.
const (
	CareerWebDevelopment    = "Web Development"
	CareerMobileDevelopment = "Mobile Development"
	CareerUIUX              = "UI/UX"
	CareerDataScience       = "Data Science"
	CareerBusiness          = "Business"
	CareerOther             = "Other"
)

// Careers lists every accepted career value.
var Careers = []string{
	CareerWebDevelopment,
	CareerMobileDevelopment,
	CareerUIUX,
	CareerDataScience,
	CareerBusiness,
	CareerOther,
}

// Location is the geocoded address of a bootcamp.
type Location struct {
	Lng              float64 `gorm:"column:lng;index:idx_bootcamps_location,priority:2" json:"lng"`
	Lat              float64 `gorm:"column:lat;index:idx_bootcamps_location,priority:1" json:"lat"`
	FormattedAddress string  `gorm:"column:formatted_address;size:255" json:"formatted_address"`
	Street           string  `gorm:"column:street;size:255" json:"street"`
	City             string  `gorm:"column:city;size:120" json:"city"`
	State            string  `gorm:"column:state;size:60" json:"state"`
	Zipcode          string  `gorm:"column:zipcode;size:20" json:"zipcode"`
	Country          string  `gorm:"column:country;size:60" json:"country"`
}

// Bootcamp is a training-program listing and the parent of courses and reviews.
//
// AverageCost and AverageRating are derived from the current child rows and
// are NULL when the bootcamp has none.
type Bootcamp struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Name          string    `gorm:"size:50;not null;uniqueIndex" json:"name"`
	Slug          string    `gorm:"size:80;not null;index" json:"slug"`
	Description   string    `gorm:"size:350;not null" json:"description"`
	Website       string    `gorm:"size:255" json:"website,omitempty"`
	Phone         string    `gorm:"size:20" json:"phone,omitempty"`
	Email         string    `gorm:"size:255" json:"email,omitempty"`
	Location      Location  `gorm:"embedded;embeddedPrefix:location_" json:"location"`
	Careers       []string  `gorm:"serializer:json;type:text;not null" json:"careers"`
	AverageRating *float64  `json:"average_rating"`
	AverageCost   *float64  `json:"average_cost"`
	Photo         string    `gorm:"size:255;not null;default:'no-photo.jpg'" json:"photo"`
	Housing       bool      `gorm:"not null;default:false" json:"housing"`
	JobAssistance bool      `gorm:"not null;default:false" json:"job_assistance"`
	JobGuarantee  bool      `gorm:"not null;default:false" json:"job_guarantee"`
	AcceptGi      bool      `gorm:"not null;default:false" json:"accept_gi"`
	UserID        uint      `gorm:"not null;index" json:"user_id"`
	User          *User     `gorm:"foreignKey:UserID;constraint:OnDelete:RESTRICT" json:"user,omitempty"`
	Courses       []Course  `gorm:"foreignKey:BootcampID" json:"courses,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM.
func (Bootcamp) TableName() string {
	return "bootcamps"
}

// OwnedBy reports whether userID owns the bootcamp.
func (b *Bootcamp) OwnedBy(userID uint) bool {
	return b != nil && b.UserID == userID
}
