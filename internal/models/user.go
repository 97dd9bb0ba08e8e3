package models

import (
	"time"
)

const (
	GenderMale   = "male"
	GenderFemale = "female"

	SocialStatusSingle = "single"
)

type User struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Name           string    `gorm:"not null" json:"name"`
	Phone          string    `gorm:"uniqueIndex;not null" json:"phone"`
	Email          string    `gorm:"uniqueIndex;not null" json:"email"`
	Password       string    `gorm:"not null" json:"-"`
	Age            int       `gorm:"not null" json:"age"`
	Gender         string    `gorm:"not null;check:gender IN ('male','female')" json:"gender"`
	City           string    `gorm:"not null" json:"city"`
	State          string    `gorm:"not null" json:"state"`
	Country        string    `gorm:"not null" json:"country"`
	ChurchName     string    `gorm:"not null" json:"church_name"`
	SocialStatus   string    `gorm:"not null" json:"social_status"`
	ProfilePicture string    `json:"profile_picture,omitempty"`
	IsVerified     bool      `gorm:"default:false" json:"is_verified"`
	IsBlocked      bool      `gorm:"default:false" json:"is_blocked"`
	IsAdmin        bool      `gorm:"default:false" json:"is_admin"`
	CreatedAt      time.Time `json:"created_at"`
}

// OppositeGender drives the matching queries; the column check constraint
// guarantees one of the two constants is stored.
func (u *User) OppositeGender() string {
	if u.Gender == GenderMale {
		return GenderFemale
	}
	return GenderMale
}
