package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID                string    `gorm:"type:uuid;primaryKey"`
	Email             string    `gorm:"type:varchar(254);uniqueIndex;not null"`
	Username          string    `gorm:"type:varchar(30);uniqueIndex;not null"`
	PasswordHash      string    `gorm:"type:varchar(255);not null"`
	Gender            string    `gorm:"type:varchar(20)"`
	PhoneNumber       *string   `gorm:"type:varchar(20);uniqueIndex"`
	Provider          string    `gorm:"type:varchar(50);default:'local'"`
	ProfileImage      string    `gorm:"type:text"`
	AccountVisibility string    `gorm:"type:varchar(10);default:'public'"`
	IsActive          bool      `gorm:"default:true;not null"`
	CreatedAt         time.Time `gorm:"autoCreateTime"`
	UpdatedAt         time.Time `gorm:"autoUpdateTime"`
}

// Account visibility constants
const (
	VisibilityPublic  = "public"
	VisibilityPrivate = "private"
)

// Gender choices mirror the registration form
const (
	GenderMale        = "male"
	GenderFemale      = "female"
	GenderOther       = "other"
	GenderNonBinary   = "non-binary"
	GenderUndisclosed = "prefer not to say"
)

func validGender(g string) bool {
	switch g {
	case "", GenderMale, GenderFemale, GenderOther, GenderNonBinary, GenderUndisclosed:
		return true
	}
	return false
}

// BeforeCreate hook assigns the UUID primary key
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// BeforeSave hook for defaults and validation
func (u *User) BeforeSave(tx *gorm.DB) error {
	if !validGender(u.Gender) {
		return gorm.ErrInvalidData
	}

	if u.Provider == "" {
		u.Provider = "local"
	}

	if u.AccountVisibility == "" {
		u.AccountVisibility = VisibilityPublic
	}
	if u.AccountVisibility != VisibilityPublic && u.AccountVisibility != VisibilityPrivate {
		return gorm.ErrInvalidData
	}

	return nil
}

// TableName specifies the table name
func (User) TableName() string {
	return "users"
}
