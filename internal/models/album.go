package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Album is the per-account profile canvas, created automatically when the
// account is registered.
type Album struct {
	ID                string    `gorm:"type:uuid;primaryKey"`
	UserID            string    `gorm:"type:uuid;uniqueIndex;not null"`
	User              User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	BackgroundColor   string    `gorm:"type:varchar(10);default:'#FFFFFF'"`
	BackgroundPattern string    `gorm:"type:varchar(50);default:'none'"`
	CreatedAt         time.Time `gorm:"autoCreateTime"`
}

func (a *Album) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.BackgroundColor == "" {
		a.BackgroundColor = "#FFFFFF"
	}
	if a.BackgroundPattern == "" {
		a.BackgroundPattern = "none"
	}
	return nil
}

func (Album) TableName() string {
	return "albums"
}
