package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Widget is a positioned element on an album canvas. ExtraData carries
// type-specific payload as JSON (image URL, track info, text styling).
type Widget struct {
	ID        string    `gorm:"type:uuid;primaryKey"`
	AlbumID   string    `gorm:"type:uuid;not null;index"`
	Album     Album     `gorm:"foreignKey:AlbumID;constraint:OnDelete:CASCADE"`
	Type      string    `gorm:"type:varchar(50);not null"`
	X         float64   `gorm:"not null"`
	Y         float64   `gorm:"not null"`
	Width     float64   `gorm:"not null"`
	Height    float64   `gorm:"not null"`
	ExtraData string    `gorm:"type:jsonb;default:'{}'"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (w *Widget) BeforeCreate(tx *gorm.DB) error {
	if w.ID == "" {
		w.ID = uuid.NewString()
	}
	if w.ExtraData == "" {
		w.ExtraData = "{}"
	}
	return nil
}

func (Widget) TableName() string {
	return "widgets"
}
