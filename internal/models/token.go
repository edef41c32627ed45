package models

import (
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AuthToken is the long-lived bearer credential, one per account. Tokens are
// minted lazily at first login and survive until the account is deleted.
type AuthToken struct {
	ID        string    `gorm:"type:uuid;primaryKey"`
	UserID    string    `gorm:"type:uuid;uniqueIndex;not null"`
	User      User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Key       string    `gorm:"type:varchar(40);uniqueIndex;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// BeforeCreate hook assigns the UUID primary key and mints the opaque key
func (t *AuthToken) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.Key == "" {
		key, err := GenerateTokenKey()
		if err != nil {
			return err
		}
		t.Key = key
	}
	return nil
}

// GenerateTokenKey returns a 40-character hex token key from crypto/rand.
func GenerateTokenKey() (string, error) {
	b := make([]byte, 20)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func (AuthToken) TableName() string {
	return "auth_tokens"
}
