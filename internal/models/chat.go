package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ChatRoom is a two-party conversation. The participant pair is stored in
// canonical order and unique, so opening a room is idempotent per pair.
type ChatRoom struct {
	ID        string    `gorm:"type:uuid;primaryKey"`
	User1ID   string    `gorm:"type:uuid;not null;index:idx_chat_room,unique"`
	User1     User      `gorm:"foreignKey:User1ID;constraint:OnDelete:CASCADE"`
	User2ID   string    `gorm:"type:uuid;not null;index:idx_chat_room,unique"`
	User2     User      `gorm:"foreignKey:User2ID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (r *ChatRoom) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	r.User1ID, r.User2ID = OrderedPair(r.User1ID, r.User2ID)
	return nil
}

func (ChatRoom) TableName() string {
	return "chat_rooms"
}

// HasParticipant reports whether userID belongs to the room.
func (r *ChatRoom) HasParticipant(userID string) bool {
	return r.User1ID == userID || r.User2ID == userID
}

// OtherParticipant returns the counterpart of userID in the room.
func (r *ChatRoom) OtherParticipant(userID string) string {
	if r.User1ID == userID {
		return r.User2ID
	}
	return r.User1ID
}

type ChatMessage struct {
	ID        string    `gorm:"type:uuid;primaryKey"`
	RoomID    string    `gorm:"type:uuid;not null;index"`
	Room      ChatRoom  `gorm:"foreignKey:RoomID;constraint:OnDelete:CASCADE"`
	SenderID  string    `gorm:"type:uuid;not null"`
	Sender    User      `gorm:"foreignKey:SenderID;constraint:OnDelete:CASCADE"`
	Content   string    `gorm:"type:text;not null"`
	IsRead    bool      `gorm:"default:false;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime;index"`
}

func (m *ChatMessage) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

func (ChatMessage) TableName() string {
	return "chat_messages"
}
