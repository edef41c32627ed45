package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FriendRequest is a directed proposal from one account to another. At most
// one row exists per ordered (from, to) pair; a rejected row is reused when
// the same sender asks again.
type FriendRequest struct {
	ID         string    `gorm:"type:uuid;primaryKey"`
	FromUserID string    `gorm:"type:uuid;not null;index:idx_friend_request,unique"`
	FromUser   User      `gorm:"foreignKey:FromUserID;constraint:OnDelete:CASCADE"`
	ToUserID   string    `gorm:"type:uuid;not null;index:idx_friend_request,unique"`
	ToUser     User      `gorm:"foreignKey:ToUserID;constraint:OnDelete:CASCADE"`
	Status     string    `gorm:"type:varchar(20);default:'pending';not null"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime"`
}

// Friend request status constants
const (
	FriendRequestPending  = "pending"
	FriendRequestAccepted = "accepted"
	FriendRequestRejected = "rejected"
)

func (r *FriendRequest) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

func (FriendRequest) TableName() string {
	return "friend_requests"
}

// Friendship is the undirected edge created when a request is accepted. The
// pair is stored in canonical order (smaller id first) so the unique index
// also catches reversed duplicates.
type Friendship struct {
	ID        string    `gorm:"type:uuid;primaryKey"`
	User1ID   string    `gorm:"type:uuid;not null;index:idx_friendship,unique"`
	User1     User      `gorm:"foreignKey:User1ID;constraint:OnDelete:CASCADE"`
	User2ID   string    `gorm:"type:uuid;not null;index:idx_friendship,unique"`
	User2     User      `gorm:"foreignKey:User2ID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (f *Friendship) BeforeCreate(tx *gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	f.User1ID, f.User2ID = OrderedPair(f.User1ID, f.User2ID)
	return nil
}

func (Friendship) TableName() string {
	return "friendships"
}

// OrderedPair returns the two ids in canonical storage order.
func OrderedPair(a, b string) (string, string) {
	if b < a {
		return b, a
	}
	return a, b
}

// OtherUser returns the counterpart of userID within the friendship.
func (f *Friendship) OtherUser(userID string) string {
	if f.User1ID == userID {
		return f.User2ID
	}
	return f.User1ID
}
