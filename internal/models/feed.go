package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Feed is a geotagged photo post.
type Feed struct {
	ID             string     `gorm:"type:uuid;primaryKey"`
	UserID         string     `gorm:"type:uuid;not null;index"`
	User           User       `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Latitude       float64    `gorm:"not null;index"`
	Longitude      float64    `gorm:"not null;index"`
	CountryCode    string     `gorm:"type:varchar(10)"`
	ImageURL       string     `gorm:"type:text;not null"`
	ThumbnailURL   string     `gorm:"type:text"`
	Description    string     `gorm:"type:text"`
	Visibility     string     `gorm:"type:varchar(20);default:'public';not null"`
	PhotoTakenAt   *time.Time `gorm:"default:NULL"`
	ExtraData      string     `gorm:"type:jsonb;default:'{}'"`
	LikesCount     int64      `gorm:"default:0;not null"`
	BookmarksCount int64      `gorm:"default:0;not null"`
	CreatedAt      time.Time  `gorm:"autoCreateTime;index"`
}

func (f *Feed) BeforeCreate(tx *gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	if f.ExtraData == "" {
		f.ExtraData = "{}"
	}
	return nil
}

func (f *Feed) BeforeSave(tx *gorm.DB) error {
	if f.Visibility == "" {
		f.Visibility = VisibilityPublic
	}
	if f.Visibility != VisibilityPublic && f.Visibility != VisibilityPrivate {
		return gorm.ErrInvalidData
	}
	return nil
}

func (Feed) TableName() string {
	return "feeds"
}

// FeedLike is a unique (user, feed) like edge.
type FeedLike struct {
	ID        string    `gorm:"type:uuid;primaryKey"`
	UserID    string    `gorm:"type:uuid;not null;index:idx_feed_like,unique"`
	FeedID    string    `gorm:"type:uuid;not null;index:idx_feed_like,unique"`
	Feed      Feed      `gorm:"foreignKey:FeedID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (l *FeedLike) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	return nil
}

func (FeedLike) TableName() string {
	return "feed_likes"
}

// FeedBookmark is a unique (user, feed) bookmark edge.
type FeedBookmark struct {
	ID        string    `gorm:"type:uuid;primaryKey"`
	UserID    string    `gorm:"type:uuid;not null;index:idx_feed_bookmark,unique"`
	FeedID    string    `gorm:"type:uuid;not null;index:idx_feed_bookmark,unique"`
	Feed      Feed      `gorm:"foreignKey:FeedID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (b *FeedBookmark) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}

func (FeedBookmark) TableName() string {
	return "feed_bookmarks"
}

// FeedComment is a comment on a feed. A non-nil ParentID makes it a reply
// to another comment on the same feed; one level of threading.
type FeedComment struct {
	ID         string       `gorm:"type:uuid;primaryKey"`
	FeedID     string       `gorm:"type:uuid;not null;index"`
	Feed       Feed         `gorm:"foreignKey:FeedID;constraint:OnDelete:CASCADE"`
	UserID     string       `gorm:"type:uuid;not null"`
	User       User         `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	ParentID   *string      `gorm:"type:uuid;index"`
	Parent     *FeedComment `gorm:"foreignKey:ParentID;constraint:OnDelete:CASCADE"`
	Content    string       `gorm:"type:text;not null"`
	LikesCount int64        `gorm:"default:0;not null"`
	CreatedAt  time.Time    `gorm:"autoCreateTime"`
}

func (c *FeedComment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

func (FeedComment) TableName() string {
	return "feed_comments"
}

// CommentLike is a unique (user, comment) like edge.
type CommentLike struct {
	ID        string      `gorm:"type:uuid;primaryKey"`
	UserID    string      `gorm:"type:uuid;not null;index:idx_comment_like,unique"`
	CommentID string      `gorm:"type:uuid;not null;index:idx_comment_like,unique"`
	Comment   FeedComment `gorm:"foreignKey:CommentID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time   `gorm:"autoCreateTime"`
}

func (l *CommentLike) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	return nil
}

func (CommentLike) TableName() string {
	return "comment_likes"
}
