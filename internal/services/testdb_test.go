package services

import (
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/waylo/waylo-api/internal/models"
	"github.com/waylo/waylo-api/pkg/logger"
)

func init() {
	logger.Init()
}

// setupTestDB opens a fresh in-memory database per test. A single connection
// keeps all queries on the same memory store.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap test database: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&models.User{},
		&models.AuthToken{},
		&models.FriendRequest{},
		&models.Friendship{},
		&models.Album{},
		&models.Widget{},
		&models.Feed{},
		&models.FeedLike{},
		&models.FeedBookmark{},
		&models.FeedComment{},
		&models.CommentLike{},
		&models.ChatRoom{},
		&models.ChatMessage{},
	)
	if err != nil {
		t.Fatalf("migrate test database: %v", err)
	}

	return db
}
