package repositories

import (
	"math"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/waylo/waylo-api/internal/models"
)

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
		&models.Feed{},
		&models.FeedLike{},
		&models.FeedBookmark{},
		&models.FeedComment{},
		&models.CommentLike{},
	)
	if err != nil {
		t.Fatalf("migrate test database: %v", err)
	}
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, email, username string) *models.User {
	t.Helper()

	user := &models.User{Email: email, Username: username, PasswordHash: "x"}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

func createTestFeed(t *testing.T, db *gorm.DB, userID string, lat, lng float64, visibility string) *models.Feed {
	t.Helper()

	feed := &models.Feed{
		UserID:     userID,
		Latitude:   lat,
		Longitude:  lng,
		ImageURL:   "/media/test.jpg",
		Visibility: visibility,
	}
	if err := db.Create(feed).Error; err != nil {
		t.Fatalf("create feed: %v", err)
	}
	return feed
}

func TestHaversineKm(t *testing.T) {
	tests := []struct {
		name                   string
		lat1, lng1, lat2, lng2 float64
		want                   float64
	}{
		{name: "same point", lat1: 37.5665, lng1: 126.978, lat2: 37.5665, lng2: 126.978, want: 0},
		// Seoul City Hall to Gangnam Station
		{name: "across town", lat1: 37.5665, lng1: 126.978, lat2: 37.4979, lng2: 127.0276, want: 8.7},
		// Seoul to Busan
		{name: "cross country", lat1: 37.5665, lng1: 126.978, lat2: 35.1796, lng2: 129.0756, want: 325},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := haversineKm(tt.lat1, tt.lng1, tt.lat2, tt.lng2)
			if math.Abs(got-tt.want) > tt.want*0.05+0.1 {
				t.Errorf("haversineKm() = %.2f, want ~%.2f", got, tt.want)
			}
		})
	}
}

func TestListNearby(t *testing.T) {
	db := setupTestDB(t)
	repo := NewFeedRepository(db)
	user := createTestUser(t, db, "alice@example.com", "alice")

	center := createTestFeed(t, db, user.ID, 37.5665, 126.978, models.VisibilityPublic)
	near := createTestFeed(t, db, user.ID, 37.57, 126.98, models.VisibilityPublic)
	far := createTestFeed(t, db, user.ID, 35.1796, 129.0756, models.VisibilityPublic)
	private := createTestFeed(t, db, user.ID, 37.5665, 126.978, models.VisibilityPrivate)

	nearby, err := repo.ListNearby(37.5665, 126.978, 5, 50)
	if err != nil {
		t.Fatalf("ListNearby() error = %v", err)
	}
	if len(nearby) != 2 {
		t.Fatalf("len(nearby) = %d, want 2", len(nearby))
	}

	// Nearest first
	if nearby[0].Feed.ID != center.ID {
		t.Errorf("nearest = %q, want %q", nearby[0].Feed.ID, center.ID)
	}
	if nearby[1].Feed.ID != near.ID {
		t.Errorf("second = %q, want %q", nearby[1].Feed.ID, near.ID)
	}

	for _, n := range nearby {
		if n.Feed.ID == far.ID {
			t.Errorf("result contains feed outside the radius")
		}
		if n.Feed.ID == private.ID {
			t.Errorf("result contains a private feed")
		}
	}
}

func TestToggleLike(t *testing.T) {
	db := setupTestDB(t)
	repo := NewFeedRepository(db)
	user := createTestUser(t, db, "alice@example.com", "alice")
	feed := createTestFeed(t, db, user.ID, 0, 0, models.VisibilityPublic)

	liked, err := repo.ToggleLike(user.ID, feed.ID)
	if err != nil {
		t.Fatalf("ToggleLike() error = %v", err)
	}
	if !liked {
		t.Error("first toggle: liked = false, want true")
	}

	got, err := repo.GetByID(feed.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.LikesCount != 1 {
		t.Errorf("LikesCount = %d, want 1", got.LikesCount)
	}

	liked, err = repo.ToggleLike(user.ID, feed.ID)
	if err != nil {
		t.Fatalf("second ToggleLike() error = %v", err)
	}
	if liked {
		t.Error("second toggle: liked = true, want false")
	}

	got, err = repo.GetByID(feed.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.LikesCount != 0 {
		t.Errorf("LikesCount after unlike = %d, want 0", got.LikesCount)
	}
}

func TestToggleBookmark(t *testing.T) {
	db := setupTestDB(t)
	repo := NewFeedRepository(db)
	user := createTestUser(t, db, "alice@example.com", "alice")
	feed := createTestFeed(t, db, user.ID, 0, 0, models.VisibilityPublic)

	bookmarked, err := repo.ToggleBookmark(user.ID, feed.ID)
	if err != nil {
		t.Fatalf("ToggleBookmark() error = %v", err)
	}
	if !bookmarked {
		t.Error("first toggle: bookmarked = false, want true")
	}

	bookmarked, err = repo.ToggleBookmark(user.ID, feed.ID)
	if err != nil {
		t.Fatalf("second ToggleBookmark() error = %v", err)
	}
	if bookmarked {
		t.Error("second toggle: bookmarked = true, want false")
	}
}

func TestListPublicPagination(t *testing.T) {
	db := setupTestDB(t)
	repo := NewFeedRepository(db)
	user := createTestUser(t, db, "alice@example.com", "alice")

	for i := 0; i < 5; i++ {
		createTestFeed(t, db, user.ID, 0, 0, models.VisibilityPublic)
	}
	createTestFeed(t, db, user.ID, 0, 0, models.VisibilityPrivate)

	feeds, total, err := repo.ListPublic(1, 3)
	if err != nil {
		t.Fatalf("ListPublic() error = %v", err)
	}
	if total != 5 {
		t.Errorf("total = %d, want 5", total)
	}
	if len(feeds) != 3 {
		t.Errorf("len(feeds) = %d, want 3", len(feeds))
	}

	feeds, _, err = repo.ListPublic(2, 3)
	if err != nil {
		t.Fatalf("ListPublic(page 2) error = %v", err)
	}
	if len(feeds) != 2 {
		t.Errorf("len(page 2) = %d, want 2", len(feeds))
	}
}

func TestDeleteFeedScopedToOwner(t *testing.T) {
	db := setupTestDB(t)
	repo := NewFeedRepository(db)
	alice := createTestUser(t, db, "alice@example.com", "alice")
	bob := createTestUser(t, db, "bob@example.com", "bob")
	feed := createTestFeed(t, db, alice.ID, 0, 0, models.VisibilityPublic)

	if err := repo.DeleteFeed(feed.ID, bob.ID); err == nil {
		t.Error("DeleteFeed() by non-owner succeeded, want error")
	}
	if err := repo.DeleteFeed(feed.ID, alice.ID); err != nil {
		t.Errorf("DeleteFeed() by owner error = %v", err)
	}
}
