package services

import (
	"testing"

	"gorm.io/gorm"

	"github.com/waylo/waylo-api/internal/models"
	"github.com/waylo/waylo-api/internal/repositories"
	"github.com/waylo/waylo-api/pkg/errors"
)

func newAlbumFixture(t *testing.T) (*gorm.DB, *AlbumService, *models.User, *models.User) {
	t.Helper()

	db := setupTestDB(t)
	auth, albumRepo := newAuthService(t, db)
	albums := NewAlbumService(albumRepo, repositories.NewWidgetRepository(db))

	alice := registerUser(t, auth, "alice@example.com", "alice")
	bob := registerUser(t, auth, "bob@example.com", "bob")
	return db, albums, alice, bob
}

func TestGetAlbumDefaults(t *testing.T) {
	_, albums, alice, _ := newAlbumFixture(t)

	album, err := albums.GetAlbum(alice.ID)
	if err != nil {
		t.Fatalf("GetAlbum() error = %v", err)
	}
	if album.BackgroundColor != "#FFFFFF" {
		t.Errorf("BackgroundColor = %q, want %q", album.BackgroundColor, "#FFFFFF")
	}
	if album.BackgroundPattern != "none" {
		t.Errorf("BackgroundPattern = %q, want %q", album.BackgroundPattern, "none")
	}
}

func TestUpdateAlbum(t *testing.T) {
	_, albums, alice, bob := newAlbumFixture(t)

	color := "#FF0000"
	album, err := albums.UpdateAlbum(alice.ID, alice.ID, AlbumUpdate{BackgroundColor: &color})
	if err != nil {
		t.Fatalf("UpdateAlbum() error = %v", err)
	}
	if album.BackgroundColor != "#FF0000" {
		t.Errorf("BackgroundColor = %q, want %q", album.BackgroundColor, "#FF0000")
	}

	_, err = albums.UpdateAlbum(alice.ID, bob.ID, AlbumUpdate{BackgroundColor: &color})
	if !errors.IsCode(err, errors.ErrCodeForbidden) {
		t.Errorf("non-owner update: code = %v, want %v", errors.Code(err), errors.ErrCodeForbidden)
	}
}

func TestWidgetLifecycle(t *testing.T) {
	_, albums, alice, _ := newAlbumFixture(t)

	widget, err := albums.CreateWidget(alice.ID, alice.ID, WidgetInput{
		Type:   "photo",
		X:      10,
		Y:      20,
		Width:  100,
		Height: 100,
	})
	if err != nil {
		t.Fatalf("CreateWidget() error = %v", err)
	}
	if widget.ExtraData != "{}" {
		t.Errorf("ExtraData default = %q, want %q", widget.ExtraData, "{}")
	}

	x := 50.0
	updated, err := albums.UpdateWidget(alice.ID, alice.ID, widget.ID, WidgetUpdate{X: &x})
	if err != nil {
		t.Fatalf("UpdateWidget() error = %v", err)
	}
	if updated.X != 50 {
		t.Errorf("X = %v, want 50", updated.X)
	}
	if updated.Y != 20 {
		t.Errorf("Y = %v, want 20 (untouched field changed)", updated.Y)
	}

	widgets, err := albums.ListWidgets(alice.ID)
	if err != nil {
		t.Fatalf("ListWidgets() error = %v", err)
	}
	if len(widgets) != 1 {
		t.Fatalf("len(widgets) = %d, want 1", len(widgets))
	}

	if err := albums.DeleteWidget(alice.ID, alice.ID, widget.ID); err != nil {
		t.Fatalf("DeleteWidget() error = %v", err)
	}

	widgets, err = albums.ListWidgets(alice.ID)
	if err != nil {
		t.Fatalf("ListWidgets() after delete error = %v", err)
	}
	if len(widgets) != 0 {
		t.Errorf("len(widgets) after delete = %d, want 0", len(widgets))
	}
}

func TestWidgetValidation(t *testing.T) {
	_, albums, alice, bob := newAlbumFixture(t)

	_, err := albums.CreateWidget(alice.ID, alice.ID, WidgetInput{Type: ""})
	if !errors.IsCode(err, errors.ErrCodeValidation) {
		t.Errorf("empty type: code = %v, want %v", errors.Code(err), errors.ErrCodeValidation)
	}

	_, err = albums.CreateWidget(alice.ID, bob.ID, WidgetInput{Type: "photo"})
	if !errors.IsCode(err, errors.ErrCodeForbidden) {
		t.Errorf("non-owner create: code = %v, want %v", errors.Code(err), errors.ErrCodeForbidden)
	}
}

func TestDeleteWidgetUnknownID(t *testing.T) {
	_, albums, alice, _ := newAlbumFixture(t)

	err := albums.DeleteWidget(alice.ID, alice.ID, "00000000-0000-0000-0000-000000000000")
	if !errors.IsCode(err, errors.ErrCodeNotFound) {
		t.Errorf("error code = %v, want %v", errors.Code(err), errors.ErrCodeNotFound)
	}
}
