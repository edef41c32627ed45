package services

import (
	"testing"

	"github.com/waylo/waylo-api/internal/repositories"
	"github.com/waylo/waylo-api/pkg/errors"
)

func TestGetProfile(t *testing.T) {
	db := setupTestDB(t)
	auth, _ := newAuthService(t, db)
	users := NewUserService(repositories.NewUserRepository(db))

	alice := registerUser(t, auth, "alice@example.com", "alice")

	got, err := users.GetProfile(alice.ID)
	if err != nil {
		t.Fatalf("GetProfile() error = %v", err)
	}
	if got.Username != "alice" {
		t.Errorf("Username = %q, want %q", got.Username, "alice")
	}

	_, err = users.GetProfile("00000000-0000-0000-0000-000000000000")
	if !errors.IsCode(err, errors.ErrCodeNotFound) {
		t.Errorf("unknown id: code = %v, want %v", errors.Code(err), errors.ErrCodeNotFound)
	}
}

func TestUpdateProfile(t *testing.T) {
	db := setupTestDB(t)
	auth, _ := newAuthService(t, db)
	users := NewUserService(repositories.NewUserRepository(db))

	alice := registerUser(t, auth, "alice@example.com", "alice")
	bob := registerUser(t, auth, "bob@example.com", "bob")

	username := "alice_v2"
	visibility := "private"
	updated, err := users.UpdateProfile(alice.ID, alice.ID, ProfileUpdate{
		Username:   &username,
		Visibility: &visibility,
	})
	if err != nil {
		t.Fatalf("UpdateProfile() error = %v", err)
	}
	if updated.Username != "alice_v2" {
		t.Errorf("Username = %q, want %q", updated.Username, "alice_v2")
	}
	if updated.AccountVisibility != "private" {
		t.Errorf("AccountVisibility = %q, want %q", updated.AccountVisibility, "private")
	}
	// Untouched field survives the partial update
	if updated.Email != "alice@example.com" {
		t.Errorf("Email = %q, want unchanged", updated.Email)
	}

	_, err = users.UpdateProfile(alice.ID, bob.ID, ProfileUpdate{Username: &username})
	if !errors.IsCode(err, errors.ErrCodeForbidden) {
		t.Errorf("other actor: code = %v, want %v", errors.Code(err), errors.ErrCodeForbidden)
	}
}

func TestUpdateProfileValidation(t *testing.T) {
	db := setupTestDB(t)
	auth, _ := newAuthService(t, db)
	users := NewUserService(repositories.NewUserRepository(db))

	alice := registerUser(t, auth, "alice@example.com", "alice")

	empty := ""
	badPhone := "abc"
	badVisibility := "friends-only"

	tests := []struct {
		name   string
		update ProfileUpdate
	}{
		{name: "empty username", update: ProfileUpdate{Username: &empty}},
		{name: "bad phone", update: ProfileUpdate{PhoneNumber: &badPhone}},
		{name: "bad visibility", update: ProfileUpdate{Visibility: &badVisibility}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := users.UpdateProfile(alice.ID, alice.ID, tt.update)
			if !errors.IsCode(err, errors.ErrCodeValidation) {
				t.Errorf("error code = %v, want %v", errors.Code(err), errors.ErrCodeValidation)
			}
		})
	}
}

func TestUpdateProfileClearPhone(t *testing.T) {
	db := setupTestDB(t)
	auth, _ := newAuthService(t, db)
	users := NewUserService(repositories.NewUserRepository(db))

	user, err := auth.Register(RegisterInput{
		Email:       "alice@example.com",
		Username:    "alice",
		Password:    "password123",
		PhoneNumber: "01012345678",
	})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	empty := ""
	updated, err := users.UpdateProfile(user.ID, user.ID, ProfileUpdate{PhoneNumber: &empty})
	if err != nil {
		t.Fatalf("UpdateProfile() error = %v", err)
	}
	if updated.PhoneNumber != nil {
		t.Errorf("PhoneNumber = %v, want nil", *updated.PhoneNumber)
	}
}
