package services

import (
	"testing"

	"gorm.io/gorm"

	"github.com/waylo/waylo-api/internal/models"
	"github.com/waylo/waylo-api/internal/repositories"
	"github.com/waylo/waylo-api/pkg/errors"
)

func newChatFixture(t *testing.T) (*gorm.DB, *ChatService, *models.User, *models.User) {
	t.Helper()

	db := setupTestDB(t)
	auth, _ := newAuthService(t, db)
	chats := NewChatService(
		repositories.NewChatRepository(db),
		repositories.NewUserRepository(db),
	)

	alice := registerUser(t, auth, "alice@example.com", "alice")
	bob := registerUser(t, auth, "bob@example.com", "bob")
	return db, chats, alice, bob
}

func TestOpenRoom(t *testing.T) {
	db, chats, alice, bob := newChatFixture(t)

	room1, err := chats.OpenRoom(alice.ID, bob.ID)
	if err != nil {
		t.Fatalf("OpenRoom() error = %v", err)
	}

	// Same room regardless of who opens it
	room2, err := chats.OpenRoom(bob.ID, alice.ID)
	if err != nil {
		t.Fatalf("second OpenRoom() error = %v", err)
	}
	if room2.ID != room1.ID {
		t.Errorf("room ids differ: %q vs %q", room1.ID, room2.ID)
	}

	var count int64
	db.Model(&models.ChatRoom{}).Count(&count)
	if count != 1 {
		t.Errorf("room rows = %d, want 1", count)
	}
}

func TestOpenRoomWithSelf(t *testing.T) {
	_, chats, alice, _ := newChatFixture(t)

	_, err := chats.OpenRoom(alice.ID, alice.ID)
	if !errors.IsCode(err, errors.ErrCodeValidation) {
		t.Errorf("error code = %v, want %v", errors.Code(err), errors.ErrCodeValidation)
	}
}

func TestOpenRoomUnknownUser(t *testing.T) {
	_, chats, alice, _ := newChatFixture(t)

	_, err := chats.OpenRoom(alice.ID, "00000000-0000-0000-0000-000000000000")
	if !errors.IsCode(err, errors.ErrCodeNotFound) {
		t.Errorf("error code = %v, want %v", errors.Code(err), errors.ErrCodeNotFound)
	}
}

func TestSendAndListMessages(t *testing.T) {
	_, chats, alice, bob := newChatFixture(t)

	room, err := chats.OpenRoom(alice.ID, bob.ID)
	if err != nil {
		t.Fatalf("OpenRoom() error = %v", err)
	}

	if _, err := chats.SendMessage(room.ID, alice.ID, "hi bob"); err != nil {
		t.Fatalf("SendMessage() error = %v", err)
	}
	if _, err := chats.SendMessage(room.ID, bob.ID, "hi alice"); err != nil {
		t.Fatalf("SendMessage() error = %v", err)
	}

	messages, err := chats.ListMessages(room.ID, alice.ID)
	if err != nil {
		t.Fatalf("ListMessages() error = %v", err)
	}
	if len(messages) != 2 {
		t.Fatalf("len(messages) = %d, want 2", len(messages))
	}
	// Oldest first
	if messages[0].Content != "hi bob" {
		t.Errorf("first message = %q, want %q", messages[0].Content, "hi bob")
	}
}

func TestSendMessageOutsiderForbidden(t *testing.T) {
	db, chats, alice, bob := newChatFixture(t)
	auth, _ := newAuthService(t, db)
	carol := registerUser(t, auth, "carol@example.com", "carol")

	room, err := chats.OpenRoom(alice.ID, bob.ID)
	if err != nil {
		t.Fatalf("OpenRoom() error = %v", err)
	}

	_, err = chats.SendMessage(room.ID, carol.ID, "let me in")
	if !errors.IsCode(err, errors.ErrCodeForbidden) {
		t.Errorf("SendMessage: code = %v, want %v", errors.Code(err), errors.ErrCodeForbidden)
	}

	_, err = chats.ListMessages(room.ID, carol.ID)
	if !errors.IsCode(err, errors.ErrCodeForbidden) {
		t.Errorf("ListMessages: code = %v, want %v", errors.Code(err), errors.ErrCodeForbidden)
	}
}

func TestSendMessageEmptyContent(t *testing.T) {
	_, chats, alice, bob := newChatFixture(t)

	room, err := chats.OpenRoom(alice.ID, bob.ID)
	if err != nil {
		t.Fatalf("OpenRoom() error = %v", err)
	}

	_, err = chats.SendMessage(room.ID, alice.ID, "   ")
	if !errors.IsCode(err, errors.ErrCodeValidation) {
		t.Errorf("error code = %v, want %v", errors.Code(err), errors.ErrCodeValidation)
	}
}

func TestUnreadCountAndMarkRead(t *testing.T) {
	_, chats, alice, bob := newChatFixture(t)

	room, err := chats.OpenRoom(alice.ID, bob.ID)
	if err != nil {
		t.Fatalf("OpenRoom() error = %v", err)
	}

	for _, content := range []string{"one", "two", "three"} {
		if _, err := chats.SendMessage(room.ID, alice.ID, content); err != nil {
			t.Fatalf("SendMessage() error = %v", err)
		}
	}

	rooms, err := chats.ListRooms(bob.ID)
	if err != nil {
		t.Fatalf("ListRooms() error = %v", err)
	}
	if len(rooms) != 1 {
		t.Fatalf("len(rooms) = %d, want 1", len(rooms))
	}
	if rooms[0].UnreadCount != 3 {
		t.Errorf("UnreadCount = %d, want 3", rooms[0].UnreadCount)
	}
	if rooms[0].LastMessage != "three" {
		t.Errorf("LastMessage = %q, want %q", rooms[0].LastMessage, "three")
	}
	if rooms[0].FriendID != alice.ID {
		t.Errorf("FriendID = %q, want %q", rooms[0].FriendID, alice.ID)
	}

	// Reading the room clears the counterpart's unread messages
	if _, err := chats.ListMessages(room.ID, bob.ID); err != nil {
		t.Fatalf("ListMessages() error = %v", err)
	}

	rooms, err = chats.ListRooms(bob.ID)
	if err != nil {
		t.Fatalf("second ListRooms() error = %v", err)
	}
	if rooms[0].UnreadCount != 0 {
		t.Errorf("UnreadCount after read = %d, want 0", rooms[0].UnreadCount)
	}
}
