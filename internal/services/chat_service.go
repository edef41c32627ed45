package services

import (
	"time"

	"github.com/waylo/waylo-api/internal/models"
	"github.com/waylo/waylo-api/internal/repositories"
	"github.com/waylo/waylo-api/internal/security"
	"github.com/waylo/waylo-api/pkg/errors"
	"github.com/waylo/waylo-api/pkg/utils"
)

type ChatService struct {
	chatRepo *repositories.ChatRepository
	userRepo *repositories.UserRepository
}

func NewChatService(chatRepo *repositories.ChatRepository, userRepo *repositories.UserRepository) *ChatService {
	return &ChatService{
		chatRepo: chatRepo,
		userRepo: userRepo,
	}
}

// RoomSummary is one entry in a user's chat room list.
type RoomSummary struct {
	RoomID          string
	FriendID        string
	FriendName      string
	FriendImage     string
	LastMessage     string
	LastMessageTime *time.Time
	UnreadCount     int64
}

// ListRooms returns the user's rooms with counterpart info, the latest
// message and the unread count, most recently active first.
func (s *ChatService) ListRooms(userID string) ([]RoomSummary, error) {
	rooms, err := s.chatRepo.ListRoomsForUser(userID)
	if err != nil {
		return nil, err
	}

	summaries := make([]RoomSummary, 0, len(rooms))
	for _, room := range rooms {
		counterpart := room.User1
		if room.User1ID == userID {
			counterpart = room.User2
		}

		summary := RoomSummary{
			RoomID:      room.ID,
			FriendID:    counterpart.ID,
			FriendName:  counterpart.Username,
			FriendImage: counterpart.ProfileImage,
		}

		last, err := s.chatRepo.LastMessage(room.ID)
		if err != nil {
			return nil, err
		}
		if last != nil {
			summary.LastMessage = utils.TruncateText(last.Content, 100)
			t := last.CreatedAt
			summary.LastMessageTime = &t
		}

		unread, err := s.chatRepo.CountUnread(room.ID, counterpart.ID)
		if err != nil {
			return nil, err
		}
		summary.UnreadCount = unread

		summaries = append(summaries, summary)
	}

	return summaries, nil
}

// OpenRoom returns the room between the actor and the friend, creating it on
// first use.
func (s *ChatService) OpenRoom(actorID, friendID string) (*models.ChatRoom, error) {
	if actorID == friendID {
		return nil, errors.New(errors.ErrCodeValidation, "cannot open a chat room with yourself")
	}

	exists, err := s.userRepo.UserExists(friendID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, errors.New(errors.ErrCodeNotFound, "user not found")
	}

	return s.chatRepo.GetOrCreateRoom(actorID, friendID)
}

// ListMessages returns a room's messages oldest first and marks the
// counterpart's messages as read. Participants only.
func (s *ChatService) ListMessages(roomID, actorID string) ([]models.ChatMessage, error) {
	room, err := s.chatRepo.GetRoomByID(roomID)
	if err != nil {
		return nil, err
	}
	if !room.HasParticipant(actorID) {
		return nil, errors.New(errors.ErrCodeForbidden, "not a participant of this chat room")
	}

	if err := s.chatRepo.MarkRead(roomID, room.OtherParticipant(actorID)); err != nil {
		return nil, err
	}

	return s.chatRepo.ListMessages(roomID)
}

// SendMessage appends a sanitized message to the room. Participants only.
func (s *ChatService) SendMessage(roomID, actorID, content string) (*models.ChatMessage, error) {
	content = security.SanitizeUserText(content)
	if content == "" {
		return nil, errors.New(errors.ErrCodeValidation, "message content is required")
	}

	room, err := s.chatRepo.GetRoomByID(roomID)
	if err != nil {
		return nil, err
	}
	if !room.HasParticipant(actorID) {
		return nil, errors.New(errors.ErrCodeForbidden, "not a participant of this chat room")
	}

	message := &models.ChatMessage{
		RoomID:   roomID,
		SenderID: actorID,
		Content:  content,
	}

	if err := s.chatRepo.CreateMessage(message); err != nil {
		return nil, err
	}

	return message, nil
}
