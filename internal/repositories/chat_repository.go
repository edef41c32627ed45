package repositories

import (
	stderrors "errors"
	"time"

	"github.com/waylo/waylo-api/internal/models"
	"github.com/waylo/waylo-api/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ChatRepository struct {
	db *gorm.DB
}

func NewChatRepository(db *gorm.DB) *ChatRepository {
	return &ChatRepository{db: db}
}

// GetOrCreateRoom returns the room for the pair, creating it on first use.
// The canonical-order unique index makes concurrent opens converge on a
// single row.
func (r *ChatRepository) GetOrCreateRoom(userA, userB string) (*models.ChatRoom, error) {
	u1, u2 := models.OrderedPair(userA, userB)

	var room models.ChatRoom
	err := r.db.Where("user1_id = ? AND user2_id = ?", u1, u2).First(&room).Error
	if err == nil {
		return &room, nil
	}
	if !stderrors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to look up chat room")
	}

	room = models.ChatRoom{User1ID: u1, User2ID: u2}
	res := r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&room)
	if res.Error != nil {
		return nil, errors.Wrap(res.Error, errors.ErrCodeInternalError, "failed to create chat room")
	}
	if res.RowsAffected == 0 {
		if err := r.db.Where("user1_id = ? AND user2_id = ?", u1, u2).First(&room).Error; err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to reload chat room")
		}
	}

	return &room, nil
}

// GetRoomByID retrieves a room with both participants
func (r *ChatRepository) GetRoomByID(roomID string) (*models.ChatRoom, error) {
	var room models.ChatRoom
	result := r.db.Preload("User1").Preload("User2").Where("id = ?", roomID).First(&room)

	if stderrors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, errors.New(errors.ErrCodeNotFound, "chat room not found")
	}
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to get chat room")
	}

	return &room, nil
}

// ListRoomsForUser retrieves the user's rooms, most recently active first
func (r *ChatRepository) ListRoomsForUser(userID string) ([]models.ChatRoom, error) {
	var rooms []models.ChatRoom

	err := r.db.Preload("User1").Preload("User2").
		Where("user1_id = ? OR user2_id = ?", userID, userID).
		Order("updated_at DESC").
		Find(&rooms).Error

	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to list chat rooms")
	}

	return rooms, nil
}

// ListMessages retrieves a room's messages, oldest first
func (r *ChatRepository) ListMessages(roomID string) ([]models.ChatMessage, error) {
	var messages []models.ChatMessage

	err := r.db.Where("room_id = ?", roomID).
		Order("created_at ASC").
		Find(&messages).Error

	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to list messages")
	}

	return messages, nil
}

// LastMessage returns the newest message in a room, or nil when empty
func (r *ChatRepository) LastMessage(roomID string) (*models.ChatMessage, error) {
	var msg models.ChatMessage
	err := r.db.Where("room_id = ?", roomID).Order("created_at DESC").First(&msg).Error

	if stderrors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to get last message")
	}

	return &msg, nil
}

// CountUnread counts messages in the room sent by the counterpart and not
// yet read
func (r *ChatRepository) CountUnread(roomID, counterpartID string) (int64, error) {
	var count int64
	result := r.db.Model(&models.ChatMessage{}).
		Where("room_id = ? AND sender_id = ? AND is_read = ?", roomID, counterpartID, false).
		Count(&count)

	if result.Error != nil {
		return 0, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to count unread messages")
	}

	return count, nil
}

// MarkRead marks the counterpart's messages in the room as read
func (r *ChatRepository) MarkRead(roomID, counterpartID string) error {
	result := r.db.Model(&models.ChatMessage{}).
		Where("room_id = ? AND sender_id = ? AND is_read = ?", roomID, counterpartID, false).
		Update("is_read", true)

	if result.Error != nil {
		return errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to mark messages read")
	}

	return nil
}

// CreateMessage inserts a message and bumps the room's activity timestamp in
// the same transaction
func (r *ChatRepository) CreateMessage(message *models.ChatMessage) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(message).Error; err != nil {
			return err
		}
		return tx.Model(&models.ChatRoom{}).
			Where("id = ?", message.RoomID).
			UpdateColumn("updated_at", time.Now().UTC()).Error
	})

	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternalError, "failed to create message")
	}

	return nil
}
