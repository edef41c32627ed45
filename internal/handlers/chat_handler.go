package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/waylo/waylo-api/internal/middleware"
	"github.com/waylo/waylo-api/internal/models"
	"github.com/waylo/waylo-api/internal/services"
)

type ChatHandler struct {
	chats *services.ChatService
}

func NewChatHandler(chats *services.ChatService) *ChatHandler {
	return &ChatHandler{chats: chats}
}

type roomSummaryView struct {
	RoomID          string     `json:"room_id"`
	FriendID        string     `json:"friend_id"`
	FriendName      string     `json:"friend_name"`
	FriendImage     string     `json:"friend_image,omitempty"`
	LastMessage     string     `json:"last_message,omitempty"`
	LastMessageTime *time.Time `json:"last_message_time,omitempty"`
	UnreadCount     int64      `json:"unread_count"`
}

func (h *ChatHandler) ListRooms(c echo.Context) error {
	actor := middleware.CurrentUser(c)
	rooms, err := h.chats.ListRooms(actor.ID)
	if err != nil {
		return respondError(c, err)
	}

	views := make([]roomSummaryView, 0, len(rooms))
	for _, r := range rooms {
		views = append(views, roomSummaryView{
			RoomID:          r.RoomID,
			FriendID:        r.FriendID,
			FriendName:      r.FriendName,
			FriendImage:     r.FriendImage,
			LastMessage:     r.LastMessage,
			LastMessageTime: r.LastMessageTime,
			UnreadCount:     r.UnreadCount,
		})
	}
	return c.JSON(http.StatusOK, views)
}

type openRoomRequest struct {
	UserID string `json:"user_id"`
}

func (h *ChatHandler) OpenRoom(c echo.Context) error {
	var req openRoomRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	actor := middleware.CurrentUser(c)
	room, err := h.chats.OpenRoom(actor.ID, req.UserID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"room_id":   room.ID,
		"friend_id": room.OtherParticipant(actor.ID),
	})
}

type messageView struct {
	ID        string    `json:"id"`
	SenderID  string    `json:"sender_id"`
	Content   string    `json:"content"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

func newMessageView(m *models.ChatMessage) messageView {
	return messageView{
		ID:        m.ID,
		SenderID:  m.SenderID,
		Content:   m.Content,
		IsRead:    m.IsRead,
		CreatedAt: m.CreatedAt,
	}
}

func (h *ChatHandler) ListMessages(c echo.Context) error {
	actor := middleware.CurrentUser(c)
	messages, err := h.chats.ListMessages(c.Param("id"), actor.ID)
	if err != nil {
		return respondError(c, err)
	}

	views := make([]messageView, 0, len(messages))
	for i := range messages {
		views = append(views, newMessageView(&messages[i]))
	}
	return c.JSON(http.StatusOK, views)
}

type sendMessageRequest struct {
	Content string `json:"content"`
}

func (h *ChatHandler) SendMessage(c echo.Context) error {
	var req sendMessageRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	actor := middleware.CurrentUser(c)
	message, err := h.chats.SendMessage(c.Param("id"), actor.ID, req.Content)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, newMessageView(message))
}
