package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/waylo/waylo-api/internal/middleware"
	"github.com/waylo/waylo-api/internal/models"
	"github.com/waylo/waylo-api/internal/services"
)

type FriendHandler struct {
	friends *services.FriendService
}

func NewFriendHandler(friends *services.FriendService) *FriendHandler {
	return &FriendHandler{friends: friends}
}

type friendRequestView struct {
	ID        string    `json:"id"`
	Status    string    `json:"status"`
	User      userView  `json:"user"`
	CreatedAt time.Time `json:"created_at"`
}

type sendRequestBody struct {
	UserID string `json:"user_id"`
}

func (h *FriendHandler) SendRequest(c echo.Context) error {
	var req sendRequestBody
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	actor := middleware.CurrentUser(c)
	fr, err := h.friends.SendRequest(actor.ID, req.UserID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"id":         fr.ID,
		"to_user_id": fr.ToUserID,
		"status":     fr.Status,
	})
}

func (h *FriendHandler) AcceptRequest(c echo.Context) error {
	actor := middleware.CurrentUser(c)
	fs, err := h.friends.AcceptRequest(c.Param("id"), actor.ID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"friend_id": fs.OtherUser(actor.ID),
		"since":     fs.CreatedAt,
	})
}

func (h *FriendHandler) RejectRequest(c echo.Context) error {
	actor := middleware.CurrentUser(c)
	if err := h.friends.RejectRequest(c.Param("id"), actor.ID); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *FriendHandler) ListIncoming(c echo.Context) error {
	actor := middleware.CurrentUser(c)
	requests, err := h.friends.ListIncoming(actor.ID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, requestViews(requests, true))
}

func (h *FriendHandler) ListOutgoing(c echo.Context) error {
	actor := middleware.CurrentUser(c)
	requests, err := h.friends.ListOutgoing(actor.ID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, requestViews(requests, false))
}

func (h *FriendHandler) ListFriends(c echo.Context) error {
	actor := middleware.CurrentUser(c)
	friends, err := h.friends.ListFriends(actor.ID)
	if err != nil {
		return respondError(c, err)
	}

	views := make([]echo.Map, 0, len(friends))
	for _, f := range friends {
		views = append(views, echo.Map{
			"user":  newUserView(&f.User, false),
			"since": f.Since,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"count": len(views), "friends": views})
}

// ListUserFriends is the public variant: anyone can list another account's
// friends by id.
func (h *FriendHandler) ListUserFriends(c echo.Context) error {
	friends, count, err := h.friends.FriendsOf(c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}

	views := make([]echo.Map, 0, len(friends))
	for _, f := range friends {
		views = append(views, echo.Map{
			"user":  newUserView(&f.User, false),
			"since": f.Since,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"count": count, "friends": views})
}

// requestViews renders the counterpart account for each request: the sender
// for the incoming list, the recipient for the outgoing one.
func requestViews(requests []models.FriendRequest, incoming bool) []friendRequestView {
	views := make([]friendRequestView, 0, len(requests))
	for _, r := range requests {
		counterpart := r.FromUser
		if !incoming {
			counterpart = r.ToUser
		}
		views = append(views, friendRequestView{
			ID:        r.ID,
			Status:    r.Status,
			User:      newUserView(&counterpart, false),
			CreatedAt: r.CreatedAt,
		})
	}
	return views
}
