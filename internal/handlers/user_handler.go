package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/waylo/waylo-api/internal/middleware"
	"github.com/waylo/waylo-api/internal/services"
)

type UserHandler struct {
	users *services.UserService
}

func NewUserHandler(users *services.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// GetProfile serves a profile. Contact details are only included when the
// viewer asks for their own account.
func (h *UserHandler) GetProfile(c echo.Context) error {
	userID := c.Param("id")

	user, err := h.users.GetProfile(userID)
	if err != nil {
		return respondError(c, err)
	}

	viewer := middleware.CurrentUser(c)
	own := viewer != nil && viewer.ID == user.ID

	return c.JSON(http.StatusOK, newUserView(user, own))
}

func (h *UserHandler) Me(c echo.Context) error {
	viewer := middleware.CurrentUser(c)
	return c.JSON(http.StatusOK, newUserView(viewer, true))
}

type updateProfileRequest struct {
	Username     *string `json:"username"`
	Gender       *string `json:"gender"`
	PhoneNumber  *string `json:"phone_number"`
	ProfileImage *string `json:"profile_image"`
	Visibility   *string `json:"account_visibility"`
}

func (h *UserHandler) UpdateProfile(c echo.Context) error {
	var req updateProfileRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	actor := middleware.CurrentUser(c)
	user, err := h.users.UpdateProfile(c.Param("id"), actor.ID, services.ProfileUpdate{
		Username:     req.Username,
		Gender:       req.Gender,
		PhoneNumber:  req.PhoneNumber,
		ProfileImage: req.ProfileImage,
		Visibility:   req.Visibility,
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, newUserView(user, true))
}
