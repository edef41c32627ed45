package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/waylo/waylo-api/internal/models"
	"github.com/waylo/waylo-api/pkg/errors"
	"github.com/waylo/waylo-api/pkg/logger"
)

// respondError translates AppError codes to HTTP statuses. Domain
// rejections keep their message; infrastructure failures are logged and
// masked.
func respondError(c echo.Context, err error) error {
	code := errors.Code(err)

	var status int
	switch code {
	case errors.ErrCodeMalformedCredential,
		errors.ErrCodeInvalidCredential,
		errors.ErrCodeAccountInactive,
		errors.ErrCodeUnauthorized:
		status = http.StatusUnauthorized
	case errors.ErrCodeForbidden:
		status = http.StatusForbidden
	case errors.ErrCodeNotFound:
		status = http.StatusNotFound
	case errors.ErrCodeValidation,
		errors.ErrCodeSelfRequest:
		status = http.StatusBadRequest
	case errors.ErrCodeAlreadyFriends,
		errors.ErrCodeDuplicatePending,
		errors.ErrCodeAlreadyAccepted,
		errors.ErrCodeAlreadyExists,
		errors.ErrCodeInvalidState:
		status = http.StatusConflict
	case errors.ErrCodeRateLimitExceeded:
		status = http.StatusTooManyRequests
	default:
		logger.Error("request failed", "path", c.Path(), "error", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "internal server error",
			"code":  errors.ErrCodeInternalError,
		})
	}

	return c.JSON(status, echo.Map{"error": err.Error(), "code": code})
}

type userView struct {
	ID                string    `json:"id"`
	Email             string    `json:"email,omitempty"`
	Username          string    `json:"username"`
	Gender            string    `json:"gender,omitempty"`
	PhoneNumber       string    `json:"phone_number,omitempty"`
	ProfileImage      string    `json:"profile_image,omitempty"`
	AccountVisibility string    `json:"account_visibility"`
	CreatedAt         time.Time `json:"created_at"`
}

// newUserView renders an account. Email and phone are included only for the
// owner's own profile.
func newUserView(u *models.User, includePrivate bool) userView {
	v := userView{
		ID:                u.ID,
		Username:          u.Username,
		Gender:            u.Gender,
		ProfileImage:      u.ProfileImage,
		AccountVisibility: u.AccountVisibility,
		CreatedAt:         u.CreatedAt,
	}
	if includePrivate {
		v.Email = u.Email
		if u.PhoneNumber != nil {
			v.PhoneNumber = *u.PhoneNumber
		}
	}
	return v
}
