package services

import (
	"strings"

	"github.com/waylo/waylo-api/internal/models"
	"github.com/waylo/waylo-api/internal/repositories"
	"github.com/waylo/waylo-api/internal/security"
	"github.com/waylo/waylo-api/pkg/errors"
)

type UserService struct {
	userRepo *repositories.UserRepository
}

func NewUserService(userRepo *repositories.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// GetProfile returns the account for the given id
func (s *UserService) GetProfile(userID string) (*models.User, error) {
	return s.userRepo.GetUserByID(userID)
}

type ProfileUpdate struct {
	Username     *string
	Gender       *string
	PhoneNumber  *string
	ProfileImage *string
	Visibility   *string
}

// UpdateProfile applies partial changes to the actor's own account.
func (s *UserService) UpdateProfile(userID, actorID string, update ProfileUpdate) (*models.User, error) {
	if userID != actorID {
		return nil, errors.New(errors.ErrCodeForbidden, "cannot update another user's profile")
	}

	user, err := s.userRepo.GetUserByID(userID)
	if err != nil {
		return nil, err
	}

	if update.Username != nil {
		username := security.SanitizeString(*update.Username)
		if username == "" || len(username) > 30 {
			return nil, errors.New(errors.ErrCodeValidation, "username must be 1-30 characters")
		}
		user.Username = username
	}
	if update.Gender != nil {
		user.Gender = strings.TrimSpace(*update.Gender)
	}
	if update.PhoneNumber != nil {
		if *update.PhoneNumber == "" {
			user.PhoneNumber = nil
		} else {
			if !security.ValidatePhoneNumber(*update.PhoneNumber) {
				return nil, errors.New(errors.ErrCodeValidation, "invalid phone number")
			}
			phone := *update.PhoneNumber
			user.PhoneNumber = &phone
		}
	}
	if update.ProfileImage != nil {
		user.ProfileImage = security.SanitizeString(*update.ProfileImage)
	}
	if update.Visibility != nil {
		v := *update.Visibility
		if v != models.VisibilityPublic && v != models.VisibilityPrivate {
			return nil, errors.New(errors.ErrCodeValidation, "visibility must be public or private")
		}
		user.AccountVisibility = v
	}

	if err := s.userRepo.UpdateUser(user); err != nil {
		return nil, err
	}

	return user, nil
}
