package services

import (
	"strings"
	"unicode/utf8"

	"github.com/waylo/waylo-api/internal/events"
	"github.com/waylo/waylo-api/internal/models"
	"github.com/waylo/waylo-api/internal/repositories"
	"github.com/waylo/waylo-api/internal/security"
	"github.com/waylo/waylo-api/pkg/errors"
)

// AuthKeyword is the credential scheme expected in the Authorization header.
const AuthKeyword = "Token"

type AuthService struct {
	userRepo   *repositories.UserRepository
	tokenRepo  *repositories.TokenRepository
	bus        *events.Bus
	bcryptCost int
}

func NewAuthService(userRepo *repositories.UserRepository, tokenRepo *repositories.TokenRepository, bus *events.Bus, bcryptCost int) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		tokenRepo:  tokenRepo,
		bus:        bus,
		bcryptCost: bcryptCost,
	}
}

type RegisterInput struct {
	Email       string
	Username    string
	Password    string
	Gender      string
	PhoneNumber string
	Visibility  string
}

// Register creates the account and publishes the account-created event. The
// album auto-create listener runs before Register returns.
func (s *AuthService) Register(input RegisterInput) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	username := security.SanitizeString(input.Username)

	if !security.ValidateEmail(email) {
		return nil, errors.New(errors.ErrCodeValidation, "invalid email address")
	}
	if username == "" || len(username) > 30 {
		return nil, errors.New(errors.ErrCodeValidation, "username must be 1-30 characters")
	}
	if len(input.Password) < 8 {
		return nil, errors.New(errors.ErrCodeValidation, "password must be at least 8 characters")
	}
	if input.PhoneNumber != "" && !security.ValidatePhoneNumber(input.PhoneNumber) {
		return nil, errors.New(errors.ErrCodeValidation, "invalid phone number")
	}
	if input.Visibility != "" && input.Visibility != models.VisibilityPublic && input.Visibility != models.VisibilityPrivate {
		return nil, errors.New(errors.ErrCodeValidation, "account visibility must be public or private")
	}

	hash, err := security.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to hash password")
	}

	user := &models.User{
		Email:             email,
		Username:          username,
		PasswordHash:      hash,
		Gender:            strings.TrimSpace(input.Gender),
		AccountVisibility: input.Visibility,
	}
	if input.PhoneNumber != "" {
		phone := input.PhoneNumber
		user.PhoneNumber = &phone
	}

	if err := s.userRepo.CreateUser(user); err != nil {
		return nil, err
	}

	if err := s.bus.PublishAccountCreated(events.AccountCreated{
		UserID:    user.ID,
		Email:     user.Email,
		Username:  user.Username,
		CreatedAt: user.CreatedAt,
	}); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to finish registration")
	}

	return user, nil
}

// Login verifies the password and returns the account's token, minting it on
// first login. Repeated logins return the same key.
func (s *AuthService) Login(email, password string) (*models.User, *models.AuthToken, error) {
	user, err := s.userRepo.GetUserByEmail(strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, nil, err
	}

	if !security.VerifyPassword(user.PasswordHash, password) {
		return nil, nil, errors.New(errors.ErrCodeInvalidCredential, "wrong password")
	}

	token, err := s.tokenRepo.GetOrCreate(user.ID)
	if err != nil {
		return nil, nil, err
	}

	return user, token, nil
}

// Authenticate maps an Authorization header value to the account it belongs
// to. Parsing failures never reach the token store.
func (s *AuthService) Authenticate(header string) (*models.User, *models.AuthToken, error) {
	key, err := parseAuthHeader(header)
	if err != nil {
		return nil, nil, err
	}

	token, err := s.tokenRepo.GetByKey(key)
	if err != nil {
		return nil, nil, err
	}

	if !token.User.IsActive {
		return nil, nil, errors.New(errors.ErrCodeAccountInactive, "user inactive or deleted")
	}

	return &token.User, token, nil
}

// parseAuthHeader expects the form "Token <key>". The keyword check is
// case-insensitive, mirroring the issuing side's scheme.
func parseAuthHeader(header string) (string, error) {
	parts := strings.Fields(header)

	if len(parts) == 0 || !strings.EqualFold(parts[0], AuthKeyword) {
		return "", errors.New(errors.ErrCodeMalformedCredential, "invalid token header: no credentials provided")
	}
	if len(parts) == 1 {
		return "", errors.New(errors.ErrCodeMalformedCredential, "invalid token header: no credentials provided")
	}
	if len(parts) > 2 {
		return "", errors.New(errors.ErrCodeMalformedCredential, "invalid token header: token string should not contain spaces")
	}
	if !utf8.ValidString(parts[1]) {
		return "", errors.New(errors.ErrCodeMalformedCredential, "invalid token header: token string contains invalid characters")
	}

	return parts[1], nil
}
