package services

import (
	"errors"

	"github.com/tillworks/tillpoint/app/models"
	"github.com/tillworks/tillpoint/app/repositories"
	"github.com/tillworks/tillpoint/pkg/apperr"
	"github.com/tillworks/tillpoint/pkg/auth"
	"gorm.io/gorm"
)

// RegisterInput carries a new account request.
type RegisterInput struct {
	Username string
	Email    string
	Password string
	FullName string
}

// TokenPair is the login response body.
type TokenPair struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// AuthService handles account registration and credential checks.
type AuthService struct {
	users *repositories.UserRepository
}

func NewAuthService(users *repositories.UserRepository) *AuthService {
	return &AuthService{users: users}
}

// Register creates a new active, non-admin account.
func (s *AuthService) Register(input RegisterInput) (models.User, error) {
	if len(input.Password) < 8 || len(input.Password) > 128 {
		return models.User{}, apperr.Validation("Password must be between 8 and 128 characters")
	}

	taken, err := s.users.UsernameTaken(input.Username)
	if err != nil {
		return models.User{}, apperr.Internal(err)
	}
	if taken {
		return models.User{}, apperr.Conflict("Username")
	}

	taken, err = s.users.EmailTaken(input.Email)
	if err != nil {
		return models.User{}, apperr.Internal(err)
	}
	if taken {
		return models.User{}, apperr.Conflict("Email")
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return models.User{}, apperr.Internal(err)
	}

	user := models.User{
		Username:       input.Username,
		Email:          input.Email,
		HashedPassword: hash,
		FullName:       input.FullName,
		IsActive:       true,
	}
	if err := s.users.Create(&user); err != nil {
		return models.User{}, apperr.FromDB(err, "User", input.Username)
	}
	return user, nil
}

// Login verifies credentials and issues an access token. A wrong username and
// a wrong password produce the same error so the endpoint does not leak which
// accounts exist.
func (s *AuthService) Login(username, password string) (TokenPair, error) {
	user, err := s.users.FindByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return TokenPair{}, apperr.Unauthorized("Incorrect username or password")
		}
		return TokenPair{}, apperr.Internal(err)
	}
	if !auth.CheckPassword(user.HashedPassword, password) {
		return TokenPair{}, apperr.Unauthorized("Incorrect username or password")
	}
	if !user.IsActive {
		return TokenPair{}, apperr.Unauthorized("Inactive user")
	}

	token, err := auth.GenerateToken(user.ID, user.Username)
	if err != nil {
		return TokenPair{}, apperr.Internal(err)
	}
	return TokenPair{AccessToken: token, TokenType: "bearer"}, nil
}
