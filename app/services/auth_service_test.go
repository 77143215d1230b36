package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tillworks/tillpoint/app/models"
	"github.com/tillworks/tillpoint/app/repositories"
	"github.com/tillworks/tillpoint/internal/testdb"
	"github.com/tillworks/tillpoint/pkg/apperr"
	"github.com/tillworks/tillpoint/pkg/auth"
	"gorm.io/gorm"
)

func newTestAuthService(t *testing.T) (*AuthService, *gorm.DB) {
	t.Helper()
	db := testdb.Open(t)
	return NewAuthService(repositories.NewUserRepository(db)), db
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _ := newTestAuthService(t)

	user, err := svc.Register(RegisterInput{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "correct-horse",
		FullName: "Alice Example",
	})
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.True(t, user.IsActive)
	assert.False(t, user.IsAdmin)
	assert.NotEqual(t, "correct-horse", user.HashedPassword)

	tokens, err := svc.Login("alice", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, "bearer", tokens.TokenType)

	claims, err := auth.ValidateToken(tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "alice", claims.Username)
}

func TestRegisterShortPassword(t *testing.T) {
	svc, _ := newTestAuthService(t)

	_, err := svc.Register(RegisterInput{
		Username: "bob",
		Email:    "bob@example.com",
		Password: "short",
	})
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	svc, _ := newTestAuthService(t)

	_, err := svc.Register(RegisterInput{
		Username: "carol",
		Email:    "carol@example.com",
		Password: "password123",
	})
	require.NoError(t, err)

	_, err = svc.Register(RegisterInput{
		Username: "carol",
		Email:    "other@example.com",
		Password: "password123",
	})
	assert.ErrorIs(t, err, apperr.ErrConflict)

	_, err = svc.Register(RegisterInput{
		Username: "carol2",
		Email:    "carol@example.com",
		Password: "password123",
	})
	assert.ErrorIs(t, err, apperr.ErrConflict)
}

func TestLoginWrongCredentials(t *testing.T) {
	svc, _ := newTestAuthService(t)

	_, err := svc.Register(RegisterInput{
		Username: "dave",
		Email:    "dave@example.com",
		Password: "password123",
	})
	require.NoError(t, err)

	_, err = svc.Login("dave", "wrong-password")
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)

	_, err = svc.Login("nobody", "password123")
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)
}

func TestLoginInactiveUser(t *testing.T) {
	svc, db := newTestAuthService(t)

	user, err := svc.Register(RegisterInput{
		Username: "erin",
		Email:    "erin@example.com",
		Password: "password123",
	})
	require.NoError(t, err)

	require.NoError(t, db.Model(&models.User{}).
		Where("id = ?", user.ID).
		Update("is_active", false).Error)

	_, err = svc.Login("erin", "password123")
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)
}
