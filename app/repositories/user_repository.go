package repositories

import (
	"context"
	"errors"

	"github.com/tillworks/tillpoint/app/models"
	"github.com/tillworks/tillpoint/pkg/middleware"
	"gorm.io/gorm"
)

// UserRepository handles database operations for User.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// FindByID looks up a user by primary key.
func (r *UserRepository) FindByID(id uint) (models.User, error) {
	var user models.User
	err := r.db.First(&user, id).Error
	return user, err
}

// FindByUsername looks up a user by their login name.
func (r *UserRepository) FindByUsername(username string) (models.User, error) {
	var user models.User
	err := r.db.Where("username = ?", username).First(&user).Error
	return user, err
}

// UsernameTaken reports whether the username is already registered.
func (r *UserRepository) UsernameTaken(username string) (bool, error) {
	var count int64
	err := r.db.Model(&models.User{}).Where("username = ?", username).Count(&count).Error
	return count > 0, err
}

// EmailTaken reports whether the email is already registered.
func (r *UserRepository) EmailTaken(email string) (bool, error) {
	var count int64
	err := r.db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

// Create persists a new user record.
func (r *UserRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

// Resolve implements middleware.PrincipalResolver: only existing, active
// accounts become principals.
func (r *UserRepository) Resolve(ctx context.Context, userID uint) (middleware.Principal, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		return middleware.Principal{}, err
	}
	if !user.IsActive {
		return middleware.Principal{}, errors.New("user is inactive")
	}
	return middleware.Principal{ID: user.ID, Username: user.Username, IsAdmin: user.IsAdmin}, nil
}
