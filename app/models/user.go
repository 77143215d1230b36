package models

import "time"

// User is a back-office operator account. Orders record the user that rang
// them up.
type User struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Username       string    `gorm:"size:100;uniqueIndex;not null" json:"username"`
	Email          string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	HashedPassword string    `gorm:"size:255;not null" json:"-"` // bcrypt, never serialised
	FullName       string    `gorm:"size:255" json:"full_name,omitempty"`
	IsActive       bool      `gorm:"not null;default:true" json:"is_active"`
	IsAdmin        bool      `gorm:"not null;default:false" json:"is_admin"`
	CreatedAt      time.Time `json:"created_at"`
}
