package models

import (
	"time"
)

// Role values assignable to a user. Every account carries at least RoleUser.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Email digest preferences.
const (
	EmailPreferenceDaily   = "daily"
	EmailPreferenceWeekly  = "weekly"
	EmailPreferenceMonthly = "monthly"
)

// User represents an account in the system. Password holds the bcrypt hash,
// never the plaintext; the reset-token fields are set while a password reset
// is pending and cleared on successful reset.
type User struct {
	ID                int        `json:"id"`
	Username          string     `json:"username"`
	Email             string     `json:"email"`
	Password          string     `json:"-"`
	ProfilePicture    string     `json:"profile_picture"`
	Roles             []string   `json:"roles"`
	Settings          Settings   `json:"settings"`
	ResetTokenHash    *string    `json:"-"`
	ResetTokenExpires *time.Time `json:"-"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// Settings are per-user notification preferences.
type Settings struct {
	NotificationsEnabled bool   `json:"notifications_enabled"`
	EmailPreference      string `json:"email_preference"`
}

// HasRole reports whether the user carries the given role.
func (u *User) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

type SignupRequest struct {
	Username       string `json:"username"`
	Email          string `json:"email"`
	Password       string `json:"password"`
	ProfilePicture string `json:"profile_picture"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required"`
}

type ResetPasswordRequest struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

type UpdateProfileRequest struct {
	Username       *string `json:"username"`
	Email          *string `json:"email"`
	ProfilePicture *string `json:"profile_picture"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required"`
}

type UpdateSettingsRequest struct {
	NotificationsEnabled *bool   `json:"notifications_enabled"`
	EmailPreference      *string `json:"email_preference"`
}
