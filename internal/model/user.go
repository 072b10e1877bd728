package model

import (
	"strings"
	"time"
)

type User struct {
	ID             int64      `json:"user_id"`
	Email          string     `json:"email"`
	PasswordHash   string     `json:"-"`
	FirstName      string     `json:"first_name"`
	LastName       string     `json:"last_name"`
	Phone          string     `json:"phone"`
	Role           Role       `json:"user_type"`
	ProfilePicture string     `json:"profile_picture"`
	IsActive       bool       `json:"is_active"`
	EmailVerified  bool       `json:"email_verified"`
	LastLogin      *time.Time `json:"last_login"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

func (u User) DisplayName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// AuthUser is the canonical login payload.
type AuthUser struct {
	UserID    int64  `json:"user_id"`
	Role      Role   `json:"role"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

func (u User) AuthUser() AuthUser {
	return AuthUser{
		UserID:    u.ID,
		Role:      u.Role,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
	}
}

type UserFilter struct {
	Role   Role
	Search string
	Page   int
	Limit  int
}

// NewUser carries everything needed to create a user and its profile row.
type NewUser struct {
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	Phone        string
	Role         Role
	CompanyName  string
}

type PasswordReset struct {
	Token     string
	UserID    int64
	ExpiresAt time.Time
}
