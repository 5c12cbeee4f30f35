package models

import (
	"errors"
	"fmt"
	"time"
)

// Role gates park and admin operations
type Role string

const (
	RoleUser      Role = "user"
	RoleParkOwner Role = "park_owner"
	RoleAdmin     Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleParkOwner, RoleAdmin:
		return true
	}
	return false
}

// CanOwnParks reports whether the role may register parks.
func (r Role) CanOwnParks() bool {
	return r == RoleParkOwner || r == RoleAdmin
}

type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	Role         Role      `json:"role"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
	Version      int64     `json:"version"`
}

func (u *User) Validate() error {
	if u.Email == "" {
		return errors.New("user email is required")
	}
	if !u.Role.Valid() {
		return fmt.Errorf("invalid role %q", u.Role)
	}
	return nil
}

// Ref returns the user as a roster/creator reference.
func (u *User) Ref() UserRef {
	return UserRef{UserID: u.ID, Name: u.Name}
}

// Identity is the authenticated caller as supplied by the identity provider.
type Identity struct {
	UserID      string
	DisplayName string
}

// RegisterRequest represents the sign-up request body
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Name     string `json:"name" binding:"required"`
}

// LoginRequest represents the login request body
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse represents the login response
type AuthResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}
