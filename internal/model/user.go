package model

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// DefaultRole is assigned to newly registered users.
	DefaultRole = "User"
	// RoleAdmin may manage content owned by other users.
	RoleAdmin = "admin"
)

// UserStore defines persistence operations for users.
type UserStore interface {
	GetByUserName(ctx context.Context, userName string) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	GetByID(ctx context.Context, id uuid.UUID) (User, error)
	Create(ctx context.Context, user User) (User, error)
}

// PasswordHasher hashes and verifies user passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, encoded string) (bool, error)
}

// User represents a stored principal with authentication material.
type User struct {
	ID           uuid.UUID
	UserName     string
	Email        string
	PhoneNumber  string
	Roles        []string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// PrimaryRole returns the role embedded into tokens. Users hold one role.
func (u User) PrimaryRole() string {
	if len(u.Roles) == 0 || u.Roles[0] == "" {
		return DefaultRole
	}
	return u.Roles[0]
}

// Public returns the view of the user that may be sent to clients.
func (u User) Public() PublicUser {
	return PublicUser{
		ID:          u.ID,
		UserName:    u.UserName,
		Email:       u.Email,
		PhoneNumber: u.PhoneNumber,
		Role:        strings.ToLower(u.PrimaryRole()),
	}
}

// PublicUser is the client-facing projection of a User. Role is lower-cased.
type PublicUser struct {
	ID          uuid.UUID
	UserName    string
	Email       string
	PhoneNumber string
	Role        string
}

// RegisterParams contains parameters to register a user.
type RegisterParams struct {
	UserName        string
	Email           string
	PhoneNumber     string
	Password        string
	ConfirmPassword string
}
