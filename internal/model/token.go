package model

import (
	"time"

	"github.com/google/uuid"
)

// Signer produces and verifies signed access tokens.
type Signer interface {
	// Issue signs a claim set for user with the given role and expiry.
	Issue(user User, role string, expiry time.Time) (string, error)
	// VerifyStrict checks signature, algorithm and expiry.
	VerifyStrict(token string) (Claims, error)
	// VerifyForRefresh checks signature and algorithm but accepts expired tokens.
	VerifyForRefresh(token string) (Claims, error)
}

// RefreshGenerator produces opaque refresh tokens.
type RefreshGenerator interface {
	Generate() (string, error)
}

// Claims is the verified content of an access token.
type Claims struct {
	UserID    uuid.UUID
	UserName  string
	Role      string
	TokenID   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Session is the result of a successful login or refresh.
type Session struct {
	AccessToken      string
	RefreshToken     string
	AccessExpiresAt  time.Time
	RefreshExpiresAt time.Time
	User             User
}
