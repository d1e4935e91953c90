package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// TokenStore keeps exactly one TokenRecord per principal.
//
// Implementations make each operation atomic for a given principal and never
// serialise operations of different principals against each other.
type TokenStore interface {
	// Get returns ErrNotFound when the principal has never been issued tokens.
	Get(ctx context.Context, principalID uuid.UUID) (TokenRecord, error)
	// Upsert inserts the record or replaces the existing one.
	Upsert(ctx context.Context, record TokenRecord) error
	// Clear drops both tokens and the refresh deadline but keeps the row.
	// Clearing an absent record is a no-op.
	Clear(ctx context.Context, principalID uuid.UUID, at time.Time) error
	// Swap replaces the record only while the stored refresh token still equals
	// expectedRefresh, otherwise it returns ErrPersistenceConflict.
	Swap(ctx context.Context, record TokenRecord, expectedRefresh string) error
}

// TokenRecord is the server-side session state of a principal.
type TokenRecord struct {
	PrincipalID     uuid.UUID
	AccessToken     *string
	RefreshToken    *string
	IssuedAt        time.Time
	RefreshDeadline *time.Time
}

// Active reports whether the record holds a refresh token at all.
// Revoked records keep the row with every token field cleared.
func (r TokenRecord) Active() bool {
	return r.RefreshToken != nil && r.RefreshDeadline != nil
}

// Cleared returns a copy of the record in the revoked state.
func (r TokenRecord) Cleared(at time.Time) TokenRecord {
	return TokenRecord{PrincipalID: r.PrincipalID, IssuedAt: at}
}
