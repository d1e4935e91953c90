package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dtroode/photogallery-server/internal/model"
)

var _ model.TokenStore = (*TokenRecordRepository)(nil)

// TokenRecordRepository stores token records in the token_claims table, one
// row per user. Row-level atomicity of single statements makes every
// operation linearizable per user without application locks.
type TokenRecordRepository struct {
	db *Connection
}

func NewTokenRecordRepository(db *Connection) *TokenRecordRepository {
	return &TokenRecordRepository{db: db}
}

func (r *TokenRecordRepository) Get(ctx context.Context, principalID uuid.UUID) (model.TokenRecord, error) {
	const query = `
        SELECT user_id, access_token, refresh_token, refresh_date, token_expiry
        FROM token_claims WHERE user_id = $1
    `
	var rec model.TokenRecord
	err := r.db.QueryRow(ctx, query, principalID).Scan(
		&rec.PrincipalID, &rec.AccessToken, &rec.RefreshToken, &rec.IssuedAt, &rec.RefreshDeadline,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.TokenRecord{}, model.ErrNotFound
		}
		return model.TokenRecord{}, unavailable("get token record", err)
	}
	return rec, nil
}

func (r *TokenRecordRepository) Upsert(ctx context.Context, record model.TokenRecord) error {
	const query = `
        INSERT INTO token_claims (user_id, access_token, refresh_token, refresh_date, token_expiry)
        VALUES ($1, $2, $3, $4, $5)
        ON CONFLICT (user_id) DO UPDATE SET
            access_token = EXCLUDED.access_token,
            refresh_token = EXCLUDED.refresh_token,
            refresh_date = EXCLUDED.refresh_date,
            token_expiry = EXCLUDED.token_expiry
    `
	_, err := r.db.Exec(ctx, query,
		record.PrincipalID, record.AccessToken, record.RefreshToken, record.IssuedAt, record.RefreshDeadline,
	)
	if err != nil {
		return unavailable("upsert token record", err)
	}
	return nil
}

func (r *TokenRecordRepository) Clear(ctx context.Context, principalID uuid.UUID, at time.Time) error {
	const query = `
        UPDATE token_claims
        SET access_token = NULL, refresh_token = NULL, token_expiry = NULL, refresh_date = $2
        WHERE user_id = $1
    `
	if _, err := r.db.Exec(ctx, query, principalID, at); err != nil {
		return unavailable("clear token record", err)
	}
	return nil
}

func (r *TokenRecordRepository) Swap(ctx context.Context, record model.TokenRecord, expectedRefresh string) error {
	const query = `
        UPDATE token_claims
        SET access_token = $2, refresh_token = $3, refresh_date = $4, token_expiry = $5
        WHERE user_id = $1 AND refresh_token = $6
    `
	tag, err := r.db.Exec(ctx, query,
		record.PrincipalID, record.AccessToken, record.RefreshToken, record.IssuedAt, record.RefreshDeadline,
		expectedRefresh,
	)
	if err != nil {
		return unavailable("swap token record", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrPersistenceConflict
	}
	return nil
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%w: failed to %s: %w", model.ErrPersistenceUnavailable, op, err)
}
