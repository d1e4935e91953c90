// Package redis stores token records in Redis, one key per principal.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/dtroode/photogallery-server/internal/model"
)

var _ model.TokenStore = (*TokenRecordRepository)(nil)

// clearAttempts bounds how often Clear retries after losing a WATCH race.
const clearAttempts = 3

type tokenRecordBlob struct {
	AccessToken     *string    `json:"access_token,omitempty"`
	RefreshToken    *string    `json:"refresh_token,omitempty"`
	IssuedAt        time.Time  `json:"issued_at"`
	RefreshDeadline *time.Time `json:"refresh_deadline,omitempty"`
}

// TokenRecordRepository is a model.TokenStore over Redis. Conditional writes
// use WATCH/MULTI so that concurrent replicas cannot both rotate a record.
type TokenRecordRepository struct {
	client redis.UniversalClient
	prefix string
}

func NewTokenRecordRepository(client redis.UniversalClient, prefix string) *TokenRecordRepository {
	if prefix == "" {
		prefix = "photogallery"
	}
	return &TokenRecordRepository{client: client, prefix: prefix}
}

func (r *TokenRecordRepository) Get(ctx context.Context, principalID uuid.UUID) (model.TokenRecord, error) {
	data, err := r.client.Get(ctx, r.key(principalID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return model.TokenRecord{}, model.ErrNotFound
		}
		return model.TokenRecord{}, unavailable("get token record", err)
	}
	return decode(principalID, data)
}

func (r *TokenRecordRepository) Upsert(ctx context.Context, record model.TokenRecord) error {
	data, err := encode(record)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, r.key(record.PrincipalID), data, 0).Err(); err != nil {
		return unavailable("upsert token record", err)
	}
	return nil
}

func (r *TokenRecordRepository) Clear(ctx context.Context, principalID uuid.UUID, at time.Time) error {
	key := r.key(principalID)

	for i := 0; i < clearAttempts; i++ {
		err := r.client.Watch(ctx, func(tx *redis.Tx) error {
			data, err := tx.Get(ctx, key).Bytes()
			if err != nil {
				return err
			}
			current, err := decode(principalID, data)
			if err != nil {
				return err
			}
			cleared, err := encode(current.Cleared(at))
			if err != nil {
				return err
			}
			_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				pipe.Set(ctx, key, cleared, 0)
				return nil
			})
			return err
		}, key)

		switch {
		case err == nil, errors.Is(err, redis.Nil):
			return nil
		case errors.Is(err, redis.TxFailedErr):
			continue
		default:
			return unavailable("clear token record", err)
		}
	}

	return model.ErrPersistenceConflict
}

func (r *TokenRecordRepository) Swap(ctx context.Context, record model.TokenRecord, expectedRefresh string) error {
	key := r.key(record.PrincipalID)
	next, err := encode(record)
	if err != nil {
		return err
	}

	err = r.client.Watch(ctx, func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return model.ErrPersistenceConflict
			}
			return err
		}
		current, err := decode(record.PrincipalID, data)
		if err != nil {
			return err
		}
		if current.RefreshToken == nil || *current.RefreshToken != expectedRefresh {
			return model.ErrPersistenceConflict
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, next, 0)
			return nil
		})
		return err
	}, key)

	switch {
	case err == nil:
		return nil
	case errors.Is(err, model.ErrPersistenceConflict), errors.Is(err, redis.TxFailedErr):
		return model.ErrPersistenceConflict
	default:
		return unavailable("swap token record", err)
	}
}

func (r *TokenRecordRepository) key(principalID uuid.UUID) string {
	return r.prefix + ":token:" + principalID.String()
}

func encode(record model.TokenRecord) ([]byte, error) {
	data, err := json.Marshal(tokenRecordBlob{
		AccessToken:     record.AccessToken,
		RefreshToken:    record.RefreshToken,
		IssuedAt:        record.IssuedAt,
		RefreshDeadline: record.RefreshDeadline,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode token record: %w", err)
	}
	return data, nil
}

func decode(principalID uuid.UUID, data []byte) (model.TokenRecord, error) {
	var blob tokenRecordBlob
	if err := json.Unmarshal(data, &blob); err != nil {
		return model.TokenRecord{}, fmt.Errorf("failed to decode token record: %w", err)
	}
	return model.TokenRecord{
		PrincipalID:     principalID,
		AccessToken:     blob.AccessToken,
		RefreshToken:    blob.RefreshToken,
		IssuedAt:        blob.IssuedAt,
		RefreshDeadline: blob.RefreshDeadline,
	}, nil
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%w: failed to %s: %w", model.ErrPersistenceUnavailable, op, err)
}
