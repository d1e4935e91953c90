// Package memory keeps token records in process memory. It backs single
// replica deployments and tests.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/photogallery-server/internal/keylock"
	"github.com/dtroode/photogallery-server/internal/model"
)

var _ model.TokenStore = (*TokenRecordRepository)(nil)

// TokenRecordRepository is an in-memory model.TokenStore. Mutations of one
// principal are serialised through a per-principal lock.
type TokenRecordRepository struct {
	records sync.Map // uuid.UUID -> model.TokenRecord
	locks   *keylock.Locker
}

func NewTokenRecordRepository() *TokenRecordRepository {
	return &TokenRecordRepository{locks: keylock.New()}
}

func (r *TokenRecordRepository) Get(ctx context.Context, principalID uuid.UUID) (model.TokenRecord, error) {
	if err := ctx.Err(); err != nil {
		return model.TokenRecord{}, fmt.Errorf("%w: %w", model.ErrPersistenceUnavailable, err)
	}
	v, ok := r.records.Load(principalID)
	if !ok {
		return model.TokenRecord{}, model.ErrNotFound
	}
	return clone(v.(model.TokenRecord)), nil
}

func (r *TokenRecordRepository) Upsert(ctx context.Context, record model.TokenRecord) error {
	unlock, err := r.lock(ctx, record.PrincipalID)
	if err != nil {
		return err
	}
	defer unlock()

	r.records.Store(record.PrincipalID, clone(record))
	return nil
}

func (r *TokenRecordRepository) Clear(ctx context.Context, principalID uuid.UUID, at time.Time) error {
	unlock, err := r.lock(ctx, principalID)
	if err != nil {
		return err
	}
	defer unlock()

	v, ok := r.records.Load(principalID)
	if !ok {
		return nil
	}
	r.records.Store(principalID, v.(model.TokenRecord).Cleared(at))
	return nil
}

func (r *TokenRecordRepository) Swap(ctx context.Context, record model.TokenRecord, expectedRefresh string) error {
	unlock, err := r.lock(ctx, record.PrincipalID)
	if err != nil {
		return err
	}
	defer unlock()

	v, ok := r.records.Load(record.PrincipalID)
	if !ok {
		return model.ErrPersistenceConflict
	}
	current := v.(model.TokenRecord)
	if current.RefreshToken == nil || *current.RefreshToken != expectedRefresh {
		return model.ErrPersistenceConflict
	}

	r.records.Store(record.PrincipalID, clone(record))
	return nil
}

func (r *TokenRecordRepository) lock(ctx context.Context, principalID uuid.UUID) (func(), error) {
	unlock, err := r.locks.Lock(ctx, principalID.String())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", model.ErrPersistenceUnavailable, err)
	}
	return unlock, nil
}

func clone(rec model.TokenRecord) model.TokenRecord {
	out := model.TokenRecord{PrincipalID: rec.PrincipalID, IssuedAt: rec.IssuedAt}
	if rec.AccessToken != nil {
		v := *rec.AccessToken
		out.AccessToken = &v
	}
	if rec.RefreshToken != nil {
		v := *rec.RefreshToken
		out.RefreshToken = &v
	}
	if rec.RefreshDeadline != nil {
		v := *rec.RefreshDeadline
		out.RefreshDeadline = &v
	}
	return out
}
