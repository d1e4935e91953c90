package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"

	"github.com/dtroode/photogallery-server/internal/keylock"
	"github.com/dtroode/photogallery-server/internal/logger"
	"github.com/dtroode/photogallery-server/internal/model"
)

// TokenConfig contains token lifetimes and store limits. It is copied on
// construction.
type TokenConfig struct {
	AccessTTL    time.Duration
	RefreshTTL   time.Duration
	StoreTimeout time.Duration
	// ConflictBackoff is the pause before the single retry of a rotation that
	// lost a race on the stored record.
	ConflictBackoff time.Duration
}

// DefaultTokenConfig returns one-day access and seven-day refresh lifetimes.
func DefaultTokenConfig() TokenConfig {
	return TokenConfig{
		AccessTTL:       24 * time.Hour,
		RefreshTTL:      7 * 24 * time.Hour,
		StoreTimeout:    3 * time.Second,
		ConflictBackoff: 10 * time.Millisecond,
	}
}

// TokenService issues, rotates, revokes and introspects token pairs. Each
// principal has at most one token record; issuing overwrites it.
type TokenService struct {
	signer    model.Signer
	generator model.RefreshGenerator
	store     model.TokenStore
	users     model.UserStore
	locks     *keylock.Locker
	cfg       TokenConfig
	logger    *logger.Logger
	now       func() time.Time
}

func NewTokenService(
	signer model.Signer,
	generator model.RefreshGenerator,
	store model.TokenStore,
	users model.UserStore,
	cfg TokenConfig,
	logger *logger.Logger,
) *TokenService {
	defaults := DefaultTokenConfig()
	if cfg.AccessTTL <= 0 {
		cfg.AccessTTL = defaults.AccessTTL
	}
	if cfg.RefreshTTL <= 0 {
		cfg.RefreshTTL = defaults.RefreshTTL
	}
	if cfg.StoreTimeout <= 0 {
		cfg.StoreTimeout = defaults.StoreTimeout
	}
	if cfg.ConflictBackoff <= 0 {
		cfg.ConflictBackoff = defaults.ConflictBackoff
	}

	return &TokenService{
		signer:    signer,
		generator: generator,
		store:     store,
		users:     users,
		locks:     keylock.New(),
		cfg:       cfg,
		logger:    logger,
		now:       time.Now,
	}
}

// Issue creates a fresh token pair for user and replaces any stored session.
func (s *TokenService) Issue(ctx context.Context, user model.User) (model.Session, error) {
	unlock, err := s.lock(ctx, user.ID)
	if err != nil {
		return model.Session{}, err
	}
	defer unlock()

	session, record, err := s.newSession(user)
	if err != nil {
		s.logger.Error("Token service: failed to create session",
			"user_id", user.ID,
			"error", err.Error())
		return model.Session{}, err
	}

	err = s.withStore(ctx, func(ctx context.Context) error {
		return s.store.Upsert(ctx, record)
	})
	if err != nil {
		s.logger.Error("Token service: failed to store token record",
			"user_id", user.ID,
			"error", err.Error())
		return model.Session{}, fmt.Errorf("failed to store token record: %w", err)
	}

	s.logger.Debug("Token service: session issued",
		"user_id", user.ID)

	return session, nil
}

// Refresh exchanges a signed, possibly expired, access token and the matching
// refresh token for a new pair. The presented refresh token stops being valid.
//
// The access token is verified before any store access. A rotation that loses
// a race on the stored record is retried once, re-reading the record.
func (s *TokenService) Refresh(ctx context.Context, accessToken, refreshToken string) (model.Session, error) {
	claims, err := s.signer.VerifyForRefresh(accessToken)
	if err != nil {
		s.logger.Info("Token service: refresh with invalid access token",
			"error", err.Error())
		return model.Session{}, err
	}

	var user model.User
	err = s.withStore(ctx, func(ctx context.Context) error {
		user, err = s.users.GetByID(ctx, claims.UserID)
		return err
	})
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			s.logger.Info("Token service: refresh for unknown user",
				"user_id", claims.UserID)
			return model.Session{}, model.ErrPrincipalNotFound
		}
		s.logger.Error("Token service: failed to get user",
			"user_id", claims.UserID,
			"error", err.Error())
		return model.Session{}, fmt.Errorf("failed to get user: %w", err)
	}

	unlock, err := s.lock(ctx, user.ID)
	if err != nil {
		return model.Session{}, err
	}
	defer unlock()

	var session model.Session
	backoff := retry.WithMaxRetries(1, retry.NewConstant(s.cfg.ConflictBackoff))
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		var rotateErr error
		session, rotateErr = s.rotate(ctx, user, refreshToken)
		if errors.Is(rotateErr, model.ErrPersistenceConflict) {
			s.logger.Warn("Token service: token record changed during refresh",
				"user_id", user.ID)
			return retry.RetryableError(rotateErr)
		}
		return rotateErr
	})
	if err != nil {
		s.logger.Info("Token service: refresh rejected",
			"user_id", user.ID,
			"error", err.Error())
		return model.Session{}, err
	}

	s.logger.Debug("Token service: session refreshed",
		"user_id", user.ID)

	return session, nil
}

// Revoke clears the stored session of a principal. Revoking a principal
// without a session is not an error.
func (s *TokenService) Revoke(ctx context.Context, principalID uuid.UUID) error {
	unlock, err := s.lock(ctx, principalID)
	if err != nil {
		return err
	}
	defer unlock()

	err = s.withStore(ctx, func(ctx context.Context) error {
		return s.store.Clear(ctx, principalID, s.now())
	})
	if err != nil {
		s.logger.Error("Token service: failed to clear token record",
			"user_id", principalID,
			"error", err.Error())
		return fmt.Errorf("failed to clear token record: %w", err)
	}

	s.logger.Info("Token service: session revoked",
		"user_id", principalID)

	return nil
}

// Introspect verifies signature and expiry of an access token and returns its
// claims. Every failure wraps model.ErrUnauthorized.
func (s *TokenService) Introspect(_ context.Context, accessToken string) (model.Claims, error) {
	claims, err := s.signer.VerifyStrict(accessToken)
	if err != nil {
		return model.Claims{}, fmt.Errorf("%w: %w", model.ErrUnauthorized, err)
	}
	return claims, nil
}

func (s *TokenService) rotate(ctx context.Context, user model.User, presented string) (model.Session, error) {
	var current model.TokenRecord
	err := s.withStore(ctx, func(ctx context.Context) error {
		var err error
		current, err = s.store.Get(ctx, user.ID)
		return err
	})
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.Session{}, model.ErrNoActiveSession
		}
		return model.Session{}, fmt.Errorf("failed to get token record: %w", err)
	}

	if err := s.validate(current, presented); err != nil {
		return model.Session{}, err
	}

	session, next, err := s.newSession(user)
	if err != nil {
		return model.Session{}, err
	}

	err = s.withStore(ctx, func(ctx context.Context) error {
		return s.store.Swap(ctx, next, presented)
	})
	if err != nil {
		return model.Session{}, fmt.Errorf("failed to rotate token record: %w", err)
	}

	return session, nil
}

func (s *TokenService) validate(record model.TokenRecord, presented string) error {
	if !record.Active() {
		return model.ErrNoActiveSession
	}
	if subtle.ConstantTimeCompare([]byte(*record.RefreshToken), []byte(presented)) != 1 {
		return model.ErrRefreshTokenMismatch
	}
	if !s.now().Before(*record.RefreshDeadline) {
		return model.ErrRefreshTokenExpired
	}
	return nil
}

func (s *TokenService) newSession(user model.User) (model.Session, model.TokenRecord, error) {
	now := s.now()
	accessExpiry := now.Add(s.cfg.AccessTTL)
	refreshExpiry := now.Add(s.cfg.RefreshTTL)

	access, err := s.signer.Issue(user, user.PrimaryRole(), accessExpiry)
	if err != nil {
		return model.Session{}, model.TokenRecord{}, fmt.Errorf("failed to issue access token: %w", err)
	}

	refresh, err := s.generator.Generate()
	if err != nil {
		return model.Session{}, model.TokenRecord{}, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	session := model.Session{
		AccessToken:      access,
		RefreshToken:     refresh,
		AccessExpiresAt:  accessExpiry,
		RefreshExpiresAt: refreshExpiry,
		User:             user,
	}
	record := model.TokenRecord{
		PrincipalID:     user.ID,
		AccessToken:     &access,
		RefreshToken:    &refresh,
		IssuedAt:        now,
		RefreshDeadline: &refreshExpiry,
	}

	return session, record, nil
}

func (s *TokenService) lock(ctx context.Context, principalID uuid.UUID) (func(), error) {
	unlock, err := s.locks.Lock(ctx, principalID.String())
	if err != nil {
		return nil, fmt.Errorf("%w: waiting for principal lock: %w", model.ErrPersistenceUnavailable, err)
	}
	return unlock, nil
}

// withStore bounds a store call by StoreTimeout. Running out of time is
// reported as model.ErrPersistenceUnavailable.
func (s *TokenService) withStore(ctx context.Context, fn func(ctx context.Context) error) error {
	storeCtx, cancel := context.WithTimeout(ctx, s.cfg.StoreTimeout)
	defer cancel()

	err := fn(storeCtx)
	if err == nil || errors.Is(err, model.ErrPersistenceUnavailable) {
		return err
	}
	if errors.Is(storeCtx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", model.ErrPersistenceUnavailable, err)
	}
	return err
}
