package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/photogallery-server/internal/logger"
	"github.com/dtroode/photogallery-server/internal/model"
)

// Auth authenticates users and hands sessions out through TokenService.
type Auth struct {
	userStore    model.UserStore
	hasher       model.PasswordHasher
	tokenService *TokenService
	logger       *logger.Logger
}

func NewAuth(
	userStore model.UserStore,
	hasher model.PasswordHasher,
	tokenService *TokenService,
	logger *logger.Logger,
) *Auth {
	return &Auth{
		userStore:    userStore,
		hasher:       hasher,
		tokenService: tokenService,
		logger:       logger,
	}
}

// Login verifies the password of the user identified by login, which is
// tried as a user name first and as an email second, and issues a session.
func (a *Auth) Login(ctx context.Context, login, password string) (model.Session, error) {
	a.logger.Debug("Auth service: login attempt",
		"login", login)

	user, err := a.findByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, model.ErrPrincipalNotFound) {
			a.logger.Info("Auth service: user not found",
				"login", login)
		} else {
			a.logger.Error("Auth service: failed to get user",
				"login", login,
				"error", err.Error())
		}
		return model.Session{}, err
	}

	ok, err := a.hasher.Verify(password, user.PasswordHash)
	if err != nil {
		a.logger.Error("Auth service: failed to verify password",
			"user_id", user.ID,
			"error", err.Error())
		return model.Session{}, fmt.Errorf("failed to verify password: %w", err)
	}
	if !ok {
		a.logger.Info("Auth service: invalid password",
			"user_id", user.ID)
		return model.Session{}, model.ErrInvalidCredentials
	}

	session, err := a.tokenService.Issue(ctx, user)
	if err != nil {
		return model.Session{}, fmt.Errorf("failed to issue session: %w", err)
	}

	a.logger.Info("Auth service: user logged in",
		"user_id", user.ID)

	return session, nil
}

// Register creates a user with the default role and logs them in.
func (a *Auth) Register(ctx context.Context, params model.RegisterParams) (model.Session, error) {
	params.UserName = strings.TrimSpace(params.UserName)
	params.Email = strings.TrimSpace(params.Email)

	a.logger.Debug("Auth service: starting user registration",
		"user_name", params.UserName,
		"email", params.Email)

	if params.UserName == "" || params.Email == "" {
		return model.Session{}, fmt.Errorf("%w: user name and email are required", model.ErrInvalidInput)
	}
	if params.Password != params.ConfirmPassword {
		return model.Session{}, model.ErrPasswordMismatch
	}

	if err := a.ensureAvailable(ctx, params.UserName, params.Email); err != nil {
		return model.Session{}, err
	}

	hash, err := a.hasher.Hash(params.Password)
	if err != nil {
		a.logger.Info("Auth service: password rejected",
			"user_name", params.UserName,
			"error", err.Error())
		return model.Session{}, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user, err := a.userStore.Create(ctx, model.User{
		ID:           uuid.New(),
		UserName:     params.UserName,
		Email:        params.Email,
		PhoneNumber:  params.PhoneNumber,
		Roles:        []string{model.DefaultRole},
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		if errors.Is(err, model.ErrPrincipalExists) {
			return model.Session{}, err
		}
		a.logger.Error("Auth service: failed to create user",
			"user_name", params.UserName,
			"error", err.Error())
		return model.Session{}, fmt.Errorf("failed to create user: %w", err)
	}

	a.logger.Info("Auth service: user registered",
		"user_id", user.ID)

	session, err := a.tokenService.Issue(ctx, user)
	if err != nil {
		return model.Session{}, fmt.Errorf("failed to issue session: %w", err)
	}

	return session, nil
}

// Revoke clears the session of the user with the given user name.
func (a *Auth) Revoke(ctx context.Context, userName string) (model.User, error) {
	user, err := a.userStore.GetByUserName(ctx, userName)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.User{}, model.ErrPrincipalNotFound
		}
		return model.User{}, fmt.Errorf("failed to get user by user name: %w", err)
	}

	if err := a.tokenService.Revoke(ctx, user.ID); err != nil {
		return model.User{}, err
	}

	return user, nil
}

func (a *Auth) findByLogin(ctx context.Context, login string) (model.User, error) {
	user, err := a.userStore.GetByUserName(ctx, login)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, model.ErrNotFound) {
		return model.User{}, fmt.Errorf("failed to get user by user name: %w", err)
	}

	user, err = a.userStore.GetByEmail(ctx, login)
	if err == nil {
		return user, nil
	}
	if errors.Is(err, model.ErrNotFound) {
		return model.User{}, model.ErrPrincipalNotFound
	}
	return model.User{}, fmt.Errorf("failed to get user by email: %w", err)
}

func (a *Auth) ensureAvailable(ctx context.Context, userName, email string) error {
	if _, err := a.userStore.GetByUserName(ctx, userName); err == nil {
		return model.ErrPrincipalExists
	} else if !errors.Is(err, model.ErrNotFound) {
		return fmt.Errorf("failed to get user by user name: %w", err)
	}

	if _, err := a.userStore.GetByEmail(ctx, email); err == nil {
		return model.ErrPrincipalExists
	} else if !errors.Is(err, model.ErrNotFound) {
		return fmt.Errorf("failed to get user by email: %w", err)
	}

	return nil
}
