package handler

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/dtroode/photogallery-server/internal/api/http/response"
	"github.com/dtroode/photogallery-server/internal/logger"
	"github.com/dtroode/photogallery-server/internal/model"
)

// AuthService defines login, registration and revocation.
type AuthService interface {
	Login(ctx context.Context, login, password string) (model.Session, error)
	Register(ctx context.Context, params model.RegisterParams) (model.Session, error)
	Revoke(ctx context.Context, userName string) (model.User, error)
}

// TokenService defines token refresh.
type TokenService interface {
	Refresh(ctx context.Context, accessToken, refreshToken string) (model.Session, error)
}

// ContextManager reads claims attached by the authentication middleware.
type ContextManager interface {
	GetClaims(c *fiber.Ctx) (model.Claims, bool)
}

// Auth handles the /api/auth endpoints.
type Auth struct {
	authService    AuthService
	tokenService   TokenService
	contextManager ContextManager
	logger         *logger.Logger
	now            func() time.Time
}

// NewAuth creates a new Auth handler.
func NewAuth(authService AuthService, tokenService TokenService, contextManager ContextManager, logger *logger.Logger) *Auth {
	return &Auth{
		authService:    authService,
		tokenService:   tokenService,
		contextManager: contextManager,
		logger:         logger,
		now:            time.Now,
	}
}

// Login issues a token pair for valid credentials.
func (h *Auth) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil || strings.TrimSpace(req.UserName) == "" {
		return response.Fail(c, fiber.StatusBadRequest, response.MsgBadRequest)
	}

	h.logger.Debug("Auth handler: processing login request",
		"login", req.UserName)

	session, err := h.authService.Login(c.UserContext(), req.UserName, req.Password)
	if err != nil {
		h.logger.Info("Auth handler: login failed",
			"login", req.UserName,
			"error", err.Error())
		if errors.Is(err, model.ErrPrincipalNotFound) {
			return response.Fail(c, fiber.StatusNotFound, response.MsgUserNotFoundByLogin)
		}
		return handleError(c, err)
	}

	return response.OK(c, response.MsgLoginSucceeded, tokenResponse{
		AccessToken:  session.AccessToken,
		RefreshToken: session.RefreshToken,
		User:         newUserResponse(session.User),
	})
}

// Refresh exchanges an access token, possibly expired, and its refresh token
// for a new pair. The request is form encoded.
func (h *Auth) Refresh(c *fiber.Ctx) error {
	var req refreshRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Fail(c, fiber.StatusBadRequest, response.MsgBadRequest)
	}

	session, err := h.tokenService.Refresh(c.UserContext(), req.AccessToken, req.RefreshToken)
	if err != nil {
		h.logger.Info("Auth handler: refresh failed",
			"error", err.Error())
		return handleError(c, err)
	}

	return response.OK(c, response.MsgRefreshSucceeded, refreshResponse{
		AccessToken:  session.AccessToken,
		RefreshToken: session.RefreshToken,
		Expiration:   validityDays(h.now(), session.AccessExpiresAt),
		User:         newUserResponse(session.User),
	})
}

// Revoke clears the session of the user named in the path.
func (h *Auth) Revoke(c *fiber.Ctx) error {
	userName := c.Params("username")

	user, err := h.authService.Revoke(c.UserContext(), userName)
	if err != nil {
		h.logger.Info("Auth handler: revoke failed",
			"user_name", userName,
			"error", err.Error())
		if errors.Is(err, model.ErrPrincipalNotFound) {
			return response.Fail(c, fiber.StatusNotFound, response.MsgUserNotFoundByLogin)
		}
		return handleError(c, err)
	}

	h.logger.Info("Auth handler: session revoked",
		"user_name", userName)

	return response.OK(c, response.MsgRevokeSucceeded, revokeResponse{User: newUserResponse(user)})
}

// Register creates a user and logs them in.
func (h *Auth) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Fail(c, fiber.StatusBadRequest, response.MsgBadRequest)
	}

	session, err := h.authService.Register(c.UserContext(), model.RegisterParams{
		UserName:        req.UserName,
		Email:           req.Email,
		PhoneNumber:     req.PhoneNumber,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		h.logger.Info("Auth handler: registration failed",
			"user_name", req.UserName,
			"error", err.Error())
		return handleError(c, err)
	}

	return response.OK(c, response.MsgRegisterSucceeded, tokenResponse{
		AccessToken:  session.AccessToken,
		RefreshToken: session.RefreshToken,
		User:         newUserResponse(session.User),
	})
}

// CheckToken reports the claims of the request's own access token.
func (h *Auth) CheckToken(c *fiber.Ctx) error {
	claims, ok := h.contextManager.GetClaims(c)
	if !ok {
		return response.Fail(c, fiber.StatusUnauthorized, response.MsgUnauthorized)
	}

	return response.OK(c, response.MsgTokenValid, checkTokenResponse{
		IsAuthorized: true,
		User: checkTokenUser{
			UserID:     claims.UserID,
			UserName:   claims.UserName,
			Role:       claims.Role,
			Expiration: claims.ExpiresAt,
		},
	})
}

// Status answers 400 for anonymous requests.
func (h *Auth) Status(c *fiber.Ctx) error {
	claims, ok := h.contextManager.GetClaims(c)
	if !ok {
		return response.Fail(c, fiber.StatusBadRequest, response.MsgStatusUnauthorized)
	}

	return response.OK(c, response.MsgStatusAuthorized, statusResponse{
		ID:       claims.UserID,
		UserName: claims.UserName,
		Role:     claims.Role,
		Time:     h.now(),
	})
}

// validityDays rounds the remaining access token lifetime to whole days,
// never less than one.
func validityDays(now, expiresAt time.Time) int {
	days := int(math.Round(expiresAt.Sub(now).Hours() / 24))
	if days < 1 {
		return 1
	}
	return days
}
