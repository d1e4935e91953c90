package middleware

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/dtroode/photogallery-server/internal/api/http/response"
	"github.com/dtroode/photogallery-server/internal/logger"
	"github.com/dtroode/photogallery-server/internal/model"
)

// TokenService verifies access tokens.
type TokenService interface {
	Introspect(ctx context.Context, accessToken string) (model.Claims, error)
}

// ContextManager attaches verified claims to a request.
type ContextManager interface {
	SetClaims(c *fiber.Ctx, claims model.Claims)
}

// Authenticate validates bearer tokens and stores their claims on the request.
type Authenticate struct {
	tokenService   TokenService
	contextManager ContextManager
	logger         *logger.Logger
}

// NewAuthenticate creates a new Authenticate middleware instance.
func NewAuthenticate(tokenService TokenService, contextManager ContextManager, logger *logger.Logger) *Authenticate {
	return &Authenticate{tokenService: tokenService, contextManager: contextManager, logger: logger}
}

// Required rejects requests without a valid, unexpired access token.
func (m *Authenticate) Required(c *fiber.Ctx) error {
	if !m.authenticate(c) {
		return response.Fail(c, fiber.StatusUnauthorized, response.MsgUnauthorized)
	}
	return c.Next()
}

// Optional attaches claims when a valid token is present and lets every
// request through.
func (m *Authenticate) Optional(c *fiber.Ctx) error {
	m.authenticate(c)
	return c.Next()
}

func (m *Authenticate) authenticate(c *fiber.Ctx) bool {
	tokenString := bearerToken(c.Get(fiber.HeaderAuthorization))
	if tokenString == "" {
		return false
	}

	claims, err := m.tokenService.Introspect(c.UserContext(), tokenString)
	if err != nil {
		m.logger.Debug("Authenticate middleware: token rejected",
			"path", c.Path(),
			"error", err.Error())
		return false
	}

	m.contextManager.SetClaims(c, claims)
	return true
}

func bearerToken(header string) string {
	const prefix = "bearer "
	if len(header) < len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}
