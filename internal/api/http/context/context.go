// Package context stores the authenticated principal on a fiber request.
package context

import (
	"github.com/gofiber/fiber/v2"

	"github.com/dtroode/photogallery-server/internal/model"
)

// claimsKey is the fiber locals key holding verified access token claims.
const claimsKey = "auth_claims"

// Manager sets and reads verified claims on a request.
type Manager struct{}

// NewManager creates a new context manager.
func NewManager() *Manager {
	return &Manager{}
}

// SetClaims attaches verified claims to the request.
func (m *Manager) SetClaims(c *fiber.Ctx, claims model.Claims) {
	c.Locals(claimsKey, claims)
}

// GetClaims returns the claims attached by the authentication middleware.
func (m *Manager) GetClaims(c *fiber.Ctx) (model.Claims, bool) {
	claims, ok := c.Locals(claimsKey).(model.Claims)
	return claims, ok
}
