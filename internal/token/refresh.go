package token

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"

	"github.com/dtroode/photogallery-server/internal/model"
)

const refreshTokenBytes = 64

var _ model.RefreshGenerator = (*RefreshGenerator)(nil)

// RefreshGenerator produces opaque refresh tokens: 64 random bytes, base64
// encoded. The value carries no claims and is only meaningful server-side.
type RefreshGenerator struct {
	reader io.Reader
}

// NewRefreshGenerator creates a generator reading from crypto/rand.
func NewRefreshGenerator() *RefreshGenerator {
	return &RefreshGenerator{reader: rand.Reader}
}

// Generate returns a new refresh token.
func (g *RefreshGenerator) Generate() (string, error) {
	buf := make([]byte, refreshTokenBytes)
	if _, err := io.ReadFull(g.reader, buf); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	return base64.StdEncoding.EncodeToString(buf), nil
}
