// Package password hashes user passwords with argon2id and encodes them in
// PHC string format.
package password

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/argon2"

	"github.com/dtroode/photogallery-server/internal/model"
)

// MinLength is the shortest accepted password, in bytes.
const MinLength = 6

const algorithmID = "argon2id"

var errInvalidHash = errors.New("invalid password hash")

var _ model.PasswordHasher = (*Argon2)(nil)

// Config contains argon2id cost parameters.
type Config struct {
	Time        uint32
	MemKiB      uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

// Argon2 implements model.PasswordHasher.
type Argon2 struct {
	cfg Config
}

// NewArgon2 creates a hasher with the given cost parameters.
func NewArgon2(cfg Config) (*Argon2, error) {
	if cfg.Time == 0 || cfg.MemKiB == 0 || cfg.Parallelism == 0 {
		return nil, errors.New("argon2 time, memory and parallelism must be positive")
	}
	if cfg.SaltLength < 8 || cfg.KeyLength < 16 {
		return nil, errors.New("argon2 salt or key length too small")
	}
	return &Argon2{cfg: cfg}, nil
}

// Hash returns the PHC encoding of password.
func (a *Argon2) Hash(password string) (string, error) {
	if len(password) < MinLength {
		return "", fmt.Errorf("%w: at least %d characters required", model.ErrInvalidPassword, MinLength)
	}

	salt := make([]byte, a.cfg.SaltLength)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}

	hash := argon2.IDKey([]byte(password), salt, a.cfg.Time, a.cfg.MemKiB, a.cfg.Parallelism, a.cfg.KeyLength)

	return fmt.Sprintf("$%s$v=%d$m=%d,t=%d,p=%d$%s$%s",
		algorithmID, argon2.Version, a.cfg.MemKiB, a.cfg.Time, a.cfg.Parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(hash),
	), nil
}

// Verify reports whether password matches the encoded hash.
func (a *Argon2) Verify(password, encoded string) (bool, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[1] != algorithmID {
		return false, errInvalidHash
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return false, errInvalidHash
	}

	var (
		memKiB, timeCost uint32
		parallelism      uint8
	)
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memKiB, &timeCost, &parallelism); err != nil {
		return false, errInvalidHash
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false, errInvalidHash
	}
	want, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(want) == 0 {
		return false, errInvalidHash
	}

	got := argon2.IDKey([]byte(password), salt, timeCost, memKiB, parallelism, uint32(len(want)))

	return subtle.ConstantTimeCompare(got, want) == 1, nil
}
