package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/dtroode/photogallery-server/internal/model"
)

var _ model.Signer = (*JWT)(nil)

// Config contains signing parameters. It is copied on construction.
type Config struct {
	Secret   []byte
	Issuer   string
	Audience string
}

// Claims represents the JWT payload of an access token.
type Claims struct {
	jwt.RegisteredClaims
	UserID uuid.UUID `json:"user_id"`
	Name   string    `json:"name"`
	Role   string    `json:"role"`
}

// JWT implements model.Signer with HMAC-SHA256. Tokens signed with any other
// algorithm are rejected regardless of their payload.
type JWT struct {
	cfg    Config
	method jwt.SigningMethod
}

// NewJWT creates a new signer with the provided configuration.
func NewJWT(cfg Config) (*JWT, error) {
	if len(cfg.Secret) == 0 {
		return nil, errors.New("jwt secret must not be empty")
	}

	secret := make([]byte, len(cfg.Secret))
	copy(secret, cfg.Secret)
	cfg.Secret = secret

	return &JWT{cfg: cfg, method: jwt.SigningMethodHS256}, nil
}

// Issue creates a signed access token for user that expires at expiry.
// Every token gets a fresh jti.
func (j *JWT) Issue(user model.User, role string, expiry time.Time) (string, error) {
	now := time.Now()
	registered := jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Subject:   user.ID.String(),
		Issuer:    j.cfg.Issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiry),
	}
	if j.cfg.Audience != "" {
		registered.Audience = jwt.ClaimStrings{j.cfg.Audience}
	}

	token := jwt.NewWithClaims(j.method, Claims{
		RegisteredClaims: registered,
		UserID:           user.ID,
		Name:             user.UserName,
		Role:             role,
	})

	tokenString, err := token.SignedString(j.cfg.Secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}

	return tokenString, nil
}

// VerifyStrict validates signature, algorithm, expiry, issuer and audience.
func (j *JWT) VerifyStrict(tokenString string) (model.Claims, error) {
	options := []jwt.ParserOption{jwt.WithExpirationRequired()}
	if j.cfg.Issuer != "" {
		options = append(options, jwt.WithIssuer(j.cfg.Issuer))
	}
	if j.cfg.Audience != "" {
		options = append(options, jwt.WithAudience(j.cfg.Audience))
	}

	return j.verify(tokenString, options...)
}

// VerifyForRefresh validates signature and algorithm only. An access token
// that expired is still accepted so it can be exchanged for a new pair.
func (j *JWT) VerifyForRefresh(tokenString string) (model.Claims, error) {
	return j.verify(tokenString, jwt.WithoutClaimsValidation())
}

func (j *JWT) verify(tokenString string, options ...jwt.ParserOption) (model.Claims, error) {
	claims := &Claims{}
	_, err := jwt.NewParser(options...).ParseWithClaims(tokenString, claims, j.keyFunc)
	if err != nil {
		return model.Claims{}, classify(err)
	}
	if claims.UserID == uuid.Nil {
		return model.Claims{}, fmt.Errorf("%w: missing user id", model.ErrMalformedToken)
	}

	out := model.Claims{
		UserID:   claims.UserID,
		UserName: claims.Name,
		Role:     claims.Role,
		TokenID:  claims.ID,
	}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}

	return out, nil
}

func (j *JWT) keyFunc(t *jwt.Token) (interface{}, error) {
	if t.Method == nil || t.Method.Alg() != j.method.Alg() {
		return nil, fmt.Errorf("%w: %v", model.ErrAlgorithmMismatch, t.Header["alg"])
	}
	return j.cfg.Secret, nil
}

func classify(err error) error {
	switch {
	case errors.Is(err, model.ErrAlgorithmMismatch):
		return err
	case errors.Is(err, jwt.ErrTokenMalformed):
		return fmt.Errorf("%w: %w", model.ErrMalformedToken, err)
	case errors.Is(err, jwt.ErrTokenUnverifiable):
		// alg names golang-jwt does not know never reach keyFunc.
		return fmt.Errorf("%w: %w", model.ErrAlgorithmMismatch, err)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return fmt.Errorf("%w: %w", model.ErrSignatureInvalid, err)
	case errors.Is(err, jwt.ErrTokenExpired):
		return fmt.Errorf("%w: %w", model.ErrTokenExpired, err)
	default:
		return fmt.Errorf("%w: %w", model.ErrClaimsInvalid, err)
	}
}
