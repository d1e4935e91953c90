package model

import "errors"

// ErrNotFound is returned by stores when the requested row does not exist.
var ErrNotFound = errors.New("not found")

// Identity errors.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrPrincipalNotFound  = errors.New("principal not found")
	ErrPrincipalExists    = errors.New("principal already exists")
	ErrPasswordMismatch   = errors.New("password and confirmation do not match")
	ErrInvalidPassword    = errors.New("password does not satisfy policy")
)

// Token errors.
var (
	ErrSignatureInvalid     = errors.New("token signature invalid")
	ErrAlgorithmMismatch    = errors.New("token signing algorithm mismatch")
	ErrMalformedToken       = errors.New("token malformed")
	ErrTokenExpired         = errors.New("token expired")
	ErrClaimsInvalid        = errors.New("token claims invalid")
	ErrUnauthorized         = errors.New("unauthorized")
	ErrRefreshTokenMismatch = errors.New("refresh token mismatch")
	ErrRefreshTokenExpired  = errors.New("refresh token expired")
	ErrNoActiveSession      = errors.New("no active session")
)

// Persistence errors. ErrPersistenceUnavailable is retryable by the caller.
var (
	ErrPersistenceConflict    = errors.New("concurrent modification of token record")
	ErrPersistenceUnavailable = errors.New("persistence unavailable")
)

// ErrForbidden is returned when the requester may not act on a resource.
var ErrForbidden = errors.New("forbidden")

// ErrInvalidPhoto is returned for uploads that are not a supported image or
// lack required metadata.
var ErrInvalidPhoto = errors.New("invalid photo")

// ErrInvalidInput is returned for requests missing required fields.
var ErrInvalidInput = errors.New("invalid input")
