package token

import (
	"crypto/rand"
	"crypto/rsa"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/photogallery-server/internal/model"
)

func newTestJWT(t *testing.T, secret string) *JWT {
	t.Helper()
	j, err := NewJWT(Config{Secret: []byte(secret), Issuer: "photogallery", Audience: "clients"})
	require.NoError(t, err)
	return j
}

func testUser() model.User {
	return model.User{ID: uuid.New(), UserName: "alice", Roles: []string{"User"}}
}

func TestNewJWT_EmptySecret(t *testing.T) {
	_, err := NewJWT(Config{})
	require.Error(t, err)
}

func TestJWT_IssueVerifyStrict_Roundtrip(t *testing.T) {
	j := newTestJWT(t, "secret")
	u := testUser()
	expiry := time.Now().Add(time.Hour)

	signed, err := j.Issue(u, "User", expiry)
	require.NoError(t, err)

	claims, err := j.VerifyStrict(signed)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.UserID)
	assert.Equal(t, "alice", claims.UserName)
	assert.Equal(t, "User", claims.Role)
	assert.NotEmpty(t, claims.TokenID)
	assert.WithinDuration(t, expiry, claims.ExpiresAt, time.Second)
}

func TestJWT_Issue_FreshTokenIDPerCall(t *testing.T) {
	j := newTestJWT(t, "secret")
	u := testUser()
	expiry := time.Now().Add(time.Hour)

	first, err := j.Issue(u, "User", expiry)
	require.NoError(t, err)
	second, err := j.Issue(u, "User", expiry)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	c1, err := j.VerifyStrict(first)
	require.NoError(t, err)
	c2, err := j.VerifyStrict(second)
	require.NoError(t, err)
	assert.NotEqual(t, c1.TokenID, c2.TokenID)
}

func TestJWT_ExpiredToken(t *testing.T) {
	j := newTestJWT(t, "secret")
	u := testUser()

	signed, err := j.Issue(u, "User", time.Now().Add(-time.Hour))
	require.NoError(t, err)

	_, err = j.VerifyStrict(signed)
	require.ErrorIs(t, err, model.ErrTokenExpired)

	claims, err := j.VerifyForRefresh(signed)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.UserID)
}

func TestJWT_InvalidSignature(t *testing.T) {
	issuer := newTestJWT(t, "secret")
	verifier := newTestJWT(t, "other-secret")
	u := testUser()

	fresh, err := issuer.Issue(u, "User", time.Now().Add(time.Hour))
	require.NoError(t, err)
	expired, err := issuer.Issue(u, "User", time.Now().Add(-time.Hour))
	require.NoError(t, err)

	for _, signed := range []string{fresh, expired} {
		_, err = verifier.VerifyStrict(signed)
		assert.ErrorIs(t, err, model.ErrSignatureInvalid)

		_, err = verifier.VerifyForRefresh(signed)
		assert.ErrorIs(t, err, model.ErrSignatureInvalid)
	}
}

func TestJWT_TamperedPayload(t *testing.T) {
	j := newTestJWT(t, "secret")
	victim := testUser()
	attacker := testUser()

	signed, err := j.Issue(attacker, "User", time.Now().Add(time.Hour))
	require.NoError(t, err)
	forged, err := j.Issue(victim, "admin", time.Now().Add(time.Hour))
	require.NoError(t, err)

	// Splice the victim's payload onto the attacker's signature.
	a := strings.Split(signed, ".")
	f := strings.Split(forged, ".")
	spliced := strings.Join([]string{a[0], f[1], a[2]}, ".")

	_, err = j.VerifyForRefresh(spliced)
	require.ErrorIs(t, err, model.ErrSignatureInvalid)
}

func TestJWT_AlgorithmPinning(t *testing.T) {
	j := newTestJWT(t, "secret")
	u := testUser()
	payload := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    "photogallery",
			Audience:  jwt.ClaimStrings{"clients"},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		UserID: u.ID,
		Name:   u.UserName,
		Role:   "admin",
	}

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, payload).SignedString([]byte("secret"))
	require.NoError(t, err)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, payload).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	rs256, err := jwt.NewWithClaims(jwt.SigningMethodRS256, payload).SignedString(key)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{name: "HS512 with the same secret", token: hs512},
		{name: "alg none", token: none},
		{name: "RS256", token: rs256},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := j.VerifyStrict(tt.token)
			assert.ErrorIs(t, err, model.ErrAlgorithmMismatch)

			_, err = j.VerifyForRefresh(tt.token)
			assert.ErrorIs(t, err, model.ErrAlgorithmMismatch)
		})
	}
}

func TestJWT_Malformed(t *testing.T) {
	j := newTestJWT(t, "secret")

	for _, input := range []string{"", "not.a.jwt", "abc"} {
		_, err := j.VerifyForRefresh(input)
		assert.ErrorIs(t, err, model.ErrMalformedToken, input)
	}
}

func TestJWT_AudienceEnforcedOnlyWhenStrict(t *testing.T) {
	issuer, err := NewJWT(Config{Secret: []byte("secret"), Issuer: "photogallery", Audience: "someone-else"})
	require.NoError(t, err)
	verifier := newTestJWT(t, "secret")

	signed, err := issuer.Issue(testUser(), "User", time.Now().Add(time.Hour))
	require.NoError(t, err)

	_, err = verifier.VerifyStrict(signed)
	require.ErrorIs(t, err, model.ErrClaimsInvalid)

	_, err = verifier.VerifyForRefresh(signed)
	require.NoError(t, err)
}
