package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/photogallery-server/internal/mocks"
	"github.com/dtroode/photogallery-server/internal/model"
	"github.com/dtroode/photogallery-server/internal/repository/memory"
	"github.com/dtroode/photogallery-server/internal/testutil"
	"github.com/dtroode/photogallery-server/internal/token"
)

func testTokenConfig() TokenConfig {
	return TokenConfig{
		AccessTTL:       time.Hour,
		RefreshTTL:      24 * time.Hour,
		StoreTimeout:    time.Second,
		ConflictBackoff: time.Millisecond,
	}
}

func newTestTokenService(t *testing.T, users model.UserStore, store model.TokenStore) *TokenService {
	t.Helper()
	signer, err := token.NewJWT(token.Config{Secret: []byte("test-secret"), Issuer: "photogallery"})
	require.NoError(t, err)
	return NewTokenService(signer, token.NewRefreshGenerator(), store, users, testTokenConfig(), testutil.MakeNoopLogger())
}

func testUser() model.User {
	return model.User{ID: uuid.New(), UserName: "alice", Email: "alice@example.com", Roles: []string{"User"}}
}

func TestTokenService_IssueStoresRecord(t *testing.T) {
	ctx := context.Background()
	user := testUser()
	store := memory.NewTokenRecordRepository()
	svc := newTestTokenService(t, mocks.NewUserStore(t), store)

	session, err := svc.Issue(ctx, user)
	require.NoError(t, err)
	assert.NotEmpty(t, session.AccessToken)
	assert.NotEmpty(t, session.RefreshToken)
	assert.Equal(t, "user", session.User.Public().Role)
	assert.WithinDuration(t, time.Now().Add(time.Hour), session.AccessExpiresAt, time.Minute)

	rec, err := store.Get(ctx, user.ID)
	require.NoError(t, err)
	require.True(t, rec.Active())
	assert.Equal(t, session.RefreshToken, *rec.RefreshToken)
	assert.Equal(t, session.AccessToken, *rec.AccessToken)
	assert.Equal(t, session.RefreshExpiresAt, *rec.RefreshDeadline)
}

func TestTokenService_RefreshRotatesBothTokens(t *testing.T) {
	ctx := context.Background()
	user := testUser()
	users := mocks.NewUserStore(t)
	users.On("GetByID", mock.Anything, user.ID).Return(user, nil)
	store := memory.NewTokenRecordRepository()
	svc := newTestTokenService(t, users, store)

	issued, err := svc.Issue(ctx, user)
	require.NoError(t, err)

	refreshed, err := svc.Refresh(ctx, issued.AccessToken, issued.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, issued.AccessToken, refreshed.AccessToken)
	assert.NotEqual(t, issued.RefreshToken, refreshed.RefreshToken)
	assert.Equal(t, user.ID, refreshed.User.ID)

	rec, err := store.Get(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, refreshed.RefreshToken, *rec.RefreshToken)

	_, err = svc.Refresh(ctx, issued.AccessToken, issued.RefreshToken)
	require.ErrorIs(t, err, model.ErrRefreshTokenMismatch)

	_, err = svc.Refresh(ctx, refreshed.AccessToken, refreshed.RefreshToken)
	require.NoError(t, err)
}

func TestTokenService_RefreshAcceptsExpiredAccessToken(t *testing.T) {
	ctx := context.Background()
	user := testUser()
	users := mocks.NewUserStore(t)
	users.On("GetByID", mock.Anything, user.ID).Return(user, nil)
	svc := newTestTokenService(t, users, memory.NewTokenRecordRepository())

	svc.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	issued, err := svc.Issue(ctx, user)
	require.NoError(t, err)
	svc.now = time.Now

	_, err = svc.Introspect(ctx, issued.AccessToken)
	require.ErrorIs(t, err, model.ErrTokenExpired)

	_, err = svc.Refresh(ctx, issued.AccessToken, issued.RefreshToken)
	require.NoError(t, err)
}

func TestTokenService_RefreshTokenExpired(t *testing.T) {
	ctx := context.Background()
	user := testUser()
	users := mocks.NewUserStore(t)
	users.On("GetByID", mock.Anything, user.ID).Return(user, nil)
	svc := newTestTokenService(t, users, memory.NewTokenRecordRepository())

	issued, err := svc.Issue(ctx, user)
	require.NoError(t, err)

	svc.now = func() time.Time { return issued.RefreshExpiresAt }
	_, err = svc.Refresh(ctx, issued.AccessToken, issued.RefreshToken)
	require.ErrorIs(t, err, model.ErrRefreshTokenExpired)
}

func TestTokenService_RefreshForgedTokenSkipsStore(t *testing.T) {
	ctx := context.Background()
	// No expectations: any store or user lookup fails the test.
	users := mocks.NewUserStore(t)
	store := mocks.NewTokenStore(t)
	svc := newTestTokenService(t, users, store)

	other, err := token.NewJWT(token.Config{Secret: []byte("another-secret")})
	require.NoError(t, err)
	forged, err := other.Issue(testUser(), "admin", time.Now().Add(time.Hour))
	require.NoError(t, err)

	_, err = svc.Refresh(ctx, forged, "whatever")
	require.ErrorIs(t, err, model.ErrSignatureInvalid)

	_, err = svc.Refresh(ctx, "not-a-token", "whatever")
	require.ErrorIs(t, err, model.ErrMalformedToken)
}

func TestTokenService_RefreshUnknownPrincipal(t *testing.T) {
	ctx := context.Background()
	user := testUser()
	users := mocks.NewUserStore(t)
	users.On("GetByID", mock.Anything, user.ID).Return(model.User{}, model.ErrNotFound)
	svc := newTestTokenService(t, users, memory.NewTokenRecordRepository())

	issued, err := svc.Issue(ctx, user)
	require.NoError(t, err)

	_, err = svc.Refresh(ctx, issued.AccessToken, issued.RefreshToken)
	require.ErrorIs(t, err, model.ErrPrincipalNotFound)
}

func TestTokenService_RefreshWithoutSession(t *testing.T) {
	ctx := context.Background()
	user := testUser()
	users := mocks.NewUserStore(t)
	users.On("GetByID", mock.Anything, user.ID).Return(user, nil)
	store := memory.NewTokenRecordRepository()
	svc := newTestTokenService(t, users, store)

	issued, err := svc.Issue(ctx, user)
	require.NoError(t, err)

	fresh := newTestTokenService(t, users, memory.NewTokenRecordRepository())
	_, err = fresh.Refresh(ctx, issued.AccessToken, issued.RefreshToken)
	require.ErrorIs(t, err, model.ErrNoActiveSession)

	require.NoError(t, svc.Revoke(ctx, user.ID))
	_, err = svc.Refresh(ctx, issued.AccessToken, issued.RefreshToken)
	require.ErrorIs(t, err, model.ErrNoActiveSession)
}

func TestTokenService_IssueOverwritesPreviousSession(t *testing.T) {
	ctx := context.Background()
	user := testUser()
	users := mocks.NewUserStore(t)
	users.On("GetByID", mock.Anything, user.ID).Return(user, nil)
	svc := newTestTokenService(t, users, memory.NewTokenRecordRepository())

	first, err := svc.Issue(ctx, user)
	require.NoError(t, err)
	second, err := svc.Issue(ctx, user)
	require.NoError(t, err)

	_, err = svc.Refresh(ctx, first.AccessToken, first.RefreshToken)
	require.ErrorIs(t, err, model.ErrRefreshTokenMismatch)

	_, err = svc.Refresh(ctx, second.AccessToken, second.RefreshToken)
	require.NoError(t, err)
}

func TestTokenService_RevokeIsIdempotent(t *testing.T) {
	ctx := context.Background()
	user := testUser()
	store := memory.NewTokenRecordRepository()
	svc := newTestTokenService(t, mocks.NewUserStore(t), store)

	require.NoError(t, svc.Revoke(ctx, user.ID))

	_, err := svc.Issue(ctx, user)
	require.NoError(t, err)

	require.NoError(t, svc.Revoke(ctx, user.ID))
	first, err := store.Get(ctx, user.ID)
	require.NoError(t, err)

	require.NoError(t, svc.Revoke(ctx, user.ID))
	second, err := store.Get(ctx, user.ID)
	require.NoError(t, err)

	assert.False(t, first.Active())
	assert.False(t, second.Active())
	assert.Nil(t, second.AccessToken)
	assert.Nil(t, second.RefreshToken)
	assert.Nil(t, second.RefreshDeadline)
}

func TestTokenService_ConcurrentRefreshSingleWinner(t *testing.T) {
	ctx := context.Background()
	user := testUser()
	users := mocks.NewUserStore(t)
	users.On("GetByID", mock.Anything, user.ID).Return(user, nil)
	svc := newTestTokenService(t, users, memory.NewTokenRecordRepository())

	issued, err := svc.Issue(ctx, user)
	require.NoError(t, err)

	const workers = 16
	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		wins   int
		losers int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Refresh(ctx, issued.AccessToken, issued.RefreshToken)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				wins++
			case assert.ErrorIs(t, err, model.ErrRefreshTokenMismatch):
				losers++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, wins)
	assert.Equal(t, workers-1, losers)
	assert.Zero(t, svc.locks.Len())
}

func TestTokenService_RefreshRetriesConflictOnce(t *testing.T) {
	ctx := context.Background()
	user := testUser()
	refresh := "stored-refresh"
	deadline := time.Now().Add(time.Hour)
	record := model.TokenRecord{PrincipalID: user.ID, RefreshToken: &refresh, RefreshDeadline: &deadline}

	users := mocks.NewUserStore(t)
	users.On("GetByID", mock.Anything, user.ID).Return(user, nil)

	t.Run("second attempt succeeds", func(t *testing.T) {
		store := mocks.NewTokenStore(t)
		store.On("Get", mock.Anything, user.ID).Return(record, nil).Twice()
		store.On("Swap", mock.Anything, mock.Anything, refresh).Return(model.ErrPersistenceConflict).Once()
		store.On("Swap", mock.Anything, mock.Anything, refresh).Return(nil).Once()
		svc := newTestTokenService(t, users, store)

		access, err := svc.signer.Issue(user, user.PrimaryRole(), time.Now().Add(time.Hour))
		require.NoError(t, err)

		_, err = svc.Refresh(ctx, access, refresh)
		require.NoError(t, err)
	})

	t.Run("second conflict surfaces", func(t *testing.T) {
		store := mocks.NewTokenStore(t)
		store.On("Get", mock.Anything, user.ID).Return(record, nil).Twice()
		store.On("Swap", mock.Anything, mock.Anything, refresh).Return(model.ErrPersistenceConflict).Twice()
		svc := newTestTokenService(t, users, store)

		access, err := svc.signer.Issue(user, user.PrimaryRole(), time.Now().Add(time.Hour))
		require.NoError(t, err)

		_, err = svc.Refresh(ctx, access, refresh)
		require.ErrorIs(t, err, model.ErrPersistenceConflict)
	})
}

func TestTokenService_StoreTimeout(t *testing.T) {
	ctx := context.Background()
	store := mocks.NewTokenStore(t)
	store.On("Upsert", mock.Anything, mock.Anything).Return(func(ctx context.Context, _ model.TokenRecord) error {
		<-ctx.Done()
		return ctx.Err()
	})

	signer, err := token.NewJWT(token.Config{Secret: []byte("test-secret")})
	require.NoError(t, err)
	cfg := testTokenConfig()
	cfg.StoreTimeout = 20 * time.Millisecond
	svc := NewTokenService(signer, token.NewRefreshGenerator(), store, mocks.NewUserStore(t), cfg, testutil.MakeNoopLogger())

	_, err = svc.Issue(ctx, testUser())
	require.ErrorIs(t, err, model.ErrPersistenceUnavailable)
}

func TestTokenService_Introspect(t *testing.T) {
	ctx := context.Background()
	user := testUser()
	svc := newTestTokenService(t, mocks.NewUserStore(t), memory.NewTokenRecordRepository())

	session, err := svc.Issue(ctx, user)
	require.NoError(t, err)

	claims, err := svc.Introspect(ctx, session.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "alice", claims.UserName)
	assert.Equal(t, "User", claims.Role)

	_, err = svc.Introspect(ctx, "")
	require.ErrorIs(t, err, model.ErrUnauthorized)
	require.ErrorIs(t, err, model.ErrMalformedToken)
}

func TestNewTokenService_Defaults(t *testing.T) {
	svc := NewTokenService(nil, nil, nil, nil, TokenConfig{}, testutil.MakeNoopLogger())

	assert.Equal(t, DefaultTokenConfig(), svc.cfg)
}

func TestTokenService_IssueFailsWithoutWritingStore(t *testing.T) {
	ctx := context.Background()
	user := testUser()

	t.Run("signer error", func(t *testing.T) {
		signer := mocks.NewSigner(t)
		signer.On("Issue", user, "User", mock.AnythingOfType("time.Time")).Return("", errors.New("key unavailable"))
		store := mocks.NewTokenStore(t)

		svc := NewTokenService(signer, mocks.NewRefreshGenerator(t), store, mocks.NewUserStore(t), testTokenConfig(), testutil.MakeNoopLogger())
		_, err := svc.Issue(ctx, user)

		assert.ErrorContains(t, err, "failed to issue access token")
	})

	t.Run("generator error", func(t *testing.T) {
		signer := mocks.NewSigner(t)
		signer.On("Issue", user, "User", mock.AnythingOfType("time.Time")).Return("access", nil)
		generator := mocks.NewRefreshGenerator(t)
		generator.On("Generate").Return("", errors.New("entropy exhausted"))
		store := mocks.NewTokenStore(t)

		svc := NewTokenService(signer, generator, store, mocks.NewUserStore(t), testTokenConfig(), testutil.MakeNoopLogger())
		_, err := svc.Issue(ctx, user)

		assert.ErrorContains(t, err, "failed to generate refresh token")
	})
}

func TestTokenService_RefreshPropagatesSignerError(t *testing.T) {
	signer := mocks.NewSigner(t)
	signer.On("VerifyForRefresh", "tampered").Return(model.Claims{}, model.ErrSignatureInvalid)

	svc := NewTokenService(signer, mocks.NewRefreshGenerator(t), mocks.NewTokenStore(t), mocks.NewUserStore(t), testTokenConfig(), testutil.MakeNoopLogger())
	_, err := svc.Refresh(context.Background(), "tampered", "refresh")

	assert.ErrorIs(t, err, model.ErrSignatureInvalid)
}
