// file: service/token_test.go

package service

import (
	"med-transcribe-api/model"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

const testSecret = "test-secret-key"

func newTestTokenService(t *testing.T, accessTTL, refreshTTL time.Duration) *TokenService {
	svc, err := NewTokenService(testSecret, "HS256", accessTTL, refreshTTL)
	assert.NoError(t, err)
	return svc
}

func testUser() *model.User {
	return &model.User{ID: 42, Username: "testuser", Email: "test@example.com", IsActive: true}
}

func TestNewTokenService_Config(t *testing.T) {
	_, err := NewTokenService("", "HS256", time.Minute, time.Hour)
	assert.Error(t, err, "empty secret must be rejected")

	_, err = NewTokenService(testSecret, "none", time.Minute, time.Hour)
	assert.Error(t, err, "unknown algorithm must be rejected")

	_, err = NewTokenService(testSecret, "RS256", time.Minute, time.Hour)
	assert.Error(t, err, "asymmetric algorithms are not supported with a shared secret")

	_, err = NewTokenService(testSecret, "HS512", time.Minute, time.Hour)
	assert.NoError(t, err)
}

func TestTokenService_AccessTokenRoundTrip(t *testing.T) {
	svc := newTestTokenService(t, 30*time.Minute, 7*24*time.Hour)
	user := testUser()

	tokenString, err := svc.IssueAccessToken(user)
	assert.NoError(t, err)
	assert.NotEmpty(t, tokenString)

	claims, err := svc.VerifyToken(tokenString, model.TokenTypeAccess)
	assert.NoError(t, err)
	assert.Equal(t, "testuser", claims.Subject)
	assert.Equal(t, 42, claims.UserID)
	assert.Equal(t, model.TokenTypeAccess, claims.TokenType)
}

func TestTokenService_ExpiredToken(t *testing.T) {
	// A negative TTL produces an already-expired token.
	svc := newTestTokenService(t, -1*time.Minute, 7*24*time.Hour)

	tokenString, err := svc.IssueAccessToken(testUser())
	assert.NoError(t, err)

	claims, err := svc.VerifyToken(tokenString, model.TokenTypeAccess)
	assert.Nil(t, claims)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestTokenService_KindConfusion(t *testing.T) {
	svc := newTestTokenService(t, 30*time.Minute, 7*24*time.Hour)
	user := testUser()

	refreshToken, err := svc.IssueRefreshToken(user)
	assert.NoError(t, err)
	accessToken, err := svc.IssueAccessToken(user)
	assert.NoError(t, err)

	// A refresh token presented where an access token is expected.
	claims, err := svc.VerifyToken(refreshToken, model.TokenTypeAccess)
	assert.Nil(t, claims)
	assert.ErrorIs(t, err, ErrInvalidToken)

	// And vice versa.
	claims, err = svc.VerifyToken(accessToken, model.TokenTypeRefresh)
	assert.Nil(t, claims)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenService_TamperedSignature(t *testing.T) {
	svc := newTestTokenService(t, 30*time.Minute, 7*24*time.Hour)

	tokenString, err := svc.IssueAccessToken(testUser())
	assert.NoError(t, err)

	tampered := tokenString[:len(tokenString)-2] + "xx"
	claims, err := svc.VerifyToken(tampered, model.TokenTypeAccess)
	assert.Nil(t, claims)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenService_WrongKey(t *testing.T) {
	issuer := newTestTokenService(t, 30*time.Minute, 7*24*time.Hour)
	verifier, err := NewTokenService("a-different-secret", "HS256", 30*time.Minute, 7*24*time.Hour)
	assert.NoError(t, err)

	tokenString, err := issuer.IssueAccessToken(testUser())
	assert.NoError(t, err)

	claims, err := verifier.VerifyToken(tokenString, model.TokenTypeAccess)
	assert.Nil(t, claims)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenService_GarbageInput(t *testing.T) {
	svc := newTestTokenService(t, 30*time.Minute, 7*24*time.Hour)

	claims, err := svc.VerifyToken("not-a-jwt", model.TokenTypeAccess)
	assert.Nil(t, claims)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
