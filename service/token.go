// file: service/token.go

package service

import (
	"errors"
	"fmt"
	"med-transcribe-api/logger"
	"med-transcribe-api/model"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
)

var (
	// ErrExpiredToken is a normal, expected condition: the token was
	// well-formed and correctly signed but its lifetime has passed.
	ErrExpiredToken = errors.New("token has expired")
	// ErrInvalidToken covers bad signatures, wrong algorithms and token
	// kind mismatches, all of which suggest tampering or misuse.
	ErrInvalidToken = errors.New("invalid token")
)

// TokenService issues and verifies signed access and refresh tokens.
// The signing key and algorithm are fixed for the process lifetime;
// rotating them invalidates all outstanding tokens.
type TokenService struct {
	secret     []byte
	method     jwt.SigningMethod
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewTokenService(secret, algorithm string, accessTTL, refreshTTL time.Duration) (*TokenService, error) {
	if secret == "" {
		return nil, errors.New("jwt secret key is not configured")
	}

	method := jwt.GetSigningMethod(algorithm)
	if method == nil {
		return nil, fmt.Errorf("unsupported jwt algorithm: %q", algorithm)
	}
	if _, ok := method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("jwt algorithm %q requires an asymmetric key, only HMAC variants are supported", algorithm)
	}

	return &TokenService{
		secret:     []byte(secret),
		method:     method,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}, nil
}

// AccessTTL reports the configured access token lifetime.
func (s *TokenService) AccessTTL() time.Duration {
	return s.accessTTL
}

// IssueAccessToken signs a short-lived access token for the user.
func (s *TokenService) IssueAccessToken(user *model.User) (string, error) {
	return s.issue(user, model.TokenTypeAccess, s.accessTTL)
}

// IssueRefreshToken signs a long-lived refresh token for the user.
func (s *TokenService) IssueRefreshToken(user *model.User) (string, error) {
	return s.issue(user, model.TokenTypeRefresh, s.refreshTTL)
}

func (s *TokenService) issue(user *model.User, kind string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &model.AppClaims{
		UserID:    user.ID,
		TokenType: kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(s.method, claims)
	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		logger.Log.WithError(err).WithField("subject", user.Username).Error("Failed to sign JWT")
		return "", fmt.Errorf("failed to sign token string: %w", err)
	}

	return tokenString, nil
}

// VerifyToken parses and validates a token, requiring the given kind.
// It returns ErrExpiredToken for lapsed tokens and ErrInvalidToken for
// anything else that fails validation, including kind confusion.
func (s *TokenService) VerifyToken(tokenString, expectedKind string) (*model.AppClaims, error) {
	claims := &model.AppClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{s.method.Alg()}))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		logger.Log.WithError(err).Warn("Token validation failed")
		return nil, ErrInvalidToken
	}

	if !token.Valid || claims.TokenType != expectedKind {
		logger.Log.WithFields(logrus.Fields{
			"expected_type": expectedKind,
			"actual_type":   claims.TokenType,
		}).Warn("Token type mismatch")
		return nil, ErrInvalidToken
	}

	return claims, nil
}
