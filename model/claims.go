package model

import "github.com/golang-jwt/jwt/v5"

// Token kinds stored in the "type" claim. A refresh token must never be
// accepted where an access token is required, and vice versa.
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

type AppClaims struct {
	UserID    int    `json:"user_id"`
	TokenType string `json:"type"`
	jwt.RegisteredClaims
}
