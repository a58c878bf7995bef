package utils

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// TokenClaims binds the subject email, the role at issuance time, and
// a fragment of the current password hash so every outstanding token
// dies when the password changes.
type TokenClaims struct {
	Role         string `json:"role"`
	PwdFragment  string `json:"pwd"`
	TokenType    string `json:"type"`
	jwt.RegisteredClaims
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

func createToken(config JWTConfig, email, passwordHash, role, tokenType string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := TokenClaims{
		Role:        role,
		PwdFragment: HashFragment(passwordHash),
		TokenType:   tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(config.Secret))
}

func CreateAccessToken(config JWTConfig, email, passwordHash, role string) (string, error) {
	ttl := time.Duration(config.AccessExpiryMins) * time.Minute
	return createToken(config, email, passwordHash, role, TokenTypeAccess, ttl)
}

func CreateRefreshToken(config JWTConfig, email, passwordHash, role string) (string, error) {
	ttl := time.Duration(config.RefreshExpiryDays) * 24 * time.Hour
	return createToken(config, email, passwordHash, role, TokenTypeRefresh, ttl)
}

func CreateTokenPair(config JWTConfig, email, passwordHash, role string) (*TokenPair, error) {
	accessToken, err := CreateAccessToken(config, email, passwordHash, role)
	if err != nil {
		return nil, fmt.Errorf("create access token: %w", err)
	}

	refreshToken, err := CreateRefreshToken(config, email, passwordHash, role)
	if err != nil {
		return nil, fmt.Errorf("create refresh token: %w", err)
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "bearer",
	}, nil
}

// DecodeToken verifies the signature and expiry and returns the claims.
func DecodeToken(config JWTConfig, tokenString string) (*TokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &TokenClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(config.Secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*TokenClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	return claims, nil
}
