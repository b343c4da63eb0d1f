// Package auth validates bearer tokens issued by the external identity
// provider. The provider owns credential verification and token issuance;
// this package only checks signatures and standard claims, then exposes the
// authenticated user's identity.
package auth

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// Claims are the token claims this service relies on
type Claims struct {
	UserID string `json:"sub"`
	Email  string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// JWTConfig configures token validation
type JWTConfig struct {
	SecretKey string
	Issuer    string
}

// JWTValidator validates HS256 bearer tokens
type JWTValidator struct {
	secretKey []byte
	issuer    string
}

// NewJWTValidator creates a validator from configuration
func NewJWTValidator(cfg JWTConfig) (*JWTValidator, error) {
	if cfg.SecretKey == "" {
		return nil, fmt.Errorf("jwt secret key is required")
	}

	return &JWTValidator{
		secretKey: []byte(cfg.SecretKey),
		issuer:    cfg.Issuer,
	}, nil
}

// Validate parses and verifies a token string, returning its claims
func (v *JWTValidator) Validate(tokenString string) (*Claims, error) {
	claims := &Claims{}

	parserOptions := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	}
	if v.issuer != "" {
		parserOptions = append(parserOptions, jwt.WithIssuer(v.issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return v.secretKey, nil
	}, parserOptions...)
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	if claims.UserID == "" {
		return nil, fmt.Errorf("token missing subject claim")
	}

	return claims, nil
}
