package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key"

func signToken(t *testing.T, method jwt.SigningMethod, secret string, claims jwt.Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func TestJWTValidator_Validate_Success(t *testing.T) {
	validator, err := NewJWTValidator(JWTConfig{SecretKey: testSecret, Issuer: "spendtrack-backend"})
	require.NoError(t, err)

	tokenString := signToken(t, jwt.SigningMethodHS256, testSecret, jwt.MapClaims{
		"sub":   "user-123",
		"email": "user@example.com",
		"iss":   "spendtrack-backend",
		"exp":   time.Now().Add(time.Hour).Unix(),
	})

	claims, err := validator.Validate(tokenString)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.UserID)
	assert.Equal(t, "user@example.com", claims.Email)
}

func TestJWTValidator_Validate_RejectsWrongSecret(t *testing.T) {
	validator, err := NewJWTValidator(JWTConfig{SecretKey: testSecret})
	require.NoError(t, err)

	tokenString := signToken(t, jwt.SigningMethodHS256, "other-secret", jwt.MapClaims{
		"sub": "user-123",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	_, err = validator.Validate(tokenString)
	assert.Error(t, err)
}

func TestJWTValidator_Validate_RejectsWrongIssuer(t *testing.T) {
	validator, err := NewJWTValidator(JWTConfig{SecretKey: testSecret, Issuer: "spendtrack-backend"})
	require.NoError(t, err)

	tokenString := signToken(t, jwt.SigningMethodHS256, testSecret, jwt.MapClaims{
		"sub": "user-123",
		"iss": "someone-else",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	_, err = validator.Validate(tokenString)
	assert.Error(t, err)
}

func TestJWTValidator_Validate_RejectsExpiredToken(t *testing.T) {
	validator, err := NewJWTValidator(JWTConfig{SecretKey: testSecret})
	require.NoError(t, err)

	tokenString := signToken(t, jwt.SigningMethodHS256, testSecret, jwt.MapClaims{
		"sub": "user-123",
		"exp": time.Now().Add(-time.Minute).Unix(),
	})

	_, err = validator.Validate(tokenString)
	assert.Error(t, err)
}

func TestJWTValidator_Validate_RejectsUnexpectedSigningMethod(t *testing.T) {
	validator, err := NewJWTValidator(JWTConfig{SecretKey: testSecret})
	require.NoError(t, err)

	tokenString := signToken(t, jwt.SigningMethodHS512, testSecret, jwt.MapClaims{
		"sub": "user-123",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	_, err = validator.Validate(tokenString)
	assert.Error(t, err)
}

func TestJWTValidator_Validate_RejectsMissingSubject(t *testing.T) {
	validator, err := NewJWTValidator(JWTConfig{SecretKey: testSecret})
	require.NoError(t, err)

	tokenString := signToken(t, jwt.SigningMethodHS256, testSecret, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	_, err = validator.Validate(tokenString)
	assert.Error(t, err)
}

func TestNewJWTValidator_RequiresSecret(t *testing.T) {
	_, err := NewJWTValidator(JWTConfig{})
	assert.Error(t, err)
}
