package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJWTService_AccessTokenRoundTrip(t *testing.T) {
	s := NewJWTService("test-secret")

	token, err := s.GenerateAccessToken("user-1", "test@example.com")
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := s.ValidateToken(token)
	assert.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "test@example.com", claims.Email)
	assert.Empty(t, claims.ID)
}

func TestJWTService_RefreshTokenCarriesID(t *testing.T) {
	s := NewJWTService("test-secret")

	tokenID, token, err := s.GenerateRefreshToken("user-1", "test@example.com")
	assert.NoError(t, err)
	assert.NotEmpty(t, tokenID)

	extracted, err := s.ExtractTokenID(token)
	assert.NoError(t, err)
	assert.Equal(t, tokenID, extracted)
}

func TestJWTService_RejectsWrongSecret(t *testing.T) {
	token, err := NewJWTService("secret-a").GenerateAccessToken("user-1", "test@example.com")
	assert.NoError(t, err)

	_, err = NewJWTService("secret-b").ValidateToken(token)
	assert.Error(t, err)
}

func TestJWTService_ExtractTokenIDRejectsAccessToken(t *testing.T) {
	s := NewJWTService("test-secret")

	token, err := s.GenerateAccessToken("user-1", "test@example.com")
	assert.NoError(t, err)

	// Access tokens carry no JTI and cannot stand in for refresh tokens.
	_, err = s.ExtractTokenID(token)
	assert.Error(t, err)
}
