package auth

import (
	"testing"
	"time"

	"github.com/example/taskboard/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{
		JWTSecret:  "test-secret-key-0123456789",
		JWTIssuer:  "test-issuer",
		AccessTTL:  15 * time.Minute,
		RefreshTTL: 7 * 24 * time.Hour,
		BcryptCost: 4,
	}
}

func TestTokenIssuer_AccessRoundTrip(t *testing.T) {
	issuer := NewTokenIssuer(testAuthConfig())

	token, err := issuer.Access("user-123", "test@example.com", "Test User")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := issuer.VerifyAccess(token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.UserID)
	assert.Equal(t, "test@example.com", claims.Email)
	assert.Equal(t, "Test User", claims.Name)
	assert.Equal(t, tokenTypeAccess, claims.TokenType)
	assert.Equal(t, "test-issuer", claims.Issuer)
	assert.Equal(t, int64(900), issuer.AccessTTLSeconds())
}

func TestTokenIssuer_TokenTypesAreNotInterchangeable(t *testing.T) {
	issuer := NewTokenIssuer(testAuthConfig())

	access, err := issuer.Access("u", "u@example.com", "U")
	require.NoError(t, err)
	refresh, err := issuer.Refresh("u", "u@example.com", "U")
	require.NoError(t, err)

	_, err = issuer.VerifyRefresh(access)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = issuer.VerifyAccess(refresh)
	assert.ErrorIs(t, err, ErrInvalidToken)

	claims, err := issuer.VerifyRefresh(refresh)
	require.NoError(t, err)
	assert.Equal(t, tokenTypeRefresh, claims.TokenType)
}

func TestTokenIssuer_Expired(t *testing.T) {
	cfg := testAuthConfig()
	cfg.AccessTTL = -time.Minute
	issuer := NewTokenIssuer(cfg)

	token, err := issuer.Access("u", "u@example.com", "U")
	require.NoError(t, err)

	_, err = issuer.VerifyAccess(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestTokenIssuer_Rejects(t *testing.T) {
	issuer := NewTokenIssuer(testAuthConfig())

	otherCfg := testAuthConfig()
	otherCfg.JWTSecret = "another-secret-key-9876543210"
	forged, err := NewTokenIssuer(otherCfg).Access("u", "u@example.com", "U")
	require.NoError(t, err)

	otherIssuerCfg := testAuthConfig()
	otherIssuerCfg.JWTIssuer = "someone-else"
	foreign, err := NewTokenIssuer(otherIssuerCfg).Access("u", "u@example.com", "U")
	require.NoError(t, err)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"user_id": "u"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{name: "empty", token: ""},
		{name: "garbage", token: "not.a.jwt"},
		{name: "wrong secret", token: forged},
		{name: "wrong issuer", token: foreign},
		{name: "alg none", token: unsigned},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := issuer.VerifyAccess(tt.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}
