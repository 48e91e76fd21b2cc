package auth

import (
	"errors"
	"time"

	"github.com/example/taskboard/config"
	"github.com/golang-jwt/jwt/v5"
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

var (
	// ErrInvalidToken is returned when the token is malformed, forged or of the wrong type.
	ErrInvalidToken = errors.New("invalid token")
	// ErrExpiredToken is returned when the token has expired.
	ErrExpiredToken = errors.New("token has expired")
)

// TokenClaims are the custom claims carried by taskboard tokens.
type TokenClaims struct {
	UserID    string `json:"user_id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies HS256 tokens.
type TokenIssuer struct {
	secret     []byte
	issuer     string
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewTokenIssuer creates a TokenIssuer from the auth configuration.
func NewTokenIssuer(cfg config.AuthConfig) *TokenIssuer {
	return &TokenIssuer{
		secret:     []byte(cfg.JWTSecret),
		issuer:     cfg.JWTIssuer,
		accessTTL:  cfg.AccessTTL,
		refreshTTL: cfg.RefreshTTL,
	}
}

// Access signs a short-lived access token.
func (ti *TokenIssuer) Access(userID, email, name string) (string, error) {
	return ti.sign(userID, email, name, tokenTypeAccess, ti.accessTTL)
}

// Refresh signs a long-lived refresh token.
func (ti *TokenIssuer) Refresh(userID, email, name string) (string, error) {
	return ti.sign(userID, email, name, tokenTypeRefresh, ti.refreshTTL)
}

func (ti *TokenIssuer) sign(userID, email, name, tokenType string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := TokenClaims{
		UserID:    userID,
		Email:     email,
		Name:      name,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    ti.issuer,
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(ti.secret)
}

// VerifyAccess parses an access token. Refresh tokens are rejected.
func (ti *TokenIssuer) VerifyAccess(token string) (*TokenClaims, error) {
	return ti.verify(token, tokenTypeAccess)
}

// VerifyRefresh parses a refresh token. Access tokens are rejected.
func (ti *TokenIssuer) VerifyRefresh(token string) (*TokenClaims, error) {
	return ti.verify(token, tokenTypeRefresh)
}

func (ti *TokenIssuer) verify(tokenString, wantType string) (*TokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &TokenClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return ti.secret, nil
	}, jwt.WithIssuer(ti.issuer))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*TokenClaims)
	if !ok || !token.Valid || claims.TokenType != wantType {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// AccessTTLSeconds returns the access token lifetime in seconds.
func (ti *TokenIssuer) AccessTTLSeconds() int64 {
	return int64(ti.accessTTL.Seconds())
}
