package auth

import (
	"context"
	"encoding/json"
	"fmt"

	domain "github.com/example/taskboard/domain/user"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// AuthPort is the contract other modules use to reach authentication services.
type AuthPort interface {
	Register(ctx context.Context, req RegisterRequest) (*UserResponse, error)
	Login(ctx context.Context, email, password string) (*LoginResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error)
	ValidateToken(ctx context.Context, token string) (*domain.Claims, error)
	GetUser(ctx context.Context, userID string) (*UserResponse, error)
	ListUsers(ctx context.Context, excludeUserID string) ([]domain.Summary, error)
}

// AuthAdapter implements AuthPort using the service container.
type AuthAdapter struct {
	container mono.ServiceContainer
}

// NewAuthAdapter creates a new AuthAdapter.
func NewAuthAdapter(container mono.ServiceContainer) *AuthAdapter {
	return &AuthAdapter{container: container}
}

func call[Req, Resp any](ctx context.Context, container mono.ServiceContainer, service string, req Req, resp *Resp) error {
	if err := helper.CallRequestReplyService(
		ctx,
		container,
		service,
		json.Marshal,
		json.Unmarshal,
		req,
		resp,
	); err != nil {
		return fmt.Errorf("%s request failed: %w", service, err)
	}
	return nil
}

// Register creates an account.
func (a *AuthAdapter) Register(ctx context.Context, req RegisterRequest) (*UserResponse, error) {
	var resp UserResponse
	if err := call(ctx, a.container, "register", &req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Login exchanges credentials for a token pair.
func (a *AuthAdapter) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	req := LoginRequest{Email: email, Password: password}
	var resp LoginResponse
	if err := call(ctx, a.container, "login", &req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Refresh exchanges a refresh token for a new pair.
func (a *AuthAdapter) Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	req := RefreshRequest{RefreshToken: refreshToken}
	var resp domain.TokenPair
	if err := call(ctx, a.container, "refresh-token", &req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ValidateToken validates an access token and returns claims.
func (a *AuthAdapter) ValidateToken(ctx context.Context, token string) (*domain.Claims, error) {
	req := ValidateTokenRequest{Token: token}
	var resp ValidateTokenResponse
	if err := call(ctx, a.container, "validate-token", &req, &resp); err != nil {
		return nil, err
	}
	if !resp.Valid {
		return nil, fmt.Errorf("token validation failed: %s", resp.Error)
	}
	return &domain.Claims{
		UserID: resp.UserID,
		Email:  resp.Email,
		Name:   resp.Name,
	}, nil
}

// GetUser retrieves a user by ID.
func (a *AuthAdapter) GetUser(ctx context.Context, userID string) (*UserResponse, error) {
	req := GetUserRequest{UserID: userID}
	var resp UserResponse
	if err := call(ctx, a.container, "get-user", &req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListUsers returns the directory without the given user.
func (a *AuthAdapter) ListUsers(ctx context.Context, excludeUserID string) ([]domain.Summary, error) {
	req := ListUsersRequest{ExcludeUserID: excludeUserID}
	var resp ListUsersResponse
	if err := call(ctx, a.container, "list-users", &req, &resp); err != nil {
		return nil, err
	}
	return resp.Users, nil
}
