package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/example/taskboard/config"
	"github.com/example/taskboard/domain/user"
	"github.com/example/taskboard/modules/database"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// AuthModule provides registration, sign-in and the user directory.
type AuthModule struct {
	cfg      config.AuthConfig
	database *database.PluginModule
	service  *Service
}

// Compile-time interface checks.
var (
	_ mono.Module                = (*AuthModule)(nil)
	_ mono.ServiceProviderModule = (*AuthModule)(nil)
	_ mono.UsePluginModule       = (*AuthModule)(nil)
	_ mono.HealthCheckableModule = (*AuthModule)(nil)
)

// NewModule creates a new AuthModule.
func NewModule(cfg config.AuthConfig) *AuthModule {
	return &AuthModule{cfg: cfg}
}

// Name returns the module name.
func (m *AuthModule) Name() string {
	return "auth"
}

// SetPlugin receives the database plugin from the framework.
func (m *AuthModule) SetPlugin(alias string, plugin mono.PluginModule) {
	if alias != "database" {
		return
	}
	db, ok := plugin.(*database.PluginModule)
	if !ok {
		log.Printf("[auth] Invalid plugin type for %s: %T", alias, plugin)
		return
	}
	m.database = db
}

// Start wires the service on top of the shared database.
func (m *AuthModule) Start(_ context.Context) error {
	if m.database == nil || m.database.DB() == nil {
		return fmt.Errorf("required plugin 'database' not registered")
	}

	m.service = NewService(
		NewUserRepository(m.database.DB()),
		NewPasswordHasher(m.cfg.BcryptCost),
		NewTokenIssuer(m.cfg),
	)

	log.Printf("[auth] Module started (issuer: %s, access TTL: %s)", m.cfg.JWTIssuer, m.cfg.AccessTTL)
	return nil
}

// Stop shuts down the module.
func (m *AuthModule) Stop(_ context.Context) error {
	log.Println("[auth] Module stopped")
	return nil
}

// Health reports whether the service is ready.
func (m *AuthModule) Health(_ context.Context) mono.HealthStatus {
	if m.service == nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: "service not initialized",
		}
	}
	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
	}
}

// RegisterServices registers request-reply services in the service container.
func (m *AuthModule) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container, "register", json.Unmarshal, json.Marshal, m.handleRegister,
	); err != nil {
		return fmt.Errorf("failed to register register service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "login", json.Unmarshal, json.Marshal, m.handleLogin,
	); err != nil {
		return fmt.Errorf("failed to register login service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "refresh-token", json.Unmarshal, json.Marshal, m.handleRefresh,
	); err != nil {
		return fmt.Errorf("failed to register refresh-token service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "validate-token", json.Unmarshal, json.Marshal, m.handleValidateToken,
	); err != nil {
		return fmt.Errorf("failed to register validate-token service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "get-user", json.Unmarshal, json.Marshal, m.handleGetUser,
	); err != nil {
		return fmt.Errorf("failed to register get-user service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "list-users", json.Unmarshal, json.Marshal, m.handleListUsers,
	); err != nil {
		return fmt.Errorf("failed to register list-users service: %w", err)
	}

	log.Printf("[auth] Registered services: register, login, refresh-token, validate-token, get-user, list-users")
	return nil
}

func (m *AuthModule) handleRegister(ctx context.Context, req RegisterRequest, _ *mono.Msg) (UserResponse, error) {
	u, err := m.service.Register(ctx, req.Name, req.Email, req.Password)
	if err != nil {
		return UserResponse{}, err
	}
	log.Printf("[auth] Registered user %s", u.ID)
	return toUserResponse(u), nil
}

func (m *AuthModule) handleLogin(ctx context.Context, req LoginRequest, _ *mono.Msg) (LoginResponse, error) {
	u, tokens, err := m.service.Login(ctx, req.Email, req.Password)
	if err != nil {
		return LoginResponse{}, err
	}
	return LoginResponse{User: toUserResponse(u), Tokens: *tokens}, nil
}

func (m *AuthModule) handleRefresh(ctx context.Context, req RefreshRequest, _ *mono.Msg) (user.TokenPair, error) {
	tokens, err := m.service.Refresh(ctx, req.RefreshToken)
	if err != nil {
		return user.TokenPair{}, err
	}
	return *tokens, nil
}

// handleValidateToken reports validation failures in the response body, not as errors.
func (m *AuthModule) handleValidateToken(ctx context.Context, req ValidateTokenRequest, _ *mono.Msg) (ValidateTokenResponse, error) {
	claims, err := m.service.ValidateToken(ctx, req.Token)
	if err != nil {
		msg := "invalid token"
		if errors.Is(err, ErrExpiredToken) {
			msg = "token expired"
		}
		return ValidateTokenResponse{Valid: false, Error: msg}, nil
	}
	return ValidateTokenResponse{
		Valid:  true,
		UserID: claims.UserID,
		Email:  claims.Email,
		Name:   claims.Name,
	}, nil
}

func (m *AuthModule) handleGetUser(ctx context.Context, req GetUserRequest, _ *mono.Msg) (UserResponse, error) {
	u, err := m.service.GetUser(ctx, req.UserID)
	if err != nil {
		return UserResponse{}, err
	}
	return toUserResponse(u), nil
}

func (m *AuthModule) handleListUsers(ctx context.Context, req ListUsersRequest, _ *mono.Msg) (ListUsersResponse, error) {
	users, err := m.service.ListUsers(ctx, req.ExcludeUserID)
	if err != nil {
		return ListUsersResponse{}, err
	}
	return ListUsersResponse{Users: users}, nil
}
