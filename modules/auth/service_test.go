package auth

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/example/taskboard/config"
	"github.com/example/taskboard/domain/apperr"
	"github.com/example/taskboard/modules/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestService(t *testing.T) *Service {
	t.Helper()
	db, err := database.Open(config.DatabaseConfig{Driver: "sqlite", DSN: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	cfg := testAuthConfig()
	return NewService(NewUserRepository(db), NewPasswordHasher(cfg.BcryptCost), NewTokenIssuer(cfg))
}

func TestService_Register(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	u, err := svc.Register(ctx, "  Alice ", " Alice@Example.com ", "password123")
	require.NoError(t, err)
	assert.NotEmpty(t, u.ID)
	assert.Equal(t, "Alice", u.Name)
	assert.Equal(t, "alice@example.com", u.Email)
	assert.NotEqual(t, "password123", u.PasswordHash)
}

func TestService_RegisterValidation(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		userName string
		email    string
		password string
	}{
		{name: "missing name", userName: " ", email: "a@example.com", password: "password123"},
		{name: "invalid email", userName: "A", email: "not-an-email", password: "password123"},
		{name: "short password", userName: "A", email: "a@example.com", password: "12345"},
		{name: "long password", userName: "A", email: "a@example.com", password: strings.Repeat("x", 73)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tt.userName, tt.email, tt.password)
			require.Error(t, err)
			assert.True(t, apperr.Is(err, apperr.ErrValidation), "got %v", err)
		})
	}
}

func TestService_RegisterDuplicateEmail(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "Alice", "alice@example.com", "password123")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "Other Alice", "ALICE@example.com", "password456")
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.ErrConflict))
}

func TestService_LoginAndRefresh(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	registered, err := svc.Register(ctx, "Bob", "bob@example.com", "password123")
	require.NoError(t, err)

	u, tokens, err := svc.Login(ctx, "bob@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, u.ID)
	assert.Equal(t, "Bearer", tokens.TokenType)

	claims, err := svc.ValidateToken(ctx, tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, registered.ID, claims.UserID)
	assert.Equal(t, "bob@example.com", claims.Email)
	assert.Equal(t, "Bob", claims.Name)

	refreshed, err := svc.Refresh(ctx, tokens.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)

	_, err = svc.Refresh(ctx, tokens.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)
}

func TestService_LoginRejectsBadCredentials(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "Bob", "bob@example.com", "password123")
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, "bob@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.Login(ctx, "nobody@example.com", "password123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.True(t, apperr.Is(err, apperr.ErrUnauthorized))
}

func TestService_ListUsersExcludesCallerAndSortsByName(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	carol, err := svc.Register(ctx, "Carol", "carol@example.com", "password123")
	require.NoError(t, err)
	_, err = svc.Register(ctx, "Alice", "alice@example.com", "password123")
	require.NoError(t, err)
	_, err = svc.Register(ctx, "Bob", "bob@example.com", "password123")
	require.NoError(t, err)

	users, err := svc.ListUsers(ctx, carol.ID)
	require.NoError(t, err)

	names := make([]string, 0, len(users))
	for _, u := range users {
		names = append(names, u.Name)
	}
	assert.Equal(t, []string{"Alice", "Bob"}, names)
}

func TestService_ListUsersConcurrent(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "Alice", "alice@example.com", "password123")
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			users, err := svc.ListUsers(ctx, "")
			assert.NoError(t, err)
			assert.Len(t, users, 1)
		}()
	}
	wg.Wait()
}

func TestService_ListUsersIgnoresCallerCancellation(t *testing.T) {
	svc := setupTestService(t)

	_, err := svc.Register(context.Background(), "Alice", "alice@example.com", "password123")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	users, err := svc.ListUsers(ctx, "")
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestService_RegisterAcceptsSixCharacterPassword(t *testing.T) {
	svc := setupTestService(t)

	_, err := svc.Register(context.Background(), "Dana", "dana@example.com", "abc123")
	require.NoError(t, err)
}

func TestService_GetUserNotFound(t *testing.T) {
	svc := setupTestService(t)

	_, err := svc.GetUser(context.Background(), "missing")
	assert.True(t, apperr.Is(err, apperr.ErrNotFound))
}
