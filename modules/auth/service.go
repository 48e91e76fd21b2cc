package auth

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/example/taskboard/domain/apperr"
	domain "github.com/example/taskboard/domain/user"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

var (
	// ErrInvalidCredentials is returned when login credentials are invalid.
	ErrInvalidCredentials = fmt.Errorf("%w: invalid email or password", apperr.ErrUnauthorized)
	// ErrInvalidRefreshToken is returned when a refresh token cannot be exchanged.
	ErrInvalidRefreshToken = fmt.Errorf("%w: invalid refresh token", apperr.ErrUnauthorized)
)

// Service handles registration, sign-in and the user directory.
type Service struct {
	repo    *UserRepository
	hasher  *PasswordHasher
	tokens  *TokenIssuer
	sfGroup singleflight.Group
}

// NewService creates a new Service.
func NewService(repo *UserRepository, hasher *PasswordHasher, tokens *TokenIssuer) *Service {
	return &Service{
		repo:   repo,
		hasher: hasher,
		tokens: tokens,
	}
}

// Register creates a new account.
func (s *Service) Register(ctx context.Context, name, email, password string) (*domain.User, error) {
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)

	if name == "" {
		return nil, apperr.Validation("name is required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, apperr.Validation("invalid email format")
	}
	if len(password) < minPasswordLength {
		return nil, apperr.Validation("password must be at least %d characters", minPasswordLength)
	}
	if len(password) > maxPasswordLength {
		return nil, apperr.Validation("password must be at most %d characters", maxPasswordLength)
	}

	exists, err := s.repo.EmailExists(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email existence: %w", err)
	}
	if exists {
		return nil, ErrEmailTaken
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	u := &domain.User{
		ID:           uuid.New().String(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}
	s.sfGroup.Forget(directoryKey)
	return u, nil
}

// Login checks credentials and issues a token pair.
func (s *Service) Login(ctx context.Context, email, password string) (*domain.User, *domain.TokenPair, error) {
	u, err := s.repo.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if apperr.Is(err, apperr.ErrNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, fmt.Errorf("failed to find user: %w", err)
	}
	if !s.hasher.Verify(password, u.PasswordHash) {
		return nil, nil, ErrInvalidCredentials
	}

	tokens, err := s.issue(u)
	if err != nil {
		return nil, nil, err
	}
	return u, tokens, nil
}

// Refresh exchanges a refresh token for a new token pair.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	claims, err := s.tokens.VerifyRefresh(refreshToken)
	if err != nil {
		return nil, ErrInvalidRefreshToken
	}

	u, err := s.repo.FindByID(ctx, claims.UserID)
	if err != nil {
		if apperr.Is(err, apperr.ErrNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return s.issue(u)
}

// ValidateToken verifies an access token and returns the identity it carries.
func (s *Service) ValidateToken(_ context.Context, token string) (*domain.Claims, error) {
	claims, err := s.tokens.VerifyAccess(token)
	if err != nil {
		return nil, err
	}
	return &domain.Claims{
		UserID: claims.UserID,
		Email:  claims.Email,
		Name:   claims.Name,
	}, nil
}

// GetUser retrieves a user by ID.
func (s *Service) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	return s.repo.FindByID(ctx, userID)
}

const directoryKey = "directory"

// ListUsers returns every user except excludeID, ordered by name.
// Concurrent callers share a single directory query, which outlives any one caller's cancellation.
func (s *Service) ListUsers(ctx context.Context, excludeID string) ([]domain.Summary, error) {
	shared := context.WithoutCancel(ctx)
	v, err, _ := s.sfGroup.Do(directoryKey, func() (any, error) {
		return s.repo.ListByName(shared)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	all := v.([]domain.User)
	out := make([]domain.Summary, 0, len(all))
	for _, u := range all {
		if u.ID == excludeID {
			continue
		}
		out = append(out, u.ToSummary())
	}
	return out, nil
}

func (s *Service) issue(u *domain.User) (*domain.TokenPair, error) {
	access, err := s.tokens.Access(u.ID, u.Email, u.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}
	refresh, err := s.tokens.Refresh(u.ID, u.Email, u.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}
	return &domain.TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    s.tokens.AccessTTLSeconds(),
		TokenType:    "Bearer",
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
