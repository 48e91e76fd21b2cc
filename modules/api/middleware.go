package api

import (
	"context"
	"log"
	"strings"

	"github.com/example/taskboard/domain/user"
	"github.com/gofiber/fiber/v2"
)

// UserContextKey is the key used to store the caller's claims in the Fiber context.
const UserContextKey = "user"

// SessionManager is the cookie session surface the API needs. *session.Manager implements it.
type SessionManager interface {
	SignIn(c *fiber.Ctx, claims user.Claims) error
	Identity(c *fiber.Ctx) (*user.Claims, bool, error)
	ID(c *fiber.Ctx) (string, error)
	CurrentID(c *fiber.Ctx) (string, bool, error)
	SignOut(c *fiber.Ctx) (string, error)
}

// TokenValidator validates bearer access tokens.
type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) (*user.Claims, error)
}

// RequireIdentity resolves the caller from a Bearer token or, failing that, the session cookie.
// A present but invalid Bearer token is rejected without falling back to the cookie.
func RequireIdentity(sessions SessionManager, tokens TokenValidator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if header := c.Get(fiber.HeaderAuthorization); header != "" {
			if !strings.HasPrefix(header, "Bearer ") {
				return respond(c, fiber.StatusUnauthorized, "unauthorized",
					"Invalid authorization header format. Use: Bearer <token>")
			}
			token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
			claims, err := tokens.ValidateToken(c.UserContext(), token)
			if err != nil {
				return respond(c, fiber.StatusUnauthorized, "unauthorized", "Invalid or expired token")
			}
			c.Locals(UserContextKey, claims)
			return c.Next()
		}

		claims, ok, err := sessions.Identity(c)
		if err != nil {
			log.Printf("[api] Session lookup failed: %v", err)
		}
		if !ok {
			return respond(c, fiber.StatusUnauthorized, "unauthorized", "Authentication required")
		}
		c.Locals(UserContextKey, claims)
		return c.Next()
	}
}

// caller returns the claims stored by RequireIdentity.
func caller(c *fiber.Ctx) *user.Claims {
	claims, _ := c.Locals(UserContextKey).(*user.Claims)
	return claims
}
