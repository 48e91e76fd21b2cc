package session

import (
	"fmt"

	"github.com/example/taskboard/domain/user"
	"github.com/gofiber/fiber/v2"
	fibersession "github.com/gofiber/fiber/v2/middleware/session"
)

const (
	keyUserID = "user_id"
	keyEmail  = "email"
	keyName   = "name"
	keyGuest  = "guest"
)

// Manager reads and writes the identity stored in a cookie session.
type Manager struct {
	store *fibersession.Store
}

// NewManager wraps a fiber session store.
func NewManager(store *fibersession.Store) *Manager {
	return &Manager{store: store}
}

// SignIn records the user's identity in the caller's session.
// The session id is kept so a guest list started before signing in stays reachable until sign-out.
func (m *Manager) SignIn(c *fiber.Ctx, claims user.Claims) error {
	sess, err := m.store.Get(c)
	if err != nil {
		return fmt.Errorf("failed to load session: %w", err)
	}
	sess.Set(keyUserID, claims.UserID)
	sess.Set(keyEmail, claims.Email)
	sess.Set(keyName, claims.Name)
	if err := sess.Save(); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Identity returns the signed-in user of the session, if any.
func (m *Manager) Identity(c *fiber.Ctx) (*user.Claims, bool, error) {
	sess, err := m.store.Get(c)
	if err != nil {
		return nil, false, fmt.Errorf("failed to load session: %w", err)
	}
	userID, _ := sess.Get(keyUserID).(string)
	if userID == "" {
		return nil, false, nil
	}
	email, _ := sess.Get(keyEmail).(string)
	name, _ := sess.Get(keyName).(string)
	return &user.Claims{UserID: userID, Email: email, Name: name}, true, nil
}

// ID returns the caller's session id, persisting a fresh session so the cookie sticks.
func (m *Manager) ID(c *fiber.Ctx) (string, error) {
	sess, err := m.store.Get(c)
	if err != nil {
		return "", fmt.Errorf("failed to load session: %w", err)
	}
	id := sess.ID()
	if sess.Fresh() {
		sess.Set(keyGuest, true)
		if err := sess.Save(); err != nil {
			return "", fmt.Errorf("failed to save session: %w", err)
		}
	}
	return id, nil
}

// CurrentID returns the id of the caller's existing session without starting one.
func (m *Manager) CurrentID(c *fiber.Ctx) (string, bool, error) {
	sess, err := m.store.Get(c)
	if err != nil {
		return "", false, fmt.Errorf("failed to load session: %w", err)
	}
	if sess.Fresh() {
		return "", false, nil
	}
	return sess.ID(), true, nil
}

// SignOut destroys the caller's session and returns the id it had.
func (m *Manager) SignOut(c *fiber.Ctx) (string, error) {
	sess, err := m.store.Get(c)
	if err != nil {
		return "", fmt.Errorf("failed to load session: %w", err)
	}
	id := sess.ID()
	if err := sess.Destroy(); err != nil {
		return "", fmt.Errorf("failed to destroy session: %w", err)
	}
	return id, nil
}
