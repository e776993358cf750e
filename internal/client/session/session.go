// Package session persists the authenticated user between program runs.
// The session file is an HS256-signed token; a missing, unparseable or
// tampered file is silently discarded and the user just logs in again.
package session

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/dmitrijs2005/kaizenlib/internal/client/models"
	"github.com/golang-jwt/jwt/v5"
)

type claims struct {
	Username string `json:"username"`
	FullName string `json:"name"`
	Role     string `json:"role"`
	Unit     string `json:"unit"`
	jwt.RegisteredClaims
}

// sessionTTL bounds how long a persisted session stays valid.
const sessionTTL = 30 * 24 * time.Hour

// Manager reads and writes the session file.
type Manager struct {
	path   string
	secret []byte
}

func NewManager(path string, secret []byte) *Manager {
	return &Manager{path: path, secret: secret}
}

// Save persists u as the current session.
func (m *Manager) Save(u models.User) error {
	c := claims{
		Username: u.Username,
		FullName: u.FullName,
		Role:     string(u.Role),
		Unit:     u.Unit,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(sessionTTL)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(m.secret)
	if err != nil {
		return fmt.Errorf("sign session: %w", err)
	}

	if err := os.WriteFile(m.path, []byte(token), 0o600); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}
	return nil
}

// Load restores the persisted session. It returns (nil, nil) when there is
// no session or the stored one does not verify; a bad file is removed so
// it is not reparsed on every start.
func (m *Manager) Load() (*models.User, error) {
	raw, err := os.ReadFile(m.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read session file: %w", err)
	}

	var c claims
	token, err := jwt.ParseWithClaims(string(raw), &c, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		_ = os.Remove(m.path)
		return nil, nil
	}

	u := &models.User{
		ID:       c.Subject,
		Username: c.Username,
		FullName: c.FullName,
		Role:     models.Role(c.Role),
		Unit:     c.Unit,
	}
	if u.ID == "" || !u.Role.Valid() {
		_ = os.Remove(m.path)
		return nil, nil
	}
	return u, nil
}

// Clear drops the persisted session, if any.
func (m *Manager) Clear() error {
	err := os.Remove(m.path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove session file: %w", err)
	}
	return nil
}
