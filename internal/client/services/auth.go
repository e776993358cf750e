package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/kaizenlib/internal/client/gateway"
	"github.com/dmitrijs2005/kaizenlib/internal/client/models"
	"github.com/dmitrijs2005/kaizenlib/internal/client/session"
	"github.com/dmitrijs2005/kaizenlib/internal/common"
	"github.com/dmitrijs2005/kaizenlib/internal/logging"
	"golang.org/x/crypto/bcrypt"
)

// AuthService authenticates users against the remote store and keeps the
// local session in step.
type AuthService struct {
	gw       gateway.Gateway
	sessions *session.Manager
	logger   logging.Logger
}

func NewAuthService(gw gateway.Gateway, sessions *session.Manager, logger logging.Logger) *AuthService {
	return &AuthService{gw: gw, sessions: sessions, logger: logger.With("component", "auth")}
}

// Login verifies the credentials and persists the session. Unknown
// usernames and wrong passwords produce the same error.
func (s *AuthService) Login(ctx context.Context, username string, password []byte) (models.User, error) {
	u, hash, err := s.gw.GetUserCredentials(ctx, username)
	if err != nil {
		if gateway.KindOf(err) == gateway.KindNotFound {
			return models.User{}, common.ErrInvalidCredentials
		}
		return models.User{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), password); err != nil {
		return models.User{}, common.ErrInvalidCredentials
	}

	if err := s.sessions.Save(u); err != nil {
		// A failed save only costs the user a re-login next start.
		s.logger.Warn(ctx, "could not persist session", "error", err)
	}

	s.logger.Info(ctx, "logged in", "username", u.Username, "role", u.Role)
	return u, nil
}

// Restore brings back the session persisted by a previous run, or nil
// when there is none worth restoring.
func (s *AuthService) Restore() (*models.User, error) {
	u, err := s.sessions.Load()
	if err != nil {
		return nil, fmt.Errorf("restore session: %w", err)
	}
	return u, nil
}

// Logout clears the persisted session.
func (s *AuthService) Logout(ctx context.Context) error {
	if err := s.sessions.Clear(); err != nil {
		return err
	}
	s.logger.Info(ctx, "logged out")
	return nil
}
