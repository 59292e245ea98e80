package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/mshiraki/tangocho/internal/models"
)

// AuthRepository defines the persistence operations
// required by the authentication service.
type AuthRepository interface {
	// UserExists returns true if a user with the given login exists.
	UserExists(ctx context.Context, login string) (bool, error)
	// RegisterUser creates a new user record with the given login.
	RegisterUser(ctx context.Context, login string) error
	// CreateSession stores a new login session.
	CreateSession(ctx context.Context, session models.Session) error
	// GetSession fetches a session by token, or models.ErrNotFound.
	GetSession(ctx context.Context, token string) (*models.Session, error)
	// DeleteSession removes a session by token.
	DeleteSession(ctx context.Context, token string) error
}

// AuthService implements registration, login, and session resolution by
// delegating to an AuthRepository.
type AuthService struct {
	// repo performs the data-layer operations.
	repo AuthRepository
	// clock supplies "now" for session expiry checks.
	clock Clock
	// sessionTTL is the lifetime of issued sessions.
	sessionTTL time.Duration
}

// NewAuthService constructs a new AuthService using the provided
// repository, clock, and session lifetime.
func NewAuthService(repo AuthRepository, clock Clock, sessionTTL time.Duration) *AuthService {
	return &AuthService{repo: repo, clock: clock, sessionTTL: sessionTTL}
}

// Register creates a new user and issues a session for it. Returns
// models.ErrUserExists if the login is taken.
func (s *AuthService) Register(ctx context.Context, login string) (*models.Session, error) {
	exists, err := s.repo.UserExists(ctx, login)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, models.ErrUserExists
	}
	if err := s.repo.RegisterUser(ctx, login); err != nil {
		return nil, err
	}
	return s.issueSession(ctx, login)
}

// Login issues a new session for an existing user. Returns
// models.ErrNotFound if no such user is registered.
func (s *AuthService) Login(ctx context.Context, login string) (*models.Session, error) {
	exists, err := s.repo.UserExists(ctx, login)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, models.ErrNotFound
	}
	return s.issueSession(ctx, login)
}

// Resolve maps a bearer token to the owning user login. Expired or
// unknown tokens yield models.ErrUnauthenticated; expired sessions are
// removed on sight.
func (s *AuthService) Resolve(ctx context.Context, token string) (string, error) {
	session, err := s.repo.GetSession(ctx, token)
	if err != nil {
		return "", models.ErrUnauthenticated
	}
	if session.ExpiresAt < s.clock.Now().UnixMilli() {
		_ = s.repo.DeleteSession(ctx, token)
		return "", models.ErrUnauthenticated
	}
	return session.UserLogin, nil
}

// Logout removes the session for the given token.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	return s.repo.DeleteSession(ctx, token)
}

// issueSession creates and stores a session with a fresh random token.
func (s *AuthService) issueSession(ctx context.Context, login string) (*models.Session, error) {
	session := models.Session{
		Token:     uuid.NewString(),
		UserLogin: login,
		ExpiresAt: s.clock.Now().Add(s.sessionTTL).UnixMilli(),
	}
	if err := s.repo.CreateSession(ctx, session); err != nil {
		return nil, err
	}
	return &session, nil
}
