package client

import (
	"context"
	"fmt"
	"sync"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"

	"clubdirectory/internal/domain"
)

// Session holds the signed-in user and bearer token. It implements domain.Identity and
// domain.TokenSource so the engine and the gateway can read it without owning it.
type Session struct {
	auth domain.AuthGateway
	now  func() time.Time

	mu    sync.RWMutex
	token string
	user  *domain.User
}

// NewSession returns a signed-out Session that logs in through auth.
func NewSession(auth domain.AuthGateway) *Session {
	return &Session{auth: auth, now: time.Now}
}

// Login exchanges username and pin for a token and stores the returned user.
func (s *Session) Login(ctx context.Context, username, pin string) (*domain.User, error) {
	res, err := s.auth.Login(ctx, username, pin)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	user := res.User
	s.mu.Lock()
	s.token = res.Token
	s.user = &user
	s.mu.Unlock()
	return &user, nil
}

// Restore installs a previously obtained token and user, e.g. from a saved session file.
func (s *Session) Restore(token string, user *domain.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	if user != nil {
		u := *user
		s.user = &u
	} else {
		s.user = nil
	}
}

func (s *Session) Logout() {
	s.Restore("", nil)
}

// Token returns the bearer token, or "" when signed out or the token's exp claim has passed.
// The token is read unverified; the server remains the authority on its validity.
func (s *Session) Token() string {
	s.mu.RLock()
	token := s.token
	s.mu.RUnlock()
	if token == "" || s.expired(token) {
		return ""
	}
	return token
}

// User returns the signed-in user, or nil.
func (s *Session) User() *domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

func (s *Session) IsLoggedIn() bool {
	return s.Token() != ""
}

func (s *Session) expired(token string) bool {
	parser := gojwt.NewParser()
	claims := gojwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		// Opaque tokens carry no expiry we can read.
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return !s.now().Before(exp.Time)
}
