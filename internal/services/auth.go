package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"clubdirectory/internal/domain"
)

type authService struct {
	userRepo    domain.UserRepository
	hasher      domain.PinHasher
	tokenIssuer domain.TokenIssuer
	tokenExpiry time.Duration
}

// NewAuthService creates an AuthService backed by the user store, a PIN hasher and a token issuer.
func NewAuthService(userRepo domain.UserRepository, hasher domain.PinHasher, tokenIssuer domain.TokenIssuer, tokenExpiry time.Duration) domain.AuthService {
	return &authService{
		userRepo:    userRepo,
		hasher:      hasher,
		tokenIssuer: tokenIssuer,
		tokenExpiry: tokenExpiry,
	}
}

func (s *authService) Login(ctx context.Context, username, pin string) (*domain.LoginResult, error) {
	username = strings.TrimSpace(username)
	if username == "" || pin == "" {
		return nil, domain.ErrInvalidCredentials
	}
	creds, err := s.userRepo.GetCredentials(ctx, username)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if err := s.hasher.Compare(creds.PinHash, creds.Salt, pin); err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	token, err := s.tokenIssuer.Issue(creds.User, s.tokenExpiry)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}
	return &domain.LoginResult{Token: token, User: creds.User}, nil
}
