package auth

import (
	"context"

	"github.com/google/uuid"

	"github.com/kestrelgames/boardhouse/internal/apperr"
)

// Service implements the signup/login/me surface spec §6 names, composing Store,
// PasswordService and TokenService.
type Service struct {
	Store     Store
	Passwords PasswordService
	Tokens    TokenService
}

func NewService(store Store, tokens TokenService) *Service {
	return &Service{Store: store, Passwords: NewPasswordService(), Tokens: tokens}
}

// Signup creates a new user and returns a bearer token for it.
func (s *Service) Signup(ctx context.Context, displayName, password string) (*User, string, error) {
	if displayName == "" {
		return nil, "", apperr.BadRequestf("display_name is required")
	}
	hash, err := s.Passwords.Hash(password)
	if err != nil {
		return nil, "", err
	}

	u := &User{DisplayName: displayName, PasswordHash: hash}
	if err := s.Store.Create(ctx, u); err != nil {
		return nil, "", err
	}

	token, err := s.Tokens.Issue(u.ID.String())
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

// Login verifies credentials and returns a fresh bearer token.
func (s *Service) Login(ctx context.Context, displayName, password string) (*User, string, error) {
	u, err := s.Store.FindByDisplayName(ctx, displayName)
	if err != nil {
		return nil, "", apperr.Unauthorizedf("invalid credentials")
	}
	if err := s.Passwords.Verify(password, u.PasswordHash); err != nil {
		return nil, "", err
	}

	token, err := s.Tokens.Issue(u.ID.String())
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

// Me resolves the bearer token on an incoming request to the User it identifies.
func (s *Service) Me(ctx context.Context, token string) (*User, error) {
	userID, err := s.Tokens.Verify(token)
	if err != nil {
		return nil, err
	}
	id, err := uuid.Parse(userID)
	if err != nil {
		return nil, apperr.Unauthorizedf("invalid token subject")
	}
	return s.Store.FindByID(ctx, id)
}
