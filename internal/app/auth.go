package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"hotel_booking/internal/domain"
)

type AuthService struct {
	users  domain.UserRepository
	hasher domain.PasswordHasher
}

func NewAuthService(u domain.UserRepository, h domain.PasswordHasher) *AuthService {
	return &AuthService{users: u, hasher: h}
}

// SignUp hashes the password and stores a new non-admin user. A taken email
// surfaces as domain.ErrDuplicateEmail.
func (s *AuthService) SignUp(ctx context.Context, in domain.SignUp) (domain.User, error) {
	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return domain.User{}, fmt.Errorf("hash password: %w", err)
	}
	return s.users.CreateUser(ctx, domain.User{
		FirstName:    strings.TrimSpace(in.FirstName),
		Surname:      strings.TrimSpace(in.Surname),
		Email:        domain.NormalizeEmail(in.Email),
		PasswordHash: hash,
	})
}

// VerifyCredentials returns the user for a matching email/password pair.
// Unknown emails and wrong passwords both yield domain.ErrAuthFailed.
func (s *AuthService) VerifyCredentials(ctx context.Context, email, password string) (domain.User, error) {
	email = domain.NormalizeEmail(email)
	if email == "" || password == "" {
		return domain.User{}, domain.ErrAuthFailed
	}
	u, err := s.users.GetUserByEmail(ctx, email)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.User{}, domain.ErrAuthFailed
	}
	if err != nil {
		return domain.User{}, err
	}
	if !s.hasher.Verify(u.PasswordHash, password) {
		return domain.User{}, domain.ErrAuthFailed
	}
	return u, nil
}

func (s *AuthService) Identify(ctx context.Context, id string) (domain.User, error) {
	if id == "" {
		return domain.User{}, domain.ErrNotFound
	}
	return s.users.GetUser(ctx, id)
}
