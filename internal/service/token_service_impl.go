package service

import (
	"context"
	"errors"

	"github.com/jnst/race-registration/internal/auth"
	"github.com/jnst/race-registration/internal/model"
)

// UserLookup resolves users by email.
type UserLookup interface {
	GetByEmail(ctx context.Context, email string) (*model.User, error)
}

// TokenIssuer signs tokens for an identity.
type TokenIssuer interface {
	Issue(id auth.Identity) (string, error)
}

// TokenServiceImpl implements TokenService.
type TokenServiceImpl struct {
	userRepo UserLookup
	issuer   TokenIssuer
}

// NewTokenServiceImpl creates a new TokenService implementation.
func NewTokenServiceImpl(userRepo UserLookup, issuer TokenIssuer) TokenService {
	return &TokenServiceImpl{userRepo: userRepo, issuer: issuer}
}

// IssueToken returns a token for a known user whose role matches.
func (s *TokenServiceImpl) IssueToken(ctx context.Context, email string, role model.Role) (string, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if errors.Is(err, model.ErrUserNotFound) {
		return "", model.ErrUnauthenticated
	}

	if err != nil {
		return "", err
	}

	if user.Role != role {
		return "", model.ErrUnauthenticated
	}

	return s.issuer.Issue(auth.Identity{Email: user.Email, Role: user.Role})
}
