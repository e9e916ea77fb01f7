package auth

import (
	"time"

	"github.com/baechuer/userhub/internal/domain"
)

type Service struct {
	users  CredentialReader
	hasher PasswordHasher
	codec  TokenCodec

	accessTTL time.Duration
}

func NewService(users CredentialReader, hasher PasswordHasher, codec TokenCodec, accessTTL time.Duration) *Service {
	return &Service{
		users:     users,
		hasher:    hasher,
		codec:     codec,
		accessTTL: accessTTL,
	}
}

// AuthTokens is the token output for handlers/DTO mapping.
type AuthTokens struct {
	AccessToken string
	TokenType   string // "bearer"
	ExpiresIn   int64  // seconds
}

// IssueToken mints an access token for an already-authenticated user.
// Kept separate from Authenticate so the login handler decides when tokens
// are issued.
func (s *Service) IssueToken(u domain.User) (AuthTokens, error) {
	access, err := s.codec.Issue(Identity{
		Username: u.Username,
		UserID:   u.UserID,
		Email:    u.Email,
		Scopes:   u.Roles,
	}, s.accessTTL)
	if err != nil {
		return AuthTokens{}, err
	}

	return AuthTokens{
		AccessToken: access,
		TokenType:   "bearer",
		ExpiresIn:   int64(s.accessTTL.Seconds()),
	}, nil
}
