package auth

import (
	"context"
	"strings"

	"github.com/baechuer/userhub/internal/domain"
)

// Authenticate checks a username/password pair against the stored credential.
// IMPORTANT: must not leak whether the username exists (avoid user
// enumeration) — not-found and wrong-password both come back as
// invalid_credentials.
func (s *Service) Authenticate(ctx context.Context, username, password string) (domain.User, error) {
	username = strings.TrimSpace(username)

	if username == "" || password == "" {
		return domain.User{}, domain.ErrInvalidCredentials()
	}

	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		// Hide not-found behind invalid credentials
		return domain.User{}, domain.ErrInvalidCredentials()
	}

	if err := s.hasher.Compare(u.PasswordHash, password); err != nil {
		return domain.User{}, domain.ErrInvalidCredentials()
	}

	return u, nil
}
