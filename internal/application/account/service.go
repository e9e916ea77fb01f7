package account

import (
	"context"

	"github.com/baechuer/userhub/internal/application/user"
	"github.com/baechuer/userhub/internal/domain"
	"github.com/baechuer/userhub/internal/logger"
)

// Service exposes the authenticated caller's own account: profile lookup and
// password change. It works purely off the identity the auth middleware
// attached to the request context; it never trusts client-supplied usernames.
type Service struct {
	users *user.Service
}

func NewService(users *user.Service) *Service {
	return &Service{users: users}
}

// GetAccount returns the caller's profile. An inactive user is reported as
// not found rather than exposing account state.
func (s *Service) GetAccount(ctx context.Context, username string) (domain.User, error) {
	if username == "" {
		return domain.User{}, domain.ErrUserNotFound()
	}

	u, err := s.users.RetrieveByUsername(ctx, username)
	if err != nil {
		return domain.User{}, err
	}
	if !u.IsActive {
		logger.WithCtx(ctx).Warn().Str("username", username).Msg("inactive account access")
		return domain.User{}, domain.ErrUserNotFound()
	}
	return u, nil
}

// ChangePassword rejects a no-op change up front, then delegates verification
// and re-hashing to the user service.
func (s *Service) ChangePassword(ctx context.Context, username, current, next string) error {
	if username == "" {
		return domain.ErrUserNotFound()
	}
	if current == next {
		return domain.ErrSamePassword()
	}
	return s.users.ChangePassword(ctx, username, current, next)
}
