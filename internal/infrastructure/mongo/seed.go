package mongo

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/baechuer/userhub/internal/domain"
	"github.com/baechuer/userhub/internal/logger"
)

type SeederHasher interface {
	Hash(password string) (string, error)
}

type SeederRepo interface {
	Create(ctx context.Context, u domain.User) (domain.User, error)
	Count(ctx context.Context, filter map[string]any) (int64, error)
}

// SeedUsers creates the dev bootstrap accounts. Restart safe: skipped when
// any user already exists, and duplicate errors are ignored.
func SeedUsers(ctx context.Context, repo SeederRepo, hasher SeederHasher) {
	if n, err := repo.Count(ctx, nil); err != nil || n > 0 {
		return
	}

	type seedUser struct {
		Username string
		Pass     string
		Email    string
		Roles    []string
	}

	seeds := []seedUser{
		{Username: "admin", Pass: "admin", Email: "admin@example.com", Roles: []string{domain.RoleAdmin, domain.RoleUser}},
		{Username: "user", Pass: "user", Email: "user@example.com", Roles: []string{domain.RoleUser}},
	}

	now := time.Now().UTC()
	for _, s := range seeds {
		hash, err := hasher.Hash(s.Pass)
		if err != nil {
			logger.Logger.Warn().Err(err).Str("username", s.Username).Msg("seed hash failed")
			continue
		}

		_, err = repo.Create(ctx, domain.User{
			UserID:          uuid.NewString(),
			Username:        s.Username,
			FirstName:       s.Username,
			LastName:        s.Username,
			Email:           s.Email,
			PasswordHash:    hash,
			IsActive:        true,
			Roles:           s.Roles,
			CreatedBy:       "seed",
			CreatedDate:     now,
			LastUpdatedBy:   "seed",
			LastUpdatedDate: now,
		})
		if err != nil {
			// duplicate on restart, ignore
			continue
		}
	}

	logger.Logger.Info().Msg("dev users seeded")
}
