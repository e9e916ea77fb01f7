package user

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/baechuer/userhub/internal/domain"
	"github.com/baechuer/userhub/internal/logger"
)

// PasswordHasher is re-declared here (rather than imported from the auth
// package) so the user service depends only on what it uses.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash string, password string) error
}

type Service struct {
	repo   Repo
	hasher PasswordHasher
	mailer Mailer
	pub    EventPublisher
}

func NewService(repo Repo, hasher PasswordHasher, mailer Mailer, pub EventPublisher) *Service {
	return &Service{
		repo:   repo,
		hasher: hasher,
		mailer: mailer,
		pub:    pub,
	}
}

type CreateInput struct {
	Username  string
	Password  string
	FirstName string
	LastName  string
	Email     string
	Roles     []string
	Age       int

	// Actor is the authenticated caller creating the record, for audit fields.
	Actor string
}

// Page is one page of a list result.
type Page struct {
	Content []domain.User
	Page    int64
	Size    int64
	Total   int64
}

func (s *Service) Create(ctx context.Context, in CreateInput) (domain.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)

	if _, err := s.repo.GetByUsername(ctx, in.Username); err == nil {
		return domain.User{}, domain.ErrUsernameAlreadyExists()
	}
	if _, err := s.repo.GetByEmail(ctx, in.Email); err == nil {
		return domain.User{}, domain.ErrEmailAlreadyExists()
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return domain.User{}, err
	}

	roles := in.Roles
	if len(roles) == 0 {
		roles = []string{domain.RoleUser}
	}

	now := time.Now().UTC()
	u := domain.User{
		UserID:          uuid.NewString(),
		Username:        in.Username,
		FirstName:       in.FirstName,
		LastName:        in.LastName,
		Email:           in.Email,
		PasswordHash:    hash,
		IsActive:        true,
		Roles:           roles,
		Age:             in.Age,
		CreatedBy:       in.Actor,
		CreatedDate:     now,
		LastUpdatedBy:   in.Actor,
		LastUpdatedDate: now,
	}

	created, err := s.repo.Create(ctx, u)
	if err != nil {
		return domain.User{}, err
	}

	s.notifyCreated(ctx, created)

	return created, nil
}

// notifyCreated sends the welcome email and publishes the created event.
// Both are best-effort: a notification failure never fails the request.
func (s *Service) notifyCreated(ctx context.Context, u domain.User) {
	if s.mailer != nil {
		if err := s.mailer.SendWelcome(ctx, u.Email, u.Username); err != nil {
			logger.WithCtx(ctx).Warn().Err(err).
				Str("user_id", u.UserID).
				Msg("welcome email failed")
		}
	}
	if s.pub != nil {
		evt := UserCreatedEvent{
			UserID:     u.UserID,
			Username:   u.Username,
			Email:      u.Email,
			OccurredAt: time.Now().UTC(),
		}
		if err := s.pub.PublishUserCreated(ctx, evt); err != nil {
			logger.WithCtx(ctx).Warn().Err(err).
				Str("user_id", u.UserID).
				Msg("user.created publish failed")
		}
	}
}

func (s *Service) Retrieve(ctx context.Context, userID string) (domain.User, error) {
	return s.repo.GetByID(ctx, userID)
}

func (s *Service) RetrieveByUsername(ctx context.Context, username string) (domain.User, error) {
	return s.repo.GetByUsername(ctx, username)
}

func (s *Service) RetrieveByEmail(ctx context.Context, email string) (domain.User, error) {
	return s.repo.GetByEmail(ctx, email)
}

// List returns one page of users plus the total match count for the filter.
func (s *Service) List(ctx context.Context, q ListQuery) (Page, error) {
	users, err := s.repo.List(ctx, q)
	if err != nil {
		return Page{}, err
	}
	total, err := s.repo.Count(ctx, q.Filter)
	if err != nil {
		return Page{}, err
	}
	return Page{
		Content: users,
		Page:    q.Page,
		Size:    q.Limit,
		Total:   total,
	}, nil
}

func (s *Service) Update(ctx context.Context, userID string, p Patch, actor string) (domain.User, error) {
	p.LastUpdatedBy = actor
	p.LastUpdatedDate = time.Now().UTC()

	if p.Email != nil {
		if existing, err := s.repo.GetByEmail(ctx, *p.Email); err == nil && existing.UserID != userID {
			return domain.User{}, domain.ErrEmailAlreadyExists()
		}
	}

	return s.repo.Update(ctx, userID, p)
}

func (s *Service) Delete(ctx context.Context, userID string) error {
	return s.repo.Delete(ctx, userID)
}

// ChangePassword verifies the current password before storing a new hash.
func (s *Service) ChangePassword(ctx context.Context, username, current, next string) error {
	u, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		return err
	}

	if err := s.hasher.Compare(u.PasswordHash, current); err != nil {
		return domain.ErrInvalidCredentials()
	}

	hash, err := s.hasher.Hash(next)
	if err != nil {
		return err
	}

	if err := s.repo.UpdatePasswordHash(ctx, u.UserID, hash); err != nil {
		return err
	}

	if s.mailer != nil {
		if err := s.mailer.SendPasswordChanged(ctx, u.Email, u.Username); err != nil {
			logger.WithCtx(ctx).Warn().Err(err).
				Str("user_id", u.UserID).
				Msg("password changed email failed")
		}
	}
	if s.pub != nil {
		evt := PasswordChangedEvent{
			UserID:     u.UserID,
			Username:   u.Username,
			OccurredAt: time.Now().UTC(),
		}
		if err := s.pub.PublishPasswordChanged(ctx, evt); err != nil {
			logger.WithCtx(ctx).Warn().Err(err).
				Str("user_id", u.UserID).
				Msg("user.password_changed publish failed")
		}
	}

	return nil
}
