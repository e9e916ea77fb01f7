package user

import (
	"context"
	"time"

	"github.com/baechuer/userhub/internal/domain"
)

/*
Repo
----
Persistence port for users. Only describes WHAT the user service needs,
not HOW it's stored.
*/
type Repo interface {
	Create(ctx context.Context, u domain.User) (domain.User, error)
	GetByID(ctx context.Context, userID string) (domain.User, error)
	GetByUsername(ctx context.Context, username string) (domain.User, error)
	GetByEmail(ctx context.Context, email string) (domain.User, error)

	// List returns one page of users matching q. Count returns the total
	// number of matches for the same filter, ignoring pagination.
	List(ctx context.Context, q ListQuery) ([]domain.User, error)
	Count(ctx context.Context, filter map[string]any) (int64, error)

	// Update applies a merge patch: only non-nil fields of p are written.
	Update(ctx context.Context, userID string, p Patch) (domain.User, error)
	UpdatePasswordHash(ctx context.Context, userID string, newHash string) error
	Delete(ctx context.Context, userID string) error
}

// ListQuery is a validated, storage-agnostic list request. Filter uses the
// document store's operator syntax but has already passed the operator
// allow-list check at the transport boundary.
type ListQuery struct {
	Filter map[string]any
	Page   int64
	Limit  int64
	Sort   []SortField
}

type SortField struct {
	Key  string
	Desc bool
}

// Patch is a merge-patch over a user record; nil fields are left untouched.
type Patch struct {
	FirstName *string
	LastName  *string
	Email     *string
	IsActive  *bool
	Roles     []string
	Age       *int

	LastUpdatedBy   string
	LastUpdatedDate time.Time
}

/*
Mailer
------
Outbound notification port. Implementations must be best-effort: failures
are logged by the caller, never surfaced to the client.
*/
type Mailer interface {
	SendWelcome(ctx context.Context, toEmail, username string) error
	SendPasswordChanged(ctx context.Context, toEmail, username string) error
}

/*
EventPublisher
--------------
Domain event port, backed by the message broker.
*/
type UserCreatedEvent struct {
	UserID     string    `json:"user_id"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	OccurredAt time.Time `json:"occurred_at"`
}

type PasswordChangedEvent struct {
	UserID     string    `json:"user_id"`
	Username   string    `json:"username"`
	OccurredAt time.Time `json:"occurred_at"`
}

type EventPublisher interface {
	PublishUserCreated(ctx context.Context, evt UserCreatedEvent) error
	PublishPasswordChanged(ctx context.Context, evt PasswordChangedEvent) error
}
