package auth

import (
	"context"
	"time"

	"github.com/baechuer/userhub/internal/domain"
)

// Identity is the claim set carried by an access token.
// Token holds the raw token string; it is set only when decoding, so that
// downstream code can log or re-derive it, and is never part of the payload
// on the wire.
type Identity struct {
	Username string
	UserID   string
	Email    string
	Scopes   []string
	Exp      time.Time
	Token    string
}

/*
CredentialReader
----------------
Persistence port for credential lookup.
Only describes WHAT the auth service needs, not HOW it's stored.
*/
type CredentialReader interface {
	GetByUsername(ctx context.Context, username string) (domain.User, error)
}

/*
PasswordHasher
--------------
Abstracts bcrypt.
*/
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash string, password string) error // nil if match
}

/*
TokenCodec
----------
Issues and verifies access tokens (JWT).
Used by the service + the auth middleware.
*/
type TokenCodec interface {
	// Issue signs id with an expiry of now+ttl. The expiry is always
	// recomputed by the codec; any Exp set on id is ignored.
	Issue(id Identity, ttl time.Duration) (string, error)
	// Decode verifies the signature, then the expiry, and returns the
	// embedded identity with Token set to the raw input.
	Decode(token string) (Identity, error)
}
