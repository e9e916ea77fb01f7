package account_test

import (
	"context"
	"errors"
	"testing"

	"github.com/baechuer/userhub/internal/application/account"
	"github.com/baechuer/userhub/internal/application/user"
	"github.com/baechuer/userhub/internal/domain"
	"github.com/baechuer/userhub/internal/infrastructure/memory"
)

type fakeHasher struct{}

func (fakeHasher) Hash(pw string) (string, error) { return "h:" + pw, nil }
func (fakeHasher) Compare(hash, pw string) error {
	if hash != "h:"+pw {
		return errors.New("mismatch")
	}
	return nil
}

func newTestService(t *testing.T) (*account.Service, *user.Service) {
	t.Helper()
	users := user.NewService(memory.NewUserRepo(), fakeHasher{}, nil, nil)
	return account.NewService(users), users
}

func seedUser(t *testing.T, users *user.Service, username string, active bool) domain.User {
	t.Helper()
	u, err := users.Create(context.Background(), user.CreateInput{
		Username:  username,
		Password:  "Pass1234",
		FirstName: "First",
		LastName:  "Last",
		Email:     username + "@example.com",
		Actor:     "tester",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if !active {
		inactive := false
		if u, err = users.Update(context.Background(), u.UserID, user.Patch{IsActive: &inactive}, "tester"); err != nil {
			t.Fatalf("deactivate: %v", err)
		}
	}
	return u
}

func TestGetAccount(t *testing.T) {
	svc, users := newTestService(t)
	seedUser(t, users, "alice", true)

	u, err := svc.GetAccount(context.Background(), "alice")
	if err != nil {
		t.Fatalf("GetAccount: %v", err)
	}
	if u.Username != "alice" || u.Email != "alice@example.com" {
		t.Fatalf("unexpected profile: %+v", u)
	}
}

func TestGetAccount_UnknownUser(t *testing.T) {
	svc, _ := newTestService(t)

	if _, err := svc.GetAccount(context.Background(), "ghost"); !domain.Is(err, "user_not_found") {
		t.Fatalf("expected user_not_found, got %v", err)
	}
}

func TestGetAccount_EmptyUsername(t *testing.T) {
	svc, _ := newTestService(t)

	if _, err := svc.GetAccount(context.Background(), ""); !domain.Is(err, "user_not_found") {
		t.Fatalf("expected user_not_found, got %v", err)
	}
}

func TestGetAccount_InactiveTreatedAsNotFound(t *testing.T) {
	svc, users := newTestService(t)
	seedUser(t, users, "alice", false)

	if _, err := svc.GetAccount(context.Background(), "alice"); !domain.Is(err, "user_not_found") {
		t.Fatalf("expected user_not_found for inactive account, got %v", err)
	}
}

func TestChangePassword(t *testing.T) {
	svc, users := newTestService(t)
	created := seedUser(t, users, "alice", true)

	if err := svc.ChangePassword(context.Background(), "alice", "Pass1234", "NewPass99"); err != nil {
		t.Fatalf("ChangePassword: %v", err)
	}

	got, err := users.Retrieve(context.Background(), created.UserID)
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	if got.PasswordHash != "h:NewPass99" {
		t.Fatalf("hash not updated: %q", got.PasswordHash)
	}
}

func TestChangePassword_SamePassword(t *testing.T) {
	svc, users := newTestService(t)
	seedUser(t, users, "alice", true)

	err := svc.ChangePassword(context.Background(), "alice", "Pass1234", "Pass1234")
	if !domain.Is(err, "same_password") {
		t.Fatalf("expected same_password, got %v", err)
	}
}

func TestChangePassword_WrongCurrent(t *testing.T) {
	svc, users := newTestService(t)
	seedUser(t, users, "alice", true)

	err := svc.ChangePassword(context.Background(), "alice", "wrong", "NewPass99")
	if !domain.Is(err, "invalid_credentials") {
		t.Fatalf("expected invalid_credentials, got %v", err)
	}
}

func TestChangePassword_EmptyUsername(t *testing.T) {
	svc, _ := newTestService(t)

	err := svc.ChangePassword(context.Background(), "", "a", "b")
	if !domain.Is(err, "user_not_found") {
		t.Fatalf("expected user_not_found, got %v", err)
	}
}
