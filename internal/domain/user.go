package domain

import "time"

// User is the persisted user record. PasswordHash is never serialized to
// clients; comparison always goes through the password hasher.
type User struct {
	UserID          string
	Username        string
	FirstName       string
	LastName        string
	Email           string
	PasswordHash    string
	IsActive        bool
	Roles           []string
	Age             int
	CreatedBy       string
	CreatedDate     time.Time
	LastUpdatedBy   string
	LastUpdatedDate time.Time
}
