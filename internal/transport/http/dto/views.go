package dto

import (
	"time"

	"github.com/baechuer/userhub/internal/application/auth"
	"github.com/baechuer/userhub/internal/application/user"
	"github.com/baechuer/userhub/internal/domain"
)

// LoginResponse is the body returned by a successful login.
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"` // "bearer"
	ExpiresIn   int64  `json:"expires_in"` // seconds
}

func NewLoginResponse(t auth.AuthTokens) LoginResponse {
	return LoginResponse{
		AccessToken: t.AccessToken,
		TokenType:   t.TokenType,
		ExpiresIn:   t.ExpiresIn,
	}
}

// MeResponse exposes the caller's token claims without touching the store.
type MeResponse struct {
	Username string   `json:"username"`
	UserID   string   `json:"user_id"`
	Email    string   `json:"email"`
	Scopes   []string `json:"scopes"`
	Exp      int64    `json:"exp"`
}

func NewMeResponse(id auth.Identity) MeResponse {
	return MeResponse{
		Username: id.Username,
		UserID:   id.UserID,
		Email:    id.Email,
		Scopes:   id.Scopes,
		Exp:      id.Exp.Unix(),
	}
}

// UserView is the standard user payload. The password hash never leaves the
// server.
type UserView struct {
	UserID          string    `json:"user_id"`
	Username        string    `json:"username"`
	FirstName       string    `json:"first_name"`
	LastName        string    `json:"last_name"`
	Email           string    `json:"email"`
	IsActive        bool      `json:"is_active"`
	Roles           []string  `json:"roles"`
	Age             int       `json:"age"`
	CreatedBy       string    `json:"created_by,omitempty"`
	CreatedDate     time.Time `json:"created_date"`
	LastUpdatedBy   string    `json:"last_updated_by,omitempty"`
	LastUpdatedDate time.Time `json:"last_updated_date"`
}

func NewUserView(u domain.User) UserView {
	return UserView{
		UserID:          u.UserID,
		Username:        u.Username,
		FirstName:       u.FirstName,
		LastName:        u.LastName,
		Email:           u.Email,
		IsActive:        u.IsActive,
		Roles:           u.Roles,
		Age:             u.Age,
		CreatedBy:       u.CreatedBy,
		CreatedDate:     u.CreatedDate,
		LastUpdatedBy:   u.LastUpdatedBy,
		LastUpdatedDate: u.LastUpdatedDate,
	}
}

// PageResponse is the paginated list payload. Page counts skipped documents,
// matching the list query semantics.
type PageResponse struct {
	Content []UserView `json:"content"`
	Page    int64      `json:"page"`
	Size    int64      `json:"size"`
	Total   int64      `json:"total"`
}

func NewPageResponse(p user.Page) PageResponse {
	views := make([]UserView, 0, len(p.Content))
	for _, u := range p.Content {
		views = append(views, NewUserView(u))
	}
	return PageResponse{
		Content: views,
		Page:    p.Page,
		Size:    p.Size,
		Total:   p.Total,
	}
}

// StatusResponse is used for simple acknowledgements.
type StatusResponse struct {
	Status string `json:"status"`
}
