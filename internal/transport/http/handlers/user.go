package http_handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/baechuer/userhub/internal/application/user"
	"github.com/baechuer/userhub/internal/domain"
	"github.com/baechuer/userhub/internal/logger"
	"github.com/baechuer/userhub/internal/transport/http/dto"
	"github.com/baechuer/userhub/internal/transport/http/middleware"
	"github.com/baechuer/userhub/internal/transport/http/query"
	"github.com/baechuer/userhub/internal/transport/http/response"
)

type UserHandler struct {
	svc *user.Service
}

func NewUserHandler(svc *user.Service) *UserHandler {
	return &UserHandler{svc: svc}
}

func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateUserRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		response.WriteError(w, r, err)
		return
	}

	actor := "system"
	if id, ok := middleware.IdentityFromContext(r.Context()); ok {
		actor = id.Username
	}

	u, err := h.svc.Create(r.Context(), user.CreateInput{
		Username:  req.Username,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Roles:     req.Roles,
		Age:       req.Age,
		Actor:     actor,
	})
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	logger.WithCtx(r.Context()).Info().
		Str("user_id", u.UserID).
		Str("username", u.Username).
		Str("created_by", actor).
		Msg("user_created")

	response.Created(w, dto.NewUserView(u))
}

func (h *UserHandler) Retrieve(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "user_id")
	if userID == "" {
		response.WriteError(w, r, domain.ErrMissingField("user_id"))
		return
	}

	u, err := h.svc.Retrieve(r.Context(), userID)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.OK(w, dto.NewUserView(u))
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	q, err := query.ParseList(r)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	page, err := h.svc.List(r.Context(), q)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.OK(w, dto.NewPageResponse(page))
}

func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "user_id")
	if userID == "" {
		response.WriteError(w, r, domain.ErrMissingField("user_id"))
		return
	}

	var req dto.UpdateUserRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		response.WriteError(w, r, err)
		return
	}
	if req.IsEmpty() {
		response.WriteError(w, r, domain.ErrInvalidField("body", "no fields to update"))
		return
	}

	actor := "system"
	if id, ok := middleware.IdentityFromContext(r.Context()); ok {
		actor = id.Username
	}

	u, err := h.svc.Update(r.Context(), userID, user.Patch{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		IsActive:  req.IsActive,
		Roles:     req.Roles,
		Age:       req.Age,
	}, actor)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	logger.WithCtx(r.Context()).Info().
		Str("user_id", u.UserID).
		Str("updated_by", actor).
		Msg("user_updated")

	response.OK(w, dto.NewUserView(u))
}

func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "user_id")
	if userID == "" {
		response.WriteError(w, r, domain.ErrMissingField("user_id"))
		return
	}

	if err := h.svc.Delete(r.Context(), userID); err != nil {
		response.WriteError(w, r, err)
		return
	}

	logger.WithCtx(r.Context()).Info().
		Str("user_id", userID).
		Msg("user_deleted")

	response.NoContent(w)
}
