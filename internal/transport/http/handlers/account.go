package http_handlers

import (
	"net/http"

	"github.com/baechuer/userhub/internal/application/account"
	"github.com/baechuer/userhub/internal/domain"
	"github.com/baechuer/userhub/internal/logger"
	"github.com/baechuer/userhub/internal/transport/http/dto"
	"github.com/baechuer/userhub/internal/transport/http/middleware"
	"github.com/baechuer/userhub/internal/transport/http/response"
)

type AccountHandler struct {
	svc *account.Service
}

func NewAccountHandler(svc *account.Service) *AccountHandler {
	return &AccountHandler{svc: svc}
}

// Me returns the caller's token claims. No store round-trip.
func (h *AccountHandler) Me(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		response.WriteError(w, r, domain.ErrTokenMissing())
		return
	}
	response.OK(w, dto.NewMeResponse(id))
}

// GetAccount returns the caller's full profile from the store.
func (h *AccountHandler) GetAccount(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		response.WriteError(w, r, domain.ErrTokenMissing())
		return
	}

	u, err := h.svc.GetAccount(r.Context(), id.Username)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.OK(w, dto.NewUserView(u))
}

func (h *AccountHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		response.WriteError(w, r, domain.ErrTokenMissing())
		return
	}

	var req dto.ChangePasswordRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		response.WriteError(w, r, err)
		return
	}

	if err := h.svc.ChangePassword(r.Context(), id.Username, req.CurrentPassword, req.NewPassword); err != nil {
		response.WriteError(w, r, err)
		return
	}

	logger.WithCtx(r.Context()).Info().
		Str("username", id.Username).
		Msg("password_changed")

	response.OK(w, dto.StatusResponse{Status: "ok"})
}
