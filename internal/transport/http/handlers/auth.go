package http_handlers

import (
	"net/http"

	"github.com/baechuer/userhub/internal/application/auth"
	"github.com/baechuer/userhub/internal/logger"
	"github.com/baechuer/userhub/internal/transport/http/dto"
	"github.com/baechuer/userhub/internal/transport/http/response"
)

type AuthHandler struct {
	svc *auth.Service
}

func NewAuthHandler(svc *auth.Service) *AuthHandler {
	return &AuthHandler{svc: svc}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		response.WriteError(w, r, err)
		return
	}

	u, err := h.svc.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		logger.WithCtx(r.Context()).Info().
			Str("username", req.Username).
			Msg("login_failed")
		response.WriteError(w, r, err)
		return
	}

	tokens, err := h.svc.IssueToken(u)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	logger.WithCtx(r.Context()).Info().
		Str("user_id", u.UserID).
		Str("username", u.Username).
		Msg("login_ok")

	response.OK(w, dto.NewLoginResponse(tokens))
}
