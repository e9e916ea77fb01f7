package middleware

import (
	"net/http"
	"strings"

	"github.com/baechuer/userhub/internal/application/auth"
	"github.com/baechuer/userhub/internal/domain"
	"github.com/baechuer/userhub/internal/logger"
)

type TokenDecoder interface {
	Decode(token string) (auth.Identity, error)
}

type WriteErrFunc func(http.ResponseWriter, *http.Request, error)

// Auth verifies Authorization: Bearer <access_token> on every request whose
// path is not on the allow list, and injects the decoded identity into the
// request context. Missing, malformed, invalid and expired tokens all return
// 401 with distinct codes.
func Auth(codec TokenDecoder, allow *AllowList, writeErr WriteErrFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if allow.Allows(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			h := r.Header.Get("Authorization")
			if h == "" {
				writeErr(w, r, domain.ErrTokenMissing())
				return
			}

			// The scheme is case-sensitive: only "Bearer" is accepted.
			parts := strings.SplitN(h, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" {
				writeErr(w, r, domain.ErrTokenInvalid())
				return
			}

			raw := strings.TrimSpace(parts[1])
			if raw == "" {
				writeErr(w, r, domain.ErrTokenInvalid())
				return
			}

			id, err := codec.Decode(raw)
			if err != nil {
				logger.WithCtx(r.Context()).Debug().
					Str("path", r.URL.Path).
					Err(err).
					Msg("token rejected")
				writeErr(w, r, err)
				return
			}

			if strings.TrimSpace(id.Username) == "" {
				writeErr(w, r, domain.ErrTokenInvalid())
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
		})
	}
}
