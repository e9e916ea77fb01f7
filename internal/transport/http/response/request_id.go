package response

import (
	"net/http"

	appctx "github.com/baechuer/userhub/internal/pkg/context"
)

// RequestIDFromContext extracts the request id attached by the request-id
// middleware, or "" when none is present.
func RequestIDFromContext(r *http.Request) string {
	if r == nil {
		return ""
	}
	return appctx.GetRequestID(r.Context())
}
