package router

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
)

type HealthHandler interface {
	Healthz(w http.ResponseWriter, r *http.Request)
	Readyz(w http.ResponseWriter, r *http.Request)
}

type AuthHandler interface {
	Login(w http.ResponseWriter, r *http.Request)
}

type AccountHandler interface {
	Me(w http.ResponseWriter, r *http.Request)
	GetAccount(w http.ResponseWriter, r *http.Request)
	ChangePassword(w http.ResponseWriter, r *http.Request)
}

type UserHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	Retrieve(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

type Deps struct {
	Health  HealthHandler
	Auth    AuthHandler
	Account AccountHandler
	User    UserHandler

	// ContextPath prefixes every route except the health probes, e.g. "/api".
	ContextPath string

	// Base middleware applied to every route, outermost first.
	Base []func(http.Handler) http.Handler

	// AuthMW is the token interceptor; it consults its own allow list.
	AuthMW func(http.Handler) http.Handler

	// LoginRateMW throttles the login route; nil disables throttling.
	LoginRateMW func(http.Handler) http.Handler
}

func New(deps Deps) (http.Handler, error) {
	if deps.Health == nil {
		return nil, fmt.Errorf("nil Health handler")
	}
	if deps.Auth == nil {
		return nil, fmt.Errorf("nil Auth handler")
	}
	if deps.Account == nil {
		return nil, fmt.Errorf("nil Account handler")
	}
	if deps.User == nil {
		return nil, fmt.Errorf("nil User handler")
	}
	if deps.AuthMW == nil {
		return nil, fmt.Errorf("nil Auth middleware")
	}
	if deps.ContextPath == "" || deps.ContextPath[0] != '/' {
		return nil, fmt.Errorf("context path must start with '/', got %q", deps.ContextPath)
	}

	r := chi.NewRouter()
	for _, mw := range deps.Base {
		r.Use(mw)
	}
	r.Use(deps.AuthMW)

	r.Get("/healthz", deps.Health.Healthz)
	r.Get("/readyz", deps.Health.Readyz)

	r.Route(deps.ContextPath, func(r chi.Router) {
		if deps.LoginRateMW != nil {
			r.With(deps.LoginRateMW).Post("/auth/login", deps.Auth.Login)
		} else {
			r.Post("/auth/login", deps.Auth.Login)
		}

		r.Get("/me", deps.Account.Me)
		r.Get("/account", deps.Account.GetAccount)
		r.Post("/account/change-password", deps.Account.ChangePassword)

		r.Route("/users", func(r chi.Router) {
			r.Post("/", deps.User.Create)
			r.Get("/", deps.User.List)
			r.Get("/{user_id}", deps.User.Retrieve)
			r.Put("/{user_id}", deps.User.Update)
			r.Delete("/{user_id}", deps.User.Delete)
		})
	})

	return r, nil
}
