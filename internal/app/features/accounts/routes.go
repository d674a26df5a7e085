// internal/app/features/accounts/routes.go
package accounts

import (
	"github.com/scribehq/scribe/internal/app/features/authgoogle"
	"github.com/scribehq/scribe/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the account endpoints (typically at "/auth"). The Google
// OAuth routes live under the same prefix, so they are mounted here.
func Routes(h *Handler, g *authgoogle.Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Post("/signup", h.HandleSignup)
	r.Post("/signin", h.HandleSignin)

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Post("/signout", h.HandleSignout)
		pr.Delete("/account", h.HandleDeleteAccount)
	})

	r.Mount("/google", authgoogle.Routes(g))

	return r
}
