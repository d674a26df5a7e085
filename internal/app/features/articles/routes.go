// internal/app/features/articles/routes.go
package articles

import (
	"github.com/scribehq/scribe/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the article endpoints under whatever base path the caller
// chooses (typically "/articles" from bootstrap).
//
// Viewing a single article is open to anonymous callers because published
// articles are public; the read policy inside the handler decides. Every
// other endpoint requires a signed-in user.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Get("/{id}", h.ServeView)

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)

		pr.Get("/", h.ServeList)
		pr.Post("/", h.HandleCreate)
		pr.Put("/{id}", h.HandleUpdate)
		pr.Delete("/{id}", h.HandleDelete)
	})

	return r
}
