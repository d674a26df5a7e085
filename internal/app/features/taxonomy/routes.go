// internal/app/features/taxonomy/routes.go
package taxonomy

import (
	"github.com/scribehq/scribe/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// CategoryRoutes mounts the category endpoints (typically at "/categories").
func CategoryRoutes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Get("/", h.ServeCategoryList)
		pr.Post("/", h.HandleCategoryCreate)
	})
	return r
}

// TagRoutes mounts the tag endpoints (typically at "/tags").
func TagRoutes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Get("/", h.ServeTagList)
		pr.Post("/", h.HandleTagCreate)
	})
	return r
}
