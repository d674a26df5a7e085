// internal/app/features/teams/handler.go
package teams

import (
	"context"
	"net/http"

	"github.com/scribehq/scribe/internal/app/features/apierrors"
	teamstore "github.com/scribehq/scribe/internal/app/store/teams"
	"github.com/scribehq/scribe/internal/app/system/auth"
	"github.com/scribehq/scribe/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the current user's team.
type Handler struct {
	DB     *mongo.Database
	Log    *zap.Logger
	ErrLog *apierrors.ErrorLogger
}

func New(db *mongo.Database, errLog *apierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{DB: db, Log: logger, ErrLog: errLog}
}

// Routes mounts the team endpoints (typically at "/team").
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Get("/", h.ServeCurrent)
	})
	return r
}

// ServeCurrent returns the caller's team with its member list. Users on
// multiple teams get the one they joined first.
func (h *Handler) ServeCurrent(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		apierrors.Unauthorized(w)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	team, err := teamstore.New(h.DB).GetForUser(ctx, user.ID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load team", err)
		return
	}
	if team == nil {
		apierrors.NotFound(w)
		return
	}
	apierrors.WriteJSON(w, http.StatusOK, team)
}
