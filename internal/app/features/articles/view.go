// internal/app/features/articles/view.go
package articles

import (
	"context"
	"net/http"

	"github.com/scribehq/scribe/internal/app/features/apierrors"
	articlestore "github.com/scribehq/scribe/internal/app/store/articles"
	"github.com/scribehq/scribe/internal/app/system/auth"
	"github.com/scribehq/scribe/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ServeView returns one article with its author, tags, and categories.
//
// Published articles are readable by anyone, including anonymous callers.
// Draft and unpublished articles require team membership, and the response
// distinguishes 401 (no session) from 403 (no membership). That does leak
// that a hidden article exists; callers that must not leak existence go
// through the service lookup instead, which collapses both to not found.
func (h *Handler) ServeView(w http.ResponseWriter, r *http.Request) {
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		apierrors.BadRequest(w, "invalid article id")
		return
	}

	user, _ := auth.CurrentUser(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	store := articlestore.New(h.DB)
	art, err := store.GetByID(ctx, oid)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load article", err)
		return
	}
	if art == nil {
		apierrors.NotFound(w)
		return
	}

	if err := h.Guard.CanRead(ctx, art, user); err != nil {
		h.renderGuardError(w, r, "read article", err)
		return
	}

	agg, err := store.GetAggregate(ctx, oid)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "assemble article", err)
		return
	}
	if agg == nil {
		// Deleted between the two reads.
		apierrors.NotFound(w)
		return
	}
	apierrors.WriteJSON(w, http.StatusOK, agg)
}
