// internal/app/features/articles/delete.go
package articles

import (
	"context"
	"net/http"

	"github.com/scribehq/scribe/internal/app/features/apierrors"
	"github.com/scribehq/scribe/internal/app/store/audit"
	articlestore "github.com/scribehq/scribe/internal/app/store/articles"
	"github.com/scribehq/scribe/internal/app/system/auth"
	"github.com/scribehq/scribe/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// HandleDelete hard-deletes an article and its tag/category join rows.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		apierrors.Unauthorized(w)
		return
	}

	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		apierrors.BadRequest(w, "invalid article id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	store := articlestore.New(h.DB)
	art, err := store.GetByID(ctx, oid)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "delete article", err)
		return
	}
	if art == nil {
		apierrors.NotFound(w)
		return
	}

	if err := h.Guard.CanWrite(ctx, art, user); err != nil {
		h.renderGuardError(w, r, "delete article", err)
		return
	}

	if _, err := store.Delete(ctx, oid); err != nil {
		h.ErrLog.LogServerError(w, r, "delete article", err)
		return
	}

	h.AuditLog.ContentEvent(ctx, r, audit.EventArticleDeleted, user.ID, art.TeamID, map[string]string{
		"article_id": oid.Hex(),
		"title":      art.Title,
	})

	apierrors.WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}
