// internal/app/features/articles/update.go
package articles

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/scribehq/scribe/internal/app/features/apierrors"
	"github.com/scribehq/scribe/internal/app/store/audit"
	articlestore "github.com/scribehq/scribe/internal/app/store/articles"
	"github.com/scribehq/scribe/internal/app/system/auth"
	"github.com/scribehq/scribe/internal/app/system/htmlsanitize"
	"github.com/scribehq/scribe/internal/app/system/inputval"
	"github.com/scribehq/scribe/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// HandleUpdate applies a partial update to an article. Absent fields keep
// their stored values; a present tag or category list, even an empty one,
// replaces the full association set.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
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

	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierrors.BadRequest(w, "invalid request body")
		return
	}

	if req.Title != nil {
		*req.Title = htmlsanitize.SanitizeText(*req.Title)
	}
	if req.Content != nil {
		*req.Content = htmlsanitize.Sanitize(*req.Content)
	}
	if req.Excerpt != nil {
		*req.Excerpt = htmlsanitize.SanitizeText(*req.Excerpt)
	}

	if res := inputval.Validate(&req); res.HasErrors() {
		apierrors.Validation(w, res.Map())
		return
	}

	var tagIDs, catIDs *[]primitive.ObjectID
	if req.TagIDs != nil {
		ids, ok := parseIDList(*req.TagIDs)
		if !ok {
			apierrors.BadRequest(w, "invalid tag id")
			return
		}
		tagIDs = &ids
	}
	if req.CategoryIDs != nil {
		ids, ok := parseIDList(*req.CategoryIDs)
		if !ok {
			apierrors.BadRequest(w, "invalid category id")
			return
		}
		catIDs = &ids
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	store := articlestore.New(h.DB)
	art, err := store.GetByID(ctx, oid)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "update article", err)
		return
	}
	if art == nil {
		apierrors.NotFound(w)
		return
	}

	if err := h.Guard.CanWrite(ctx, art, user); err != nil {
		h.renderGuardError(w, r, "update article", err)
		return
	}

	updated, err := store.Update(ctx, oid, articlestore.UpdateInput{
		Title:       req.Title,
		Content:     req.Content,
		Excerpt:     req.Excerpt,
		Status:      req.Status,
		TagIDs:      tagIDs,
		CategoryIDs: catIDs,
	})
	if err != nil {
		h.ErrLog.LogServerError(w, r, "update article", err)
		return
	}
	if updated == nil {
		apierrors.NotFound(w)
		return
	}

	h.AuditLog.ContentEvent(ctx, r, audit.EventArticleUpdated, user.ID, art.TeamID, map[string]string{
		"article_id": oid.Hex(),
		"title":      updated.Title,
	})

	agg, err := store.GetAggregate(ctx, oid)
	if err != nil || agg == nil {
		apierrors.WriteJSON(w, http.StatusOK, updated)
		return
	}
	apierrors.WriteJSON(w, http.StatusOK, agg)
}
