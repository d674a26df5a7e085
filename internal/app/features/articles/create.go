// internal/app/features/articles/create.go
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
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// HandleCreate creates an article in a team the caller belongs to.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		apierrors.Unauthorized(w)
		return
	}

	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierrors.BadRequest(w, "invalid request body")
		return
	}

	req.Title = htmlsanitize.SanitizeText(req.Title)
	req.Content = htmlsanitize.Sanitize(req.Content)
	req.Excerpt = htmlsanitize.SanitizeText(req.Excerpt)

	if res := inputval.Validate(&req); res.HasErrors() {
		apierrors.Validation(w, res.Map())
		return
	}

	teamID, _ := primitive.ObjectIDFromHex(req.TeamID)
	tagIDs, ok := parseIDList(req.TagIDs)
	if !ok {
		apierrors.BadRequest(w, "invalid tag id")
		return
	}
	catIDs, ok := parseIDList(req.CategoryIDs)
	if !ok {
		apierrors.BadRequest(w, "invalid category id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	if _, err := h.Guard.CanCreate(ctx, teamID, user); err != nil {
		h.renderGuardError(w, r, "create article", err)
		return
	}

	store := articlestore.New(h.DB)
	created, err := store.Create(ctx, articlestore.CreateInput{
		TeamID:      teamID,
		AuthorID:    user.ID,
		AuthorName:  user.Name,
		Title:       req.Title,
		Content:     req.Content,
		Excerpt:     req.Excerpt,
		Status:      req.Status,
		TagIDs:      tagIDs,
		CategoryIDs: catIDs,
	})
	if err != nil {
		h.ErrLog.LogServerError(w, r, "create article", err)
		return
	}

	h.AuditLog.ContentEvent(ctx, r, audit.EventArticleCreated, user.ID, teamID, map[string]string{
		"article_id": created.ID.Hex(),
		"title":      created.Title,
	})

	agg, err := store.GetAggregate(ctx, created.ID)
	if err != nil || agg == nil {
		// The article exists; fall back to the bare document.
		if err != nil {
			h.Log.Warn("failed to assemble created article",
				zap.String("article_id", created.ID.Hex()),
				zap.Error(err))
		}
		apierrors.WriteJSON(w, http.StatusCreated, created)
		return
	}
	apierrors.WriteJSON(w, http.StatusCreated, agg)
}
