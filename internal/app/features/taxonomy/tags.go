// internal/app/features/taxonomy/tags.go
package taxonomy

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/scribehq/scribe/internal/app/features/apierrors"
	"github.com/scribehq/scribe/internal/app/store/audit"
	membershipstore "github.com/scribehq/scribe/internal/app/store/memberships"
	taxonomystore "github.com/scribehq/scribe/internal/app/store/taxonomy"
	"github.com/scribehq/scribe/internal/app/system/auth"
	"github.com/scribehq/scribe/internal/app/system/htmlsanitize"
	"github.com/scribehq/scribe/internal/app/system/inputval"
	"github.com/scribehq/scribe/internal/app/system/timeouts"
	"github.com/scribehq/scribe/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ServeTagList returns the caller's team tags, newest first.
func (h *Handler) ServeTagList(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		apierrors.Unauthorized(w)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	m, err := membershipstore.New(h.DB).FirstForUser(ctx, user.ID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list tags", err)
		return
	}
	if m == nil {
		apierrors.Forbidden(w)
		return
	}

	tags, err := taxonomystore.New(h.DB).ListTagsForTeam(ctx, m.TeamID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list tags", err)
		return
	}
	apierrors.WriteJSON(w, http.StatusOK, map[string][]models.Tag{"tags": tags})
}

// HandleTagCreate creates a tag in a team the caller belongs to.
func (h *Handler) HandleTagCreate(w http.ResponseWriter, r *http.Request) {
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
	req.Name = htmlsanitize.SanitizeText(req.Name)

	if res := inputval.Validate(&req); res.HasErrors() {
		apierrors.Validation(w, res.Map())
		return
	}
	teamID, _ := primitive.ObjectIDFromHex(req.TeamID)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if _, err := h.Guard.CanCreate(ctx, teamID, user); err != nil {
		h.renderGuardError(w, r, "create tag", err)
		return
	}

	tag, err := taxonomystore.New(h.DB).CreateTag(ctx, teamID, req.Name)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "create tag", err)
		return
	}

	h.AuditLog.ContentEvent(ctx, r, audit.EventTagCreated, user.ID, teamID, map[string]string{
		"tag_id": tag.ID.Hex(),
		"name":   tag.Name,
	})

	apierrors.WriteJSON(w, http.StatusCreated, tag)
}
