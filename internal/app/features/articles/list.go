// internal/app/features/articles/list.go
package articles

import (
	"context"
	"net/http"
	"time"

	"github.com/scribehq/scribe/internal/app/features/apierrors"
	articlestore "github.com/scribehq/scribe/internal/app/store/articles"
	membershipstore "github.com/scribehq/scribe/internal/app/store/memberships"
	"github.com/scribehq/scribe/internal/app/system/auth"
	"github.com/scribehq/scribe/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type listResponse struct {
	Articles []articleSummary `json:"articles"`
}

// articleSummary is the list row: no content body, denormalized author name.
type articleSummary struct {
	ID          primitive.ObjectID `json:"id"`
	Title       string             `json:"title"`
	Slug        string             `json:"slug"`
	Excerpt     string             `json:"excerpt"`
	Status      string             `json:"status"`
	AuthorName  string             `json:"author_name"`
	UpdatedAt   time.Time          `json:"updated_at"`
	PublishedAt *time.Time         `json:"published_at,omitempty"`
}

// ServeList returns the caller's team articles, most recently updated first.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		apierrors.Unauthorized(w)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	m, err := membershipstore.New(h.DB).FirstForUser(ctx, user.ID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list articles", err)
		return
	}
	if m == nil {
		apierrors.Forbidden(w)
		return
	}

	arts, err := articlestore.New(h.DB).ListForTeam(ctx, m.TeamID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list articles", err)
		return
	}

	resp := listResponse{Articles: make([]articleSummary, 0, len(arts))}
	for _, a := range arts {
		resp.Articles = append(resp.Articles, articleSummary{
			ID:          a.ID,
			Title:       a.Title,
			Slug:        a.Slug,
			Excerpt:     a.Excerpt,
			Status:      a.Status,
			AuthorName:  a.AuthorName,
			UpdatedAt:   a.UpdatedAt,
			PublishedAt: a.PublishedAt,
		})
	}
	apierrors.WriteJSON(w, http.StatusOK, resp)
}
