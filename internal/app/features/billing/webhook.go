// internal/app/features/billing/webhook.go
package billing

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/scribehq/scribe/internal/app/features/apierrors"
	"github.com/scribehq/scribe/internal/app/store/billingevents"
	teamstore "github.com/scribehq/scribe/internal/app/store/teams"
	"github.com/scribehq/scribe/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Routes mounts the billing endpoints (typically at "/billing").
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/webhook", h.HandleWebhook)
	return r
}

// webhookEvent is the provider's delivery payload. Only the fields the
// sync needs are declared; everything else in the body is ignored.
type webhookEvent struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		CustomerID     string `json:"customer_id"`
		SubscriptionID string `json:"subscription_id"`
		ProductID      string `json:"product_id"`
		PlanName       string `json:"plan_name"`
		Status         string `json:"status"`
	} `json:"data"`
}

// HandleWebhook applies a subscription event to the matching team. Events
// are deduplicated by provider event id, so redeliveries return 200
// without touching the team again.
func (h *Handler) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	if !h.verifySignature(r) {
		apierrors.Unauthorized(w)
		return
	}

	var ev webhookEvent
	if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
		apierrors.BadRequest(w, "invalid request body")
		return
	}
	if ev.ID == "" || ev.Data.CustomerID == "" {
		apierrors.BadRequest(w, "missing event id or customer id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	events := billingevents.New(h.DB)
	if err := events.MarkProcessed(ctx, ev.ID, ev.Type); err != nil {
		if errors.Is(err, billingevents.ErrDuplicateEvent) {
			apierrors.WriteJSON(w, http.StatusOK, map[string]bool{"received": true, "duplicate": true})
			return
		}
		h.ErrLog.LogServerError(w, r, "billing webhook", err)
		return
	}

	teams := teamstore.New(h.DB)
	team, err := teams.GetByStripeCustomer(ctx, ev.Data.CustomerID)
	if err != nil {
		h.forgetAndFail(w, r, ctx, events, ev.ID, err)
		return
	}
	if team == nil {
		h.Log.Warn("billing webhook for unknown customer",
			zap.String("event_id", ev.ID),
			zap.String("customer_id", ev.Data.CustomerID))
		apierrors.NotFound(w)
		return
	}

	err = teams.UpdateBilling(ctx, team.ID, teamstore.BillingUpdate{
		StripeSubscriptionID: ev.Data.SubscriptionID,
		StripeProductID:      ev.Data.ProductID,
		PlanName:             ev.Data.PlanName,
		SubscriptionStatus:   ev.Data.Status,
	})
	if err != nil {
		h.forgetAndFail(w, r, ctx, events, ev.ID, err)
		return
	}

	h.AuditLog.SubscriptionUpdated(ctx, r, team.ID, ev.Data.Status, ev.Data.PlanName)

	apierrors.WriteJSON(w, http.StatusOK, map[string]bool{"received": true})
}

// forgetAndFail unwinds the dedup record so the provider's retry can
// reapply the event, then reports the failure.
func (h *Handler) forgetAndFail(w http.ResponseWriter, r *http.Request, ctx context.Context, events *billingevents.Store, eventID string, cause error) {
	if err := events.Forget(ctx, eventID); err != nil {
		h.Log.Error("failed to unwind billing event record",
			zap.String("event_id", eventID),
			zap.Error(err))
	}
	h.ErrLog.LogServerError(w, r, "billing webhook", cause)
}
