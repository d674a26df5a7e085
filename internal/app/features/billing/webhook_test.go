package billing_test

import (
	"net/http"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"github.com/scribehq/scribe/internal/app/features/apierrors"
	"github.com/scribehq/scribe/internal/app/features/billing"
	teamstore "github.com/scribehq/scribe/internal/app/store/teams"
	"github.com/scribehq/scribe/internal/testutil"
)

const testWebhookSecret = "whsec_test_secret"

func newTestHandler(t *testing.T) (*billing.Handler, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	handler := billing.New(db, testWebhookSecret, apierrors.NewErrorLogger(logger), nil, logger)
	return handler, testutil.NewFixtures(t, db)
}

func subscriptionEvent(id, customerID string) map[string]any {
	return map[string]any{
		"id":   id,
		"type": "customer.subscription.updated",
		"data": map[string]any{
			"customer_id":     customerID,
			"subscription_id": "sub_1",
			"product_id":      "prod_1",
			"plan_name":       "Pro",
			"status":          "active",
		},
	}
}

func TestHandleWebhook_AppliesSubscription(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx := testutil.TestContext(t)

	team := fixtures.CreateTeamWithStripe(ctx, "Acme", "cus_123")

	req := testutil.NewJSONRequest(t, "POST", "/billing/webhook", subscriptionEvent("evt_1", "cus_123"))
	req.Header.Set("X-Webhook-Secret", testWebhookSecret)

	rec := testutil.NewRecorder()
	handler.HandleWebhook(rec, req)

	rec.AssertStatus(t, http.StatusOK)

	got, err := teamstore.New(fixtures.DB()).GetByID(ctx, team.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.SubscriptionStatus != "active" || got.PlanName != "Pro" || got.StripeSubscriptionID != "sub_1" {
		t.Errorf("billing state not applied: %+v", got)
	}
}

func TestHandleWebhook_DuplicateDelivery(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx := testutil.TestContext(t)

	team := fixtures.CreateTeamWithStripe(ctx, "Acme", "cus_123")

	first := testutil.NewJSONRequest(t, "POST", "/billing/webhook", subscriptionEvent("evt_1", "cus_123"))
	first.Header.Set("X-Webhook-Secret", testWebhookSecret)
	recA := testutil.NewRecorder()
	handler.HandleWebhook(recA, first)
	recA.AssertStatus(t, http.StatusOK)

	// Flip the status in the store, then redeliver the same event. The
	// duplicate must be acknowledged without reapplying anything.
	if err := teamstore.New(fixtures.DB()).UpdateBilling(ctx, team.ID, teamstore.BillingUpdate{SubscriptionStatus: "canceled"}); err != nil {
		t.Fatalf("UpdateBilling failed: %v", err)
	}

	second := testutil.NewJSONRequest(t, "POST", "/billing/webhook", subscriptionEvent("evt_1", "cus_123"))
	second.Header.Set("X-Webhook-Secret", testWebhookSecret)
	recB := testutil.NewRecorder()
	handler.HandleWebhook(recB, second)

	recB.AssertStatus(t, http.StatusOK)
	recB.AssertContains(t, "duplicate")

	got, err := teamstore.New(fixtures.DB()).GetByID(ctx, team.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.SubscriptionStatus != "canceled" {
		t.Errorf("duplicate delivery must not reapply the event: %+v", got)
	}
}

func TestHandleWebhook_BadSecret(t *testing.T) {
	handler, _ := newTestHandler(t)

	req := testutil.NewJSONRequest(t, "POST", "/billing/webhook", subscriptionEvent("evt_1", "cus_123"))
	req.Header.Set("X-Webhook-Secret", "wrong")

	rec := testutil.NewRecorder()
	handler.HandleWebhook(rec, req)

	rec.AssertStatus(t, http.StatusUnauthorized)
}

func TestHandleWebhook_MissingSecretConfig(t *testing.T) {
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	handler := billing.New(db, "", apierrors.NewErrorLogger(logger), nil, logger)

	// An unconfigured secret rejects everything, including empty headers.
	req := testutil.NewJSONRequest(t, "POST", "/billing/webhook", subscriptionEvent("evt_1", "cus_123"))
	rec := testutil.NewRecorder()
	handler.HandleWebhook(rec, req)

	rec.AssertStatus(t, http.StatusUnauthorized)
}

func TestHandleWebhook_UnknownCustomer(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx := testutil.TestContext(t)

	req := testutil.NewJSONRequest(t, "POST", "/billing/webhook", subscriptionEvent("evt_9", "cus_ghost"))
	req.Header.Set("X-Webhook-Secret", testWebhookSecret)

	rec := testutil.NewRecorder()
	handler.HandleWebhook(rec, req)

	rec.AssertStatus(t, http.StatusNotFound)

	// The event is still recorded so a redelivery stays a duplicate.
	count, err := fixtures.DB().Collection("billing_events").CountDocuments(ctx, bson.M{})
	if err != nil {
		t.Fatalf("CountDocuments failed: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 recorded event, got %d", count)
	}
}

func TestHandleWebhook_MissingIDs(t *testing.T) {
	handler, _ := newTestHandler(t)

	req := testutil.NewJSONRequest(t, "POST", "/billing/webhook", map[string]any{"type": "x"})
	req.Header.Set("X-Webhook-Secret", testWebhookSecret)

	rec := testutil.NewRecorder()
	handler.HandleWebhook(rec, req)

	rec.AssertStatus(t, http.StatusBadRequest)
}
