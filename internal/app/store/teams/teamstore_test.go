package teamstore_test

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	teamstore "github.com/scribehq/scribe/internal/app/store/teams"
	"github.com/scribehq/scribe/internal/domain/models"
	"github.com/scribehq/scribe/internal/testutil"
)

func TestGetForUser_AssemblesMembers(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	fixtures := testutil.NewFixtures(t, db)
	store := teamstore.New(db)

	team := fixtures.CreateTeam(ctx, "Acme")
	owner := fixtures.CreateUser(ctx, "Olive Owner", "olive@test.com", "password123")
	member := fixtures.CreateUser(ctx, "Max Member", "max@test.com", "password123")
	fixtures.CreateMembership(ctx, owner.ID, team.ID, models.RoleOwner)
	fixtures.CreateMembership(ctx, member.ID, team.ID, models.RoleMember)

	got, err := store.GetForUser(ctx, owner.ID)
	if err != nil {
		t.Fatalf("GetForUser failed: %v", err)
	}
	if got == nil {
		t.Fatal("GetForUser returned nil for a team member")
	}
	if got.ID != team.ID || got.Name != "Acme" {
		t.Errorf("team: got %+v", got.Team)
	}
	if len(got.Members) != 2 {
		t.Fatalf("members: got %d, want 2", len(got.Members))
	}
	roles := map[string]string{}
	for _, m := range got.Members {
		roles[m.User.Email] = m.Role
	}
	if roles["olive@test.com"] != models.RoleOwner || roles["max@test.com"] != models.RoleMember {
		t.Errorf("member roles wrong: %v", roles)
	}
}

func TestGetForUser_NoTeam(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	store := teamstore.New(db)

	got, err := store.GetForUser(ctx, primitive.NewObjectID())
	if err != nil {
		t.Fatalf("GetForUser failed: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil for teamless user, got %+v", got)
	}
}

func TestUpdateBilling_RoundTrip(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	fixtures := testutil.NewFixtures(t, db)
	store := teamstore.New(db)

	team := fixtures.CreateTeamWithStripe(ctx, "Acme", "cus_123")

	err := store.UpdateBilling(ctx, team.ID, teamstore.BillingUpdate{
		StripeSubscriptionID: "sub_456",
		StripeProductID:      "prod_789",
		PlanName:             "Pro",
		SubscriptionStatus:   "active",
	})
	if err != nil {
		t.Fatalf("UpdateBilling failed: %v", err)
	}

	got, err := store.GetByStripeCustomer(ctx, "cus_123")
	if err != nil {
		t.Fatalf("GetByStripeCustomer failed: %v", err)
	}
	if got == nil {
		t.Fatal("GetByStripeCustomer returned nil")
	}
	if got.StripeSubscriptionID != "sub_456" || got.PlanName != "Pro" || got.SubscriptionStatus != "active" {
		t.Errorf("billing fields did not round-trip: %+v", got)
	}
}

func TestGetByStripeCustomer_Unknown(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	store := teamstore.New(db)

	got, err := store.GetByStripeCustomer(ctx, "cus_nope")
	if err != nil {
		t.Fatalf("GetByStripeCustomer failed: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil for unknown customer, got %+v", got)
	}
}
