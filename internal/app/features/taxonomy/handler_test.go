package taxonomy_test

import (
	"net/http"
	"testing"

	"go.uber.org/zap"

	"github.com/scribehq/scribe/internal/app/features/apierrors"
	"github.com/scribehq/scribe/internal/app/features/taxonomy"
	membershipstore "github.com/scribehq/scribe/internal/app/store/memberships"
	"github.com/scribehq/scribe/internal/app/system/authz"
	"github.com/scribehq/scribe/internal/domain/models"
	"github.com/scribehq/scribe/internal/testutil"
)

func newTestHandler(t *testing.T) (*taxonomy.Handler, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	guard := authz.NewGuard(membershipstore.New(db))
	handler := taxonomy.New(db, guard, apierrors.NewErrorLogger(logger), nil, logger)
	return handler, testutil.NewFixtures(t, db)
}

func TestHandleCategoryCreate_Success(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx := testutil.TestContext(t)

	team := fixtures.CreateTeam(ctx, "Acme")
	member := fixtures.CreateUser(ctx, "Max Member", "max@test.com", "password123")
	fixtures.CreateMembership(ctx, member.ID, team.ID, models.RoleMember)

	body := map[string]any{"team_id": team.ID.Hex(), "name": "Release Notes"}
	req := testutil.WithUser(testutil.NewJSONRequest(t, "POST", "/categories", body), &member)

	rec := testutil.NewRecorder()
	handler.HandleCategoryCreate(rec, req)

	rec.AssertStatus(t, http.StatusCreated)

	var cat models.Category
	rec.DecodeJSON(t, &cat)
	if cat.Name != "Release Notes" || cat.Slug != "release-notes" {
		t.Errorf("created category: %+v", cat)
	}
	if cat.TeamID != team.ID {
		t.Errorf("team id: got %s, want %s", cat.TeamID.Hex(), team.ID.Hex())
	}
}

func TestHandleCategoryCreate_NameTooShort(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx := testutil.TestContext(t)

	team := fixtures.CreateTeam(ctx, "Acme")
	member := fixtures.CreateUser(ctx, "Max Member", "max@test.com", "password123")
	fixtures.CreateMembership(ctx, member.ID, team.ID, models.RoleMember)

	body := map[string]any{"team_id": team.ID.Hex(), "name": "x"}
	req := testutil.WithUser(testutil.NewJSONRequest(t, "POST", "/categories", body), &member)

	rec := testutil.NewRecorder()
	handler.HandleCategoryCreate(rec, req)

	rec.AssertStatus(t, http.StatusBadRequest)
	rec.AssertContains(t, "name")
}

func TestHandleTagCreate_NotAMember(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx := testutil.TestContext(t)

	team := fixtures.CreateTeam(ctx, "Acme")
	outsider := fixtures.CreateUser(ctx, "Oscar Outsider", "oscar@test.com", "password123")

	body := map[string]any{"team_id": team.ID.Hex(), "name": "golang"}
	req := testutil.WithUser(testutil.NewJSONRequest(t, "POST", "/tags", body), &outsider)

	rec := testutil.NewRecorder()
	handler.HandleTagCreate(rec, req)

	rec.AssertStatus(t, http.StatusForbidden)
}

func TestServeTagList_ScopedToCallerTeam(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx := testutil.TestContext(t)

	team := fixtures.CreateTeam(ctx, "Acme")
	other := fixtures.CreateTeam(ctx, "Rival")
	member := fixtures.CreateUser(ctx, "Max Member", "max@test.com", "password123")
	fixtures.CreateMembership(ctx, member.ID, team.ID, models.RoleMember)
	fixtures.CreateTag(ctx, team.ID, "ours")
	fixtures.CreateTag(ctx, other.ID, "theirs")

	req := testutil.NewAuthenticatedRequest("GET", "/tags", &member)
	rec := testutil.NewRecorder()
	handler.ServeTagList(rec, req)

	rec.AssertStatus(t, http.StatusOK)

	var resp struct {
		Tags []models.Tag `json:"tags"`
	}
	rec.DecodeJSON(t, &resp)
	if len(resp.Tags) != 1 || resp.Tags[0].Name != "ours" {
		t.Errorf("tag list not scoped to caller's team: %+v", resp.Tags)
	}
}

func TestServeCategoryList_NoTeam(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx := testutil.TestContext(t)

	loner := fixtures.CreateUser(ctx, "Lon Loner", "lon@test.com", "password123")

	req := testutil.NewAuthenticatedRequest("GET", "/categories", &loner)
	rec := testutil.NewRecorder()
	handler.ServeCategoryList(rec, req)

	rec.AssertStatus(t, http.StatusForbidden)
}
