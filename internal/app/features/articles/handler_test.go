package articles_test

import (
	"net/http"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/scribehq/scribe/internal/app/features/apierrors"
	"github.com/scribehq/scribe/internal/app/features/articles"
	articlestore "github.com/scribehq/scribe/internal/app/store/articles"
	membershipstore "github.com/scribehq/scribe/internal/app/store/memberships"
	"github.com/scribehq/scribe/internal/app/system/authz"
	"github.com/scribehq/scribe/internal/domain/models"
	"github.com/scribehq/scribe/internal/testutil"
)

func newTestHandler(t *testing.T) (*articles.Handler, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	guard := authz.NewGuard(membershipstore.New(db))
	handler := articles.New(db, guard, apierrors.NewErrorLogger(logger), nil, logger)
	return handler, testutil.NewFixtures(t, db)
}

func TestServeView_PublishedIsPublic(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx := testutil.TestContext(t)

	team := fixtures.CreateTeam(ctx, "Acme")
	author := fixtures.CreateUser(ctx, "Ann Author", "ann@test.com", "password123")
	art := fixtures.CreateArticle(ctx, team.ID, author, "Public Post", models.StatusPublished)

	req := testutil.NewRequest("GET", "/articles/"+art.ID.Hex())
	req = testutil.WithChiURLParam(req, "id", art.ID.Hex())

	rec := testutil.NewRecorder()
	handler.ServeView(rec, req)

	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, "Public Post")
}

func TestServeView_DraftAnonymous(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx := testutil.TestContext(t)

	team := fixtures.CreateTeam(ctx, "Acme")
	author := fixtures.CreateUser(ctx, "Ann Author", "ann@test.com", "password123")
	art := fixtures.CreateArticle(ctx, team.ID, author, "Secret Draft", models.StatusDraft)

	req := testutil.NewRequest("GET", "/articles/"+art.ID.Hex())
	req = testutil.WithChiURLParam(req, "id", art.ID.Hex())

	rec := testutil.NewRecorder()
	handler.ServeView(rec, req)

	rec.AssertStatus(t, http.StatusUnauthorized)
}

func TestServeView_DraftNonMember(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx := testutil.TestContext(t)

	team := fixtures.CreateTeam(ctx, "Acme")
	author := fixtures.CreateUser(ctx, "Ann Author", "ann@test.com", "password123")
	art := fixtures.CreateArticle(ctx, team.ID, author, "Secret Draft", models.StatusDraft)
	outsider := fixtures.CreateUser(ctx, "Oscar Outsider", "oscar@test.com", "password123")

	req := testutil.NewAuthenticatedRequest("GET", "/articles/"+art.ID.Hex(), &outsider)
	req = testutil.WithChiURLParam(req, "id", art.ID.Hex())

	rec := testutil.NewRecorder()
	handler.ServeView(rec, req)

	rec.AssertStatus(t, http.StatusForbidden)
}

func TestServeView_DraftMember(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx := testutil.TestContext(t)

	team := fixtures.CreateTeam(ctx, "Acme")
	author := fixtures.CreateUser(ctx, "Ann Author", "ann@test.com", "password123")
	art := fixtures.CreateArticle(ctx, team.ID, author, "Secret Draft", models.StatusDraft)
	member := fixtures.CreateUser(ctx, "Max Member", "max@test.com", "password123")
	fixtures.CreateMembership(ctx, member.ID, team.ID, models.RoleMember)

	req := testutil.NewAuthenticatedRequest("GET", "/articles/"+art.ID.Hex(), &member)
	req = testutil.WithChiURLParam(req, "id", art.ID.Hex())

	rec := testutil.NewRecorder()
	handler.ServeView(rec, req)

	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, "Secret Draft")
}

func TestServeView_MissingAndBadID(t *testing.T) {
	handler, _ := newTestHandler(t)

	missing := primitive.NewObjectID().Hex()
	req := testutil.NewRequest("GET", "/articles/"+missing)
	req = testutil.WithChiURLParam(req, "id", missing)
	rec := testutil.NewRecorder()
	handler.ServeView(rec, req)
	rec.AssertStatus(t, http.StatusNotFound)

	req = testutil.NewRequest("GET", "/articles/not-a-hex-id")
	req = testutil.WithChiURLParam(req, "id", "not-a-hex-id")
	rec = testutil.NewRecorder()
	handler.ServeView(rec, req)
	rec.AssertStatus(t, http.StatusBadRequest)
}

func TestHandleCreate_Success(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx := testutil.TestContext(t)

	team := fixtures.CreateTeam(ctx, "Acme")
	member := fixtures.CreateUser(ctx, "Max Member", "max@test.com", "password123")
	fixtures.CreateMembership(ctx, member.ID, team.ID, models.RoleMember)
	tag := fixtures.CreateTag(ctx, team.ID, "go")

	body := map[string]any{
		"team_id": team.ID.Hex(),
		"title":   "My First Post",
		"content": "Content long enough to pass validation.",
		"status":  "published",
		"tag_ids": []string{tag.ID.Hex()},
	}
	req := testutil.WithUser(testutil.NewJSONRequest(t, "POST", "/articles", body), &member)

	rec := testutil.NewRecorder()
	handler.HandleCreate(rec, req)

	rec.AssertStatus(t, http.StatusCreated)

	var agg models.ArticleAggregate
	rec.DecodeJSON(t, &agg)
	if agg.Slug != "my-first-post" {
		t.Errorf("slug: got %q", agg.Slug)
	}
	if agg.PublishedAt == nil {
		t.Error("published article must carry published_at")
	}
	if len(agg.Tags) != 1 || agg.Tags[0].Name != "go" {
		t.Errorf("tags: got %+v", agg.Tags)
	}

	count, err := fixtures.DB().Collection("articles").CountDocuments(ctx, bson.M{"team_id": team.ID})
	if err != nil {
		t.Fatalf("CountDocuments failed: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 article, got %d", count)
	}
}

func TestHandleCreate_ValidationErrors(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx := testutil.TestContext(t)

	team := fixtures.CreateTeam(ctx, "Acme")
	member := fixtures.CreateUser(ctx, "Max Member", "max@test.com", "password123")
	fixtures.CreateMembership(ctx, member.ID, team.ID, models.RoleMember)

	body := map[string]any{
		"team_id": team.ID.Hex(),
		"title":   "ab", // below minimum length
		"content": "short",
		"status":  "archived", // not a valid status
	}
	req := testutil.WithUser(testutil.NewJSONRequest(t, "POST", "/articles", body), &member)

	rec := testutil.NewRecorder()
	handler.HandleCreate(rec, req)

	rec.AssertStatus(t, http.StatusBadRequest)
	rec.AssertContains(t, "title")
	rec.AssertContains(t, "content")
	rec.AssertContains(t, "status")

	count, err := fixtures.DB().Collection("articles").CountDocuments(ctx, bson.M{})
	if err != nil {
		t.Fatalf("CountDocuments failed: %v", err)
	}
	if count != 0 {
		t.Errorf("expected 0 articles after failed validation, got %d", count)
	}
}

func TestHandleCreate_NotAMember(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx := testutil.TestContext(t)

	team := fixtures.CreateTeam(ctx, "Acme")
	outsider := fixtures.CreateUser(ctx, "Oscar Outsider", "oscar@test.com", "password123")

	body := map[string]any{
		"team_id": team.ID.Hex(),
		"title":   "Uninvited Post",
		"content": "Content long enough to pass validation.",
	}
	req := testutil.WithUser(testutil.NewJSONRequest(t, "POST", "/articles", body), &outsider)

	rec := testutil.NewRecorder()
	handler.HandleCreate(rec, req)

	rec.AssertStatus(t, http.StatusForbidden)
}

func TestHandleUpdate_MemberNotAuthor(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx := testutil.TestContext(t)

	team := fixtures.CreateTeam(ctx, "Acme")
	author := fixtures.CreateUser(ctx, "Ann Author", "ann@test.com", "password123")
	fixtures.CreateMembership(ctx, author.ID, team.ID, models.RoleMember)
	art := fixtures.CreateArticle(ctx, team.ID, author, "Ann's Post", models.StatusDraft)

	peer := fixtures.CreateUser(ctx, "Pete Peer", "pete@test.com", "password123")
	fixtures.CreateMembership(ctx, peer.ID, team.ID, models.RoleMember)

	body := map[string]any{"title": "Hijacked Title"}
	req := testutil.WithUser(testutil.NewJSONRequest(t, "PUT", "/articles/"+art.ID.Hex(), body), &peer)
	req = testutil.WithChiURLParam(req, "id", art.ID.Hex())

	rec := testutil.NewRecorder()
	handler.HandleUpdate(rec, req)

	rec.AssertStatus(t, http.StatusForbidden)
}

func TestHandleUpdate_OwnerOverridesAuthorship(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx := testutil.TestContext(t)

	team := fixtures.CreateTeam(ctx, "Acme")
	author := fixtures.CreateUser(ctx, "Ann Author", "ann@test.com", "password123")
	fixtures.CreateMembership(ctx, author.ID, team.ID, models.RoleMember)
	art := fixtures.CreateArticle(ctx, team.ID, author, "Ann's Post", models.StatusDraft)

	owner := fixtures.CreateUser(ctx, "Olive Owner", "olive@test.com", "password123")
	fixtures.CreateMembership(ctx, owner.ID, team.ID, models.RoleOwner)

	body := map[string]any{"title": "Edited By Owner"}
	req := testutil.WithUser(testutil.NewJSONRequest(t, "PUT", "/articles/"+art.ID.Hex(), body), &owner)
	req = testutil.WithChiURLParam(req, "id", art.ID.Hex())

	rec := testutil.NewRecorder()
	handler.HandleUpdate(rec, req)

	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, "edited-by-owner")
}

func TestHandleUpdate_PresentEmptyFieldRejected(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx := testutil.TestContext(t)

	team := fixtures.CreateTeam(ctx, "Acme")
	author := fixtures.CreateUser(ctx, "Ann Author", "ann@test.com", "password123")
	fixtures.CreateMembership(ctx, author.ID, team.ID, models.RoleMember)
	art := fixtures.CreateArticle(ctx, team.ID, author, "Ann's Post", models.StatusDraft)

	body := map[string]any{"title": ""}
	req := testutil.WithUser(testutil.NewJSONRequest(t, "PUT", "/articles/"+art.ID.Hex(), body), &author)
	req = testutil.WithChiURLParam(req, "id", art.ID.Hex())

	rec := testutil.NewRecorder()
	handler.HandleUpdate(rec, req)

	rec.AssertStatus(t, http.StatusBadRequest)
}

func TestHandleUpdate_Missing(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx := testutil.TestContext(t)

	user := fixtures.CreateUser(ctx, "Ann Author", "ann@test.com", "password123")
	missing := primitive.NewObjectID().Hex()

	body := map[string]any{"title": "Ghost Edit"}
	req := testutil.WithUser(testutil.NewJSONRequest(t, "PUT", "/articles/"+missing, body), &user)
	req = testutil.WithChiURLParam(req, "id", missing)

	rec := testutil.NewRecorder()
	handler.HandleUpdate(rec, req)

	rec.AssertStatus(t, http.StatusNotFound)
}

func TestHandleDelete_AuthorDeletesOwn(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx := testutil.TestContext(t)

	team := fixtures.CreateTeam(ctx, "Acme")
	author := fixtures.CreateUser(ctx, "Ann Author", "ann@test.com", "password123")
	fixtures.CreateMembership(ctx, author.ID, team.ID, models.RoleMember)
	art := fixtures.CreateArticle(ctx, team.ID, author, "Doomed Post", models.StatusDraft)

	req := testutil.NewAuthenticatedRequest("DELETE", "/articles/"+art.ID.Hex(), &author)
	req = testutil.WithChiURLParam(req, "id", art.ID.Hex())

	rec := testutil.NewRecorder()
	handler.HandleDelete(rec, req)

	rec.AssertStatus(t, http.StatusOK)

	got, err := articlestore.New(fixtures.DB()).GetByID(ctx, art.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got != nil {
		t.Errorf("article still present after delete")
	}
}

func TestServeList_ScopedToCallerTeam(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx := testutil.TestContext(t)

	team := fixtures.CreateTeam(ctx, "Acme")
	other := fixtures.CreateTeam(ctx, "Rival")
	author := fixtures.CreateUser(ctx, "Ann Author", "ann@test.com", "password123")
	fixtures.CreateMembership(ctx, author.ID, team.ID, models.RoleMember)
	fixtures.CreateArticle(ctx, team.ID, author, "Ours", models.StatusDraft)

	rival := fixtures.CreateUser(ctx, "Rex Rival", "rex@test.com", "password123")
	fixtures.CreateArticle(ctx, other.ID, rival, "Theirs", models.StatusPublished)

	req := testutil.NewAuthenticatedRequest("GET", "/articles", &author)
	rec := testutil.NewRecorder()
	handler.ServeList(rec, req)

	rec.AssertStatus(t, http.StatusOK)

	var resp struct {
		Articles []struct {
			Title string `json:"title"`
		} `json:"articles"`
	}
	rec.DecodeJSON(t, &resp)
	if len(resp.Articles) != 1 || resp.Articles[0].Title != "Ours" {
		t.Errorf("list not scoped to caller's team: %+v", resp.Articles)
	}
}

func TestServeList_NoTeam(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx := testutil.TestContext(t)

	loner := fixtures.CreateUser(ctx, "Lon Loner", "lon@test.com", "password123")

	req := testutil.NewAuthenticatedRequest("GET", "/articles", &loner)
	rec := testutil.NewRecorder()
	handler.ServeList(rec, req)

	rec.AssertStatus(t, http.StatusForbidden)
}
