package articlestore_test

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	articlestore "github.com/scribehq/scribe/internal/app/store/articles"
	"github.com/scribehq/scribe/internal/domain/models"
	"github.com/scribehq/scribe/internal/testutil"
)

func TestCreate_Defaults(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	fixtures := testutil.NewFixtures(t, db)
	store := articlestore.New(db)

	team := fixtures.CreateTeam(ctx, "Acme")
	author := fixtures.CreateUser(ctx, "Ann Author", "ann@test.com", "password123")

	a, err := store.Create(ctx, articlestore.CreateInput{
		TeamID:     team.ID,
		AuthorID:   author.ID,
		AuthorName: author.Name,
		Title:      "Hello, World!",
		Content:    "Body text long enough for a real article.",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if a.Slug != "hello-world" {
		t.Errorf("slug: got %q, want %q", a.Slug, "hello-world")
	}
	if a.Status != models.StatusDraft {
		t.Errorf("status: got %q, want draft", a.Status)
	}
	if a.Excerpt != "Body text long enough for a real article." {
		t.Errorf("excerpt not derived from content: %q", a.Excerpt)
	}
	if a.PublishedAt != nil {
		t.Errorf("draft must not carry published_at")
	}
}

func TestCreate_PublishedSetsPublishedAt(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	fixtures := testutil.NewFixtures(t, db)
	store := articlestore.New(db)

	team := fixtures.CreateTeam(ctx, "Acme")
	author := fixtures.CreateUser(ctx, "Ann Author", "ann@test.com", "password123")

	a, err := store.Create(ctx, articlestore.CreateInput{
		TeamID:     team.ID,
		AuthorID:   author.ID,
		AuthorName: author.Name,
		Title:      "Launch Post",
		Content:    "We are live. More details to follow shortly.",
		Status:     models.StatusPublished,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if a.PublishedAt == nil {
		t.Fatal("published article must carry published_at")
	}
}

func TestUpdate_TitleRegeneratesSlug(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	fixtures := testutil.NewFixtures(t, db)
	store := articlestore.New(db)

	team := fixtures.CreateTeam(ctx, "Acme")
	author := fixtures.CreateUser(ctx, "Ann Author", "ann@test.com", "password123")
	art := fixtures.CreateArticle(ctx, team.ID, author, "Old Title", models.StatusDraft)

	title := "Brand New Title"
	updated, err := store.Update(ctx, art.ID, articlestore.UpdateInput{Title: &title})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated == nil {
		t.Fatal("Update returned nil for existing article")
	}
	if updated.Slug != "brand-new-title" {
		t.Errorf("slug: got %q, want %q", updated.Slug, "brand-new-title")
	}
	if updated.Content != art.Content {
		t.Errorf("content changed by title-only patch")
	}
}

func TestUpdate_PublishedAtSetOnce(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	fixtures := testutil.NewFixtures(t, db)
	store := articlestore.New(db)

	team := fixtures.CreateTeam(ctx, "Acme")
	author := fixtures.CreateUser(ctx, "Ann Author", "ann@test.com", "password123")
	art := fixtures.CreateArticle(ctx, team.ID, author, "Lifecycle", models.StatusDraft)

	publish := models.StatusPublished
	first, err := store.Update(ctx, art.ID, articlestore.UpdateInput{Status: &publish})
	if err != nil {
		t.Fatalf("first publish failed: %v", err)
	}
	if first.PublishedAt == nil {
		t.Fatal("first publish must set published_at")
	}

	unpublish := models.StatusUnpublished
	mid, err := store.Update(ctx, art.ID, articlestore.UpdateInput{Status: &unpublish})
	if err != nil {
		t.Fatalf("unpublish failed: %v", err)
	}
	if mid.PublishedAt == nil {
		t.Fatal("unpublishing must not clear published_at")
	}

	second, err := store.Update(ctx, art.ID, articlestore.UpdateInput{Status: &publish})
	if err != nil {
		t.Fatalf("republish failed: %v", err)
	}
	if second.PublishedAt == nil || !second.PublishedAt.Equal(*first.PublishedAt) {
		t.Errorf("republish must keep original published_at: got %v, want %v", second.PublishedAt, first.PublishedAt)
	}
}

func TestUpdate_AssociationReplaceAndOmit(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	fixtures := testutil.NewFixtures(t, db)
	store := articlestore.New(db)

	team := fixtures.CreateTeam(ctx, "Acme")
	author := fixtures.CreateUser(ctx, "Ann Author", "ann@test.com", "password123")
	art := fixtures.CreateArticle(ctx, team.ID, author, "Tagged", models.StatusDraft)
	tagA := fixtures.CreateTag(ctx, team.ID, "go")
	tagB := fixtures.CreateTag(ctx, team.ID, "mongo")
	fixtures.TagArticle(ctx, art.ID, tagA.ID)

	// Omitted list (nil): existing rows untouched.
	content := "New body content that is clearly long enough."
	if _, err := store.Update(ctx, art.ID, articlestore.UpdateInput{Content: &content}); err != nil {
		t.Fatalf("patch without tags failed: %v", err)
	}
	ids, err := store.TagIDsFor(ctx, art.ID)
	if err != nil {
		t.Fatalf("TagIDsFor failed: %v", err)
	}
	if len(ids) != 1 || ids[0] != tagA.ID {
		t.Fatalf("nil tag list must leave rows alone, got %v", ids)
	}

	// Present list: full replacement.
	newTags := []primitive.ObjectID{tagB.ID}
	if _, err := store.Update(ctx, art.ID, articlestore.UpdateInput{TagIDs: &newTags}); err != nil {
		t.Fatalf("tag replacement failed: %v", err)
	}
	ids, err = store.TagIDsFor(ctx, art.ID)
	if err != nil {
		t.Fatalf("TagIDsFor failed: %v", err)
	}
	if len(ids) != 1 || ids[0] != tagB.ID {
		t.Fatalf("tag replacement: got %v, want [%s]", ids, tagB.ID.Hex())
	}

	// Present empty list: clears the set.
	empty := []primitive.ObjectID{}
	if _, err := store.Update(ctx, art.ID, articlestore.UpdateInput{TagIDs: &empty}); err != nil {
		t.Fatalf("tag clear failed: %v", err)
	}
	ids, err = store.TagIDsFor(ctx, art.ID)
	if err != nil {
		t.Fatalf("TagIDsFor failed: %v", err)
	}
	if len(ids) != 0 {
		t.Fatalf("empty tag list must clear rows, got %v", ids)
	}
}

func TestUpdate_MissingArticle(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	store := articlestore.New(db)

	title := "Anything"
	got, err := store.Update(ctx, primitive.NewObjectID(), articlestore.UpdateInput{Title: &title})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil for missing article, got %+v", got)
	}
}

func TestDelete_RemovesJoinRows(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	fixtures := testutil.NewFixtures(t, db)
	store := articlestore.New(db)

	team := fixtures.CreateTeam(ctx, "Acme")
	author := fixtures.CreateUser(ctx, "Ann Author", "ann@test.com", "password123")
	art := fixtures.CreateArticle(ctx, team.ID, author, "Doomed", models.StatusDraft)
	tag := fixtures.CreateTag(ctx, team.ID, "go")
	cat := fixtures.CreateCategory(ctx, team.ID, "News")
	fixtures.TagArticle(ctx, art.ID, tag.ID)
	fixtures.CategorizeArticle(ctx, art.ID, cat.ID)

	n, err := store.Delete(ctx, art.ID)
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if n != 1 {
		t.Fatalf("deleted count: got %d, want 1", n)
	}

	for _, coll := range []string{"article_tags", "article_categories"} {
		count, err := db.Collection(coll).CountDocuments(ctx, bson.M{"article_id": art.ID})
		if err != nil {
			t.Fatalf("CountDocuments(%s) failed: %v", coll, err)
		}
		if count != 0 {
			t.Errorf("%s: %d orphan rows left after delete", coll, count)
		}
	}

	// The tag and category themselves survive.
	tags, err := db.Collection("tags").CountDocuments(ctx, bson.M{"team_id": team.ID})
	if err != nil {
		t.Fatalf("CountDocuments(tags) failed: %v", err)
	}
	if tags != 1 {
		t.Errorf("tags: got %d, want 1", tags)
	}
}

func TestGetAggregate_ResolvesAssociations(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	fixtures := testutil.NewFixtures(t, db)
	store := articlestore.New(db)

	team := fixtures.CreateTeam(ctx, "Acme")
	author := fixtures.CreateUser(ctx, "Ann Author", "ann@test.com", "password123")
	art := fixtures.CreateArticle(ctx, team.ID, author, "Composite", models.StatusPublished)
	tag := fixtures.CreateTag(ctx, team.ID, "go")
	fixtures.TagArticle(ctx, art.ID, tag.ID)

	agg, err := store.GetAggregate(ctx, art.ID)
	if err != nil {
		t.Fatalf("GetAggregate failed: %v", err)
	}
	if agg == nil {
		t.Fatal("GetAggregate returned nil for existing article")
	}
	if agg.Author.ID != author.ID || agg.Author.Email != author.Email {
		t.Errorf("author projection: got %+v", agg.Author)
	}
	if len(agg.Tags) != 1 || agg.Tags[0].Name != "go" {
		t.Errorf("tags: got %+v", agg.Tags)
	}
	if len(agg.Categories) != 0 {
		t.Errorf("categories: got %+v, want none", agg.Categories)
	}
}

func TestGetAggregate_Missing(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	store := articlestore.New(db)

	agg, err := store.GetAggregate(ctx, primitive.NewObjectID())
	if err != nil {
		t.Fatalf("GetAggregate failed: %v", err)
	}
	if agg != nil {
		t.Errorf("expected nil for missing article, got %+v", agg)
	}
}
