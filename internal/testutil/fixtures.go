package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/waffle/pantry/text"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"github.com/scribehq/scribe/internal/app/system/slug"
	"github.com/scribehq/scribe/internal/domain/models"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateUser creates a password-auth test user. The password is hashed with
// a low bcrypt cost to keep test runs fast.
func (f *Fixtures) CreateUser(ctx context.Context, name, email, password string) models.User {
	f.t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		f.t.Fatalf("failed to hash test password: %v", err)
	}

	now := time.Now().UTC()
	user := models.User{
		ID:           primitive.NewObjectID(),
		Name:         name,
		NameCI:       text.Fold(name),
		Email:        email,
		EmailCI:      text.Fold(email),
		PasswordHash: string(hash),
		AuthMethod:   "password",
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	_, err = f.db.Collection("users").InsertOne(ctx, user)
	if err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}

	return user
}

// CreateTeam creates a test team with the given name.
func (f *Fixtures) CreateTeam(ctx context.Context, name string) models.Team {
	f.t.Helper()

	now := time.Now().UTC()
	team := models.Team{
		ID:        primitive.NewObjectID(),
		Name:      name,
		NameCI:    text.Fold(name),
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := f.db.Collection("teams").InsertOne(ctx, team)
	if err != nil {
		f.t.Fatalf("failed to create test team: %v", err)
	}

	return team
}

// CreateTeamWithStripe creates a test team that already carries billing state.
func (f *Fixtures) CreateTeamWithStripe(ctx context.Context, name, customerID string) models.Team {
	f.t.Helper()

	now := time.Now().UTC()
	team := models.Team{
		ID:               primitive.NewObjectID(),
		Name:             name,
		NameCI:           text.Fold(name),
		StripeCustomerID: customerID,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	_, err := f.db.Collection("teams").InsertOne(ctx, team)
	if err != nil {
		f.t.Fatalf("failed to create test team: %v", err)
	}

	return team
}

// CreateMembership joins a user to a team with the given role.
func (f *Fixtures) CreateMembership(ctx context.Context, userID, teamID primitive.ObjectID, role string) models.TeamMembership {
	f.t.Helper()

	m := models.TeamMembership{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		TeamID:    teamID,
		Role:      role,
		CreatedAt: time.Now().UTC(),
	}

	_, err := f.db.Collection("team_memberships").InsertOne(ctx, m)
	if err != nil {
		f.t.Fatalf("failed to create test membership: %v", err)
	}

	return m
}

// CreateArticle creates a test article owned by the given team and author.
func (f *Fixtures) CreateArticle(ctx context.Context, teamID primitive.ObjectID, author models.User, title, status string) models.Article {
	f.t.Helper()

	now := time.Now().UTC()
	art := models.Article{
		ID:         primitive.NewObjectID(),
		TeamID:     teamID,
		Title:      title,
		TitleCI:    text.Fold(title),
		Slug:       slug.Make(title),
		Content:    "Test content long enough to pass validation.",
		Excerpt:    "Test excerpt.",
		Status:     status,
		AuthorID:   author.ID,
		AuthorName: author.Name,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if status == models.StatusPublished {
		art.PublishedAt = &now
	}

	_, err := f.db.Collection("articles").InsertOne(ctx, art)
	if err != nil {
		f.t.Fatalf("failed to create test article: %v", err)
	}

	return art
}

// CreateCategory creates a test category in the given team.
func (f *Fixtures) CreateCategory(ctx context.Context, teamID primitive.ObjectID, name string) models.Category {
	f.t.Helper()

	cat := models.Category{
		ID:        primitive.NewObjectID(),
		TeamID:    teamID,
		Name:      name,
		NameCI:    text.Fold(name),
		Slug:      slug.Make(name),
		CreatedAt: time.Now().UTC(),
	}

	_, err := f.db.Collection("categories").InsertOne(ctx, cat)
	if err != nil {
		f.t.Fatalf("failed to create test category: %v", err)
	}

	return cat
}

// CreateTag creates a test tag in the given team.
func (f *Fixtures) CreateTag(ctx context.Context, teamID primitive.ObjectID, name string) models.Tag {
	f.t.Helper()

	tag := models.Tag{
		ID:        primitive.NewObjectID(),
		TeamID:    teamID,
		Name:      name,
		NameCI:    text.Fold(name),
		Slug:      slug.Make(name),
		CreatedAt: time.Now().UTC(),
	}

	_, err := f.db.Collection("tags").InsertOne(ctx, tag)
	if err != nil {
		f.t.Fatalf("failed to create test tag: %v", err)
	}

	return tag
}

// TagArticle creates an article/tag join document.
func (f *Fixtures) TagArticle(ctx context.Context, articleID, tagID primitive.ObjectID) {
	f.t.Helper()

	_, err := f.db.Collection("article_tags").InsertOne(ctx, models.ArticleTag{
		ID:        primitive.NewObjectID(),
		ArticleID: articleID,
		TagID:     tagID,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		f.t.Fatalf("failed to create test article tag: %v", err)
	}
}

// CategorizeArticle creates an article/category join document.
func (f *Fixtures) CategorizeArticle(ctx context.Context, articleID, categoryID primitive.ObjectID) {
	f.t.Helper()

	_, err := f.db.Collection("article_categories").InsertOne(ctx, models.ArticleCategory{
		ID:         primitive.NewObjectID(),
		ArticleID:  articleID,
		CategoryID: categoryID,
		CreatedAt:  time.Now().UTC(),
	})
	if err != nil {
		f.t.Fatalf("failed to create test article category: %v", err)
	}
}
