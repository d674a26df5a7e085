// internal/app/store/taxonomy/taxonomystore.go
package taxonomystore

import (
	"context"
	"time"

	"github.com/scribehq/scribe/internal/app/system/slug"
	"github.com/scribehq/scribe/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store manages the two per-team taxonomies: categories and tags. Neither
// collection carries a uniqueness constraint on (team_id, name); duplicates
// are permitted. That matches observed behavior upstream and is probably an
// oversight rather than a choice — do not add an index here without
// deciding what duplicate creation should return.
type Store struct {
	categories *mongo.Collection
	tags       *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{
		categories: db.Collection("categories"),
		tags:       db.Collection("tags"),
	}
}

// CreateCategory inserts a category for the team, deriving the slug the same
// way article titles do.
func (s *Store) CreateCategory(ctx context.Context, teamID primitive.ObjectID, name string) (models.Category, error) {
	c := models.Category{
		ID:        primitive.NewObjectID(),
		TeamID:    teamID,
		Name:      name,
		NameCI:    text.Fold(name),
		Slug:      slug.Make(name),
		CreatedAt: time.Now().UTC(),
	}
	if _, err := s.categories.InsertOne(ctx, c); err != nil {
		return models.Category{}, err
	}
	return c, nil
}

// CreateTag inserts a tag for the team.
func (s *Store) CreateTag(ctx context.Context, teamID primitive.ObjectID, name string) (models.Tag, error) {
	t := models.Tag{
		ID:        primitive.NewObjectID(),
		TeamID:    teamID,
		Name:      name,
		NameCI:    text.Fold(name),
		Slug:      slug.Make(name),
		CreatedAt: time.Now().UTC(),
	}
	if _, err := s.tags.InsertOne(ctx, t); err != nil {
		return models.Tag{}, err
	}
	return t, nil
}

// ListCategoriesForTeam returns the team's categories, newest first.
func (s *Store) ListCategoriesForTeam(ctx context.Context, teamID primitive.ObjectID) ([]models.Category, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := s.categories.Find(ctx, bson.M{"team_id": teamID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Category
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListTagsForTeam returns the team's tags, newest first.
func (s *Store) ListTagsForTeam(ctx context.Context, teamID primitive.ObjectID) ([]models.Tag, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := s.tags.Find(ctx, bson.M{"team_id": teamID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Tag
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
