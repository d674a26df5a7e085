// internal/app/store/articles/articlestore.go
package articlestore

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

// excerptLimit is the number of leading content characters used when the
// caller does not supply an excerpt.
const excerptLimit = 500

type Store struct {
	c           *mongo.Collection
	articleTags *mongo.Collection
	articleCats *mongo.Collection
	tags        *mongo.Collection
	categories  *mongo.Collection
	users       *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{
		c:           db.Collection("articles"),
		articleTags: db.Collection("article_tags"),
		articleCats: db.Collection("article_categories"),
		tags:        db.Collection("tags"),
		categories:  db.Collection("categories"),
		users:       db.Collection("users"),
	}
}

// CreateInput carries everything needed to persist a new article. The caller
// has already sanitized the free-text fields and authorized the author
// against TeamID.
type CreateInput struct {
	TeamID     primitive.ObjectID
	AuthorID   primitive.ObjectID
	AuthorName string

	Title   string
	Content string
	Excerpt string // empty means derive from content
	Status  string // empty means draft

	TagIDs      []primitive.ObjectID
	CategoryIDs []primitive.ObjectID
}

// Create inserts the article and its association rows. Slug derives from the
// title; excerpt defaults to the first 500 characters of content;
// publishedAt is set iff the initial status is published.
//
// Article insert and join-row inserts are separate statements; a crash in
// between can leave an article without its associations. Accepted for this
// domain — wrap in a transaction if stronger guarantees are ever needed.
func (s *Store) Create(ctx context.Context, in CreateInput) (models.Article, error) {
	now := time.Now().UTC()

	a := models.Article{
		ID:         primitive.NewObjectID(),
		TeamID:     in.TeamID,
		AuthorID:   in.AuthorID,
		AuthorName: in.AuthorName,
		Title:      in.Title,
		TitleCI:    text.Fold(in.Title),
		Slug:       slug.Make(in.Title),
		Content:    in.Content,
		Excerpt:    in.Excerpt,
		Status:     in.Status,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if a.Status == "" {
		a.Status = models.StatusDraft
	}
	if a.Excerpt == "" {
		a.Excerpt = truncate(in.Content, excerptLimit)
	}
	if a.Status == models.StatusPublished {
		a.PublishedAt = &now
	}

	if _, err := s.c.InsertOne(ctx, a); err != nil {
		return models.Article{}, err
	}
	if err := s.insertTagRows(ctx, a.ID, in.TagIDs, now); err != nil {
		return models.Article{}, err
	}
	if err := s.insertCategoryRows(ctx, a.ID, in.CategoryIDs, now); err != nil {
		return models.Article{}, err
	}
	return a, nil
}

// UpdateInput is a partial patch. Nil fields are untouched. For the
// association lists the nil/non-nil distinction is load-bearing: a non-nil
// empty slice replaces the set with nothing, while nil leaves existing rows
// alone.
type UpdateInput struct {
	Title   *string
	Content *string
	Excerpt *string
	Status  *string

	TagIDs      *[]primitive.ObjectID
	CategoryIDs *[]primitive.ObjectID
}

// Update applies the patch and returns the updated article. The slug is
// regenerated only when the patch carries a title. publishedAt is set only
// on the first transition into published; republishing later never resets
// it. Returns (nil, nil) when the article does not exist.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, in UpdateInput) (*models.Article, error) {
	current, err := s.GetByID(ctx, id)
	if err != nil || current == nil {
		return nil, err
	}

	now := time.Now().UTC()
	set := bson.M{"updated_at": now}

	if in.Title != nil {
		set["title"] = *in.Title
		set["title_ci"] = text.Fold(*in.Title)
		set["slug"] = slug.Make(*in.Title)
	}
	if in.Content != nil {
		set["content"] = *in.Content
	}
	if in.Excerpt != nil {
		set["excerpt"] = *in.Excerpt
	}
	if in.Status != nil {
		set["status"] = *in.Status
		if *in.Status == models.StatusPublished && current.PublishedAt == nil {
			set["published_at"] = now
		}
	}

	if _, err := s.c.UpdateByID(ctx, id, bson.M{"$set": set}); err != nil {
		return nil, err
	}

	if in.TagIDs != nil {
		if err := s.replaceTagRows(ctx, id, *in.TagIDs, now); err != nil {
			return nil, err
		}
	}
	if in.CategoryIDs != nil {
		if err := s.replaceCategoryRows(ctx, id, *in.CategoryIDs, now); err != nil {
			return nil, err
		}
	}

	return s.GetByID(ctx, id)
}

// Delete hard-deletes the article and removes its join rows so no orphans
// remain queryable. Returns the number of article documents deleted (0 or 1).
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	if _, err := s.articleTags.DeleteMany(ctx, bson.M{"article_id": id}); err != nil {
		return res.DeletedCount, err
	}
	if _, err := s.articleCats.DeleteMany(ctx, bson.M{"article_id": id}); err != nil {
		return res.DeletedCount, err
	}
	return res.DeletedCount, nil
}

// GetByID returns the bare article row, (nil, nil) when absent. Callers that
// need the read policy applied go through the articles service, not here.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Article, error) {
	var a models.Article
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&a)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// ListForTeam returns the team's articles ordered by updated_at descending.
// AuthorName is denormalized onto the article document at create time, so
// lists need no join.
func (s *Store) ListForTeam(ctx context.Context, teamID primitive.ObjectID) ([]models.Article, error) {
	opts := options.Find().SetSort(bson.D{{Key: "updated_at", Value: -1}})
	cur, err := s.c.Find(ctx, bson.M{"team_id": teamID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Article
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetAggregate assembles the full read model: article, author projection,
// and resolved tag/category lists. Returns (nil, nil) when the article is
// absent. The author of a soft-deleted account is reduced to the
// denormalized name.
func (s *Store) GetAggregate(ctx context.Context, id primitive.ObjectID) (*models.ArticleAggregate, error) {
	a, err := s.GetByID(ctx, id)
	if err != nil || a == nil {
		return nil, err
	}

	agg := &models.ArticleAggregate{
		Article: *a,
		Author:  models.UserRef{ID: a.AuthorID, Name: a.AuthorName},
	}

	var author models.User
	err = s.users.FindOne(ctx, bson.M{"_id": a.AuthorID, "deleted_at": bson.M{"$exists": false}}).Decode(&author)
	if err == nil {
		agg.Author = author.Ref()
	} else if err != mongo.ErrNoDocuments {
		return nil, err
	}

	tagIDs, err := s.joinIDs(ctx, s.articleTags, id, "tag_id")
	if err != nil {
		return nil, err
	}
	agg.Tags, err = decodeAll[models.Tag](ctx, s.tags, tagIDs)
	if err != nil {
		return nil, err
	}

	catIDs, err := s.joinIDs(ctx, s.articleCats, id, "category_id")
	if err != nil {
		return nil, err
	}
	agg.Categories, err = decodeAll[models.Category](ctx, s.categories, catIDs)
	if err != nil {
		return nil, err
	}
	return agg, nil
}

// TagIDsFor returns the tag ids currently linked to the article.
func (s *Store) TagIDsFor(ctx context.Context, articleID primitive.ObjectID) ([]primitive.ObjectID, error) {
	return s.joinIDs(ctx, s.articleTags, articleID, "tag_id")
}

// CategoryIDsFor returns the category ids currently linked to the article.
func (s *Store) CategoryIDsFor(ctx context.Context, articleID primitive.ObjectID) ([]primitive.ObjectID, error) {
	return s.joinIDs(ctx, s.articleCats, articleID, "category_id")
}

/* ----------------------------- join helpers ------------------------------ */

func (s *Store) insertTagRows(ctx context.Context, articleID primitive.ObjectID, tagIDs []primitive.ObjectID, now time.Time) error {
	if len(tagIDs) == 0 {
		return nil
	}
	docs := make([]interface{}, 0, len(tagIDs))
	for _, tid := range tagIDs {
		docs = append(docs, models.ArticleTag{ArticleID: articleID, TagID: tid, CreatedAt: now})
	}
	_, err := s.articleTags.InsertMany(ctx, docs)
	return err
}

func (s *Store) insertCategoryRows(ctx context.Context, articleID primitive.ObjectID, catIDs []primitive.ObjectID, now time.Time) error {
	if len(catIDs) == 0 {
		return nil
	}
	docs := make([]interface{}, 0, len(catIDs))
	for _, cid := range catIDs {
		docs = append(docs, models.ArticleCategory{ArticleID: articleID, CategoryID: cid, CreatedAt: now})
	}
	_, err := s.articleCats.InsertMany(ctx, docs)
	return err
}

// replaceTagRows implements full-set replacement: delete all, insert new.
func (s *Store) replaceTagRows(ctx context.Context, articleID primitive.ObjectID, tagIDs []primitive.ObjectID, now time.Time) error {
	if _, err := s.articleTags.DeleteMany(ctx, bson.M{"article_id": articleID}); err != nil {
		return err
	}
	return s.insertTagRows(ctx, articleID, tagIDs, now)
}

func (s *Store) replaceCategoryRows(ctx context.Context, articleID primitive.ObjectID, catIDs []primitive.ObjectID, now time.Time) error {
	if _, err := s.articleCats.DeleteMany(ctx, bson.M{"article_id": articleID}); err != nil {
		return err
	}
	return s.insertCategoryRows(ctx, articleID, catIDs, now)
}

func (s *Store) joinIDs(ctx context.Context, joins *mongo.Collection, articleID primitive.ObjectID, field string) ([]primitive.ObjectID, error) {
	cur, err := joins.Find(ctx, bson.M{"article_id": articleID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var ids []primitive.ObjectID
	for cur.Next(ctx) {
		var row bson.M
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		if oid, ok := row[field].(primitive.ObjectID); ok {
			ids = append(ids, oid)
		}
	}
	return ids, cur.Err()
}

func decodeAll[T any](ctx context.Context, c *mongo.Collection, ids []primitive.ObjectID) ([]T, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	cur, err := c.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []T
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// truncate cuts s to at most n runes.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
