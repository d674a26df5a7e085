// internal/domain/models/article.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Article statuses. An article starts as a draft, may be published, and may
// later be unpublished. Unpublishing never clears PublishedAt.
const (
	StatusDraft       = "draft"
	StatusPublished   = "published"
	StatusUnpublished = "unpublished"
)

// ValidStatus reports whether s is one of the three article statuses.
func ValidStatus(s string) bool {
	return s == StatusDraft || s == StatusPublished || s == StatusUnpublished
}

// Article is a content item exclusively owned by its team. TeamID and
// AuthorID are immutable after creation. Slug is derived from Title and
// regenerated whenever Title changes. PublishedAt is set exactly once, on
// the first transition into "published"; later status changes never reset
// or clear it.
type Article struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TeamID  primitive.ObjectID `bson:"team_id" json:"team_id"`
	Title   string             `bson:"title" json:"title"`
	TitleCI string             `bson:"title_ci" json:"-"` // lowercase, diacritics-stripped
	Slug    string             `bson:"slug" json:"slug"`
	Content string             `bson:"content" json:"content"`
	Excerpt string             `bson:"excerpt" json:"excerpt"`
	Status  string             `bson:"status" json:"status"` // "draft" | "published" | "unpublished"

	AuthorID   primitive.ObjectID `bson:"author_id" json:"author_id"`
	AuthorName string             `bson:"author_name" json:"author_name"` // denormalized for lists

	CreatedAt   time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `bson:"updated_at" json:"updated_at"`
	PublishedAt *time.Time `bson:"published_at,omitempty" json:"published_at,omitempty"`
}

// IsPublished reports whether the article is currently visible to the public.
func (a *Article) IsPublished() bool { return a.Status == StatusPublished }

// ArticleTag links an article to a tag. Join documents are owned by the
// article: they are fully replaced when an update supplies a tag list and
// removed when the article is deleted.
type ArticleTag struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ArticleID primitive.ObjectID `bson:"article_id" json:"article_id"`
	TagID     primitive.ObjectID `bson:"tag_id" json:"tag_id"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}

// ArticleCategory links an article to a category, with the same lifecycle
// as ArticleTag.
type ArticleCategory struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ArticleID  primitive.ObjectID `bson:"article_id" json:"article_id"`
	CategoryID primitive.ObjectID `bson:"category_id" json:"category_id"`
	CreatedAt  time.Time          `bson:"created_at" json:"created_at"`
}

// ArticleAggregate is the fully-assembled read model: the article plus its
// author projection and resolved tag/category lists. Handlers return this
// instead of composing nested queries at the route layer.
type ArticleAggregate struct {
	Article    `bson:",inline"`
	Author     UserRef    `bson:"-" json:"author"`
	Tags       []Tag      `bson:"-" json:"tags"`
	Categories []Category `bson:"-" json:"categories"`
}
