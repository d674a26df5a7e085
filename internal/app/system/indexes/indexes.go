// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/scribehq/scribe/internal/app/store/audit"
	"github.com/scribehq/scribe/internal/app/store/billingevents"
	"github.com/scribehq/scribe/internal/app/store/oauthstate"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

/*
EnsureAll is called at startup. Each ensure* function is idempotent.
Errors are aggregated so any problem is visible and startup can fail fast.
*/
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	if err := ensureUsers(ctx, db); err != nil {
		problems = append(problems, "users: "+err.Error())
	}
	if err := ensureTeams(ctx, db); err != nil {
		problems = append(problems, "teams: "+err.Error())
	}
	if err := ensureTeamMemberships(ctx, db); err != nil {
		problems = append(problems, "team_memberships: "+err.Error())
	}
	if err := ensureArticles(ctx, db); err != nil {
		problems = append(problems, "articles: "+err.Error())
	}
	if err := ensureArticleJoins(ctx, db); err != nil {
		problems = append(problems, "article joins: "+err.Error())
	}
	if err := ensureTaxonomy(ctx, db); err != nil {
		problems = append(problems, "taxonomy: "+err.Error())
	}
	if err := oauthstate.New(db).EnsureIndexes(ctx); err != nil {
		problems = append(problems, "oauth_states: "+err.Error())
	}
	if err := billingevents.New(db).EnsureIndexes(ctx); err != nil {
		problems = append(problems, "billing_events: "+err.Error())
	}
	if err := audit.New(db).EnsureIndexes(ctx); err != nil {
		problems = append(problems, "audit_events: "+err.Error())
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

// ensureIndexSet creates each index, tolerating the cases CreateOne reports
// for an equivalent index that already exists under another name.
func ensureIndexSet(ctx context.Context, coll *mongo.Collection, models []mongo.IndexModel) error {
	var errs []string
	for _, m := range models {
		if _, err := coll.Indexes().CreateOne(ctx, m); err != nil {
			if isConflictErr(err) {
				continue
			}
			name := ""
			if m.Options != nil && m.Options.Name != nil {
				name = *m.Options.Name
			}
			errs = append(errs, fmt.Sprintf("%s(%s): %v", coll.Name(), name, err))
		}
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

// Mongo/DocDB returns IndexOptionsConflict or IndexKeySpecsConflict when an
// index with the same keys already exists under a different name.
func isConflictErr(err error) bool {
	if err == nil {
		return false
	}
	s := err.Error()
	return strings.Contains(s, "IndexOptionsConflict") || strings.Contains(s, "IndexKeySpecsConflict")
}

/* -------------------------------------------------------------------------- */
/* Collection-specific index sets                                             */
/* -------------------------------------------------------------------------- */

func ensureUsers(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("users")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// Email unique among live accounts. The partial filter excludes
		// soft-deleted users so an address can be reused after deletion.
		{
			Keys: bson.D{{Key: "email_ci", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetName("uniq_users_emailci_live").
				SetPartialFilterExpression(bson.M{"deleted_at": bson.M{"$exists": false}}),
		},
		{
			Keys:    bson.D{{Key: "name_ci", Value: 1}, {Key: "_id", Value: 1}},
			Options: options.Index().SetName("idx_users_nameci_id"),
		},
	})
}

func ensureTeams(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("teams")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// Billing webhook lookup path.
		{
			Keys:    bson.D{{Key: "stripe_customer_id", Value: 1}},
			Options: options.Index().SetName("idx_teams_stripe_customer"),
		},
		{
			Keys:    bson.D{{Key: "name_ci", Value: 1}, {Key: "_id", Value: 1}},
			Options: options.Index().SetName("idx_teams_nameci_id"),
		},
	})
}

func ensureTeamMemberships(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("team_memberships")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// The authorization primitive: exact (user, team) lookups, and at
		// most one membership per pair.
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "team_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_memberships_user_team"),
		},
		// "First team for user" reads sorted by created_at.
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: 1}},
			Options: options.Index().SetName("idx_memberships_user_created"),
		},
		{
			Keys:    bson.D{{Key: "team_id", Value: 1}},
			Options: options.Index().SetName("idx_memberships_team"),
		},
	})
}

func ensureArticles(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("articles")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// Team list screens sort by updated_at descending.
		{
			Keys:    bson.D{{Key: "team_id", Value: 1}, {Key: "updated_at", Value: -1}},
			Options: options.Index().SetName("idx_articles_team_updated"),
		},
		// Slug lookups are team-scoped; slugs are not globally unique.
		{
			Keys:    bson.D{{Key: "team_id", Value: 1}, {Key: "slug", Value: 1}},
			Options: options.Index().SetName("idx_articles_team_slug"),
		},
		{
			Keys:    bson.D{{Key: "author_id", Value: 1}},
			Options: options.Index().SetName("idx_articles_author"),
		},
	})
}

func ensureArticleJoins(ctx context.Context, db *mongo.Database) error {
	var problems []string

	err := ensureIndexSet(ctx, db.Collection("article_tags"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "article_id", Value: 1}, {Key: "tag_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_articletags_article_tag"),
		},
		{
			Keys:    bson.D{{Key: "tag_id", Value: 1}},
			Options: options.Index().SetName("idx_articletags_tag"),
		},
	})
	if err != nil {
		problems = append(problems, err.Error())
	}

	err = ensureIndexSet(ctx, db.Collection("article_categories"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "article_id", Value: 1}, {Key: "category_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_articlecats_article_category"),
		},
		{
			Keys:    bson.D{{Key: "category_id", Value: 1}},
			Options: options.Index().SetName("idx_articlecats_category"),
		},
	})
	if err != nil {
		problems = append(problems, err.Error())
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

// No uniqueness on (team_id, name_ci): duplicate category and tag names
// are permitted, matching the upstream behavior the stores document.
func ensureTaxonomy(ctx context.Context, db *mongo.Database) error {
	var problems []string

	for _, name := range []string{"categories", "tags"} {
		err := ensureIndexSet(ctx, db.Collection(name), []mongo.IndexModel{
			{
				Keys:    bson.D{{Key: "team_id", Value: 1}, {Key: "created_at", Value: -1}},
				Options: options.Index().SetName("idx_" + name + "_team_created"),
			},
		})
		if err != nil {
			problems = append(problems, name+": "+err.Error())
		}
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}
