// internal/app/features/articles/service.go
package articles

import (
	"context"
	"errors"

	articlestore "github.com/scribehq/scribe/internal/app/store/articles"
	"github.com/scribehq/scribe/internal/app/system/authz"
	"github.com/scribehq/scribe/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// GetByIDForUser is the internal article lookup. Unlike ServeView it never
// reveals that a hidden article exists: both "absent" and "read denied"
// come back as nil. Storage failures still surface as errors.
func GetByIDForUser(ctx context.Context, db *mongo.Database, guard *authz.Guard, id primitive.ObjectID, user *models.User) (*models.ArticleAggregate, error) {
	store := articlestore.New(db)

	art, err := store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if art == nil {
		return nil, nil
	}

	if err := guard.CanRead(ctx, art, user); err != nil {
		if errors.Is(err, authz.ErrUnauthenticated) || errors.Is(err, authz.ErrForbidden) {
			return nil, nil
		}
		return nil, err
	}

	return store.GetAggregate(ctx, id)
}
