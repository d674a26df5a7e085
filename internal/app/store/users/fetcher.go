// internal/app/store/users/fetcher.go
package userstore

import (
	"context"

	"github.com/scribehq/scribe/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Fetcher implements auth.UserFetcher so the session layer re-loads fresh
// user data on every request. The soft-delete filter lives in the store, so
// a deleted account resolves to anonymous immediately.
type Fetcher struct {
	store *Store
}

// NewFetcher creates a Fetcher that queries the given database.
func NewFetcher(db *mongo.Database) *Fetcher {
	return &Fetcher{store: New(db)}
}

// FetchByID returns the live user for id, or (nil, nil) when there is none.
func (f *Fetcher) FetchByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return f.store.GetByID(ctx, id)
}
