// internal/app/store/memberships/membershipstore.go
package membershipstore

import (
	"context"
	"errors"
	"time"

	"github.com/scribehq/scribe/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("team_memberships")}
}

var (
	errBadRole = errors.New(`role must be "member" or "owner"`)

	// ErrDuplicateMembership is returned when a (user, team) pair already
	// has a membership document.
	ErrDuplicateMembership = errors.New("user is already a member of this team")
)

// Add creates a membership after validating the role.
func (s *Store) Add(ctx context.Context, userID, teamID primitive.ObjectID, role string) error {
	if role != models.RoleMember && role != models.RoleOwner {
		return errBadRole
	}
	doc := models.TeamMembership{
		UserID:    userID,
		TeamID:    teamID,
		Role:      role,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := s.c.InsertOne(ctx, doc); err != nil {
		if wafflemongo.IsDup(err) {
			return ErrDuplicateMembership
		}
		return err
	}
	return nil
}

// Get is the authorization primitive: an exact-match lookup of the
// (user, team) membership. Returns (nil, nil) when no membership exists.
func (s *Store) Get(ctx context.Context, userID, teamID primitive.ObjectID) (*models.TeamMembership, error) {
	var m models.TeamMembership
	err := s.c.FindOne(ctx, bson.M{"user_id": userID, "team_id": teamID}).Decode(&m)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// FirstForUser returns the user's earliest membership, or (nil, nil) when
// the user belongs to no team. The schema allows several memberships per
// user; every read path in this app takes the first one, ordered by
// created_at for determinism.
func (s *Store) FirstForUser(ctx context.Context, userID primitive.ObjectID) (*models.TeamMembership, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "created_at", Value: 1}})
	var m models.TeamMembership
	err := s.c.FindOne(ctx, bson.M{"user_id": userID}, opts).Decode(&m)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// ListByTeam returns all memberships of a team.
func (s *Store) ListByTeam(ctx context.Context, teamID primitive.ObjectID) ([]models.TeamMembership, error) {
	cur, err := s.c.Find(ctx, bson.M{"team_id": teamID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var memberships []models.TeamMembership
	if err := cur.All(ctx, &memberships); err != nil {
		return nil, err
	}
	return memberships, nil
}

// Remove deletes the membership document for (userID, teamID).
func (s *Store) Remove(ctx context.Context, userID, teamID primitive.ObjectID) error {
	_, err := s.c.DeleteOne(ctx, bson.M{"user_id": userID, "team_id": teamID})
	return err
}

// DeleteByUser removes all memberships for a user, used when an account is
// soft-deleted. Returns the number of documents deleted.
func (s *Store) DeleteByUser(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"user_id": userID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
