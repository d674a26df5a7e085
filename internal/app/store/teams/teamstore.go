// internal/app/store/teams/teamstore.go
package teamstore

import (
	"context"
	"strings"
	"time"

	membershipstore "github.com/scribehq/scribe/internal/app/store/memberships"
	userstore "github.com/scribehq/scribe/internal/app/store/users"
	"github.com/scribehq/scribe/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type Store struct {
	c           *mongo.Collection
	memberships *membershipstore.Store
	users       *userstore.Store
}

func New(db *mongo.Database) *Store {
	return &Store{
		c:           db.Collection("teams"),
		memberships: membershipstore.New(db),
		users:       userstore.New(db),
	}
}

// Create inserts a new team.
func (s *Store) Create(ctx context.Context, name string) (models.Team, error) {
	now := time.Now().UTC()
	t := models.Team{
		ID:        primitive.NewObjectID(),
		Name:      strings.TrimSpace(name),
		NameCI:    text.Fold(strings.TrimSpace(name)),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := s.c.InsertOne(ctx, t); err != nil {
		return models.Team{}, err
	}
	return t, nil
}

// GetByID loads a team. Returns (nil, nil) when absent.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Team, error) {
	var t models.Team
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&t)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// GetByStripeCustomer loads a team by its Stripe customer id. Returns
// (nil, nil) when no team carries that id.
func (s *Store) GetByStripeCustomer(ctx context.Context, customerID string) (*models.Team, error) {
	var t models.Team
	err := s.c.FindOne(ctx, bson.M{"stripe_customer_id": customerID}).Decode(&t)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// GetForUser resolves the single team the user belongs to (first membership
// found), assembled with each member's role and minimal user projection —
// never password or credential fields. Returns (nil, nil) when the user has
// no team.
func (s *Store) GetForUser(ctx context.Context, userID primitive.ObjectID) (*models.TeamWithMembers, error) {
	m, err := s.memberships.FirstForUser(ctx, userID)
	if err != nil || m == nil {
		return nil, err
	}

	team, err := s.GetByID(ctx, m.TeamID)
	if err != nil || team == nil {
		return nil, err
	}

	memberships, err := s.memberships.ListByTeam(ctx, team.ID)
	if err != nil {
		return nil, err
	}
	ids := make([]primitive.ObjectID, 0, len(memberships))
	for _, mm := range memberships {
		ids = append(ids, mm.UserID)
	}
	refs, err := s.users.GetRefs(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := &models.TeamWithMembers{Team: *team}
	for _, mm := range memberships {
		ref, ok := refs[mm.UserID]
		if !ok {
			// Membership of a soft-deleted user; skip rather than leak.
			continue
		}
		out.Members = append(out.Members, models.TeamMember{Role: mm.Role, User: ref})
	}
	return out, nil
}

// BillingUpdate carries the opaque Stripe fields written by the billing
// webhook. Empty strings mean "clear the field" for subscription state and
// are ignored for the customer id.
type BillingUpdate struct {
	StripeSubscriptionID string
	StripeProductID      string
	PlanName             string
	SubscriptionStatus   string
}

// UpdateBilling overwrites the team's subscription state. The content layer
// never reads these fields; they round-trip to the dashboard as-is.
func (s *Store) UpdateBilling(ctx context.Context, teamID primitive.ObjectID, up BillingUpdate) error {
	_, err := s.c.UpdateByID(ctx, teamID, bson.M{"$set": bson.M{
		"stripe_subscription_id": up.StripeSubscriptionID,
		"stripe_product_id":      up.StripeProductID,
		"plan_name":              up.PlanName,
		"subscription_status":    up.SubscriptionStatus,
		"updated_at":             time.Now().UTC(),
	}})
	return err
}

// SetStripeCustomer records the Stripe customer id once it is known.
func (s *Store) SetStripeCustomer(ctx context.Context, teamID primitive.ObjectID, customerID string) error {
	_, err := s.c.UpdateByID(ctx, teamID, bson.M{"$set": bson.M{
		"stripe_customer_id": customerID,
		"updated_at":         time.Now().UTC(),
	}})
	return err
}
