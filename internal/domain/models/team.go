// internal/domain/models/team.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Team is the tenant/billing unit. It owns articles, categories, and tags.
// The Stripe fields are opaque to this application: they are written by the
// billing webhook and read back out verbatim; nothing in the content layer
// interprets them.
type Team struct {
	ID     primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name   string             `bson:"name" json:"name"`
	NameCI string             `bson:"name_ci" json:"-"` // lowercase, diacritics-stripped

	StripeCustomerID     string `bson:"stripe_customer_id,omitempty" json:"stripe_customer_id,omitempty"`
	StripeSubscriptionID string `bson:"stripe_subscription_id,omitempty" json:"stripe_subscription_id,omitempty"`
	StripeProductID      string `bson:"stripe_product_id,omitempty" json:"stripe_product_id,omitempty"`
	PlanName             string `bson:"plan_name,omitempty" json:"plan_name,omitempty"`
	SubscriptionStatus   string `bson:"subscription_status,omitempty" json:"subscription_status,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// TeamWithMembers is the assembled aggregate returned by the current-team
// endpoint: the team document plus each member's membership role and the
// member-visible user projection.
type TeamWithMembers struct {
	Team    `bson:",inline"`
	Members []TeamMember `bson:"-" json:"members"`
}

// TeamMember pairs a membership role with the minimal user projection.
type TeamMember struct {
	Role string  `json:"role"`
	User UserRef `json:"user"`
}
