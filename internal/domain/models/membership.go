// internal/domain/models/membership.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Membership roles. Owners can edit or delete any article in the team;
// plain members can only touch articles they authored.
const (
	RoleMember = "member"
	RoleOwner  = "owner"
)

// TeamMembership is the authoritative join between users and teams.
// Exactly one document per (user_id, team_id); role is a scalar
// ("member"|"owner"). A user may act on a team's resources only if a
// membership document exists.
//
// The schema permits a user to hold memberships in several teams, but every
// read path in this app assumes one team per user and takes the first
// membership found (ordered by created_at for determinism).
type TeamMembership struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"user_id" json:"user_id"`
	TeamID    primitive.ObjectID `bson:"team_id" json:"team_id"`
	Role      string             `bson:"role" json:"role"` // "member" | "owner"
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}
