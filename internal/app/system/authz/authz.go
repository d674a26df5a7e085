// internal/app/system/authz/authz.go
package authz

import (
	"context"
	"errors"

	"github.com/scribehq/scribe/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// The two deniable outcomes are distinct on purpose: route handlers map
// ErrUnauthenticated to 401 and ErrForbidden to 403. Internal callers that
// must not leak existence collapse both to "not found" themselves.
var (
	ErrUnauthenticated = errors.New("authentication required")
	ErrForbidden       = errors.New("permission denied")
)

// MembershipFinder is the authorization primitive: an exact-match lookup of
// the (user, team) membership. Implementations return (nil, nil) when no
// membership exists; a non-nil error means the lookup itself failed and is
// propagated untouched.
type MembershipFinder interface {
	Get(ctx context.Context, userID, teamID primitive.ObjectID) (*models.TeamMembership, error)
}

// Guard evaluates the read and write policies for articles. Decisions are
// never cached: every call re-resolves the membership, so role changes take
// effect on the next request.
type Guard struct {
	memberships MembershipFinder
}

// NewGuard constructs a Guard over the given membership lookup.
func NewGuard(m MembershipFinder) *Guard {
	return &Guard{memberships: m}
}

// CanRead decides whether user (nil for anonymous) may read article.
// Published articles are readable by anyone. Drafts and unpublished
// articles require a resolved user with a membership in the owning team.
func (g *Guard) CanRead(ctx context.Context, article *models.Article, user *models.User) error {
	if article.IsPublished() {
		return nil
	}
	if user == nil {
		return ErrUnauthenticated
	}
	m, err := g.memberships.Get(ctx, user.ID, article.TeamID)
	if err != nil {
		return err
	}
	if m == nil {
		return ErrForbidden
	}
	return nil
}

// CanWrite decides whether user may update or delete article. It requires a
// membership in the owning team, and additionally that the user is either a
// team owner or the article's author. A plain member who did not author the
// article is denied even though they belong to the team.
func (g *Guard) CanWrite(ctx context.Context, article *models.Article, user *models.User) error {
	if user == nil {
		return ErrUnauthenticated
	}
	m, err := g.memberships.Get(ctx, user.ID, article.TeamID)
	if err != nil {
		return err
	}
	if m == nil {
		return ErrForbidden
	}
	if m.Role == models.RoleOwner || article.AuthorID == user.ID {
		return nil
	}
	return ErrForbidden
}

// CanCreate decides whether user may create an article under teamID, which
// the caller supplies explicitly and must match a membership of the user.
// Any role suffices. The membership is returned so the caller does not have
// to look it up again.
func (g *Guard) CanCreate(ctx context.Context, teamID primitive.ObjectID, user *models.User) (*models.TeamMembership, error) {
	if user == nil {
		return nil, ErrUnauthenticated
	}
	m, err := g.memberships.Get(ctx, user.ID, teamID)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, ErrForbidden
	}
	return m, nil
}
