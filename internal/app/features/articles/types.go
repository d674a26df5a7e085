// internal/app/features/articles/types.go
package articles

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// createRequest is the POST /articles body. TeamID must name a team the
// caller belongs to.
type createRequest struct {
	TeamID      string   `json:"team_id" validate:"required,objectid" label:"Team"`
	Title       string   `json:"title" validate:"required,min=3,max=255" label:"Title"`
	Content     string   `json:"content" validate:"required,min=10" label:"Content"`
	Excerpt     string   `json:"excerpt" validate:"max=500" label:"Excerpt"`
	Status      string   `json:"status" validate:"status" label:"Status"`
	TagIDs      []string `json:"tag_ids"`
	CategoryIDs []string `json:"category_ids"`
}

// updateRequest is the PUT /articles/{id} body. Every field is optional;
// a present field must be valid, an absent field leaves the stored value
// untouched. Tag and category lists follow the same rule: present (even
// empty) replaces the full set, absent leaves it alone.
type updateRequest struct {
	Title       *string   `json:"title" validate:"required,min=3,max=255" label:"Title"`
	Content     *string   `json:"content" validate:"required,min=10" label:"Content"`
	Excerpt     *string   `json:"excerpt" validate:"max=500" label:"Excerpt"`
	Status      *string   `json:"status" validate:"required,status" label:"Status"`
	TagIDs      *[]string `json:"tag_ids"`
	CategoryIDs *[]string `json:"category_ids"`
}

// parseIDList converts a list of hex IDs, reporting the first bad one.
func parseIDList(hexes []string) ([]primitive.ObjectID, bool) {
	ids := make([]primitive.ObjectID, 0, len(hexes))
	for _, h := range hexes {
		oid, err := primitive.ObjectIDFromHex(h)
		if err != nil {
			return nil, false
		}
		ids = append(ids, oid)
	}
	return ids, true
}
