// Package billingevents records processed billing webhook events so that
// a redelivered event is applied at most once.
package billingevents

import (
	"context"
	"errors"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrDuplicateEvent is returned by MarkProcessed when the event ID has
// already been recorded.
var ErrDuplicateEvent = errors.New("billing event already processed")

// Record is one processed webhook event.
type Record struct {
	EventID     string    `bson:"event_id"`
	EventType   string    `bson:"event_type"`
	ProcessedAt time.Time `bson:"processed_at"`
}

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("billing_events")}
}

// EnsureIndexes creates the unique index that backs dedup.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.c.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "event_id", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("idx_billing_event_id"),
	})
	return err
}

// MarkProcessed records the event ID. The unique index makes the insert
// the dedup check: a second delivery gets ErrDuplicateEvent.
func (s *Store) MarkProcessed(ctx context.Context, eventID, eventType string) error {
	_, err := s.c.InsertOne(ctx, Record{
		EventID:     eventID,
		EventType:   eventType,
		ProcessedAt: time.Now().UTC(),
	})
	if wafflemongo.IsDup(err) {
		return ErrDuplicateEvent
	}
	return err
}

// Forget removes a recorded event so a redelivery can be applied. Used
// when applying the event failed after it was marked.
func (s *Store) Forget(ctx context.Context, eventID string) error {
	_, err := s.c.DeleteOne(ctx, bson.M{"event_id": eventID})
	return err
}
