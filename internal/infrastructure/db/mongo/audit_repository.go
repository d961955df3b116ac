package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Sowndhar-gif/halleyx/internal/core/domain"
)

// AuditRepository persists inventory audit events to the order_events collection.
type AuditRepository struct {
	coll *mongo.Collection
}

func NewAuditRepository(db *mongo.Database) *AuditRepository {
	return &AuditRepository{coll: db.Collection(collectionEvents)}
}

func (r *AuditRepository) InsertEvent(ctx context.Context, event *domain.AuditEvent) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := bson.M{
		"action":      string(event.Action),
		"product_id":  event.ProductID,
		"stock_delta": event.StockDelta,
		"actor_id":    event.ActorID,
		"occurred_at": event.OccurredAt.UTC(),
		"recorded_at": time.Now().UTC(),
	}
	if event.OrderID != "" {
		doc["order_id"] = event.OrderID
	}
	if event.ImpersonatedBy != "" {
		doc["impersonated_by"] = event.ImpersonatedBy
	}

	_, err := r.coll.InsertOne(ctx, doc)
	return err
}
