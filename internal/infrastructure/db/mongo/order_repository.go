package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Sowndhar-gif/halleyx/internal/core/domain"
	"github.com/Sowndhar-gif/halleyx/internal/core/ports"
)

type OrderRepository struct {
	coll *mongo.Collection
}

func NewOrderRepository(db *mongo.Database) *OrderRepository {
	return &OrderRepository{coll: db.Collection(collectionOrders)}
}

type mongoOrder struct {
	ID              primitive.ObjectID `bson:"_id,omitempty"`
	UserID          string             `bson:"user_id"`
	ProductID       string             `bson:"product_id"`
	Quantity        int                `bson:"quantity"`
	Status          string             `bson:"status"`
	ShippingAddress string             `bson:"shipping_address"`
	BillingAddress  string             `bson:"billing_address"`
	CreatedAt       time.Time          `bson:"created_at"`
	UpdatedAt       time.Time          `bson:"updated_at"`
}

func toMongoOrder(o *domain.Order) mongoOrder {
	doc := mongoOrder{
		UserID:          o.UserID,
		ProductID:       o.ProductID,
		Quantity:        o.Quantity,
		Status:          string(o.Status),
		ShippingAddress: o.ShippingAddress,
		BillingAddress:  o.BillingAddress,
		CreatedAt:       o.CreatedAt.UTC(),
		UpdatedAt:       o.UpdatedAt.UTC(),
	}
	// Re-inserting a removed order keeps its id.
	if oid, ok := objectID(o.ID); ok {
		doc.ID = oid
	}
	return doc
}

func (mo mongoOrder) toDomain() *domain.Order {
	return &domain.Order{
		ID:              mo.ID.Hex(),
		UserID:          mo.UserID,
		ProductID:       mo.ProductID,
		Quantity:        mo.Quantity,
		Status:          domain.OrderStatus(mo.Status),
		ShippingAddress: mo.ShippingAddress,
		BillingAddress:  mo.BillingAddress,
		CreatedAt:       mo.CreatedAt.UTC(),
		UpdatedAt:       mo.UpdatedAt.UTC(),
	}
}

func (r *OrderRepository) Create(ctx context.Context, o *domain.Order) (*domain.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := toMongoOrder(o)
	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert order: %w", err)
	}
	doc.ID = res.InsertedID.(primitive.ObjectID)
	return doc.toDomain(), nil
}

func (r *OrderRepository) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, domain.ErrOrderNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mo mongoOrder
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&mo); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, fmt.Errorf("find order: %w", err)
	}
	return mo.toDomain(), nil
}

// Update is a compare-and-set on quantity. When nothing matches, a second read
// tells a vanished order apart from one whose quantity moved underneath us.
func (r *OrderRepository) Update(ctx context.Context, o *domain.Order, expectedQuantity int) error {
	oid, ok := objectID(o.ID)
	if !ok {
		return domain.ErrOrderNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"_id": oid, "quantity": expectedQuantity}
	res, err := r.coll.UpdateOne(ctx, filter, bson.M{"$set": bson.M{
		"quantity":         o.Quantity,
		"status":           string(o.Status),
		"shipping_address": o.ShippingAddress,
		"billing_address":  o.BillingAddress,
		"updated_at":       o.UpdatedAt.UTC(),
	}})
	if err != nil {
		return fmt.Errorf("update order: %w", err)
	}
	if res.MatchedCount > 0 {
		return nil
	}
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Err(); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.ErrOrderNotFound
		}
		return fmt.Errorf("update order: %w", err)
	}
	return domain.ErrOrderConflict
}

// Delete removes the order atomically and returns what was removed, so the
// caller credits exactly the quantity that left the ledger.
func (r *OrderRepository) Delete(ctx context.Context, id string) (*domain.Order, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, domain.ErrOrderNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mo mongoOrder
	if err := r.coll.FindOneAndDelete(ctx, bson.M{"_id": oid}).Decode(&mo); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, fmt.Errorf("delete order: %w", err)
	}
	return mo.toDomain(), nil
}

func (r *OrderRepository) List(ctx context.Context, f ports.OrderFilter) ([]*domain.Order, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{}
	if f.UserID != "" {
		filter["user_id"] = f.UserID
	}
	if f.ProductID != "" {
		filter["product_id"] = f.ProductID
	}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if !f.DateFrom.IsZero() || !f.DateTo.IsZero() {
		created := bson.M{}
		if !f.DateFrom.IsZero() {
			created["$gte"] = f.DateFrom.UTC()
		}
		if !f.DateTo.IsZero() {
			created["$lte"] = f.DateTo.UTC()
		}
		filter["created_at"] = created
	}

	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count orders: %w", err)
	}

	opts := findPage(f.Page, f.Limit).SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}
	defer cur.Close(ctx)

	var docs []mongoOrder
	if err := cur.All(ctx, &docs); err != nil {
		return nil, 0, fmt.Errorf("decode orders: %w", err)
	}

	orders := make([]*domain.Order, 0, len(docs))
	for _, d := range docs {
		orders = append(orders, d.toDomain())
	}
	return orders, total, nil
}

func (r *OrderRepository) ExistsForProduct(ctx context.Context, productID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	err := r.coll.FindOne(ctx, bson.M{"product_id": productID}).Err()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("find order by product: %w", err)
	}
	return true, nil
}

func (r *OrderRepository) CountByStatus(ctx context.Context) (map[domain.OrderStatus]int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$status"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}
	cur, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate orders: %w", err)
	}
	defer cur.Close(ctx)

	var rows []struct {
		Status string `bson:"_id"`
		Count  int64  `bson:"count"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("decode order counts: %w", err)
	}

	counts := make(map[domain.OrderStatus]int64, len(rows))
	for _, row := range rows {
		counts[domain.OrderStatus(row.Status)] = row.Count
	}
	return counts, nil
}
