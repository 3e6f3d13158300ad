package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/orderfood/ordering-system/internal/core/domain"
)

const ordersCollection = "orders"

// OrderRepository persists orders. The domain.Order struct carries bson tags
// and is stored directly.
type OrderRepository struct {
	coll *mongo.Collection
}

func NewOrderRepository(db *mongo.Database) *OrderRepository {
	return &OrderRepository{coll: db.Collection(ordersCollection)}
}

func (r *OrderRepository) Create(ctx context.Context, o *domain.Order) error {
	if _, err := r.coll.InsertOne(ctx, o); err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

func (r *OrderRepository) FindByCode(ctx context.Context, orderCode string) (*domain.Order, error) {
	var order domain.Order
	if err := r.coll.FindOne(ctx, bson.M{"order_code": orderCode}).Decode(&order); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrOrderNotFound
		}
		return nil, fmt.Errorf("find order: %w", err)
	}
	return &order, nil
}

func (r *OrderRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Order, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	return r.list(ctx, bson.M{"user_id": userID}, opts)
}

func (r *OrderRepository) ListCreatedBetween(ctx context.Context, from, to time.Time) ([]*domain.Order, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	filter := bson.M{"created_at": bson.M{"$gte": from, "$lt": to}}
	return r.list(ctx, filter, opts)
}

// UpdateStatus atomically sets the order's new status and appends a history
// entry. A confirmed order can no longer be edited by its owner; delivery
// stamps delivered_at.
func (r *OrderRepository) UpdateStatus(ctx context.Context, orderCode string, status domain.OrderStatus, ts time.Time, source string) error {
	set := bson.M{"status": status, "updated_at": ts}
	if status != domain.OrderPending {
		set["can_edit"] = false
	}
	if status == domain.OrderDelivered {
		set["delivered_at"] = ts
	}

	update := bson.M{
		"$set": set,
		"$push": bson.M{"status_history": domain.StatusHistoryEntry{
			Status:    status,
			Timestamp: ts,
			Source:    source,
		}},
	}

	res, err := r.coll.UpdateOne(ctx, bson.M{"order_code": orderCode}, update)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}

func (r *OrderRepository) list(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*domain.Order, error) {
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer cursor.Close(ctx)

	var orders []*domain.Order
	for cursor.Next(ctx) {
		var order domain.Order
		if err := cursor.Decode(&order); err != nil {
			return nil, fmt.Errorf("list orders: decode: %w", err)
		}
		orders = append(orders, &order)
	}
	return orders, cursor.Err()
}
