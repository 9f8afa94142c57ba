package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/buyapp/order-service/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type orderMongoRepository struct {
	collection *mongo.Collection
}

func NewOrderRepository(db *mongo.Database) OrderRepository {
	return &orderMongoRepository{
		collection: db.Collection("orders"),
	}
}

func (m *orderMongoRepository) Insert(ctx context.Context, order *domain.Order) error {
	_, err := m.collection.InsertOne(ctx, order)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}
	return nil
}

func (m *orderMongoRepository) FindByID(ctx context.Context, orderID string) (*domain.Order, error) {
	var order domain.Order

	filter := bson.M{"_id": orderID}
	err := m.collection.FindOne(ctx, filter).Decode(&order)

	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	return &order, nil
}

func (m *orderMongoRepository) FindByUserID(ctx context.Context, userID string) ([]domain.Order, error) {
	return m.find(ctx, bson.M{"user_id": userID})
}

func (m *orderMongoRepository) FindByUserIDAndStatus(ctx context.Context, userID string, status domain.OrderStatus) ([]domain.Order, error) {
	return m.find(ctx, bson.M{"user_id": userID, "status": status})
}

func (m *orderMongoRepository) FindByUserIDAndDateRange(ctx context.Context, userID string, from, to time.Time) ([]domain.Order, error) {
	return m.find(ctx, bson.M{
		"user_id":    userID,
		"created_at": bson.M{"$gte": from, "$lte": to},
	})
}

func (m *orderMongoRepository) FindBySellerID(ctx context.Context, sellerID string) ([]domain.Order, error) {
	return m.find(ctx, bson.M{"items.seller_id": sellerID})
}

func (m *orderMongoRepository) FindBySellerIDAndStatus(ctx context.Context, sellerID string, status domain.OrderStatus) ([]domain.Order, error) {
	return m.find(ctx, bson.M{"items.seller_id": sellerID, "status": status})
}

func (m *orderMongoRepository) FindBySellerIDAndDateRange(ctx context.Context, sellerID string, from, to time.Time) ([]domain.Order, error) {
	return m.find(ctx, bson.M{
		"items.seller_id": sellerID,
		"created_at":      bson.M{"$gte": from, "$lte": to},
	})
}

// find runs a filter with newest-first ordering shared by all list queries.
func (m *orderMongoRepository) find(ctx context.Context, filter bson.M) ([]domain.Order, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := m.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer cursor.Close(ctx)

	orders := []domain.Order{}
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, fmt.Errorf("failed to decode orders: %w", err)
	}

	return orders, nil
}

func (m *orderMongoRepository) UpdateStatus(ctx context.Context, orderID string, status domain.OrderStatus) error {
	filter := bson.M{"_id": orderID}
	update := bson.M{"$set": bson.M{
		"status":     status,
		"updated_at": time.Now().UTC(),
	}}

	result, err := m.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}

	if result.MatchedCount == 0 {
		return ErrOrderNotFound
	}
	return nil
}

func (m *orderMongoRepository) Delete(ctx context.Context, orderID string) error {
	filter := bson.M{"_id": orderID}

	result, err := m.collection.DeleteOne(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to delete order: %w", err)
	}

	if result.DeletedCount == 0 {
		return ErrOrderNotFound
	}

	return nil
}

func (m *orderMongoRepository) CreateIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}},
		},
		{
			Keys: bson.D{{Key: "items.seller_id", Value: 1}, {Key: "created_at", Value: -1}},
		},
		{
			Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "status", Value: 1}, {Key: "created_at", Value: -1}},
		},
		{
			Keys: bson.D{{Key: "created_at", Value: -1}},
		},
	}

	_, err := m.collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		return fmt.Errorf("failed to create order indexes: %w", err)
	}

	return nil
}
