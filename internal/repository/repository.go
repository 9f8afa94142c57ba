package repository

import (
	"context"
	"errors"
	"time"

	"github.com/buyapp/order-service/internal/domain"
)

var (
	ErrCartNotFound  = errors.New("cart not found")
	ErrOrderNotFound = errors.New("order not found")
)

type CartRepository interface {
	GetCart(ctx context.Context, userID string) (*domain.Cart, error)
	UpsertCart(ctx context.Context, cart *domain.Cart) error
	DeleteCart(ctx context.Context, userID string) error
	CreateIndexes(ctx context.Context) error
}

type OrderRepository interface {
	Insert(ctx context.Context, order *domain.Order) error
	FindByID(ctx context.Context, orderID string) (*domain.Order, error)
	FindByUserID(ctx context.Context, userID string) ([]domain.Order, error)
	FindByUserIDAndStatus(ctx context.Context, userID string, status domain.OrderStatus) ([]domain.Order, error)
	FindByUserIDAndDateRange(ctx context.Context, userID string, from, to time.Time) ([]domain.Order, error)
	FindBySellerID(ctx context.Context, sellerID string) ([]domain.Order, error)
	FindBySellerIDAndStatus(ctx context.Context, sellerID string, status domain.OrderStatus) ([]domain.Order, error)
	FindBySellerIDAndDateRange(ctx context.Context, sellerID string, from, to time.Time) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, orderID string, status domain.OrderStatus) error
	Delete(ctx context.Context, orderID string) error
	CreateIndexes(ctx context.Context) error
}
