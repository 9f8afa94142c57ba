package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/buyapp/order-service/internal/cache"
	"github.com/buyapp/order-service/internal/clients"
	"github.com/buyapp/order-service/internal/domain"
	"github.com/buyapp/order-service/internal/repository"
	"github.com/buyapp/order-service/internal/service"
)

// In-memory fakes backing real services, so handler tests exercise the
// full boundary-to-service path.

type fakeCartRepo struct {
	carts map[string]*domain.Cart
}

func (f *fakeCartRepo) GetCart(_ context.Context, userID string) (*domain.Cart, error) {
	cart, ok := f.carts[userID]
	if !ok {
		return nil, repository.ErrCartNotFound
	}
	clone := *cart
	clone.Items = append([]domain.CartItem{}, cart.Items...)
	return &clone, nil
}

func (f *fakeCartRepo) UpsertCart(_ context.Context, cart *domain.Cart) error {
	clone := *cart
	clone.Items = append([]domain.CartItem{}, cart.Items...)
	f.carts[cart.UserID] = &clone
	return nil
}

func (f *fakeCartRepo) DeleteCart(_ context.Context, userID string) error {
	delete(f.carts, userID)
	return nil
}

func (f *fakeCartRepo) CreateIndexes(_ context.Context) error { return nil }

type fakeOrderRepo struct {
	orders map[string]*domain.Order
}

func (f *fakeOrderRepo) Insert(_ context.Context, order *domain.Order) error {
	clone := *order
	f.orders[order.ID] = &clone
	return nil
}

func (f *fakeOrderRepo) FindByID(_ context.Context, orderID string) (*domain.Order, error) {
	order, ok := f.orders[orderID]
	if !ok {
		return nil, repository.ErrOrderNotFound
	}
	clone := *order
	return &clone, nil
}

func (f *fakeOrderRepo) FindByUserID(_ context.Context, userID string) ([]domain.Order, error) {
	return f.collect(func(o *domain.Order) bool { return o.UserID == userID }), nil
}

func (f *fakeOrderRepo) FindByUserIDAndStatus(_ context.Context, userID string, status domain.OrderStatus) ([]domain.Order, error) {
	return f.collect(func(o *domain.Order) bool { return o.UserID == userID && o.Status == status }), nil
}

func (f *fakeOrderRepo) FindByUserIDAndDateRange(_ context.Context, userID string, from, to time.Time) ([]domain.Order, error) {
	return f.collect(func(o *domain.Order) bool {
		return o.UserID == userID && !o.CreatedAt.Before(from) && !o.CreatedAt.After(to)
	}), nil
}

func (f *fakeOrderRepo) FindBySellerID(_ context.Context, sellerID string) ([]domain.Order, error) {
	return f.collect(func(o *domain.Order) bool { return o.ContainsSellerItems(sellerID) }), nil
}

func (f *fakeOrderRepo) FindBySellerIDAndStatus(_ context.Context, sellerID string, status domain.OrderStatus) ([]domain.Order, error) {
	return f.collect(func(o *domain.Order) bool { return o.ContainsSellerItems(sellerID) && o.Status == status }), nil
}

func (f *fakeOrderRepo) FindBySellerIDAndDateRange(_ context.Context, sellerID string, from, to time.Time) ([]domain.Order, error) {
	return f.collect(func(o *domain.Order) bool {
		return o.ContainsSellerItems(sellerID) && !o.CreatedAt.Before(from) && !o.CreatedAt.After(to)
	}), nil
}

func (f *fakeOrderRepo) collect(match func(*domain.Order) bool) []domain.Order {
	result := []domain.Order{}
	for _, order := range f.orders {
		if match(order) {
			result = append(result, *order)
		}
	}
	return result
}

func (f *fakeOrderRepo) UpdateStatus(_ context.Context, orderID string, status domain.OrderStatus) error {
	order, ok := f.orders[orderID]
	if !ok {
		return repository.ErrOrderNotFound
	}
	order.Status = status
	order.UpdatedAt = time.Now().UTC()
	return nil
}

func (f *fakeOrderRepo) Delete(_ context.Context, orderID string) error {
	if _, ok := f.orders[orderID]; !ok {
		return repository.ErrOrderNotFound
	}
	delete(f.orders, orderID)
	return nil
}

func (f *fakeOrderRepo) CreateIndexes(_ context.Context) error { return nil }

type fakeProductClient struct {
	products map[string]*clients.Product
}

func (f *fakeProductClient) GetProduct(_ context.Context, productID string) (*clients.Product, error) {
	product, ok := f.products[productID]
	if !ok {
		return nil, clients.ErrProductNotFound
	}
	clone := *product
	return &clone, nil
}

func (f *fakeProductClient) GetSellerID(_ context.Context, productID string) (string, error) {
	product, ok := f.products[productID]
	if !ok || product.SellerID == "" {
		return "", clients.ErrSellerNotFound
	}
	return product.SellerID, nil
}

func (f *fakeProductClient) ReduceStock(_ context.Context, productID string, quantity int) error {
	if product, ok := f.products[productID]; ok {
		product.Stock -= quantity
	}
	return nil
}

func (f *fakeProductClient) RestoreStock(_ context.Context, productID string, quantity int) error {
	if product, ok := f.products[productID]; ok {
		product.Stock += quantity
	}
	return nil
}

type fakeUserClient struct {
	users map[string]*clients.User
}

func (f *fakeUserClient) GetUserByEmail(_ context.Context, email string) (*clients.User, error) {
	user, ok := f.users[email]
	if !ok {
		return nil, clients.ErrUserNotFound
	}
	return user, nil
}

type missCache struct{}

func (missCache) Get(_ context.Context, _ string) (*domain.Cart, error) {
	return nil, cache.ErrCacheMiss
}
func (missCache) Set(_ context.Context, _ string, _ *domain.Cart) error { return nil }
func (missCache) Delete(_ context.Context, _ string) error              { return nil }

type noopPublisher struct{}

func (noopPublisher) PublishOrderCreated(context.Context, *domain.Order) error { return nil }
func (noopPublisher) PublishOrderStatusChanged(context.Context, *domain.Order, domain.OrderStatus) error {
	return nil
}
func (noopPublisher) PublishOrderCancelled(context.Context, *domain.Order) error { return nil }
func (noopPublisher) Close() error                                               { return nil }

type fixture struct {
	carts    *fakeCartRepo
	orders   *fakeOrderRepo
	products *fakeProductClient
	users    *fakeUserClient
	router   http.Handler
}

func newFixture() *fixture {
	f := &fixture{
		carts:    &fakeCartRepo{carts: map[string]*domain.Cart{}},
		orders:   &fakeOrderRepo{orders: map[string]*domain.Order{}},
		products: &fakeProductClient{products: map[string]*clients.Product{}},
		users:    &fakeUserClient{users: map[string]*clients.User{}},
	}

	cartService := service.NewCartService(f.carts, missCache{}, f.products, zerolog.Nop())
	orderService := service.NewOrderService(f.orders, f.carts, missCache{}, f.products, f.users, noopPublisher{}, zerolog.Nop())
	f.router = NewRouter(cartService, orderService)
	return f
}
