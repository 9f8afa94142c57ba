package service

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/buyapp/order-service/internal/cache"
	"github.com/buyapp/order-service/internal/clients"
	"github.com/buyapp/order-service/internal/domain"
	"github.com/buyapp/order-service/internal/events"
	"github.com/buyapp/order-service/internal/repository"
)

// MockCartRepository implements repository.CartRepository for testing
type MockCartRepository struct {
	Carts     map[string]*domain.Cart
	GetErr    error
	UpsertErr error
}

func NewMockCartRepository() *MockCartRepository {
	return &MockCartRepository{Carts: map[string]*domain.Cart{}}
}

func (m *MockCartRepository) GetCart(_ context.Context, userID string) (*domain.Cart, error) {
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	cart, ok := m.Carts[userID]
	if !ok {
		return nil, repository.ErrCartNotFound
	}
	clone := *cart
	clone.Items = append([]domain.CartItem{}, cart.Items...)
	return &clone, nil
}

func (m *MockCartRepository) UpsertCart(_ context.Context, cart *domain.Cart) error {
	if m.UpsertErr != nil {
		return m.UpsertErr
	}
	clone := *cart
	clone.Items = append([]domain.CartItem{}, cart.Items...)
	m.Carts[cart.UserID] = &clone
	return nil
}

func (m *MockCartRepository) DeleteCart(_ context.Context, userID string) error {
	if _, ok := m.Carts[userID]; !ok {
		return repository.ErrCartNotFound
	}
	delete(m.Carts, userID)
	return nil
}

func (m *MockCartRepository) CreateIndexes(_ context.Context) error { return nil }

// MockOrderRepository implements repository.OrderRepository for testing
type MockOrderRepository struct {
	Orders          map[string]*domain.Order
	Inserted        []*domain.Order
	InsertErr       error
	UpdateStatusErr error
	DeleteErr       error
	FindErr         error
}

func NewMockOrderRepository() *MockOrderRepository {
	return &MockOrderRepository{Orders: map[string]*domain.Order{}}
}

func (m *MockOrderRepository) Insert(_ context.Context, order *domain.Order) error {
	if m.InsertErr != nil {
		return m.InsertErr
	}
	clone := *order
	m.Orders[order.ID] = &clone
	m.Inserted = append(m.Inserted, &clone)
	return nil
}

func (m *MockOrderRepository) FindByID(_ context.Context, orderID string) (*domain.Order, error) {
	if m.FindErr != nil {
		return nil, m.FindErr
	}
	order, ok := m.Orders[orderID]
	if !ok {
		return nil, repository.ErrOrderNotFound
	}
	clone := *order
	return &clone, nil
}

func (m *MockOrderRepository) FindByUserID(_ context.Context, userID string) ([]domain.Order, error) {
	if m.FindErr != nil {
		return nil, m.FindErr
	}
	return m.collect(func(o *domain.Order) bool { return o.UserID == userID }), nil
}

func (m *MockOrderRepository) FindByUserIDAndStatus(_ context.Context, userID string, status domain.OrderStatus) ([]domain.Order, error) {
	return m.collect(func(o *domain.Order) bool { return o.UserID == userID && o.Status == status }), nil
}

func (m *MockOrderRepository) FindByUserIDAndDateRange(_ context.Context, userID string, from, to time.Time) ([]domain.Order, error) {
	return m.collect(func(o *domain.Order) bool {
		return o.UserID == userID && !o.CreatedAt.Before(from) && !o.CreatedAt.After(to)
	}), nil
}

func (m *MockOrderRepository) FindBySellerID(_ context.Context, sellerID string) ([]domain.Order, error) {
	return m.collect(func(o *domain.Order) bool { return o.ContainsSellerItems(sellerID) }), nil
}

func (m *MockOrderRepository) FindBySellerIDAndStatus(_ context.Context, sellerID string, status domain.OrderStatus) ([]domain.Order, error) {
	return m.collect(func(o *domain.Order) bool { return o.ContainsSellerItems(sellerID) && o.Status == status }), nil
}

func (m *MockOrderRepository) FindBySellerIDAndDateRange(_ context.Context, sellerID string, from, to time.Time) ([]domain.Order, error) {
	return m.collect(func(o *domain.Order) bool {
		return o.ContainsSellerItems(sellerID) && !o.CreatedAt.Before(from) && !o.CreatedAt.After(to)
	}), nil
}

// collect returns matches sorted newest first, matching the store contract.
func (m *MockOrderRepository) collect(match func(*domain.Order) bool) []domain.Order {
	result := []domain.Order{}
	for _, order := range m.Orders {
		if match(order) {
			result = append(result, *order)
		}
	}
	for i := 0; i < len(result); i++ {
		for j := i + 1; j < len(result); j++ {
			if result[j].CreatedAt.After(result[i].CreatedAt) {
				result[i], result[j] = result[j], result[i]
			}
		}
	}
	return result
}

func (m *MockOrderRepository) UpdateStatus(_ context.Context, orderID string, status domain.OrderStatus) error {
	if m.UpdateStatusErr != nil {
		return m.UpdateStatusErr
	}
	order, ok := m.Orders[orderID]
	if !ok {
		return repository.ErrOrderNotFound
	}
	order.Status = status
	order.UpdatedAt = time.Now().UTC()
	return nil
}

func (m *MockOrderRepository) Delete(_ context.Context, orderID string) error {
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	if _, ok := m.Orders[orderID]; !ok {
		return repository.ErrOrderNotFound
	}
	delete(m.Orders, orderID)
	return nil
}

func (m *MockOrderRepository) CreateIndexes(_ context.Context) error { return nil }

// MockProductClient implements clients.ProductClient for testing
type MockProductClient struct {
	Products      map[string]*clients.Product
	GetErr        error
	ReduceErr     error
	RestoreErr    error
	ReduceCalls   []StockCall
	RestoreCalls  []StockCall
	SellerIDErr   error
	GetCallCount  int
	SellerIDCalls int
}

type StockCall struct {
	ProductID string
	Quantity  int
}

func NewMockProductClient() *MockProductClient {
	return &MockProductClient{Products: map[string]*clients.Product{}}
}

func (m *MockProductClient) GetProduct(_ context.Context, productID string) (*clients.Product, error) {
	m.GetCallCount++
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	product, ok := m.Products[productID]
	if !ok {
		return nil, clients.ErrProductNotFound
	}
	clone := *product
	return &clone, nil
}

func (m *MockProductClient) GetSellerID(_ context.Context, productID string) (string, error) {
	m.SellerIDCalls++
	if m.SellerIDErr != nil {
		return "", m.SellerIDErr
	}
	product, ok := m.Products[productID]
	if !ok || product.SellerID == "" {
		return "", clients.ErrSellerNotFound
	}
	return product.SellerID, nil
}

func (m *MockProductClient) ReduceStock(_ context.Context, productID string, quantity int) error {
	if m.ReduceErr != nil {
		return m.ReduceErr
	}
	m.ReduceCalls = append(m.ReduceCalls, StockCall{ProductID: productID, Quantity: quantity})
	if product, ok := m.Products[productID]; ok {
		product.Stock -= quantity
	}
	return nil
}

func (m *MockProductClient) RestoreStock(_ context.Context, productID string, quantity int) error {
	if m.RestoreErr != nil {
		return m.RestoreErr
	}
	m.RestoreCalls = append(m.RestoreCalls, StockCall{ProductID: productID, Quantity: quantity})
	if product, ok := m.Products[productID]; ok {
		product.Stock += quantity
	}
	return nil
}

// MockUserClient implements clients.UserClient for testing
type MockUserClient struct {
	Users map[string]*clients.User
	Err   error
}

func NewMockUserClient() *MockUserClient {
	return &MockUserClient{Users: map[string]*clients.User{}}
}

func (m *MockUserClient) GetUserByEmail(_ context.Context, email string) (*clients.User, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	user, ok := m.Users[email]
	if !ok {
		return nil, clients.ErrUserNotFound
	}
	return user, nil
}

// MockCartCache implements cache.CartCache. The service populates the
// cache from a background goroutine, so access is guarded.
type MockCartCache struct {
	mu        sync.Mutex
	Entries   map[string]*domain.Cart
	Deleted   []string
	GetErr    error
	SetErr    error
	DeleteErr error
	setCalls  int
}

func NewMockCartCache() *MockCartCache {
	return &MockCartCache{Entries: map[string]*domain.Cart{}}
}

func (m *MockCartCache) Get(_ context.Context, userID string) (*domain.Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	cart, ok := m.Entries[userID]
	if !ok {
		return nil, cache.ErrCacheMiss
	}
	return cart, nil
}

func (m *MockCartCache) Set(_ context.Context, userID string, cart *domain.Cart) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.setCalls++
	if m.SetErr != nil {
		return m.SetErr
	}
	m.Entries[userID] = cart
	return nil
}

func (m *MockCartCache) Delete(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	delete(m.Entries, userID)
	m.Deleted = append(m.Deleted, userID)
	return nil
}

func (m *MockCartCache) SetCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.setCalls
}

// MockPublisher implements events.Publisher for testing
type MockPublisher struct {
	Created       []*domain.Order
	StatusChanged []*domain.Order
	Cancelled     []*domain.Order
	Err           error
}

func (m *MockPublisher) PublishOrderCreated(_ context.Context, order *domain.Order) error {
	if m.Err != nil {
		return m.Err
	}
	m.Created = append(m.Created, order)
	return nil
}

func (m *MockPublisher) PublishOrderStatusChanged(_ context.Context, order *domain.Order, _ domain.OrderStatus) error {
	if m.Err != nil {
		return m.Err
	}
	m.StatusChanged = append(m.StatusChanged, order)
	return nil
}

func (m *MockPublisher) PublishOrderCancelled(_ context.Context, order *domain.Order) error {
	if m.Err != nil {
		return m.Err
	}
	m.Cancelled = append(m.Cancelled, order)
	return nil
}

func (m *MockPublisher) Close() error { return nil }

var _ events.Publisher = (*MockPublisher)(nil)

type testEnv struct {
	carts     *MockCartRepository
	orders    *MockOrderRepository
	cache     *MockCartCache
	products  *MockProductClient
	users     *MockUserClient
	publisher *MockPublisher
}

func newTestEnv() *testEnv {
	return &testEnv{
		carts:     NewMockCartRepository(),
		orders:    NewMockOrderRepository(),
		cache:     NewMockCartCache(),
		products:  NewMockProductClient(),
		users:     NewMockUserClient(),
		publisher: &MockPublisher{},
	}
}

func (e *testEnv) cartService() *CartService {
	return NewCartService(e.carts, e.cache, e.products, zerolog.Nop())
}

func (e *testEnv) orderService() *OrderService {
	return NewOrderService(e.orders, e.carts, e.cache, e.products, e.users, e.publisher, zerolog.Nop())
}
