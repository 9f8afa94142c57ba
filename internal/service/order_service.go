package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/buyapp/order-service/internal/apperr"
	"github.com/buyapp/order-service/internal/cache"
	"github.com/buyapp/order-service/internal/clients"
	"github.com/buyapp/order-service/internal/domain"
	"github.com/buyapp/order-service/internal/events"
	"github.com/buyapp/order-service/internal/repository"
)

type OrderService struct {
	orders    repository.OrderRepository
	carts     repository.CartRepository
	cartCache cache.CartCache
	products  clients.ProductClient
	users     clients.UserClient
	publisher events.Publisher
	logger    zerolog.Logger
}

func NewOrderService(
	orders repository.OrderRepository,
	carts repository.CartRepository,
	cartCache cache.CartCache,
	products clients.ProductClient,
	users clients.UserClient,
	publisher events.Publisher,
	logger zerolog.Logger,
) *OrderService {
	return &OrderService{
		orders:    orders,
		carts:     carts,
		cartCache: cartCache,
		products:  products,
		users:     users,
		publisher: publisher,
		logger:    logger.With().Str("component", "order_service").Logger(),
	}
}

// GetOrders returns the buyer's orders, newest first.
func (s *OrderService) GetOrders(ctx context.Context, userID string) ([]domain.Order, error) {
	orders, err := s.orders.FindByUserID(ctx, userID)
	if err != nil {
		return nil, apperr.Internal(err, "failed to load orders")
	}
	return orders, nil
}

// GetOrderByID loads one order and enforces buyer ownership.
func (s *OrderService) GetOrderByID(ctx context.Context, orderID, userID string) (*domain.Order, error) {
	return s.requireOwnedOrder(ctx, orderID, userID)
}

func (s *OrderService) requireOwnedOrder(ctx context.Context, orderID, userID string) (*domain.Order, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return nil, apperr.NotFound("order not found: %s", orderID)
		}
		return nil, apperr.Internal(err, "failed to load order")
	}
	if !order.BelongsToUser(userID) {
		return nil, apperr.Forbidden("order does not belong to user")
	}
	return order, nil
}

// resolveSellerID maps a seller email to the seller's catalog id.
func (s *OrderService) resolveSellerID(ctx context.Context, sellerEmail string) (string, error) {
	user, err := s.users.GetUserByEmail(ctx, sellerEmail)
	if err != nil {
		if errors.Is(err, clients.ErrUserNotFound) {
			return "", apperr.NotFound("seller not found: %s", sellerEmail)
		}
		return "", apperr.Dependency(err, "user service unavailable")
	}
	return user.ID, nil
}

// validateStock fetches each product once and checks every line fits
// current stock. The memo map doubles as the per-call product cache.
func (s *OrderService) validateStock(ctx context.Context, items []domain.OrderItem) (map[string]*clients.Product, error) {
	productByID := make(map[string]*clients.Product, len(items))
	for _, item := range items {
		product, ok := productByID[item.ProductID]
		if !ok {
			fetched, err := s.products.GetProduct(ctx, item.ProductID)
			if err != nil {
				if errors.Is(err, clients.ErrProductNotFound) {
					return nil, apperr.NotFound("product not found: %s", item.ProductID)
				}
				return nil, apperr.Dependency(err, "product service unavailable")
			}
			product = fetched
			productByID[item.ProductID] = product
		}
		if product.Stock < item.Quantity {
			return nil, insufficientStock(product, item.Quantity)
		}
	}
	return productByID, nil
}

// reduceStock runs the catalog-side reservation for every line. The order
// is already persisted when this runs; a failure surfaces as Internal and
// leaves the order PENDING with its stock un-reduced.
func (s *OrderService) reduceStock(ctx context.Context, order *domain.Order) error {
	for _, item := range order.Items {
		if err := s.products.ReduceStock(ctx, item.ProductID, item.Quantity); err != nil {
			s.logger.Error().Err(err).
				Str("order_id", order.ID).
				Str("product_id", item.ProductID).
				Int("quantity", item.Quantity).
				Msg("stock reduction failed after order commit")
			return apperr.Internal(err, "failed to reduce stock for order %s", order.ID)
		}
	}
	return nil
}

// clearCartAfterOrder empties the buyer's cart. The order is committed at
// this point so a failure is logged and swallowed.
func (s *OrderService) clearCartAfterOrder(ctx context.Context, userID string) {
	cart, err := s.carts.GetCart(ctx, userID)
	if err != nil {
		s.logger.Warn().Err(err).Str("user_id", userID).Msg("cart load failed after order commit")
		return
	}

	cart.Clear()
	if err := s.carts.UpsertCart(ctx, cart); err != nil {
		s.logger.Warn().Err(err).Str("user_id", userID).Msg("cart clear failed after order commit")
		return
	}

	cacheCtx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.cartCache.Delete(cacheCtx, userID); err != nil {
		s.logger.Warn().Err(err).Str("user_id", userID).Msg("cache invalidate failed")
	}
}

func (s *OrderService) publishCreated(ctx context.Context, order *domain.Order) {
	if err := s.publisher.PublishOrderCreated(ctx, order); err != nil {
		s.logger.Warn().Err(err).Str("order_id", order.ID).Msg("order.created publish failed")
	}
}

func (s *OrderService) publishStatusChanged(ctx context.Context, order *domain.Order, prev domain.OrderStatus) {
	if err := s.publisher.PublishOrderStatusChanged(ctx, order, prev); err != nil {
		s.logger.Warn().Err(err).Str("order_id", order.ID).Msg("order.status_changed publish failed")
	}
}

func (s *OrderService) publishCancelled(ctx context.Context, order *domain.Order) {
	if err := s.publisher.PublishOrderCancelled(ctx, order); err != nil {
		s.logger.Warn().Err(err).Str("order_id", order.ID).Msg("order.cancelled publish failed")
	}
}
