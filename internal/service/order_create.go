package service

import (
	"context"
	"errors"

	"github.com/buyapp/order-service/internal/apperr"
	"github.com/buyapp/order-service/internal/clients"
	"github.com/buyapp/order-service/internal/domain"
	"github.com/buyapp/order-service/internal/repository"
)

// CreateOrder turns the caller's cart into a new PENDING order, reduces
// catalog stock per line, then empties the cart. The order insert is the
// commit point: a stock reduction failure afterwards surfaces as a server
// error but the order stays persisted; a cart clear failure is logged only.
func (s *OrderService) CreateOrder(ctx context.Context, userID string, address domain.ShippingAddress) (*domain.Order, error) {
	if err := validateShippingAddress(address); err != nil {
		return nil, err
	}

	cart, err := s.carts.GetCart(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrCartNotFound) {
			return nil, apperr.NotFound("cart not found")
		}
		return nil, apperr.Internal(err, "failed to load cart")
	}
	if cart.IsEmpty() {
		return nil, apperr.InvalidArgument("cart is empty")
	}

	items, err := s.buildOrderItems(ctx, cart.Items)
	if err != nil {
		return nil, err
	}

	order := domain.NewOrder(userID, items, address)
	if err := s.orders.Insert(ctx, order); err != nil {
		return nil, apperr.Internal(err, "failed to save order")
	}

	if err := s.reduceStock(ctx, order); err != nil {
		return nil, err
	}

	s.clearCartAfterOrder(ctx, userID)
	s.publishCreated(ctx, order)

	s.logger.Info().
		Str("order_id", order.ID).
		Str("user_id", userID).
		Float64("total", order.TotalAmount).
		Msg("order created")
	return order, nil
}

// buildOrderItems validates stock for every cart line and resolves each
// product's seller. Product and seller-id lookups are memoized per call;
// name and price come from the cart snapshots untouched.
func (s *OrderService) buildOrderItems(ctx context.Context, cartItems []domain.CartItem) ([]domain.OrderItem, error) {
	productByID := make(map[string]*clients.Product, len(cartItems))
	sellerByProductID := make(map[string]string, len(cartItems))

	for _, line := range cartItems {
		product, ok := productByID[line.ProductID]
		if !ok {
			fetched, err := s.products.GetProduct(ctx, line.ProductID)
			if err != nil {
				if errors.Is(err, clients.ErrProductNotFound) {
					return nil, apperr.NotFound("product not found: %s", line.ProductID)
				}
				return nil, apperr.Dependency(err, "product service unavailable")
			}
			product = fetched
			productByID[line.ProductID] = product
		}
		if product.Stock < line.Quantity {
			return nil, insufficientStock(product, line.Quantity)
		}

		if _, ok := sellerByProductID[line.ProductID]; !ok {
			sellerID := product.SellerID
			if sellerID == "" {
				resolved, err := s.products.GetSellerID(ctx, line.ProductID)
				if err != nil {
					if errors.Is(err, clients.ErrSellerNotFound) || errors.Is(err, clients.ErrProductNotFound) {
						return nil, apperr.NotFound("seller not found for product: %s", line.ProductID)
					}
					return nil, apperr.Dependency(err, "product service unavailable")
				}
				sellerID = resolved
			}
			sellerByProductID[line.ProductID] = sellerID
		}
	}

	items := make([]domain.OrderItem, len(cartItems))
	for i, line := range cartItems {
		items[i] = domain.OrderItem{
			ProductID:   line.ProductID,
			ProductName: line.ProductName,
			SellerID:    sellerByProductID[line.ProductID],
			Quantity:    line.Quantity,
			Price:       line.Price,
		}
	}
	return items, nil
}

func validateShippingAddress(address domain.ShippingAddress) error {
	if address.FullName == "" || address.Address == "" || address.City == "" || address.Phone == "" {
		return apperr.InvalidArgument("shipping address requires fullName, address, city and phone")
	}
	return nil
}
