package service

import (
	"context"

	"github.com/buyapp/order-service/internal/apperr"
	"github.com/buyapp/order-service/internal/domain"
)

// RedoOrder clones an existing order's items and shipping address into a
// fresh PENDING order for the same buyer. Name and price snapshots are
// copied verbatim; only stock is re-validated. The original order is not
// modified.
func (s *OrderService) RedoOrder(ctx context.Context, orderID, userID string) (*domain.Order, error) {
	original, err := s.requireOwnedOrder(ctx, orderID, userID)
	if err != nil {
		return nil, err
	}

	if len(original.Items) == 0 {
		return nil, apperr.InvalidArgument("order has no items")
	}

	if _, err := s.validateStock(ctx, original.Items); err != nil {
		return nil, err
	}

	items := make([]domain.OrderItem, len(original.Items))
	copy(items, original.Items)

	order := domain.NewOrder(userID, items, original.ShippingAddress)
	if err := s.orders.Insert(ctx, order); err != nil {
		return nil, apperr.Internal(err, "failed to save order")
	}

	if err := s.reduceStock(ctx, order); err != nil {
		return nil, err
	}

	s.publishCreated(ctx, order)

	s.logger.Info().
		Str("order_id", order.ID).
		Str("source_order_id", original.ID).
		Str("user_id", userID).
		Msg("order redone")
	return order, nil
}
