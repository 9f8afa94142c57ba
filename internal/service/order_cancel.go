package service

import (
	"context"

	"github.com/buyapp/order-service/internal/apperr"
	"github.com/buyapp/order-service/internal/domain"
)

// CancelOrder restores catalog stock for every line and then moves the
// order to CANCELLED. Stock is restored before the status write so a
// failed restore leaves the order cancellable and retryable; the accepted
// drift direction is extra stock in the catalog, never missing stock.
func (s *OrderService) CancelOrder(ctx context.Context, orderID, userID string) (*domain.Order, error) {
	order, err := s.requireOwnedOrder(ctx, orderID, userID)
	if err != nil {
		return nil, err
	}

	if !order.Status.CanBeCancelled() {
		return nil, apperr.Conflict("order in status %s cannot be cancelled", order.Status)
	}

	for _, item := range order.Items {
		if err := s.products.RestoreStock(ctx, item.ProductID, item.Quantity); err != nil {
			s.logger.Error().Err(err).
				Str("order_id", order.ID).
				Str("product_id", item.ProductID).
				Msg("stock restore failed during cancellation")
			return nil, apperr.Dependency(err, "failed to restore stock for order %s", order.ID)
		}
	}

	prev := order.Status
	if err := s.orders.UpdateStatus(ctx, order.ID, domain.StatusCancelled); err != nil {
		return nil, apperr.Internal(err, "failed to cancel order")
	}
	order.Status = domain.StatusCancelled

	s.publishCancelled(ctx, order)

	s.logger.Info().
		Str("order_id", order.ID).
		Str("user_id", userID).
		Str("previous_status", prev.String()).
		Msg("order cancelled")
	return order, nil
}

// DeleteOrder removes a terminal order. Stock is never touched: a
// cancelled order already restored it and a delivered one consumed it.
func (s *OrderService) DeleteOrder(ctx context.Context, orderID, userID string) error {
	order, err := s.requireOwnedOrder(ctx, orderID, userID)
	if err != nil {
		return err
	}

	if !order.Status.CanBeDeleted() {
		return apperr.Conflict("order in status %s cannot be deleted", order.Status)
	}

	if err := s.orders.Delete(ctx, order.ID); err != nil {
		return apperr.Internal(err, "failed to delete order")
	}

	s.logger.Info().Str("order_id", order.ID).Str("user_id", userID).Msg("order deleted")
	return nil
}
