package service

import (
	"context"
	"errors"
	"time"

	"github.com/buyapp/order-service/internal/apperr"
	"github.com/buyapp/order-service/internal/domain"
	"github.com/buyapp/order-service/internal/repository"
)

// SellerOrderView is a projection of an order onto one seller: only that
// seller's lines are present and TotalAmount is their subtotal. The
// buyer's grand total is never exposed to sellers.
type SellerOrderView struct {
	ID              string                 `json:"id"`
	UserID          string                 `json:"userId"`
	Items           []domain.OrderItem     `json:"items"`
	Status          domain.OrderStatus     `json:"status"`
	TotalAmount     float64                `json:"totalAmount"`
	ShippingAddress domain.ShippingAddress `json:"shippingAddress"`
	CreatedAt       time.Time              `json:"createdAt"`
	UpdatedAt       time.Time              `json:"updatedAt"`
}

// GetSellerOrders returns every order containing at least one of the
// seller's lines, projected per seller, newest first.
func (s *OrderService) GetSellerOrders(ctx context.Context, sellerEmail string) ([]SellerOrderView, error) {
	sellerID, err := s.resolveSellerID(ctx, sellerEmail)
	if err != nil {
		return nil, err
	}

	orders, err := s.orders.FindBySellerID(ctx, sellerID)
	if err != nil {
		return nil, apperr.Internal(err, "failed to load seller orders")
	}

	return projectForSeller(orders, sellerID), nil
}

func (s *OrderService) GetSellerOrderByID(ctx context.Context, orderID, sellerEmail string) (*SellerOrderView, error) {
	sellerID, err := s.resolveSellerID(ctx, sellerEmail)
	if err != nil {
		return nil, err
	}

	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return nil, apperr.NotFound("order not found: %s", orderID)
		}
		return nil, apperr.Internal(err, "failed to load order")
	}
	if !order.ContainsSellerItems(sellerID) {
		return nil, apperr.Forbidden("order contains no items for this seller")
	}

	view := toSellerView(order, sellerID)
	return &view, nil
}

// UpdateOrderStatus applies a seller-initiated transition. The caller must
// own at least one line in the order and the transition must be legal.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, orderID string, newStatus domain.OrderStatus, sellerEmail string) (*SellerOrderView, error) {
	sellerID, err := s.resolveSellerID(ctx, sellerEmail)
	if err != nil {
		return nil, err
	}

	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return nil, apperr.NotFound("order not found: %s", orderID)
		}
		return nil, apperr.Internal(err, "failed to load order")
	}
	if !order.ContainsSellerItems(sellerID) {
		return nil, apperr.Forbidden("order contains no items for this seller")
	}
	if !order.Status.CanTransitionTo(newStatus) {
		return nil, apperr.Conflict("cannot transition order from %s to %s", order.Status, newStatus)
	}

	prev := order.Status
	if err := s.orders.UpdateStatus(ctx, order.ID, newStatus); err != nil {
		return nil, apperr.Internal(err, "failed to update order status")
	}
	order.Status = newStatus
	order.UpdatedAt = time.Now().UTC()

	s.publishStatusChanged(ctx, order, prev)

	s.logger.Info().
		Str("order_id", order.ID).
		Str("seller_id", sellerID).
		Str("from", prev.String()).
		Str("to", newStatus.String()).
		Msg("order status updated")

	view := toSellerView(order, sellerID)
	return &view, nil
}

func projectForSeller(orders []domain.Order, sellerID string) []SellerOrderView {
	views := make([]SellerOrderView, 0, len(orders))
	for i := range orders {
		if !orders[i].ContainsSellerItems(sellerID) {
			continue
		}
		views = append(views, toSellerView(&orders[i], sellerID))
	}
	return views
}

func toSellerView(order *domain.Order, sellerID string) SellerOrderView {
	items, subtotal := order.SellerItems(sellerID)
	return SellerOrderView{
		ID:              order.ID,
		UserID:          order.UserID,
		Items:           items,
		Status:          order.Status,
		TotalAmount:     subtotal,
		ShippingAddress: order.ShippingAddress,
		CreatedAt:       order.CreatedAt,
		UpdatedAt:       order.UpdatedAt,
	}
}
