package service

import (
	"context"
	"strings"
	"time"

	"github.com/buyapp/order-service/internal/apperr"
	"github.com/buyapp/order-service/internal/domain"
)

// SearchFilter carries the optional search criteria. Both dates must be
// set for the range to apply; Status is pre-validated by the boundary.
type SearchFilter struct {
	Query    string
	Status   *domain.OrderStatus
	DateFrom *time.Time
	DateTo   *time.Time
}

func (f SearchFilter) hasDateRange() bool {
	return f.DateFrom != nil && f.DateTo != nil
}

// SearchOrders filters the buyer's orders. The store answers the cheapest
// base query (date range, else status, else all); the remaining criteria
// are applied in memory. Store ordering (newest first) is preserved.
func (s *OrderService) SearchOrders(ctx context.Context, userID string, filter SearchFilter) ([]domain.Order, error) {
	var (
		orders        []domain.Order
		err           error
		statusApplied bool
	)

	switch {
	case filter.hasDateRange():
		orders, err = s.orders.FindByUserIDAndDateRange(ctx, userID, *filter.DateFrom, *filter.DateTo)
	case filter.Status != nil:
		orders, err = s.orders.FindByUserIDAndStatus(ctx, userID, *filter.Status)
		statusApplied = true
	default:
		orders, err = s.orders.FindByUserID(ctx, userID)
	}
	if err != nil {
		return nil, apperr.Internal(err, "failed to search orders")
	}

	if filter.Status != nil && !statusApplied {
		orders = filterByStatus(orders, *filter.Status)
	}

	if q := strings.TrimSpace(filter.Query); q != "" {
		lower := strings.ToLower(q)
		filtered := orders[:0]
		for _, order := range orders {
			if order.MatchesQuery(lower) {
				filtered = append(filtered, order)
			}
		}
		orders = filtered
	}

	return orders, nil
}

// SearchSellerOrders is the seller-side counterpart: the base query is
// date-range-wide when both dates are set (seller membership is then
// checked in memory), else seller-scoped. Query text only matches the
// seller's own product names. Results are projected per seller.
func (s *OrderService) SearchSellerOrders(ctx context.Context, sellerEmail string, filter SearchFilter) ([]SellerOrderView, error) {
	sellerID, err := s.resolveSellerID(ctx, sellerEmail)
	if err != nil {
		return nil, err
	}

	var (
		orders        []domain.Order
		statusApplied bool
	)

	switch {
	case filter.hasDateRange():
		orders, err = s.orders.FindBySellerIDAndDateRange(ctx, sellerID, *filter.DateFrom, *filter.DateTo)
	case filter.Status != nil:
		orders, err = s.orders.FindBySellerIDAndStatus(ctx, sellerID, *filter.Status)
		statusApplied = true
	default:
		orders, err = s.orders.FindBySellerID(ctx, sellerID)
	}
	if err != nil {
		return nil, apperr.Internal(err, "failed to search seller orders")
	}

	if filter.Status != nil && !statusApplied {
		orders = filterByStatus(orders, *filter.Status)
	}

	if q := strings.TrimSpace(filter.Query); q != "" {
		lower := strings.ToLower(q)
		filtered := orders[:0]
		for _, order := range orders {
			if order.MatchesSellerQuery(sellerID, lower) {
				filtered = append(filtered, order)
			}
		}
		orders = filtered
	}

	return projectForSeller(orders, sellerID), nil
}

func filterByStatus(orders []domain.Order, status domain.OrderStatus) []domain.Order {
	filtered := orders[:0]
	for _, order := range orders {
		if order.Status == status {
			filtered = append(filtered, order)
		}
	}
	return filtered
}
