package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/buyapp/order-service/internal/apperr"
	"github.com/buyapp/order-service/internal/domain"
	"github.com/buyapp/order-service/internal/service"
)

type OrderHandler struct {
	orders *service.OrderService
}

func NewOrderHandler(orders *service.OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

type CreateOrderRequestDTO struct {
	ShippingAddress domain.ShippingAddress `json:"shippingAddress"`
}

func (h *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	userID := userEmailFromContext(r.Context())

	var req CreateOrderRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	order, err := h.orders.CreateOrder(r.Context(), userID, req.ShippingAddress)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, order)
}

func (h *OrderHandler) GetOrders(w http.ResponseWriter, r *http.Request) {
	userID := userEmailFromContext(r.Context())

	orders, err := h.orders.GetOrders(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, orders)
}

func (h *OrderHandler) GetOrderByID(w http.ResponseWriter, r *http.Request) {
	userID := userEmailFromContext(r.Context())
	orderID := chi.URLParam(r, "id")

	order, err := h.orders.GetOrderByID(r.Context(), orderID, userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, order)
}

func (h *OrderHandler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	userID := userEmailFromContext(r.Context())
	orderID := chi.URLParam(r, "id")

	order, err := h.orders.CancelOrder(r.Context(), orderID, userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, order)
}

func (h *OrderHandler) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	userID := userEmailFromContext(r.Context())
	orderID := chi.URLParam(r, "id")

	if err := h.orders.DeleteOrder(r.Context(), orderID, userID); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *OrderHandler) RedoOrder(w http.ResponseWriter, r *http.Request) {
	userID := userEmailFromContext(r.Context())
	orderID := chi.URLParam(r, "id")

	order, err := h.orders.RedoOrder(r.Context(), orderID, userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, order)
}

func (h *OrderHandler) SearchOrders(w http.ResponseWriter, r *http.Request) {
	userID := userEmailFromContext(r.Context())

	filter, err := parseSearchFilter(r)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	orders, err := h.orders.SearchOrders(r.Context(), userID, filter)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, orders)
}

// parseSearchFilter reads q, status, dateFrom and dateTo query parameters.
// Dates accept RFC 3339 and zone-less date-times.
func parseSearchFilter(r *http.Request) (service.SearchFilter, error) {
	filter := service.SearchFilter{Query: r.URL.Query().Get("q")}

	if raw := r.URL.Query().Get("status"); raw != "" {
		status, ok := domain.ParseOrderStatus(raw)
		if !ok {
			return filter, invalidStatusError(raw)
		}
		filter.Status = &status
	}

	if raw := r.URL.Query().Get("dateFrom"); raw != "" {
		parsed, err := parseDate(raw)
		if err != nil {
			return filter, invalidDateError("dateFrom", raw)
		}
		filter.DateFrom = &parsed
	}

	if raw := r.URL.Query().Get("dateTo"); raw != "" {
		parsed, err := parseDate(raw)
		if err != nil {
			return filter, invalidDateError("dateTo", raw)
		}
		filter.DateTo = &parsed
	}

	return filter, nil
}

func invalidStatusError(raw string) error {
	return apperr.InvalidArgument("unknown order status: %s", raw)
}

func invalidDateError(param, raw string) error {
	return apperr.InvalidArgument("invalid %s value: %s", param, raw)
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func parseDate(raw string) (time.Time, error) {
	var lastErr error
	for _, layout := range dateLayouts {
		parsed, err := time.Parse(layout, raw)
		if err == nil {
			return parsed, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
