package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/buyapp/order-service/internal/domain"
	"github.com/buyapp/order-service/internal/service"
)

// SellerHandler serves the seller-facing order views. The caller's email
// identifies the seller; resolution to a seller id happens in the service.
type SellerHandler struct {
	orders *service.OrderService
}

func NewSellerHandler(orders *service.OrderService) *SellerHandler {
	return &SellerHandler{orders: orders}
}

func (h *SellerHandler) GetSellerOrders(w http.ResponseWriter, r *http.Request) {
	sellerEmail := userEmailFromContext(r.Context())

	views, err := h.orders.GetSellerOrders(r.Context(), sellerEmail)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, views)
}

func (h *SellerHandler) GetSellerOrderByID(w http.ResponseWriter, r *http.Request) {
	sellerEmail := userEmailFromContext(r.Context())
	orderID := chi.URLParam(r, "id")

	view, err := h.orders.GetSellerOrderByID(r.Context(), orderID, sellerEmail)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, view)
}

func (h *SellerHandler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	sellerEmail := userEmailFromContext(r.Context())
	orderID := chi.URLParam(r, "id")

	raw := r.URL.Query().Get("status")
	status, ok := domain.ParseOrderStatus(raw)
	if !ok {
		handleServiceError(w, invalidStatusError(raw))
		return
	}

	view, err := h.orders.UpdateOrderStatus(r.Context(), orderID, status, sellerEmail)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, view)
}

func (h *SellerHandler) SearchSellerOrders(w http.ResponseWriter, r *http.Request) {
	sellerEmail := userEmailFromContext(r.Context())

	filter, err := parseSearchFilter(r)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	views, err := h.orders.SearchSellerOrders(r.Context(), sellerEmail, filter)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, views)
}
