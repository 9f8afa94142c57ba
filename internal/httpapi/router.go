package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/buyapp/order-service/internal/service"
)

// NewRouter wires all routes. Every route requires a caller identity.
func NewRouter(carts *service.CartService, orders *service.OrderService) http.Handler {
	cartHandler := NewCartHandler(carts)
	orderHandler := NewOrderHandler(orders)
	sellerHandler := NewSellerHandler(orders)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(middleware.Compress(5))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Group(func(r chi.Router) {
		r.Use(IdentityMiddleware)

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cartHandler.GetCart)
			r.Delete("/", cartHandler.ClearCart)
			r.Post("/items", cartHandler.AddItem)
			r.Put("/items/{productId}", cartHandler.UpdateItemQuantity)
			r.Delete("/items/{productId}", cartHandler.RemoveItem)
		})

		r.Route("/orders", func(r chi.Router) {
			r.Post("/", orderHandler.CreateOrder)
			r.Get("/", orderHandler.GetOrders)
			r.Get("/search", orderHandler.SearchOrders)

			r.Route("/seller", func(r chi.Router) {
				r.Get("/", sellerHandler.GetSellerOrders)
				r.Get("/search", sellerHandler.SearchSellerOrders)
				r.Get("/{id}", sellerHandler.GetSellerOrderByID)
			})

			r.Get("/{id}", orderHandler.GetOrderByID)
			r.Put("/{id}/cancel", orderHandler.CancelOrder)
			r.Put("/{id}/status", sellerHandler.UpdateOrderStatus)
			r.Delete("/{id}", orderHandler.DeleteOrder)
			r.Post("/{id}/redo", orderHandler.RedoOrder)
		})
	})

	return otelhttp.NewHandler(r, "order-service")
}
