package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/buyapp/order-service/internal/apperr"
	"github.com/buyapp/order-service/internal/cache"
	"github.com/buyapp/order-service/internal/clients"
	"github.com/buyapp/order-service/internal/domain"
	"github.com/buyapp/order-service/internal/repository"
)

// CartView is the cart response shape. Available is only populated on
// reads that probe the catalog; mutations leave it nil.
type CartView struct {
	UserID    string         `json:"userId"`
	Items     []CartItemView `json:"items"`
	Total     float64        `json:"total"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

type CartItemView struct {
	ProductID   string  `json:"productId"`
	ProductName string  `json:"productName"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
	Available   *bool   `json:"available,omitempty"`
}

type CartService struct {
	carts    repository.CartRepository
	cache    cache.CartCache
	products clients.ProductClient
	sfg      singleflight.Group // Prevents cache stampede
	logger   zerolog.Logger
}

func NewCartService(carts repository.CartRepository, cartCache cache.CartCache, products clients.ProductClient, logger zerolog.Logger) *CartService {
	return &CartService{
		carts:    carts,
		cache:    cartCache,
		products: products,
		logger:   logger.With().Str("component", "cart_service").Logger(),
	}
}

// GetCart returns the caller's cart, creating an empty one if absent.
// Each item carries an availability flag computed from current stock;
// a failed product fetch marks the item unavailable without failing the call.
func (s *CartService) GetCart(ctx context.Context, userID string) (*CartView, error) {
	cart, err := s.loadCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	view := s.toView(cart)
	for i, item := range cart.Items {
		available := false
		product, err := s.products.GetProduct(ctx, item.ProductID)
		if err != nil {
			s.logger.Warn().Err(err).
				Str("user_id", userID).
				Str("product_id", item.ProductID).
				Msg("availability probe failed")
		} else {
			available = product.Stock >= item.Quantity
		}
		view.Items[i].Available = &available
	}

	return view, nil
}

// loadCart consults the cache first. Concurrent misses for the same user
// are collapsed by singleflight so the store sees one read.
func (s *CartService) loadCart(ctx context.Context, userID string) (*domain.Cart, error) {
	v, err, _ := s.sfg.Do(userID, func() (interface{}, error) {
		cart, err := s.cache.Get(ctx, userID)
		if err == nil {
			return cart, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			s.logger.Warn().Err(err).Str("user_id", userID).Msg("cache get failed")
		}

		cart, err = s.getOrCreateCart(ctx, userID)
		if err != nil {
			return nil, err
		}

		go func() {
			if err := s.cache.Set(context.Background(), userID, cart); err != nil {
				s.logger.Warn().Err(err).Str("user_id", userID).Msg("cache set failed")
			}
		}()

		return cart, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.Cart), nil
}

func (s *CartService) getOrCreateCart(ctx context.Context, userID string) (*domain.Cart, error) {
	cart, err := s.carts.GetCart(ctx, userID)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, repository.ErrCartNotFound) {
		return nil, apperr.Internal(err, "failed to load cart")
	}

	cart = domain.NewCart(userID)
	if err := s.carts.UpsertCart(ctx, cart); err != nil {
		return nil, apperr.Internal(err, "failed to create cart")
	}
	return cart, nil
}

// AddItem puts quantity units of a product into the cart. An existing line
// has the quantities summed; the combined quantity must fit current stock.
func (s *CartService) AddItem(ctx context.Context, userID, productID string, quantity int) (*CartView, error) {
	if quantity < 1 {
		return nil, apperr.InvalidArgument("quantity must be at least 1")
	}

	product, err := s.fetchProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	cart, err := s.getOrCreateCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	requested := quantity
	if existing := cart.FindItem(productID); existing != nil {
		requested += existing.Quantity
	}
	if requested > product.Stock {
		return nil, insufficientStock(product, requested)
	}

	cart.AddOrUpdateItem(domain.CartItem{
		ProductID:   product.ID,
		ProductName: product.Name,
		Quantity:    quantity,
		Price:       product.Price,
	})

	if err := s.carts.UpsertCart(ctx, cart); err != nil {
		return nil, apperr.Internal(err, "failed to save cart")
	}

	s.invalidateCache(userID)
	return s.toView(cart), nil
}

// UpdateItemQuantity overwrites the quantity of an existing cart line and
// refreshes its price snapshot.
func (s *CartService) UpdateItemQuantity(ctx context.Context, userID, productID string, quantity int) (*CartView, error) {
	if quantity < 1 {
		return nil, apperr.InvalidArgument("quantity must be at least 1")
	}

	cart, err := s.requireCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	if cart.FindItem(productID) == nil {
		return nil, apperr.NotFound("item not found in cart")
	}

	product, err := s.fetchProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if quantity > product.Stock {
		return nil, insufficientStock(product, quantity)
	}

	cart.UpdateItem(productID, quantity, product.Price)

	if err := s.carts.UpsertCart(ctx, cart); err != nil {
		return nil, apperr.Internal(err, "failed to save cart")
	}

	s.invalidateCache(userID)
	return s.toView(cart), nil
}

// RemoveItem drops a line from the cart. Removing an absent item is a no-op.
func (s *CartService) RemoveItem(ctx context.Context, userID, productID string) (*CartView, error) {
	cart, err := s.requireCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	cart.RemoveItem(productID)

	if err := s.carts.UpsertCart(ctx, cart); err != nil {
		return nil, apperr.Internal(err, "failed to save cart")
	}

	s.invalidateCache(userID)
	return s.toView(cart), nil
}

// ClearCart empties the cart but keeps the document.
func (s *CartService) ClearCart(ctx context.Context, userID string) error {
	cart, err := s.requireCart(ctx, userID)
	if err != nil {
		return err
	}

	cart.Clear()

	if err := s.carts.UpsertCart(ctx, cart); err != nil {
		return apperr.Internal(err, "failed to save cart")
	}

	s.invalidateCache(userID)
	return nil
}

func (s *CartService) requireCart(ctx context.Context, userID string) (*domain.Cart, error) {
	cart, err := s.carts.GetCart(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrCartNotFound) {
			return nil, apperr.NotFound("cart not found")
		}
		return nil, apperr.Internal(err, "failed to load cart")
	}
	return cart, nil
}

func (s *CartService) fetchProduct(ctx context.Context, productID string) (*clients.Product, error) {
	product, err := s.products.GetProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, clients.ErrProductNotFound) {
			return nil, apperr.NotFound("product not found: %s", productID)
		}
		return nil, apperr.Dependency(err, "product service unavailable")
	}
	return product, nil
}

func (s *CartService) invalidateCache(userID string) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.cache.Delete(ctx, userID); err != nil {
		s.logger.Warn().Err(err).Str("user_id", userID).Msg("cache invalidate failed")
	}
}

func (s *CartService) toView(cart *domain.Cart) *CartView {
	items := make([]CartItemView, len(cart.Items))
	for i, item := range cart.Items {
		items[i] = CartItemView{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			Price:       item.Price,
		}
	}
	return &CartView{
		UserID:    cart.UserID,
		Items:     items,
		Total:     cart.Total(),
		CreatedAt: cart.CreatedAt,
		UpdatedAt: cart.UpdatedAt,
	}
}

func insufficientStock(product *clients.Product, requested int) error {
	return apperr.InvalidArgument("Insufficient stock for product: %s. Available: %d, Requested: %d",
		product.Name, product.Stock, requested)
}
