package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type Order struct {
	ID              string          `bson:"_id" json:"id"`
	UserID          string          `bson:"user_id" json:"userId"`
	Items           []OrderItem     `bson:"items" json:"items"`
	Status          OrderStatus     `bson:"status" json:"status"`
	TotalAmount     float64         `bson:"total_amount" json:"totalAmount"`
	ShippingAddress ShippingAddress `bson:"shipping_address" json:"shippingAddress"`
	CreatedAt       time.Time       `bson:"created_at" json:"createdAt"`
	UpdatedAt       time.Time       `bson:"updated_at" json:"updatedAt"`
}

// OrderItem is immutable after order creation. Name and price are snapshots
// copied from the cart; the seller id is resolved once at creation.
type OrderItem struct {
	ProductID   string  `bson:"product_id" json:"productId"`
	ProductName string  `bson:"product_name" json:"productName"`
	SellerID    string  `bson:"seller_id" json:"sellerId"`
	Quantity    int     `bson:"quantity" json:"quantity"`
	Price       float64 `bson:"price" json:"price"`
}

func (i OrderItem) LineTotal() float64 {
	return i.Price * float64(i.Quantity)
}

type ShippingAddress struct {
	FullName string `bson:"full_name" json:"fullName"`
	Address  string `bson:"address" json:"address"`
	City     string `bson:"city" json:"city"`
	Phone    string `bson:"phone" json:"phone"`
}

// NewOrder builds a PENDING order and computes the total once.
// The total is never recomputed afterwards.
func NewOrder(userID string, items []OrderItem, address ShippingAddress) *Order {
	now := time.Now().UTC()
	var total float64
	for _, item := range items {
		total += item.LineTotal()
	}
	return &Order{
		ID:              uuid.NewString(),
		UserID:          userID,
		Items:           items,
		Status:          StatusPending,
		TotalAmount:     total,
		ShippingAddress: address,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

func (o *Order) BelongsToUser(userID string) bool {
	return o.UserID == userID
}

// ContainsSellerItems reports whether at least one line belongs to sellerID.
func (o *Order) ContainsSellerItems(sellerID string) bool {
	for _, item := range o.Items {
		if item.SellerID == sellerID {
			return true
		}
	}
	return false
}

// SellerItems returns the lines belonging to sellerID and their subtotal.
func (o *Order) SellerItems(sellerID string) ([]OrderItem, float64) {
	items := make([]OrderItem, 0, len(o.Items))
	var subtotal float64
	for _, item := range o.Items {
		if item.SellerID == sellerID {
			items = append(items, item)
			subtotal += item.LineTotal()
		}
	}
	return items, subtotal
}

// MatchesQuery reports whether the lowercased query is a substring of the
// order id or of any item's product name.
func (o *Order) MatchesQuery(lowerQuery string) bool {
	if strings.Contains(strings.ToLower(o.ID), lowerQuery) {
		return true
	}
	for _, item := range o.Items {
		if strings.Contains(strings.ToLower(item.ProductName), lowerQuery) {
			return true
		}
	}
	return false
}

// MatchesSellerQuery is MatchesQuery restricted to the seller's own lines.
func (o *Order) MatchesSellerQuery(sellerID, lowerQuery string) bool {
	if strings.Contains(strings.ToLower(o.ID), lowerQuery) {
		return true
	}
	for _, item := range o.Items {
		if item.SellerID == sellerID && strings.Contains(strings.ToLower(item.ProductName), lowerQuery) {
			return true
		}
	}
	return false
}
