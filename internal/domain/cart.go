package domain

import "time"

type Cart struct {
	ID        string     `bson:"_id,omitempty" json:"id,omitempty"`
	UserID    string     `bson:"user_id" json:"userId"`
	Items     []CartItem `bson:"items" json:"items"`
	CreatedAt time.Time  `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time  `bson:"updated_at" json:"updatedAt"`
}

// CartItem holds a name/price snapshot taken when the item was last touched.
// The price is refreshed on every mutation of the item, never on read.
type CartItem struct {
	ProductID   string  `bson:"product_id" json:"productId"`
	ProductName string  `bson:"product_name" json:"productName"`
	Quantity    int     `bson:"quantity" json:"quantity"`
	Price       float64 `bson:"price" json:"price"`
}

func (i CartItem) LineTotal() float64 {
	return i.Price * float64(i.Quantity)
}

func NewCart(userID string) *Cart {
	now := time.Now().UTC()
	return &Cart{
		UserID:    userID,
		Items:     []CartItem{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// FindItem returns a pointer into Items, or nil if the product is not in the cart.
func (c *Cart) FindItem(productID string) *CartItem {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return &c.Items[i]
		}
	}
	return nil
}

// AddOrUpdateItem merges an item into the cart. An existing line gets the
// quantities summed and the price snapshot replaced; otherwise the item is
// appended. Uniqueness per product id is preserved either way.
func (c *Cart) AddOrUpdateItem(item CartItem) {
	if existing := c.FindItem(item.ProductID); existing != nil {
		existing.Quantity += item.Quantity
		existing.Price = item.Price
	} else {
		c.Items = append(c.Items, item)
	}
	c.UpdatedAt = time.Now().UTC()
}

// UpdateItem overwrites quantity and price of an existing line.
// Returns false if the product is not in the cart.
func (c *Cart) UpdateItem(productID string, quantity int, price float64) bool {
	item := c.FindItem(productID)
	if item == nil {
		return false
	}
	item.Quantity = quantity
	item.Price = price
	c.UpdatedAt = time.Now().UTC()
	return true
}

// RemoveItem drops the line for productID. Removing an absent item is a no-op.
func (c *Cart) RemoveItem(productID string) {
	for i, item := range c.Items {
		if item.ProductID == productID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			break
		}
	}
	c.UpdatedAt = time.Now().UTC()
}

func (c *Cart) Clear() {
	c.Items = []CartItem{}
	c.UpdatedAt = time.Now().UTC()
}

func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

func (c *Cart) Total() float64 {
	var total float64
	for _, item := range c.Items {
		total += item.LineTotal()
	}
	return total
}
