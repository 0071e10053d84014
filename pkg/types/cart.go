package types

import "github.com/shopspring/decimal"

// ItemKey identifies a cart line. Two lines with the same product but a
// different size or color are distinct entries.
type ItemKey struct {
	ProductID string
	Size      string
	Color     string
}

type CartItem struct {
	ProductID    string          `json:"productId"`
	ProductName  string          `json:"productName"`
	Image        string          `json:"image,omitempty"`
	UnitPrice    decimal.Decimal `json:"unitPrice"`
	Quantity     int             `json:"quantity"`
	Size         string          `json:"size,omitempty"`
	Color        string          `json:"color,omitempty"`
	LineSubtotal decimal.Decimal `json:"lineSubtotal"`
	// StockQuantity is carried when known so update paths can re-check stock
	// without another product fetch. Zero means unknown.
	StockQuantity int `json:"stockQuantity,omitempty"`
}

func (i CartItem) Key() ItemKey {
	return ItemKey{ProductID: i.ProductID, Size: i.Size, Color: i.Color}
}

type Cart struct {
	Items          []CartItem      `json:"items"`
	ItemCount      int             `json:"itemCount"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	DiscountAmount decimal.Decimal `json:"discountAmount"`
	TotalPrice     decimal.Decimal `json:"totalPrice"`
	CouponCode     string          `json:"couponCode,omitempty"`
}

// EmptyCart returns the canonical empty cart. An empty cart is a valid state,
// distinct from a cart that has not been loaded yet (a nil *Cart).
func EmptyCart() *Cart {
	return &Cart{
		Items:          []CartItem{},
		Subtotal:       decimal.Zero,
		DiscountAmount: decimal.Zero,
		TotalPrice:     decimal.Zero,
	}
}

// Recalculate restores the cart invariants from its items: itemCount is the
// sum of quantities, subtotal the sum of line subtotals, and totalPrice the
// subtotal less the discount.
func (c *Cart) Recalculate() {
	count := 0
	subtotal := decimal.Zero
	for _, item := range c.Items {
		count += item.Quantity
		subtotal = subtotal.Add(item.LineSubtotal)
	}
	c.ItemCount = count
	c.Subtotal = subtotal
	c.TotalPrice = subtotal.Sub(c.DiscountAmount)
}

// Clone returns a deep copy so callers cannot mutate store-held state.
func (c *Cart) Clone() *Cart {
	if c == nil {
		return nil
	}
	dup := *c
	dup.Items = make([]CartItem, len(c.Items))
	copy(dup.Items, c.Items)
	return &dup
}

// Find returns the first line for the given product ID, if any.
func (c *Cart) Find(productID string) (CartItem, bool) {
	for _, item := range c.Items {
		if item.ProductID == productID {
			return item, true
		}
	}
	return CartItem{}, false
}
