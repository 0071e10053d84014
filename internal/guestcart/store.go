// Package guestcart holds the shopping cart for an unauthenticated visitor
// entirely on the client, persisted across reloads.
package guestcart

import (
	"context"
	"fmt"
	"sync"

	"github.com/acastellon/shopfront/pkg/localstore"
	"github.com/acastellon/shopfront/pkg/logger"
	"github.com/acastellon/shopfront/pkg/types"
)

const cartKey = "guest_cart"

type Store struct {
	mu   sync.Mutex
	kv   localstore.Store
	logg *logger.Logger
	cart *types.Cart
}

// NewStore loads the persisted snapshot, falling back to the empty cart when
// nothing is stored or the stored payload is malformed.
func NewStore(kv localstore.Store, logg *logger.Logger) (*Store, error) {
	if kv == nil {
		return nil, fmt.Errorf("local store is required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger is required")
	}

	cart := types.EmptyCart()
	if ok, err := localstore.GetJSON(kv, cartKey, cart); err != nil {
		return nil, fmt.Errorf("loading guest cart: %w", err)
	} else if ok {
		// Re-derive totals rather than trusting the stored ones.
		cart.Recalculate()
	}

	return &Store{kv: kv, logg: logg, cart: cart}, nil
}

// Current returns a copy of the cart.
func (s *Store) Current() *types.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Clone()
}

// Empty reports whether the guest cart has no lines.
func (s *Store) Empty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.cart.Items) == 0
}

// Add appends a line, or increments the matching (product, size, color) line.
// The line's unit price is refreshed to the product's current effective price
// at call time. Always succeeds.
func (s *Store) Add(ctx context.Context, product *types.Product, quantity int, size, color string) *types.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := types.ItemKey{ProductID: product.ID, Size: size, Color: color}
	price := product.EffectivePrice()
	found := false
	for i := range s.cart.Items {
		if s.cart.Items[i].Key() == key {
			item := &s.cart.Items[i]
			item.Quantity += quantity
			item.UnitPrice = price
			item.LineSubtotal = price.Mul(intDecimal(item.Quantity))
			item.StockQuantity = product.StockQuantity
			found = true
			break
		}
	}
	if !found {
		s.cart.Items = append(s.cart.Items, types.CartItem{
			ProductID:     product.ID,
			ProductName:   product.Name,
			Image:         product.FeaturedImage(),
			UnitPrice:     price,
			Quantity:      quantity,
			Size:          size,
			Color:         color,
			LineSubtotal:  price.Mul(intDecimal(quantity)),
			StockQuantity: product.StockQuantity,
		})
	}

	s.cart.Recalculate()
	s.persist(ctx)
	return s.cart.Clone()
}

// Update sets the quantity of the line for productID, recomputing its
// subtotal from the stored unit price. A quantity of zero or less removes
// the line. Updating an absent product is a no-op.
func (s *Store) Update(ctx context.Context, productID string, quantity int) *types.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.cart.Find(productID); !ok {
		return s.cart.Clone()
	}

	if quantity <= 0 {
		s.removeLocked(productID)
	} else {
		for i := range s.cart.Items {
			if s.cart.Items[i].ProductID == productID {
				item := &s.cart.Items[i]
				item.Quantity = quantity
				item.LineSubtotal = item.UnitPrice.Mul(intDecimal(quantity))
				break
			}
		}
	}

	s.cart.Recalculate()
	s.persist(ctx)
	return s.cart.Clone()
}

// Remove drops every line for the product ID, regardless of size or color
// variant. Matches the long-observed client behavior; see DESIGN.md.
func (s *Store) Remove(ctx context.Context, productID string) *types.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.removeLocked(productID)
	s.cart.Recalculate()
	s.persist(ctx)
	return s.cart.Clone()
}

// Clear resets to the canonical empty cart and removes persisted state.
func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cart = types.EmptyCart()
	if err := s.kv.Delete(cartKey); err != nil {
		s.logg.Error(ctx, "removing persisted guest cart", err)
	}
}

// removeLocked assumes s.mu is held.
func (s *Store) removeLocked(productID string) {
	kept := s.cart.Items[:0]
	for _, item := range s.cart.Items {
		if item.ProductID != productID {
			kept = append(kept, item)
		}
	}
	s.cart.Items = kept
}

// persist writes the full snapshot before the mutation returns. Assumes s.mu
// is held. Write failures are logged, not surfaced: the in-memory cart stays
// authoritative for the session.
func (s *Store) persist(ctx context.Context) {
	if err := localstore.SetJSON(s.kv, cartKey, s.cart); err != nil {
		s.logg.Error(ctx, "persisting guest cart", err)
	}
}
