package guestcart

import (
	"context"
	"testing"

	"github.com/acastellon/shopfront/pkg/localstore"
	"github.com/acastellon/shopfront/pkg/logger"
	"github.com/acastellon/shopfront/pkg/types"
	"github.com/shopspring/decimal"
)

func newTestStore(t *testing.T, kv localstore.Store) *Store {
	t.Helper()
	store, err := NewStore(kv, logger.New(logger.Options{ServiceName: "test"}))
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return store
}

func product(id string, price int64, stock int) *types.Product {
	return &types.Product{
		ID:            id,
		Name:          "product " + id,
		Price:         decimal.NewFromInt(price),
		Images:        []string{"https://cdn.example.com/" + id + ".jpg"},
		StockQuantity: stock,
	}
}

func TestAddNewAndIncrementExisting(t *testing.T) {
	t.Parallel()

	store := newTestStore(t, localstore.NewMemory())
	ctx := context.Background()

	cart := store.Add(ctx, product("p1", 10, 5), 2, "M", "blue")
	if len(cart.Items) != 1 || cart.ItemCount != 2 {
		t.Fatalf("unexpected cart after first add: %+v", cart)
	}

	cart = store.Add(ctx, product("p1", 10, 5), 1, "M", "blue")
	if len(cart.Items) != 1 {
		t.Fatalf("same variant should merge, got %d lines", len(cart.Items))
	}
	if cart.Items[0].Quantity != 3 {
		t.Fatalf("expected quantity 3 got %d", cart.Items[0].Quantity)
	}
	if !cart.Subtotal.Equal(decimal.NewFromInt(30)) {
		t.Fatalf("unexpected subtotal %s", cart.Subtotal)
	}

	cart = store.Add(ctx, product("p1", 10, 5), 1, "L", "blue")
	if len(cart.Items) != 2 {
		t.Fatalf("different size should be a new line, got %d lines", len(cart.Items))
	}
}

func TestAddRefreshesUnitPriceToSalePrice(t *testing.T) {
	t.Parallel()

	store := newTestStore(t, localstore.NewMemory())
	ctx := context.Background()

	store.Add(ctx, product("p1", 20, 5), 1, "", "")

	sale := decimal.NewFromInt(15)
	discounted := product("p1", 20, 5)
	discounted.OnSale = true
	discounted.SalePrice = &sale

	cart := store.Add(ctx, discounted, 1, "", "")
	if !cart.Items[0].UnitPrice.Equal(sale) {
		t.Fatalf("expected refreshed unit price %s got %s", sale, cart.Items[0].UnitPrice)
	}
	if !cart.Items[0].LineSubtotal.Equal(decimal.NewFromInt(30)) {
		t.Fatalf("expected whole line at sale price, got %s", cart.Items[0].LineSubtotal)
	}
}

func TestUpdateQuantity(t *testing.T) {
	t.Parallel()

	store := newTestStore(t, localstore.NewMemory())
	ctx := context.Background()

	store.Add(ctx, product("p1", 10, 5), 1, "", "")
	cart := store.Update(ctx, "p1", 4)
	if cart.Items[0].Quantity != 4 {
		t.Fatalf("expected quantity 4 got %d", cart.Items[0].Quantity)
	}
	if !cart.Subtotal.Equal(decimal.NewFromInt(40)) {
		t.Fatalf("unexpected subtotal %s", cart.Subtotal)
	}
}

func TestUpdateToZeroRemovesLine(t *testing.T) {
	t.Parallel()

	store := newTestStore(t, localstore.NewMemory())
	ctx := context.Background()

	store.Add(ctx, product("p1", 10, 5), 2, "", "")
	cart := store.Update(ctx, "p1", 0)
	if len(cart.Items) != 0 {
		t.Fatalf("quantity zero should remove the line, got %+v", cart.Items)
	}
	if cart.ItemCount != 0 || !cart.TotalPrice.Equal(decimal.Zero) {
		t.Fatalf("totals not reset: %+v", cart)
	}
}

func TestUpdateAbsentProductIsNoop(t *testing.T) {
	t.Parallel()

	store := newTestStore(t, localstore.NewMemory())
	ctx := context.Background()

	store.Add(ctx, product("p1", 10, 5), 1, "", "")
	cart := store.Update(ctx, "ghost", 3)
	if len(cart.Items) != 1 || cart.Items[0].Quantity != 1 {
		t.Fatalf("absent product update mutated cart: %+v", cart)
	}
}

func TestRemoveDropsAllVariants(t *testing.T) {
	t.Parallel()

	store := newTestStore(t, localstore.NewMemory())
	ctx := context.Background()

	store.Add(ctx, product("p1", 10, 5), 1, "M", "")
	store.Add(ctx, product("p1", 10, 5), 1, "L", "")
	store.Add(ctx, product("p2", 5, 5), 1, "", "")

	cart := store.Remove(ctx, "p1")
	if len(cart.Items) != 1 || cart.Items[0].ProductID != "p2" {
		t.Fatalf("expected only p2 left, got %+v", cart.Items)
	}
}

func TestPersistenceRoundTrip(t *testing.T) {
	t.Parallel()

	kv := localstore.NewMemory()
	first := newTestStore(t, kv)
	first.Add(context.Background(), product("p1", 10, 5), 2, "M", "red")

	second := newTestStore(t, kv)
	cart := second.Current()
	if len(cart.Items) != 1 || cart.Items[0].Quantity != 2 {
		t.Fatalf("persisted cart not restored: %+v", cart)
	}
	if cart.ItemCount != 2 || !cart.Subtotal.Equal(decimal.NewFromInt(20)) {
		t.Fatalf("totals not rederived on load: %+v", cart)
	}
}

func TestMalformedPersistedCartFallsBackToEmpty(t *testing.T) {
	t.Parallel()

	kv := localstore.NewMemory()
	if err := kv.Set("guest_cart", "{corrupt"); err != nil {
		t.Fatalf("seed: %v", err)
	}

	store := newTestStore(t, kv)
	cart := store.Current()
	if len(cart.Items) != 0 {
		t.Fatalf("expected empty cart, got %+v", cart)
	}

	// The next mutation must work against the recovered state.
	cart = store.Add(context.Background(), product("p1", 10, 5), 1, "", "")
	if cart.ItemCount != 1 {
		t.Fatalf("store wedged after malformed load: %+v", cart)
	}
}

func TestClearResetsAndRemovesPersistedState(t *testing.T) {
	t.Parallel()

	kv := localstore.NewMemory()
	store := newTestStore(t, kv)
	ctx := context.Background()

	store.Add(ctx, product("p1", 10, 5), 1, "", "")
	store.Clear(ctx)

	if !store.Empty() {
		t.Fatalf("expected empty cart after clear")
	}
	if _, ok, _ := kv.Get("guest_cart"); ok {
		t.Fatalf("persisted snapshot should be removed")
	}
}
