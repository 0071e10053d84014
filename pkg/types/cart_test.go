package types

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestRecalculateDerivesTotals(t *testing.T) {
	t.Parallel()

	cart := EmptyCart()
	cart.Items = []CartItem{
		{ProductID: "p1", UnitPrice: decimal.NewFromInt(10), Quantity: 2, LineSubtotal: decimal.NewFromInt(20)},
		{ProductID: "p2", UnitPrice: decimal.RequireFromString("5.50"), Quantity: 3, LineSubtotal: decimal.RequireFromString("16.50")},
	}
	cart.DiscountAmount = decimal.NewFromInt(5)
	cart.Recalculate()

	if cart.ItemCount != 5 {
		t.Fatalf("expected item count 5 got %d", cart.ItemCount)
	}
	if !cart.Subtotal.Equal(decimal.RequireFromString("36.50")) {
		t.Fatalf("unexpected subtotal %s", cart.Subtotal)
	}
	if !cart.TotalPrice.Equal(decimal.RequireFromString("31.50")) {
		t.Fatalf("unexpected total %s", cart.TotalPrice)
	}
}

func TestRecalculateEmptyCart(t *testing.T) {
	t.Parallel()

	cart := EmptyCart()
	cart.Recalculate()

	if cart.ItemCount != 0 {
		t.Fatalf("expected zero item count got %d", cart.ItemCount)
	}
	if !cart.TotalPrice.Equal(decimal.Zero) {
		t.Fatalf("expected zero total got %s", cart.TotalPrice)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	t.Parallel()

	cart := EmptyCart()
	cart.Items = []CartItem{{ProductID: "p1", Quantity: 1}}
	dup := cart.Clone()
	dup.Items[0].Quantity = 99

	if cart.Items[0].Quantity != 1 {
		t.Fatalf("clone mutation leaked into original")
	}
}

func TestFindMatchesFirstLine(t *testing.T) {
	t.Parallel()

	cart := EmptyCart()
	cart.Items = []CartItem{
		{ProductID: "p1", Size: "M", Quantity: 1},
		{ProductID: "p1", Size: "L", Quantity: 2},
	}

	item, ok := cart.Find("p1")
	if !ok {
		t.Fatalf("expected line for p1")
	}
	if item.Size != "M" {
		t.Fatalf("expected first variant got size %q", item.Size)
	}
	if _, ok := cart.Find("p9"); ok {
		t.Fatalf("expected no line for unknown product")
	}
}

func TestItemKeyDistinguishesVariants(t *testing.T) {
	t.Parallel()

	a := CartItem{ProductID: "p1", Size: "M", Color: "red"}
	b := CartItem{ProductID: "p1", Size: "L", Color: "red"}
	if a.Key() == b.Key() {
		t.Fatalf("expected distinct keys for distinct sizes")
	}
	if a.Key() != (ItemKey{ProductID: "p1", Size: "M", Color: "red"}) {
		t.Fatalf("unexpected key %+v", a.Key())
	}
}

func TestEffectivePrice(t *testing.T) {
	t.Parallel()

	sale := decimal.RequireFromString("7.99")
	onSale := Product{Price: decimal.NewFromInt(10), SalePrice: &sale, OnSale: true}
	if !onSale.EffectivePrice().Equal(sale) {
		t.Fatalf("expected sale price, got %s", onSale.EffectivePrice())
	}

	offSale := Product{Price: decimal.NewFromInt(10), SalePrice: &sale}
	if !offSale.EffectivePrice().Equal(decimal.NewFromInt(10)) {
		t.Fatalf("expected list price, got %s", offSale.EffectivePrice())
	}
}
