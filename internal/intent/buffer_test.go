package intent

import (
	"context"
	"testing"

	"github.com/acastellon/shopfront/pkg/localstore"
	"github.com/acastellon/shopfront/pkg/logger"
	"github.com/acastellon/shopfront/pkg/types"
)

func newTestBuffer(t *testing.T, kv localstore.Store) *Buffer {
	t.Helper()
	buffer, err := NewBuffer(kv, logger.New(logger.Options{ServiceName: "test"}))
	if err != nil {
		t.Fatalf("new buffer: %v", err)
	}
	return buffer
}

func TestDeferConsumeRoundTrip(t *testing.T) {
	t.Parallel()

	buffer := newTestBuffer(t, localstore.NewMemory())
	ctx := context.Background()

	ref := types.ProductRef{ID: "p1", Name: "Hoodie", AvailableStock: 4}
	if err := buffer.Defer(ctx, ref, 2, "M", "black"); err != nil {
		t.Fatalf("defer: %v", err)
	}

	pending, ok := buffer.Consume(ctx)
	if !ok {
		t.Fatalf("expected pending intent")
	}
	if pending.Product.ID != "p1" || pending.Quantity != 2 || pending.Size != "M" || pending.Color != "black" {
		t.Fatalf("unexpected intent %+v", pending)
	}
	if pending.CreatedAt.IsZero() {
		t.Fatalf("expected creation timestamp")
	}
}

func TestConsumeIsAtMostOnce(t *testing.T) {
	t.Parallel()

	buffer := newTestBuffer(t, localstore.NewMemory())
	ctx := context.Background()

	if err := buffer.Defer(ctx, types.ProductRef{ID: "p1"}, 1, "", ""); err != nil {
		t.Fatalf("defer: %v", err)
	}
	if _, ok := buffer.Consume(ctx); !ok {
		t.Fatalf("first consume should return the intent")
	}
	if _, ok := buffer.Consume(ctx); ok {
		t.Fatalf("second consume should find nothing")
	}
}

func TestDeferOverwritesPrevious(t *testing.T) {
	t.Parallel()

	buffer := newTestBuffer(t, localstore.NewMemory())
	ctx := context.Background()

	if err := buffer.Defer(ctx, types.ProductRef{ID: "p1"}, 1, "", ""); err != nil {
		t.Fatalf("defer: %v", err)
	}
	if err := buffer.Defer(ctx, types.ProductRef{ID: "p2"}, 3, "L", ""); err != nil {
		t.Fatalf("defer: %v", err)
	}

	pending, ok := buffer.Consume(ctx)
	if !ok || pending.Product.ID != "p2" || pending.Quantity != 3 {
		t.Fatalf("expected latest intent to win, got %+v", pending)
	}
	if _, ok := buffer.Consume(ctx); ok {
		t.Fatalf("only one intent may be pending")
	}
}

func TestClearDropsPendingIntent(t *testing.T) {
	t.Parallel()

	buffer := newTestBuffer(t, localstore.NewMemory())
	ctx := context.Background()

	if err := buffer.Defer(ctx, types.ProductRef{ID: "p1"}, 1, "", ""); err != nil {
		t.Fatalf("defer: %v", err)
	}
	buffer.Clear(ctx)
	if _, ok := buffer.Consume(ctx); ok {
		t.Fatalf("cleared buffer should be empty")
	}
}

func TestConsumeSurvivesRestart(t *testing.T) {
	t.Parallel()

	kv := localstore.NewMemory()
	first := newTestBuffer(t, kv)
	if err := first.Defer(context.Background(), types.ProductRef{ID: "p1", Name: "Hoodie"}, 1, "", ""); err != nil {
		t.Fatalf("defer: %v", err)
	}

	second := newTestBuffer(t, kv)
	pending, ok := second.Consume(context.Background())
	if !ok || pending.Product.Name != "Hoodie" {
		t.Fatalf("intent should survive a restart, got (%+v, %t)", pending, ok)
	}
}
