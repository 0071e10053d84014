// Package intent persists a single pending cart action across a navigation
// to the login screen, replaying it once authentication succeeds.
package intent

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/acastellon/shopfront/pkg/localstore"
	"github.com/acastellon/shopfront/pkg/logger"
	"github.com/acastellon/shopfront/pkg/types"
)

const intentKey = "pending_intent"

type Buffer struct {
	mu   sync.Mutex
	kv   localstore.Store
	logg *logger.Logger
	now  func() time.Time
}

func NewBuffer(kv localstore.Store, logg *logger.Logger) (*Buffer, error) {
	if kv == nil {
		return nil, fmt.Errorf("local store is required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &Buffer{kv: kv, logg: logg, now: time.Now}, nil
}

// Defer buffers an add-to-cart intent. A second call overwrites the first:
// only one intent is ever pending.
func (b *Buffer) Defer(ctx context.Context, product types.ProductRef, quantity int, size, color string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	pending := types.PendingIntent{
		Product:   product,
		Quantity:  quantity,
		Size:      size,
		Color:     color,
		CreatedAt: b.now().UTC(),
	}
	if err := localstore.SetJSON(b.kv, intentKey, pending); err != nil {
		return fmt.Errorf("persisting pending intent: %w", err)
	}
	b.logg.Info(b.logg.WithProductID(ctx, product.ID), "cart intent deferred until sign-in")
	return nil
}

// Consume removes the pending intent and returns it. Removal happens before
// the intent is acted on, so a redundant second check finds nothing and the
// replay runs at most once.
func (b *Buffer) Consume(ctx context.Context) (*types.PendingIntent, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	var pending types.PendingIntent
	ok, err := localstore.GetJSON(b.kv, intentKey, &pending)
	if err != nil {
		b.logg.Error(ctx, "reading pending intent", err)
		return nil, false
	}
	if !ok {
		return nil, false
	}
	if err := b.kv.Delete(intentKey); err != nil {
		b.logg.Error(ctx, "removing pending intent", err)
		return nil, false
	}
	return &pending, true
}

// Clear drops any pending intent, e.g. on logout.
func (b *Buffer) Clear(ctx context.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.kv.Delete(intentKey); err != nil {
		b.logg.Error(ctx, "clearing pending intent", err)
	}
}
