package cart

import (
	"context"

	"github.com/acastellon/shopfront/pkg/types"
)

// activeStore is the single surface over the two cart variants. The
// coordinator picks the variant from the session state so that callers never
// branch on authentication themselves.
type activeStore interface {
	Read(ctx context.Context) (*types.Cart, error)
	Add(ctx context.Context, product *types.Product, quantity int, size, color string) (*types.Cart, error)
	Update(ctx context.Context, productID string, quantity int) (*types.Cart, error)
	Remove(ctx context.Context, productID string) (*types.Cart, error)
	Clear(ctx context.Context) error
}

type localVariant struct {
	guest guestStore
}

func (v localVariant) Read(ctx context.Context) (*types.Cart, error) {
	return v.guest.Current(), nil
}

func (v localVariant) Add(ctx context.Context, product *types.Product, quantity int, size, color string) (*types.Cart, error) {
	return v.guest.Add(ctx, product, quantity, size, color), nil
}

func (v localVariant) Update(ctx context.Context, productID string, quantity int) (*types.Cart, error) {
	return v.guest.Update(ctx, productID, quantity), nil
}

func (v localVariant) Remove(ctx context.Context, productID string) (*types.Cart, error) {
	return v.guest.Remove(ctx, productID), nil
}

func (v localVariant) Clear(ctx context.Context) error {
	v.guest.Clear(ctx)
	return nil
}

type remoteVariant struct {
	remote remoteStore
}

func (v remoteVariant) Read(ctx context.Context) (*types.Cart, error) {
	if cached, ok := v.remote.Cached(); ok {
		return cached, nil
	}
	return v.remote.Fetch(ctx)
}

func (v remoteVariant) Add(ctx context.Context, product *types.Product, quantity int, size, color string) (*types.Cart, error) {
	return v.remote.Add(ctx, product.ID, quantity, size, color)
}

func (v remoteVariant) Update(ctx context.Context, productID string, quantity int) (*types.Cart, error) {
	return v.remote.Update(ctx, productID, quantity)
}

func (v remoteVariant) Remove(ctx context.Context, productID string) (*types.Cart, error) {
	return v.remote.Remove(ctx, productID)
}

func (v remoteVariant) Clear(ctx context.Context) error {
	return v.remote.Clear(ctx)
}
