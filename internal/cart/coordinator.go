// Package cart coordinates the guest and authenticated cart stores behind a
// single surface: it resolves which store is active, runs the guest/auth
// gate for unauthenticated mutations, and reacts to auth-state transitions
// by driving migration and pending-intent replay.
package cart

import (
	"context"
	"fmt"
	"sync"

	"github.com/acastellon/shopfront/internal/auth"
	"github.com/acastellon/shopfront/internal/cartsync"
	pkgerrors "github.com/acastellon/shopfront/pkg/errors"
	"github.com/acastellon/shopfront/pkg/localstore"
	"github.com/acastellon/shopfront/pkg/logger"
	"github.com/acastellon/shopfront/pkg/types"
)

const guestModeKey = "guest_mode_preference"

// guestStore is the local cart surface the coordinator drives.
type guestStore interface {
	Current() *types.Cart
	Add(ctx context.Context, product *types.Product, quantity int, size, color string) *types.Cart
	Update(ctx context.Context, productID string, quantity int) *types.Cart
	Remove(ctx context.Context, productID string) *types.Cart
	Clear(ctx context.Context)
}

// remoteStore is the server-cart surface the coordinator drives.
type remoteStore interface {
	Fetch(ctx context.Context) (*types.Cart, error)
	Cached() (*types.Cart, bool)
	Add(ctx context.Context, productID string, quantity int, size, color string) (*types.Cart, error)
	Update(ctx context.Context, productID string, quantity int) (*types.Cart, error)
	Remove(ctx context.Context, productID string) (*types.Cart, error)
	Clear(ctx context.Context) error
	ApplyCoupon(ctx context.Context, code string) (*types.Cart, error)
	RemoveCoupon(ctx context.Context) (*types.Cart, error)
	Invalidate()
}

// sessionState is the auth surface: current state plus transition callbacks.
type sessionState interface {
	Authenticated() bool
	Subscribe(fn func(auth.State))
}

type migrationEngine interface {
	Evaluate(ctx context.Context) *cartsync.Result
	DismissNotification()
	Reset()
}

type intentBuffer interface {
	Defer(ctx context.Context, product types.ProductRef, quantity int, size, color string) error
	Consume(ctx context.Context) (*types.PendingIntent, bool)
	Clear(ctx context.Context)
}

type Coordinator struct {
	mu        sync.Mutex
	kv        localstore.Store
	session   sessionState
	guest     guestStore
	remote    remoteStore
	engine    migrationEngine
	buffer    intentBuffer
	notifier  cartsync.Notifier
	logg      *logger.Logger
	suspended *pendingAdd
	wasAuthed bool
}

// pendingAdd is a gate-suspended action: not applied anywhere until the user
// picks sign-in or guest mode.
type pendingAdd struct {
	product  types.Product
	quantity int
	size     string
	color    string
}

type CoordinatorParams struct {
	KV       localstore.Store
	Session  sessionState
	Guest    guestStore
	Remote   remoteStore
	Engine   migrationEngine
	Buffer   intentBuffer
	Notifier cartsync.Notifier
	Logger   *logger.Logger
}

func NewCoordinator(params CoordinatorParams) (*Coordinator, error) {
	if params.KV == nil {
		return nil, fmt.Errorf("local store is required")
	}
	if params.Session == nil {
		return nil, fmt.Errorf("session is required")
	}
	if params.Guest == nil {
		return nil, fmt.Errorf("guest cart is required")
	}
	if params.Remote == nil {
		return nil, fmt.Errorf("remote cart is required")
	}
	if params.Engine == nil {
		return nil, fmt.Errorf("reconciliation engine is required")
	}
	if params.Buffer == nil {
		return nil, fmt.Errorf("intent buffer is required")
	}
	if params.Notifier == nil {
		return nil, fmt.Errorf("notifier is required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	c := &Coordinator{
		kv:       params.KV,
		session:  params.Session,
		guest:    params.Guest,
		remote:   params.Remote,
		engine:   params.Engine,
		buffer:   params.Buffer,
		notifier: params.Notifier,
		logg:     params.Logger,
	}
	c.session.Subscribe(c.onAuthChange)
	return c, nil
}

// onAuthChange is the only place cart state reacts to authentication. A
// transition to authenticated drives migration then intent replay; a
// transition out of an authenticated session resets the ledger, drops the
// pending intent, and discards the remote mirror. The initial resolution to
// unauthenticated is not a logout: a deferred intent must survive it.
func (c *Coordinator) onAuthChange(st auth.State) {
	ctx := c.logg.WithComponent(context.Background(), "cart")

	c.mu.Lock()
	wasAuthed := c.wasAuthed
	c.wasAuthed = st.Authenticated
	c.mu.Unlock()

	if st.Authenticated {
		c.engine.Evaluate(ctx)
		c.replayIntent(ctx)
		return
	}
	if wasAuthed {
		c.engine.Reset()
		c.buffer.Clear(ctx)
		c.remote.Invalidate()
	}
}

func (c *Coordinator) replayIntent(ctx context.Context) {
	pending, ok := c.buffer.Consume(ctx)
	if !ok {
		return
	}

	_, err := c.remote.Add(ctx, pending.Product.ID, pending.Quantity, pending.Size, pending.Color)
	if err != nil {
		c.logg.Error(c.logg.WithProductID(ctx, pending.Product.ID), "replaying deferred cart intent", err)
		c.notifier.Error(ctx, pkgerrors.UserMessage(err))
		return
	}
	c.notifier.Success(ctx, "Product added to cart!")
}

// active picks the store variant for the current auth state.
func (c *Coordinator) active() activeStore {
	if c.session.Authenticated() {
		return remoteVariant{remote: c.remote}
	}
	return localVariant{guest: c.guest}
}

// ActiveCart returns the cart the user currently sees.
func (c *Coordinator) ActiveCart(ctx context.Context) (*types.Cart, error) {
	return c.active().Read(ctx)
}

// UpdateItem changes a line's quantity on the active cart, re-checking stock
// against the stored line when the stock level is known.
func (c *Coordinator) UpdateItem(ctx context.Context, productID string, quantity int) (*types.Cart, error) {
	current, err := c.active().Read(ctx)
	if err != nil {
		return nil, err
	}
	if item, ok := current.Find(productID); ok && item.StockQuantity > 0 && quantity > item.StockQuantity {
		return nil, stockError(item.StockQuantity)
	}
	return c.active().Update(ctx, productID, quantity)
}

// RemoveItem removes a product's lines from the active cart.
func (c *Coordinator) RemoveItem(ctx context.Context, productID string) (*types.Cart, error) {
	cart, err := c.active().Remove(ctx, productID)
	if err != nil {
		return nil, err
	}
	c.notifier.Success(ctx, "Item removed from cart")
	return cart, nil
}

// ClearCart empties the active cart.
func (c *Coordinator) ClearCart(ctx context.Context) error {
	if err := c.active().Clear(ctx); err != nil {
		return err
	}
	c.notifier.Success(ctx, "Cart cleared successfully")
	return nil
}

// ApplyCoupon attaches a coupon to the remote cart. The guest cart has no
// coupon support.
func (c *Coordinator) ApplyCoupon(ctx context.Context, code string) (*types.Cart, error) {
	if !c.session.Authenticated() {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "coupons require an account")
	}
	return c.remote.ApplyCoupon(ctx, code)
}

// RemoveCoupon detaches the active coupon from the remote cart.
func (c *Coordinator) RemoveCoupon(ctx context.Context) (*types.Cart, error) {
	if !c.session.Authenticated() {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "coupons require an account")
	}
	return c.remote.RemoveCoupon(ctx)
}

// DismissMigrationNotice acknowledges the migration notification, starting
// the suppression cooldown.
func (c *Coordinator) DismissMigrationNotice() {
	c.engine.DismissNotification()
}

func stockError(available int) error {
	return pkgerrors.New(pkgerrors.CodeValidation,
		fmt.Sprintf("sorry, only %d items available in stock", available))
}
