package cart

import (
	"context"

	pkgerrors "github.com/acastellon/shopfront/pkg/errors"
	"github.com/acastellon/shopfront/pkg/types"
)

// Outcome reports how an add-to-cart attempt landed.
type Outcome int

const (
	// OutcomeApplied means the item reached a cart store.
	OutcomeApplied Outcome = iota
	// OutcomeDecisionRequired means the action is suspended and the user must
	// pick sign-in or guest mode before it applies anywhere.
	OutcomeDecisionRequired
)

// AddToCart is the gate entry point. Stock is validated before anything else;
// authenticated users go straight to the remote cart; visitors who already
// chose guest mode go to the local cart; everyone else has the action
// suspended pending a sign-in-or-guest decision.
func (c *Coordinator) AddToCart(ctx context.Context, product *types.Product, quantity int, size, color string) (*types.Cart, Outcome, error) {
	if product == nil {
		return nil, OutcomeApplied, pkgerrors.New(pkgerrors.CodeValidation, "product is required")
	}
	if quantity <= 0 {
		return nil, OutcomeApplied, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}
	if quantity > product.StockQuantity {
		return nil, OutcomeApplied, stockError(product.StockQuantity)
	}

	if c.session.Authenticated() {
		cart, err := c.remote.Add(ctx, product.ID, quantity, size, color)
		if err != nil {
			return nil, OutcomeApplied, err
		}
		c.notifier.Success(ctx, "Product added to cart!")
		return cart, OutcomeApplied, nil
	}

	if c.guestModeChosen() {
		cart := c.guest.Add(ctx, product, quantity, size, color)
		c.notifier.Success(ctx, "Product added to guest cart")
		return cart, OutcomeApplied, nil
	}

	c.mu.Lock()
	c.suspended = &pendingAdd{product: *product, quantity: quantity, size: size, color: color}
	c.mu.Unlock()
	return nil, OutcomeDecisionRequired, nil
}

// ContinueAsGuest resolves the gate in favor of the local cart: the guest
// preference is recorded so future mutations skip the prompt, and the
// suspended action is applied. Stock may have gone stale while the user
// decided, so it is checked again before application.
func (c *Coordinator) ContinueAsGuest(ctx context.Context) (*types.Cart, error) {
	c.mu.Lock()
	pending := c.suspended
	c.suspended = nil
	c.mu.Unlock()

	if pending == nil {
		return nil, nil
	}

	if pending.quantity > pending.product.StockQuantity {
		return nil, stockError(pending.product.StockQuantity)
	}

	if err := c.kv.Set(guestModeKey, "true"); err != nil {
		c.logg.Error(ctx, "persisting guest mode preference", err)
	}

	cart := c.guest.Add(ctx, &pending.product, pending.quantity, pending.size, pending.color)
	c.notifier.Success(ctx, "Product added to guest cart")
	return cart, nil
}

// ChooseSignIn resolves the gate toward authentication: the suspended action
// is deferred so it survives the navigation to the login screen, where the
// auth listener replays it after a successful login.
func (c *Coordinator) ChooseSignIn(ctx context.Context) error {
	c.mu.Lock()
	pending := c.suspended
	c.suspended = nil
	c.mu.Unlock()

	if pending == nil {
		return nil
	}

	ref := types.ProductRef{
		ID:             pending.product.ID,
		Name:           pending.product.Name,
		Image:          pending.product.FeaturedImage(),
		AvailableStock: pending.product.StockQuantity,
	}
	return c.buffer.Defer(ctx, ref, pending.quantity, pending.size, pending.color)
}

// DismissGate abandons the suspended action without applying it anywhere.
func (c *Coordinator) DismissGate() {
	c.mu.Lock()
	c.suspended = nil
	c.mu.Unlock()
}

// SuspendedProduct exposes the product awaiting a gate decision, if any.
func (c *Coordinator) SuspendedProduct() (*types.Product, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.suspended == nil {
		return nil, false
	}
	product := c.suspended.product
	return &product, true
}

func (c *Coordinator) guestModeChosen() bool {
	value, ok, err := c.kv.Get(guestModeKey)
	if err != nil {
		return false
	}
	return ok && value == "true"
}
