// Package cartsync migrates the guest cart into the server-held cart exactly
// once per login session and keeps the duplicate side effects of redundant
// evaluation — repeated network calls, repeated notifications — suppressed
// behind a session-scoped ledger.
package cartsync

import (
	"context"
	"fmt"

	"github.com/acastellon/shopfront/pkg/logger"
	"github.com/acastellon/shopfront/pkg/types"
	"go.uber.org/multierr"
)

// GuestCart is the local store surface the engine drains.
type GuestCart interface {
	Current() *types.Cart
	Empty() bool
	Clear(ctx context.Context)
}

// RemoteCart receives the migrated lines.
type RemoteCart interface {
	Add(ctx context.Context, productID string, quantity int, size, color string) (*types.Cart, error)
}

// SessionState gates evaluation on the resolved auth state.
type SessionState interface {
	Authenticated() bool
	Resolved() bool
}

type Engine struct {
	ledger   *Ledger
	guest    GuestCart
	remote   RemoteCart
	session  SessionState
	notifier Notifier
	logg     *logger.Logger
}

type EngineParams struct {
	Ledger   *Ledger
	Guest    GuestCart
	Remote   RemoteCart
	Session  SessionState
	Notifier Notifier
	Logger   *logger.Logger
}

func NewEngine(params EngineParams) (*Engine, error) {
	if params.Ledger == nil {
		return nil, fmt.Errorf("ledger is required")
	}
	if params.Guest == nil {
		return nil, fmt.Errorf("guest cart is required")
	}
	if params.Remote == nil {
		return nil, fmt.Errorf("remote cart is required")
	}
	if params.Session == nil {
		return nil, fmt.Errorf("session state is required")
	}
	if params.Notifier == nil {
		return nil, fmt.Errorf("notifier is required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &Engine{
		ledger:   params.Ledger,
		guest:    params.Guest,
		remote:   params.Remote,
		session:  params.Session,
		notifier: params.Notifier,
		logg:     params.Logger,
	}, nil
}

// Result summarizes one migration batch.
type Result struct {
	Attempted int
	Succeeded int
}

// Evaluate runs the migration eligibility check and, when it fires, the
// migration itself. Safe to call from any number of concurrently mounted
// consumers: eligibility routes through the shared ledger, which is claimed
// before the first network call, so every guest line is submitted exactly
// once no matter how many callers race here.
//
// Per-line failures are logged and swallowed; the batch always runs to
// completion and the guest cart is cleared unconditionally afterwards.
// Single-attempt semantics: nothing is retried.
func (e *Engine) Evaluate(ctx context.Context) *Result {
	if !e.session.Resolved() || !e.session.Authenticated() {
		return nil
	}
	if e.ledger.MigrationCompleted() {
		return nil
	}
	if e.guest.Empty() {
		return nil
	}
	if !e.ledger.BeginMigration() {
		return nil
	}

	ctx = e.logg.WithComponent(ctx, "cartsync")
	snapshot := e.guest.Current()
	result := &Result{Attempted: len(snapshot.Items)}

	var batchErr error
	for _, item := range snapshot.Items {
		if _, err := e.remote.Add(ctx, item.ProductID, item.Quantity, item.Size, item.Color); err != nil {
			e.logg.Warn(e.logg.WithProductID(ctx, item.ProductID), "failed to migrate cart line: "+err.Error())
			batchErr = multierr.Append(batchErr, err)
			continue
		}
		result.Succeeded++
	}

	e.guest.Clear(ctx)

	if batchErr != nil {
		e.logg.Error(ctx, fmt.Sprintf("cart migration dropped %d of %d lines", len(multierr.Errors(batchErr)), result.Attempted), batchErr)
	}
	e.logg.Info(ctx, fmt.Sprintf("guest cart migrated (%d/%d lines)", result.Succeeded, result.Attempted))

	if result.Succeeded > 0 {
		if _, first := e.ledger.MarkNotified(); first {
			e.notifier.Success(ctx, migrationMessage(result.Succeeded))
		}
	}
	return result
}

// DismissNotification acknowledges the shown migration notification and
// starts the re-arm cooldown.
func (e *Engine) DismissNotification() {
	e.ledger.DismissNotification()
}

// Reset clears the ledger on logout so a later login with a fresh guest cart
// migrates and notifies again.
func (e *Engine) Reset() {
	e.ledger.Reset()
}

func migrationMessage(count int) string {
	if count == 1 {
		return "1 item from your guest cart has been added to your account"
	}
	return fmt.Sprintf("%d items from your guest cart have been added to your account", count)
}
