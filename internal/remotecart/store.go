// Package remotecart mirrors the server-held cart for an authenticated user.
// Reads with a missing or rejected credential degrade silently to the empty
// cart; writes surface the authorization failure.
package remotecart

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"sync"

	"github.com/acastellon/shopfront/internal/api"
	pkgerrors "github.com/acastellon/shopfront/pkg/errors"
	"github.com/acastellon/shopfront/pkg/logger"
	"github.com/acastellon/shopfront/pkg/types"
)

type Store struct {
	mu     sync.Mutex
	api    *api.Client
	tokens api.TokenSource
	logg   *logger.Logger
	cart   *types.Cart // nil until first fetch, discarded on logout
}

func NewStore(apiClient *api.Client, tokens api.TokenSource, logg *logger.Logger) (*Store, error) {
	if apiClient == nil {
		return nil, fmt.Errorf("api client is required")
	}
	if tokens == nil {
		return nil, fmt.Errorf("token source is required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &Store{api: apiClient, tokens: tokens, logg: logg}, nil
}

type addRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
	Size      string `json:"size,omitempty"`
	Color     string `json:"color,omitempty"`
}

// Fetch loads the server-held cart. Without a credential, or when the server
// rejects it, the canonical empty cart is returned instead of an error.
func (s *Store) Fetch(ctx context.Context) (*types.Cart, error) {
	if _, ok := s.tokens.Token(); !ok {
		s.logg.Warn(ctx, "no credential available when fetching cart")
		return types.EmptyCart(), nil
	}

	var cart types.Cart
	if err := s.api.Get(ctx, "/cart", &cart); err != nil {
		if authFailure(err) {
			s.logg.Warn(ctx, "credential rejected when fetching cart")
			return types.EmptyCart(), nil
		}
		return nil, err
	}
	return s.cache(&cart), nil
}

// Cached returns the last fetched cart without a round-trip.
func (s *Store) Cached() (*types.Cart, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cart == nil {
		return nil, false
	}
	return s.cart.Clone(), true
}

// Add submits an add-to-cart mutation and returns the updated server cart.
func (s *Store) Add(ctx context.Context, productID string, quantity int, size, color string) (*types.Cart, error) {
	if err := s.requireCredential(); err != nil {
		return nil, err
	}

	body := addRequest{ProductID: productID, Quantity: quantity, Size: size, Color: color}
	var cart types.Cart
	if err := s.api.Post(ctx, "/cart/add", body, &cart); err != nil {
		return nil, err
	}
	return s.cache(&cart), nil
}

// Update sets the quantity of an existing line. Last write wins across rapid
// successive updates; the server response that lands last is cached.
func (s *Store) Update(ctx context.Context, productID string, quantity int) (*types.Cart, error) {
	if err := s.requireCredential(); err != nil {
		return nil, err
	}

	path := "/cart/update/" + url.PathEscape(productID) + "?quantity=" + strconv.Itoa(quantity)
	var cart types.Cart
	if err := s.api.Put(ctx, path, nil, &cart); err != nil {
		return nil, err
	}
	return s.cache(&cart), nil
}

// Remove deletes the line for the product and returns the updated cart.
func (s *Store) Remove(ctx context.Context, productID string) (*types.Cart, error) {
	if err := s.requireCredential(); err != nil {
		return nil, err
	}

	var cart types.Cart
	if err := s.api.Delete(ctx, "/cart/remove/"+url.PathEscape(productID), &cart); err != nil {
		return nil, err
	}
	return s.cache(&cart), nil
}

// Clear empties the server-held cart and drops the local mirror.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.requireCredential(); err != nil {
		return err
	}

	if err := s.api.Delete(ctx, "/cart/clear", nil); err != nil {
		return err
	}
	s.Invalidate()
	return nil
}

// ApplyCoupon attaches a coupon code to the server-held cart.
func (s *Store) ApplyCoupon(ctx context.Context, code string) (*types.Cart, error) {
	if err := s.requireCredential(); err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("code", code)
	var cart types.Cart
	if err := s.api.Post(ctx, "/cart/coupon?"+query.Encode(), nil, &cart); err != nil {
		return nil, err
	}
	return s.cache(&cart), nil
}

// RemoveCoupon detaches the active coupon.
func (s *Store) RemoveCoupon(ctx context.Context) (*types.Cart, error) {
	if err := s.requireCredential(); err != nil {
		return nil, err
	}

	var cart types.Cart
	if err := s.api.Delete(ctx, "/cart/coupon", &cart); err != nil {
		return nil, err
	}
	return s.cache(&cart), nil
}

// Invalidate discards the local mirror. Called on logout; the next
// authenticated read fetches fresh.
func (s *Store) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart = nil
}

func (s *Store) requireCredential() error {
	if _, ok := s.tokens.Token(); !ok {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "no credential available")
	}
	return nil
}

func (s *Store) cache(cart *types.Cart) *types.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart = cart
	return cart.Clone()
}

func authFailure(err error) bool {
	return pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized) ||
		pkgerrors.IsCode(err, pkgerrors.CodeForbidden)
}
