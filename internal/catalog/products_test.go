package catalog

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/acastellon/shopfront/internal/api"
	"github.com/acastellon/shopfront/pkg/config"
	pkgerrors "github.com/acastellon/shopfront/pkg/errors"
	"github.com/acastellon/shopfront/pkg/logger"
	"github.com/acastellon/shopfront/pkg/types"
	"github.com/shopspring/decimal"
)

func newTestService(t *testing.T, handler http.Handler, saleTTL time.Duration) *Service {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	logg := logger.New(logger.Options{ServiceName: "test"})
	client, err := api.New(config.APIConfig{BaseURL: server.URL, Timeout: 5 * time.Second}, nil, logg)
	if err != nil {
		t.Fatalf("new api client: %v", err)
	}
	service, err := NewService(client, logg, saleTTL)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return service
}

func saleHandler(t *testing.T, calls *atomic.Int64) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/products/sale" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		calls.Add(1)
		json.NewEncoder(w).Encode([]types.Product{{ID: "p1", Name: "Sale hoodie", OnSale: true}})
	})
}

func TestOnSaleServesFromCacheWithinTTL(t *testing.T) {
	t.Parallel()

	var calls atomic.Int64
	service := newTestService(t, saleHandler(t, &calls), time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		products, err := service.OnSale(ctx)
		if err != nil {
			t.Fatalf("on sale: %v", err)
		}
		if len(products) != 1 || products[0].ID != "p1" {
			t.Fatalf("unexpected listing %+v", products)
		}
	}
	if calls.Load() != 1 {
		t.Fatalf("expected one backend call within TTL, got %d", calls.Load())
	}
}

func TestOnSaleRefetchesAfterTTL(t *testing.T) {
	t.Parallel()

	var calls atomic.Int64
	service := newTestService(t, saleHandler(t, &calls), time.Minute)

	current := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	service.now = func() time.Time { return current }

	ctx := context.Background()
	if _, err := service.OnSale(ctx); err != nil {
		t.Fatalf("on sale: %v", err)
	}

	current = current.Add(2 * time.Minute)
	if _, err := service.OnSale(ctx); err != nil {
		t.Fatalf("on sale: %v", err)
	}
	if calls.Load() != 2 {
		t.Fatalf("expected refetch after TTL, got %d calls", calls.Load())
	}
}

func TestSearchEncodesKeyword(t *testing.T) {
	t.Parallel()

	var gotQuery string
	service := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		json.NewEncoder(w).Encode([]types.Product{})
	}), time.Minute)

	if _, err := service.Search(context.Background(), "winter coat"); err != nil {
		t.Fatalf("search: %v", err)
	}
	if gotQuery != "keyword=winter+coat" {
		t.Fatalf("unexpected query %q", gotQuery)
	}
}

func TestAdvancedSearchByURLOmitsEmptyCriteria(t *testing.T) {
	t.Parallel()

	var gotQuery string
	service := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		json.NewEncoder(w).Encode([]types.Product{})
	}), time.Minute)

	max := decimal.NewFromInt(50)
	criteria := SearchCriteria{Keyword: "coat", MaxPrice: &max}
	if _, err := service.AdvancedSearchByURL(context.Background(), criteria); err != nil {
		t.Fatalf("advanced search: %v", err)
	}
	if gotQuery != "keyword=coat&maxPrice=50" {
		t.Fatalf("unexpected query %q", gotQuery)
	}
}

func TestProductRequiresID(t *testing.T) {
	t.Parallel()

	service := newTestService(t, http.NotFoundHandler(), time.Minute)
	if _, err := service.Product(context.Background(), ""); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestAddReviewValidatesRating(t *testing.T) {
	t.Parallel()

	service := newTestService(t, http.NotFoundHandler(), time.Minute)
	err := service.AddReview(context.Background(), "p1", types.Review{Rating: 6})
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
