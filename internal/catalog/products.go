// Package catalog exposes read-mostly product and category browsing against
// the storefront API.
package catalog

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/acastellon/shopfront/internal/api"
	pkgerrors "github.com/acastellon/shopfront/pkg/errors"
	"github.com/acastellon/shopfront/pkg/logger"
	"github.com/acastellon/shopfront/pkg/types"
	"github.com/shopspring/decimal"
)

type Service struct {
	api     *api.Client
	logg    *logger.Logger
	saleTTL time.Duration
	now     func() time.Time

	saleMu      sync.Mutex
	saleCache   []types.Product
	saleFetched time.Time
}

func NewService(apiClient *api.Client, logg *logger.Logger, saleTTL time.Duration) (*Service, error) {
	if apiClient == nil {
		return nil, fmt.Errorf("api client is required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if saleTTL <= 0 {
		saleTTL = time.Minute
	}
	return &Service{api: apiClient, logg: logg, saleTTL: saleTTL, now: time.Now}, nil
}

func (s *Service) Products(ctx context.Context) ([]types.Product, error) {
	var products []types.Product
	if err := s.api.Get(ctx, "/products", &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (s *Service) Product(ctx context.Context, id string) (*types.Product, error) {
	if id == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	var product types.Product
	if err := s.api.Get(ctx, "/products/"+url.PathEscape(id), &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// ByCategory lists products in a category, including all its subcategories.
func (s *Service) ByCategory(ctx context.Context, categoryID string) ([]types.Product, error) {
	if categoryID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category id is required")
	}
	var products []types.Product
	if err := s.api.Get(ctx, "/products/category/"+url.PathEscape(categoryID), &products); err != nil {
		return nil, err
	}
	return products, nil
}

// Search is the basic keyword search feeding suggestion lists.
func (s *Service) Search(ctx context.Context, keyword string) ([]types.Product, error) {
	query := url.Values{}
	query.Set("keyword", keyword)
	var products []types.Product
	if err := s.api.Get(ctx, "/products/search?"+query.Encode(), &products); err != nil {
		return nil, err
	}
	return products, nil
}

// SearchCriteria drives the advanced product search.
type SearchCriteria struct {
	Keyword    string           `json:"keyword,omitempty"`
	CategoryID string           `json:"categoryId,omitempty"`
	Brand      string           `json:"brand,omitempty"`
	Color      string           `json:"color,omitempty"`
	Size       string           `json:"size,omitempty"`
	Gender     string           `json:"gender,omitempty"`
	MinPrice   *decimal.Decimal `json:"minPrice,omitempty"`
	MaxPrice   *decimal.Decimal `json:"maxPrice,omitempty"`
	OnSale     *bool            `json:"onSale,omitempty"`
	SortBy     string           `json:"sortBy,omitempty"`
}

// AdvancedSearch posts the full criteria payload.
func (s *Service) AdvancedSearch(ctx context.Context, criteria SearchCriteria) ([]types.Product, error) {
	var products []types.Product
	if err := s.api.Post(ctx, "/products/search/advanced", criteria, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// AdvancedSearchByURL runs the GET variant used for URL-driven searches;
// empty criteria fields are left out of the query string.
func (s *Service) AdvancedSearchByURL(ctx context.Context, criteria SearchCriteria) ([]types.Product, error) {
	query := url.Values{}
	setIfPresent := func(key, value string) {
		if value != "" {
			query.Set(key, value)
		}
	}
	setIfPresent("keyword", criteria.Keyword)
	setIfPresent("categoryId", criteria.CategoryID)
	setIfPresent("brand", criteria.Brand)
	setIfPresent("color", criteria.Color)
	setIfPresent("size", criteria.Size)
	setIfPresent("gender", criteria.Gender)
	setIfPresent("sortBy", criteria.SortBy)
	if criteria.MinPrice != nil {
		query.Set("minPrice", criteria.MinPrice.String())
	}
	if criteria.MaxPrice != nil {
		query.Set("maxPrice", criteria.MaxPrice.String())
	}
	if criteria.OnSale != nil {
		query.Set("onSale", fmt.Sprintf("%t", *criteria.OnSale))
	}

	var products []types.Product
	if err := s.api.Get(ctx, "/products/search/advanced?"+query.Encode(), &products); err != nil {
		return nil, err
	}
	return products, nil
}

// OnSale returns the sale listing, served from a short-lived client cache to
// spare the landing page a round-trip per render.
func (s *Service) OnSale(ctx context.Context) ([]types.Product, error) {
	s.saleMu.Lock()
	if s.saleCache != nil && s.now().Sub(s.saleFetched) < s.saleTTL {
		cached := append([]types.Product{}, s.saleCache...)
		s.saleMu.Unlock()
		return cached, nil
	}
	s.saleMu.Unlock()

	var products []types.Product
	if err := s.api.Get(ctx, "/products/sale", &products); err != nil {
		return nil, err
	}

	s.saleMu.Lock()
	s.saleCache = products
	s.saleFetched = s.now()
	s.saleMu.Unlock()
	return products, nil
}

func (s *Service) ByBrand(ctx context.Context, brand string) ([]types.Product, error) {
	if brand == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "brand is required")
	}
	var products []types.Product
	if err := s.api.Get(ctx, "/products/brand/"+url.PathEscape(brand), &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (s *Service) ByColor(ctx context.Context, color string) ([]types.Product, error) {
	if color == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "color is required")
	}
	var products []types.Product
	if err := s.api.Get(ctx, "/products/color/"+url.PathEscape(color), &products); err != nil {
		return nil, err
	}
	return products, nil
}

// AddReview attaches a review to a product.
func (s *Service) AddReview(ctx context.Context, productID string, review types.Review) error {
	if productID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if review.Rating < 1 || review.Rating > 5 {
		return pkgerrors.New(pkgerrors.CodeValidation, "rating must be between 1 and 5")
	}
	return s.api.Post(ctx, "/products/"+url.PathEscape(productID)+"/reviews", review, nil)
}
