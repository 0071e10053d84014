package catalog

import (
	"context"
	"net/url"

	pkgerrors "github.com/acastellon/shopfront/pkg/errors"
	"github.com/acastellon/shopfront/pkg/types"
)

func (s *Service) Categories(ctx context.Context) ([]types.Category, error) {
	var categories []types.Category
	if err := s.api.Get(ctx, "/categories", &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

func (s *Service) Category(ctx context.Context, id string) (*types.Category, error) {
	if id == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category id is required")
	}
	var category types.Category
	if err := s.api.Get(ctx, "/categories/"+url.PathEscape(id), &category); err != nil {
		return nil, err
	}
	return &category, nil
}

func (s *Service) Subcategories(ctx context.Context, parentID string) ([]types.Category, error) {
	if parentID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "parent category id is required")
	}
	var categories []types.Category
	if err := s.api.Get(ctx, "/categories/subcategories/"+url.PathEscape(parentID), &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

func (s *Service) CategoriesByGender(ctx context.Context, gender string) ([]types.Category, error) {
	if gender == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "gender is required")
	}
	var categories []types.Category
	if err := s.api.Get(ctx, "/categories/gender/"+url.PathEscape(gender), &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// Tree returns the full category hierarchy.
func (s *Service) Tree(ctx context.Context) ([]types.Category, error) {
	var tree []types.Category
	if err := s.api.Get(ctx, "/categories/tree", &tree); err != nil {
		return nil, err
	}
	return tree, nil
}

func (s *Service) TreeByGender(ctx context.Context, gender string) ([]types.Category, error) {
	if gender == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "gender is required")
	}
	var tree []types.Category
	if err := s.api.Get(ctx, "/categories/tree/gender/"+url.PathEscape(gender), &tree); err != nil {
		return nil, err
	}
	return tree, nil
}
