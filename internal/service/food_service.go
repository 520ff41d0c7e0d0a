package service

import (
	"context"
	"errors"

	"github.com/Lixing-Zhang/food-search-proxy/internal/fatsecret"
	"github.com/Lixing-Zhang/food-search-proxy/internal/metrics"
	"github.com/Lixing-Zhang/food-search-proxy/internal/models"
	"golang.org/x/text/cases"
)

var (
	ErrEmptyQuery = errors.New("query is required")
)

// FoodSearcher is the upstream search dependency
type FoodSearcher interface {
	SearchFoods(ctx context.Context, req fatsecret.SearchRequest) (*fatsecret.SearchPage, error)
}

// FoodService handles business logic for food searches
type FoodService struct {
	searcher FoodSearcher
}

// NewFoodService creates a new food service
func NewFoodService(searcher FoodSearcher) *FoodService {
	return &FoodService{
		searcher: searcher,
	}
}

// SearchFoods runs one search: cap the page size, call upstream, map the
// items and apply the optional food_type filter. Paging fields are echoed
// from upstream unchanged.
func (s *FoodService) SearchFoods(ctx context.Context, params models.SearchParams) (*models.FoodSearchResponse, error) {
	if params.Query == "" {
		return nil, ErrEmptyQuery
	}

	page, err := s.searcher.SearchFoods(ctx, fatsecret.SearchRequest{
		Expression: params.Query,
		PageNumber: params.PageNumber,
		MaxResults: params.EffectiveMaxResults(),
	})
	if err != nil {
		return nil, err
	}

	foods := make([]models.FoodItem, 0, len(page.Foods))
	for _, food := range page.Foods {
		if params.FoodType != "" && !sameFoodType(food.Type, params.FoodType) {
			continue
		}
		foods = append(foods, toFoodItem(food))
	}
	metrics.FilteredFoodsTotal.Add(float64(len(page.Foods) - len(foods)))

	return &models.FoodSearchResponse{
		TotalResults: page.TotalResults,
		MaxResults:   page.MaxResults,
		PageNumber:   page.PageNumber,
		Foods:        foods,
	}, nil
}

// sameFoodType compares labels under Unicode case folding.
// A Caser is not safe for concurrent use, so one is built per call.
func sameFoodType(a, b string) bool {
	fold := cases.Fold()
	return fold.String(a) == fold.String(b)
}

func toFoodItem(f fatsecret.Food) models.FoodItem {
	return models.FoodItem{
		FoodID:          f.ID,
		FoodName:        f.Name,
		FoodType:        f.Type,
		BrandName:       f.BrandName,
		FoodDescription: f.Description,
		FoodURL:         f.URL,
	}
}
