package models

// Default and upper bound for the page size sent upstream
const (
	DefaultMaxResults = 20
	MaxResultsLimit   = 50
)

// FoodItem represents a single food returned by a search
type FoodItem struct {
	FoodID          string  `json:"food_id"`
	FoodName        string  `json:"food_name"`
	FoodType        string  `json:"food_type"`
	BrandName       *string `json:"brand_name"`
	FoodDescription string  `json:"food_description"`
	FoodURL         string  `json:"food_url"`
}

// FoodSearchResponse is the payload returned by GET /search_foods.
//
// TotalResults, MaxResults and PageNumber are echoed from upstream. They are
// not recomputed after the food_type filter, so TotalResults can exceed
// len(Foods).
type FoodSearchResponse struct {
	TotalResults int        `json:"total_results"`
	MaxResults   int        `json:"max_results"`
	PageNumber   int        `json:"page_number"`
	Foods        []FoodItem `json:"foods"`
}

// SearchParams are the inbound query parameters of a search
type SearchParams struct {
	Query      string
	PageNumber int
	MaxResults int
	FoodType   string // empty means no filter
}

// EffectiveMaxResults returns MaxResults capped at MaxResultsLimit
func (p SearchParams) EffectiveMaxResults() int {
	return min(p.MaxResults, MaxResultsLimit)
}
