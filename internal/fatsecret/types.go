package fatsecret

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// SearchRequest holds the foods.search parameters sent upstream.
// MaxResults is sent as given; capping is the caller's job.
type SearchRequest struct {
	Expression string
	PageNumber int
	MaxResults int
}

// Food is one item of a search page.
type Food struct {
	ID          string
	Name        string
	Type        string
	BrandName   *string
	Description string
	URL         string
}

// SearchPage is a decoded foods.search result.
type SearchPage struct {
	TotalResults int
	MaxResults   int
	PageNumber   int
	Foods        []Food
}

// Wire format

type searchEnvelope struct {
	Foods *foodsPayload `json:"foods"`
	Error *apiErrorBody `json:"error"`
}

type apiErrorBody struct {
	Code    flexInt `json:"code"`
	Message string  `json:"message"`
}

type foodsPayload struct {
	Food         *foodList `json:"food"`
	TotalResults *flexInt  `json:"total_results"`
	MaxResults   *flexInt  `json:"max_results"`
	PageNumber   *flexInt  `json:"page_number"`
}

type rawFood struct {
	FoodID          *string `json:"food_id"`
	FoodName        *string `json:"food_name"`
	FoodType        *string `json:"food_type"`
	BrandName       *string `json:"brand_name"`
	FoodDescription *string `json:"food_description"`
	FoodURL         *string `json:"food_url"`
}

// flexInt accepts both 20 and "20"; FatSecret sends counters as strings.
type flexInt int

func (n *flexInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 1 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		data = []byte(s)
	}
	v, err := strconv.Atoi(string(data))
	if err != nil {
		return fmt.Errorf("invalid integer %q", data)
	}
	*n = flexInt(v)
	return nil
}

// foodList accepts an array, or a single object when the page has one item.
type foodList []rawFood

func (l *foodList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '{' {
		var one rawFood
		if err := json.Unmarshal(data, &one); err != nil {
			return err
		}
		*l = foodList{one}
		return nil
	}

	var many []rawFood
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}
	*l = many
	return nil
}

// decodeSearchPage parses a 200 foods.search body.
func decodeSearchPage(body []byte) (*SearchPage, error) {
	var env searchEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	if env.Error != nil {
		return nil, &APIError{Code: int(env.Error.Code), Message: env.Error.Message}
	}

	if env.Foods == nil {
		return nil, fmt.Errorf("%w: missing foods object", ErrMalformedResponse)
	}
	if env.Foods.Food == nil {
		return nil, fmt.Errorf("%w: missing foods.food collection", ErrMalformedResponse)
	}
	if env.Foods.TotalResults == nil || env.Foods.MaxResults == nil || env.Foods.PageNumber == nil {
		return nil, fmt.Errorf("%w: missing paging fields", ErrMalformedResponse)
	}

	page := &SearchPage{
		TotalResults: int(*env.Foods.TotalResults),
		MaxResults:   int(*env.Foods.MaxResults),
		PageNumber:   int(*env.Foods.PageNumber),
		Foods:        make([]Food, 0, len(*env.Foods.Food)),
	}

	for i, raw := range *env.Foods.Food {
		food, err := raw.toFood()
		if err != nil {
			return nil, fmt.Errorf("%w: food %d: %v", ErrMalformedResponse, i, err)
		}
		page.Foods = append(page.Foods, food)
	}

	return page, nil
}

func (r rawFood) toFood() (Food, error) {
	required := []struct {
		name  string
		value *string
	}{
		{"food_id", r.FoodID},
		{"food_name", r.FoodName},
		{"food_type", r.FoodType},
		{"food_description", r.FoodDescription},
		{"food_url", r.FoodURL},
	}
	for _, f := range required {
		if f.value == nil {
			return Food{}, fmt.Errorf("missing %s", f.name)
		}
	}

	return Food{
		ID:          *r.FoodID,
		Name:        *r.FoodName,
		Type:        *r.FoodType,
		BrandName:   r.BrandName,
		Description: *r.FoodDescription,
		URL:         *r.FoodURL,
	}, nil
}
