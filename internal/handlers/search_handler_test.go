package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Lixing-Zhang/food-search-proxy/internal/fatsecret"
	"github.com/Lixing-Zhang/food-search-proxy/internal/models"
	"github.com/Lixing-Zhang/food-search-proxy/internal/service"
	"github.com/Lixing-Zhang/food-search-proxy/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubSearcher implements service.FoodSearcher for handler tests
type stubSearcher struct {
	page    *fatsecret.SearchPage
	err     error
	calls   int
	lastReq fatsecret.SearchRequest
}

func (s *stubSearcher) SearchFoods(ctx context.Context, req fatsecret.SearchRequest) (*fatsecret.SearchPage, error) {
	s.calls++
	s.lastReq = req
	return s.page, s.err
}

func newTestSearchHandler(searcher *stubSearcher) *SearchHandler {
	return NewSearchHandler(service.NewFoodService(searcher), logger.New("error"))
}

func samplePage() *fatsecret.SearchPage {
	acme := "Acme"
	return &fatsecret.SearchPage{
		TotalResults: 2,
		MaxResults:   20,
		PageNumber:   0,
		Foods: []fatsecret.Food{
			{ID: "1", Name: "Banana", Type: "Generic", Description: "d1", URL: "u1"},
			{ID: "2", Name: "Banana Chips", Type: "Brand", BrandName: &acme, Description: "d2", URL: "u2"},
		},
	}
}

func TestSearchHandler_SearchFoods_Params(t *testing.T) {
	tests := []struct {
		name           string
		target         string
		expectedStatus int
		wantPage       int
		wantMax        int
	}{
		{
			name:           "defaults",
			target:         "/search_foods?query=banana",
			expectedStatus: http.StatusOK,
			wantPage:       0,
			wantMax:        20,
		},
		{
			name:           "explicit paging",
			target:         "/search_foods?query=banana&page_number=4&max_results=10",
			expectedStatus: http.StatusOK,
			wantPage:       4,
			wantMax:        10,
		},
		{
			name:           "max_results clamped",
			target:         "/search_foods?query=banana&max_results=500",
			expectedStatus: http.StatusOK,
			wantMax:        50,
		},
		{
			name:           "missing query",
			target:         "/search_foods",
			expectedStatus: http.StatusUnprocessableEntity,
		},
		{
			name:           "empty query",
			target:         "/search_foods?query=",
			expectedStatus: http.StatusUnprocessableEntity,
		},
		{
			name:           "non-integer page_number",
			target:         "/search_foods?query=banana&page_number=first",
			expectedStatus: http.StatusUnprocessableEntity,
		},
		{
			name:           "empty max_results",
			target:         "/search_foods?query=banana&max_results=",
			expectedStatus: http.StatusUnprocessableEntity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			searcher := &stubSearcher{page: samplePage()}
			handler := newTestSearchHandler(searcher)

			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			w := httptest.NewRecorder()

			handler.SearchFoods(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

			if tt.expectedStatus != http.StatusOK {
				var body ErrorResponse
				require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
				assert.NotEmpty(t, body.Detail)
				assert.Zero(t, searcher.calls, "upstream must not be called on invalid input")
				return
			}

			assert.Equal(t, tt.wantPage, searcher.lastReq.PageNumber)
			assert.Equal(t, tt.wantMax, searcher.lastReq.MaxResults)
		})
	}
}

func TestSearchHandler_SearchFoods_Response(t *testing.T) {
	handler := newTestSearchHandler(&stubSearcher{page: samplePage()})

	req := httptest.NewRequest(http.MethodGet, "/search_foods?query=banana&food_type=BRAND", nil)
	w := httptest.NewRecorder()

	handler.SearchFoods(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &raw))
	assert.EqualValues(t, 2, raw["total_results"])
	assert.EqualValues(t, 20, raw["max_results"])
	assert.EqualValues(t, 0, raw["page_number"])

	foods, ok := raw["foods"].([]any)
	require.True(t, ok)
	require.Len(t, foods, 1)

	item := foods[0].(map[string]any)
	assert.Equal(t, "2", item["food_id"])
	assert.Equal(t, "Banana Chips", item["food_name"])
	assert.Equal(t, "Brand", item["food_type"])
	assert.Equal(t, "Acme", item["brand_name"])
	assert.Equal(t, "d2", item["food_description"])
	assert.Equal(t, "u2", item["food_url"])
}

func TestSearchHandler_SearchFoods_EmptyResultIsArray(t *testing.T) {
	handler := newTestSearchHandler(&stubSearcher{page: samplePage()})

	req := httptest.NewRequest(http.MethodGet, "/search_foods?query=banana&food_type=recipe", nil)
	w := httptest.NewRecorder()

	handler.SearchFoods(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.FoodSearchResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.NotNil(t, resp.Foods)
	assert.Empty(t, resp.Foods)
	assert.Equal(t, 2, resp.TotalResults)
}

func TestSearchHandler_SearchFoods_UpstreamErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantDetail string
	}{
		{
			name:       "token rejected",
			err:        &fatsecret.UpstreamAuthError{StatusCode: 401, Body: `{"error":"invalid_client"}`},
			wantDetail: `Failed to obtain access token: {"error":"invalid_client"}`,
		},
		{
			name:       "search rejected",
			err:        &fatsecret.UpstreamSearchError{StatusCode: 502, Body: "bad gateway"},
			wantDetail: "Failed to fetch food data",
		},
		{
			name:       "malformed upstream payload",
			err:        errors.Join(fatsecret.ErrMalformedResponse, errors.New("missing foods.food collection")),
			wantDetail: "Internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := newTestSearchHandler(&stubSearcher{err: tt.err})

			req := httptest.NewRequest(http.MethodGet, "/search_foods?query=banana", nil)
			w := httptest.NewRecorder()

			handler.SearchFoods(w, req)

			assert.Equal(t, http.StatusInternalServerError, w.Code)

			var raw map[string]any
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &raw))
			assert.Equal(t, tt.wantDetail, raw["detail"])
			assert.NotContains(t, raw, "foods")
		})
	}
}

func TestHealthHandler(t *testing.T) {
	handler := NewHealthHandler(logger.New("error"), "1.2.3")

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp HealthResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "healthy", resp.Status)
	assert.Equal(t, "1.2.3", resp.Version)
	assert.False(t, resp.Timestamp.IsZero())
}
