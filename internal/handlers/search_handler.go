package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/Lixing-Zhang/food-search-proxy/internal/fatsecret"
	"github.com/Lixing-Zhang/food-search-proxy/internal/middleware"
	"github.com/Lixing-Zhang/food-search-proxy/internal/models"
	"github.com/Lixing-Zhang/food-search-proxy/internal/service"
)

// SearchHandler handles food search HTTP requests
type SearchHandler struct {
	service *service.FoodService
	logger  *slog.Logger
}

// NewSearchHandler creates a new search handler
func NewSearchHandler(service *service.FoodService, logger *slog.Logger) *SearchHandler {
	return &SearchHandler{
		service: service,
		logger:  logger,
	}
}

// SearchFoods handles GET /search_foods
// - 200: FoodSearchResponse
// - 422: missing query or non-integer paging parameters
// - 500: token exchange, search call or upstream payload failed
func (h *SearchHandler) SearchFoods(w http.ResponseWriter, r *http.Request) {
	log := h.logger.With("request_id", middleware.GetRequestID(r.Context()))

	params, err := parseSearchParams(r.URL.Query())
	if err != nil {
		log.Warn("invalid search parameters", "error", err)
		WriteError(w, http.StatusUnprocessableEntity, err.Error(), h.logger)
		return
	}

	resp, err := h.service.SearchFoods(r.Context(), params)
	if err != nil {
		var authErr *fatsecret.UpstreamAuthError
		var searchErr *fatsecret.UpstreamSearchError

		switch {
		case errors.As(err, &authErr):
			log.Error("failed to obtain access token", "status", authErr.StatusCode, "error", err)
			WriteError(w, http.StatusInternalServerError, "Failed to obtain access token: "+authErr.Detail(), h.logger)
		case errors.As(err, &searchErr):
			log.Error("failed to fetch food data", "status", searchErr.StatusCode, "error", err)
			WriteError(w, http.StatusInternalServerError, "Failed to fetch food data", h.logger)
		case errors.Is(err, service.ErrEmptyQuery):
			WriteError(w, http.StatusUnprocessableEntity, err.Error(), h.logger)
		default:
			log.Error("food search failed", "query", params.Query, "error", err)
			WriteError(w, http.StatusInternalServerError, "Internal server error", h.logger)
		}
		return
	}

	log.Info("food search completed",
		"query", params.Query,
		"page_number", params.PageNumber,
		"max_results", params.EffectiveMaxResults(),
		"food_type", params.FoodType,
		"returned", len(resp.Foods),
		"total_results", resp.TotalResults,
	)

	WriteJSON(w, http.StatusOK, resp, h.logger)
}

// parseSearchParams reads and coerces the query string
func parseSearchParams(values url.Values) (models.SearchParams, error) {
	params := models.SearchParams{
		Query:      values.Get("query"),
		PageNumber: 0,
		MaxResults: models.DefaultMaxResults,
		FoodType:   values.Get("food_type"),
	}

	if params.Query == "" {
		return params, errors.New("query parameter is required")
	}

	var err error
	if params.PageNumber, err = intParam(values, "page_number", params.PageNumber); err != nil {
		return params, err
	}
	if params.MaxResults, err = intParam(values, "max_results", params.MaxResults); err != nil {
		return params, err
	}

	return params, nil
}

func intParam(values url.Values, key string, defaultValue int) (int, error) {
	if !values.Has(key) {
		return defaultValue, nil
	}
	v, err := strconv.Atoi(values.Get(key))
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer", key)
	}
	return v, nil
}
