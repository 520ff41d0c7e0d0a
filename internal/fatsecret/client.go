// Package fatsecret talks to the FatSecret Platform API: the OAuth2
// client-credentials token endpoint and the foods.search REST method.
package fatsecret

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/Lixing-Zhang/food-search-proxy/internal/config"
	"github.com/Lixing-Zhang/food-search-proxy/internal/metrics"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// upper bound on response bodies read into memory
const maxBodyBytes = 4 << 20

// Client performs token and search calls against FatSecret.
// It holds no per-request state and is safe for concurrent use.
type Client struct {
	credentials *clientcredentials.Config
	searchURL   string
	httpClient  *http.Client
	logger      *slog.Logger
}

// NewClient creates a new FatSecret client
func NewClient(cfg config.FatSecretConfig, logger *slog.Logger) *Client {
	return &Client{
		credentials: &clientcredentials.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			TokenURL:     cfg.TokenURL,
			AuthStyle:    oauth2.AuthStyleInHeader,
		},
		searchURL: cfg.SearchURL,
		httpClient: &http.Client{
			Timeout: cfg.RequestTimeout(),
		},
		logger: logger,
	}
}

// AccessToken performs a client-credentials grant and returns the bearer
// token. A new token is requested on every call.
func (c *Client) AccessToken(ctx context.Context) (string, error) {
	start := time.Now()

	// route the exchange through our client so the timeout applies
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)

	token, err := c.credentials.Token(ctx)
	elapsed := time.Since(start).Seconds()
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) && retrieveErr.Response != nil {
			metrics.ObserveUpstream(metrics.CallToken, metrics.OutcomeStatus, elapsed)
			c.logger.Warn("fatsecret token request rejected",
				"status", retrieveErr.Response.StatusCode,
				"body", string(retrieveErr.Body),
			)
			return "", &UpstreamAuthError{
				StatusCode: retrieveErr.Response.StatusCode,
				Body:       string(retrieveErr.Body),
				Cause:      err,
			}
		}

		metrics.ObserveUpstream(metrics.CallToken, metrics.OutcomeFailed, elapsed)
		c.logger.Warn("fatsecret token request failed", "error", err)
		return "", &UpstreamAuthError{Cause: err}
	}

	metrics.ObserveUpstream(metrics.CallToken, metrics.OutcomeSuccess, elapsed)
	c.logger.Debug("fatsecret access token acquired",
		"token_type", token.TokenType,
		"expires_at", token.Expiry,
	)

	return token.AccessToken, nil
}

// SearchFoods acquires a fresh token and runs foods.search.
// The search endpoint is not called if the token exchange fails.
func (c *Client) SearchFoods(ctx context.Context, req SearchRequest) (*SearchPage, error) {
	token, err := c.AccessToken(ctx)
	if err != nil {
		return nil, err
	}

	return c.search(ctx, token, req)
}

func (c *Client) search(ctx context.Context, token string, req SearchRequest) (*SearchPage, error) {
	endpoint, err := url.Parse(c.searchURL)
	if err != nil {
		return nil, fmt.Errorf("invalid search URL: %w", err)
	}

	params := endpoint.Query()
	params.Set("method", "foods.search")
	params.Set("format", "json")
	params.Set("search_expression", req.Expression)
	params.Set("page_number", strconv.Itoa(req.PageNumber))
	params.Set("max_results", strconv.Itoa(req.MaxResults))
	endpoint.RawQuery = params.Encode()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+token)
	httpReq.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		metrics.ObserveUpstream(metrics.CallSearch, metrics.OutcomeFailed, time.Since(start).Seconds())
		return nil, &UpstreamSearchError{Cause: fmt.Errorf("failed to call search endpoint: %w", err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	elapsed := time.Since(start).Seconds()
	if err != nil {
		metrics.ObserveUpstream(metrics.CallSearch, metrics.OutcomeFailed, elapsed)
		return nil, &UpstreamSearchError{
			StatusCode: resp.StatusCode,
			Cause:      fmt.Errorf("failed to read search response: %w", err),
		}
	}

	c.logger.Debug("fatsecret search response",
		"status", resp.StatusCode,
		"bytes", len(body),
	)

	if resp.StatusCode != http.StatusOK {
		metrics.ObserveUpstream(metrics.CallSearch, metrics.OutcomeStatus, elapsed)
		c.logger.Warn("fatsecret search rejected", "status", resp.StatusCode, "body", string(body))
		return nil, &UpstreamSearchError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	page, err := decodeSearchPage(body)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			metrics.ObserveUpstream(metrics.CallSearch, metrics.OutcomeStatus, elapsed)
			c.logger.Warn("fatsecret search returned error envelope",
				"code", apiErr.Code,
				"message", apiErr.Message,
			)
			return nil, &UpstreamSearchError{StatusCode: resp.StatusCode, Body: string(body), Cause: apiErr}
		}

		metrics.ObserveUpstream(metrics.CallSearch, metrics.OutcomeMalformed, elapsed)
		return nil, err
	}

	metrics.ObserveUpstream(metrics.CallSearch, metrics.OutcomeSuccess, elapsed)
	return page, nil
}
