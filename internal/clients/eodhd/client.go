// Package eodhd provides a client for the EODHD API
package eodhd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/bobmcallan/folio/internal/common"
)

const (
	DefaultBaseURL   = "https://eodhd.com/api"
	DefaultTimeout   = 30 * time.Second
	DefaultRateLimit = 10 // requests per second
)

// flexFloat64 handles JSON values that may be either a number or a string.
// EODHD returns "NA" for fields it has no data for.
type flexFloat64 float64

func (f *flexFloat64) UnmarshalJSON(data []byte) error {
	var num float64
	if err := json.Unmarshal(data, &num); err == nil {
		*f = flexFloat64(num)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s == "" || s == "NA" || s == "N/A" {
			*f = 0
			return nil
		}
		num, err := strconv.ParseFloat(s, 64)
		if err != nil {
			*f = 0
			return nil
		}
		*f = flexFloat64(num)
		return nil
	}
	return fmt.Errorf("cannot unmarshal %s into float64", string(data))
}

// Client implements the PriceClient interface against the EODHD API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *common.Logger
	limiter    *rate.Limiter
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithBaseURL sets the base URL
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRateLimit sets the rate limit
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
	}
}

// WithTimeout sets the HTTP timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// NewClient creates a new EODHD client
func NewClient(apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		logger:  common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// APIError represents an API error
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("EODHD API error: %s (status: %d, endpoint: %s)", e.Message, e.StatusCode, e.Endpoint)
}

// get performs a rate-limited GET request
func (c *Client) get(ctx context.Context, path string, params url.Values, result interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	if params == nil {
		params = url.Values{}
	}
	params.Set("api_token", c.apiKey)
	params.Set("fmt", "json")

	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	c.logger.Debug().Str("url", c.baseURL+path).Msg("EODHD API request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    string(body),
			Endpoint:   path,
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// realTimeResponse represents the real-time quote API response
type realTimeResponse struct {
	Code          string      `json:"code"`
	Close         flexFloat64 `json:"close"`
	PreviousClose flexFloat64 `json:"previousClose"`
	Timestamp     int64       `json:"timestamp"`
}

// GetCurrentPrice returns the latest price for a symbol. An unknown symbol
// or a quote with no usable price reports found=false rather than an error;
// a stale real-time quote falls back to the last EOD close.
func (c *Client) GetCurrentPrice(ctx context.Context, symbol string) (float64, bool, error) {
	path := fmt.Sprintf("/real-time/%s", symbol)

	var quote realTimeResponse
	if err := c.get(ctx, path, nil, &quote); err != nil {
		if apiErr, ok := err.(*APIError); ok && apiErr.StatusCode == http.StatusNotFound {
			return 0, false, nil
		}
		return 0, false, err
	}

	if quote.Close > 0 {
		return float64(quote.Close), true, nil
	}
	if quote.PreviousClose > 0 {
		return float64(quote.PreviousClose), true, nil
	}

	// Quote row exists but carries no price. Mirror the EOD series as a
	// last resort before declaring the symbol unpriceable.
	series, err := c.GetHistory(ctx, symbol, 7)
	if err != nil {
		return 0, false, err
	}
	if len(series) == 0 {
		return 0, false, nil
	}
	return series[len(series)-1], true, nil
}

// eodBarResponse represents the API response for EOD data
type eodBarResponse struct {
	Date          string      `json:"date"`
	Close         flexFloat64 `json:"close"`
	AdjustedClose flexFloat64 `json:"adjusted_close"`
}

// GetHistory returns the chronological daily close series for a symbol,
// oldest first, covering up to lookbackDays calendar days. An unknown
// symbol returns an empty series.
func (c *Client) GetHistory(ctx context.Context, symbol string, lookbackDays int) ([]float64, error) {
	if lookbackDays <= 0 {
		lookbackDays = 30
	}

	params := url.Values{}
	params.Set("period", "d")
	params.Set("order", "a") // ascending, oldest first
	params.Set("from", time.Now().AddDate(0, 0, -lookbackDays).Format("2006-01-02"))

	path := fmt.Sprintf("/eod/%s", symbol)

	var bars []eodBarResponse
	if err := c.get(ctx, path, params, &bars); err != nil {
		if apiErr, ok := err.(*APIError); ok && apiErr.StatusCode == http.StatusNotFound {
			return nil, nil
		}
		return nil, err
	}

	series := make([]float64, 0, len(bars))
	for _, bar := range bars {
		close := float64(bar.Close)
		if bar.AdjustedClose > 0 {
			close = float64(bar.AdjustedClose)
		}
		if close > 0 {
			series = append(series, close)
		}
	}

	return series, nil
}
