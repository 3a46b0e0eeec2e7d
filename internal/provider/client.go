// Package provider implements the Alpha Vantage market-data client with
// rate-limit aware retries.
package provider

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"stock-tracker/internal/errors"
	"stock-tracker/internal/models"
)

const defaultBaseURL = "https://www.alphavantage.co"

// The upstream signals rate limiting with a "Note" field instead of an
// HTTP status code.
const rateLimitMarker = "API call frequency"

// Options configures a Client.
type Options struct {
	APIKey     string
	BaseURL    string
	MaxRetries int
	RetryDelay time.Duration
	// Pause between the daily-series and overview calls for one symbol.
	CallPause time.Duration
	Logger    zerolog.Logger
	// Sleep is injectable for tests; defaults to time.Sleep.
	Sleep func(time.Duration)
}

// Client fetches daily price history and company overviews.
type Client struct {
	http       *resty.Client
	apiKey     string
	maxRetries int
	retryDelay time.Duration
	callPause  time.Duration
	logger     zerolog.Logger
	sleep      func(time.Duration)
}

// New creates a market-data client.
func New(opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = defaultBaseURL
	}
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = 3
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = 10 * time.Second
	}
	if opts.CallPause <= 0 {
		opts.CallPause = time.Second
	}
	if opts.Sleep == nil {
		opts.Sleep = time.Sleep
	}
	return &Client{
		http: resty.New().
			SetBaseURL(opts.BaseURL).
			SetTimeout(30 * time.Second),
		apiKey:     opts.APIKey,
		maxRetries: opts.MaxRetries,
		retryDelay: opts.RetryDelay,
		callPause:  opts.CallPause,
		logger:     opts.Logger,
		sleep:      opts.Sleep,
	}
}

// Fetch retrieves and normalizes the full daily series plus the company
// overview for one symbol.
func (c *Client) Fetch(ctx context.Context, symbol string) (*models.MarketData, error) {
	if c.apiKey == "" {
		return nil, errors.ErrMissingAPIKey
	}

	daily, err := c.getJSON(ctx, map[string]string{
		"function":   "TIME_SERIES_DAILY",
		"symbol":     symbol,
		"outputsize": "full",
	})
	if err != nil {
		return nil, errors.NewDataError(symbol, "fetching daily series", err)
	}

	series, err := NormalizeDaily(daily)
	if err != nil {
		return nil, errors.NewDataError(symbol, "normalizing daily series", err)
	}

	// Space out the two upstream calls.
	c.sleep(c.callPause)

	overview, err := c.getJSON(ctx, map[string]string{
		"function": "OVERVIEW",
		"symbol":   symbol,
	})
	if err != nil {
		return nil, errors.NewDataError(symbol, "fetching overview", err)
	}

	return &models.MarketData{
		Symbol:    symbol,
		Series:    series,
		PERatio:   parsePERatio(overview),
		FetchedAt: time.Now(),
	}, nil
}

// getJSON issues the GET with up to maxRetries attempts. A rate-limit note
// in the payload sleeps retryDelay*attempt (linear backoff) before the next
// attempt; any other failure sleeps a fixed retryDelay. The final attempt
// propagates the error.
func (c *Client) getJSON(ctx context.Context, params map[string]string) (map[string]json.RawMessage, error) {
	var lastErr error

	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		payload, err := c.doRequest(ctx, params)
		if err != nil {
			lastErr = err
			c.logger.Error().Err(err).Int("attempt", attempt).Int("max", c.maxRetries).
				Msg("API request failed")
			if attempt == c.maxRetries {
				break
			}
			c.sleep(c.retryDelay)
			continue
		}

		if note, limited := rateLimitNote(payload); limited {
			lastErr = errors.Wrap(errors.ErrRateLimited, note)
			c.logger.Warn().Str("note", note).Int("attempt", attempt).
				Msg("API rate limit hit, backing off")
			if attempt == c.maxRetries {
				break
			}
			c.sleep(c.retryDelay * time.Duration(attempt))
			continue
		}

		return payload, nil
	}

	return nil, errors.NewFetchError("/query?function="+params["function"], c.maxRetries, lastErr)
}

func (c *Client) doRequest(ctx context.Context, params map[string]string) (map[string]json.RawMessage, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(params).
		SetQueryParam("apikey", c.apiKey).
		Get("/query")
	if err != nil {
		return nil, err
	}

	var payload map[string]json.RawMessage
	if err := json.Unmarshal(resp.Body(), &payload); err != nil {
		return nil, errors.Wrap(err, "decoding response")
	}
	return payload, nil
}

func rateLimitNote(payload map[string]json.RawMessage) (string, bool) {
	raw, ok := payload["Note"]
	if !ok {
		return "", false
	}
	var note string
	if err := json.Unmarshal(raw, &note); err != nil {
		return "", false
	}
	return note, strings.Contains(note, rateLimitMarker)
}
