package provider

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"stock-tracker/internal/errors"
)

func dailyPayload(days int) string {
	var b strings.Builder
	b.WriteString(`{"Time Series (Daily)": {`)
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < days; i++ {
		if i > 0 {
			b.WriteString(",")
		}
		date := start.AddDate(0, 0, i).Format("2006-01-02")
		price := 100.0 + float64(i)
		fmt.Fprintf(&b, `"%s": {"1. open":"%.2f","2. high":"%.2f","3. low":"%.2f","4. close":"%.2f","5. volume":"1000"}`,
			date, price, price+1, price-1, price)
	}
	b.WriteString("}}")
	return b.String()
}

const overviewPayload = `{"Symbol":"TEST","PERatio":"24.5"}`

const rateLimitPayload = `{"Note":"Thank you for using Alpha Vantage! Our standard API call frequency is 25 requests per day."}`

// newTestClient wires a client against the test server with instant sleeps,
// recording every pause requested.
func newTestClient(url string, maxRetries int, sleeps *[]time.Duration) *Client {
	return New(Options{
		APIKey:     "demo",
		BaseURL:    url,
		MaxRetries: maxRetries,
		RetryDelay: 10 * time.Second,
		CallPause:  time.Second,
		Logger:     zerolog.Nop(),
		Sleep: func(d time.Duration) {
			*sleeps = append(*sleeps, d)
		},
	})
}

func TestFetch_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("function") {
		case "TIME_SERIES_DAILY":
			fmt.Fprint(w, dailyPayload(5))
		case "OVERVIEW":
			fmt.Fprint(w, overviewPayload)
		default:
			http.Error(w, "unknown function", http.StatusBadRequest)
		}
	}))
	defer server.Close()

	var sleeps []time.Duration
	client := newTestClient(server.URL, 3, &sleeps)

	data, err := client.Fetch(context.Background(), "TEST")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if data.Symbol != "TEST" {
		t.Errorf("expected symbol TEST, got %s", data.Symbol)
	}
	if len(data.Series) != 5 {
		t.Errorf("expected 5 bars, got %d", len(data.Series))
	}
	if data.PERatio != 24.5 {
		t.Errorf("expected P/E 24.5, got %v", data.PERatio)
	}
	if data.FetchedAt.IsZero() {
		t.Error("expected FetchedAt to be set")
	}

	// Only the pause between the two calls, no retry sleeps.
	if len(sleeps) != 1 || sleeps[0] != time.Second {
		t.Errorf("expected a single 1s call pause, got %v", sleeps)
	}
}

func TestFetch_RateLimitLinearBackoffThenSuccess(t *testing.T) {
	var dailyCalls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("function") {
		case "TIME_SERIES_DAILY":
			dailyCalls++
			if dailyCalls <= 2 {
				fmt.Fprint(w, rateLimitPayload)
				return
			}
			fmt.Fprint(w, dailyPayload(5))
		case "OVERVIEW":
			fmt.Fprint(w, overviewPayload)
		}
	}))
	defer server.Close()

	var sleeps []time.Duration
	client := newTestClient(server.URL, 3, &sleeps)

	if _, err := client.Fetch(context.Background(), "TEST"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dailyCalls != 3 {
		t.Errorf("expected 3 daily attempts, got %d", dailyCalls)
	}

	// Backoff grows with the attempt: 10s after the first limited attempt,
	// 20s after the second, then the 1s pause before the overview call.
	want := []time.Duration{10 * time.Second, 20 * time.Second, time.Second}
	if len(sleeps) != len(want) {
		t.Fatalf("expected sleeps %v, got %v", want, sleeps)
	}
	for i := range want {
		if sleeps[i] != want[i] {
			t.Errorf("sleep %d: expected %v, got %v", i, want[i], sleeps[i])
		}
	}
}

func TestFetch_RateLimitExhaustsRetries(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		fmt.Fprint(w, rateLimitPayload)
	}))
	defer server.Close()

	var sleeps []time.Duration
	client := newTestClient(server.URL, 3, &sleeps)

	_, err := client.Fetch(context.Background(), "TEST")
	if err == nil {
		t.Fatal("expected error after retry exhaustion")
	}
	if !errors.Is(err, errors.ErrRateLimited) {
		t.Errorf("expected ErrRateLimited in chain, got %v", err)
	}

	var fetchErr *errors.FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("expected a FetchError in chain, got %v", err)
	}
	if fetchErr.Attempts != 3 {
		t.Errorf("expected 3 attempts recorded, got %d", fetchErr.Attempts)
	}
	if calls != 3 {
		t.Errorf("expected 3 requests, got %d", calls)
	}

	// No sleep after the final attempt.
	want := []time.Duration{10 * time.Second, 20 * time.Second}
	if len(sleeps) != len(want) {
		t.Errorf("expected sleeps %v, got %v", want, sleeps)
	}
}

func TestFetch_EmptySeries(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"Error Message":"Invalid API call"}`)
	}))
	defer server.Close()

	var sleeps []time.Duration
	client := newTestClient(server.URL, 3, &sleeps)

	_, err := client.Fetch(context.Background(), "BOGUS")
	if !errors.Is(err, errors.ErrEmptySeries) {
		t.Errorf("expected ErrEmptySeries, got %v", err)
	}

	var dataErr *errors.DataError
	if !errors.As(err, &dataErr) {
		t.Fatalf("expected a DataError, got %v", err)
	}
	if dataErr.Symbol != "BOGUS" {
		t.Errorf("expected symbol BOGUS on error, got %s", dataErr.Symbol)
	}
}

func TestFetch_MissingAPIKey(t *testing.T) {
	client := New(Options{Logger: zerolog.Nop()})
	if _, err := client.Fetch(context.Background(), "TEST"); !errors.Is(err, errors.ErrMissingAPIKey) {
		t.Errorf("expected ErrMissingAPIKey, got %v", err)
	}
}

func TestFetch_TransportErrorRetriesWithFixedDelay(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			fmt.Fprint(w, "not json at all")
			return
		}
		if r.URL.Query().Get("function") == "OVERVIEW" {
			fmt.Fprint(w, overviewPayload)
			return
		}
		fmt.Fprint(w, dailyPayload(5))
	}))
	defer server.Close()

	var sleeps []time.Duration
	client := newTestClient(server.URL, 3, &sleeps)

	if _, err := client.Fetch(context.Background(), "TEST"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Fixed 10s delay after the decode failure, then the call pause.
	want := []time.Duration{10 * time.Second, time.Second}
	if len(sleeps) != len(want) || sleeps[0] != want[0] || sleeps[1] != want[1] {
		t.Errorf("expected sleeps %v, got %v", want, sleeps)
	}
}
