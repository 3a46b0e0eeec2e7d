// Package errors provides custom error types for domain-specific errors.
package errors

import (
	"errors"
	"fmt"
)

// Standard sentinel errors
var (
	// ErrRateLimited is the transient upstream condition: the provider
	// answered with a rate-limit marker instead of data.
	ErrRateLimited = errors.New("rate limited by upstream")
	// ErrEmptySeries signals a payload with no time-series entries, which
	// means a bad symbol or malformed response rather than a network fault.
	ErrEmptySeries = errors.New("no time series data in response")
	// ErrMissingAPIKey is returned when no provider API key is configured.
	ErrMissingAPIKey = errors.New("missing API key")
	// ErrCacheMiss is returned by the cache store when no fresh entry exists.
	ErrCacheMiss = errors.New("cache miss")
)

// FetchError represents a network or transport failure talking to the
// market-data provider, after retries were exhausted.
type FetchError struct {
	URL      string
	Attempts int
	Err      error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch failed after %d attempts: %s: %v", e.Attempts, e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// NewFetchError creates a new FetchError.
func NewFetchError(url string, attempts int, err error) *FetchError {
	return &FetchError{URL: url, Attempts: attempts, Err: err}
}

// DataError represents a data-related failure for one symbol.
type DataError struct {
	Symbol  string
	Message string
	Err     error
}

func (e *DataError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("data error [%s]: %s: %v", e.Symbol, e.Message, e.Err)
	}
	return fmt.Sprintf("data error [%s]: %s", e.Symbol, e.Message)
}

func (e *DataError) Unwrap() error {
	return e.Err
}

// NewDataError creates a new DataError.
func NewDataError(symbol, message string, err error) *DataError {
	return &DataError{Symbol: symbol, Message: message, Err: err}
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
