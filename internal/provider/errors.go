package provider

import (
	"errors"
	"fmt"
)

// Sentinel errors for provider operations.
var (
	// ErrUnknownProvider indicates the requested provider is not registered.
	ErrUnknownProvider = errors.New("unknown provider")

	// ErrMissingAPIKey indicates the provider requires a key none was given.
	ErrMissingAPIKey = errors.New("missing API key")

	// ErrUnavailable indicates the LLM service returned a server error.
	ErrUnavailable = errors.New("LLM service unavailable")

	// ErrRateLimited indicates the request was rate limited.
	ErrRateLimited = errors.New("rate limited")

	// ErrInvalidResponse indicates the provider response could not be decoded.
	ErrInvalidResponse = errors.New("invalid provider response")

	// ErrEmptyResponse indicates the provider returned no text.
	ErrEmptyResponse = errors.New("empty provider response")
)

// statusError maps an HTTP status code to the matching sentinel.
func statusError(provider string, status int) error {
	switch {
	case status == 429:
		return fmt.Errorf("%s: %w", provider, ErrRateLimited)
	case status >= 500:
		return fmt.Errorf("%s: %w (status %d)", provider, ErrUnavailable, status)
	default:
		return fmt.Errorf("%s: unexpected status %d", provider, status)
	}
}

// IsRetryable reports whether an error is likely transient.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrRateLimited) || errors.Is(err, ErrUnavailable)
}
