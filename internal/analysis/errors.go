// Package analysis orchestrates slip image analysis: local extraction
// first, then a cached or remote AI fallback, degrading to a manual
// scaffold when everything fails.
package analysis

import "errors"

var (
	// ErrRateLimited indicates the fallback service rejected the call
	// with a rate-limit signal; it triggers exactly one delayed retry.
	ErrRateLimited = errors.New("fallback rate limited")

	// ErrFallbackUnavailable indicates the fallback service is unreachable
	ErrFallbackUnavailable = errors.New("fallback service unavailable")

	// ErrInvalidResponse indicates the fallback returned an unusable payload
	ErrInvalidResponse = errors.New("invalid fallback response")
)
