package speech

import "errors"

// Synthesis client errors, mapped from the HTTP response.
var (
	ErrMissingAPIKey   = errors.New("speech: API key not configured")
	ErrUnauthorized    = errors.New("speech: unauthorized, check API key")
	ErrRateLimited     = errors.New("speech: rate limit exceeded")
	ErrServerError     = errors.New("speech: synthesis server error")
	ErrInvalidResponse = errors.New("speech: invalid response from synthesis API")
	ErrEncodingFailed  = errors.New("speech: failed to encode request")
	ErrEmptyText       = errors.New("speech: empty text")
)

// Cache errors.
var (
	// ErrNotCached is returned by Load when no clip exists for the text.
	ErrNotCached = errors.New("speech: audio not cached")
)
