package tutor

import "errors"

type Kind string

const (
	KindNone             Kind = ""
	KindMissingInput     Kind = "MissingInput"
	KindRateLimited      Kind = "RateLimited"
	KindRetriesExhausted Kind = "RetriesExhausted"
	KindUpstreamFailure  Kind = "UpstreamFailure"
	KindNetworkFailure   Kind = "NetworkFailure"
)

var (
	ErrMissingInput = errors.New("message is required")
	// ErrRateLimited marks an upstream rejection that may succeed later.
	// Upstream adapters wrap it; the retry loop absorbs it.
	ErrRateLimited = errors.New("upstream rate limited")
	// ErrRetriesExhausted never wraps ErrRateLimited.
	ErrRetriesExhausted = errors.New("failed to fetch AI response after multiple retries")
	ErrUpstream         = errors.New("upstream failure")
	ErrNetwork          = errors.New("network failure")
)

// KindOf classifies err. Unknown non-nil errors are upstream failures.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrMissingInput):
		return KindMissingInput
	case errors.Is(err, ErrRetriesExhausted):
		return KindRetriesExhausted
	case errors.Is(err, ErrRateLimited):
		return KindRateLimited
	case errors.Is(err, ErrNetwork):
		return KindNetworkFailure
	default:
		return KindUpstreamFailure
	}
}
