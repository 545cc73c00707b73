package types

import "github.com/m-mizutani/goerr/v2"

var (
	ErrInvalidOption = goerr.New("invalid option")
	ErrInvalidTarget = goerr.New("invalid target")
)

// Error tags classify upstream API failures. Callers branch on tags
// instead of matching message text wherever possible.
var (
	// ErrTagNotFound marks a 404 from the upstream API: the referenced
	// user, repository or organization does not exist.
	ErrTagNotFound = goerr.NewTag("not_found")
	// ErrTagRateLimited marks a request abandoned after the retry
	// budget for rate-limit waits was exhausted.
	ErrTagRateLimited = goerr.NewTag("rate_limited")
	// ErrTagUpstream marks any other non-2xx upstream response.
	ErrTagUpstream = goerr.NewTag("upstream")
)
