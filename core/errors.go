package core

import "errors"

// Remote call errors
var (
	// ErrLoginFailed is the single undifferentiated login failure signal.
	// Bad credentials, unreachable network, and malformed responses all
	// collapse into it; the service owns the authoritative validation and
	// the client does not leak which mode occurred.
	ErrLoginFailed = errors.New("login failed")

	// ErrUnauthorized is raised on any 401/403 from an authenticated
	// endpoint. It is always distinguishable from ErrFetchFailed so callers
	// can route it to the session manager's expiry handling.
	ErrUnauthorized = errors.New("credentials rejected by service")

	// ErrFetchFailed is the generic "could not load" signal for record
	// fetches: network unreachable, non-2xx, or malformed payload.
	ErrFetchFailed = errors.New("could not load data from service")
)

// Session errors
var (
	ErrNotAuthenticated = errors.New("no active session")
)

// Storage and cache errors
var (
	ErrKeyNotFound   = errors.New("key not found in store")
	ErrCacheNotFound = errors.New("no cached snapshot")
)

// Config errors (client construction)
var (
	ErrBaseURLRequired = errors.New("base url is required")
	ErrStoreRequired   = errors.New("key-value store is required")
	ErrAPIRequired     = errors.New("api client is required")
)
