package reconcile

import "errors"

var (
	// ErrAuth is returned when the POS login fails. Fatal to the run.
	ErrAuth = errors.New("pos authentication failed")

	// ErrListingFetch is returned when the POS order listing cannot be fetched. Fatal to the run.
	ErrListingFetch = errors.New("pos order listing failed")

	// ErrOrderNotFound is returned when the platform has no order for an external code.
	ErrOrderNotFound = errors.New("order not found on platform")

	// ErrCacheCorruption is returned when neither the cache file nor its backup can be read.
	ErrCacheCorruption = errors.New("idempotency cache corrupted")

	// ErrCacheWrite is returned when the cache backup or primary file cannot be written.
	ErrCacheWrite = errors.New("idempotency cache write failed")
)
