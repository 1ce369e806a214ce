package links

import "errors"

var (
	// ErrNotFound is returned when a link does not exist for the caller.
	// Absent and not-owned are indistinguishable on purpose.
	ErrNotFound = errors.New("link not found")

	// ErrInvariantViolation is returned when a reorder would leave an
	// owner's positions with gaps or duplicates. The transaction is rolled
	// back; seeing this means the caller submitted a bad permutation.
	ErrInvariantViolation = errors.New("link positions are not a contiguous run")

	// ErrStoreUnavailable wraps store failures that left nothing applied.
	// Safe for the caller to retry.
	ErrStoreUnavailable = errors.New("link store unavailable")
)

// ValidationError represents a validation error
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
