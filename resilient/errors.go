package resilient

import (
	"errors"
	"fmt"
)

// ErrCircuitOpen is returned when the circuit breaker is open, or when a
// half-open probe is already outstanding. The origin was never contacted.
// Callers should treat it as "value currently unavailable" and pick their
// own fallback.
var ErrCircuitOpen = errors.New("resilient: circuit breaker is open")

// ErrInvalidResultType is returned by the typed fetch helpers when the
// cached value does not match the requested type parameter.
var ErrInvalidResultType = errors.New("resilient: cached value has unexpected type")

// OriginError reports that the origin failed on the final retry attempt.
// It wraps the last underlying error.
type OriginError struct {
	Key      string
	Attempts int
	Err      error
}

// Error implements the error interface.
func (e *OriginError) Error() string {
	return fmt.Sprintf("resilient: origin load failed for key %q after %d attempt(s): %v", e.Key, e.Attempts, e.Err)
}

// Unwrap returns the last underlying origin error.
func (e *OriginError) Unwrap() error {
	return e.Err
}
