package pricing

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidAdjustment reports a malformed mode, value, direction or rounding unit.
	ErrInvalidAdjustment = errors.New("invalid adjustment")
	// ErrInvalidScope reports a scope selector that names nothing or both kinds of scope.
	ErrInvalidScope = errors.New("invalid scope")
	// ErrEmptyScope reports a scope selector that matched zero products.
	ErrEmptyScope = errors.New("empty scope")
	// ErrCommitFailed reports that the batch was rolled back and nothing was written.
	ErrCommitFailed = errors.New("commit failed")
	// ErrPriceConflict reports that a product's stored price moved after the plan was made.
	ErrPriceConflict = fmt.Errorf("%w: price changed since plan", ErrCommitFailed)
)

func errRoundToTooLarge(limit int64) error {
	return fmt.Errorf("%w: roundTo must not exceed %d", ErrInvalidAdjustment, limit)
}
