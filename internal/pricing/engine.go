package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Money represents a price in whole rupiah.
type Money = int64

// MaxPrice is the largest price the engine produces or accepts as a fixed delta.
const MaxPrice Money = 1_000_000_000_000_000

var (
	hundred  = decimal.NewFromInt(100)
	maxPrice = decimal.NewFromInt(MaxPrice)
)

// ComputeDelta returns the unsigned magnitude of a price change for the given mode.
// Percentage deltas are proportional to current; fixed deltas are value itself.
func ComputeDelta(current Money, mode Mode, value decimal.Decimal) (decimal.Decimal, error) {
	if !value.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: value must be greater than zero", ErrInvalidAdjustment)
	}
	if current < 0 {
		return decimal.Zero, fmt.Errorf("%w: current price must not be negative", ErrInvalidAdjustment)
	}
	switch mode {
	case ModePercentage:
		return decimal.NewFromInt(current).Mul(value).Div(hundred), nil
	case ModeFixed:
		return value, nil
	default:
		return decimal.Zero, fmt.Errorf("%w: unknown mode %q", ErrInvalidAdjustment, mode)
	}
}

// RoundPrice rounds raw half-up to the nearest multiple of unit and never returns a
// negative price. A non-positive unit rounds to whole rupiah. Results above
// MaxPrice saturate at MaxPrice; Apply rejects them instead.
func RoundPrice(raw decimal.Decimal, unit int64) Money {
	rounded := roundDecimal(raw, unit)
	if rounded.GreaterThan(maxPrice) {
		return MaxPrice
	}
	return rounded.IntPart()
}

func roundDecimal(raw decimal.Decimal, unit int64) decimal.Decimal {
	if unit <= 0 {
		unit = 1
	}
	if raw.IsNegative() {
		return decimal.Zero
	}
	u := decimal.NewFromInt(unit)
	rounded := raw.Div(u).Round(0).Mul(u)
	if rounded.IsNegative() {
		return decimal.Zero
	}
	return rounded
}

// Apply computes the rounded price that results from applying adj to current.
func (a Adjustment) Apply(current Money) (Money, error) {
	delta, err := ComputeDelta(current, a.Mode, a.Value)
	if err != nil {
		return 0, err
	}
	base := decimal.NewFromInt(current)
	var raw decimal.Decimal
	switch a.Direction {
	case DirectionIncrease:
		raw = base.Add(delta)
	case DirectionDecrease:
		raw = base.Sub(delta)
	default:
		return 0, fmt.Errorf("%w: unknown direction %q", ErrInvalidAdjustment, a.Direction)
	}
	if raw.IsNegative() {
		raw = decimal.Zero
	}
	rounded := roundDecimal(raw, a.RoundTo)
	if raw.GreaterThan(maxPrice) || rounded.GreaterThan(maxPrice) {
		return 0, fmt.Errorf("%w: resulting price exceeds %d", ErrInvalidAdjustment, MaxPrice)
	}
	return rounded.IntPart(), nil
}
