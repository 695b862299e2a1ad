package pricing

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Mode selects how the adjustment value is interpreted.
type Mode string

// Direction selects whether the delta is added or subtracted.
type Direction string

const (
	ModePercentage Mode = "percentage"
	ModeFixed      Mode = "fixed"

	DirectionIncrease Direction = "increase"
	DirectionDecrease Direction = "decrease"

	// MaxPercentage caps percentage adjustments at a hundredfold change.
	MaxPercentage = 10000
)

// ParseMode normalises a textual mode.
func ParseMode(value string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(value))) {
	case ModePercentage:
		return ModePercentage, nil
	case ModeFixed:
		return ModeFixed, nil
	default:
		return "", fmt.Errorf("%w: mode must be 'percentage' or 'fixed'", ErrInvalidAdjustment)
	}
}

// ParseDirection normalises a textual direction.
func ParseDirection(value string) (Direction, error) {
	switch Direction(strings.ToLower(strings.TrimSpace(value))) {
	case DirectionIncrease:
		return DirectionIncrease, nil
	case DirectionDecrease:
		return DirectionDecrease, nil
	default:
		return "", fmt.Errorf("%w: direction must be 'increase' or 'decrease'", ErrInvalidAdjustment)
	}
}

// Adjustment is a validated, immutable description of one bulk price change.
type Adjustment struct {
	Mode      Mode            `json:"mode"`
	Value     decimal.Decimal `json:"value"`
	Direction Direction       `json:"direction"`
	RoundTo   int64           `json:"roundTo"`
}

// NewAdjustment validates its inputs and returns an Adjustment ready for planning.
func NewAdjustment(mode Mode, value decimal.Decimal, direction Direction, roundTo int64) (Adjustment, error) {
	if _, err := ParseMode(string(mode)); err != nil {
		return Adjustment{}, err
	}
	if _, err := ParseDirection(string(direction)); err != nil {
		return Adjustment{}, err
	}
	if !value.IsPositive() {
		return Adjustment{}, fmt.Errorf("%w: value must be a positive number", ErrInvalidAdjustment)
	}
	switch {
	case mode == ModePercentage && value.GreaterThan(decimal.NewFromInt(MaxPercentage)):
		return Adjustment{}, fmt.Errorf("%w: percentage must not exceed %d", ErrInvalidAdjustment, MaxPercentage)
	case mode == ModeFixed && value.GreaterThan(maxPrice):
		return Adjustment{}, fmt.Errorf("%w: fixed value must not exceed %d", ErrInvalidAdjustment, MaxPrice)
	}
	if roundTo <= 0 {
		return Adjustment{}, fmt.Errorf("%w: roundTo must be a positive integer", ErrInvalidAdjustment)
	}
	return Adjustment{Mode: mode, Value: value, Direction: direction, RoundTo: roundTo}, nil
}

var idPrinter = message.NewPrinter(language.Indonesian)

// Reason renders the human summary stored alongside each audit row,
// e.g. "Bulk decrease by IDR 5.000 | Rounded to nearest 500".
func (a Adjustment) Reason() string {
	var magnitude string
	if a.Mode == ModePercentage {
		magnitude = a.Value.String() + "%"
	} else if a.Value.IsInteger() {
		magnitude = "IDR " + idPrinter.Sprintf("%d", a.Value.IntPart())
	} else {
		magnitude = "IDR " + idPrinter.Sprintf("%v", a.Value.InexactFloat64())
	}
	return fmt.Sprintf("Bulk %s by %s | Rounded to nearest %d", a.Direction, magnitude, a.RoundTo)
}
