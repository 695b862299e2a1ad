package pricing_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-optima/internal/pricing"
)

func TestComputeDelta(t *testing.T) {
	delta, err := pricing.ComputeDelta(18500, pricing.ModePercentage, decimal.NewFromInt(10))
	require.NoError(t, err)
	require.True(t, delta.Equal(decimal.NewFromInt(1850)), delta.String())

	delta, err = pricing.ComputeDelta(12000, pricing.ModeFixed, decimal.NewFromInt(5000))
	require.NoError(t, err)
	require.True(t, delta.Equal(decimal.NewFromInt(5000)))

	delta, err = pricing.ComputeDelta(333, pricing.ModePercentage, decimal.RequireFromString("12.5"))
	require.NoError(t, err)
	require.True(t, delta.Equal(decimal.RequireFromString("41.625")), delta.String())

	_, err = pricing.ComputeDelta(1000, pricing.ModeFixed, decimal.Zero)
	require.ErrorIs(t, err, pricing.ErrInvalidAdjustment)

	_, err = pricing.ComputeDelta(1000, pricing.ModeFixed, decimal.NewFromInt(-5))
	require.ErrorIs(t, err, pricing.ErrInvalidAdjustment)

	_, err = pricing.ComputeDelta(1000, pricing.Mode("bogus"), decimal.NewFromInt(5))
	require.True(t, errors.Is(err, pricing.ErrInvalidAdjustment))
}

func TestRoundPrice(t *testing.T) {
	cases := []struct {
		raw  string
		unit int64
		want pricing.Money
	}{
		{"20350", 100, 20400},
		{"20349", 100, 20300},
		{"7000", 500, 7000},
		{"7249", 500, 7000},
		{"7250", 500, 7500},
		{"41.5", 1, 42},
		{"0", 100, 0},
		{"49", 100, 0},
		{"50", 100, 100},
		{"-700", 100, 0},
		{"-0.4", 1, 0},
		{"1234", 0, 1234},
	}
	for _, tc := range cases {
		got := pricing.RoundPrice(decimal.RequireFromString(tc.raw), tc.unit)
		require.Equal(t, tc.want, got, "raw=%s unit=%d", tc.raw, tc.unit)
	}
}

func TestRoundPriceIdempotent(t *testing.T) {
	units := []int64{1, 50, 100, 250, 500, 1000}
	for _, unit := range units {
		for raw := int64(-1500); raw <= 25000; raw += 37 {
			once := pricing.RoundPrice(decimal.NewFromInt(raw), unit)
			twice := pricing.RoundPrice(decimal.NewFromInt(once), unit)
			require.Equal(t, once, twice, "raw=%d unit=%d", raw, unit)
			require.GreaterOrEqual(t, once, int64(0))
			require.Zero(t, once%unit)
			if raw < 0 {
				require.Zero(t, once)
			}
		}
	}
}

func TestAdjustmentApplyScenarios(t *testing.T) {
	cases := []struct {
		name      string
		current   pricing.Money
		mode      pricing.Mode
		value     int64
		direction pricing.Direction
		roundTo   int64
		want      pricing.Money
	}{
		{"percentage increase rounds half up", 18500, pricing.ModePercentage, 10, pricing.DirectionIncrease, 100, 20400},
		{"fixed decrease lands on unit", 12000, pricing.ModeFixed, 5000, pricing.DirectionDecrease, 500, 7000},
		{"large decrease clamps at zero", 300, pricing.ModeFixed, 1000, pricing.DirectionDecrease, 100, 0},
		{"percentage decrease", 10000, pricing.ModePercentage, 15, pricing.DirectionDecrease, 500, 8500},
		{"hundred percent decrease", 9900, pricing.ModePercentage, 100, pricing.DirectionDecrease, 100, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			adj, err := pricing.NewAdjustment(tc.mode, decimal.NewFromInt(tc.value), tc.direction, tc.roundTo)
			require.NoError(t, err)
			got, err := adj.Apply(tc.current)
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestNewAdjustmentValidation(t *testing.T) {
	_, err := pricing.NewAdjustment(pricing.ModeFixed, decimal.NewFromInt(1), pricing.DirectionIncrease, 0)
	require.ErrorIs(t, err, pricing.ErrInvalidAdjustment)

	_, err = pricing.NewAdjustment(pricing.Mode("double"), decimal.NewFromInt(1), pricing.DirectionIncrease, 100)
	require.ErrorIs(t, err, pricing.ErrInvalidAdjustment)

	_, err = pricing.NewAdjustment(pricing.ModeFixed, decimal.NewFromInt(1), pricing.Direction("sideways"), 100)
	require.ErrorIs(t, err, pricing.ErrInvalidAdjustment)

	_, err = pricing.NewAdjustment(pricing.ModeFixed, decimal.Zero, pricing.DirectionIncrease, 100)
	require.ErrorIs(t, err, pricing.ErrInvalidAdjustment)

	mode, err := pricing.ParseMode(" Percentage ")
	require.NoError(t, err)
	require.Equal(t, pricing.ModePercentage, mode)
}

func TestAdjustmentRejectsOutOfRangeMagnitudes(t *testing.T) {
	twoTo64 := decimal.NewFromInt(2).Pow(decimal.NewFromInt(64))
	cases := []struct {
		name      string
		mode      pricing.Mode
		value     decimal.Decimal
		overflows bool
	}{
		{"fixed 1e19", pricing.ModeFixed, decimal.RequireFromString("10000000000000000000"), true},
		{"fixed 2^64", pricing.ModeFixed, twoTo64, true},
		{"fixed just above max price", pricing.ModeFixed, decimal.NewFromInt(pricing.MaxPrice + 1), true},
		{"percentage 1e17", pricing.ModePercentage, decimal.RequireFromString("100000000000000000"), true},
		{"percentage just above cap", pricing.ModePercentage, decimal.RequireFromString("10000.01"), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := pricing.NewAdjustment(tc.mode, tc.value, pricing.DirectionIncrease, 100)
			require.ErrorIs(t, err, pricing.ErrInvalidAdjustment)
			if !tc.overflows {
				return
			}

			// Apply guards results even for adjustments built without NewAdjustment.
			adj := pricing.Adjustment{Mode: tc.mode, Value: tc.value, Direction: pricing.DirectionIncrease, RoundTo: 100}
			got, err := adj.Apply(18500)
			require.ErrorIs(t, err, pricing.ErrInvalidAdjustment)
			require.Zero(t, got)
		})
	}

	t.Run("bounds themselves are accepted", func(t *testing.T) {
		_, err := pricing.NewAdjustment(pricing.ModePercentage, decimal.NewFromInt(pricing.MaxPercentage), pricing.DirectionIncrease, 100)
		require.NoError(t, err)
		adj, err := pricing.NewAdjustment(pricing.ModeFixed, decimal.NewFromInt(pricing.MaxPrice), pricing.DirectionDecrease, 100)
		require.NoError(t, err)
		got, err := adj.Apply(18500)
		require.NoError(t, err)
		require.Zero(t, got)
	})

	t.Run("result above max price", func(t *testing.T) {
		adj, err := pricing.NewAdjustment(pricing.ModeFixed, decimal.NewFromInt(1000), pricing.DirectionIncrease, 100)
		require.NoError(t, err)
		_, err = adj.Apply(pricing.MaxPrice)
		require.ErrorIs(t, err, pricing.ErrInvalidAdjustment)
	})

	t.Run("round price saturates", func(t *testing.T) {
		require.Equal(t, pricing.MaxPrice, pricing.RoundPrice(twoTo64, 100))
	})
}

func TestAdjustmentReason(t *testing.T) {
	pct, err := pricing.NewAdjustment(pricing.ModePercentage, decimal.NewFromInt(10), pricing.DirectionIncrease, 100)
	require.NoError(t, err)
	require.Equal(t, "Bulk increase by 10% | Rounded to nearest 100", pct.Reason())

	fixed, err := pricing.NewAdjustment(pricing.ModeFixed, decimal.NewFromInt(5000), pricing.DirectionDecrease, 500)
	require.NoError(t, err)
	require.Equal(t, "Bulk decrease by IDR 5.000 | Rounded to nearest 500", fixed.Reason())
}
