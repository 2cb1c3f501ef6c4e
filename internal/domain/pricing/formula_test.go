package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func defaultFormula() *Formula {
	return NewFormula(0.52, 100_000, 8_000_000, 0.045, 0.19, 428_400)
}

func TestComputeImmediateOffer(t *testing.T) {
	f := defaultFormula()

	tests := []struct {
		name        string
		marketPrice int
		want        int
	}{
		{"exact multiple", 10_000_000, 5_200_000},
		{"rounds down", 9_066_666, 4_700_000},
		{"rounds half up", 8_750_000, 4_600_000},
		{"small price", 2_000_000, 1_000_000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := f.Compute(tt.marketPrice)
			assert.True(t, got.Success)
			assert.Equal(t, tt.want, got.ImmediateOffer)
		})
	}
}

func TestComputeConsignmentTiers(t *testing.T) {
	f := defaultFormula()

	t.Run("percentage tier above threshold", func(t *testing.T) {
		got := f.Compute(9_066_666)
		assert.True(t, got.Success)
		assert.Equal(t, "percentage", got.Tier)
		// 9,066,666 * (1 - 0.05355) truncated
		assert.Equal(t, 8_581_146, got.ConsignmentValue)
	})

	t.Run("fixed fee at threshold", func(t *testing.T) {
		got := f.Compute(8_000_000)
		assert.Equal(t, "fixed_fee", got.Tier)
		assert.Equal(t, 8_000_000-428_400, got.ConsignmentValue)
	})

	t.Run("fixed fee below threshold", func(t *testing.T) {
		got := f.Compute(5_000_000)
		assert.Equal(t, "fixed_fee", got.Tier)
		assert.Equal(t, 4_571_600, got.ConsignmentValue)
	})

	t.Run("fixed fee never negative", func(t *testing.T) {
		got := f.Compute(400_000)
		assert.True(t, got.Success)
		assert.Equal(t, 0, got.ConsignmentValue)
	})
}

func TestComputeInvalidPrice(t *testing.T) {
	f := defaultFormula()

	for _, price := range []int{0, -1, -5_000_000} {
		got := f.Compute(price)
		assert.False(t, got.Success, "price %d", price)
		assert.NotEmpty(t, got.Reason)
		assert.Zero(t, got.ImmediateOffer)
		assert.Zero(t, got.ConsignmentValue)
	}
}

func TestComputeCarriesMarketPrice(t *testing.T) {
	got := defaultFormula().Compute(7_200_000)
	assert.True(t, got.Success)
	assert.Equal(t, 7_200_000, got.MarketPrice)
}
