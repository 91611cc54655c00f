package valueobject

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestRoundMoney(t *testing.T) {
	assert.True(t, decimal.RequireFromString("10.13").Equal(RoundMoney(decimal.RequireFromString("10.125"))))
	assert.True(t, decimal.RequireFromString("-3.46").Equal(RoundMoney(decimal.RequireFromString("-3.455"))))
}

func TestPercentage(t *testing.T) {
	tests := []struct {
		name   string
		amount string
		rate   string
		want   string
	}{
		{"zero rate", "200", "0", "0"},
		{"whole", "200", "21", "42"},
		{"rounded", "33.33", "10.5", "3.5"},
		{"zero amount", "0", "21", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Percentage(decimal.RequireFromString(tt.amount), decimal.RequireFromString(tt.rate))
			assert.True(t, decimal.RequireFromString(tt.want).Equal(got), "got %s", got)
		})
	}
}

func TestSumAndNonNegative(t *testing.T) {
	total := Sum(decimal.NewFromInt(1), decimal.NewFromFloat(2.5), decimal.NewFromInt(-1))
	assert.True(t, decimal.NewFromFloat(2.5).Equal(total))
	assert.True(t, NonNegative(decimal.NewFromInt(-4)).IsZero())
	assert.True(t, decimal.NewFromInt(4).Equal(NonNegative(decimal.NewFromInt(4))))
}
