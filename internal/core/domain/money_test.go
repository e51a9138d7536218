package domain_test

import (
	"testing"

	"github.com/madegner/estate-ledger/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRatio(t *testing.T) {
	tests := []struct {
		name    string
		num     int64
		den     int64
		want    domain.Ratio
		wantErr bool
	}{
		{name: "reduces to lowest terms", num: 6, den: 9, want: domain.Ratio{Num: 2, Den: 3}},
		{name: "zero", num: 0, den: 31, want: domain.Ratio{Num: 0, Den: 1}},
		{name: "one", num: 31, den: 31, want: domain.Ratio{Num: 1, Den: 1}},
		{name: "already reduced", num: 3, den: 31, want: domain.Ratio{Num: 3, Den: 31}},
		{name: "negative numerator rejected", num: -1, den: 3, wantErr: true},
		{name: "above one rejected", num: 4, den: 3, wantErr: true},
		{name: "zero denominator rejected", num: 1, den: 0, wantErr: true},
		{name: "negative denominator rejected", num: 1, den: -3, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := domain.NewRatio(tt.num, tt.den)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRatio_ApplyToCents_RoundsHalfAwayFromZero(t *testing.T) {
	tests := []struct {
		name   string
		ratio  domain.Ratio
		amount int64
		want   int64
	}{
		{name: "exact division", ratio: domain.Ratio{Num: 1, Den: 2}, amount: 100, want: 50},
		{name: "half rounds up", ratio: domain.Ratio{Num: 1, Den: 2}, amount: 101, want: 51},
		{name: "half rounds away from zero on negative", ratio: domain.Ratio{Num: 1, Den: 2}, amount: -101, want: -51},
		{name: "below half rounds down", ratio: domain.Ratio{Num: 1, Den: 3}, amount: 100, want: 33},
		{name: "above half rounds up", ratio: domain.Ratio{Num: 2, Den: 3}, amount: 100, want: 67},
		{name: "negative amount rounds toward more negative", ratio: domain.Ratio{Num: 2, Den: 3}, amount: -100, want: -67},
		{name: "zero ratio", ratio: domain.ZeroRatio(), amount: 12345, want: 0},
		{name: "one ratio", ratio: domain.OneRatio(), amount: 12345, want: 12345},
		{name: "three thirty-firsts of a monthly invoice", ratio: domain.Ratio{Num: 3, Den: 31}, amount: 186000, want: 18000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.ratio.ApplyToCents(tt.amount))
		})
	}
}

func TestSplitCents_LegsAlwaysResum(t *testing.T) {
	ratios := []domain.Ratio{
		{Num: 0, Den: 1},
		{Num: 1, Den: 1},
		{Num: 1, Den: 2},
		{Num: 3, Den: 31},
		{Num: 2, Den: 3},
		{Num: 7, Den: 92},
	}
	amounts := []int64{0, 1, -1, 99, -99, 100, 101, -101, 123456789, -123456789}

	for _, r := range ratios {
		for _, amt := range amounts {
			newShare, oldShare := domain.SplitCents(amt, r)
			assert.Equal(t, amt, newShare+oldShare, "ratio %s amount %d", r, amt)
		}
	}
}

func TestSplitCents_Example(t *testing.T) {
	// 3/31 of a 1000,00 inflow: 96.77... rounds to 96.77 -> 9677 cents new estate.
	newShare, oldShare := domain.SplitCents(100000, domain.Ratio{Num: 3, Den: 31})
	assert.Equal(t, int64(9677), newShare)
	assert.Equal(t, int64(90323), oldShare)
}
