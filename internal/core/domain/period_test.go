package domain_test

import (
	"testing"
	"time"

	"github.com/madegner/estate-ledger/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func mustPeriod(t *testing.T, start, end time.Time) domain.Period {
	t.Helper()
	p, err := domain.NewPeriod(start, end)
	require.NoError(t, err)
	return p
}

func TestNewPeriod_RejectsZeroLength(t *testing.T) {
	_, err := domain.NewPeriod(date(2025, 10, 1), date(2025, 10, 1))
	assert.Error(t, err)

	_, err = domain.NewPeriod(date(2025, 10, 2), date(2025, 10, 1))
	assert.Error(t, err)
}

func TestPeriod_Days(t *testing.T) {
	october := mustPeriod(t, date(2025, 10, 1), date(2025, 11, 1))
	assert.Equal(t, int64(31), october.Days())

	q3 := mustPeriod(t, date(2025, 7, 1), date(2025, 10, 1))
	assert.Equal(t, int64(92), q3.Days())
}

func TestProrate(t *testing.T) {
	october := mustPeriod(t, date(2025, 10, 1), date(2025, 11, 1))

	tests := []struct {
		name   string
		period domain.Period
		cutoff time.Time
		want   domain.Ratio
	}{
		{
			name:   "cutoff inside yields days-after over total",
			period: october,
			cutoff: date(2025, 10, 29),
			want:   domain.Ratio{Num: 3, Den: 31},
		},
		{
			name:   "cutoff at start is entirely new estate",
			period: october,
			cutoff: date(2025, 10, 1),
			want:   domain.OneRatio(),
		},
		{
			name:   "cutoff at exclusive end is entirely old estate",
			period: october,
			cutoff: date(2025, 11, 1),
			want:   domain.ZeroRatio(),
		},
		{
			name:   "mid-month cutoff",
			period: october,
			cutoff: date(2025, 10, 16),
			want:   domain.Ratio{Num: 16, Den: 31},
		},
		{
			// 64 of 92 days on or after the cutoff; the constructor
			// reduces by gcd, so the result is 16/23, never 64/92.
			name:   "quarter straddling cutoff comes back reduced",
			period: mustPeriod(t, date(2025, 10, 1), date(2026, 1, 1)),
			cutoff: date(2025, 10, 29),
			want:   domain.Ratio{Num: 16, Den: 23},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := domain.Prorate(tt.period, tt.cutoff)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "want %s got %s", tt.want, got)
		})
	}
}

func TestMonthPeriod(t *testing.T) {
	p := domain.MonthPeriod(date(2025, 10, 14))
	assert.Equal(t, date(2025, 10, 1), p.Start)
	assert.Equal(t, date(2025, 11, 1), p.End)

	dec := domain.MonthPeriod(date(2025, 12, 31))
	assert.Equal(t, date(2026, 1, 1), dec.End)
}

func TestPeriod_Covers(t *testing.T) {
	q4 := mustPeriod(t, date(2025, 10, 1), date(2026, 1, 1))
	october := mustPeriod(t, date(2025, 10, 1), date(2025, 11, 1))

	assert.True(t, q4.Covers(october))
	assert.False(t, october.Covers(q4))
	assert.True(t, october.Covers(october))
}
