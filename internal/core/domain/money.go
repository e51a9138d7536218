package domain

import (
	"fmt"
)

// Amounts in this package are signed 64-bit integer counts of minor units
// (cents). The sign encodes direction: inflow (+), outflow (-). Floating
// point is never used; fractional allocation goes through Ratio, an exact
// rational, and rounding to cents happens exactly once per conversion.

// Ratio is an exact rational in [0, 1], stored reduced with Den > 0.
// Throughout the engine a Ratio is the NEW-estate share of an amount.
type Ratio struct {
	Num int64 `json:"num"`
	Den int64 `json:"den"`
}

// NewRatio constructs a reduced Ratio. num/den must lie in [0, 1] with den > 0.
func NewRatio(num, den int64) (Ratio, error) {
	if den <= 0 {
		return Ratio{}, fmt.Errorf("ratio denominator must be positive, got %d", den)
	}
	if num < 0 || num > den {
		return Ratio{}, fmt.Errorf("ratio %d/%d outside [0,1]", num, den)
	}
	g := gcd(num, den)
	return Ratio{Num: num / g, Den: den / g}, nil
}

// OneRatio is the full NEW-estate share.
func OneRatio() Ratio { return Ratio{Num: 1, Den: 1} }

// ZeroRatio is the full OLD-estate share.
func ZeroRatio() Ratio { return Ratio{Num: 0, Den: 1} }

// IsZero reports whether the ratio is exactly 0.
func (r Ratio) IsZero() bool { return r.Num == 0 }

// IsOne reports whether the ratio is exactly 1.
func (r Ratio) IsOne() bool { return r.Num == r.Den }

// Equal reports exact equality of two reduced ratios.
func (r Ratio) Equal(o Ratio) bool { return r.Num == o.Num && r.Den == o.Den }

func (r Ratio) String() string {
	return fmt.Sprintf("%d/%d", r.Num, r.Den)
}

// ApplyToCents converts ratio x amount into minor units, rounding half away
// from zero. This is the single place in the engine where a fractional value
// becomes cents; intermediate arithmetic stays exact.
func (r Ratio) ApplyToCents(amountCents int64) int64 {
	n := amountCents * r.Num
	q := n / r.Den
	rem := n % r.Den
	if rem < 0 {
		rem = -rem
	}
	if rem*2 >= r.Den {
		if n < 0 {
			q--
		} else {
			q++
		}
	}
	return q
}

// SplitCents divides an amount into its NEW-estate and OLD-estate legs.
// The old leg is the exact remainder, so newShare+oldShare == amountCents
// always holds regardless of rounding.
func SplitCents(amountCents int64, r Ratio) (newShare, oldShare int64) {
	newShare = r.ApplyToCents(amountCents)
	oldShare = amountCents - newShare
	return newShare, oldShare
}

func gcd(a, b int64) int64 {
	if a < 0 {
		a = -a
	}
	for b != 0 {
		a, b = b, a%b
	}
	if a == 0 {
		return 1
	}
	return a
}
