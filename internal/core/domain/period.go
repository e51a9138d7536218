package domain

import (
	"fmt"
	"time"
)

const day = 24 * time.Hour

// Period is a half-open service interval [Start, End): End is exclusive.
// Both bounds are normalized to midnight UTC.
type Period struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// NewPeriod constructs a Period. A zero-length (or inverted) interval is an
// input-contract violation, rejected rather than silently defaulted.
func NewPeriod(start, end time.Time) (Period, error) {
	start = Midnight(start)
	end = Midnight(end)
	if !end.After(start) {
		return Period{}, fmt.Errorf("period end %s must be after start %s", end.Format(time.DateOnly), start.Format(time.DateOnly))
	}
	return Period{Start: start, End: end}, nil
}

// Midnight truncates a timestamp to midnight UTC.
func Midnight(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Days returns the whole-day length of the period.
func (p Period) Days() int64 {
	return int64(p.End.Sub(p.Start) / day)
}

// Contains reports whether d lies inside the half-open interval.
func (p Period) Contains(d time.Time) bool {
	d = Midnight(d)
	return !d.Before(p.Start) && d.Before(p.End)
}

// Covers reports whether o lies entirely within p.
func (p Period) Covers(o Period) bool {
	return !o.Start.Before(p.Start) && !o.End.After(p.End)
}

func (p Period) String() string {
	return fmt.Sprintf("[%s,%s)", p.Start.Format(time.DateOnly), p.End.Format(time.DateOnly))
}

// Prorate computes the NEW-estate share of a period relative to the cutoff as
// the exact rational daysOnOrAfterCutoff / totalDays. Edge semantics:
// cutoff == start yields 1 (entirely new estate), cutoff == end yields 0
// (entirely old estate, End being exclusive).
func Prorate(p Period, cutoff time.Time) (Ratio, error) {
	total := p.Days()
	if total <= 0 {
		return Ratio{}, fmt.Errorf("cannot prorate zero-length period %s", p)
	}
	cutoff = Midnight(cutoff)
	if !cutoff.After(p.Start) {
		return OneRatio(), nil
	}
	if !cutoff.Before(p.End) {
		return ZeroRatio(), nil
	}
	after := int64(p.End.Sub(cutoff) / day)
	return NewRatio(after, total)
}

// MonthPeriod returns the calendar-month period containing t.
func MonthPeriod(t time.Time) Period {
	t = t.UTC()
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	return Period{Start: start, End: start.AddDate(0, 1, 0)}
}

// DayPeriod returns the single-day period [d, d+1d).
func DayPeriod(d time.Time) Period {
	start := Midnight(d)
	return Period{Start: start, End: start.Add(day)}
}
