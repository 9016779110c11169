package domain

import "time"

// Interval is a half-open time range [Start, End).
type Interval struct {
	Start time.Time
	End   time.Time
}

// Overlaps reports whether the two intervals share at least one instant.
// Intervals that only touch at an endpoint do not overlap.
func (i Interval) Overlaps(o Interval) bool {
	return i.Start.Before(o.End) && o.Start.Before(i.End)
}

// Empty reports a zero-length interval.
func (i Interval) Empty() bool {
	return i.Start.Equal(i.End)
}

// Inverted reports an interval that finishes before it starts.
func (i Interval) Inverted() bool {
	return i.End.Before(i.Start)
}

func (i Interval) Duration() time.Duration {
	return i.End.Sub(i.Start)
}

func (i Interval) UTC() Interval {
	return Interval{Start: i.Start.UTC(), End: i.End.UTC()}
}
