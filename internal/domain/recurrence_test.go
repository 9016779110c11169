package domain

import (
	"testing"
	"time"
)

func firstSlot(start time.Time, d time.Duration) Interval {
	return Interval{Start: start, End: start.Add(d)}
}

func TestExpandWeekly_Validation(t *testing.T) {
	start := time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)
	horizon := start.AddDate(0, 1, 0)
	base := WeeklyRule{Interval: 1, Weekdays: []int16{1}, TimeZone: "UTC"}

	tests := []struct {
		name    string
		first   Interval
		rule    WeeklyRule
		horizon time.Time
		wantErr string
	}{
		{
			name:    "zero duration",
			first:   Interval{Start: start, End: start},
			rule:    base,
			horizon: horizon,
			wantErr: "invalid duration",
		},
		{
			name:    "missing horizon",
			first:   firstSlot(start, time.Hour),
			rule:    base,
			wantErr: "horizon is required",
		},
		{
			name:  "invalid time zone",
			first: firstSlot(start, time.Hour),
			rule: func() WeeklyRule {
				r := base
				r.TimeZone = "Not/AZone"
				return r
			}(),
			horizon: horizon,
			wantErr: "invalid time_zone",
		},
		{
			name:  "invalid weekday",
			first: firstSlot(start, time.Hour),
			rule: func() WeeklyRule {
				r := base
				r.Weekdays = []int16{0}
				return r
			}(),
			horizon: horizon,
			wantErr: "invalid weekday",
		},
		{
			name:  "empty weekday set",
			first: firstSlot(start, time.Hour),
			rule: func() WeeklyRule {
				r := base
				r.Weekdays = nil
				return r
			}(),
			horizon: horizon,
			wantErr: "at least one weekday is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ExpandWeekly(tt.first, tt.rule, tt.horizon)
			if err == nil {
				t.Fatalf("expected error")
			}
			if err.Error() != tt.wantErr {
				t.Fatalf("error = %q, want %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestExpandWeekly_RespectsUntilCountAndHorizon(t *testing.T) {
	start := time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)
	until := time.Date(2026, 1, 20, 0, 0, 0, 0, time.UTC)
	count := 2
	far := start.AddDate(1, 0, 0)

	occs, err := ExpandWeekly(firstSlot(start, time.Hour), WeeklyRule{Weekdays: []int16{1}, Until: &until, TimeZone: "UTC"}, far)
	if err != nil {
		t.Fatalf("ExpandWeekly error: %v", err)
	}
	if len(occs) != 3 {
		t.Fatalf("until: len(occs) = %d, want 3", len(occs))
	}

	occs, err = ExpandWeekly(firstSlot(start, time.Hour), WeeklyRule{Weekdays: []int16{1}, Until: &until, Count: &count, TimeZone: "UTC"}, far)
	if err != nil {
		t.Fatalf("ExpandWeekly error: %v", err)
	}
	if len(occs) != 2 {
		t.Fatalf("count: len(occs) = %d, want 2", len(occs))
	}

	occs, err = ExpandWeekly(firstSlot(start, time.Hour), WeeklyRule{Weekdays: []int16{1}, TimeZone: "UTC"}, until)
	if err != nil {
		t.Fatalf("ExpandWeekly error: %v", err)
	}
	if len(occs) != 3 {
		t.Fatalf("horizon: len(occs) = %d, want 3", len(occs))
	}
}

func TestExpandWeekly_IntervalAndWeekdays(t *testing.T) {
	start := time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)
	count := 4

	occs, err := ExpandWeekly(firstSlot(start, time.Hour), WeeklyRule{
		Interval: 2,
		Weekdays: []int16{3, 1, 3},
		Count:    &count,
		TimeZone: "UTC",
	}, start.AddDate(1, 0, 0))
	if err != nil {
		t.Fatalf("ExpandWeekly error: %v", err)
	}

	want := []time.Time{
		time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC),
		time.Date(2026, 1, 7, 9, 0, 0, 0, time.UTC),
		time.Date(2026, 1, 19, 9, 0, 0, 0, time.UTC),
		time.Date(2026, 1, 21, 9, 0, 0, 0, time.UTC),
	}
	if len(occs) != len(want) {
		t.Fatalf("len(occs) = %d, want %d", len(occs), len(want))
	}
	for i, w := range want {
		if !occs[i].Start.Equal(w) {
			t.Fatalf("occs[%d].Start = %v, want %v", i, occs[i].Start, w)
		}
		if occs[i].Duration() != time.Hour {
			t.Fatalf("occs[%d] duration = %v, want 1h", i, occs[i].Duration())
		}
	}
}

func TestExpandWeekly_SkipsWeekdaysBeforeFirstStart(t *testing.T) {
	wednesday := time.Date(2026, 1, 7, 9, 0, 0, 0, time.UTC)
	count := 1

	occs, err := ExpandWeekly(firstSlot(wednesday, time.Hour), WeeklyRule{Weekdays: []int16{1}, Count: &count, TimeZone: "UTC"}, wednesday.AddDate(0, 1, 0))
	if err != nil {
		t.Fatalf("ExpandWeekly error: %v", err)
	}
	if len(occs) != 1 {
		t.Fatalf("len(occs) = %d, want 1", len(occs))
	}
	want := time.Date(2026, 1, 12, 9, 0, 0, 0, time.UTC)
	if !occs[0].Start.Equal(want) {
		t.Fatalf("first occurrence = %v, want %v", occs[0].Start, want)
	}
}

func TestExpandWeekly_DSTMaintainsLocalHour(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatalf("LoadLocation error: %v", err)
	}

	start := time.Date(2026, 3, 1, 9, 0, 0, 0, loc)
	count := 3

	occs, err := ExpandWeekly(firstSlot(start, time.Hour), WeeklyRule{
		Weekdays: []int16{7},
		Count:    &count,
		TimeZone: "America/New_York",
	}, start.AddDate(0, 2, 0))
	if err != nil {
		t.Fatalf("ExpandWeekly error: %v", err)
	}
	if len(occs) != 3 {
		t.Fatalf("len(occs) = %d, want 3", len(occs))
	}
	for _, o := range occs {
		if o.Start.In(loc).Hour() != 9 {
			t.Fatalf("local hour = %d, want 9 (start=%v)", o.Start.In(loc).Hour(), o.Start)
		}
		if o.Start.Location() != time.UTC {
			t.Fatalf("expected UTC start, got %v", o.Start.Location())
		}
	}
}

func TestNormalizeWeekdays_SortsAndDeduplicates(t *testing.T) {
	got, err := NormalizeWeekdays([]int16{5, 1, 5, 3})
	if err != nil {
		t.Fatalf("NormalizeWeekdays error: %v", err)
	}
	want := []int16{1, 3, 5}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
	if ISOWeekday(time.Sunday) != 7 || ISOWeekday(time.Monday) != 1 {
		t.Fatalf("ISOWeekday mapping wrong")
	}
}
