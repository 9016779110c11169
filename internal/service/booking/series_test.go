package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"clinicbook/internal/domain"
)

func seriesInput(start time.Time, d time.Duration, rule WeeklyRuleInput) SeriesInput {
	return SeriesInput{
		PatientID:  patient1,
		DoctorID:   doctor1,
		RoomName:   "Dermatology",
		StartsAt:   start,
		FinishesAt: start.Add(d),
		Rule:       rule,
	}
}

func intPtr(v int) *int { return &v }

func TestServiceCreateSeries_BooksEveryOccurrence(t *testing.T) {
	ctx := context.Background()
	svc, s := newMemoryService(Options{})

	// 2023-04-24 is a Monday.
	got, err := svc.CreateSeries(ctx, seriesInput(at(24, 9, 0), time.Hour, WeeklyRuleInput{
		Weekdays: []int16{1, 3},
		Count:    intPtr(4),
		TimeZone: "UTC",
	}))
	if err != nil {
		t.Fatalf("CreateSeries error: %v", err)
	}
	if len(got) != 4 || s.Len() != 4 {
		t.Fatalf("len = %d, want 4", len(got))
	}
	want := []time.Time{at(24, 9, 0), at(26, 9, 0), time.Date(2023, 5, 1, 9, 0, 0, 0, time.UTC), time.Date(2023, 5, 3, 9, 0, 0, 0, time.UTC)}
	for i, a := range got {
		if !a.StartsAt.Equal(want[i]) {
			t.Fatalf("occurrence %d start = %v, want %v", i, a.StartsAt, want[i])
		}
		if a.Interval().Duration() != time.Hour {
			t.Fatalf("occurrence %d duration = %v", i, a.Interval().Duration())
		}
	}
}

func TestServiceCreateSeries_AllOrNothing(t *testing.T) {
	ctx := context.Background()
	svc, s := newMemoryService(Options{})

	// Blocks the third weekly occurrence only.
	if _, err := svc.Create(ctx, input(time.Date(2023, 5, 8, 9, 30, 0, 0, time.UTC), time.Date(2023, 5, 8, 10, 30, 0, 0, time.UTC))); err != nil {
		t.Fatalf("Create error: %v", err)
	}

	_, err := svc.CreateSeries(ctx, seriesInput(at(24, 9, 0), time.Hour, WeeklyRuleInput{
		Count:    intPtr(3),
		TimeZone: "UTC",
	}))
	if !errors.Is(err, ErrSchedulingConflict) {
		t.Fatalf("err = %v, want %v", err, ErrSchedulingConflict)
	}
	if s.Len() != 1 {
		t.Fatalf("store len = %d, want 1 (no partial series)", s.Len())
	}
}

func TestServiceCreateSeries_Validation(t *testing.T) {
	svc := NewService(&fakeRepo{}, Options{})
	start := at(24, 9, 0)

	cases := []struct {
		name string
		in   SeriesInput
		want error
	}{
		{"empty interval", seriesInput(start, 0, WeeklyRuleInput{Count: intPtr(1), TimeZone: "UTC"}), ErrMalformedInterval},
		{"missing time zone", seriesInput(start, time.Hour, WeeklyRuleInput{Count: intPtr(1)}), ErrInvalidInput},
		{"bad time zone", seriesInput(start, time.Hour, WeeklyRuleInput{Count: intPtr(1), TimeZone: "Mars/Base"}), ErrInvalidInput},
		{"no bound", seriesInput(start, time.Hour, WeeklyRuleInput{TimeZone: "UTC"}), ErrInvalidInput},
		{"bad weekday", seriesInput(start, time.Hour, WeeklyRuleInput{Weekdays: []int16{8}, Count: intPtr(1), TimeZone: "UTC"}), ErrInvalidInput},
		{"too long", seriesInput(start, 25*time.Hour, WeeklyRuleInput{Count: intPtr(1), TimeZone: "UTC"}), ErrInvalidInput},
		{"until beyond lookahead", seriesInput(start, time.Hour, WeeklyRuleInput{Until: timePtr(start.Add(SeriesLookahead + time.Hour)), TimeZone: "UTC"}), ErrInvalidInput},
		{"count beyond lookahead", seriesInput(start, time.Hour, WeeklyRuleInput{Count: intPtr(100), TimeZone: "UTC"}), ErrInvalidInput},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateSeries(context.Background(), tc.in)
			if !errors.Is(err, tc.want) {
				t.Fatalf("err = %v, want %v", err, tc.want)
			}
			var vErr *ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("error type = %T, want *ValidationError", err)
			}
		})
	}
}

func TestServiceCreateSeries_UntilBound(t *testing.T) {
	ctx := context.Background()
	svc, _ := newMemoryService(Options{})
	start := at(24, 9, 0)
	until := start.Add(14 * 24 * time.Hour)

	got, err := svc.CreateSeries(ctx, seriesInput(start, time.Hour, WeeklyRuleInput{
		Until:    &until,
		TimeZone: "Europe/Berlin",
	}))
	if err != nil {
		t.Fatalf("CreateSeries error: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	for _, a := range got {
		if a.StartsAt.After(until) {
			t.Fatalf("occurrence %v after until %v", a.StartsAt, until)
		}
		var zero domain.Appointment
		if a.ID == zero.ID {
			t.Fatalf("occurrence without id")
		}
	}
}

func timePtr(t time.Time) *time.Time { return &t }
