package booking

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"clinicbook/internal/domain"
	"clinicbook/internal/metrics"
	"clinicbook/internal/store"
)

// SeriesLookahead bounds how far a recurring series may reach past its
// first occurrence.
const SeriesLookahead = 180 * 24 * time.Hour

type SeriesInput struct {
	PatientID  uuid.UUID
	DoctorID   uuid.UUID
	RoomName   string
	StartsAt   time.Time
	FinishesAt time.Time
	Rule       WeeklyRuleInput
}

type WeeklyRuleInput struct {
	Interval int
	Weekdays []int16
	Until    *time.Time
	Count    *int
	TimeZone string
}

// CreateSeries books every occurrence of a weekly rule or none of them.
func (s *Service) CreateSeries(ctx context.Context, in SeriesInput) ([]domain.Appointment, error) {
	occurrences, err := s.expandSeries(in)
	if err != nil {
		s.metrics.IncAdmission(outcome(err), kindSeries)
		return nil, err
	}

	if i, j, ok := s.checker.FirstMutualConflict(occurrences); ok {
		s.metrics.IncAdmission(outcome(ErrSchedulingConflict), kindSeries)
		return nil, fmt.Errorf("occurrences %d and %d overlap: %w", i, j, ErrSchedulingConflict)
	}

	out := make([]domain.Appointment, 0, len(occurrences))
	err = s.admit(ctx, kindSeries, func(ctx context.Context, tx store.BookingTx) error {
		out = out[:0]
		for i, occ := range occurrences {
			if err := s.ensureFree(ctx, tx, occ); err != nil {
				return fmt.Errorf("occurrence %d: %w", i, err)
			}
			inserted, err := tx.InsertAppointment(ctx, occ)
			if err != nil {
				return err
			}
			out = append(out, inserted)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.metrics.IncAdmission(metrics.OutcomeAdmitted, kindSeries)
	return out, nil
}

func (s *Service) expandSeries(in SeriesInput) ([]domain.Appointment, error) {
	first, err := s.candidate(in.PatientID, in.DoctorID, in.RoomName, in.StartsAt, in.FinishesAt)
	if err != nil {
		return nil, err
	}
	iv := first.Interval()
	if iv.Inverted() {
		return nil, malformed("finishes_at must be after starts_at")
	}
	if iv.Duration() > 24*time.Hour {
		return nil, validationError("duration too long")
	}

	tz := strings.TrimSpace(in.Rule.TimeZone)
	if tz == "" {
		return nil, validationError("time_zone is required")
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, validationError("invalid time_zone")
	}

	interval := in.Rule.Interval
	if interval == 0 {
		interval = 1
	}
	if interval < 1 {
		return nil, validationError("interval must be at least 1")
	}

	weekdays := in.Rule.Weekdays
	if len(weekdays) == 0 {
		weekdays = []int16{domain.ISOWeekday(iv.Start.In(loc).Weekday())}
	}
	weekdays, err = domain.NormalizeWeekdays(weekdays)
	if err != nil {
		return nil, validationError(err.Error())
	}

	var until *time.Time
	if in.Rule.Until != nil {
		u := in.Rule.Until.UTC()
		if u.Before(iv.Start) {
			return nil, validationError("until must be after starts_at")
		}
		until = &u
	}
	if in.Rule.Count != nil && *in.Rule.Count < 1 {
		return nil, validationError("count must be at least 1")
	}
	if until == nil && in.Rule.Count == nil {
		return nil, validationError("until or count is required")
	}

	horizon := iv.Start.Add(SeriesLookahead)
	if in.Rule.Count == nil && until.After(horizon) {
		return nil, validationError("until must be within 180 days of starts_at")
	}

	intervals, err := domain.ExpandWeekly(iv, domain.WeeklyRule{
		Interval: interval,
		Weekdays: weekdays,
		Until:    until,
		Count:    in.Rule.Count,
		TimeZone: tz,
	}, horizon.Add(time.Nanosecond))
	if err != nil {
		return nil, validationError(err.Error())
	}
	if len(intervals) == 0 {
		return nil, validationError("recurrence rule produces no occurrences")
	}
	if in.Rule.Count != nil && *in.Rule.Count > len(intervals) {
		if until != nil && until.Before(horizon) {
			return nil, validationError("count exceeds occurrences available before until")
		}
		return nil, validationError("count exceeds occurrences available within 180 days of starts_at")
	}

	out := make([]domain.Appointment, 0, len(intervals))
	for _, occ := range intervals {
		a := first
		a.StartsAt = occ.Start
		a.FinishesAt = occ.End
		out = append(out, a)
	}
	return out, nil
}
