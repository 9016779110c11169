package domain

import (
	"errors"
	"sort"
	"time"
)

// WeeklyRule describes a weekly recurring booking. Weekdays use ISO
// numbering: 1 is Monday, 7 is Sunday.
type WeeklyRule struct {
	Interval int
	Weekdays []int16
	Until    *time.Time
	Count    *int
	TimeZone string
}

// ExpandWeekly returns the concrete occurrences of rule, starting with the
// first occurrence's local wall-clock time and duration. Occurrences that
// start at or after horizon are not generated.
func ExpandWeekly(first Interval, rule WeeklyRule, horizon time.Time) ([]Interval, error) {
	duration := first.Duration()
	if duration <= 0 {
		return nil, errors.New("invalid duration")
	}
	if horizon.IsZero() {
		return nil, errors.New("horizon is required")
	}

	loc, err := time.LoadLocation(rule.TimeZone)
	if err != nil {
		return nil, errors.New("invalid time_zone")
	}

	weekdays, err := NormalizeWeekdays(rule.Weekdays)
	if err != nil {
		return nil, err
	}

	interval := rule.Interval
	if interval < 1 {
		interval = 1
	}

	firstUTC := first.Start.UTC()
	startLocal := first.Start.In(loc)
	firstMonday := mondayDateUTC(startLocal)

	out := make([]Interval, 0, 16)
	for week := 0; ; week++ {
		monday := firstMonday.AddDate(0, 0, week*interval*7)
		for _, wd := range weekdays {
			day := monday.AddDate(0, 0, weekdayOffsetFromMonday(wd))
			start := time.Date(
				day.Year(),
				day.Month(),
				day.Day(),
				startLocal.Hour(),
				startLocal.Minute(),
				startLocal.Second(),
				startLocal.Nanosecond(),
				loc,
			).UTC()
			if start.Before(firstUTC) {
				continue
			}
			if !start.Before(horizon) {
				return out, nil
			}
			if rule.Until != nil && start.After(rule.Until.UTC()) {
				return out, nil
			}

			out = append(out, Interval{Start: start, End: start.Add(duration)})
			if rule.Count != nil && len(out) >= *rule.Count {
				return out, nil
			}
		}
	}
}

// NormalizeWeekdays validates, de-duplicates and sorts ISO weekdays.
func NormalizeWeekdays(in []int16) ([]int16, error) {
	seen := make(map[int16]struct{}, len(in))
	out := make([]int16, 0, len(in))
	for _, wd := range in {
		if wd < 1 || wd > 7 {
			return nil, errors.New("invalid weekday")
		}
		if _, ok := seen[wd]; ok {
			continue
		}
		seen[wd] = struct{}{}
		out = append(out, wd)
	}
	if len(out) == 0 {
		return nil, errors.New("at least one weekday is required")
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

// ISOWeekday converts a time.Weekday to ISO numbering.
func ISOWeekday(wd time.Weekday) int16 {
	if wd == time.Sunday {
		return 7
	}
	return int16(wd)
}

func mondayDateUTC(t time.Time) time.Time {
	offset := int(ISOWeekday(t.Weekday())) - 1
	d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return d.AddDate(0, 0, -offset)
}

func weekdayOffsetFromMonday(weekday int16) int {
	return int(weekday) - 1
}
