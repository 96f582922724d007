package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/teambition/rrule-go"
)

// MaxPeriod is the last class period of a school day
const MaxPeriod = 7

// TimeSlot is one "Day-Period" cell of the weekly timetable
type TimeSlot struct {
	Day    time.Weekday
	Period int
}

// dayNames maps accepted day tokens to weekdays.
// The original sheet uses single Korean characters.
var dayNames = map[string]time.Weekday{
	"mon": time.Monday, "monday": time.Monday, "월": time.Monday,
	"tue": time.Tuesday, "tuesday": time.Tuesday, "화": time.Tuesday,
	"wed": time.Wednesday, "wednesday": time.Wednesday, "수": time.Wednesday,
	"thu": time.Thursday, "thursday": time.Thursday, "목": time.Thursday,
	"fri": time.Friday, "friday": time.Friday, "금": time.Friday,
	"sat": time.Saturday, "saturday": time.Saturday, "토": time.Saturday,
	"sun": time.Sunday, "sunday": time.Sunday, "일": time.Sunday,
}

var weekdayRRule = map[time.Weekday]rrule.Weekday{
	time.Monday:    rrule.MO,
	time.Tuesday:   rrule.TU,
	time.Wednesday: rrule.WE,
	time.Thursday:  rrule.TH,
	time.Friday:    rrule.FR,
	time.Saturday:  rrule.SA,
	time.Sunday:    rrule.SU,
}

// ParseDay converts a day token ("Mon", "monday", "월", "월요일") to a weekday
func ParseDay(s string) (time.Weekday, error) {
	token := strings.ToLower(strings.TrimSpace(s))
	token = strings.TrimSuffix(token, "요일")
	day, ok := dayNames[token]
	if !ok {
		return 0, fmt.Errorf("unknown day %q", s)
	}
	return day, nil
}

// ParseTimeSlot parses a "Day-Period" slot such as "Mon-1" or "월-3"
func ParseTimeSlot(s string) (TimeSlot, error) {
	dayPart, periodPart, ok := strings.Cut(strings.TrimSpace(s), "-")
	if !ok {
		return TimeSlot{}, fmt.Errorf("slot %q is not in Day-Period form", s)
	}

	day, err := ParseDay(dayPart)
	if err != nil {
		return TimeSlot{}, fmt.Errorf("invalid slot %q: %w", s, err)
	}

	period, err := strconv.Atoi(strings.TrimSpace(periodPart))
	if err != nil {
		return TimeSlot{}, fmt.Errorf("invalid period in slot %q: %w", s, err)
	}
	if period < 1 || period > MaxPeriod {
		return TimeSlot{}, fmt.Errorf("period %d in slot %q out of range 1-%d", period, s, MaxPeriod)
	}

	return TimeSlot{Day: day, Period: period}, nil
}

// NextOccurrence returns the first date strictly after from that falls on the given day.
// day accepts any token ParseDay understands.
func NextOccurrence(day string, from time.Time) (time.Time, error) {
	weekday, err := ParseDay(day)
	if err != nil {
		return time.Time{}, err
	}

	start := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, from.Location())
	rule, err := rrule.NewRRule(rrule.ROption{
		Freq:      rrule.WEEKLY,
		Byweekday: []rrule.Weekday{weekdayRRule[weekday]},
		Dtstart:   start,
		Count:     2,
	})
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to build weekly rule: %w", err)
	}

	next := rule.After(start, false)
	if next.IsZero() {
		return time.Time{}, fmt.Errorf("no occurrence of %s after %s", weekday, start.Format("2006-01-02"))
	}
	return next, nil
}
