package schedule

import (
	"time"

	"github.com/example/chime/internal/domain/alarm"
)

// daysPerWeek is the length of the repeat-day search window.
const daysPerWeek = 7

// NextTrigger computes the next instant an alarm with the given trigger
// time and repeat set fires, strictly after now's minute.
//
// With an empty repeat set the alarm is one-shot: it fires today at
// hour:minute, or tomorrow when that time has already passed.
//
// With a non-empty repeat set the weekdays are searched outward from
// today. Today only qualifies while the trigger minute is still strictly
// ahead of the current minute, so an alarm rescheduled within the minute
// it just fired cannot retrigger in the same tick. When today was the
// only matching day and its time has passed, the result wraps a full
// week ahead.
//
// The function is pure: no I/O, no reads of the real clock.
func NextTrigger(now time.Time, hour, minute int, repeat []alarm.Weekday) time.Time {
	candidate := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())

	if len(repeat) == 0 {
		if !candidate.After(now) {
			candidate = candidate.AddDate(0, 0, 1)
		}

		return candidate
	}

	var (
		today        = int(now.Weekday())
		alarmMinutes = hour*60 + minute
		nowMinutes   = now.Hour()*60 + now.Minute()
	)

	for offset := 0; offset < daysPerWeek; offset++ {
		day := time.Weekday((today + offset) % daysPerWeek)
		if !containsDay(repeat, day) {
			continue
		}

		if offset == 0 {
			// Same minute is not "next"; keep searching later days.
			if alarmMinutes > nowMinutes {
				return candidate
			}

			continue
		}

		return candidate.AddDate(0, 0, offset)
	}

	// Today is the only selected day and its time has passed.
	return candidate.AddDate(0, 0, daysPerWeek)
}

// NextForRecord computes the next trigger instant for a stored alarm.
func NextForRecord(now time.Time, rec *alarm.Record) time.Time {
	return NextTrigger(now, rec.Hour, rec.Minute, rec.RepeatDays)
}

// containsDay reports whether the repeat set includes the weekday.
func containsDay(repeat []alarm.Weekday, day time.Weekday) bool {
	for _, d := range repeat {
		if d.Time() == day {
			return true
		}
	}

	return false
}
