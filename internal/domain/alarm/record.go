package alarm

import (
	"errors"
	"fmt"
	"time"
)

// Record is a single user-defined alarm.
type Record struct {
	// ID is the stable, opaque identifier of the alarm.
	ID string `json:"id"`
	// Hour is the wall-clock hour of the trigger time, 0..23.
	Hour int `json:"hour"`
	// Minute is the wall-clock minute of the trigger time, 0..59.
	Minute int `json:"minute"`
	// RepeatDays lists the weekdays the alarm repeats on.
	// An empty set means the alarm fires once and then deactivates.
	RepeatDays []Weekday `json:"repeat"`
	// Sound names the tone to play; the engine treats it as opaque.
	Sound string `json:"sound"`
	// IsActive marks whether the alarm participates in scheduling.
	IsActive bool `json:"isActive"`
	// CreatedAt is when the alarm was saved. For one-shot alarms it
	// identifies the target calendar day for display purposes.
	CreatedAt time.Time `json:"createdAt"`
	// NotificationHandle references the pending booking for the next
	// trigger, or is empty when nothing is booked.
	NotificationHandle string `json:"notificationHandle,omitempty"`
	// SnoozeHandle references the pending snooze booking, if any.
	// Tracked separately so a second snooze can cancel the first.
	SnoozeHandle string `json:"snoozeHandle,omitempty"`
}

var (
	// ErrIDRequired is returned when an alarm has no identifier.
	ErrIDRequired = errors.New("alarm id is required")
	// ErrTimeOutOfRange is returned when hour or minute is outside the clock.
	ErrTimeOutOfRange = errors.New("alarm time out of range")
	// ErrDuplicateDay is returned when a repeat day appears twice.
	ErrDuplicateDay = errors.New("duplicate repeat day")
)

// Validate checks the record fields against their allowed ranges.
func (r *Record) Validate() error {
	if r.ID == "" {
		return ErrIDRequired
	}

	if r.Hour < 0 || r.Hour > 23 || r.Minute < 0 || r.Minute > 59 {
		return fmt.Errorf("%w: %02d:%02d", ErrTimeOutOfRange, r.Hour, r.Minute)
	}

	seen := make(map[Weekday]struct{}, len(r.RepeatDays))
	for _, d := range r.RepeatDays {
		if d < Sunday || d > Saturday {
			return fmt.Errorf("weekday out of range: %d", int(d))
		}

		if _, ok := seen[d]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicateDay, d)
		}

		seen[d] = struct{}{}
	}

	return nil
}

// IsRepeating reports whether the alarm recurs on at least one weekday.
func (r *Record) IsRepeating() bool {
	return len(r.RepeatDays) > 0
}

// RepeatsOn reports whether the alarm's repeat set contains the given weekday.
func (r *Record) RepeatsOn(day time.Weekday) bool {
	for _, d := range r.RepeatDays {
		if d.Time() == day {
			return true
		}
	}

	return false
}

// Clone returns a deep copy of the record to avoid leaking internal references.
func (r *Record) Clone() *Record {
	if r == nil {
		return nil
	}

	cloned := *r
	if r.RepeatDays != nil {
		cloned.RepeatDays = make([]Weekday, len(r.RepeatDays))
		copy(cloned.RepeatDays, r.RepeatDays)
	}

	return &cloned
}
