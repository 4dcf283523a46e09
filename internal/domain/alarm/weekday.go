package alarm

import (
	"encoding/json"
	"fmt"
	"time"
)

// Weekday is a day-of-week tag on an alarm's repeat set.
// Numbering follows time.Weekday (0 = Sunday .. 6 = Saturday).
type Weekday int

// Weekday tags in store order.
const (
	Sunday Weekday = iota
	Monday
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
)

// weekdayNames is the fixed index-to-name table used on the wire and in the store.
//
//nolint:gochecknoglobals // Fixed lookup table.
var weekdayNames = [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// weekdayIndexes is the reverse name-to-index table.
//
//nolint:gochecknoglobals // Fixed lookup table.
var weekdayIndexes = map[string]Weekday{
	"Sun": Sunday,
	"Mon": Monday,
	"Tue": Tuesday,
	"Wed": Wednesday,
	"Thu": Thursday,
	"Fri": Friday,
	"Sat": Saturday,
}

// ParseWeekday converts a short day name ("Mon") into a Weekday.
func ParseWeekday(s string) (Weekday, error) {
	d, ok := weekdayIndexes[s]
	if !ok {
		return 0, fmt.Errorf("unknown weekday %q", s)
	}

	return d, nil
}

// String returns the short day name.
func (d Weekday) String() string {
	if d < Sunday || d > Saturday {
		return fmt.Sprintf("Weekday(%d)", int(d))
	}

	return weekdayNames[d]
}

// Time converts the tag into the standard library weekday.
func (d Weekday) Time() time.Weekday {
	return time.Weekday(d)
}

// MarshalJSON encodes the weekday as its short name.
func (d Weekday) MarshalJSON() ([]byte, error) {
	if d < Sunday || d > Saturday {
		return nil, fmt.Errorf("weekday out of range: %d", int(d))
	}

	return json.Marshal(weekdayNames[d])
}

// UnmarshalJSON decodes a short day name into the weekday.
func (d *Weekday) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return fmt.Errorf("decode weekday: %w", err)
	}

	parsed, err := ParseWeekday(name)
	if err != nil {
		return err
	}

	*d = parsed

	return nil
}
