package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/example/chime/internal/domain/alarm"
)

// tuesday is a fixed reference point: Tuesday, 2024-06-11 10:00 local.
var tuesday = time.Date(2024, time.June, 11, 10, 0, 0, 0, time.Local)

// TestNextTrigger_OneShot verifies one-shot alarms fire today before the
// trigger time and tomorrow at or after it.
func TestNextTrigger_OneShot(t *testing.T) {
	t.Parallel()

	// Before the alarm time: today.
	got := NextTrigger(tuesday, 18, 30, nil)
	require.Equal(t, time.Date(2024, time.June, 11, 18, 30, 0, 0, time.Local), got)

	// After the alarm time: tomorrow.
	got = NextTrigger(tuesday, 8, 0, nil)
	require.Equal(t, time.Date(2024, time.June, 12, 8, 0, 0, 0, time.Local), got)

	// Exactly at the alarm time: tomorrow, never the same instant.
	atTrigger := time.Date(2024, time.June, 11, 10, 0, 0, 0, time.Local)
	got = NextTrigger(atTrigger, 10, 0, nil)
	require.Equal(t, time.Date(2024, time.June, 12, 10, 0, 0, 0, time.Local), got)
}

// TestNextTrigger_Repeating walks the weekday search from a Tuesday.
func TestNextTrigger_Repeating(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		hour   int
		minute int
		repeat []alarm.Weekday
		want   time.Time
	}{
		{
			name:   "today before trigger time",
			hour:   18,
			minute: 30,
			repeat: []alarm.Weekday{alarm.Tuesday},
			want:   time.Date(2024, time.June, 11, 18, 30, 0, 0, time.Local),
		},
		{
			name:   "mon wed fri at 08:00 lands on wednesday",
			hour:   8,
			minute: 0,
			repeat: []alarm.Weekday{alarm.Monday, alarm.Wednesday, alarm.Friday},
			want:   time.Date(2024, time.June, 12, 8, 0, 0, 0, time.Local),
		},
		{
			name:   "only today and time passed wraps a week",
			hour:   8,
			minute: 0,
			repeat: []alarm.Weekday{alarm.Tuesday},
			want:   time.Date(2024, time.June, 18, 8, 0, 0, 0, time.Local),
		},
		{
			name:   "yesterday's day waits six days",
			hour:   9,
			minute: 15,
			repeat: []alarm.Weekday{alarm.Monday},
			want:   time.Date(2024, time.June, 17, 9, 15, 0, 0, time.Local),
		},
		{
			name:   "every day after trigger time goes to tomorrow",
			hour:   6,
			minute: 0,
			repeat: []alarm.Weekday{alarm.Sunday, alarm.Monday, alarm.Tuesday, alarm.Wednesday, alarm.Thursday, alarm.Friday, alarm.Saturday},
			want:   time.Date(2024, time.June, 12, 6, 0, 0, 0, time.Local),
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got := NextTrigger(tuesday, tc.hour, tc.minute, tc.repeat)
			require.Equal(t, tc.want, got)
		})
	}
}

// TestNextTrigger_SameMinuteNotNext pins the tie-break: a repeating alarm
// whose trigger minute equals the current minute does not fire again today.
func TestNextTrigger_SameMinuteNotNext(t *testing.T) {
	t.Parallel()

	// 10:00:30 on Tuesday, alarm at 10:00 every Tuesday: next week, not now.
	now := time.Date(2024, time.June, 11, 10, 0, 30, 0, time.Local)
	got := NextTrigger(now, 10, 0, []alarm.Weekday{alarm.Tuesday})
	require.Equal(t, time.Date(2024, time.June, 18, 10, 0, 0, 0, time.Local), got)

	// With another day selected, the search moves there instead.
	got = NextTrigger(now, 10, 0, []alarm.Weekday{alarm.Tuesday, alarm.Thursday})
	require.Equal(t, time.Date(2024, time.June, 13, 10, 0, 0, 0, time.Local), got)
}

// TestNextTrigger_AlwaysFuture sweeps every weekday/hour combination and
// asserts the result is strictly after now.
func TestNextTrigger_AlwaysFuture(t *testing.T) {
	t.Parallel()

	for day := alarm.Sunday; day <= alarm.Saturday; day++ {
		for hour := 0; hour < 24; hour += 3 {
			got := NextTrigger(tuesday, hour, 0, []alarm.Weekday{day})
			require.True(t, got.After(tuesday), "day=%s hour=%d got=%s", day, hour, got)
			require.Equal(t, day.Time(), got.Weekday())
		}
	}
}

// TestNextForRecord routes record fields into the calculator.
func TestNextForRecord(t *testing.T) {
	t.Parallel()

	rec := &alarm.Record{
		ID:         "a1",
		Hour:       18,
		Minute:     30,
		RepeatDays: []alarm.Weekday{alarm.Tuesday},
	}

	require.Equal(t,
		NextTrigger(tuesday, 18, 30, rec.RepeatDays),
		NextForRecord(tuesday, rec),
	)
}
