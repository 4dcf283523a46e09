package alarm

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestRecord_Validate covers range checks and duplicate repeat days.
func TestRecord_Validate(t *testing.T) {
	t.Parallel()

	rec := &Record{
		ID:         "a1",
		Hour:       7,
		Minute:     30,
		RepeatDays: []Weekday{Monday, Wednesday, Friday},
	}
	require.NoError(t, rec.Validate())

	rec = &Record{Hour: 7, Minute: 30}
	require.ErrorIs(t, rec.Validate(), ErrIDRequired)

	rec = &Record{ID: "a1", Hour: 24}
	require.ErrorIs(t, rec.Validate(), ErrTimeOutOfRange)

	rec = &Record{ID: "a1", Minute: 60}
	require.ErrorIs(t, rec.Validate(), ErrTimeOutOfRange)

	rec = &Record{ID: "a1", RepeatDays: []Weekday{Monday, Monday}}
	require.ErrorIs(t, rec.Validate(), ErrDuplicateDay)
}

// TestRecord_RepeatsOn checks weekday membership against time.Weekday.
func TestRecord_RepeatsOn(t *testing.T) {
	t.Parallel()

	rec := &Record{ID: "a1", RepeatDays: []Weekday{Monday, Friday}}
	require.True(t, rec.IsRepeating())
	require.True(t, rec.RepeatsOn(time.Monday))
	require.True(t, rec.RepeatsOn(time.Friday))
	require.False(t, rec.RepeatsOn(time.Sunday))

	oneShot := &Record{ID: "a2"}
	require.False(t, oneShot.IsRepeating())
	require.False(t, oneShot.RepeatsOn(time.Monday))
}

// TestRecord_Clone ensures the repeat slice is not shared with the copy.
func TestRecord_Clone(t *testing.T) {
	t.Parallel()

	rec := &Record{ID: "a1", RepeatDays: []Weekday{Monday}}
	cloned := rec.Clone()

	cloned.RepeatDays[0] = Friday
	require.Equal(t, Monday, rec.RepeatDays[0])

	var nilRec *Record
	require.Nil(t, nilRec.Clone())
}

// TestWeekday_JSON verifies records carry short day names on the wire.
func TestWeekday_JSON(t *testing.T) {
	t.Parallel()

	rec := &Record{
		ID:         "a1",
		Hour:       6,
		Minute:     15,
		RepeatDays: []Weekday{Monday, Wednesday, Friday},
		Sound:      "Neon Glow",
		IsActive:   true,
	}

	data, err := json.Marshal(rec)
	require.NoError(t, err)
	require.Contains(t, string(data), `"repeat":["Mon","Wed","Fri"]`)

	var decoded Record
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Equal(t, rec.RepeatDays, decoded.RepeatDays)

	var bad Record
	require.Error(t, json.Unmarshal([]byte(`{"repeat":["Funday"]}`), &bad))
}

// TestParseWeekday checks both directions of the lookup table.
func TestParseWeekday(t *testing.T) {
	t.Parallel()

	for i, name := range []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"} {
		d, err := ParseWeekday(name)
		require.NoError(t, err)
		require.Equal(t, Weekday(i), d)
		require.Equal(t, name, d.String())
		require.Equal(t, time.Weekday(i), d.Time())
	}

	_, err := ParseWeekday("Monday")
	require.Error(t, err)
}
