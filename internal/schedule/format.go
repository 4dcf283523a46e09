package schedule

import (
	"fmt"
	"strings"
	"time"
)

// FormatUntil renders a duration as day/hour/minute components for user
// confirmation messages. Zero-valued leading components are omitted,
// but once a component is emitted the smaller ones follow, so "2 days"
// becomes "2 days 0 hours 0 minutes". A duration under a minute is
// reported as "0 minutes".
func FormatUntil(d time.Duration) string {
	if d < 0 {
		d = 0
	}

	var (
		days    = int(d / (24 * time.Hour))
		hours   = int(d/time.Hour) % 24
		minutes = int(d/time.Minute) % 60
		parts   []string
	)

	if days > 0 {
		parts = append(parts, plural(days, "day"))
	}

	if hours > 0 || len(parts) > 0 {
		parts = append(parts, plural(hours, "hour"))
	}

	parts = append(parts, plural(minutes, "minute"))

	return strings.Join(parts, " ")
}

// ConfirmationMessage builds the text shown after an alarm is booked.
func ConfirmationMessage(now, next time.Time) string {
	return fmt.Sprintf("Alarm set for %s from now", FormatUntil(next.Sub(now)))
}

// plural formats a count with its singular or plural unit.
func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", unit)
	}

	return fmt.Sprintf("%d %ss", n, unit)
}
