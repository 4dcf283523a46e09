// Package timer implements the single countdown timer: start, remaining
// and clear, with the end instant persisted so the countdown survives a
// restart and a completion notification booked with the notifier.
package timer
