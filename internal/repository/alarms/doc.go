// Package alarms persists the alarm list as a single serialized document
// plus per-alarm next-trigger bookkeeping, layered over the key-value store.
package alarms
