// Package scheduler contains the coordination core of the engine: the
// Coordinator applies alarm mutations (save, fire, dismiss, snooze,
// delete, toggle) while keeping the persisted records and the pending
// notification bookings consistent, and the Poller periodically repairs
// drift between the two.
package scheduler
