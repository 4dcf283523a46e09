package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/example/chime/internal/config"
	"github.com/example/chime/internal/domain/alarm"
	"github.com/example/chime/internal/logger"
	"github.com/example/chime/internal/notification"
	"github.com/example/chime/internal/repository/alarms"
	"github.com/example/chime/internal/schedule"
)

// Notification payloads for booked triggers.
const (
	alarmTitle  = "Alarm Ringing"
	alarmBody   = "Tap to stop or snooze"
	snoozeTitle = "Snoozed Alarm"
	snoozeBody  = "Your alarm is ringing again"
)

// ErrAlarmNotFound is returned when an operation references an unknown alarm.
var ErrAlarmNotFound = errors.New("alarm not found")

// ErrBookingFailed is returned when the notifier rejects a trigger after
// the record was already persisted.
var ErrBookingFailed = errors.New("booking failed")

// Coordinator orchestrates alarm mutations: it keeps the persisted alarm
// list and the pending notification bookings in step, one booking per
// alarm at a time.
type Coordinator struct {
	// store persists the alarm list and trigger bookkeeping.
	store *alarms.Store
	// notifier books and cancels device-level triggers.
	notifier notification.Service
	// clock supplies the current time for trigger math.
	clock schedule.Clock
	// snoozeDelay is applied when Snooze gets no explicit duration.
	snoozeDelay time.Duration
	// opTimeout bounds each operation's storage and booking calls.
	opTimeout time.Duration

	// mu serializes mutations: the alarm list is one shared document
	// rewritten wholesale, so writers need exclusive access to it.
	mu sync.Mutex
}

// Option configures coordinator behaviour.
type Option func(*Coordinator)

// WithClock overrides the wall clock, for deterministic tests.
func WithClock(clock schedule.Clock) Option {
	return func(c *Coordinator) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// WithSnoozeDelay sets the default snooze duration.
func WithSnoozeDelay(d time.Duration) Option {
	return func(c *Coordinator) {
		if d > 0 {
			c.snoozeDelay = d
		}
	}
}

// WithTimeout bounds each operation's storage and booking calls.
func WithTimeout(d time.Duration) Option {
	return func(c *Coordinator) {
		if d > 0 {
			c.opTimeout = d
		}
	}
}

// NewCoordinator wires the store and the notification service together.
func NewCoordinator(store *alarms.Store, notifier notification.Service, opts ...Option) *Coordinator {
	c := &Coordinator{
		store:       store,
		notifier:    notifier,
		clock:       schedule.System(),
		snoozeDelay: config.DefaultSnoozeMinutes * time.Minute,
		opTimeout:   config.DefaultTimeout,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// List returns a copy of every stored alarm.
func (c *Coordinator) List(ctx context.Context) ([]*alarm.Record, error) {
	ctx, cancel := c.opContext(ctx)
	defer cancel()

	c.mu.Lock()
	defer c.mu.Unlock()

	records, err := c.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	cloned := make([]*alarm.Record, len(records))
	for i, rec := range records {
		cloned[i] = rec.Clone()
	}

	return cloned, nil
}

// SaveAlarm creates or updates an alarm, books its next trigger and
// returns the relative-time confirmation text. When booking fails, the
// record is persisted without a handle and the error is surfaced so the
// caller can warn that the alarm may not fire.
func (c *Coordinator) SaveAlarm(ctx context.Context, rec *alarm.Record, isEdit bool) (string, error) {
	if err := rec.Validate(); err != nil {
		return "", err
	}

	ctx, cancel := c.opContext(ctx)
	defer cancel()

	c.mu.Lock()
	defer c.mu.Unlock()

	records, err := c.store.Load(ctx)
	if err != nil {
		return "", err
	}

	rec = rec.Clone()
	rec.IsActive = true

	now := c.clock.Now()
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = now
	}

	idx := indexOf(records, rec.ID)
	if isEdit {
		if idx < 0 {
			return "", fmt.Errorf("%w: %s", ErrAlarmNotFound, rec.ID)
		}

		// Stale booking must die before the replacement is made.
		c.cancelBooking(ctx, rec.ID, records[idx].NotificationHandle)
		rec.SnoozeHandle = records[idx].SnoozeHandle
	}

	next := schedule.NextForRecord(now, rec)

	handle, bookErr := c.notifier.Schedule(ctx, notification.Notification{
		AlarmID: rec.ID,
		Title:   alarmTitle,
		Body:    alarmBody,
		Sound:   rec.Sound,
	}, next)
	rec.NotificationHandle = handle

	if idx >= 0 {
		records[idx] = rec
	} else {
		records = append(records, rec)
	}

	if err := c.store.Save(ctx, records); err != nil {
		return "", err
	}

	if bookErr != nil {
		// Persisted without a booking: the alarm will not fire until
		// the re-check loop manages to book it.
		logger.ErrorKV(ctx, "Booking failed, alarm saved without a pending trigger", "alarm_id", rec.ID, "error", bookErr)

		return "", fmt.Errorf("%w: %w", ErrBookingFailed, bookErr)
	}

	if err := c.store.SetNextFire(ctx, rec.ID, next); err != nil {
		logger.WarnKV(ctx, "Next-fire bookkeeping failed", "alarm_id", rec.ID, "error", err)
	}

	logger.InfoKV(ctx, "Alarm booked", "alarm_id", rec.ID, "at", next)

	return schedule.ConfirmationMessage(now, next), nil
}

// Fire handles a delivered trigger for the given alarm. One-shot alarms
// deactivate; repeating alarms get a fresh booking computed from the
// current time before the transaction completes.
func (c *Coordinator) Fire(ctx context.Context, alarmID string) error {
	ctx, cancel := c.opContext(ctx)
	defer cancel()

	c.mu.Lock()
	defer c.mu.Unlock()

	records, err := c.store.Load(ctx)
	if err != nil {
		return err
	}

	idx := indexOf(records, alarmID)
	if idx < 0 {
		// Stale trigger for a deleted alarm; nothing to do.
		logger.InfoKV(ctx, "Trigger for unknown alarm ignored", "alarm_id", alarmID)

		return nil
	}

	rec := records[idx]
	if !rec.IsActive {
		logger.InfoKV(ctx, "Trigger for inactive alarm ignored", "alarm_id", alarmID)

		return nil
	}

	pending, err := c.pendingHandles(ctx)
	if err != nil {
		// Without the pending set, the snooze and primary bookings
		// cannot be told apart; leave everything as is and let the
		// next trigger or reconcile tick retry.
		return err
	}

	if rec.SnoozeHandle != "" && !pending[rec.SnoozeHandle] {
		// The snooze booking is the one that just fired.
		rec.SnoozeHandle = ""
	}

	if !rec.IsRepeating() {
		rec.IsActive = false
		rec.NotificationHandle = ""

		if err := c.store.ClearNextFire(ctx, rec.ID); err != nil {
			logger.WarnKV(ctx, "Next-fire bookkeeping failed", "alarm_id", rec.ID, "error", err)
		}

		logger.InfoKV(ctx, "One-shot alarm fired and deactivated", "alarm_id", rec.ID)

		return c.store.Save(ctx, records)
	}

	if rec.NotificationHandle != "" && pending[rec.NotificationHandle] {
		// The primary booking is still pending, so a snooze fired;
		// the next occurrence stays as booked.
		return c.store.Save(ctx, records)
	}

	next := schedule.NextForRecord(c.clock.Now(), rec)

	handle, bookErr := c.notifier.Schedule(ctx, notification.Notification{
		AlarmID: rec.ID,
		Title:   alarmTitle,
		Body:    alarmBody,
		Sound:   rec.Sound,
	}, next)
	rec.NotificationHandle = handle

	if err := c.store.Save(ctx, records); err != nil {
		return err
	}

	if bookErr != nil {
		logger.ErrorKV(ctx, "Rebooking after fire failed", "alarm_id", rec.ID, "error", bookErr)

		return fmt.Errorf("%w: %w", ErrBookingFailed, bookErr)
	}

	if err := c.store.SetNextFire(ctx, rec.ID, next); err != nil {
		logger.WarnKV(ctx, "Next-fire bookkeeping failed", "alarm_id", rec.ID, "error", err)
	}

	logger.InfoKV(ctx, "Repeating alarm fired and rebooked", "alarm_id", rec.ID, "at", next)

	return nil
}

// Dismiss stops an actively ringing alarm: pending snooze and stale
// bookings carrying the alarm id are cancelled, and one-shot alarms
// deactivate. A repeating alarm stays active and keeps the booking its
// fire transaction already created.
func (c *Coordinator) Dismiss(ctx context.Context, alarmID string) error {
	ctx, cancel := c.opContext(ctx)
	defer cancel()

	c.mu.Lock()
	defer c.mu.Unlock()

	records, err := c.store.Load(ctx)
	if err != nil {
		return err
	}

	idx := indexOf(records, alarmID)
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrAlarmNotFound, alarmID)
	}

	rec := records[idx]

	keep := ""
	if rec.IsRepeating() {
		keep = rec.NotificationHandle
	}

	pending, err := c.notifier.Pending(ctx)
	if err != nil {
		logger.WarnKV(ctx, "Pending booking scan failed", "alarm_id", alarmID, "error", err)
	}

	for _, p := range pending {
		if p.Notification.AlarmID != alarmID || p.Handle == keep {
			continue
		}

		c.cancelBooking(ctx, alarmID, p.Handle)
	}

	rec.SnoozeHandle = ""

	if !rec.IsRepeating() {
		rec.IsActive = false
		rec.NotificationHandle = ""

		if err := c.store.ClearNextFire(ctx, rec.ID); err != nil {
			logger.WarnKV(ctx, "Next-fire bookkeeping failed", "alarm_id", rec.ID, "error", err)
		}
	}

	logger.InfoKV(ctx, "Alarm dismissed", "alarm_id", alarmID)

	return c.store.Save(ctx, records)
}

// Snooze books a one-shot side trigger the given duration from now,
// leaving the alarm's primary schedule untouched. A previous snooze
// booking for the alarm is cancelled first, so only one snooze can be
// pending per alarm.
func (c *Coordinator) Snooze(ctx context.Context, alarmID string, delay time.Duration) error {
	ctx, cancel := c.opContext(ctx)
	defer cancel()

	c.mu.Lock()
	defer c.mu.Unlock()

	records, err := c.store.Load(ctx)
	if err != nil {
		return err
	}

	idx := indexOf(records, alarmID)
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrAlarmNotFound, alarmID)
	}

	rec := records[idx]

	if delay <= 0 {
		delay = c.snoozeDelay
	}

	c.cancelBooking(ctx, alarmID, rec.SnoozeHandle)

	at := c.clock.Now().Add(delay)

	handle, err := c.notifier.Schedule(ctx, notification.Notification{
		AlarmID: alarmID,
		Title:   snoozeTitle,
		Body:    snoozeBody,
		Sound:   rec.Sound,
	}, at)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBookingFailed, err)
	}

	rec.SnoozeHandle = handle

	logger.InfoKV(ctx, "Alarm snoozed", "alarm_id", alarmID, "until", at)

	return c.store.Save(ctx, records)
}

// DeleteAlarms removes the given alarms and cancels their bookings.
// Cancellation is best-effort: a stale trigger for a removed record is
// harmless, so failures are logged and ignored.
func (c *Coordinator) DeleteAlarms(ctx context.Context, ids []string) error {
	ctx, cancel := c.opContext(ctx)
	defer cancel()

	c.mu.Lock()
	defer c.mu.Unlock()

	records, err := c.store.Load(ctx)
	if err != nil {
		return err
	}

	doomed := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		doomed[id] = struct{}{}
	}

	kept := records[:0]

	for _, rec := range records {
		if _, ok := doomed[rec.ID]; !ok {
			kept = append(kept, rec)

			continue
		}

		c.cancelBooking(ctx, rec.ID, rec.NotificationHandle)
		c.cancelBooking(ctx, rec.ID, rec.SnoozeHandle)

		if err := c.store.ClearNextFire(ctx, rec.ID); err != nil {
			logger.WarnKV(ctx, "Next-fire bookkeeping failed", "alarm_id", rec.ID, "error", err)
		}

		logger.InfoKV(ctx, "Alarm deleted", "alarm_id", rec.ID)
	}

	return c.store.Save(ctx, kept)
}

// ToggleActive flips an alarm's active state and returns the new state.
// Turning off cancels pending bookings; turning on books the next
// occurrence computed at the moment of re-activation.
func (c *Coordinator) ToggleActive(ctx context.Context, alarmID string) (bool, error) {
	ctx, cancel := c.opContext(ctx)
	defer cancel()

	c.mu.Lock()
	defer c.mu.Unlock()

	records, err := c.store.Load(ctx)
	if err != nil {
		return false, err
	}

	idx := indexOf(records, alarmID)
	if idx < 0 {
		return false, fmt.Errorf("%w: %s", ErrAlarmNotFound, alarmID)
	}

	rec := records[idx]

	if rec.IsActive {
		rec.IsActive = false

		c.cancelBooking(ctx, rec.ID, rec.NotificationHandle)
		c.cancelBooking(ctx, rec.ID, rec.SnoozeHandle)
		rec.NotificationHandle = ""
		rec.SnoozeHandle = ""

		if err := c.store.ClearNextFire(ctx, rec.ID); err != nil {
			logger.WarnKV(ctx, "Next-fire bookkeeping failed", "alarm_id", rec.ID, "error", err)
		}

		logger.InfoKV(ctx, "Alarm deactivated", "alarm_id", rec.ID)

		return false, c.store.Save(ctx, records)
	}

	rec.IsActive = true
	next := schedule.NextForRecord(c.clock.Now(), rec)

	handle, bookErr := c.notifier.Schedule(ctx, notification.Notification{
		AlarmID: rec.ID,
		Title:   alarmTitle,
		Body:    alarmBody,
		Sound:   rec.Sound,
	}, next)
	rec.NotificationHandle = handle

	if err := c.store.Save(ctx, records); err != nil {
		return true, err
	}

	if bookErr != nil {
		logger.ErrorKV(ctx, "Booking failed, alarm activated without a pending trigger", "alarm_id", rec.ID, "error", bookErr)

		return true, fmt.Errorf("%w: %w", ErrBookingFailed, bookErr)
	}

	if err := c.store.SetNextFire(ctx, rec.ID, next); err != nil {
		logger.WarnKV(ctx, "Next-fire bookkeeping failed", "alarm_id", rec.ID, "error", err)
	}

	logger.InfoKV(ctx, "Alarm activated", "alarm_id", rec.ID, "at", next)

	return true, nil
}

// opContext bounds an operation so a hung storage or booking call cannot
// block it indefinitely.
func (c *Coordinator) opContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.opTimeout <= 0 {
		return context.WithCancel(ctx)
	}

	return context.WithTimeout(ctx, c.opTimeout)
}

// cancelBooking cancels a handle, swallowing failures: a booking that
// outlives its record merely fires a trigger no active alarm matches.
func (c *Coordinator) cancelBooking(ctx context.Context, alarmID, handle string) {
	if handle == "" {
		return
	}

	if err := c.notifier.Cancel(ctx, handle); err != nil {
		logger.WarnKV(ctx, "Booking cancellation failed", "alarm_id", alarmID, "handle", handle, "error", err)
	}
}

// pendingHandles snapshots the handles of every pending booking.
func (c *Coordinator) pendingHandles(ctx context.Context) (map[string]bool, error) {
	pending, err := c.notifier.Pending(ctx)
	if err != nil {
		return nil, fmt.Errorf("scan pending bookings: %w", err)
	}

	handles := make(map[string]bool, len(pending))
	for _, p := range pending {
		handles[p.Handle] = true
	}

	return handles, nil
}

// indexOf locates a record by id, or -1.
func indexOf(records []*alarm.Record, id string) int {
	for i, rec := range records {
		if rec.ID == id {
			return i
		}
	}

	return -1
}
