package scheduler

import (
	"context"
	"time"

	"github.com/example/chime/internal/logger"
	"github.com/example/chime/internal/notification"
	"github.com/example/chime/internal/schedule"
)

// Poller periodically reconciles the persisted alarms with the pending
// bookings, the in-process counterpart of the app's minute re-check.
type Poller struct {
	// coordinator performs the reconciliation work each tick.
	coordinator *Coordinator
	// interval is the tick period.
	interval time.Duration
}

// NewPoller creates a poller driving the coordinator at the given interval.
func NewPoller(coordinator *Coordinator, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = time.Minute
	}

	return &Poller{
		coordinator: coordinator,
		interval:    interval,
	}
}

// Run ticks until the context is cancelled.
func (p *Poller) Run(ctx context.Context) error {
	ctx = logger.WithName(ctx, "poller")

	logger.InfoKV(ctx, "Reconciliation loop started", "interval", p.interval.String())

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info(ctx, "Context canceled, exiting")

			return nil
		case <-ticker.C:
			if err := p.coordinator.Reconcile(ctx); err != nil {
				logger.ErrorKV(ctx, "Reconciliation failed", "error", err)
			}
		}
	}
}

// Reconcile repairs drift between the store and the notifier: active
// alarms whose booking is missing are rebooked, and ones matching the
// current minute with nothing pending are fired directly.
func (c *Coordinator) Reconcile(ctx context.Context) error {
	ctx, cancel := c.opContext(ctx)
	defer cancel()

	toFire, err := c.rebookMissing(ctx)
	if err != nil {
		return err
	}

	for _, id := range toFire {
		if err := c.Fire(ctx, id); err != nil {
			logger.ErrorKV(ctx, "Fire during reconciliation failed", "alarm_id", id, "error", err)
		}
	}

	return nil
}

// rebookMissing holds the write lock while repairing bookings and returns
// the alarms that must fire right now.
func (c *Coordinator) rebookMissing(ctx context.Context) ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	records, err := c.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	pending, err := c.pendingHandles(ctx)
	if err != nil {
		return nil, err
	}

	now := c.clock.Now()

	var (
		toFire  []string
		changed bool
	)

	for _, rec := range records {
		// A handle the notifier no longer knows is as good as none:
		// in-process bookings do not survive a restart.
		if !rec.IsActive || pending[rec.NotificationHandle] {
			continue
		}

		if rec.NotificationHandle != "" {
			rec.NotificationHandle = ""
			changed = true
		}

		if rec.SnoozeHandle != "" && !pending[rec.SnoozeHandle] {
			rec.SnoozeHandle = ""
			changed = true
		}

		if rec.Hour == now.Hour() && rec.Minute == now.Minute() &&
			(!rec.IsRepeating() || rec.RepeatsOn(now.Weekday())) {
			toFire = append(toFire, rec.ID)

			continue
		}

		next := schedule.NextForRecord(now, rec)

		handle, bookErr := c.notifier.Schedule(ctx, notification.Notification{
			AlarmID: rec.ID,
			Title:   alarmTitle,
			Body:    alarmBody,
			Sound:   rec.Sound,
		}, next)
		if bookErr != nil {
			logger.ErrorKV(ctx, "Rebooking failed", "alarm_id", rec.ID, "error", bookErr)

			continue
		}

		rec.NotificationHandle = handle
		changed = true

		if err := c.store.SetNextFire(ctx, rec.ID, next); err != nil {
			logger.WarnKV(ctx, "Next-fire bookkeeping failed", "alarm_id", rec.ID, "error", err)
		}

		logger.InfoKV(ctx, "Missing booking repaired", "alarm_id", rec.ID, "at", next)
	}

	if changed {
		if err := c.store.Save(ctx, records); err != nil {
			return nil, err
		}
	}

	return toFire, nil
}
