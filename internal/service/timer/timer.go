package timer

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/example/chime/internal/logger"
	"github.com/example/chime/internal/notification"
	"github.com/example/chime/internal/repository/kv"
	"github.com/example/chime/internal/schedule"
	"github.com/example/chime/internal/service/scheduler"
)

const (
	// endKey stores the countdown's end instant as epoch milliseconds.
	endKey = "currentTimerEnd"
	// handleKey stores the completion booking's handle so a cleared
	// timer can cancel it.
	handleKey = "currentTimerNotification"

	timerTitle = "Timer Completed"
	timerBody  = "Your countdown has finished"
)

// ErrInvalidDuration is returned when starting a timer with no length.
var ErrInvalidDuration = errors.New("timer duration must be positive")

// Service runs the single countdown timer: one end instant persisted in
// the store, one completion booking with the notifier. Starting a new
// countdown replaces the previous one.
type Service struct {
	// kv persists the end instant and booking handle.
	kv kv.Store
	// notifier books the completion notification.
	notifier notification.Service
	// clock supplies the current time.
	clock schedule.Clock

	// mu serializes countdown mutations.
	mu sync.Mutex
}

// Option configures timer service behaviour.
type Option func(*Service)

// WithClock overrides the wall clock, for deterministic tests.
func WithClock(clock schedule.Clock) Option {
	return func(s *Service) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// NewService wires the store and the notification service together.
func NewService(store kv.Store, notifier notification.Service, opts ...Option) *Service {
	s := &Service{
		kv:       store,
		notifier: notifier,
		clock:    schedule.System(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start begins a countdown of the given length and returns its end
// instant. A running countdown is replaced: its booking is cancelled
// best-effort before the new one is made.
func (s *Service) Start(ctx context.Context, d time.Duration) (time.Time, error) {
	if d <= 0 {
		return time.Time{}, ErrInvalidDuration
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.cancelBooking(ctx)

	end := s.clock.Now().Add(d)

	if err := s.kv.Set(ctx, endKey, strconv.FormatInt(end.UnixMilli(), 10)); err != nil {
		return time.Time{}, fmt.Errorf("persist timer end: %w", err)
	}

	handle, err := s.notifier.Schedule(ctx, notification.Notification{
		Title: timerTitle,
		Body:  timerBody,
		Sound: "default",
	}, end)
	if err != nil {
		// The countdown itself still runs; only its notification is gone.
		logger.ErrorKV(ctx, "Timer completion booking failed", "error", err)

		return end, fmt.Errorf("%w: %w", scheduler.ErrBookingFailed, err)
	}

	if err := s.kv.Set(ctx, handleKey, handle); err != nil {
		logger.WarnKV(ctx, "Timer handle bookkeeping failed", "error", err)
	}

	logger.InfoKV(ctx, "Timer started", "ends_at", end)

	return end, nil
}

// Remaining reports how much of the countdown is left, zero when no
// countdown is running or it already finished.
func (s *Service) Remaining(ctx context.Context) (time.Duration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := s.kv.Get(ctx, endKey)
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return 0, nil
		}

		return 0, fmt.Errorf("read timer end: %w", err)
	}

	millis, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("decode timer end: %w", err)
	}

	remaining := time.UnixMilli(millis).Sub(s.clock.Now())
	if remaining < 0 {
		remaining = 0
	}

	return remaining, nil
}

// Clear stops the countdown and cancels its completion booking.
func (s *Service) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cancelBooking(ctx)

	if err := s.kv.Delete(ctx, endKey); err != nil {
		return fmt.Errorf("clear timer end: %w", err)
	}

	logger.Info(ctx, "Timer cleared")

	return nil
}

// cancelBooking cancels the stored completion booking, best-effort.
func (s *Service) cancelBooking(ctx context.Context) {
	handle, err := s.kv.Get(ctx, handleKey)
	if err != nil {
		if !errors.Is(err, kv.ErrNotFound) {
			logger.WarnKV(ctx, "Timer handle lookup failed", "error", err)
		}

		return
	}

	if err := s.notifier.Cancel(ctx, handle); err != nil {
		logger.WarnKV(ctx, "Timer booking cancellation failed", "handle", handle, "error", err)
	}

	if err := s.kv.Delete(ctx, handleKey); err != nil {
		logger.WarnKV(ctx, "Timer handle bookkeeping failed", "error", err)
	}
}
