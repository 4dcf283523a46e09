package notification

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/example/chime/internal/logger"
)

// booking tracks one pending trigger inside the local service.
type booking struct {
	// notification is the payload delivered on fire.
	notification Notification
	// at is the instant the booking fires.
	at time.Time
	// timer drives delivery.
	timer *time.Timer
}

// LocalService delivers bookings in-process with one timer per booking.
// Handles are opaque UUIDs, matching the at-most-one-pending-trigger
// bookkeeping the coordinator performs per alarm.
type LocalService struct {
	// handler receives fired notifications.
	handler Handler

	// mu protects bookings and closed.
	mu sync.Mutex
	// bookings maps handle to pending booking.
	bookings map[string]*booking
	// closed blocks new bookings after Close.
	closed bool
}

// NewLocalService creates a service that delivers fired bookings to handler.
// A nil handler drops deliveries.
func NewLocalService(handler Handler) *LocalService {
	if handler == nil {
		handler = func(context.Context, Notification) {}
	}

	return &LocalService{
		handler:  handler,
		bookings: make(map[string]*booking),
	}
}

// Schedule books a trigger at the given instant and returns its handle.
// An instant in the past fires immediately.
func (s *LocalService) Schedule(ctx context.Context, n Notification, at time.Time) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return "", context.Canceled
	}

	handle := uuid.NewString()

	delay := time.Until(at)
	if delay < 0 {
		delay = 0
	}

	b := &booking{
		notification: n,
		at:           at,
	}
	b.timer = time.AfterFunc(delay, func() {
		s.fire(handle)
	})
	s.bookings[handle] = b

	logger.DebugKV(ctx, "Notification booked", "handle", handle, "alarm_id", n.AlarmID, "at", at)

	return handle, nil
}

// Cancel stops a pending booking by handle.
func (s *LocalService) Cancel(ctx context.Context, handle string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.bookings[handle]
	if !ok {
		return ErrUnknownHandle
	}

	b.timer.Stop()
	delete(s.bookings, handle)

	logger.DebugKV(ctx, "Notification cancelled", "handle", handle, "alarm_id", b.notification.AlarmID)

	return nil
}

// Pending returns every not-yet-fired booking, soonest first.
func (s *LocalService) Pending(_ context.Context) ([]Pending, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pending := make([]Pending, 0, len(s.bookings))
	for handle, b := range s.bookings {
		pending = append(pending, Pending{
			Handle:       handle,
			Notification: b.notification,
			At:           b.at,
		})
	}

	sort.Slice(pending, func(i, j int) bool {
		return pending[i].At.Before(pending[j].At)
	})

	return pending, nil
}

// Close stops every pending timer and blocks new bookings.
func (s *LocalService) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	for handle, b := range s.bookings {
		b.timer.Stop()
		delete(s.bookings, handle)
	}
}

// fire delivers one booking and forgets it.
func (s *LocalService) fire(handle string) {
	s.mu.Lock()

	b, ok := s.bookings[handle]
	if ok {
		delete(s.bookings, handle)
	}

	s.mu.Unlock()

	if !ok {
		// Cancelled between timer expiry and delivery.
		return
	}

	s.handler(context.Background(), b.notification)
}
