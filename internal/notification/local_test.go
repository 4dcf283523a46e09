package notification

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// collector records fired notifications for assertions.
type collector struct {
	mu    sync.Mutex
	fired []Notification
	ch    chan Notification
}

func newCollector() *collector {
	return &collector{ch: make(chan Notification, 8)}
}

func (c *collector) handle(_ context.Context, n Notification) {
	c.mu.Lock()
	c.fired = append(c.fired, n)
	c.mu.Unlock()

	c.ch <- n
}

// TestLocalService_ScheduleFires delivers a due booking to the handler.
func TestLocalService_ScheduleFires(t *testing.T) {
	t.Parallel()

	c := newCollector()
	svc := NewLocalService(c.handle)

	t.Cleanup(svc.Close)

	handle, err := svc.Schedule(context.Background(), Notification{AlarmID: "a1", Title: "Alarm Ringing"}, time.Now().Add(20*time.Millisecond))
	require.NoError(t, err)
	require.NotEmpty(t, handle)

	select {
	case n := <-c.ch:
		require.Equal(t, "a1", n.AlarmID)
	case <-time.After(2 * time.Second):
		t.Fatal("booking never fired")
	}

	// Fired bookings leave the pending set.
	pending, err := svc.Pending(context.Background())
	require.NoError(t, err)
	require.Empty(t, pending)
}

// TestLocalService_Cancel stops a booking before it fires.
func TestLocalService_Cancel(t *testing.T) {
	t.Parallel()

	c := newCollector()
	svc := NewLocalService(c.handle)

	t.Cleanup(svc.Close)

	ctx := context.Background()

	handle, err := svc.Schedule(ctx, Notification{AlarmID: "a1"}, time.Now().Add(time.Hour))
	require.NoError(t, err)

	require.NoError(t, svc.Cancel(ctx, handle))
	require.ErrorIs(t, svc.Cancel(ctx, handle), ErrUnknownHandle)

	pending, err := svc.Pending(ctx)
	require.NoError(t, err)
	require.Empty(t, pending)
}

// TestLocalService_PendingOrder lists bookings soonest first.
func TestLocalService_PendingOrder(t *testing.T) {
	t.Parallel()

	svc := NewLocalService(nil)

	t.Cleanup(svc.Close)

	ctx := context.Background()
	now := time.Now()

	_, err := svc.Schedule(ctx, Notification{AlarmID: "later"}, now.Add(2*time.Hour))
	require.NoError(t, err)

	_, err = svc.Schedule(ctx, Notification{AlarmID: "sooner"}, now.Add(time.Hour))
	require.NoError(t, err)

	pending, err := svc.Pending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	require.Equal(t, "sooner", pending[0].Notification.AlarmID)
	require.Equal(t, "later", pending[1].Notification.AlarmID)
}

// TestLocalService_CloseStopsBookings blocks new bookings after Close.
func TestLocalService_CloseStopsBookings(t *testing.T) {
	t.Parallel()

	svc := NewLocalService(nil)
	svc.Close()

	_, err := svc.Schedule(context.Background(), Notification{AlarmID: "a1"}, time.Now().Add(time.Hour))
	require.Error(t, err)
}
