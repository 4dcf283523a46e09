package timer

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/example/chime/internal/notification"
	"github.com/example/chime/internal/repository/kv"
)

// fixedClock always reports the same instant.
type fixedClock struct {
	t time.Time
}

func (c fixedClock) Now() time.Time {
	return c.t
}

var testNow = time.Date(2024, time.June, 11, 10, 0, 0, 0, time.Local)

// newService builds a timer service over a throwaway store and a real
// local notifier with far-future bookings.
func newService(t *testing.T, now time.Time) (*Service, *notification.LocalService) {
	t.Helper()

	notifier := notification.NewLocalService(nil)

	t.Cleanup(notifier.Close)

	store := kv.NewFileStore(filepath.Join(t.TempDir(), "store.json"))

	return NewService(store, notifier, WithClock(fixedClock{t: now})), notifier
}

// TestStartRemainingClear covers the countdown round-trip.
func TestStartRemainingClear(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, notifier := newService(t, testNow)

	// No countdown yet.
	remaining, err := svc.Remaining(ctx)
	require.NoError(t, err)
	require.Zero(t, remaining)

	end, err := svc.Start(ctx, 90*time.Second)
	require.NoError(t, err)
	require.Equal(t, testNow.Add(90*time.Second), end)

	remaining, err = svc.Remaining(ctx)
	require.NoError(t, err)
	require.Equal(t, 90*time.Second, remaining)

	pending, err := notifier.Pending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)

	require.NoError(t, svc.Clear(ctx))

	remaining, err = svc.Remaining(ctx)
	require.NoError(t, err)
	require.Zero(t, remaining)

	// Clearing cancelled the completion booking.
	pending, err = notifier.Pending(ctx)
	require.NoError(t, err)
	require.Empty(t, pending)
}

// TestStart_ReplacesRunningCountdown cancels the previous booking.
func TestStart_ReplacesRunningCountdown(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, notifier := newService(t, testNow)

	_, err := svc.Start(ctx, time.Hour)
	require.NoError(t, err)

	_, err = svc.Start(ctx, 2*time.Hour)
	require.NoError(t, err)

	pending, err := notifier.Pending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)

	remaining, err := svc.Remaining(ctx)
	require.NoError(t, err)
	require.Equal(t, 2*time.Hour, remaining)
}

// TestStart_RejectsNonPositive validates the duration.
func TestStart_RejectsNonPositive(t *testing.T) {
	t.Parallel()

	svc, _ := newService(t, testNow)

	_, err := svc.Start(context.Background(), 0)
	require.ErrorIs(t, err, ErrInvalidDuration)
}

// TestRemaining_ElapsedClampsToZero never reports negative time.
func TestRemaining_ElapsedClampsToZero(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, _ := newService(t, testNow)

	_, err := svc.Start(ctx, time.Minute)
	require.NoError(t, err)

	// Move the clock past the end.
	svc.clock = fixedClock{t: testNow.Add(5 * time.Minute)}

	remaining, err := svc.Remaining(ctx)
	require.NoError(t, err)
	require.Zero(t, remaining)
}
