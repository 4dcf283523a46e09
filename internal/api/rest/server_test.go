package rest

import (
	"context"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/example/chime/internal/domain/alarm"
	"github.com/example/chime/internal/notification"
	"github.com/example/chime/internal/repository/alarms"
	"github.com/example/chime/internal/repository/kv"
	"github.com/example/chime/internal/service/scheduler"
	"github.com/example/chime/internal/service/timer"
)

// newTestClient stands up a full engine behind an httptest server and
// returns a client pointed at it.
func newTestClient(t *testing.T) *Client {
	t.Helper()

	backend := kv.NewFileStore(filepath.Join(t.TempDir(), "alarms.json"))
	notifier := notification.NewLocalService(nil)
	t.Cleanup(notifier.Close)

	coordinator := scheduler.NewCoordinator(alarms.NewStore(backend), notifier)
	countdown := timer.NewService(backend, notifier)

	srv := httptest.NewServer(NewServer(coordinator, countdown).Router())
	t.Cleanup(srv.Close)

	client, err := NewClient(srv.URL)
	require.NoError(t, err)

	return client
}

func TestClient_SaveAndList(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	client := newTestClient(t)

	records, err := client.List(ctx)
	require.NoError(t, err)
	require.Empty(t, records)

	msg, err := client.Save(ctx, &alarm.Record{
		ID:       "a1",
		Hour:     7,
		Minute:   30,
		IsActive: true,
	}, false)
	require.NoError(t, err)
	require.Contains(t, msg, "Alarm set for")

	records, err = client.List(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, "a1", records[0].ID)
	require.NotEmpty(t, records[0].NotificationHandle)
}

func TestClient_SaveRejectsInvalidRecord(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	client := newTestClient(t)

	_, err := client.Save(ctx, &alarm.Record{ID: "a1", Hour: 25}, false)
	require.ErrorContains(t, err, "server returned 400")
}

func TestClient_EditUnknownAlarmIs404(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	client := newTestClient(t)

	_, err := client.Save(ctx, &alarm.Record{ID: "ghost", Hour: 7}, true)
	require.ErrorContains(t, err, "server returned 404")
}

func TestClient_ToggleAndDelete(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	client := newTestClient(t)

	_, err := client.Save(ctx, &alarm.Record{ID: "a1", Hour: 7, IsActive: true}, false)
	require.NoError(t, err)

	active, err := client.Toggle(ctx, "a1")
	require.NoError(t, err)
	require.False(t, active)

	active, err = client.Toggle(ctx, "a1")
	require.NoError(t, err)
	require.True(t, active)

	require.NoError(t, client.Delete(ctx, []string{"a1"}))

	records, err := client.List(ctx)
	require.NoError(t, err)
	require.Empty(t, records)
}

func TestClient_DismissAndSnooze(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	client := newTestClient(t)

	_, err := client.Save(ctx, &alarm.Record{ID: "a1", Hour: 7, IsActive: true}, false)
	require.NoError(t, err)

	require.NoError(t, client.Snooze(ctx, "a1", 5))
	require.NoError(t, client.Dismiss(ctx, "a1"))

	require.ErrorContains(t, client.Dismiss(ctx, "ghost"), "server returned 404")
}

func TestClient_Timer(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	client := newTestClient(t)

	remaining, err := client.TimerRemaining(ctx)
	require.NoError(t, err)
	require.Zero(t, remaining)

	end, err := client.StartTimer(ctx, 90*time.Second)
	require.NoError(t, err)
	require.WithinDuration(t, time.Now().Add(90*time.Second), end, 5*time.Second)

	remaining, err = client.TimerRemaining(ctx)
	require.NoError(t, err)
	require.InDelta(t, 90, remaining.Seconds(), 5)

	require.NoError(t, client.ClearTimer(ctx))

	remaining, err = client.TimerRemaining(ctx)
	require.NoError(t, err)
	require.Zero(t, remaining)
}

func TestClient_Health(t *testing.T) {
	t.Parallel()

	client := newTestClient(t)

	_, err := client.Health(context.Background())
	require.NoError(t, err)
}
