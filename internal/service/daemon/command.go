package daemon

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/example/chime/internal/api/rest"
	"github.com/example/chime/internal/config"
	"github.com/example/chime/internal/logger"
	"github.com/example/chime/internal/notification"
	"github.com/example/chime/internal/repository/alarms"
	"github.com/example/chime/internal/repository/kv"
	"github.com/example/chime/internal/service/scheduler"
	"github.com/example/chime/internal/service/timer"
)

// Options controls the engine daemon process and configuration.
type Options struct {
	// ConfigPath specifies the path to the settings YAML file.
	ConfigPath string
	// ListenAddress provides an optional listen address override for
	// the HTTP server.
	ListenAddress string
	// StoragePath provides an optional override for the alarm store
	// location.
	StoragePath string
}

// ErrNoServerAddress indicates missing server configuration.
var ErrNoServerAddress = errors.New("no server address configured")

// shutdownTimeout bounds the drain of in-flight requests on exit.
const shutdownTimeout = 10 * time.Second

// Run starts the engine daemon and blocks until the context is canceled
// or the server stops. Loads configuration first, then wires storage,
// the in-process notifier, the coordinator, the re-check loop and the
// HTTP API.
func Run(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "chimed")

	settings, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	// Use the storage path from config unless overridden on the command line.
	storagePath := settings.StoragePath
	if opts.StoragePath != "" {
		storagePath = opts.StoragePath
	}

	listenAddress, err := resolveListenAddress(settings.ServerAddress, opts.ListenAddress)
	if err != nil {
		return fmt.Errorf("resolve listen address: %w", err)
	}

	backend, err := kv.Open(ctx, settings.StorageDriver, storagePath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer backend.Close()

	// The notifier's delivery callback feeds fired triggers back into the
	// coordinator, which is built right after; the variable is captured
	// by reference so the wiring closes the loop.
	var coordinator *scheduler.Coordinator

	notifier := notification.NewLocalService(func(fireCtx context.Context, n notification.Notification) {
		fireCtx = logger.WithName(fireCtx, "chimed")

		if err := coordinator.Fire(fireCtx, n.AlarmID); err != nil {
			logger.ErrorKV(fireCtx, "Trigger handling failed", "alarm_id", n.AlarmID, "error", err)
		}
	})
	defer notifier.Close()

	coordinator = scheduler.NewCoordinator(alarms.NewStore(backend), notifier,
		scheduler.WithSnoozeDelay(time.Duration(settings.SnoozeMinutes)*time.Minute),
		scheduler.WithTimeout(settings.Timeout))

	// Rebuild bookings that did not survive the previous process, then
	// keep repairing them periodically.
	if err := coordinator.Reconcile(ctx); err != nil {
		logger.WarnKV(ctx, "Startup reconcile failed", "error", err)
	}

	go func() {
		if err := scheduler.NewPoller(coordinator, settings.PollInterval).Run(ctx); err != nil &&
			!errors.Is(err, context.Canceled) {
			logger.ErrorKV(ctx, "Re-check loop stopped", "error", err)
		}
	}()

	countdown := timer.NewService(backend, notifier)

	server := &http.Server{
		Addr:              listenAddress,
		Handler:           rest.NewServer(coordinator, countdown).Router(),
		ReadHeaderTimeout: settings.Timeout,
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}

	logger.InfoKV(ctx, "Engine daemon listening",
		"listen_address", listenAddress,
		"storage_driver", settings.StorageDriver,
		"storage_path", storagePath)

	// Done channel is closed after Shutdown finishes so we block until
	// in-flight requests drain before returning.
	done := make(chan struct{})

	go func() {
		<-ctx.Done()
		logger.Info(ctx, "Shutting down HTTP server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.ErrorKV(ctx, "Shutdown failed", "error", err)
		}

		close(done)
	}()

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve HTTP: %w", err)
	}

	<-done
	logger.Info(ctx, "HTTP server stopped")

	return nil
}

// resolveListenAddress determines the listen address for the HTTP server.
// If override is provided, uses it directly. Otherwise extracts the port
// from configAddr and binds on all interfaces.
func resolveListenAddress(configAddr, override string) (string, error) {
	if override != "" {
		return override, nil
	}

	if configAddr == "" {
		return "", ErrNoServerAddress
	}

	_, port, err := net.SplitHostPort(configAddr)
	if err != nil {
		return "", fmt.Errorf("invalid server address format %q: %w", configAddr, err)
	}

	return ":" + port, nil
}
