package kv

import (
	"context"
	"errors"
	"fmt"

	"github.com/example/chime/internal/config"
)

// Store defines the key-value persistence contract the engine relies on.
// Values are opaque strings; the alarm list lives under a single key as
// one serialized document.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// ErrNotFound is returned when a key has no value.
var ErrNotFound = errors.New("key not found")

// Open creates a Store for the given driver and path.
//
//nolint:ireturn // Factory intentionally returns the interface.
func Open(ctx context.Context, driver, path string) (Store, error) {
	switch driver {
	case config.StorageDriverFile:
		return NewFileStore(path), nil
	case config.StorageDriverSQLite:
		return OpenSQLiteStore(ctx, path)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", driver)
	}
}
