// Package config loads, validates and persists the YAML settings shared by
// the chime binaries: the daemon listen address, the storage backend, the
// snooze delay, the re-check interval and the operation timeout.
package config
