package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds settings shared by the chime binaries.
type Config struct {
	// ServerAddress is the HTTP address the engine daemon listens on
	// and clients connect to.
	ServerAddress string `yaml:"server_addr"`
	// StorageDriver selects the key-value backend: "file" or "sqlite".
	StorageDriver string `yaml:"storage_driver"`
	// StoragePath is the filesystem location of the alarm store.
	StoragePath string `yaml:"storage_path"`
	// SnoozeMinutes is the delay applied when an alarm is snoozed
	// without an explicit duration.
	SnoozeMinutes int `yaml:"snooze_minutes"`
	// PollInterval is the period of the in-process re-check loop that
	// reconciles bookings with the persisted alarms.
	PollInterval time.Duration `yaml:"poll_interval"`
	// Timeout bounds storage and booking operations so a hung call
	// cannot block an operation indefinitely.
	Timeout time.Duration `yaml:"timeout"`
}

const (
	// DefaultConfigFilename is the default filename for engine settings.
	DefaultConfigFilename = "chime-settings.yaml"

	// DefaultStoragePath is the default location of the alarm store.
	DefaultStoragePath = "chime-alarms.json"

	// DefaultSnoozeMinutes is the snooze delay used when none is given.
	DefaultSnoozeMinutes = 10

	// DefaultPollInterval is the period of the recurring alarm re-check.
	DefaultPollInterval = time.Minute

	// DefaultTimeout is the default duration for storage and booking calls.
	DefaultTimeout = 5 * time.Second

	// DefaultFilePermissions is the default file permission for engine files.
	DefaultFilePermissions = 0o600

	// StorageDriverFile selects the JSON-file key-value backend.
	StorageDriverFile = "file"
	// StorageDriverSQLite selects the SQLite key-value backend.
	StorageDriverSQLite = "sqlite"
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errServerAddressRequired is returned when the server address is missing.
	errServerAddressRequired = errors.New("server address must be provided")
	// errUnknownStorageDriver is returned for an unsupported storage driver.
	errUnknownStorageDriver = errors.New("unknown storage driver")
)

// Load reads configuration from the provided path and validates essential fields.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes settings to the provided path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	// Restrict permissions.
	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate checks the provided settings for required fields and fills defaults.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if cfg.ServerAddress == "" {
		return errServerAddressRequired
	}

	if _, err := net.ResolveTCPAddr("tcp", cfg.ServerAddress); err != nil {
		return fmt.Errorf("invalid server address: %w", err)
	}

	switch cfg.StorageDriver {
	case "":
		cfg.StorageDriver = StorageDriverFile
	case StorageDriverFile, StorageDriverSQLite:
	default:
		return fmt.Errorf("%w: %q", errUnknownStorageDriver, cfg.StorageDriver)
	}

	if cfg.StoragePath == "" {
		cfg.StoragePath = DefaultStoragePath
	}

	if cfg.SnoozeMinutes <= 0 {
		cfg.SnoozeMinutes = DefaultSnoozeMinutes
	}

	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultPollInterval
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	return nil
}
