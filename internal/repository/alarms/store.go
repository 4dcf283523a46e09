package alarms

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/example/chime/internal/domain/alarm"
	"github.com/example/chime/internal/repository/kv"
)

const (
	// alarmsKey holds the whole alarm list as one JSON array.
	alarmsKey = "alarms"
	// nextFireKeyPrefix prefixes per-alarm next-trigger bookkeeping keys.
	nextFireKeyPrefix = "alarm_"
)

// ErrNoNextFire is returned when an alarm has no recorded next trigger.
var ErrNoNextFire = errors.New("no next fire recorded")

// Store persists the alarm list and per-alarm trigger bookkeeping on top
// of the key-value backend.
type Store struct {
	// kv is the underlying key-value backend.
	kv kv.Store
}

// NewStore wraps a key-value backend.
func NewStore(backend kv.Store) *Store {
	return &Store{kv: backend}
}

// Load reads every alarm record. A store without the list yet yields an
// empty slice, not an error.
func (s *Store) Load(ctx context.Context) ([]*alarm.Record, error) {
	raw, err := s.kv.Get(ctx, alarmsKey)
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return nil, nil
		}

		return nil, fmt.Errorf("load alarms: %w", err)
	}

	var records []*alarm.Record
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		return nil, fmt.Errorf("decode alarms: %w", err)
	}

	return records, nil
}

// Save replaces the whole alarm list.
func (s *Store) Save(ctx context.Context, records []*alarm.Record) error {
	if records == nil {
		records = []*alarm.Record{}
	}

	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encode alarms: %w", err)
	}

	if err := s.kv.Set(ctx, alarmsKey, string(data)); err != nil {
		return fmt.Errorf("save alarms: %w", err)
	}

	return nil
}

// SetNextFire records the booked trigger instant for an alarm as epoch
// milliseconds, mirroring the per-alarm scalar entries of the store format.
func (s *Store) SetNextFire(ctx context.Context, id string, at time.Time) error {
	key := nextFireKeyPrefix + id
	if err := s.kv.Set(ctx, key, strconv.FormatInt(at.UnixMilli(), 10)); err != nil {
		return fmt.Errorf("record next fire for %s: %w", id, err)
	}

	return nil
}

// NextFire reads the recorded trigger instant for an alarm.
func (s *Store) NextFire(ctx context.Context, id string) (time.Time, error) {
	raw, err := s.kv.Get(ctx, nextFireKeyPrefix+id)
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return time.Time{}, ErrNoNextFire
		}

		return time.Time{}, fmt.Errorf("read next fire for %s: %w", id, err)
	}

	millis, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("decode next fire for %s: %w", id, err)
	}

	return time.UnixMilli(millis), nil
}

// ClearNextFire removes the recorded trigger instant for an alarm.
func (s *Store) ClearNextFire(ctx context.Context, id string) error {
	if err := s.kv.Delete(ctx, nextFireKeyPrefix+id); err != nil {
		return fmt.Errorf("clear next fire for %s: %w", id, err)
	}

	return nil
}
