package notification

import (
	"context"
	"errors"
	"time"
)

// Notification is the payload of a scheduled trigger. AlarmID ties the
// trigger back to the alarm that booked it.
type Notification struct {
	// AlarmID identifies the alarm the booking belongs to.
	AlarmID string `json:"alarmId"`
	// Title is the headline shown when the notification fires.
	Title string `json:"title"`
	// Body is the supporting text shown when the notification fires.
	Body string `json:"body"`
	// Sound names the tone to play; opaque to the engine.
	Sound string `json:"sound"`
}

// Pending describes one not-yet-fired booking.
type Pending struct {
	// Handle is the opaque reference returned by Schedule.
	Handle string `json:"handle"`
	// Notification is the payload that will be delivered.
	Notification Notification `json:"notification"`
	// At is the instant the booking fires.
	At time.Time `json:"at"`
}

// Service is the booking contract of the device notification layer:
// schedule a trigger, cancel it by handle, enumerate what is pending.
type Service interface {
	Schedule(ctx context.Context, n Notification, at time.Time) (string, error)
	Cancel(ctx context.Context, handle string) error
	Pending(ctx context.Context) ([]Pending, error)
}

// Handler receives fired notifications, the inbound half of the contract.
type Handler func(ctx context.Context, n Notification)

// ErrUnknownHandle is returned when cancelling a handle with no pending booking.
var ErrUnknownHandle = errors.New("unknown notification handle")
