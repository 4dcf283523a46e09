// Package notification defines the booking contract of the device
// notification layer and provides LocalService, an in-process
// implementation that delivers scheduled triggers through timers.
package notification
