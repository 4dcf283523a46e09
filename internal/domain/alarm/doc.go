// Package alarm defines the alarm domain model: the persisted Record with
// its trigger time, repeat set, booking handles, and the fixed weekday
// lookup tables shared by the store and the API.
package alarm
