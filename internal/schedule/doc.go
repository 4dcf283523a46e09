// Package schedule holds the pure next-occurrence math for alarms: given
// the current time and an alarm's trigger time plus repeat set, it computes
// the next instant the alarm fires. It also provides the injectable Clock
// used by the coordinator and the relative-time confirmation formatting.
package schedule
