// Package daemon wires storage, the in-process notifier, the scheduling
// coordinator, the re-check loop and the HTTP API into the long-running
// engine process.
package daemon
