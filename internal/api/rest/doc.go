// Package rest exposes the scheduling engine over a JSON/HTTP API and
// provides the matching client used by the control CLI.
package rest
