// SPDX-License-Identifier: MIT

// Package transport publishes batch progress events to external observers.
package transport

// Transport defines a generic interface for sending progress events.
// Implementations must be safe for use from concurrent file pipelines.
type Transport interface {
	Send(data any) error
	Close() error
}
