// File: api/source.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Capability contract every I/O source must satisfy to be driven by the
// netmux main loop.

package api

// Source is a polymorphic producer of events: a live packet source, a
// trace reader, an inter-process message bus, a command channel, or a
// timer manager. The loop never inspects a source's concrete type; it
// only calls through this interface.
type Source interface {
	// InitSource performs one-shot initialization. Called exactly once,
	// the first time the source is registered.
	InitSource() error

	// Done finalizes the source. Called exactly once, right before the
	// driver drops its last reference to the source.
	Done()

	// IsOpen reports whether the source still has work to produce.
	// Once it returns false it must never return true again.
	IsOpen() bool

	// IsError reports whether the source is in an error state. Advisory
	// only; it does not by itself cause the source to be pruned.
	IsError() bool

	// GetNextTimeout returns seconds relative to the current network
	// time at which this source next wants to be serviced. A negative
	// value means "no preference", 0 means "immediately".
	GetNextTimeout() float64

	// Process performs work for one tick during which this source was
	// returned in the ready set. Must be short and non-blocking; it
	// must also be safe to call more than once within a single tick.
	Process()

	// Tag is a stable diagnostic identifier for the lifetime of the
	// source, used only in logs and warnings.
	Tag() string
}

// ErrorSetter is an optional interface a concrete Source may implement
// so that the plugin glue (see package plugin) can attach a canned
// error message when construction succeeds but the source failed to
// open.
type ErrorSetter interface {
	SetError(msg string)
}
