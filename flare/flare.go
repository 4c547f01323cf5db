// File: flare/flare.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Package flare implements a one-bit, level-triggered, pollable wakeup
// signal safe for cross-thread (and, on platforms where the underlying
// primitive allows it, signal-handler) use. It is the only supported
// cross-thread notification path into the main loop.

package flare

// Flare is a pollable wakeup signal. Fire and Extinguish are safe to
// call concurrently from any goroutine, including one servicing an
// OS-level signal on platforms where that is meaningful.
type Flare interface {
	// FD returns the file descriptor to register with a PollBackend.
	// It is readable exactly when the flare has been Fired and not yet
	// Extinguished.
	FD() int

	// Fire makes the flare's fd readable, if it isn't already. Multiple
	// concurrent calls coalesce into a single pending wakeup.
	Fire()

	// Extinguish drains the flare back to not-readable. Called by
	// WakeupHandler.Process on the tick that services the wakeup.
	Extinguish()

	// Close releases the flare's underlying fd(s). Not safe to call
	// concurrently with Fire/Extinguish.
	Close() error
}
