// File: control/flags.go
// Author: momentics <momentics@gmail.com>
//
// EngineFlags holds the two process-wide flags the multiplexer core
// reads inside FindReadySources (§6): whether the main loop should
// keep running with only don't-count sources present, and whether the
// engine has entered its terminating state.

package control

import "sync/atomic"

// EngineFlags is safe for concurrent use; Terminate is typically called
// from a signal handler or shutdown goroutine while the main loop is
// reading it on every tick.
type EngineFlags struct {
	exitOnlyAfterTerminate atomic.Bool
	terminating            atomic.Bool
}

// NewEngineFlags constructs flags with the given exitOnlyAfterTerminate
// default. terminating always starts false.
func NewEngineFlags(exitOnlyAfterTerminate bool) *EngineFlags {
	f := &EngineFlags{}
	f.exitOnlyAfterTerminate.Store(exitOnlyAfterTerminate)
	return f
}

// ExitOnlyAfterTerminate reports the current setting of that switch.
func (f *EngineFlags) ExitOnlyAfterTerminate() bool {
	return f.exitOnlyAfterTerminate.Load()
}

// SetExitOnlyAfterTerminate updates the switch.
func (f *EngineFlags) SetExitOnlyAfterTerminate(v bool) {
	f.exitOnlyAfterTerminate.Store(v)
}

// Terminating reports whether the engine has begun shutting down.
func (f *EngineFlags) Terminating() bool {
	return f.terminating.Load()
}

// Terminate flips the terminating flag. Idempotent.
func (f *EngineFlags) Terminate() {
	f.terminating.Store(true)
}
