// Package api
// Author: momentics@gmail.com
//
// CPU affinity and thread pinning definitions. The multiplexer is
// single-threaded cooperative (see §5); pinning the OS thread that runs
// the main loop can still help by keeping it off cores serving
// unrelated work.

package api

// Affinity controls execution on a particular CPU.
type Affinity interface {
	// Pin locks the calling OS thread to a CPU. cpuID < 0 means "let
	// the scheduler pick".
	Pin(cpuID int) error
	// Unpin removes any affinity previously set by Pin.
	Unpin() error
	// Get returns the CPU currently pinned to, or -1 if unpinned.
	Get() (cpuID int, err error)
}
