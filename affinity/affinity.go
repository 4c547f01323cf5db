// File: affinity/affinity.go
// Author: momentics <momentics@gmail.com>
//
// Platform-neutral API for pinning the calling OS thread to a single
// logical CPU. Platform-specific implementations live in separate
// files (affinity_linux.go, affinity_stub.go) guarded by build tags.

package affinity

// Set pins the calling OS thread to the given logical CPU. Callers
// that need this to stick across the whole goroutine must first call
// runtime.LockOSThread.
func Set(cpuID int) error {
	return setAffinityPlatform(cpuID)
}

// Reset removes any affinity binding previously applied by Set,
// letting the scheduler migrate the calling thread freely again.
func Reset() error {
	return resetAffinityPlatform()
}
