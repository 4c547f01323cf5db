//go:build linux

// File: affinity/affinity_linux.go
// Author: momentics <momentics@gmail.com>
//
// Linux thread affinity via sched_setaffinity, through the same
// golang.org/x/sys/unix package backend/epoll_linux.go already depends
// on. No cgo.

package affinity

import (
	"runtime"

	"golang.org/x/sys/unix"
)

func setAffinityPlatform(cpuID int) error {
	var set unix.CPUSet
	set.Zero()
	set.Set(cpuID)
	return unix.SchedSetaffinity(0, &set)
}

// resetAffinityPlatform widens the mask back to every CPU visible to
// the process, undoing a prior Set. It does not attempt to recall
// whatever narrower mask the process may have started under.
func resetAffinityPlatform() error {
	var set unix.CPUSet
	set.Zero()
	for i := 0; i < runtime.NumCPU(); i++ {
		set.Set(i)
	}
	return unix.SchedSetaffinity(0, &set)
}
