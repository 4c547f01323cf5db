//go:build !linux

// File: affinity/affinity_stub.go
// Author: momentics <momentics@gmail.com>
//
// BSD-family and other non-Linux Unix variants lack a uniform
// affinity syscall across golang.org/x/sys/unix (FreeBSD's
// cpuset_setaffinity, Darwin's thread_policy_set, etc. all differ),
// and the example corpus carries no library abstracting them, so this
// build stubs the operation out rather than reaching for cgo.

package affinity

import (
	"fmt"

	"github.com/momentics/netmux/api"
)

func setAffinityPlatform(cpuID int) error {
	return fmt.Errorf("affinity: %w on this platform", api.ErrNotSupported)
}

func resetAffinityPlatform() error {
	return fmt.Errorf("affinity: %w on this platform", api.ErrNotSupported)
}
