// File: backend/backend.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Package backend provides the OS-specific readiness primitive behind
// the main loop: a level-triggered epoll queue on Linux, a kernel
// event queue on BSD-family systems (kqueue), or portable multi-FD
// polling as a fallback (poll). Exactly one implementation is compiled
// in per target OS; there is no runtime switch between them.
package backend

import (
	"math"
	"time"

	"github.com/momentics/netmux/api"
)

// Backend is the contract every OS-specific poll implementation
// satisfies. All three variants share identical semantics for Poll,
// documented on the method below.
type Backend interface {
	// RegisterFd starts tracking fd for read-readiness on behalf of
	// owner. Calls Waker.Wakeup after updating internal state so a
	// loop currently blocked on the old fd set returns immediately.
	RegisterFd(fd int, owner api.Source) error

	// UnregisterFd stops tracking fd. Also wakes the loop.
	UnregisterFd(fd int) error

	// Poll blocks according to timeoutSeconds (see the rules below),
	// then appends ready sources to *out.
	//
	//   - timeoutSeconds == 0: non-blocking check; if nothing is ready,
	//     append timeoutSrc (when non-nil).
	//   - timeoutSeconds > 0: block up to that many seconds; if it
	//     elapses with nothing ready, append timeoutSrc.
	//   - timeoutSeconds < 0: block indefinitely, subject to the
	//     nominal spin-floor from ConvertTimeout.
	//
	// fds reported with error or hangup are not appended; a warning
	// naming the owning source's Tag is sent to the reporter instead.
	Poll(out *[]api.Source, timeoutSeconds float64, timeoutSrc api.Source) error

	// Close releases the backend's private fds (event queue, timer fd).
	// It does not close fds registered by callers; those remain the
	// registering owner's responsibility.
	Close() error
}

// Waker lets a Backend notify the loop that it should stop blocking and
// re-evaluate its fd set on the next tick. LoopDriver implements this.
type Waker interface {
	Wakeup(where string)
}

// spinFloor is the nominal duration used in place of an unbounded wait,
// so that engine-level termination checks can still run periodically
// even when no source has a deadline.
const spinFloor = 100 * time.Millisecond

// ConvertTimeout maps a double seconds-relative timeout (per the
// api.Source.GetNextTimeout contract) into a time.Duration suitable for
// an OS timer or wait call. Negative inputs map to spinFloor rather
// than an unbounded wait.
func ConvertTimeout(timeoutSeconds float64) time.Duration {
	if timeoutSeconds < 0 || math.IsNaN(timeoutSeconds) {
		return spinFloor
	}
	return time.Duration(timeoutSeconds * float64(time.Second))
}
