//go:build !linux && !darwin && !dragonfly && !freebsd && !netbsd && !openbsd

// File: flare/flare_other.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Portable fallback for any other Unix-like target the poll backend
// supports: same self-pipe technique as flare_unix.go, using the
// plain (non-pipe2) syscalls available everywhere in package unix.

package flare

import (
	"fmt"
	"sync/atomic"

	"golang.org/x/sys/unix"
)

type pipeFlare struct {
	r, w   int
	fired  atomic.Bool
	closed atomic.Bool
}

// New constructs a Flare backed by a plain pipe pair, set non-blocking
// after creation since this platform group lacks pipe2.
func New() (Flare, error) {
	var fds [2]int
	if err := unix.Pipe(fds[:]); err != nil {
		return nil, fmt.Errorf("flare: pipe: %w", err)
	}
	for _, fd := range fds {
		if err := unix.SetNonblock(fd, true); err != nil {
			unix.Close(fds[0])
			unix.Close(fds[1])
			return nil, fmt.Errorf("flare: set nonblock: %w", err)
		}
	}
	return &pipeFlare{r: fds[0], w: fds[1]}, nil
}

func (f *pipeFlare) FD() int { return f.r }

func (f *pipeFlare) Fire() {
	if f.closed.Load() {
		return
	}
	if !f.fired.CompareAndSwap(false, true) {
		return
	}
	buf := [1]byte{1}
	for {
		_, err := unix.Write(f.w, buf[:])
		if err == unix.EINTR {
			continue
		}
		break
	}
}

func (f *pipeFlare) Extinguish() {
	var buf [64]byte
	for {
		n, err := unix.Read(f.r, buf[:])
		if err == unix.EINTR {
			continue
		}
		if err != nil || n < len(buf) {
			break
		}
	}
	f.fired.Store(false)
}

func (f *pipeFlare) Close() error {
	f.closed.Store(true)
	err1 := unix.Close(f.r)
	err2 := unix.Close(f.w)
	if err1 != nil {
		return err1
	}
	return err2
}
