//go:build darwin || dragonfly || freebsd || netbsd || openbsd

// File: flare/flare_unix.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// BSD-family flare backed by a non-blocking self-pipe, the classic
// technique for turning a cross-thread signal into a pollable fd (see
// other_examples/joeycumines-go-utilpkg__loop_wakeup_unix.go for the
// same idea applied to a generic event loop).

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

// New constructs a Flare backed by a pipe2(O_NONBLOCK|O_CLOEXEC) pair.
func New() (Flare, error) {
	var fds [2]int
	if err := unix.Pipe2(fds[:], unix.O_NONBLOCK|unix.O_CLOEXEC); err != nil {
		return nil, fmt.Errorf("flare: pipe2: %w", err)
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
		if err != nil || n == 0 {
			break
		}
		if n < len(buf) {
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
