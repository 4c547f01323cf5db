//go:build linux

// File: flare/flare_linux.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Linux flare backed by eventfd(2), the same "one pollable fd" idea the
// teacher's reactor package uses when registering fds with epoll.

package flare

import (
	"fmt"
	"sync/atomic"
	"unsafe"

	"golang.org/x/sys/unix"
)

type eventfdFlare struct {
	fd     int
	fired  atomic.Bool
	closed atomic.Bool
}

// New constructs a Flare using an eventfd in semaphore-less counting
// mode; Fire and Extinguish are implemented on top of an atomic guard
// so repeated Fire calls never overflow the counter.
func New() (Flare, error) {
	fd, err := unix.Eventfd(0, unix.EFD_NONBLOCK|unix.EFD_CLOEXEC)
	if err != nil {
		return nil, fmt.Errorf("flare: eventfd create: %w", err)
	}
	return &eventfdFlare{fd: fd}, nil
}

func (f *eventfdFlare) FD() int { return f.fd }

func (f *eventfdFlare) Fire() {
	if f.closed.Load() {
		return
	}
	if !f.fired.CompareAndSwap(false, true) {
		return
	}
	var one uint64 = 1
	buf := (*[8]byte)(unsafe.Pointer(&one))[:]
	for {
		_, err := unix.Write(f.fd, buf)
		if err == unix.EINTR {
			continue
		}
		break
	}
}

func (f *eventfdFlare) Extinguish() {
	var val uint64
	buf := (*[8]byte)(unsafe.Pointer(&val))[:]
	for {
		_, err := unix.Read(f.fd, buf)
		if err == unix.EINTR {
			continue
		}
		break
	}
	f.fired.Store(false)
}

func (f *eventfdFlare) Close() error {
	f.closed.Store(true)
	return unix.Close(f.fd)
}
