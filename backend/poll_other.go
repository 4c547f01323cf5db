//go:build !linux && !darwin && !dragonfly && !freebsd && !netbsd && !openbsd

// File: backend/poll_other.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Portable fallback backend for any Unix-like target with neither
// epoll nor kqueue. Grounded on original_source/.../ManagerPoll.cc,
// with one deliberate deviation: the original arms a Linux timerfd
// even in the poll() path purely for implementation symmetry with its
// epoll sibling. timerfd_create is a Linux-only syscall, so on this
// build's target set (anything that isn't Linux, BSD-family, or
// Darwin) we instead pass the timeout straight to poll(2), which
// already accepts a millisecond deadline. Net behavior at the
// api.Source level is identical: on timeout with nothing else ready,
// timeoutSrc is reported exactly once.
package backend

import (
	"fmt"

	"golang.org/x/sys/unix"

	"github.com/momentics/netmux/api"
)

type pollBackend struct {
	waker Waker
	rep   api.Reporter

	fdMap map[int32]api.Source
	fds   []unix.PollFd
}

// New constructs the portable fallback backend.
func New(waker Waker, rep api.Reporter) (Backend, error) {
	if waker == nil || rep == nil {
		return nil, fmt.Errorf("backend: waker and reporter are required")
	}
	return &pollBackend{
		waker: waker,
		rep:   rep,
		fdMap: make(map[int32]api.Source),
		fds:   make([]unix.PollFd, 0),
	}, nil
}

func (b *pollBackend) indexOf(fd int) int {
	for i, pfd := range b.fds {
		if int(pfd.Fd) == fd {
			return i
		}
	}
	return -1
}

func (b *pollBackend) RegisterFd(fd int, owner api.Source) error {
	if b.indexOf(fd) >= 0 {
		return nil
	}
	b.fdMap[int32(fd)] = owner
	b.fds = append(b.fds, unix.PollFd{Fd: int32(fd), Events: unix.POLLIN})
	b.waker.Wakeup("RegisterFd")
	return nil
}

func (b *pollBackend) UnregisterFd(fd int) error {
	i := b.indexOf(fd)
	if i < 0 {
		return nil
	}
	b.fds = append(b.fds[:i], b.fds[i+1:]...)
	delete(b.fdMap, int32(fd))
	b.waker.Wakeup("UnregisterFd")
	return nil
}

func (b *pollBackend) Poll(out *[]api.Source, timeoutSeconds float64, timeoutSrc api.Source) error {
	timeoutMs := int(ConvertTimeout(timeoutSeconds).Milliseconds())

	for i := range b.fds {
		b.fds[i].Revents = 0
	}

	n, err := unix.Poll(b.fds, timeoutMs)
	if err != nil {
		if err == unix.EINTR {
			return nil
		}
		b.rep.Warning("poll: poll() failed", "err", err)
		return nil
	}
	if n == 0 {
		if timeoutSrc != nil {
			*out = append(*out, timeoutSrc)
		}
		return nil
	}

	for _, pfd := range b.fds {
		if pfd.Revents == 0 {
			continue
		}
		src, ok := b.fdMap[pfd.Fd]
		if !ok {
			continue
		}
		switch {
		case pfd.Revents == unix.POLLIN:
			*out = append(*out, src)
		case pfd.Revents&unix.POLLNVAL != 0:
			b.rep.Warning("file descriptor closed during poll", "source", src.Tag(), "fd", pfd.Fd)
		case pfd.Revents&(unix.POLLERR|unix.POLLHUP) != 0:
			b.rep.Warning("source returned an error from poll", "source", src.Tag(), "revents", pfd.Revents)
		}
	}
	return nil
}

func (b *pollBackend) Close() error {
	return nil
}
