//go:build linux

// File: backend/epoll_linux.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Linux backend: epoll(7) plus a monotonic timerfd(2) used to implement
// a uniform timeout across all three backend variants (golang.org/x/sys/unix,
// EpollCreate1/EpollCtl/EpollWait).

package backend

import (
	"fmt"

	"golang.org/x/sys/unix"

	"github.com/momentics/netmux/api"
)

type epollBackend struct {
	epfd    int
	timerfd int
	waker   Waker
	rep     api.Reporter

	fdMap  map[int32]api.Source
	events []unix.EpollEvent
}

// New constructs the Linux poll backend. Fatal per §7: the caller
// should treat a non-nil error as an unrecoverable configuration
// failure.
func New(waker Waker, rep api.Reporter) (Backend, error) {
	epfd, err := unix.EpollCreate1(unix.EPOLL_CLOEXEC)
	if err != nil {
		rep.Fatal("epoll_create1 failed", "err", err)
		return nil, fmt.Errorf("backend: epoll_create1: %w", err)
	}
	timerfd, err := unix.TimerfdCreate(unix.CLOCK_MONOTONIC, 0)
	if err != nil {
		unix.Close(epfd)
		rep.Fatal("timerfd_create failed", "err", err)
		return nil, fmt.Errorf("backend: timerfd_create: %w", err)
	}

	b := &epollBackend{
		epfd:    epfd,
		timerfd: timerfd,
		waker:   waker,
		rep:     rep,
		fdMap:   make(map[int32]api.Source),
		events:  make([]unix.EpollEvent, 0, 1),
	}

	ev := unix.EpollEvent{Events: unix.EPOLLIN, Fd: int32(timerfd)}
	if err := unix.EpollCtl(epfd, unix.EPOLL_CTL_ADD, timerfd, &ev); err != nil {
		unix.Close(timerfd)
		unix.Close(epfd)
		rep.Fatal("epoll_ctl add timerfd failed", "err", err)
		return nil, fmt.Errorf("backend: epoll_ctl add timerfd: %w", err)
	}
	b.events = append(b.events, unix.EpollEvent{})

	return b, nil
}

func (b *epollBackend) RegisterFd(fd int, owner api.Source) error {
	ev := unix.EpollEvent{Events: unix.EPOLLIN, Fd: int32(fd)}
	if err := unix.EpollCtl(b.epfd, unix.EPOLL_CTL_ADD, fd, &ev); err != nil {
		b.rep.Warning("epoll: register fd failed, source excluded from ready set", "fd", fd, "source", owner.Tag(), "err", err)
		return nil
	}
	b.fdMap[int32(fd)] = owner
	b.events = append(b.events, unix.EpollEvent{})
	b.waker.Wakeup("RegisterFd")
	return nil
}

func (b *epollBackend) UnregisterFd(fd int) error {
	if _, ok := b.fdMap[int32(fd)]; !ok {
		return nil
	}
	if err := unix.EpollCtl(b.epfd, unix.EPOLL_CTL_DEL, fd, nil); err != nil {
		b.rep.Debug("epoll: unregister fd failed", "fd", fd, "err", err)
		return nil
	}
	delete(b.fdMap, int32(fd))
	if len(b.events) > 0 {
		b.events = b.events[:len(b.events)-1]
	}
	b.waker.Wakeup("UnregisterFd")
	return nil
}

func (b *epollBackend) Poll(out *[]api.Source, timeoutSeconds float64, timeoutSrc api.Source) error {
	// timerfd_settime with a zero relative deadline disarms the timer,
	// so a zero timeout must be handed straight to epoll_wait instead.
	pollTimeout := -1
	if timeoutSeconds != 0 {
		spec := unix.ItimerSpec{Value: unix.NsecToTimespec(ConvertTimeout(timeoutSeconds).Nanoseconds())}
		if err := unix.TimerfdSettime(b.timerfd, 0, &spec, nil); err != nil {
			b.rep.Warning("epoll: timerfd_settime failed", "err", err)
		}
	} else {
		disarm := unix.ItimerSpec{}
		unix.TimerfdSettime(b.timerfd, 0, &disarm, nil)
		pollTimeout = 0
	}

	n, err := unix.EpollWait(b.epfd, b.events, pollTimeout)
	if err != nil {
		if err == unix.EINTR {
			return nil
		}
		b.rep.Warning("epoll: epoll_wait failed", "err", err)
		return nil
	}
	if n == 0 {
		if timeoutSrc != nil {
			*out = append(*out, timeoutSrc)
		}
		return nil
	}

	for i := 0; i < n; i++ {
		ev := b.events[i]
		if ev.Fd == int32(b.timerfd) && ev.Events&unix.EPOLLIN != 0 {
			var buf [8]byte
			unix.Read(b.timerfd, buf[:])
			*out = (*out)[:0]
			if timeoutSrc != nil {
				*out = append(*out, timeoutSrc)
			}
			return nil
		}

		src, ok := b.fdMap[ev.Fd]
		if !ok {
			continue
		}
		switch {
		case ev.Events&unix.EPOLLIN != 0:
			*out = append(*out, src)
		case ev.Events&(unix.EPOLLERR|unix.EPOLLHUP) != 0:
			b.rep.Warning("source returned an error from poll", "source", src.Tag(), "events", ev.Events)
		}
	}
	return nil
}

func (b *epollBackend) Close() error {
	err1 := unix.Close(b.timerfd)
	err2 := unix.Close(b.epfd)
	if err1 != nil {
		return err1
	}
	return err2
}
