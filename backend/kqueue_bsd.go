//go:build darwin || dragonfly || freebsd || netbsd || openbsd

// File: backend/kqueue_bsd.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// BSD-family backend: kqueue(2). Timeouts are expressed directly in
// the kevent wait call, so no separate timer fd is needed. Grounded on
// original_source/.../ManagerKqueue.cc.

package backend

import (
	"fmt"

	"golang.org/x/sys/unix"

	"github.com/momentics/netmux/api"
)

type kqueueBackend struct {
	kq    int
	waker Waker
	rep   api.Reporter

	fdMap  map[int32]api.Source
	events []unix.Kevent_t
}

// New constructs the BSD-family poll backend.
func New(waker Waker, rep api.Reporter) (Backend, error) {
	kq, err := unix.Kqueue()
	if err != nil {
		rep.Fatal("kqueue failed", "err", err)
		return nil, fmt.Errorf("backend: kqueue: %w", err)
	}
	return &kqueueBackend{
		kq:     kq,
		waker:  waker,
		rep:    rep,
		fdMap:  make(map[int32]api.Source),
		events: make([]unix.Kevent_t, 0),
	}, nil
}

func (b *kqueueBackend) RegisterFd(fd int, owner api.Source) error {
	var ev unix.Kevent_t
	unix.SetKevent(&ev, fd, unix.EVFILT_READ, unix.EV_ADD)
	if _, err := unix.Kevent(b.kq, []unix.Kevent_t{ev}, nil, nil); err != nil {
		b.rep.Warning("kqueue: register fd failed, source excluded from ready set", "fd", fd, "source", owner.Tag(), "err", err)
		return nil
	}
	b.fdMap[int32(fd)] = owner
	b.events = append(b.events, unix.Kevent_t{})
	b.waker.Wakeup("RegisterFd")
	return nil
}

func (b *kqueueBackend) UnregisterFd(fd int) error {
	if _, ok := b.fdMap[int32(fd)]; !ok {
		return nil
	}
	var ev unix.Kevent_t
	unix.SetKevent(&ev, fd, unix.EVFILT_READ, unix.EV_DELETE)
	if _, err := unix.Kevent(b.kq, []unix.Kevent_t{ev}, nil, nil); err != nil {
		b.rep.Debug("kqueue: unregister fd failed", "fd", fd, "err", err)
		return nil
	}
	delete(b.fdMap, int32(fd))
	if len(b.events) > 0 {
		b.events = b.events[:len(b.events)-1]
	}
	b.waker.Wakeup("UnregisterFd")
	return nil
}

func (b *kqueueBackend) Poll(out *[]api.Source, timeoutSeconds float64, timeoutSrc api.Source) error {
	d := ConvertTimeout(timeoutSeconds)
	ts := unix.NsecToTimespec(d.Nanoseconds())

	if len(b.events) == 0 {
		// kevent requires a non-nil buffer with capacity to report
		// anything at all; keep at least one slot even with zero
		// registered fds so a pure-timeout wait still works.
		b.events = make([]unix.Kevent_t, 1)
	}

	n, err := unix.Kevent(b.kq, nil, b.events, &ts)
	if err != nil {
		if err == unix.EINTR {
			return nil
		}
		b.rep.Warning("kqueue: kevent failed", "err", err)
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
		if int16(ev.Filter) != int16(unix.EVFILT_READ) {
			continue
		}
		src, ok := b.fdMap[int32(ev.Ident)]
		if !ok {
			continue
		}
		switch {
		case ev.Flags&unix.EV_ERROR != 0, ev.Flags&unix.EV_EOF != 0 && ev.Data == 0:
			b.rep.Warning("source returned an error from poll", "source", src.Tag(), "flags", ev.Flags)
		default:
			*out = append(*out, src)
		}
	}
	return nil
}

func (b *kqueueBackend) Close() error {
	return unix.Close(b.kq)
}
