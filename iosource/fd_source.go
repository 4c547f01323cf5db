// File: iosource/fd_source.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// FdSource is the generic fd-backed api.Source: the building block a
// real packet source, trace reader, or IPC message bus adapter would
// embed. Grounded on the original's packet sources and message buses
// being, at the multiplexer's level, "just" fd owners registered with
// RegisterFd.

package iosource

import (
	"sync/atomic"

	"github.com/momentics/netmux/api"
	"github.com/momentics/netmux/backend"
)

// FdSource owns fd and delegates readiness work to onProcess. closeFn,
// if non-nil, is invoked once from Done to release fd.
type FdSource struct {
	tag       string
	fd        int
	backend   backend.Backend
	onProcess func()
	closeFn   func() error

	open    atomic.Bool
	errored atomic.Bool
}

// NewFdSource constructs a source over fd. The caller retains
// ownership of fd until Done runs closeFn (which may be nil if the fd
// outlives the source).
func NewFdSource(tag string, fd int, be backend.Backend, onProcess func(), closeFn func() error) *FdSource {
	s := &FdSource{
		tag:       tag,
		fd:        fd,
		backend:   be,
		onProcess: onProcess,
		closeFn:   closeFn,
	}
	s.open.Store(true)
	return s
}

func (s *FdSource) InitSource() error {
	return s.backend.RegisterFd(s.fd, s)
}

func (s *FdSource) Done() {
	s.backend.UnregisterFd(s.fd)
	if s.closeFn != nil {
		s.closeFn()
	}
	s.open.Store(false)
}

func (s *FdSource) IsOpen() bool  { return s.open.Load() }
func (s *FdSource) IsError() bool { return s.errored.Load() }

// GetNextTimeout is always "no preference"; FdSource is driven purely
// by fd readiness, never by a deadline.
func (s *FdSource) GetNextTimeout() float64 { return -1 }

func (s *FdSource) Process() {
	if s.onProcess != nil {
		s.onProcess()
	}
}

func (s *FdSource) Tag() string { return s.tag }

// Close marks the source dry from outside the loop (e.g. the owner
// observed EOF inside onProcess). The driver prunes it on its next
// tick.
func (s *FdSource) Close() { s.open.Store(false) }

// MarkError flags the source as errored without closing it.
func (s *FdSource) MarkError() { s.errored.Store(true) }

// SetError implements api.ErrorSetter for the plugin glue's canned
// "could not open" attachment.
func (s *FdSource) SetError(string) { s.errored.Store(true) }

var _ api.Source = (*FdSource)(nil)
var _ api.ErrorSetter = (*FdSource)(nil)
