// File: iosource/ticker_source.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// TickerSource is a concrete, fd-less api.Source driven by wall-clock
// time rather than fd readiness: it always reports a deadline via
// GetNextTimeout and never registers anything with a Backend.

package iosource

import (
	"sync"
	"time"

	"github.com/momentics/netmux/api"
)

// TickerSource fires fn every interval, computed relative to wall
// time. It is the building block for heartbeat / periodic-flush
// sources that don't need real fd readiness.
type TickerSource struct {
	mu       sync.Mutex
	tag      string
	interval time.Duration
	next     time.Time
	fn       func()
	open     bool
	errored  bool
}

// NewTickerSource constructs a source that calls fn roughly every
// interval, starting from the moment InitSource is called.
func NewTickerSource(tag string, interval time.Duration, fn func()) *TickerSource {
	return &TickerSource{
		tag:      tag,
		interval: interval,
		fn:       fn,
		open:     true,
	}
}

func (t *TickerSource) InitSource() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.next = time.Now().Add(t.interval)
	return nil
}

func (t *TickerSource) Done() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.open = false
}

func (t *TickerSource) IsOpen() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.open
}

func (t *TickerSource) IsError() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.errored
}

// GetNextTimeout returns seconds until the ticker's next scheduled
// fire, clamped at zero once the deadline has passed.
func (t *TickerSource) GetNextTimeout() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	remaining := time.Until(t.next)
	if remaining <= 0 {
		return 0
	}
	return remaining.Seconds()
}

// Process invokes fn and reschedules the next deadline. Re-entry
// within one tick reschedules again and invokes fn again; it is safe,
// matching the contract that Process must tolerate multiple
// appearances.
func (t *TickerSource) Process() {
	t.mu.Lock()
	t.next = time.Now().Add(t.interval)
	fn := t.fn
	t.mu.Unlock()
	if fn != nil {
		fn()
	}
}

func (t *TickerSource) Tag() string { return t.tag }

// SetError marks the source errored, used by tests exercising the
// api.ErrorSetter path.
func (t *TickerSource) SetError(string) {
	t.mu.Lock()
	t.errored = true
	t.mu.Unlock()
}

var _ api.Source = (*TickerSource)(nil)
var _ api.ErrorSetter = (*TickerSource)(nil)
