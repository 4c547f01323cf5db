// File: iosource/loop_driver.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// LoopDriver is the manager-base of the multiplexer: it owns the
// SourceTable, drives one PollBackend, and implements
// FindReadySources, the single-threaded cooperative heart of the
// system. Grounded on original_source's ManagerBase.cc.

package iosource

import (
	"errors"
	"math"
	"sync/atomic"

	"golang.org/x/sys/unix"

	"github.com/momentics/netmux/api"
	"github.com/momentics/netmux/backend"
	"github.com/momentics/netmux/control"
	"github.com/momentics/netmux/flare"
)

// LoopDriver ties a SourceTable to a Backend and the two engine-wide
// flags that gate loop termination.
type LoopDriver struct {
	table   *SourceTable
	backend backend.Backend
	rep     api.Reporter
	flags   *control.EngineFlags

	wakeupHandler *WakeupHandler

	// zeroTimeoutCount starts at 1, mirroring the C++ original's
	// implicit member default, which equals the value the counter is
	// reset to after every real backend poll. A fresh driver therefore
	// grants exactly 99 fast-path ticks before the 100th falls through,
	// same as a driver returning from a real poll would.
	zeroTimeoutCount int

	// pollCount tracks how many times backend.Poll was actually called,
	// as opposed to a zero-timeout fast-path return.
	pollCount int

	closed atomic.Bool
}

// New constructs a driver over be, using rep for diagnostics and flags
// for the two engine-wide termination switches. It creates the flare
// and its WakeupHandler and registers the handler as a dont-count
// source, so Wakeup is usable immediately.
func New(be backend.Backend, rep api.Reporter, flags *control.EngineFlags) (*LoopDriver, error) {
	fl, err := flare.New()
	if err != nil {
		rep.Fatal("flare construction failed", "err", err)
		return nil, err
	}

	d := &LoopDriver{
		table:            NewSourceTable(),
		backend:          be,
		rep:              rep,
		flags:            flags,
		zeroTimeoutCount: 1,
	}

	d.wakeupHandler = NewWakeupHandler(fl, be)
	if _, err := d.table.Register(d.wakeupHandler, true); err != nil {
		fl.Close()
		return nil, err
	}

	return d, nil
}

// Register adds src to the table, calling InitSource on first
// registration. Duplicate registration only reconciles dont_count.
func (d *LoopDriver) Register(src api.Source, dontCount bool) error {
	if d.closed.Load() {
		return api.ErrLoopClosed
	}
	_, err := d.table.Register(src, dontCount)
	return err
}

// RemoveAll marks every registered source as dont_count, forcing
// termination on the next FindReadySources without mutating the table.
func (d *LoopDriver) RemoveAll() {
	d.table.RemoveAll()
}

// Wakeup fires the flare from any thread. It is a no-op once the
// driver has been shut down, closing the race the original left open
// between firing and WakeupHandler teardown.
func (d *LoopDriver) Wakeup(where string) {
	if d.closed.Load() {
		return
	}
	d.wakeupHandler.fl.Fire()
	if d.rep != nil {
		d.rep.Debug("wakeup", "where", where)
	}
}

// FindReadySources computes the set of sources to service this tick.
// See package doc / spec §4.2 for the exact five-step algorithm.
func (d *LoopDriver) FindReadySources() ([]api.Source, error) {
	if pruned, ok := d.table.PruneOneDry(); ok {
		if d.rep != nil {
			d.rep.Debug("pruned dry source", "tag", pruned.Tag())
		}
	}

	if d.table.Countable() == 0 && (!d.flags.ExitOnlyAfterTerminate() || d.flags.Terminating()) {
		return nil, nil
	}

	var timeoutSrc api.Source
	minTimeout := -1.0
	d.table.ForEachOpen(func(src api.Source) {
		t := src.GetNextTimeout()
		if math.IsNaN(t) || (t < 0 && t != -1) {
			t = -1
		}
		if t < 0 {
			return
		}
		if timeoutSrc == nil || t < minTimeout {
			minTimeout = t
			timeoutSrc = src
		}
	})

	if timeoutSrc != nil && minTimeout == 0 {
		if d.zeroTimeoutCount%100 != 0 {
			d.zeroTimeoutCount++
			return []api.Source{timeoutSrc}, nil
		}
		d.zeroTimeoutCount = 1
		// fall through to a real backend poll every 100th occurrence.
	} else {
		d.zeroTimeoutCount = 1
	}

	timeoutSeconds := minTimeout
	if timeoutSrc == nil {
		timeoutSeconds = -1
	}

	d.pollCount++
	out := make([]api.Source, 0)
	err := d.backend.Poll(&out, timeoutSeconds, timeoutSrc)
	if err != nil {
		if errors.Is(err, unix.EINTR) {
			return []api.Source{}, nil
		}
		if d.rep != nil {
			d.rep.Warning("backend poll failed", "err", err)
		}
		return []api.Source{}, nil
	}
	return d.drainWakeupHandler(out), nil
}

// drainWakeupHandler services the wakeup handler itself rather than
// surfacing it to the caller: it is bookkeeping internal to the loop,
// not a producer the surrounding engine should know how to Process.
func (d *LoopDriver) drainWakeupHandler(in []api.Source) []api.Source {
	filtered := in[:0]
	for _, src := range in {
		if src == api.Source(d.wakeupHandler) {
			d.wakeupHandler.Process()
			continue
		}
		filtered = append(filtered, src)
	}
	return filtered
}

// Shutdown finalizes every remaining source, deliberately sequencing
// the WakeupHandler's Done last so a racing Wakeup from another thread
// during teardown can never fire an already-destroyed flare (see
// design note on the wakeup/destruction race), then closes the
// backend. After Shutdown, Wakeup is a permanent no-op.
func (d *LoopDriver) Shutdown() error {
	if !d.closed.CompareAndSwap(false, true) {
		return nil
	}
	d.table.ForEachAll(func(src api.Source) {
		if src == api.Source(d.wakeupHandler) {
			return
		}
		src.Done()
	})
	d.wakeupHandler.Done()
	return d.backend.Close()
}

// SourceCount and DontCountSources expose introspection for
// control.DebugProbes / control.MetricsRegistry wiring.
func (d *LoopDriver) SourceCount() int       { return d.table.Len() }
func (d *LoopDriver) DontCountSources() int  { return d.table.DontCounts() }
func (d *LoopDriver) ZeroTimeoutStreak() int { return d.zeroTimeoutCount }
func (d *LoopDriver) PollCount() int         { return d.pollCount }
