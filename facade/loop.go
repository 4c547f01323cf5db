// File: facade/loop.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Package facade aggregates the I/O source multiplexer behind a single
// entry point: one struct wiring the driver, plugin registry, and
// control primitives together behind immutable Config.

package facade

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/momentics/netmux/adapters"
	"github.com/momentics/netmux/api"
	"github.com/momentics/netmux/backend"
	"github.com/momentics/netmux/control"
	"github.com/momentics/netmux/iosource"
	"github.com/momentics/netmux/plugin"
)

// Config holds parameters immutable per run.
type Config struct {
	// ExitOnlyAfterTerminate mirrors the engine-wide flag from §6: when
	// true, the loop keeps running with only dont-count sources present
	// until Terminate is called.
	ExitOnlyAfterTerminate bool

	// BackendKind is informational only; the actual backend is chosen
	// at build time via the Go files compiled for the target OS.
	BackendKind string

	EnableDebugProbes bool
	EnableMetrics     bool

	// PinMainLoop, when true, pins the goroutine calling Run to a
	// single CPU for its lifetime (see affinity package). NUMANode
	// selects the CPU id used for that pin; -1 disables it even if
	// PinMainLoop is true.
	PinMainLoop bool
	NUMANode    int
}

// DefaultConfig returns sane defaults.
func DefaultConfig() *Config {
	return &Config{
		ExitOnlyAfterTerminate: false,
		BackendKind:            defaultBackendKind(),
		EnableDebugProbes:      true,
		EnableMetrics:          true,
		PinMainLoop:            false,
		NUMANode:               -1,
	}
}

// Loop is the main facade type wiring the multiplexer's driver, plugin
// registry, and control primitives together. It implements
// api.GracefulShutdown.
type Loop struct {
	config   *Config
	driver   *iosource.LoopDriver
	registry *plugin.Registry
	flags    *control.EngineFlags
	rep      api.Reporter
	debug    *control.DebugProbes
	metrics  *control.MetricsRegistry
	affinity api.Affinity

	mu      sync.Mutex
	started bool
	dumpers []api.Dumper
}

var _ api.GracefulShutdown = (*Loop)(nil)

// New constructs a Loop over the build's selected backend. A non-nil
// error here is an unrecoverable configuration failure (backend init
// failure per §7); the caller decides whether to treat it as fatal.
func New(cfg *Config) (*Loop, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	rep := control.NewLogReporter("netmux: ")
	flags := control.NewEngineFlags(cfg.ExitOnlyAfterTerminate)

	l := &Loop{
		config:   cfg,
		registry: plugin.NewRegistry(),
		flags:    flags,
		rep:      rep,
		debug:    control.NewDebugProbes(),
		metrics:  control.NewMetricsRegistry(),
		affinity: adapters.NewAffinityAdapter(),
	}

	waker := &driverWaker{loop: l}
	be, err := backend.New(waker, rep)
	if err != nil {
		return nil, fmt.Errorf("facade: backend init: %w", err)
	}

	driver, err := iosource.New(be, rep, flags)
	if err != nil {
		be.Close()
		return nil, fmt.Errorf("facade: driver init: %w", err)
	}
	l.driver = driver
	waker.driver = driver

	if cfg.EnableDebugProbes {
		control.RegisterPlatformProbes(l.debug)
		l.debug.RegisterProbe("loop.sources", func() any { return l.driver.SourceCount() })
		l.debug.RegisterProbe("loop.dont_count_sources", func() any { return l.driver.DontCountSources() })
		l.debug.RegisterProbe("loop.zero_timeout_streak", func() any { return l.driver.ZeroTimeoutStreak() })
	}

	return l, nil
}

// driverWaker breaks the New-time chicken/egg between constructing the
// backend (which needs a Waker) and the driver (which owns the actual
// Wakeup implementation): it forwards to driver once assigned.
type driverWaker struct {
	loop   *Loop
	driver *iosource.LoopDriver
}

func (w *driverWaker) Wakeup(where string) {
	if w.driver != nil {
		w.driver.Wakeup(where)
	}
}

// Register adds src to the loop, initializing it on first
// registration.
func (l *Loop) Register(src api.Source, dontCount bool) error {
	return l.driver.Register(src, dontCount)
}

// OpenPktSrc opens a packet source by "prefix::path" spec via the
// plugin registry and registers it (packet sources are always
// counted).
func (l *Loop) OpenPktSrc(path string, isLive bool) (api.Source, error) {
	return plugin.OpenPktSrc(l.registry, l.driver, path, isLive)
}

// OpenPktDumper opens a packet dumper by "prefix::path" spec via the
// plugin registry. Dumpers are tracked separately from the source
// table and torn down together at Shutdown.
func (l *Loop) OpenPktDumper(path string, appendMode bool) (api.Dumper, error) {
	d, err := plugin.OpenPktDumper(l.registry, path, appendMode)
	if err != nil {
		return nil, err
	}
	l.mu.Lock()
	l.dumpers = append(l.dumpers, d)
	l.mu.Unlock()
	return d, nil
}

// RegisterPktSrcComponent exposes the plugin registry to callers that
// need to install their own capture-device or trace-reader factories.
func (l *Loop) RegisterPktSrcComponent(c api.PktSrcComponent) {
	l.registry.RegisterSource(c)
}

// RegisterPktDumperComponent installs a packet-dumper factory.
func (l *Loop) RegisterPktDumperComponent(c api.PktDumperComponent) {
	l.registry.RegisterDumper(c)
}

// Tick performs exactly one FindReadySources call, running Process on
// every returned source before returning it to the caller.
func (l *Loop) Tick() ([]api.Source, error) {
	ready, err := l.driver.FindReadySources()
	if err != nil {
		return nil, err
	}
	for _, src := range ready {
		src.Process()
	}
	l.recordMetrics(ready)
	return ready, nil
}

// recordMetrics pushes the driver's live counters into MetricsRegistry
// after each tick, when metrics collection is enabled.
func (l *Loop) recordMetrics(ready []api.Source) {
	if !l.config.EnableMetrics {
		return
	}
	l.metrics.Set("loop.ready_sources", len(ready))
	l.metrics.Set("loop.sources", l.driver.SourceCount())
	l.metrics.Set("loop.dont_count_sources", l.driver.DontCountSources())
	l.metrics.Set("loop.zero_timeout_streak", l.driver.ZeroTimeoutStreak())
	l.metrics.Set("loop.polls", l.driver.PollCount())
}

// Run drives Tick in a loop until ctx is done, the engine terminates
// (Tick returns a nil slice with no error and no sources — the
// canonical termination signal from §4.2 step 2), or Tick errors.
// process, if non-nil, is invoked with each tick's ready sources after
// their Process methods have already run, for caller-level bookkeeping
// (metrics, scripted callbacks, etc.).
func (l *Loop) Run(ctx context.Context, process func([]api.Source)) error {
	l.mu.Lock()
	l.started = true
	l.mu.Unlock()

	if l.config.PinMainLoop && l.config.NUMANode >= 0 {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
		if err := l.affinity.Pin(l.config.NUMANode); err != nil {
			l.rep.Warning("facade: main loop affinity pin failed", "err", err)
		}
		defer l.affinity.Unpin()
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		ready, err := l.driver.FindReadySources()
		if err != nil {
			return err
		}
		// A nil (as opposed to empty) slice is FindReadySources's
		// termination signal (§4.2 step 2): the countable set has
		// dropped to zero and the engine should exit.
		if ready == nil {
			return nil
		}
		for _, src := range ready {
			src.Process()
		}
		l.recordMetrics(ready)
		if process != nil {
			process(ready)
		}
	}
}

// Wakeup fires the loop's flare from any goroutine.
func (l *Loop) Wakeup(where string) {
	l.driver.Wakeup(where)
}

// Terminate flips the engine-wide terminating flag observed by
// FindReadySources's termination check.
func (l *Loop) Terminate() {
	l.flags.Terminate()
}

// RemoveAllSources forces termination on the next tick without
// mutating the source list, per §5's RemoveAll draining operation.
func (l *Loop) RemoveAllSources() {
	l.driver.RemoveAll()
}

// Debug and Metrics expose debug probes and metrics for external
// introspection.
func (l *Loop) Debug() api.Debug                  { return l.debug }
func (l *Loop) Metrics() *control.MetricsRegistry { return l.metrics }

// Shutdown finalizes every remaining source and dumper and releases
// the backend. Safe to call once; a second call is a no-op via the
// driver's own idempotent Shutdown.
func (l *Loop) Shutdown() error {
	l.mu.Lock()
	dumpers := l.dumpers
	l.dumpers = nil
	l.mu.Unlock()

	for _, d := range dumpers {
		d.Done()
	}
	return l.driver.Shutdown()
}
