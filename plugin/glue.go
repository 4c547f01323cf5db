// File: plugin/glue.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// OpenPktSrc/OpenPktDumper glue: consults a Registry by the "prefix::
// rest" grammar, invokes the matching component's factory, and (for
// sources) registers the result with the loop. Grounded on
// original_source's ManagerBase::OpenPktSrc/OpenPktDumper.

package plugin

import (
	"fmt"

	"github.com/momentics/netmux/api"
)

// Registrar is the subset of iosource.LoopDriver this package needs.
// Packet sources are always counted (dont_count=false); the driver
// itself decides whether a duplicate registration is possible.
type Registrar interface {
	Register(src api.Source, dontCount bool) error
}

// OpenPktSrc resolves path against reg using the "prefix::rest"
// grammar (defaulting to DefaultPrefix), constructs the source via the
// matching component's Factory, and registers it with registrar.
// Failure to find a matching component is fatal per §4.4/§7 — returned
// as an error rather than aborting the process, per this module's
// idiomatic-Go error handling.
func OpenPktSrc(reg *Registry, registrar Registrar, path string, isLive bool) (api.Source, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: empty source path", api.ErrInvalidArgument)
	}
	prefix, rest := SplitPrefix(path)
	comp, ok := reg.FindSource(prefix, isLive)
	if !ok {
		return nil, fmt.Errorf("%w: prefix %q for path %q", api.ErrNoPluginMatch, prefix, path)
	}

	src, err := comp.Factory(rest, isLive)
	if err != nil {
		return nil, fmt.Errorf("plugin %s: factory failed for %q: %w", comp.Name(), path, err)
	}

	attachCannedError(src, path)

	if err := registrar.Register(src, false); err != nil {
		return nil, fmt.Errorf("registering source %q: %w", src.Tag(), err)
	}
	return src, nil
}

// OpenPktDumper resolves path against reg and constructs the dumper
// via the matching component's Factory, initializing it before return.
// Dumpers follow their own simpler lifecycle and are never registered
// with the loop's SourceTable.
func OpenPktDumper(reg *Registry, path string, appendMode bool) (api.Dumper, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: empty dumper path", api.ErrInvalidArgument)
	}
	prefix, rest := SplitPrefix(path)
	comp, ok := reg.FindDumper(prefix)
	if !ok {
		return nil, fmt.Errorf("%w: prefix %q for path %q", api.ErrNoPluginMatch, prefix, path)
	}

	dumper, err := comp.Factory(rest, appendMode)
	if err != nil {
		return nil, fmt.Errorf("plugin %s: factory failed for %q: %w", comp.Name(), path, err)
	}
	if err := dumper.Init(); err != nil {
		return nil, fmt.Errorf("dumper %q: init failed: %w", dumper.Tag(), err)
	}
	return dumper, nil
}

// attachCannedError gives every plugin a uniform "could not open"
// message when a source constructs successfully but reports itself
// closed and errored, so callers never have to parse plugin-specific
// error text.
func attachCannedError(src api.Source, path string) {
	if src.IsOpen() || !src.IsError() {
		return
	}
	setter, ok := src.(api.ErrorSetter)
	if !ok {
		return
	}
	setter.SetError(fmt.Sprintf("could not open %q", path))
}
