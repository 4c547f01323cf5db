// File: api/plugin.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Contracts satisfied by packet-source and packet-dumper plugin
// components, looked up by the prefix in a "prefix::path" source spec.

package api

// PktSrcComponent describes a plugin capable of constructing a packet
// source for paths carrying a given prefix.
type PktSrcComponent interface {
	// Name identifies the component for logging.
	Name() string

	// HandlesPrefix reports whether this component owns the given
	// source-spec prefix (matched case-sensitively).
	HandlesPrefix(prefix string) bool

	// DoesLive reports whether this component can open live sources.
	DoesLive() bool

	// DoesTrace reports whether this component can open trace files.
	DoesTrace() bool

	// Factory constructs a concrete Source for the given path and mode.
	Factory(path string, isLive bool) (Source, error)
}

// PktDumperComponent describes a plugin capable of constructing a
// packet dumper for paths carrying a given prefix.
type PktDumperComponent interface {
	Name() string
	HandlesPrefix(prefix string) bool

	// Factory constructs a concrete dumper for the given path.
	Factory(path string, appendMode bool) (Dumper, error)
}

// Dumper is the parallel, simpler lifecycle for packet dumpers: opened,
// initialized, appended to a dumper list, destroyed at shutdown.
type Dumper interface {
	Init() error
	Done()
	IsOpen() bool
	IsError() bool
	Tag() string
}
