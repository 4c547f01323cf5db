// File: plugin/registry.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Registry is the component table the multiplexer consults to open
// packet sources and dumpers by prefix: a sync.RWMutex-guarded slice
// with a small, focused API, doing a linear first-match-wins scan.

package plugin

import (
	"sync"

	"github.com/momentics/netmux/api"
)

// DefaultPrefix is used when a source spec omits "prefix::".
const DefaultPrefix = "pcap"

// Registry holds registered packet-source and packet-dumper
// components, safe for concurrent registration and lookup.
type Registry struct {
	mu      sync.RWMutex
	sources []api.PktSrcComponent
	dumpers []api.PktDumperComponent
}

// NewRegistry constructs an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// RegisterSource adds a packet-source component.
func (r *Registry) RegisterSource(c api.PktSrcComponent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sources = append(r.sources, c)
}

// RegisterDumper adds a packet-dumper component.
func (r *Registry) RegisterDumper(c api.PktDumperComponent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.dumpers = append(r.dumpers, c)
}

// FindSource returns the first registered source component whose
// HandlesPrefix matches prefix and whose live/trace capability matches
// wantLive, mirroring ManagerBase::OpenPktSrc's linear scan.
func (r *Registry) FindSource(prefix string, wantLive bool) (api.PktSrcComponent, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, c := range r.sources {
		if !c.HandlesPrefix(prefix) {
			continue
		}
		if wantLive && !c.DoesLive() {
			continue
		}
		if !wantLive && !c.DoesTrace() {
			continue
		}
		return c, true
	}
	return nil, false
}

// FindDumper returns the first registered dumper component whose
// HandlesPrefix matches prefix.
func (r *Registry) FindDumper(prefix string) (api.PktDumperComponent, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, c := range r.dumpers {
		if c.HandlesPrefix(prefix) {
			return c, true
		}
	}
	return nil, false
}

// SplitPrefix parses a "prefix::rest" source spec, defaulting the
// prefix to DefaultPrefix when "::" is absent. The prefix is matched
// case-sensitively by callers; this function performs no case folding.
func SplitPrefix(spec string) (prefix, rest string) {
	for i := 0; i+1 < len(spec); i++ {
		if spec[i] == ':' && spec[i+1] == ':' {
			return spec[:i], spec[i+2:]
		}
	}
	return DefaultPrefix, spec
}
