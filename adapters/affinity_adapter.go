// File: adapters/affinity_adapter.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
// Description:
//   Adapter implementing the api.Affinity interface, delegating to the
//   affinity package for pinning the main loop's OS thread to a CPU.
//
// Package adapters provides glue code between the core API contracts
// and the internal implementation.

package adapters

import (
	"github.com/momentics/netmux/affinity"
	"github.com/momentics/netmux/api"
)

// AffinityAdapter implements api.Affinity using the affinity package.
// It tracks the currently pinned CPU so Get can report it without a
// platform-specific query.
type AffinityAdapter struct {
	currentCPU int
	pinned     bool
}

// NewAffinityAdapter creates a new AffinityAdapter with no CPU bound.
func NewAffinityAdapter() api.Affinity {
	return &AffinityAdapter{currentCPU: -1}
}

// Pin binds the calling OS thread to cpuID. A negative cpuID removes
// any binding instead, as Unpin does.
func (a *AffinityAdapter) Pin(cpuID int) error {
	if cpuID < 0 {
		return a.Unpin()
	}
	if err := affinity.Set(cpuID); err != nil {
		return err
	}
	a.currentCPU = cpuID
	a.pinned = true
	return nil
}

// Unpin releases any binding applied by Pin.
func (a *AffinityAdapter) Unpin() error {
	if err := affinity.Reset(); err != nil {
		return err
	}
	a.pinned = false
	a.currentCPU = -1
	return nil
}

// Get returns the CPU currently pinned by this adapter, or -1 if none.
func (a *AffinityAdapter) Get() (cpuID int, err error) {
	if !a.pinned {
		return -1, nil
	}
	return a.currentCPU, nil
}
