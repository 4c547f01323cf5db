// File: iosource/wakeup_handler.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// WakeupHandler wraps a flare as an ordinary api.Source: it owns the
// flare's fd in the backend's fd map and drains it on Process.

package iosource

import (
	"github.com/momentics/netmux/api"
	"github.com/momentics/netmux/backend"
	"github.com/momentics/netmux/flare"
)

// WakeupHandler is registered in the SourceTable with dont_count=true
// so its mere presence never keeps the loop alive on its own.
type WakeupHandler struct {
	fl      flare.Flare
	backend backend.Backend
}

// NewWakeupHandler constructs a handler for fl, to be registered with
// the given backend once the source table calls InitSource.
func NewWakeupHandler(fl flare.Flare, be backend.Backend) *WakeupHandler {
	return &WakeupHandler{fl: fl, backend: be}
}

func (w *WakeupHandler) InitSource() error {
	return w.backend.RegisterFd(w.fl.FD(), w)
}

func (w *WakeupHandler) Done() {
	w.backend.UnregisterFd(w.fl.FD())
	w.fl.Close()
}

func (w *WakeupHandler) IsOpen() bool { return true }
func (w *WakeupHandler) IsError() bool { return false }

// GetNextTimeout never contributes a deadline of its own; readiness
// comes solely from the flare's fd being reported by the backend.
func (w *WakeupHandler) GetNextTimeout() float64 { return -1 }

// Process drains the flare so the fd goes back to not-readable.
func (w *WakeupHandler) Process() { w.fl.Extinguish() }

func (w *WakeupHandler) Tag() string { return "WakeupHandler" }

var _ api.Source = (*WakeupHandler)(nil)
