//go:build darwin || dragonfly || freebsd || netbsd || openbsd

// control/platform_bsd.go
// Author: momentics <momentics@gmail.com>
//
// BSD-family platform debug probes.

package control

import "runtime"

// RegisterPlatformProbes sets BSD-family-specific debug metrics.
func RegisterPlatformProbes(dp *DebugProbes) {
	dp.RegisterProbe("platform.cpus", func() any {
		return runtime.NumCPU()
	})
	dp.RegisterProbe("platform.backend", func() any {
		return "kqueue"
	})
}
