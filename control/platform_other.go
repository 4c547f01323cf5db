//go:build !linux && !darwin && !dragonfly && !freebsd && !netbsd && !openbsd

// control/platform_other.go
// Author: momentics <momentics@gmail.com>
//
// Fallback platform debug probes for Unix variants without a dedicated
// epoll or kqueue backend.

package control

import "runtime"

// RegisterPlatformProbes sets fallback-poll-backend debug metrics.
func RegisterPlatformProbes(dp *DebugProbes) {
	dp.RegisterProbe("platform.cpus", func() any {
		return runtime.NumCPU()
	})
	dp.RegisterProbe("platform.backend", func() any {
		return "poll"
	})
}
