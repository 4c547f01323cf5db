// Package control
// Author: momentics <momentics@gmail.com>
//
// Runtime metrics and debug introspection layer for the netmux main
// loop.
//
// Provides concurrent-safe state handling primitives including:
//   - The two engine-wide flags the loop reads every tick (EngineFlags)
//   - Metrics telemetry contracts
//   - State export, debug hooks, and probe registration
//
// This package is cross-platform and build-tag-partitioned as needed.
package control
