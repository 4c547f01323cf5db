// Package api
// Author: momentics <momentics@gmail.com>
//
// Common error types and error handling utilities for the netmux library.

package api

import "fmt"

// Common errors used across the library.
var (
	ErrLoopClosed      = fmt.Errorf("loop is closed")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrNotSupported    = fmt.Errorf("operation not supported")
	ErrNoPluginMatch   = fmt.Errorf("no plugin component matches requested prefix")
)
