// File: api/reporter.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Reporter is the diagnostic sink internal warnings and fatal
// configuration errors are sent through. It generalizes the reporter
// object the surrounding engine already provides for other subsystems.

package api

// Reporter receives structured diagnostics from the multiplexer core.
// Warning corresponds to §7's "internal warning" outcome; Fatal is used
// only at construction time, for conditions the process cannot recover
// from (e.g. the OS refused to hand out an epoll/kqueue descriptor).
type Reporter interface {
	// Debug logs a low-severity diagnostic, e.g. a best-effort backend
	// register/unregister failure that the caller does not need to see.
	Debug(msg string, kv ...any)
	// Warning logs an internal warning: a structural fault the loop can
	// recover from but that a human should know about.
	Warning(msg string, kv ...any)
	// Fatal logs an unrecoverable configuration error. Callers decide
	// whether "fatal" means process exit; the core never calls os.Exit.
	Fatal(msg string, kv ...any)
}
