// File: control/reporter.go
// Author: momentics <momentics@gmail.com>
//
// Default api.Reporter implementation, backed by the standard library
// log package rather than a structured logger.

package control

import (
	"fmt"
	"log"
)

// LogReporter sends diagnostics to the standard library logger. Debug
// messages are prefixed distinctly from Warning/Fatal so they can be
// grepped out of noisy logs without a level-aware logging library.
type LogReporter struct {
	Prefix string
}

// NewLogReporter constructs a LogReporter with the given log prefix,
// e.g. "netmux: ".
func NewLogReporter(prefix string) *LogReporter {
	return &LogReporter{Prefix: prefix}
}

func (r *LogReporter) Debug(msg string, kv ...any) {
	log.Printf("%sdebug: %s%s", r.Prefix, msg, formatKV(kv))
}

func (r *LogReporter) Warning(msg string, kv ...any) {
	log.Printf("%swarning: %s%s", r.Prefix, msg, formatKV(kv))
}

func (r *LogReporter) Fatal(msg string, kv ...any) {
	log.Printf("%sfatal: %s%s", r.Prefix, msg, formatKV(kv))
}

func formatKV(kv []any) string {
	if len(kv) == 0 {
		return ""
	}
	out := " ("
	for i := 0; i+1 < len(kv); i += 2 {
		if i > 0 {
			out += ", "
		}
		out += toString(kv[i]) + "=" + toString(kv[i+1])
	}
	return out + ")"
}

func toString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case error:
		return t.Error()
	default:
		return fmt.Sprint(t)
	}
}
