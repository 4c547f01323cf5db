package backend_test

// Shared fakes for backend_test.go, poll_other_test.go, and
// kqueue_bsd_test.go. Kept in a build-tag-free file since only one of
// the three OS-specific backend test files compiles for any given
// target, but all three need the same fakes.

type fakeWaker struct{ calls []string }

func (w *fakeWaker) Wakeup(where string) { w.calls = append(w.calls, where) }

type fakeReporter struct {
	warnings [][]any
}

func (r *fakeReporter) Debug(string, ...any) {}
func (r *fakeReporter) Warning(msg string, kv ...any) {
	r.warnings = append(r.warnings, append([]any{msg}, kv...))
}
func (r *fakeReporter) Fatal(string, ...any) {}

type fakeSource struct{ tag string }

func (f *fakeSource) InitSource() error       { return nil }
func (f *fakeSource) Done()                   {}
func (f *fakeSource) IsOpen() bool            { return true }
func (f *fakeSource) IsError() bool           { return false }
func (f *fakeSource) GetNextTimeout() float64 { return -1 }
func (f *fakeSource) Process()                {}
func (f *fakeSource) Tag() string             { return f.tag }
