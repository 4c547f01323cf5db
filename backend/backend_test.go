//go:build linux

package backend_test

import (
	"testing"

	"golang.org/x/sys/unix"

	"github.com/momentics/netmux/api"
	"github.com/momentics/netmux/backend"
)

func TestEpollBackendReadyOnWrite(t *testing.T) {
	var fds [2]int
	if err := unix.Pipe2(fds[:], unix.O_NONBLOCK|unix.O_CLOEXEC); err != nil {
		t.Fatalf("pipe2: %v", err)
	}
	defer unix.Close(fds[0])
	defer unix.Close(fds[1])

	w := &fakeWaker{}
	b, err := backend.New(w, &fakeReporter{})
	if err != nil {
		t.Fatalf("backend.New: %v", err)
	}
	defer b.Close()

	src := &fakeSource{tag: "test-pipe"}
	if err := b.RegisterFd(fds[0], src); err != nil {
		t.Fatalf("RegisterFd: %v", err)
	}
	if len(w.calls) != 1 || w.calls[0] != "RegisterFd" {
		t.Fatalf("expected RegisterFd wakeup, got %v", w.calls)
	}

	unix.Write(fds[1], []byte("x"))

	var ready []api.Source
	if err := b.Poll(&ready, 1, nil); err != nil {
		t.Fatalf("Poll: %v", err)
	}
	if len(ready) != 1 || ready[0] != src {
		t.Fatalf("expected [%v], got %v", src, ready)
	}
}

func TestEpollBackendTimeoutReturnsOwner(t *testing.T) {
	w := &fakeWaker{}
	b, err := backend.New(w, &fakeReporter{})
	if err != nil {
		t.Fatalf("backend.New: %v", err)
	}
	defer b.Close()

	timeoutSrc := &fakeSource{tag: "timer"}
	var ready []api.Source
	if err := b.Poll(&ready, 0.01, timeoutSrc); err != nil {
		t.Fatalf("Poll: %v", err)
	}
	if len(ready) != 1 || ready[0] != timeoutSrc {
		t.Fatalf("expected [%v], got %v", timeoutSrc, ready)
	}
}

func TestEpollBackendUnregisterWakes(t *testing.T) {
	var fds [2]int
	unix.Pipe2(fds[:], unix.O_NONBLOCK|unix.O_CLOEXEC)
	defer unix.Close(fds[0])
	defer unix.Close(fds[1])

	w := &fakeWaker{}
	b, _ := backend.New(w, &fakeReporter{})
	defer b.Close()

	src := &fakeSource{tag: "test-pipe"}
	b.RegisterFd(fds[0], src)
	if err := b.UnregisterFd(fds[0]); err != nil {
		t.Fatalf("UnregisterFd: %v", err)
	}
	if len(w.calls) != 2 || w.calls[1] != "UnregisterFd" {
		t.Fatalf("expected UnregisterFd wakeup, got %v", w.calls)
	}
}

// TestEpollBackendClosedFdWarns covers spec scenario S6: registering a
// source backed by an already-closed fd must produce an internal
// warning naming the source's Tag and must never surface it in a
// later ready set.
func TestEpollBackendClosedFdWarns(t *testing.T) {
	var fds [2]int
	if err := unix.Pipe2(fds[:], unix.O_NONBLOCK|unix.O_CLOEXEC); err != nil {
		t.Fatalf("pipe2: %v", err)
	}
	unix.Close(fds[0])
	unix.Close(fds[1])

	w := &fakeWaker{}
	rep := &fakeReporter{}
	b, err := backend.New(w, rep)
	if err != nil {
		t.Fatalf("backend.New: %v", err)
	}
	defer b.Close()

	src := &fakeSource{tag: "closed-pipe"}
	if err := b.RegisterFd(fds[0], src); err != nil {
		t.Fatalf("RegisterFd: %v", err)
	}
	if len(rep.warnings) != 1 {
		t.Fatalf("expected exactly one warning, got %v", rep.warnings)
	}
	found := false
	for _, kv := range rep.warnings[0] {
		if kv == "closed-pipe" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected warning to reference source tag, got %v", rep.warnings[0])
	}

	var ready []api.Source
	if err := b.Poll(&ready, 0.01, nil); err != nil {
		t.Fatalf("Poll: %v", err)
	}
	if len(ready) != 0 {
		t.Fatalf("expected closed-fd source excluded from ready set, got %v", ready)
	}
}
