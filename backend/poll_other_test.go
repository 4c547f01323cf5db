//go:build !linux && !darwin && !dragonfly && !freebsd && !netbsd && !openbsd

package backend_test

import (
	"testing"

	"golang.org/x/sys/unix"

	"github.com/momentics/netmux/api"
	"github.com/momentics/netmux/backend"
)

// TestPollBackendClosedFdWarns covers spec scenario S6 for the
// portable poll(2) fallback: poll(2) can't detect a closed fd at
// registration time the way epoll_ctl/kevent can, so the source
// survives RegisterFd but must be dropped with a warning at the next
// Poll once POLLNVAL comes back.
func TestPollBackendClosedFdWarns(t *testing.T) {
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

	var ready []api.Source
	if err := b.Poll(&ready, 0.01, nil); err != nil {
		t.Fatalf("Poll: %v", err)
	}
	if len(ready) != 0 {
		t.Fatalf("expected closed-fd source excluded from ready set, got %v", ready)
	}
	if len(rep.warnings) == 0 {
		t.Fatalf("expected a warning for the closed fd")
	}
	found := false
	for _, kv := range rep.warnings[len(rep.warnings)-1] {
		if kv == "closed-pipe" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected warning to reference source tag, got %v", rep.warnings)
	}
}
