package flare_test

import (
	"testing"

	"github.com/momentics/netmux/flare"
	"golang.org/x/sys/unix"
)

func readable(t *testing.T, f flare.Flare) bool {
	t.Helper()
	fds := []unix.PollFd{{Fd: int32(f.FD()), Events: unix.POLLIN}}
	n, err := unix.Poll(fds, 0)
	if err != nil {
		t.Fatalf("poll: %v", err)
	}
	return n > 0 && fds[0].Revents&unix.POLLIN != 0
}

func TestFlareFireExtinguish(t *testing.T) {
	f, err := flare.New()
	if err != nil {
		t.Fatalf("flare.New: %v", err)
	}
	defer f.Close()

	if readable(t, f) {
		t.Fatal("flare readable before Fire")
	}

	f.Fire()
	if !readable(t, f) {
		t.Fatal("flare not readable after Fire")
	}

	// Repeated Fire must coalesce, not overflow any counter.
	f.Fire()
	f.Fire()

	f.Extinguish()
	if readable(t, f) {
		t.Fatal("flare still readable after Extinguish")
	}
}

func TestFlareConcurrentFire(t *testing.T) {
	f, err := flare.New()
	if err != nil {
		t.Fatalf("flare.New: %v", err)
	}
	defer f.Close()

	done := make(chan struct{})
	for i := 0; i < 8; i++ {
		go func() {
			f.Fire()
			done <- struct{}{}
		}()
	}
	for i := 0; i < 8; i++ {
		<-done
	}
	if !readable(t, f) {
		t.Fatal("flare not readable after concurrent Fire")
	}
}
