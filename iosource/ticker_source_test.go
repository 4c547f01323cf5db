package iosource_test

import (
	"testing"
	"time"

	"github.com/momentics/netmux/iosource"
)

func TestTickerSourceSchedulesAndFires(t *testing.T) {
	fired := 0
	ts := iosource.NewTickerSource("heartbeat", 5*time.Millisecond, func() { fired++ })

	if err := ts.InitSource(); err != nil {
		t.Fatalf("InitSource: %v", err)
	}
	if !ts.IsOpen() {
		t.Fatalf("expected source open after InitSource")
	}

	timeout := ts.GetNextTimeout()
	if timeout <= 0 || timeout > 0.005 {
		t.Fatalf("expected a small positive timeout, got %v", timeout)
	}

	time.Sleep(6 * time.Millisecond)
	if ts.GetNextTimeout() != 0 {
		t.Fatalf("expected timeout to clamp to 0 once past deadline")
	}

	ts.Process()
	if fired != 1 {
		t.Fatalf("expected Process to invoke fn once, got %d", fired)
	}

	next := ts.GetNextTimeout()
	if next <= 0 {
		t.Fatalf("expected Process to reschedule a future deadline, got %v", next)
	}

	ts.Done()
	if ts.IsOpen() {
		t.Fatalf("expected source closed after Done")
	}
}

func TestTickerSourceSetError(t *testing.T) {
	ts := iosource.NewTickerSource("t", time.Millisecond, nil)
	if ts.IsError() {
		t.Fatalf("expected no error initially")
	}
	ts.SetError("boom")
	if !ts.IsError() {
		t.Fatalf("expected IsError true after SetError")
	}
}
