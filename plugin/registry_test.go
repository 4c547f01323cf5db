package plugin_test

import (
	"testing"

	"github.com/momentics/netmux/api"
	"github.com/momentics/netmux/plugin"
)

func TestFindSourceCaseSensitive(t *testing.T) {
	reg := plugin.NewRegistry()
	reg.RegisterSource(&stubComponent{
		name: "pcap", prefix: "pcap", live: true, trace: true,
		factory: func(path string, isLive bool) (api.Source, error) { return nil, nil },
	})

	if _, ok := reg.FindSource("PCAP", true); ok {
		t.Fatalf("expected case-sensitive prefix match to fail for PCAP")
	}
	if _, ok := reg.FindSource("pcap", true); !ok {
		t.Fatalf("expected exact-case prefix match to succeed")
	}
}

func TestFindSourceRespectsLiveTraceCapability(t *testing.T) {
	reg := plugin.NewRegistry()
	reg.RegisterSource(&stubComponent{
		name: "trace-only", prefix: "pcap", live: false, trace: true,
		factory: func(path string, isLive bool) (api.Source, error) { return nil, nil },
	})

	if _, ok := reg.FindSource("pcap", true); ok {
		t.Fatalf("expected live request to be rejected by a trace-only component")
	}
	if _, ok := reg.FindSource("pcap", false); !ok {
		t.Fatalf("expected trace request to match the trace-only component")
	}
}

func TestFindSourceFirstMatchWins(t *testing.T) {
	reg := plugin.NewRegistry()
	first := &stubComponent{name: "first", prefix: "pcap", live: true, trace: true,
		factory: func(path string, isLive bool) (api.Source, error) { return nil, nil }}
	second := &stubComponent{name: "second", prefix: "pcap", live: true, trace: true,
		factory: func(path string, isLive bool) (api.Source, error) { return nil, nil }}
	reg.RegisterSource(first)
	reg.RegisterSource(second)

	got, ok := reg.FindSource("pcap", true)
	if !ok {
		t.Fatalf("expected a match")
	}
	if got.Name() != "first" {
		t.Fatalf("expected first-registered component to win, got %q", got.Name())
	}
}
