package iosource

import (
	"testing"

	"github.com/momentics/netmux/api"
)

type stubSource struct {
	tag     string
	open    bool
	timeout float64
	inits   int
	dones   int
}

func (s *stubSource) InitSource() error    { s.inits++; return nil }
func (s *stubSource) Done()                { s.dones++ }
func (s *stubSource) IsOpen() bool         { return s.open }
func (s *stubSource) IsError() bool        { return false }
func (s *stubSource) GetNextTimeout() float64 { return s.timeout }
func (s *stubSource) Process()             {}
func (s *stubSource) Tag() string          { return s.tag }

var _ api.Source = (*stubSource)(nil)

func TestSourceTableRegisterOnce(t *testing.T) {
	tab := NewSourceTable()
	src := &stubSource{tag: "a", open: true}

	isNew, err := tab.Register(src, false)
	if err != nil || !isNew {
		t.Fatalf("expected new registration, got isNew=%v err=%v", isNew, err)
	}
	isNew, err = tab.Register(src, true)
	if err != nil || isNew {
		t.Fatalf("expected duplicate registration to reconcile, got isNew=%v err=%v", isNew, err)
	}
	if src.inits != 1 {
		t.Fatalf("InitSource must run exactly once, ran %d times", src.inits)
	}
	if tab.DontCounts() != 1 {
		t.Fatalf("expected dont_counts=1 after flag flip, got %d", tab.DontCounts())
	}
}

func TestSourceTableDontCountsAccuracy(t *testing.T) {
	tab := NewSourceTable()
	a := &stubSource{tag: "a", open: true}
	b := &stubSource{tag: "b", open: true}
	c := &stubSource{tag: "c", open: true}

	tab.Register(a, true)
	tab.Register(b, false)
	tab.Register(c, true)

	if tab.DontCounts() != 2 {
		t.Fatalf("expected dont_counts=2, got %d", tab.DontCounts())
	}
	if tab.Countable() != 1 {
		t.Fatalf("expected countable=1, got %d", tab.Countable())
	}

	tab.Register(b, true)
	if tab.DontCounts() != 3 {
		t.Fatalf("expected dont_counts=3 after flipping b, got %d", tab.DontCounts())
	}
}

func TestSourceTablePruneOneDryPerCall(t *testing.T) {
	tab := NewSourceTable()
	a := &stubSource{tag: "a", open: false}
	b := &stubSource{tag: "b", open: false}
	c := &stubSource{tag: "c", open: true}
	tab.Register(a, false)
	tab.Register(b, false)
	tab.Register(c, false)

	pruned, ok := tab.PruneOneDry()
	if !ok || pruned != a {
		t.Fatalf("expected to prune a first, got %v ok=%v", pruned, ok)
	}
	if a.dones != 1 {
		t.Fatalf("expected Done called once on pruned source")
	}
	if tab.Len() != 2 {
		t.Fatalf("expected table length 2 after single prune, got %d", tab.Len())
	}

	pruned, ok = tab.PruneOneDry()
	if !ok || pruned != b {
		t.Fatalf("expected to prune b next, got %v ok=%v", pruned, ok)
	}

	_, ok = tab.PruneOneDry()
	if ok {
		t.Fatalf("expected no further dry sources to prune")
	}
}

func TestSourceTableRemoveAllForcesTermination(t *testing.T) {
	tab := NewSourceTable()
	a := &stubSource{tag: "a", open: true}
	b := &stubSource{tag: "b", open: true}
	tab.Register(a, false)
	tab.Register(b, false)

	tab.RemoveAll()

	if tab.Len() != 2 {
		t.Fatalf("RemoveAll must not mutate the source list, got len=%d", tab.Len())
	}
	if tab.DontCounts() != 2 {
		t.Fatalf("RemoveAll must set dont_counts to table size, got %d", tab.DontCounts())
	}
	if tab.Countable() != 0 {
		t.Fatalf("expected countable=0 after RemoveAll, got %d", tab.Countable())
	}
}

func TestSourceTableForEachOpenSkipsDry(t *testing.T) {
	tab := NewSourceTable()
	a := &stubSource{tag: "a", open: true}
	b := &stubSource{tag: "b", open: false}
	tab.Register(a, false)
	tab.Register(b, false)

	var seen []string
	tab.ForEachOpen(func(s api.Source) {
		seen = append(seen, s.Tag())
	})
	if len(seen) != 1 || seen[0] != "a" {
		t.Fatalf("expected only open source a, got %v", seen)
	}
}
