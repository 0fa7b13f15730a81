package crawl

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
)

func TestVisitedSet_SeedIsClaimed(t *testing.T) {
	v := NewVisitedSet("A")
	if v.TryClaim("A") {
		t.Error("start node must already be claimed")
	}
	if !v.Contains("A") || v.Len() != 1 {
		t.Errorf("unexpected state: contains=%v len=%d", v.Contains("A"), v.Len())
	}
	if l := v.CloseLevel(); len(l) != 0 {
		t.Errorf("seed must not enter a pending level, got %v", l)
	}
}

func TestVisitedSet_ConcurrentClaimSameNode(t *testing.T) {
	const callers = 64
	for round := range 50 {
		v := NewVisitedSet("start")
		var wins atomic.Int32
		var wg sync.WaitGroup
		ready := make(chan struct{})

		for range callers {
			wg.Add(1)
			go func() {
				defer wg.Done()
				<-ready
				if v.TryClaim("D") {
					wins.Add(1)
				}
			}()
		}
		close(ready)
		wg.Wait()

		if wins.Load() != 1 {
			t.Fatalf("round %d: %d callers claimed D, want exactly 1", round, wins.Load())
		}
		if l := v.CloseLevel(); len(l) != 1 || l[0] != "D" {
			t.Fatalf("round %d: pending level %v, want [D]", round, l)
		}
	}
}

func TestVisitedSet_NoLostUpdates(t *testing.T) {
	const workers, perWorker = 16, 200
	v := NewVisitedSet("start")
	var wg sync.WaitGroup

	for w := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			// Every worker claims the shared range and a private range.
			for i := range perWorker {
				v.TryClaim(fmt.Sprintf("shared-%d", i))
				v.TryClaim(fmt.Sprintf("w%d-%d", w, i))
			}
		}()
	}
	wg.Wait()

	level := v.CloseLevel()
	want := perWorker + workers*perWorker
	if len(level) != want {
		t.Fatalf("got %d claimed nodes, want %d", len(level), want)
	}
	seen := make(map[string]bool, len(level))
	for _, n := range level {
		if seen[n] {
			t.Fatalf("node %q appended twice", n)
		}
		seen[n] = true
	}
	if v.Len() != want+1 {
		t.Errorf("visited len %d, want %d", v.Len(), want+1)
	}
}

func TestVisitedSet_CloseLevelResetsBuffer(t *testing.T) {
	v := NewVisitedSet("A")
	v.TryClaim("B")
	first := v.CloseLevel()
	v.TryClaim("C")
	v.TryClaim("B")
	second := v.CloseLevel()

	if len(first) != 1 || first[0] != "B" {
		t.Errorf("first level %v, want [B]", first)
	}
	if len(second) != 1 || second[0] != "C" {
		t.Errorf("second level %v, want [C]", second)
	}
	if third := v.CloseLevel(); third == nil || len(third) != 0 {
		t.Errorf("empty level should be non-nil and empty, got %#v", third)
	}
}
