package crawl

import "sync"

// Level is the set of nodes discovered at one BFS distance from the start.
// Order within a level is incidental and not stable across runs.
type Level []string

// VisitedSet records every node ever placed into a level and buffers the
// nodes claimed during the level currently being expanded.
//
// A successful TryClaim inserts the node and appends it to the pending level
// inside one critical section, so no worker can observe one without the other.
type VisitedSet struct {
	mu      sync.Mutex
	seen    map[string]struct{}
	pending Level
}

// NewVisitedSet creates a set already containing start.
func NewVisitedSet(start string) *VisitedSet {
	return &VisitedSet{
		seen: map[string]struct{}{start: {}},
	}
}

// TryClaim marks node as discovered. It returns true exactly once per node
// for the lifetime of the set; only that caller's claim enters the pending level.
func (v *VisitedSet) TryClaim(node string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	if _, ok := v.seen[node]; ok {
		return false
	}
	v.seen[node] = struct{}{}
	v.pending = append(v.pending, node)

	return true
}

// CloseLevel freezes the nodes claimed since the previous call and starts an
// empty buffer for the next level. The returned level is never nil.
func (v *VisitedSet) CloseLevel() Level {
	v.mu.Lock()
	defer v.mu.Unlock()

	closed := v.pending
	if closed == nil {
		closed = Level{}
	}
	v.pending = nil

	return closed
}

// Contains reports whether node has been claimed or seeded.
func (v *VisitedSet) Contains(node string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	_, ok := v.seen[node]

	return ok
}

// Len returns the number of distinct nodes seen so far.
func (v *VisitedSet) Len() int {
	v.mu.Lock()
	defer v.mu.Unlock()

	return len(v.seen)
}
