package device

import (
	"fmt"
	"sort"

	"github.com/muurk/fortictl/internal/conftree"
)

// StateName identifies one of the three configuration states a session
// tracks.
type StateName int

const (
	// Live is the device's actual configuration, replaced wholesale from
	// device reads and never patched locally.
	Live StateName = iota
	// Candidate is the desired target configuration, mutated only by
	// explicit loads.
	Candidate
	// Snapshot is the pre-change configuration captured when a commit
	// starts, restored by rollback.
	Snapshot
)

// String returns the state name used in logs.
func (n StateName) String() string {
	switch n {
	case Live:
		return "live"
	case Candidate:
		return "candidate"
	case Snapshot:
		return "snapshot"
	default:
		return fmt.Sprintf("StateName(%d)", int(n))
	}
}

// StateStore holds the three named configuration states together with the
// set of paths each was populated from. Exactly one instance exists per
// session, owned exclusively by it. Passing an unknown StateName is a
// programmer error and panics.
type StateStore struct {
	trees map[StateName]conftree.Tree
	paths map[StateName]map[string]struct{}
}

// NewStateStore creates a store with empty live and candidate trees. The
// snapshot stays nil until a commit captures it.
func NewStateStore() *StateStore {
	return &StateStore{
		trees: map[StateName]conftree.Tree{
			Live:      conftree.New(),
			Candidate: conftree.New(),
			Snapshot:  nil,
		},
		paths: map[StateName]map[string]struct{}{
			Live:      {},
			Candidate: {},
			Snapshot:  {},
		},
	}
}

func (s *StateStore) mustKnow(name StateName) {
	if _, ok := s.paths[name]; !ok {
		panic(fmt.Sprintf("device: unknown configuration state %d", int(name)))
	}
}

// Get returns the tree for the named state. The snapshot tree is nil until
// a commit has captured one.
func (s *StateStore) Get(name StateName) conftree.Tree {
	s.mustKnow(name)
	return s.trees[name]
}

// Replace swaps in a new tree for the named state and clears its recorded
// paths. This is the only way the live state may change.
func (s *StateStore) Replace(name StateName, tree conftree.Tree) {
	s.mustKnow(name)
	s.trees[name] = tree
	s.paths[name] = map[string]struct{}{}
}

// RecordPath marks a configuration path as loaded into the named state.
func (s *StateStore) RecordPath(name StateName, path string) {
	s.mustKnow(name)
	s.paths[name][path] = struct{}{}
}

// Paths returns the sorted set of paths the named state was populated from.
func (s *StateStore) Paths(name StateName) []string {
	s.mustKnow(name)
	out := make([]string, 0, len(s.paths[name]))
	for p := range s.paths[name] {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// CaptureSnapshot freezes the current live state (tree and paths) as the
// snapshot. The live tree is about to be replaced wholesale by a reload, so
// sharing the reference is safe.
func (s *StateStore) CaptureSnapshot() {
	s.trees[Snapshot] = s.trees[Live]
	paths := make(map[string]struct{}, len(s.paths[Live]))
	for p := range s.paths[Live] {
		paths[p] = struct{}{}
	}
	s.paths[Snapshot] = paths
}
