package workspace

import (
	"sort"
	"sync"

	"github.com/specialistvlad/workbench/internal/target"
)

// State records which project files have already been produced during one
// materializer run, keyed by output path. It is monotonic: entries are
// only ever added, never removed, and the first writer for a path wins.
// Safe for concurrent use.
type State struct {
	mu      sync.RWMutex
	written map[string]target.ID
}

// NewState creates an empty accumulator for one materializer run.
func NewState() *State {
	return &State{written: make(map[string]target.ID)}
}

// Claim marks path as produced on behalf of owner. It reports true when
// this call was the first to claim the path; a later claim for the same
// path leaves the original owner in place and reports false.
func (s *State) Claim(path string, owner target.ID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.written[path]; ok {
		return false
	}
	s.written[path] = owner
	return true
}

// Owner returns the target that first claimed path.
func (s *State) Owner(path string) (target.ID, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.written[path]
	return id, ok
}

// Paths returns every claimed path in sorted order.
func (s *State) Paths() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.written))
	for p := range s.written {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Len returns the number of claimed paths.
func (s *State) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.written)
}
