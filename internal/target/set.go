package target

import "sort"

// Set is an unordered, deduplicated collection of target IDs.
type Set map[ID]struct{}

// NewSet builds a Set from the given IDs.
func NewSet(ids ...ID) Set {
	s := make(Set, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Add inserts id into the set.
func (s Set) Add(id ID) {
	s[id] = struct{}{}
}

// Contains reports whether id is a member of the set.
func (s Set) Contains(id ID) bool {
	_, ok := s[id]
	return ok
}

// AddAll inserts every member of other into the set.
func (s Set) AddAll(other Set) {
	for id := range other {
		s[id] = struct{}{}
	}
}

// Union returns a new set holding the members of both sets.
func Union(a, b Set) Set {
	out := make(Set, len(a)+len(b))
	out.AddAll(a)
	out.AddAll(b)
	return out
}

// Sorted returns the members of the set in their total order. This is the
// canonical way to iterate a set when determinism matters.
func (s Set) Sorted() []ID {
	ids := make([]ID, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].Less(ids[j]) })
	return ids
}

// Strings returns the canonical string form of every member, sorted.
func (s Set) Strings() []string {
	ids := s.Sorted()
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}
