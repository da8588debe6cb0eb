package tree

import "sort"

// OpenSet holds the ids of expanded folders. Values are treated as
// immutable snapshots: the mutating helpers return a new set so a committed
// snapshot never changes under a reader. Ids of folders that no longer exist
// are harmless and ignored by Flatten.
type OpenSet map[string]struct{}

// NewOpenSet returns a set containing ids.
func NewOpenSet(ids ...string) OpenSet {
	s := make(OpenSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Has reports whether id is open. Safe on a nil set.
func (s OpenSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// Len returns the number of open ids.
func (s OpenSet) Len() int {
	return len(s)
}

// Clone returns an independent copy.
func (s OpenSet) Clone() OpenSet {
	c := make(OpenSet, len(s))
	for id := range s {
		c[id] = struct{}{}
	}
	return c
}

// With returns a copy of s with ids added.
func (s OpenSet) With(ids ...string) OpenSet {
	c := s.Clone()
	for _, id := range ids {
		c[id] = struct{}{}
	}
	return c
}

// Without returns a copy of s with id removed.
func (s OpenSet) Without(id string) OpenSet {
	c := s.Clone()
	delete(c, id)
	return c
}

// Toggled returns a copy of s with id's membership flipped.
func (s OpenSet) Toggled(id string) OpenSet {
	if s.Has(id) {
		return s.Without(id)
	}
	return s.With(id)
}

// Equal reports whether both sets hold the same ids.
func (s OpenSet) Equal(o OpenSet) bool {
	if len(s) != len(o) {
		return false
	}
	for id := range s {
		if !o.Has(id) {
			return false
		}
	}
	return true
}

// IDs returns the open ids sorted, for stable output and persistence.
func (s OpenSet) IDs() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
