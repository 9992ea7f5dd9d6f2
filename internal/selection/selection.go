// Package selection implements the ID-set algebra behind the association
// editor: joining an item's name lists against a catalog, toggling
// membership, and mapping IDs back to names.
package selection

import (
	"slices"
)

// Entry is a catalog entry keyed by ID and displayed by name.
type Entry interface {
	EntryID() int64
	EntryName() string
}

// Set is a set of catalog IDs.
type Set map[int64]struct{}

// New returns a set holding ids.
func New(ids ...int64) Set {
	s := make(Set, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Derive joins names against catalog by name and returns the matching IDs.
// Names absent from the catalog are dropped. If two entries share a name,
// both IDs are selected.
func Derive[E Entry](names []string, catalog []E) Set {
	wanted := make(map[string]struct{}, len(names))
	for _, name := range names {
		wanted[name] = struct{}{}
	}

	s := make(Set)
	for _, e := range catalog {
		if _, ok := wanted[e.EntryName()]; ok {
			s[e.EntryID()] = struct{}{}
		}
	}
	return s
}

// Toggle inserts id if absent and removes it if present.
// It reports whether id is a member afterwards.
func (s Set) Toggle(id int64) bool {
	if _, ok := s[id]; ok {
		delete(s, id)
		return false
	}
	s[id] = struct{}{}
	return true
}

// Has reports whether id is in the set.
func (s Set) Has(id int64) bool {
	_, ok := s[id]
	return ok
}

// Len returns the number of IDs in the set.
func (s Set) Len() int {
	return len(s)
}

// IDs returns the members in ascending order. Never nil.
func (s Set) IDs() []int64 {
	ids := make([]int64, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Clone returns an independent copy.
func (s Set) Clone() Set {
	c := make(Set, len(s))
	for id := range s {
		c[id] = struct{}{}
	}
	return c
}

// Equal reports whether both sets hold the same IDs.
func (s Set) Equal(other Set) bool {
	if len(s) != len(other) {
		return false
	}
	for id := range s {
		if _, ok := other[id]; !ok {
			return false
		}
	}
	return true
}

// Contains reports whether catalog has an entry with id.
func Contains[E Entry](catalog []E, id int64) bool {
	for _, e := range catalog {
		if e.EntryID() == id {
			return true
		}
	}
	return false
}

// Prune removes IDs with no entry in catalog and returns the removed IDs.
func Prune[E Entry](s Set, catalog []E) []int64 {
	known := make(map[int64]struct{}, len(catalog))
	for _, e := range catalog {
		known[e.EntryID()] = struct{}{}
	}

	var removed []int64
	for id := range s {
		if _, ok := known[id]; !ok {
			delete(s, id)
			removed = append(removed, id)
		}
	}
	slices.Sort(removed)
	return removed
}

// Names returns the catalog names of the members, in catalog order.
func Names[E Entry](s Set, catalog []E) []string {
	names := make([]string, 0, len(s))
	for _, e := range catalog {
		if s.Has(e.EntryID()) {
			names = append(names, e.EntryName())
		}
	}
	return names
}
