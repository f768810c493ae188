// File: predicate.go
// Role: PredicateFactSet — dense per-predicate-group atom membership with a
// delta of what was added since the last AdvanceDelta. One bitset per
// predicate group, each dense over that group's own GroundAtom numbering.
package facts

import (
	"sync"

	"github.com/bits-and-blooms/bitset"

	"github.com/liftedplan/kpkc/ir"
)

// PredicateFactSet tracks, for every predicate group, which GroundAtom
// values currently hold, and which have been added since the last
// AdvanceDelta call.
type PredicateFactSet struct {
	mu      sync.RWMutex
	present map[ir.Index]*bitset.BitSet
	delta   map[ir.Index]*bitset.BitSet
}

// NewPredicateFactSet returns an empty fact set.
func NewPredicateFactSet() *PredicateFactSet {
	return &PredicateFactSet{
		present: make(map[ir.Index]*bitset.BitSet),
		delta:   make(map[ir.Index]*bitset.BitSet),
	}
}

// Add records idx as holding. A no-op on a duplicate; reports whether this
// call was the first time idx was added, the novelty signal the engine's
// merge step needs.
func (s *PredicateFactSet) Add(idx ir.GroupIndex) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	present := s.bitsetFor(s.present, idx.Group)
	if present.Test(uint(idx.Value)) {
		return false
	}
	present.Set(uint(idx.Value))
	s.bitsetFor(s.delta, idx.Group).Set(uint(idx.Value))
	return true
}

// Remove clears idx from present, leaving its delta bit untouched (a delete
// effect is not itself a new derivation). Package plan's successor
// applicator calls this for every del effect of an applied ground action.
// Reports whether idx had been present.
func (s *PredicateFactSet) Remove(idx ir.GroupIndex) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.present[idx.Group]
	if !ok || !b.Test(uint(idx.Value)) {
		return false
	}
	b.Clear(uint(idx.Value))
	return true
}

// Contains reports whether idx currently holds.
func (s *PredicateFactSet) Contains(idx ir.GroupIndex) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.present[idx.Group]
	if !ok {
		return false
	}
	return b.Test(uint(idx.Value))
}

// Delta returns the set of atoms of group added since the last AdvanceDelta
// (or since construction). The returned bitset is a snapshot copy, safe to
// keep past the next mutation.
func (s *PredicateFactSet) Delta(group ir.Index) *bitset.BitSet {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if b, ok := s.delta[group]; ok {
		return b.Clone()
	}
	return bitset.New(0)
}

// Present returns the set of atoms of group currently holding, regardless
// of when they were added. The returned bitset is a snapshot copy.
func (s *PredicateFactSet) Present(group ir.Index) *bitset.BitSet {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if b, ok := s.present[group]; ok {
		return b.Clone()
	}
	return bitset.New(0)
}

// DeltaGroups returns every group with a non-empty delta.
func (s *PredicateFactSet) DeltaGroups() []ir.Index {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []ir.Index
	for g, b := range s.delta {
		if b.Any() {
			out = append(out, g)
		}
	}
	return out
}

// AdvanceDelta clears every group's delta, folding it into "present" for
// good (present is untouched; delta is cleared to start the next round's
// accounting), matching the engine's "advance to the next bucket" boundary.
func (s *PredicateFactSet) AdvanceDelta() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for g := range s.delta {
		s.delta[g].ClearAll()
	}
}

// Clone returns an independent deep copy of s, present and delta bitsets
// included. Package plan uses this to give every search node its own
// Fluent/Derived PredicateFactSet descending from a shared initial state,
// the way facts.PredicateFactSet's single mutable instance cannot serve
// more than one in-flight node at a time.
func (s *PredicateFactSet) Clone() *PredicateFactSet {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := NewPredicateFactSet()
	for g, b := range s.present {
		out.present[g] = b.Clone()
	}
	for g, b := range s.delta {
		out.delta[g] = b.Clone()
	}
	return out
}

// Reset empties every group's present and delta bitsets, keeping the
// backing map (and its capacity) for reuse — Derived predicates recompute
// from scratch each time their stratum runs.
func (s *PredicateFactSet) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for g := range s.present {
		s.present[g].ClearAll()
	}
	for g := range s.delta {
		s.delta[g].ClearAll()
	}
}

// Count returns the number of atoms of group currently present.
func (s *PredicateFactSet) Count(group ir.Index) uint {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if b, ok := s.present[group]; ok {
		return b.Count()
	}
	return 0
}

func (s *PredicateFactSet) bitsetFor(m map[ir.Index]*bitset.BitSet, group ir.Index) *bitset.BitSet {
	b, ok := m[group]
	if !ok {
		b = bitset.New(64)
		m[group] = b
	}
	return b
}
