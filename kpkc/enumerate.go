// File: enumerate.go
// Role: the delta-kPKC walk itself — depth-first search over the dynamic
// k-partite graph, candidate bitsets refined by intersection at each
// depth, emitting only cliques that are actually new this iteration: one
// whose vertices were all already affected, and whose edges were all
// already adjacent, before this iteration began is never re-emitted.
package kpkc

import "github.com/bits-and-blooms/bitset"

// Binding is one fully bound rule parameter tuple: Binding[pos] is the
// object assigned to rule parameter pos.
type Binding []int

// Emit is called once per newly-discovered clique. Returning an error
// aborts the walk and propagates out of Enumerate.
type Emit func(b Binding) error

// Enumerate walks every k-clique of s's current dynamic adjacency that is
// new this iteration — touching at least one delta vertex or crossing at
// least one delta edge — depth-first, partition order 0..k-1, emitting
// each via emit exactly once. A candidate bitset per remaining partition
// is threaded down the call stack and refined at each step, with the
// "did this path touch delta yet" flag carried alongside it.
func Enumerate(s *RuleState, emit Emit) error {
	k := s.Arity()
	if k == 0 {
		// A nullary rule's body is trivially a single empty clique. With no
		// partitions there is no delta to consult, so the empty binding is
		// emitted on every call and the caller's applicability check
		// decides whether the body holds.
		return emit(Binding{})
	}

	cands := make([]*bitset.BitSet, k)
	for p := 0; p < k; p++ {
		cands[p] = s.Affected(p).Clone()
	}

	binding := make(Binding, k)
	return walk(s, 0, binding, cands, false, emit)
}

func walk(s *RuleState, depth int, binding Binding, cands []*bitset.BitSet, sawDelta bool, emit Emit) error {
	k := s.Arity()
	if depth == k {
		if !sawDelta && !sawDeltaEdge(s, binding) {
			return nil
		}
		out := make(Binding, k)
		copy(out, binding)
		return emit(out)
	}

	frontier := cands[depth]
	for v, ok := frontier.NextSet(0); ok; v, ok = frontier.NextSet(v + 1) {
		vi := int(v)
		binding[depth] = vi
		nextSaw := sawDelta || s.Delta(depth).Test(v)

		next := make([]*bitset.BitSet, k)
		feasible := true
		for p := depth + 1; p < k; p++ {
			row := s.Row(depth, vi, p)
			refined := cands[p].Clone()
			refined.InPlaceIntersection(row)
			if refined.None() {
				feasible = false
				break
			}
			next[p] = refined
		}
		if !feasible {
			continue
		}
		if err := walk(s, depth+1, binding, next, nextSaw, emit); err != nil {
			return err
		}
	}
	return nil
}

// sawDeltaEdge reports whether a completed binding crosses at least one
// fluent edge that newly became adjacent this iteration, even though every
// vertex it uses was already affected before this iteration started: two
// positive Fluent literals over the same partition pair can each arrive a
// different iteration apart, so the edge between their shared vertices is
// the only thing actually new, and delta-kPKC's completeness depends on
// that case still being emitted.
func sawDeltaEdge(s *RuleState, binding Binding) bool {
	k := s.Arity()
	for i := 0; i < k; i++ {
		for j := i + 1; j < k; j++ {
			if s.DeltaEdge(i, binding[i], j, binding[j]) {
				return true
			}
		}
	}
	return false
}
