// File: predicate.go
// Role: PredicateAssignmentSet — boolean vertex/edge membership for one
// predicate's ground facts, with (position, object) tuples injectively
// flattened into a dense bit index the way a 2-D grid cell flattens into
// row*width+column.
package assign

import "github.com/bits-and-blooms/bitset"

// PredicateAssignmentSet records, for one predicate of a given arity over a
// universe of numObjects objects, every (position, object) singleton and
// every (position1, object1, position2, object2) pair that has appeared in
// at least one ground fact of that predicate.
type PredicateAssignmentSet struct {
	arity      int
	numObjects int

	vertices *bitset.BitSet // flat index: position*numObjects + object
	edges    *bitset.BitSet // flat index: see edgeIndex
}

// NewPredicateAssignmentSet allocates an empty set for a predicate of the
// given arity over numObjects objects.
func NewPredicateAssignmentSet(arity, numObjects int) *PredicateAssignmentSet {
	return &PredicateAssignmentSet{
		arity:      arity,
		numObjects: numObjects,
		vertices:   bitset.New(uint(arity * numObjects)),
		edges:      bitset.New(uint(arity * arity * numObjects * numObjects)),
	}
}

func (s *PredicateAssignmentSet) vertexIndex(position int, object int) uint {
	return uint(position*s.numObjects + object)
}

// edgeIndex flattens (pos1,obj1,pos2,obj2) into a single index: positions
// are the "rows", objects the "columns", nested one level deeper for the
// second pair member.
func (s *PredicateAssignmentSet) edgeIndex(pos1, obj1, pos2, obj2 int) uint {
	n := s.numObjects
	return uint(((pos1*s.arity+pos2)*n+obj1)*n + obj2)
}

// Add records a ground atom's arguments: every argument as a vertex
// assignment, and every distinct ordered pair of positions as an edge
// assignment.
func (s *PredicateAssignmentSet) Add(args []int) {
	for i, oi := range args {
		s.vertices.Set(s.vertexIndex(i, oi))
	}
	for i, oi := range args {
		for j, oj := range args {
			if i == j {
				continue
			}
			s.edges.Set(s.edgeIndex(i, oi, j, oj))
		}
	}
}

// HasVertex reports whether object has ever appeared at position.
func (s *PredicateAssignmentSet) HasVertex(position int, object int) bool {
	if position < 0 || position >= s.arity || object < 0 || object >= s.numObjects {
		return false
	}
	return s.vertices.Test(s.vertexIndex(position, object))
}

// HasEdge reports whether (object1 at position1, object2 at position2) has
// ever co-occurred in a single ground fact of this predicate.
func (s *PredicateAssignmentSet) HasEdge(position1, object1, position2, object2 int) bool {
	if position1 < 0 || position1 >= s.arity || position2 < 0 || position2 >= s.arity {
		return false
	}
	if object1 < 0 || object1 >= s.numObjects || object2 < 0 || object2 >= s.numObjects {
		return false
	}
	return s.edges.Test(s.edgeIndex(position1, object1, position2, object2))
}

// PositiveUnaryConsistent checks the "per-argument positive
// check": object is consistent with a unary positive static literal at
// position iff it has been observed there.
func (s *PredicateAssignmentSet) PositiveUnaryConsistent(position, object int) bool {
	return s.HasVertex(position, object)
}

// NegatedUnaryConsistent checks the "per-argument negated
// check": object is consistent with a unary negated static literal at
// position iff it has NOT been observed there (the literal's closed-world
// negation overapproximation).
func (s *PredicateAssignmentSet) NegatedUnaryConsistent(position, object int) bool {
	return !s.HasVertex(position, object)
}
