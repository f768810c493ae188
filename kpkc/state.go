// File: state.go
// Role: per-rule dynamic state — affected/delta partitions, the fluent
// edge layer ANDed against the static graph, and the per-predicate fluent
// assignment sets that back it.
package kpkc

import (
	"github.com/bits-and-blooms/bitset"

	"github.com/liftedplan/kpkc/assign"
	"github.com/liftedplan/kpkc/consistency"
	"github.com/liftedplan/kpkc/ir"
)

// RuleState is one rule's complete delta-kPKC enumerator state, reused
// across every iteration of the stratum it belongs to: per-rule workspaces
// live across iterations and are reset at iteration start, where "reset"
// only clears the delta, never the accumulated affected/edge state,
// matching semi-naive evaluation's monotonic growth invariant.
type RuleState struct {
	Program *ir.Program
	Rule    ir.RuleData
	RuleIdx ir.Index

	Static *consistency.Graph

	anchors        AnchorMap
	anchoredParams []bool

	// fluentDep classifies which partition pairs a positive Fluent literal
	// actually co-constrains; cells it does not mention default to "always
	// adjacent" in the fluent layer (the static layer is then the sole
	// source of truth for that cell).
	fluentDep *consistency.DependencyGraph
	// fluentAssign accumulates (position,object)/(position1,object1,
	// position2,object2) witnesses from every Fluent ground atom seen so
	// far, one assignment set per Fluent predicate this rule's body
	// references.
	fluentAssign map[ir.Index]*assign.PredicateAssignmentSet
	// fluentMatrix mirrors Static.Matrix's layout, EXPLICIT iff fluentDep
	// says so; its edges are witnessed incrementally as fluent atoms
	// arrive, AND its Adjacent is combined with Static.Matrix's to form
	// the effective dynamic adjacency.
	fluentMatrix *consistency.PartitionedAdjacencyMatrix

	// affected[p] is the current set of partition-p vertices eligible to
	// participate in a clique.
	affected []*bitset.BitSet
	// delta[p] is the subset of affected[p] that became eligible since the
	// previous iteration.
	delta []*bitset.BitSet

	// touchedCells records which (i,j) explicit fluent cells changed this
	// iteration, so RecomputeTouchedEdges only walks what actually moved.
	touchedCells map[[2]int]bool

	// edgeDelta[{i,j}][vi] (i<j) is the set of partition-j local ids vj such
	// that fluent edge (i,vi)-(j,vj) newly became adjacent this iteration:
	// a clique can satisfy the delta-kPKC newness requirement by crossing
	// one of these edges even when neither endpoint vertex is itself a
	// delta vertex (one literal's atom can arrive an iteration after the
	// other's, making the edge the only thing that is actually new).
	edgeDelta map[[2]int][]*bitset.BitSet
}

// NewRuleState builds the enumerator state for one rule, given its
// precomputed static consistency graph.
func NewRuleState(p *ir.Program, ruleIdx ir.Index, rule ir.RuleData, static *consistency.Graph) *RuleState {
	k := rule.Body.Arity()
	anchors := BuildAnchors(p, rule)

	fluentDep := consistency.NewDependencyGraph(k)
	for _, l := range DynamicLiterals(rule) {
		if !l.Positive {
			// A negated literal never witnesses an edge (its cell would start
			// all-clear and block every clique); absence is re-checked by the
			// applicability check instead.
			continue
		}
		vars := consistency.VariablePositions(p.Atoms.Get(l.Atom))
		if len(vars) == 2 {
			fluentDep.Add(vars[0], vars[1])
		}
	}

	s := &RuleState{
		Program:        p,
		Rule:           rule,
		RuleIdx:        ruleIdx,
		Static:         static,
		anchors:        anchors,
		anchoredParams: anchors.AnchoredParams(k),
		fluentDep:      fluentDep,
		fluentAssign:   map[ir.Index]*assign.PredicateAssignmentSet{},
		fluentMatrix:   consistency.NewPartitionedAdjacencyMatrix(static.Layout, fluentDep),
		affected:       make([]*bitset.BitSet, k),
		delta:          make([]*bitset.BitSet, k),
		touchedCells:   map[[2]int]bool{},
		edgeDelta:      map[[2]int][]*bitset.BitSet{},
	}
	for pos := 0; pos < k; pos++ {
		s.affected[pos] = bitset.New(uint(static.Partitions[pos].Size()))
		s.delta[pos] = bitset.New(uint(static.Partitions[pos].Size()))
		if !s.anchoredParams[pos] {
			// Unanchored parameters are unconditionally affected from the
			// start: nothing fluent restricts which of their static
			// vertices may participate. On the first iteration every such
			// vertex also counts as delta (relative to the empty graph that
			// preceded construction); ResetDelta retires that status.
			s.affected[pos] = consistency.ActiveMask(static.Layout, pos)
			s.delta[pos] = consistency.ActiveMask(static.Layout, pos)
		}
	}
	return s
}

// Arity is the rule's parameter count (k of "k-partite k-clique").
func (s *RuleState) Arity() int { return s.Rule.Body.Arity() }

// Affected returns the live affected-vertex bitset for partition p.
func (s *RuleState) Affected(p int) *bitset.BitSet { return s.affected[p] }

// Delta returns the live delta-vertex bitset for partition p (vertices
// that became affected since the previous iteration).
func (s *RuleState) Delta(p int) *bitset.BitSet { return s.delta[p] }

// ResetDelta clears every partition's delta bitset at the start of a new
// iteration, leaving the accumulated affected sets untouched.
func (s *RuleState) ResetDelta() {
	for _, d := range s.delta {
		d.ClearAll()
	}
	for k := range s.touchedCells {
		delete(s.touchedCells, k)
	}
	for _, rows := range s.edgeDelta {
		for _, r := range rows {
			r.ClearAll()
		}
	}
}

// DeltaEdge reports whether (i,vi)-(j,vj) newly became adjacent in the
// fluent layer this iteration (as opposed to having been adjacent already
// before the current bucket's atoms were observed).
func (s *RuleState) DeltaEdge(i, vi, j, vj int) bool {
	if i == j {
		return false
	}
	swapped := i > j
	if swapped {
		i, j, vi, vj = j, i, vj, vi
	}
	rows, ok := s.edgeDelta[[2]int{i, j}]
	if !ok {
		return false
	}
	return rows[vi].Test(uint(vj))
}

// Adjacent reports the rule's current dynamic adjacency: static AND
// fluent.
func (s *RuleState) Adjacent(i, vi, j, vj int) bool {
	return s.Static.Matrix.Adjacent(i, vi, j, vj) && s.fluentMatrix.Adjacent(i, vi, j, vj)
}

// Row returns the current dynamic candidate bitset over partition `to`
// reachable from vertex v of partition `from`: the static row intersected
// with the fluent row.
func (s *RuleState) Row(from, v, to int) *bitset.BitSet {
	row := s.Static.Matrix.Row(from, v, to).Clone()
	row.InPlaceIntersection(s.fluentMatrix.Row(from, v, to))
	return row
}

// ObserveFluentAtom folds one newly-inserted ground Fluent atom into this
// rule's affected/delta sets and fluent edge layer, if the atom's
// predicate anchors the rule.
func (s *RuleState) ObserveFluentAtom(pred ir.Index, args []ir.Index) {
	anchors, ok := s.anchors[pred]
	if !ok {
		return
	}

	// Vertex-level: OR each anchored parameter's induced vertex into
	// affected/delta, provided the object is actually a vertex of that
	// partition (i.e. it also survived the static consistency filter).
	for _, anc := range anchors {
		if anc.ArgPos >= len(args) {
			continue
		}
		obj := args[anc.ArgPos]
		local, ok := s.Static.Partitions[anc.Param].Local(obj)
		if !ok {
			continue
		}
		if !s.affected[anc.Param].Test(uint(local)) {
			s.affected[anc.Param].Set(uint(local))
			s.delta[anc.Param].Set(uint(local))
		}
	}

	// Edge-level: widen this predicate's fluent assignment set with the
	// new atom's arguments, then mark every explicit fluent cell of the rule
	// touched, so RecomputeTouchedEdges rebuilds it.
	assignSet := s.fluentAssignFor(pred, len(args))
	intArgs := make([]int, len(args))
	for i, a := range args {
		intArgs[i] = int(a)
	}
	assignSet.Add(intArgs)

	k := s.Arity()
	for i := 0; i < k; i++ {
		for j := i + 1; j < k; j++ {
			if s.fluentDep.CellMode(i, j) != consistency.Explicit {
				continue
			}
			s.touchedCells[[2]int{i, j}] = true
		}
	}
}

func (s *RuleState) fluentAssignFor(pred ir.Index, arity int) *assign.PredicateAssignmentSet {
	if a, ok := s.fluentAssign[pred]; ok {
		return a
	}
	a := assign.NewPredicateAssignmentSet(arity, int(s.Program.Objects.Size()))
	s.fluentAssign[pred] = a
	return a
}

// RecomputeTouchedEdges rebuilds every fluent-layer cell touched this
// iteration from scratch against the current fluent assignment sets:
// clear touched explicit adjacency cells and recompute them, for every pair of partitions (i,j) with an explicit cell setting
// edge bits by intersecting per-partition fact sets against the rule's
// binary condition. Edges that were not adjacent before the rebuild and are
// adjacent after it are recorded in edgeDelta, so a clique whose vertices
// were all already affected can still be recognized as new by DeltaEdge.
func (s *RuleState) RecomputeTouchedEdges() {
	p := s.Program
	for key := range s.touchedCells {
		i, j := key[0], key[1]
		cell, _ := s.fluentMatrix.Cell(i, j)

		sizeI := s.Static.Partitions[i].Size()
		before := make([]*bitset.BitSet, sizeI)
		for vi := 0; vi < sizeI; vi++ {
			before[vi] = cell.RowFromI(vi).Clone()
		}
		cell.ClearAll()

		lits := consistency.BinaryLiterals(p, DynamicLiterals(s.Rule), i, j)
		if len(lits) == 0 {
			// No dynamic literal actually relates i,j. An all-clear
			// EXPLICIT cell would mean "nothing adjacent", the opposite of
			// "unconstrained", so mark every pair adjacent instead.
			for vi := 0; vi < sizeI; vi++ {
				for vj := 0; vj < s.Static.Partitions[j].Size(); vj++ {
					cell.SetEdge(vi, vj)
				}
			}
		} else {
			for vi, oi := range s.Static.Partitions[i].Objects() {
				for vj, oj := range s.Static.Partitions[j].Objects() {
					binding := map[int]ir.Index{i: oi, j: oj}
					ok := true
					for _, l := range lits {
						atom := p.Atoms.Get(l.Atom)
						if !consistency.LiteralConsistent(s.fluentAssign[atom.Predicate], atom, binding, l.Positive) {
							ok = false
							break
						}
					}
					if ok {
						cell.SetEdge(vi, vj)
					}
				}
			}
		}

		rows := s.edgeDeltaRows(key, sizeI)
		for vi := 0; vi < sizeI; vi++ {
			newly := cell.RowFromI(vi).Clone()
			newly.InPlaceDifference(before[vi])
			rows[vi].InPlaceUnion(newly)
		}
	}
}

// edgeDeltaRows returns (allocating on first use) the per-(i,j) edge-delta
// row storage, shaped like AdjacencyCell's rowsFromI: one bitset per
// partition-i local id, over partition-j local ids.
func (s *RuleState) edgeDeltaRows(key [2]int, sizeI int) []*bitset.BitSet {
	rows, ok := s.edgeDelta[key]
	if ok {
		return rows
	}
	sizeJ := s.Static.Partitions[key[1]].Size()
	rows = make([]*bitset.BitSet, sizeI)
	for vi := range rows {
		rows[vi] = bitset.New(uint(sizeJ))
	}
	s.edgeDelta[key] = rows
	return rows
}
