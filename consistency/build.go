// File: build.go
// Role: static consistency graph construction.
//
// Only Static-role literals (and numeric constraints over Static function
// terms) ever populate vertices/edges here: Fluent literals still
// contribute DependencyGraph labels (so kpkc knows which cells need
// dynamic recomputation, ANDing static edges against current fluent
// edges), but their actual truth is never baked into this graph — it is
// re-checked every iteration by package kpkc (dynamic edges) and finally by
// the applicability check. See consistency/doc.go.
package consistency

import (
	"sort"

	"github.com/bits-and-blooms/bitset"

	"github.com/liftedplan/kpkc/assign"
	"github.com/liftedplan/kpkc/domain"
	"github.com/liftedplan/kpkc/ir"
)

// Graph bundles everything built once per rule by Build: the candidate
// vertex partitions, the variable-dependency graph that decided each
// cell's storage mode, and the resulting static adjacency matrix.
type Graph struct {
	Layout     *GraphLayout
	Partitions []*Partition
	Dependency *DependencyGraph
	Matrix     *PartitionedAdjacencyMatrix
}

// StaticAssignments bundles the per-predicate/per-function assignment sets
// built from the program's Static fact set.
type StaticAssignments struct {
	Predicates map[ir.Index]*assign.PredicateAssignmentSet
	Functions  map[ir.Index]*assign.FunctionAssignmentSet
}

// VariablePositions returns the distinct rule-parameter positions atom
// references, in ascending order (its kPKC arity support set).
func VariablePositions(atom ir.AtomData) []int {
	seen := make(map[int]bool, len(atom.Args))
	var out []int
	for _, t := range atom.Args {
		if t.Kind == ir.TermVariable && !seen[t.Variable] {
			seen[t.Variable] = true
			out = append(out, t.Variable)
		}
	}
	sort.Ints(out)
	return out
}

// ExprVariablePositions walks a schema expression tree collecting every
// distinct rule-parameter position referenced by a function-term leaf,
// the numeric-constraint analogue of VariablePositions.
func ExprVariablePositions(p *ir.Program, exprIdx ir.Index) []int {
	seen := map[int]bool{}
	var out []int
	var walk func(ir.Index)
	walk = func(idx ir.Index) {
		e := p.Exprs.Get(idx)
		switch e.Kind {
		case ir.ExprFuncTerm:
			ft := p.FuncTerms.Get(e.FuncTerm)
			for _, t := range ft.Args {
				if t.Kind == ir.TermVariable && !seen[t.Variable] {
					seen[t.Variable] = true
					out = append(out, t.Variable)
				}
			}
		case ir.ExprUnary, ir.ExprBinary, ir.ExprMulti:
			for _, o := range e.Operands {
				walk(o)
			}
		}
	}
	walk(exprIdx)
	sort.Ints(out)
	return out
}

// BuildDependencyGraph computes the per-rule variable-dependency graph from
// every Static and Fluent literal and numeric constraint with kPKC arity
// exactly 2 (literals of arity <= 2 contribute to the binary
// overapproximation; exactly-2 literals are the ones that co-constrain a
// specific pair of parameters).
func BuildDependencyGraph(p *ir.Program, rule ir.RuleData) *DependencyGraph {
	dep := NewDependencyGraph(rule.Body.Arity())
	addAtom := func(atomIdx ir.Index) {
		vars := VariablePositions(p.Atoms.Get(atomIdx))
		if len(vars) == 2 {
			dep.Add(vars[0], vars[1])
		}
	}
	for _, l := range rule.Body.Static {
		addAtom(l.Atom)
	}
	for _, l := range rule.Body.Fluent {
		addAtom(l.Atom)
	}
	for _, n := range rule.Body.Numeric {
		vars := ExprVariablePositions(p, n)
		if len(vars) == 2 {
			dep.Add(vars[0], vars[1])
		}
	}
	return dep
}

// UnaryLiterals returns every literal of lits whose VariablePositions is
// exactly [pos] (the unary-overapproximation condition).
// Exported so package kpkc can apply the same filter to Fluent literals
// when maintaining its dynamic adjacency layer.
func UnaryLiterals(p *ir.Program, lits []ir.Literal, pos int) []ir.Literal {
	var out []ir.Literal
	for _, l := range lits {
		vars := VariablePositions(p.Atoms.Get(l.Atom))
		if len(vars) == 1 && vars[0] == pos {
			out = append(out, l)
		}
	}
	return out
}

// BinaryLiterals returns every literal of lits whose VariablePositions is
// exactly {i,j} (in either arg order). Exported for the same reason as
// UnaryLiterals.
func BinaryLiterals(p *ir.Program, lits []ir.Literal, i, j int) []ir.Literal {
	var out []ir.Literal
	for _, l := range lits {
		vars := VariablePositions(p.Atoms.Get(l.Atom))
		if len(vars) == 2 && ((vars[0] == i && vars[1] == j) || (vars[0] == j && vars[1] == i)) {
			out = append(out, l)
		}
	}
	return out
}

func unaryStaticLiterals(p *ir.Program, rule ir.RuleData, pos int) []ir.Literal {
	return UnaryLiterals(p, rule.Body.Static, pos)
}

func binaryStaticLiterals(p *ir.Program, rule ir.RuleData, i, j int) []ir.Literal {
	return BinaryLiterals(p, rule.Body.Static, i, j)
}

// literalArgs resolves atom's argument objects given a partial binding from
// rule-parameter position to object, for exactly the positions atom's
// variables occupy (every variable in atom must be a key of binding).
func literalArgs(atom ir.AtomData, binding map[int]ir.Index) []int {
	args := make([]int, len(atom.Args))
	for i, t := range atom.Args {
		if t.Kind == ir.TermVariable {
			args[i] = int(binding[t.Variable])
		} else {
			args[i] = int(t.Object)
		}
	}
	return args
}

// LiteralConsistent reports whether atom, under binding, is consistent with
// assignSet: a positive literal is consistent iff every argument's vertex
// assignment and every pairwise edge assignment the atom witnesses has
// actually been observed; a negated literal over a 1-ary or 2-ary atom is
// consistent iff the ground atom it names was never observed, and a negated
// literal over a wider atom is always reported consistent
// (a per-argument positive check, a per-argument negated check, and a
// constant-position check — the pairwise-edge loop below is the
// constant-position check generalized to any number of constant args).
func LiteralConsistent(assignSet *assign.PredicateAssignmentSet, atom ir.AtomData, binding map[int]ir.Index, positive bool) bool {
	if assignSet == nil {
		// No ground fact of this predicate has ever been observed: a
		// positive literal can never be consistent; a negated one always
		// is.
		return !positive
	}
	args := literalArgs(atom, binding)
	if !positive {
		switch len(args) {
		case 1:
			return assignSet.NegatedUnaryConsistent(0, args[0])
		case 2:
			// For a 2-ary atom the pair assignment IS the exact ground
			// atom, so closed-world negation is decidable right here.
			return !assignSet.HasEdge(0, args[0], 1, args[1])
		default:
			// Wider negation cannot be decided from vertex/pair summaries;
			// defer to the applicability check (an overapproximation must
			// never reject a binding that could still be valid).
			return true
		}
	}
	for i := range args {
		if !assignSet.PositiveUnaryConsistent(i, args[i]) {
			return false
		}
		for j := i + 1; j < len(args); j++ {
			if !assignSet.HasEdge(i, args[i], j, args[j]) {
				return false
			}
		}
	}
	return true
}

// NumericConsistent conservatively checks a Static numeric constraint
// (following the operational kPKC-arity rule rather than inventing a
// precise interval-arithmetic oracle). Recognized
// shapes (a single Static function term compared against a constant, or
// two Static function terms compared against each other) are checked
// against the observed Interval; anything else defaults to "consistent"
// (true), which is always a safe overapproximation — the applicability
// check re-verifies exactly before a binding is accepted.
func NumericConsistent(p *ir.Program, exprIdx ir.Index, binding map[int]ir.Index, functions map[ir.Index]*assign.FunctionAssignmentSet) bool {
	e := p.Exprs.Get(exprIdx)
	if e.Kind != ir.ExprBinary || !e.Op.IsComparison() {
		return true
	}
	lo, lok := functionInterval(p, e.Operands[0], binding, functions)
	hi, hok := functionInterval(p, e.Operands[1], binding, functions)
	if !lok || !hok {
		return true
	}
	if lo.Empty() || hi.Empty() {
		return true
	}
	switch e.Op {
	case ir.OpLt:
		return lo.Lo < hi.Hi
	case ir.OpLe:
		return lo.Lo <= hi.Hi
	case ir.OpGt:
		return lo.Hi > hi.Lo
	case ir.OpGe:
		return lo.Hi >= hi.Lo
	case ir.OpEq:
		return lo.Lo <= hi.Hi && hi.Lo <= lo.Hi
	default: // OpNe and anything else: too weak an overapproximation, skip.
		return true
	}
}

// functionInterval resolves operand to the observed Interval of a single
// Static function-term leaf under binding; ok is false for anything but
// that exact shape (a bare number also reports ok=false so callers fall
// back to "consistent").
func functionInterval(p *ir.Program, operand ir.Index, binding map[int]ir.Index, functions map[ir.Index]*assign.FunctionAssignmentSet) (assign.Interval, bool) {
	e := p.Exprs.Get(operand)
	if e.Kind != ir.ExprFuncTerm {
		return assign.Interval{}, false
	}
	ft := p.FuncTerms.Get(e.FuncTerm)
	set, ok := functions[ft.Function]
	if !ok {
		return assign.Interval{}, false
	}
	args := make([]int, len(ft.Args))
	for i, t := range ft.Args {
		switch t.Kind {
		case ir.TermVariable:
			obj, ok := binding[t.Variable]
			if !ok {
				return assign.Interval{}, false
			}
			args[i] = int(obj)
		case ir.TermObject:
			args[i] = int(t.Object)
		}
	}
	if len(args) != 1 {
		// FunctionAssignmentSet is keyed per-position like
		// PredicateAssignmentSet; a multi-arg function's joint interval
		// isn't tracked, so report "unknown" rather than guess.
		return assign.Interval{}, false
	}
	return set.Interval(0, args[0]), true
}

// Build constructs the static consistency graph for rule.
// doms supplies each rule parameter's candidate domain; assignments
// supplies the Static fact set's per-predicate/per-function summaries.
func Build(p *ir.Program, ruleIdx ir.Index, rule ir.RuleData, doms *domain.Domains, assignments StaticAssignments) *Graph {
	k := rule.Body.Arity()

	partitions := make([]*Partition, k)
	for pos := 0; pos < k; pos++ {
		unary := unaryStaticLiterals(p, rule, pos)
		candidateDomain := doms.RuleParameter(ruleIdx, pos)
		var objects []ir.Index
		for o := uint(0); o < candidateDomain.Len(); o++ {
			if !candidateDomain.Test(o) {
				continue
			}
			obj := ir.Index(o)
			if vertexConsistent(p, unary, pos, obj, rule, assignments) {
				objects = append(objects, obj)
			}
		}
		partitions[pos] = NewPartition(objects)
	}

	dep := BuildDependencyGraph(p, rule)
	sizes := make([]int, k)
	for pos, part := range partitions {
		sizes[pos] = part.Size()
	}
	layout := NewGraphLayout(sizes)
	matrix := NewPartitionedAdjacencyMatrix(layout, dep)

	for i := 0; i < k; i++ {
		for j := i + 1; j < k; j++ {
			if dep.CellMode(i, j) != Explicit {
				continue
			}
			binaryLits := binaryStaticLiterals(p, rule, i, j)
			binaryNumerics := binaryNumericConstraints(p, rule, i, j)
			for vi, oi := range partitions[i].Objects() {
				for vj, oj := range partitions[j].Objects() {
					if edgeConsistent(p, binaryLits, binaryNumerics, i, oi, j, oj, assignments) {
						matrix.SetEdge(i, vi, j, vj)
					}
				}
			}
		}
	}

	return &Graph{Layout: layout, Partitions: partitions, Dependency: dep, Matrix: matrix}
}

// binaryNumericConstraints returns every numeric constraint whose
// ExprVariablePositions is exactly {i,j}.
func binaryNumericConstraints(p *ir.Program, rule ir.RuleData, i, j int) []ir.Index {
	var out []ir.Index
	for _, n := range rule.Body.Numeric {
		vars := ExprVariablePositions(p, n)
		if len(vars) == 2 && ((vars[0] == i && vars[1] == j) || (vars[0] == j && vars[1] == i)) {
			out = append(out, n)
		}
	}
	return out
}

func vertexConsistent(p *ir.Program, unary []ir.Literal, pos int, obj ir.Index, rule ir.RuleData, assignments StaticAssignments) bool {
	binding := map[int]ir.Index{pos: obj}
	for _, l := range unary {
		atom := p.Atoms.Get(l.Atom)
		pred := p.Predicates.Get(atom.Predicate)
		if pred.Role != ir.Static {
			continue
		}
		if !LiteralConsistent(assignments.Predicates[atom.Predicate], atom, binding, l.Positive) {
			return false
		}
	}
	for _, n := range rule.Body.Numeric {
		vars := ExprVariablePositions(p, n)
		if len(vars) == 1 && vars[0] == pos {
			if !NumericConsistent(p, n, binding, assignments.Functions) {
				return false
			}
		}
	}
	return true
}

func edgeConsistent(p *ir.Program, lits []ir.Literal, numerics []ir.Index, i int, oi ir.Index, j int, oj ir.Index, assignments StaticAssignments) bool {
	binding := map[int]ir.Index{i: oi, j: oj}
	for _, l := range lits {
		atom := p.Atoms.Get(l.Atom)
		pred := p.Predicates.Get(atom.Predicate)
		if pred.Role != ir.Static {
			continue
		}
		if !LiteralConsistent(assignments.Predicates[atom.Predicate], atom, binding, l.Positive) {
			return false
		}
	}
	for _, n := range numerics {
		if !NumericConsistent(p, n, binding, assignments.Functions) {
			return false
		}
	}
	return true
}

// ActiveMask returns a fresh full bitset over partition p's vertices,
// useful as a seed "affected partition" set before any delta has arrived
// (every static vertex is unconditionally eligible).
func ActiveMask(layout *GraphLayout, p int) *bitset.BitSet {
	return fullSet(layout.PartitionSize(p))
}
