// File: transform.go
// Role: program-level rewrite eliminating dangling existential variables.
//
// A rule parameter is dangling when it cannot be reached from the head
// through the body's variable co-occurrence graph (two parameters are
// connected iff some literal or numeric constraint mentions both). Such a
// parameter is purely existential: the head does not depend on which
// object binds it, only on whether any consistent binding exists. Leaving
// it in place forces the clique enumerator to bind it anyway, multiplying
// the k-partite search space by that parameter's whole domain.
//
// The rewrite splits every affected rule in two: a guarded rule over the
// reachable parameters whose body keeps only the literals/constraints
// they ground, plus a positive 0-ary "@guard_<rule>" fluent literal; and a
// guard rule over the dangling parameters whose body keeps the rest and
// whose head is that guard atom, at cost 0. The guard fires once any
// consistent binding of the dangling parameters exists, which is exactly
// the condition the original body's existential quantification expressed.
package ir

import "fmt"

// DanglingRewrite is the result of EliminateDanglingExistentials. Rule
// indices below n (the source program's rule count) are preserved
// one-to-one: index i of Program is source rule i, rewritten in place when
// it had dangling parameters and re-interned unchanged otherwise. Guard
// rules occupy the indices from n upward.
type DanglingRewrite struct {
	Program *Program
	// Guards maps a rewritten rule's index to its synthesized guard rule.
	Guards map[Index]Index
	// GuardPredicates maps a rewritten rule's index to its 0-ary guard
	// predicate.
	GuardPredicates map[Index]Index
}

// EliminateDanglingExistentials rewrites src into a fresh Program in which
// no rule quantifies over a parameter unreachable from its head. Rules
// without dangling parameters are carried over untouched; every interned
// node of src keeps its index in the result, so callers' stored predicate,
// atom and rule indices stay valid.
func EliminateDanglingExistentials(src *Program) *DanglingRewrite {
	dst := NewProgram()
	copyInterned(src, dst)

	rw := &DanglingRewrite{
		Program:         dst,
		Guards:          map[Index]Index{},
		GuardPredicates: map[Index]Index{},
	}

	n := src.Rules.Size()
	reachableByRule := make(map[Index][]bool, n)

	// Pass 1: one dst rule per src rule, in index order, so indices 0..n-1
	// line up. Guard rules are appended afterward; interleaving them here
	// would invalidate every caller-held rule index past the first rewrite.
	for r := Index(0); r < n; r++ {
		rule := src.Rules.Get(r)
		reachable, dangling := reachableParams(src, rule)
		if !dangling {
			dst.Rules.GetOrCreate(rule)
			continue
		}
		reachableByRule[r] = reachable

		guardPred, _ := dst.Predicates.GetOrCreate(PredicateData{
			Name: fmt.Sprintf("@guard_%d", r), Arity: 0, Role: Fluent,
		})
		guardAtom, _ := dst.Atoms.GetOrCreate(AtomData{Predicate: guardPred})
		rw.GuardPredicates[r] = guardPred

		mapping, params := projectParams(rule.Body.Parameters, reachable, true)
		body := projectCondition(src, dst, rule.Body, mapping)
		body.Parameters = params
		body.Fluent = append(body.Fluent, Literal{Atom: guardAtom, Positive: true})

		guarded := RuleData{
			Body: CanonicalizeCondition(body),
			Head: remapAtom(rule.Head, mapping),
			Cost: rule.Cost,
			Name: rule.Name,
		}
		dst.Rules.GetOrCreate(guarded)
	}

	// Pass 2: guard rules, one per rewritten rule, in the same order.
	for r := Index(0); r < n; r++ {
		reachable, ok := reachableByRule[r]
		if !ok {
			continue
		}
		rule := src.Rules.Get(r)
		guardPred := rw.GuardPredicates[r]

		mapping, params := projectParams(rule.Body.Parameters, reachable, false)
		body := projectCondition(src, dst, rule.Body, mapping)
		body.Parameters = params

		guard := RuleData{
			Body: CanonicalizeCondition(body),
			Head: AtomData{Predicate: guardPred},
			Cost: 0,
			Name: rule.Name + "$guard",
		}
		idx, _ := dst.Rules.GetOrCreate(guard)
		rw.Guards[r] = idx
	}

	return rw
}

// reachableParams runs the co-occurrence reachability walk for one rule:
// seed from the head's parameters, expand through every literal/constraint
// that mentions two parameters together. dangling reports whether at least
// one parameter stayed unreached.
func reachableParams(src *Program, rule RuleData) (reachable []bool, dangling bool) {
	k := rule.Body.Arity()
	if k == 0 {
		return nil, false
	}

	adj := make([][]bool, k)
	for i := range adj {
		adj[i] = make([]bool, k)
	}
	connect := func(params []int) {
		for _, p1 := range params {
			for _, p2 := range params {
				adj[p1][p2] = true
			}
		}
	}
	for _, l := range rule.Body.Static {
		connect(atomParams(src.Atoms.Get(l.Atom)))
	}
	for _, l := range rule.Body.Fluent {
		connect(atomParams(src.Atoms.Get(l.Atom)))
	}
	for _, l := range rule.Body.Derived {
		connect(atomParams(src.Atoms.Get(l.Atom)))
	}
	for _, c := range rule.Body.Numeric {
		connect(exprParams(src, c))
	}

	reachable = make([]bool, k)
	var stack []int
	for _, p := range atomParams(rule.Head) {
		if !reachable[p] {
			reachable[p] = true
			stack = append(stack, p)
		}
	}
	for len(stack) > 0 {
		v := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for u := 0; u < k; u++ {
			if adj[v][u] && !reachable[u] {
				reachable[u] = true
				stack = append(stack, u)
			}
		}
	}

	for p := 0; p < k; p++ {
		if !reachable[p] {
			return reachable, true
		}
	}
	return reachable, false
}

// projectParams builds the dense renumbering for the kept side of the
// split (keep == reachable[p] when building the guarded rule, keep ==
// !reachable[p] for the guard rule). mapping[p] is the new position of
// parameter p, or -1 when p is projected out.
func projectParams(parameters []VariableData, reachable []bool, keepReachable bool) (mapping []int, params []VariableData) {
	mapping = make([]int, len(parameters))
	for p, v := range parameters {
		if reachable[p] == keepReachable {
			mapping[p] = len(params)
			v.Position = len(params)
			params = append(params, v)
		} else {
			mapping[p] = -1
		}
	}
	return mapping, params
}

// projectCondition keeps exactly the literals and numeric constraints
// whose parameters all survive mapping, remapped to the new positions.
// The co-occurrence components are disjoint, so every element lands
// wholly on one side of the split; elements mentioning no parameter at
// all land on both, which re-checks them harmlessly.
func projectCondition(src, dst *Program, body ConjunctiveCondition, mapping []int) ConjunctiveCondition {
	var out ConjunctiveCondition
	keepLits := func(lits []Literal) []Literal {
		var kept []Literal
		for _, l := range lits {
			atom := src.Atoms.Get(l.Atom)
			if !allMapped(atomParams(atom), mapping) {
				continue
			}
			idx, _ := dst.Atoms.GetOrCreate(remapAtom(atom, mapping))
			kept = append(kept, Literal{Atom: idx, Positive: l.Positive})
		}
		return kept
	}
	out.Static = keepLits(body.Static)
	out.Fluent = keepLits(body.Fluent)
	out.Derived = keepLits(body.Derived)
	for _, c := range body.Numeric {
		if !allMapped(exprParams(src, c), mapping) {
			continue
		}
		out.Numeric = append(out.Numeric, remapExpr(src, dst, c, mapping))
	}
	return out
}

func allMapped(params []int, mapping []int) bool {
	for _, p := range params {
		if mapping[p] < 0 {
			return false
		}
	}
	return true
}

// remapAtom rewrites an atom's variable terms through mapping. Every
// variable the atom mentions must be mapped.
func remapAtom(a AtomData, mapping []int) AtomData {
	args := make([]Term, len(a.Args))
	for i, t := range a.Args {
		if t.Kind == TermVariable {
			args[i] = VarTerm(mapping[t.Variable])
		} else {
			args[i] = t
		}
	}
	return AtomData{Predicate: a.Predicate, Args: args}
}

// remapExpr rebuilds a schema expression tree in dst with every
// function-term argument remapped through mapping, returning the new root
// index. Subtrees that need no remapping still re-intern, deduplicating
// against dst's existing nodes.
func remapExpr(src, dst *Program, root Index, mapping []int) Index {
	e := src.Exprs.Get(root)
	switch e.Kind {
	case ExprFuncTerm:
		ft := src.FuncTerms.Get(e.FuncTerm)
		args := make([]Term, len(ft.Args))
		for i, t := range ft.Args {
			if t.Kind == TermVariable {
				args[i] = VarTerm(mapping[t.Variable])
			} else {
				args[i] = t
			}
		}
		ftIdx, _ := dst.FuncTerms.GetOrCreate(FunctionTermData{Function: ft.Function, Args: args})
		idx, _ := dst.Exprs.GetOrCreate(ExprData{Kind: ExprFuncTerm, FuncTerm: ftIdx, FuncRole: e.FuncRole})
		return idx
	case ExprUnary, ExprBinary, ExprMulti:
		operands := make([]Index, len(e.Operands))
		for i, o := range e.Operands {
			operands[i] = remapExpr(src, dst, o, mapping)
		}
		idx, _ := dst.Exprs.GetOrCreate(CanonicalizeExpr(ExprData{Kind: e.Kind, Op: e.Op, Operands: operands}))
		return idx
	default:
		idx, _ := dst.Exprs.GetOrCreate(e)
		return idx
	}
}

// atomParams collects the distinct parameter positions atom references, in
// first-appearance order.
func atomParams(a AtomData) []int {
	var out []int
	seen := map[int]bool{}
	for _, t := range a.Args {
		if t.Kind == TermVariable && !seen[t.Variable] {
			seen[t.Variable] = true
			out = append(out, t.Variable)
		}
	}
	return out
}

// exprParams collects the distinct parameter positions a schema expression
// tree references through its function-term leaves.
func exprParams(src *Program, root Index) []int {
	var out []int
	seen := map[int]bool{}
	var walk func(Index)
	walk = func(idx Index) {
		e := src.Exprs.Get(idx)
		switch e.Kind {
		case ExprFuncTerm:
			ft := src.FuncTerms.Get(e.FuncTerm)
			for _, t := range ft.Args {
				if t.Kind == TermVariable && !seen[t.Variable] {
					seen[t.Variable] = true
					out = append(out, t.Variable)
				}
			}
		case ExprUnary, ExprBinary, ExprMulti:
			for _, o := range e.Operands {
				walk(o)
			}
		}
	}
	walk(root)
	return out
}

// copyInterned re-interns every node of src into dst in index order, so
// every index of src resolves to the identical node in dst.
func copyInterned(src, dst *Program) {
	for i := Index(0); i < src.Objects.Size(); i++ {
		dst.Objects.GetOrCreate(src.Objects.Get(i))
	}
	for i := Index(0); i < src.Predicates.Size(); i++ {
		dst.Predicates.GetOrCreate(src.Predicates.Get(i))
	}
	for i := Index(0); i < src.Functions.Size(); i++ {
		dst.Functions.GetOrCreate(src.Functions.Get(i))
	}
	for i := Index(0); i < src.Atoms.Size(); i++ {
		dst.Atoms.GetOrCreate(src.Atoms.Get(i))
	}
	for i := Index(0); i < src.FuncTerms.Size(); i++ {
		dst.FuncTerms.GetOrCreate(src.FuncTerms.Get(i))
	}
	for i := Index(0); i < src.Exprs.Size(); i++ {
		dst.Exprs.GetOrCreate(src.Exprs.Get(i))
	}
	src.GroundAtoms.Merge(func(_ Index, idx GroupIndex, d GroundAtomData) {
		dst.GroundAtoms.GetOrCreate(d.Predicate, d)
	})
	src.GroundFuncTerms.Merge(func(_ Index, idx GroupIndex, d GroundFunctionTermData) {
		dst.GroundFuncTerms.GetOrCreate(d.Function, d)
	})
	for i := Index(0); i < src.GroundExprs.Size(); i++ {
		dst.GroundExprs.GetOrCreate(src.GroundExprs.Get(i))
	}
}
