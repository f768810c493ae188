// File: assignments.go
// Role: builds the per-predicate/per-function static assignment sets that
// feed Build, scanning the
// program's Static-role ground atoms and ground function terms exactly
// once, before any rule has run (the static fact set never changes
// thereafter).
package consistency

import (
	"github.com/liftedplan/kpkc/assign"
	"github.com/liftedplan/kpkc/facts"
	"github.com/liftedplan/kpkc/ir"
)

// BuildStaticAssignments scans every ground atom and ground function term
// currently interned in p whose predicate/function is Static-role,
// widening one assign.PredicateAssignmentSet / assign.FunctionAssignmentSet
// per symbol. Call once, after the initial state has been loaded into p and
// fs but before the bottom-up driver starts its first stratum.
func BuildStaticAssignments(p *ir.Program, fs *facts.FactSets) StaticAssignments {
	numObjects := int(p.Objects.Size())

	out := StaticAssignments{
		Predicates: make(map[ir.Index]*assign.PredicateAssignmentSet),
		Functions:  make(map[ir.Index]*assign.FunctionAssignmentSet),
	}

	p.GroundAtoms.Merge(func(_ ir.Index, idx ir.GroupIndex, atom ir.GroundAtomData) {
		pred := p.Predicates.Get(atom.Predicate)
		if pred.Role != ir.Static {
			return
		}
		if !fs.Static.Contains(idx) {
			return
		}
		set, ok := out.Predicates[atom.Predicate]
		if !ok {
			set = assign.NewPredicateAssignmentSet(pred.Arity, numObjects)
			out.Predicates[atom.Predicate] = set
		}
		args := make([]int, len(atom.Args))
		for i, a := range atom.Args {
			args[i] = int(a)
		}
		set.Add(args)
	})

	p.GroundFuncTerms.Merge(func(_ ir.Index, idx ir.GroupIndex, ft ir.GroundFunctionTermData) {
		fn := p.Functions.Get(ft.Function)
		if fn.Role != ir.Static {
			return
		}
		value, ok := fs.Functions.Value(idx)
		if !ok {
			return
		}
		set, ok := out.Functions[ft.Function]
		if !ok {
			set = assign.NewFunctionAssignmentSet(fn.Arity, numObjects)
			out.Functions[ft.Function] = set
		}
		for pos, a := range ft.Args {
			set.Observe(pos, int(a), value)
		}
	})

	return out
}
