package ir_test

import (
	"testing"

	"github.com/liftedplan/kpkc/ir"
	"github.com/stretchr/testify/require"
)

// danglingProgram builds h(?x) :- q(?x), r(?y, ?z): the ?y/?z component
// never touches the head, so both parameters are dangling.
func danglingProgram(t *testing.T) (*ir.Program, ir.Index, ir.Index, ir.Index) {
	t.Helper()
	p := ir.NewProgram()

	h, _ := p.Predicates.GetOrCreate(ir.PredicateData{Name: "h", Arity: 1, Role: ir.Fluent})
	q, _ := p.Predicates.GetOrCreate(ir.PredicateData{Name: "q", Arity: 1, Role: ir.Fluent})
	r, _ := p.Predicates.GetOrCreate(ir.PredicateData{Name: "r", Arity: 2, Role: ir.Fluent})

	qAtom, _ := p.Atoms.GetOrCreate(ir.AtomData{Predicate: q, Args: []ir.Term{ir.VarTerm(0)}})
	rAtom, _ := p.Atoms.GetOrCreate(ir.AtomData{Predicate: r, Args: []ir.Term{ir.VarTerm(1), ir.VarTerm(2)}})

	rule := ir.RuleData{
		Name: "dangling",
		Body: ir.ConjunctiveCondition{
			Parameters: []ir.VariableData{
				{Name: "?x", Position: 0}, {Name: "?y", Position: 1}, {Name: "?z", Position: 2},
			},
			Fluent: []ir.Literal{
				{Atom: qAtom, Positive: true},
				{Atom: rAtom, Positive: true},
			},
		},
		Head: ir.AtomData{Predicate: h, Args: []ir.Term{ir.VarTerm(0)}},
		Cost: 3,
	}
	ruleIdx, _ := p.Rules.GetOrCreate(rule)
	return p, ruleIdx, qAtom, r
}

func TestEliminateDangling_SplitsRuleAndGuard(t *testing.T) {
	p, ruleIdx, qAtom, r := danglingProgram(t)

	rw := ir.EliminateDanglingExistentials(p)
	dst := rw.Program
	require.EqualValues(t, 2, dst.Rules.Size(), "one guarded rule plus one guard rule")

	gp, ok := rw.GuardPredicates[ruleIdx]
	require.True(t, ok)
	require.Equal(t, "@guard_0", dst.Predicates.Get(gp).Name)
	require.Equal(t, 0, dst.Predicates.Get(gp).Arity)

	guarded := dst.Rules.Get(ruleIdx)
	require.Equal(t, "dangling", guarded.Name)
	require.Equal(t, uint32(3), guarded.Cost)
	require.Len(t, guarded.Body.Parameters, 1, "only ?x survives")
	require.Len(t, guarded.Body.Fluent, 2, "q(?x) plus the guard literal; r is projected out")

	var sawQ, sawGuard bool
	for _, l := range guarded.Body.Fluent {
		require.True(t, l.Positive)
		switch dst.Atoms.Get(l.Atom).Predicate {
		case dst.Atoms.Get(qAtom).Predicate:
			sawQ = true
		case gp:
			sawGuard = true
		}
	}
	require.True(t, sawQ)
	require.True(t, sawGuard)

	guardIdx, ok := rw.Guards[ruleIdx]
	require.True(t, ok)
	guard := dst.Rules.Get(guardIdx)
	require.Equal(t, gp, guard.Head.Predicate)
	require.Empty(t, guard.Head.Args)
	require.Equal(t, uint32(0), guard.Cost)
	require.Len(t, guard.Body.Parameters, 2, "?y and ?z move into the guard")
	require.Len(t, guard.Body.Fluent, 1)

	kept := dst.Atoms.Get(guard.Body.Fluent[0].Atom)
	require.Equal(t, r, kept.Predicate)
	require.Equal(t, []ir.Term{ir.VarTerm(0), ir.VarTerm(1)}, kept.Args, "guard-side parameters are densely renumbered")
}

func TestEliminateDangling_UntouchedRuleKeepsIndexAndShape(t *testing.T) {
	p := ir.NewProgram()
	h, _ := p.Predicates.GetOrCreate(ir.PredicateData{Name: "h", Arity: 1, Role: ir.Fluent})
	q, _ := p.Predicates.GetOrCreate(ir.PredicateData{Name: "q", Arity: 1, Role: ir.Fluent})
	qAtom, _ := p.Atoms.GetOrCreate(ir.AtomData{Predicate: q, Args: []ir.Term{ir.VarTerm(0)}})

	rule := ir.RuleData{
		Name: "plain",
		Body: ir.ConjunctiveCondition{
			Parameters: []ir.VariableData{{Name: "?x", Position: 0}},
			Fluent:     []ir.Literal{{Atom: qAtom, Positive: true}},
		},
		Head: ir.AtomData{Predicate: h, Args: []ir.Term{ir.VarTerm(0)}},
		Cost: 1,
	}
	ruleIdx, _ := p.Rules.GetOrCreate(rule)

	rw := ir.EliminateDanglingExistentials(p)
	require.Empty(t, rw.Guards)
	require.EqualValues(t, p.Rules.Size(), rw.Program.Rules.Size())
	require.Equal(t, p.Rules.Get(ruleIdx), rw.Program.Rules.Get(ruleIdx))
}

func TestEliminateDangling_NumericOnlyParameterMovesToGuard(t *testing.T) {
	p := ir.NewProgram()
	h, _ := p.Predicates.GetOrCreate(ir.PredicateData{Name: "h", Arity: 1, Role: ir.Fluent})
	q, _ := p.Predicates.GetOrCreate(ir.PredicateData{Name: "q", Arity: 1, Role: ir.Fluent})
	fn, _ := p.Functions.GetOrCreate(ir.FunctionData{Name: "f", Arity: 1, Role: ir.Fluent})

	qAtom, _ := p.Atoms.GetOrCreate(ir.AtomData{Predicate: q, Args: []ir.Term{ir.VarTerm(0)}})
	ft, _ := p.FuncTerms.GetOrCreate(ir.FunctionTermData{Function: fn, Args: []ir.Term{ir.VarTerm(1)}})
	ftExpr, _ := p.Exprs.GetOrCreate(ir.ExprData{Kind: ir.ExprFuncTerm, FuncTerm: ft, FuncRole: ir.Fluent})
	three, _ := p.Exprs.GetOrCreate(ir.ExprData{Kind: ir.ExprNumber, Number: 3})
	gt, _ := p.Exprs.GetOrCreate(ir.ExprData{Kind: ir.ExprBinary, Op: ir.OpGt, Operands: []ir.Index{ftExpr, three}})

	rule := ir.RuleData{
		Name: "numeric-dangling",
		Body: ir.ConjunctiveCondition{
			Parameters: []ir.VariableData{{Name: "?x", Position: 0}, {Name: "?y", Position: 1}},
			Fluent:     []ir.Literal{{Atom: qAtom, Positive: true}},
			Numeric:    []ir.Index{gt},
		},
		Head: ir.AtomData{Predicate: h, Args: []ir.Term{ir.VarTerm(0)}},
	}
	ruleIdx, _ := p.Rules.GetOrCreate(rule)

	rw := ir.EliminateDanglingExistentials(p)
	dst := rw.Program

	guarded := dst.Rules.Get(ruleIdx)
	require.Empty(t, guarded.Body.Numeric, "the f(?y) > 3 constraint follows ?y into the guard")
	require.Len(t, guarded.Body.Parameters, 1)

	guard := dst.Rules.Get(rw.Guards[ruleIdx])
	require.Len(t, guard.Body.Parameters, 1)
	require.Len(t, guard.Body.Numeric, 1)

	root := dst.Exprs.Get(guard.Body.Numeric[0])
	require.Equal(t, ir.OpGt, root.Op)
	lhs := dst.Exprs.Get(root.Operands[0])
	require.Equal(t, ir.ExprFuncTerm, lhs.Kind)
	require.Equal(t, []ir.Term{ir.VarTerm(0)}, dst.FuncTerms.Get(lhs.FuncTerm).Args)
}
