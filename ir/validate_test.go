package ir_test

import (
	"testing"

	"github.com/liftedplan/kpkc/ir"
	"github.com/stretchr/testify/require"
)

func buildMiniProgram(t *testing.T) *ir.Program {
	t.Helper()
	p := ir.NewProgram()

	atIdx, _ := p.Predicates.GetOrCreate(ir.PredicateData{Name: "at", Arity: 2, Role: ir.Fluent})
	roomIdx, _ := p.Predicates.GetOrCreate(ir.PredicateData{Name: "room", Arity: 1, Role: ir.Static})

	ball, _ := p.Objects.GetOrCreate(ir.ObjectData{Name: "ball1"})
	rooma, _ := p.Objects.GetOrCreate(ir.ObjectData{Name: "rooma"})
	roomb, _ := p.Objects.GetOrCreate(ir.ObjectData{Name: "roomb"})

	bodyAtom, _ := p.Atoms.GetOrCreate(ir.AtomData{Predicate: roomIdx, Args: []ir.Term{ir.VarTerm(0)}})
	headAtom, _ := p.Atoms.GetOrCreate(ir.AtomData{Predicate: atIdx, Args: []ir.Term{ir.ObjTerm(ball), ir.VarTerm(0)}})

	rule := ir.RuleData{
		Name: "move",
		Body: ir.ConjunctiveCondition{
			Parameters: []ir.VariableData{{Name: "?r", Position: 0}},
			Static:     []ir.Literal{{Atom: bodyAtom, Positive: true}},
		},
		Head: p.Atoms.Get(headAtom),
		Cost: 1,
	}
	p.Rules.GetOrCreate(rule)

	_ = rooma
	_ = roomb
	return p
}

func TestValidate_WellFormedProgram(t *testing.T) {
	p := buildMiniProgram(t)
	require.NoError(t, ir.Validate(p))
}

func TestValidate_ArityMismatchDetected(t *testing.T) {
	p := ir.NewProgram()
	pred, _ := p.Predicates.GetOrCreate(ir.PredicateData{Name: "at", Arity: 2, Role: ir.Fluent})
	badAtom, _ := p.Atoms.GetOrCreate(ir.AtomData{Predicate: pred, Args: []ir.Term{ir.ObjTerm(0)}})

	p.Rules.GetOrCreate(ir.RuleData{
		Name: "bad",
		Head: p.Atoms.Get(badAtom),
		Body: ir.ConjunctiveCondition{},
	})

	err := ir.Validate(p)
	require.Error(t, err)
	require.ErrorIs(t, err, ir.ErrArityMismatch)
}

func TestValidate_HeadRoleMustBeFluentOrDerived(t *testing.T) {
	p := ir.NewProgram()
	pred, _ := p.Predicates.GetOrCreate(ir.PredicateData{Name: "room", Arity: 1, Role: ir.Static})
	headAtom, _ := p.Atoms.GetOrCreate(ir.AtomData{Predicate: pred, Args: []ir.Term{ir.ObjTerm(0)}})

	p.Rules.GetOrCreate(ir.RuleData{
		Name: "bad-head",
		Head: p.Atoms.Get(headAtom),
		Body: ir.ConjunctiveCondition{},
	})

	err := ir.Validate(p)
	require.Error(t, err)
}
