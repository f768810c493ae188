package stratify_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/liftedplan/kpkc/ir"
	"github.com/liftedplan/kpkc/stratify"
)

func declarePred(t *testing.T, p *ir.Program, name string, arity int, role ir.Role) ir.Index {
	t.Helper()
	idx, _ := p.Predicates.GetOrCreate(ir.PredicateData{Name: name, Arity: arity, Role: role})
	return idx
}

func atomOf(t *testing.T, p *ir.Program, pred ir.Index, args ...ir.Term) ir.Index {
	t.Helper()
	idx, _ := p.Atoms.GetOrCreate(ir.AtomData{Predicate: pred, Args: args})
	return idx
}

func TestStratify_LinearPositiveChainIsOneStratum(t *testing.T) {
	p := ir.NewProgram()
	a := declarePred(t, p, "a", 1, ir.Derived)
	b := declarePred(t, p, "b", 1, ir.Derived)

	// b(?x) :- a(?x).  (positive, so a <= b: same stratum allowed)
	bodyAtom := atomOf(t, p, a, ir.VarTerm(0))
	headAtom := atomOf(t, p, b, ir.VarTerm(0))
	p.Rules.GetOrCreate(ir.RuleData{
		Name: "b-from-a",
		Body: ir.ConjunctiveCondition{
			Parameters: []ir.VariableData{{Name: "?x", Position: 0}},
			Derived:    []ir.Literal{{Atom: bodyAtom, Positive: true}},
		},
		Head: p.Atoms.Get(headAtom),
	})

	res, err := stratify.Stratify(p)
	require.NoError(t, err)
	require.Equal(t, stratify.LowerEq, res.Relation(a, b))
	require.Equal(t, res.Stratum[a], res.Stratum[b], "purely positive dependency allows the same stratum")
}

func TestStratify_NegationForcesStrictlyLowerStratum(t *testing.T) {
	p := ir.NewProgram()
	a := declarePred(t, p, "a", 1, ir.Derived)
	b := declarePred(t, p, "b", 1, ir.Derived)

	// b(?x) :- not a(?x).
	bodyAtom := atomOf(t, p, a, ir.VarTerm(0))
	headAtom := atomOf(t, p, b, ir.VarTerm(0))
	p.Rules.GetOrCreate(ir.RuleData{
		Name: "b-from-not-a",
		Body: ir.ConjunctiveCondition{
			Parameters: []ir.VariableData{{Name: "?x", Position: 0}},
			Derived:    []ir.Literal{{Atom: bodyAtom, Positive: false}},
		},
		Head: p.Atoms.Get(headAtom),
	})

	res, err := stratify.Stratify(p)
	require.NoError(t, err)
	require.Equal(t, stratify.StrictlyLower, res.Relation(a, b))
	require.Less(t, res.Stratum[a], res.Stratum[b])
}

func TestStratify_SelfNegationIsNotStratifiable(t *testing.T) {
	p := ir.NewProgram()
	a := declarePred(t, p, "a", 1, ir.Derived)

	bodyAtom := atomOf(t, p, a, ir.VarTerm(0))
	headAtom := atomOf(t, p, a, ir.VarTerm(0))
	p.Rules.GetOrCreate(ir.RuleData{
		Name: "a-from-not-a",
		Body: ir.ConjunctiveCondition{
			Parameters: []ir.VariableData{{Name: "?x", Position: 0}},
			Derived:    []ir.Literal{{Atom: bodyAtom, Positive: false}},
		},
		Head: p.Atoms.Get(headAtom),
	})

	_, err := stratify.Stratify(p)
	require.ErrorIs(t, err, stratify.ErrNotStratifiable)
}

func TestStratify_TransitiveStrictChain(t *testing.T) {
	p := ir.NewProgram()
	a := declarePred(t, p, "a", 1, ir.Derived)
	b := declarePred(t, p, "b", 1, ir.Derived)
	c := declarePred(t, p, "c", 1, ir.Derived)

	// b(?x) :- not a(?x).   c(?x) :- b(?x).  => a < b <= c, so a < c overall.
	aAtom := atomOf(t, p, a, ir.VarTerm(0))
	bHeadAtom := atomOf(t, p, b, ir.VarTerm(0))
	p.Rules.GetOrCreate(ir.RuleData{
		Name: "b-from-not-a",
		Body: ir.ConjunctiveCondition{
			Parameters: []ir.VariableData{{Name: "?x", Position: 0}},
			Derived:    []ir.Literal{{Atom: aAtom, Positive: false}},
		},
		Head: p.Atoms.Get(bHeadAtom),
	})
	bBodyAtom := atomOf(t, p, b, ir.VarTerm(0))
	cHeadAtom := atomOf(t, p, c, ir.VarTerm(0))
	p.Rules.GetOrCreate(ir.RuleData{
		Name: "c-from-b",
		Body: ir.ConjunctiveCondition{
			Parameters: []ir.VariableData{{Name: "?x", Position: 0}},
			Derived:    []ir.Literal{{Atom: bBodyAtom, Positive: true}},
		},
		Head: p.Atoms.Get(cHeadAtom),
	})

	res, err := stratify.Stratify(p)
	require.NoError(t, err)
	require.Equal(t, stratify.StrictlyLower, res.Relation(a, c))
	require.Less(t, res.Stratum[a], res.Stratum[c])
}

func TestStratify_RuleStratumMatchesHeadPredicate(t *testing.T) {
	p := ir.NewProgram()
	a := declarePred(t, p, "a", 1, ir.Derived)
	b := declarePred(t, p, "b", 1, ir.Derived)

	bodyAtom := atomOf(t, p, a, ir.VarTerm(0))
	headAtom := atomOf(t, p, b, ir.VarTerm(0))
	ruleIdx, _ := p.Rules.GetOrCreate(ir.RuleData{
		Name: "b-from-not-a",
		Body: ir.ConjunctiveCondition{
			Parameters: []ir.VariableData{{Name: "?x", Position: 0}},
			Derived:    []ir.Literal{{Atom: bodyAtom, Positive: false}},
		},
		Head: p.Atoms.Get(headAtom),
	})

	res, err := stratify.Stratify(p)
	require.NoError(t, err)
	require.Equal(t, res.Stratum[b], res.RuleStratum[ruleIdx])
}
