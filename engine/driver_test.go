package engine_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/liftedplan/kpkc/annotate"
	"github.com/liftedplan/kpkc/consistency"
	"github.com/liftedplan/kpkc/domain"
	"github.com/liftedplan/kpkc/engine"
	"github.com/liftedplan/kpkc/facts"
	"github.com/liftedplan/kpkc/ir"
	"github.com/liftedplan/kpkc/stratify"
	"github.com/liftedplan/kpkc/terminate"
)

// moveProgram builds the same two-room "move" rule kpkc's own tests use
// (room/adjacent Static, at-robot Fluent anchoring the source room, head
// at-robot(?r2)), but wired all the way up through facts/stratify/domain so
// Driver.Run can be exercised end to end.
func moveProgram(t *testing.T) (p *ir.Program, ruleIdx ir.Index, atPred, rooma, roomb ir.Index, fs *facts.FactSets) {
	t.Helper()
	p = ir.NewProgram()

	roomPred, _ := p.Predicates.GetOrCreate(ir.PredicateData{Name: "room", Arity: 1, Role: ir.Static})
	adjPred, _ := p.Predicates.GetOrCreate(ir.PredicateData{Name: "adjacent", Arity: 2, Role: ir.Static})
	atPred, _ = p.Predicates.GetOrCreate(ir.PredicateData{Name: "at-robot", Arity: 1, Role: ir.Fluent})

	rooma, _ = p.Objects.GetOrCreate(ir.ObjectData{Name: "rooma"})
	roomb, _ = p.Objects.GetOrCreate(ir.ObjectData{Name: "roomb"})

	roomAIdx, _ := p.GroundAtoms.GetOrCreate(roomPred, ir.GroundAtomData{Predicate: roomPred, Args: []ir.Index{rooma}})
	roomBIdx, _ := p.GroundAtoms.GetOrCreate(roomPred, ir.GroundAtomData{Predicate: roomPred, Args: []ir.Index{roomb}})
	adjIdx, _ := p.GroundAtoms.GetOrCreate(adjPred, ir.GroundAtomData{Predicate: adjPred, Args: []ir.Index{rooma, roomb}})
	atRoomaIdx, _ := p.GroundAtoms.GetOrCreate(atPred, ir.GroundAtomData{Predicate: atPred, Args: []ir.Index{rooma}})

	roomAtomR1, _ := p.Atoms.GetOrCreate(ir.AtomData{Predicate: roomPred, Args: []ir.Term{ir.VarTerm(0)}})
	roomAtomR2, _ := p.Atoms.GetOrCreate(ir.AtomData{Predicate: roomPred, Args: []ir.Term{ir.VarTerm(1)}})
	adjAtom, _ := p.Atoms.GetOrCreate(ir.AtomData{Predicate: adjPred, Args: []ir.Term{ir.VarTerm(0), ir.VarTerm(1)}})
	atAtom, _ := p.Atoms.GetOrCreate(ir.AtomData{Predicate: atPred, Args: []ir.Term{ir.VarTerm(0)}})
	headAtom, _ := p.Atoms.GetOrCreate(ir.AtomData{Predicate: atPred, Args: []ir.Term{ir.VarTerm(1)}})

	rule := ir.RuleData{
		Name: "move",
		Body: ir.ConjunctiveCondition{
			Parameters: []ir.VariableData{{Name: "?r1", Position: 0}, {Name: "?r2", Position: 1}},
			Static: []ir.Literal{
				{Atom: roomAtomR1, Positive: true},
				{Atom: roomAtomR2, Positive: true},
				{Atom: adjAtom, Positive: true},
			},
			Fluent: []ir.Literal{
				{Atom: atAtom, Positive: true},
			},
		},
		Head: p.Atoms.Get(headAtom),
		Cost: 1,
	}
	ruleIdx, _ = p.Rules.GetOrCreate(rule)

	fs = facts.NewFactSets()
	fs.Static.Add(roomAIdx)
	fs.Static.Add(roomBIdx)
	fs.Static.Add(adjIdx)
	fs.Fluent.Add(atRoomaIdx)

	return p, ruleIdx, atPred, rooma, roomb, fs
}

func TestDriver_RunDerivesNewFluentAtomWithSumCost(t *testing.T) {
	p, ruleIdx, atPred, rooma, roomb, fs := moveProgram(t)

	doms := domain.Analyze(p)
	assignments := consistency.BuildStaticAssignments(p, fs)
	strat, err := stratify.Stratify(p)
	require.NoError(t, err)

	table := annotate.NewTable(annotate.SumPolicy{})
	atRoomaIdx, _ := p.GroundAtoms.Find(atPred, ir.GroundAtomData{Predicate: atPred, Args: []ir.Index{rooma}})
	table.Seed(atRoomaIdx, 0)

	driver := engine.NewDriver()
	require.NoError(t, driver.Run(context.Background(), p, strat, doms, assignments, fs, table, nil))

	roombIdx, ok := p.GroundAtoms.Find(atPred, ir.GroundAtomData{Predicate: atPred, Args: []ir.Index{roomb}})
	require.True(t, ok, "move's head must have been interned")
	require.True(t, fs.Fluent.Contains(roombIdx))
	require.Equal(t, annotate.Cost(1), table.Cost(roombIdx))

	witness := table.Witness(roombIdx)
	require.NotNil(t, witness)
	require.Equal(t, ruleIdx, witness.RuleIdx)
	require.Equal(t, []ir.GroupIndex{atRoomaIdx}, witness.Support)

	snap := driver.Stats().Snapshot()
	require.Equal(t, 1, snap.Strata)
	require.Greater(t, snap.NewHeads, 0)
}

func TestDriver_RunStopsEarlyOnceGoalTrackerSettles(t *testing.T) {
	p, _, atPred, rooma, roomb, fs := moveProgram(t)

	doms := domain.Analyze(p)
	assignments := consistency.BuildStaticAssignments(p, fs)
	strat, err := stratify.Stratify(p)
	require.NoError(t, err)

	table := annotate.NewTable(annotate.SumPolicy{})
	atRoomaIdx, _ := p.GroundAtoms.Find(atPred, ir.GroundAtomData{Predicate: atPred, Args: []ir.Index{rooma}})
	table.Seed(atRoomaIdx, 0)

	roombGround := ir.GroundAtomData{Predicate: atPred, Args: []ir.Index{roomb}}
	roombIdx, _ := p.GroundAtoms.GetOrCreate(atPred, roombGround)
	goal := terminate.NewGoalTracker(table, []ir.GroupIndex{roombIdx})

	driver := engine.NewDriver()
	require.NoError(t, driver.Run(context.Background(), p, strat, doms, assignments, fs, table, goal))

	require.True(t, fs.Fluent.Contains(roombIdx))
	require.Equal(t, annotate.Cost(1), table.Cost(roombIdx))
}

func TestDriver_RunWithNoPolicyIgnoresCost(t *testing.T) {
	p, _, atPred, rooma, roomb, fs := moveProgram(t)

	doms := domain.Analyze(p)
	assignments := consistency.BuildStaticAssignments(p, fs)
	strat, err := stratify.Stratify(p)
	require.NoError(t, err)

	table := annotate.NewTable(annotate.NoPolicy{})
	atRoomaIdx, _ := p.GroundAtoms.Find(atPred, ir.GroundAtomData{Predicate: atPred, Args: []ir.Index{rooma}})
	table.Seed(atRoomaIdx, 0)

	driver := engine.NewDriver()
	require.NoError(t, driver.Run(context.Background(), p, strat, doms, assignments, fs, table, nil))

	roombIdx, ok := p.GroundAtoms.Find(atPred, ir.GroundAtomData{Predicate: atPred, Args: []ir.Index{roomb}})
	require.True(t, ok)
	require.Equal(t, annotate.Cost(0), table.Cost(roombIdx))
	require.True(t, table.Derived(roombIdx))
}
