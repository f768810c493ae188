package consistency_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/liftedplan/kpkc/assign"
	"github.com/liftedplan/kpkc/consistency"
	"github.com/liftedplan/kpkc/domain"
	"github.com/liftedplan/kpkc/ir"
)

// buildAdjacentRoomsProgram builds a two-parameter "move(?r1,?r2)" rule over
// a tiny two-room static "adjacent" graph: room(rooma), room(roomb),
// adjacent(rooma,roomb). Only (rooma,roomb) should survive as an edge; the
// reverse and self pairs never appeared in the static fact set.
func buildAdjacentRoomsProgram(t *testing.T) (*ir.Program, ir.Index, ir.RuleData, *domain.Domains, consistency.StaticAssignments) {
	t.Helper()
	p := ir.NewProgram()

	roomPred, _ := p.Predicates.GetOrCreate(ir.PredicateData{Name: "room", Arity: 1, Role: ir.Static})
	adjPred, _ := p.Predicates.GetOrCreate(ir.PredicateData{Name: "adjacent", Arity: 2, Role: ir.Static})
	atPred, _ := p.Predicates.GetOrCreate(ir.PredicateData{Name: "at-robot", Arity: 1, Role: ir.Fluent})

	rooma, _ := p.Objects.GetOrCreate(ir.ObjectData{Name: "rooma"})
	roomb, _ := p.Objects.GetOrCreate(ir.ObjectData{Name: "roomb"})

	p.GroundAtoms.GetOrCreate(roomPred, ir.GroundAtomData{Predicate: roomPred, Args: []ir.Index{rooma}})
	p.GroundAtoms.GetOrCreate(roomPred, ir.GroundAtomData{Predicate: roomPred, Args: []ir.Index{roomb}})
	p.GroundAtoms.GetOrCreate(adjPred, ir.GroundAtomData{Predicate: adjPred, Args: []ir.Index{rooma, roomb}})

	roomAtomR1, _ := p.Atoms.GetOrCreate(ir.AtomData{Predicate: roomPred, Args: []ir.Term{ir.VarTerm(0)}})
	roomAtomR2, _ := p.Atoms.GetOrCreate(ir.AtomData{Predicate: roomPred, Args: []ir.Term{ir.VarTerm(1)}})
	adjAtom, _ := p.Atoms.GetOrCreate(ir.AtomData{Predicate: adjPred, Args: []ir.Term{ir.VarTerm(0), ir.VarTerm(1)}})
	headAtom, _ := p.Atoms.GetOrCreate(ir.AtomData{Predicate: atPred, Args: []ir.Term{ir.VarTerm(1)}})

	// Seed at-robot's fluent domain so the widening pass has something to
	// do, though this rule's graph only cares about the static body.
	startBall, _ := p.Objects.GetOrCreate(ir.ObjectData{Name: "start"})
	p.GroundAtoms.GetOrCreate(atPred, ir.GroundAtomData{Predicate: atPred, Args: []ir.Index{startBall}})

	rule := ir.RuleData{
		Name: "move",
		Body: ir.ConjunctiveCondition{
			Parameters: []ir.VariableData{{Name: "?r1", Position: 0}, {Name: "?r2", Position: 1}},
			Static: []ir.Literal{
				{Atom: roomAtomR1, Positive: true},
				{Atom: roomAtomR2, Positive: true},
				{Atom: adjAtom, Positive: true},
			},
		},
		Head: p.Atoms.Get(headAtom),
		Cost: 1,
	}
	ruleIdx, _ := p.Rules.GetOrCreate(rule)

	doms := domain.Analyze(p)

	roomAssign := assign.NewPredicateAssignmentSet(1, int(p.Objects.Size()))
	roomAssign.Add([]int{int(rooma)})
	roomAssign.Add([]int{int(roomb)})

	adjAssign := assign.NewPredicateAssignmentSet(2, int(p.Objects.Size()))
	adjAssign.Add([]int{int(rooma), int(roomb)})

	assignments := consistency.StaticAssignments{
		Predicates: map[ir.Index]*assign.PredicateAssignmentSet{
			roomPred: roomAssign,
			adjPred:  adjAssign,
		},
		Functions: map[ir.Index]*assign.FunctionAssignmentSet{},
	}

	return p, ruleIdx, rule, doms, assignments
}

func TestBuild_VerticesRestrictedToStaticDomain(t *testing.T) {
	p, ruleIdx, rule, doms, assignments := buildAdjacentRoomsProgram(t)

	g := consistency.Build(p, ruleIdx, rule, doms, assignments)

	// adjacent(rooma,roomb) is the only adjacency fact, so the restriction
	// step pins ?r1 to {rooma} and ?r2 to {roomb} before any edge is built.
	require.Equal(t, 1, g.Partitions[0].Size())
	require.Equal(t, 1, g.Partitions[1].Size())

	_, ok := g.Partitions[0].Local(mustFindObject(t, p, "roomb"))
	require.False(t, ok, "roomb never appears at adjacent's first position")
	_, ok = g.Partitions[1].Local(mustFindObject(t, p, "rooma"))
	require.False(t, ok, "rooma never appears at adjacent's second position")
}

func TestBuild_OnlyWitnessedEdgeSurvives(t *testing.T) {
	p, ruleIdx, rule, doms, assignments := buildAdjacentRoomsProgram(t)

	g := consistency.Build(p, ruleIdx, rule, doms, assignments)

	roomaLocal0, ok := g.Partitions[0].Local(mustFindObject(t, p, "rooma"))
	require.True(t, ok)
	roombLocal1, ok := g.Partitions[1].Local(mustFindObject(t, p, "roomb"))
	require.True(t, ok)
	require.True(t, g.Matrix.Adjacent(0, roomaLocal0, 1, roombLocal1))
}

func mustFindObject(t *testing.T, p *ir.Program, name string) ir.Index {
	t.Helper()
	idx, ok := p.Objects.Find(ir.ObjectData{Name: name})
	require.True(t, ok)
	return idx
}
