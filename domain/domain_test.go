package domain_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/liftedplan/kpkc/domain"
	"github.com/liftedplan/kpkc/ir"
)

// buildGripperLikeProgram builds a tiny two-predicate program resembling a
// fragment of Gripper: "room" is static, "at" is fluent, and a single rule
// "move" widens at/1 from every room seen in room/1's domain.
func buildGripperLikeProgram(t *testing.T) (*ir.Program, ir.Index /*rule*/) {
	t.Helper()
	p := ir.NewProgram()

	roomPred, _ := p.Predicates.GetOrCreate(ir.PredicateData{Name: "room", Arity: 1, Role: ir.Static})
	atPred, _ := p.Predicates.GetOrCreate(ir.PredicateData{Name: "at", Arity: 2, Role: ir.Fluent})

	ball, _ := p.Objects.GetOrCreate(ir.ObjectData{Name: "ball1"})
	rooma, _ := p.Objects.GetOrCreate(ir.ObjectData{Name: "rooma"})
	roomb, _ := p.Objects.GetOrCreate(ir.ObjectData{Name: "roomb"})

	p.GroundAtoms.GetOrCreate(roomPred, ir.GroundAtomData{Predicate: roomPred, Args: []ir.Index{rooma}})
	p.GroundAtoms.GetOrCreate(roomPred, ir.GroundAtomData{Predicate: roomPred, Args: []ir.Index{roomb}})
	p.GroundAtoms.GetOrCreate(atPred, ir.GroundAtomData{Predicate: atPred, Args: []ir.Index{ball, rooma}})

	roomAtom, _ := p.Atoms.GetOrCreate(ir.AtomData{Predicate: roomPred, Args: []ir.Term{ir.VarTerm(0)}})
	headAtom, _ := p.Atoms.GetOrCreate(ir.AtomData{Predicate: atPred, Args: []ir.Term{ir.ObjTerm(ball), ir.VarTerm(0)}})

	ruleIdx, _ := p.Rules.GetOrCreate(ir.RuleData{
		Name: "move",
		Body: ir.ConjunctiveCondition{
			Parameters: []ir.VariableData{{Name: "?r", Position: 0}},
			Static:     []ir.Literal{{Atom: roomAtom, Positive: true}},
		},
		Head: p.Atoms.Get(headAtom),
		Cost: 1,
	})

	return p, ruleIdx
}

func TestAnalyze_RuleParameterRestrictedByStaticLiteral(t *testing.T) {
	p, rule := buildGripperLikeProgram(t)
	d := domain.Analyze(p)

	roomDomain := d.RuleParameter(rule, 0)
	require.EqualValues(t, 2, roomDomain.Count(), "?r restricted to exactly the two rooms seen in room/1")
}

func TestAnalyze_FluentPredicateWidenedFromRuleHead(t *testing.T) {
	p, _ := buildGripperLikeProgram(t)
	d := domain.Analyze(p)

	atPred, _ := p.Predicates.Find(ir.PredicateData{Name: "at", Arity: 2, Role: ir.Fluent})
	// Position 1 of at/2 starts with just rooma (from init) and must widen to
	// include roomb via the "move" rule's head, whose parameter domain is
	// {rooma, roomb}.
	require.EqualValues(t, 2, d.Predicate(atPred, 1).Count())
}

func TestAnalyze_UnrelatedPositionUnaffected(t *testing.T) {
	p, _ := buildGripperLikeProgram(t)
	d := domain.Analyze(p)

	atPred, _ := p.Predicates.Find(ir.PredicateData{Name: "at", Arity: 2, Role: ir.Fluent})
	// Position 0 of at/2 (the ball argument) only ever saw "ball1" and is
	// never widened by the rule (its head binds that position to a constant).
	require.EqualValues(t, 1, d.Predicate(atPred, 0).Count())
}

func TestAnalyze_UniverseCoversAllObjects(t *testing.T) {
	p, _ := buildGripperLikeProgram(t)
	d := domain.Analyze(p)
	require.EqualValues(t, p.Objects.Size(), d.Universe().Count())
}
