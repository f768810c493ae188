package plan_test

import (
	"github.com/liftedplan/kpkc/ir"
	"github.com/liftedplan/kpkc/plan"
)

// movingDomain is a minimal two-room "walk + carry a ball" domain: close
// enough to worked Gripper-style example to exercise action
// translation, successor generation and the three heuristics without
// pulling in a PDDL parser (explicitly out of scope).
type movingDomain struct{}

func (movingDomain) Predicates() []plan.PredicateDecl {
	return []plan.PredicateDecl{
		{Name: "room", Arity: 1, Role: ir.Static},
		{Name: "adjacent", Arity: 2, Role: ir.Static},
		{Name: "at-robot", Arity: 1, Role: ir.Fluent},
		{Name: "at-ball", Arity: 2, Role: ir.Fluent},
		{Name: "carrying", Arity: 1, Role: ir.Fluent},
		{Name: "free-hand", Arity: 0, Role: ir.Fluent},
		{Name: "reachable", Arity: 1, Role: ir.Derived},
	}
}

func (movingDomain) Functions() []plan.FunctionDecl { return nil }

func (movingDomain) Actions() []plan.ActionSchema {
	move := plan.ActionSchema{
		Name:       "move",
		Parameters: []string{"from", "to"},
		Precondition: []plan.LiteralSchema{
			{Positive: true, Atom: plan.AtomSchema{Predicate: "adjacent", Args: []plan.TermSchema{plan.Var("from"), plan.Var("to")}}},
			{Positive: true, Atom: plan.AtomSchema{Predicate: "at-robot", Args: []plan.TermSchema{plan.Var("from")}}},
		},
		Effects: []plan.ConditionalEffect{{
			Add: []plan.AtomSchema{{Predicate: "at-robot", Args: []plan.TermSchema{plan.Var("to")}}},
			Del: []plan.AtomSchema{{Predicate: "at-robot", Args: []plan.TermSchema{plan.Var("from")}}},
		}},
		Cost: 1,
	}
	pick := plan.ActionSchema{
		Name:       "pick",
		Parameters: []string{"ball", "room"},
		Precondition: []plan.LiteralSchema{
			{Positive: true, Atom: plan.AtomSchema{Predicate: "at-robot", Args: []plan.TermSchema{plan.Var("room")}}},
			{Positive: true, Atom: plan.AtomSchema{Predicate: "at-ball", Args: []plan.TermSchema{plan.Var("ball"), plan.Var("room")}}},
			{Positive: true, Atom: plan.AtomSchema{Predicate: "free-hand", Args: nil}},
		},
		Effects: []plan.ConditionalEffect{{
			Add: []plan.AtomSchema{{Predicate: "carrying", Args: []plan.TermSchema{plan.Var("ball")}}},
			Del: []plan.AtomSchema{
				{Predicate: "at-ball", Args: []plan.TermSchema{plan.Var("ball"), plan.Var("room")}},
				{Predicate: "free-hand", Args: nil},
			},
		}},
		Cost: 1,
	}
	return []plan.ActionSchema{move, pick}
}

func (movingDomain) Axioms() []plan.AxiomSchema {
	return []plan.AxiomSchema{{
		Name:       "reachable-self",
		Parameters: []string{"r"},
		Body: []plan.LiteralSchema{
			{Positive: true, Atom: plan.AtomSchema{Predicate: "at-robot", Args: []plan.TermSchema{plan.Var("r")}}},
		},
		Head: plan.AtomSchema{Predicate: "reachable", Args: []plan.TermSchema{plan.Var("r")}},
	}}
}

type movingTask struct{}

func (movingTask) Domain() plan.Domain { return movingDomain{} }
func (movingTask) Objects() []string   { return []string{"rooma", "roomb", "ball1"} }

func (movingTask) InitialAtoms() []plan.GroundAtom {
	return []plan.GroundAtom{
		{Predicate: "room", Args: []string{"rooma"}},
		{Predicate: "room", Args: []string{"roomb"}},
		{Predicate: "adjacent", Args: []string{"rooma", "roomb"}},
		{Predicate: "adjacent", Args: []string{"roomb", "rooma"}},
		{Predicate: "at-robot", Args: []string{"rooma"}},
		{Predicate: "at-ball", Args: []string{"ball1", "rooma"}},
		{Predicate: "free-hand", Args: nil},
	}
}

func (movingTask) InitialFunctionValues() []plan.GroundFunctionValue { return nil }

func (movingTask) Goal() []plan.GroundAtom {
	return []plan.GroundAtom{{Predicate: "carrying", Args: []string{"ball1"}}}
}

// selfNegatingDomain declares a derived predicate defined by its own
// negation, the canonical non-stratifiable program.
type selfNegatingDomain struct{}

func (selfNegatingDomain) Predicates() []plan.PredicateDecl {
	return []plan.PredicateDecl{{Name: "odd", Arity: 1, Role: ir.Derived}}
}
func (selfNegatingDomain) Functions() []plan.FunctionDecl { return nil }
func (selfNegatingDomain) Actions() []plan.ActionSchema   { return nil }
func (selfNegatingDomain) Axioms() []plan.AxiomSchema {
	return []plan.AxiomSchema{{
		Name:       "odd-from-not-odd",
		Parameters: []string{"x"},
		Body: []plan.LiteralSchema{
			{Positive: false, Atom: plan.AtomSchema{Predicate: "odd", Args: []plan.TermSchema{plan.Var("x")}}},
		},
		Head: plan.AtomSchema{Predicate: "odd", Args: []plan.TermSchema{plan.Var("x")}},
	}}
}

type selfNegatingTask struct{}

func (selfNegatingTask) Domain() plan.Domain                                 { return selfNegatingDomain{} }
func (selfNegatingTask) Objects() []string                                   { return []string{"a"} }
func (selfNegatingTask) InitialAtoms() []plan.GroundAtom                     { return nil }
func (selfNegatingTask) InitialFunctionValues() []plan.GroundFunctionValue   { return nil }
func (selfNegatingTask) Goal() []plan.GroundAtom                             { return nil }

// danglingAxiomDomain exercises dangling-existential elimination end to
// end: the axiom's head is nullary, so both body parameters are dangling
// and the whole body moves into a synthesized guard rule.
type danglingAxiomDomain struct{}

func (danglingAxiomDomain) Predicates() []plan.PredicateDecl {
	return []plan.PredicateDecl{
		{Name: "at-ball", Arity: 2, Role: ir.Fluent},
		{Name: "ball-somewhere", Arity: 0, Role: ir.Derived},
	}
}
func (danglingAxiomDomain) Functions() []plan.FunctionDecl { return nil }
func (danglingAxiomDomain) Actions() []plan.ActionSchema   { return nil }
func (danglingAxiomDomain) Axioms() []plan.AxiomSchema {
	return []plan.AxiomSchema{{
		Name:       "ball-somewhere-def",
		Parameters: []string{"b", "r"},
		Body: []plan.LiteralSchema{
			{Positive: true, Atom: plan.AtomSchema{Predicate: "at-ball", Args: []plan.TermSchema{plan.Var("b"), plan.Var("r")}}},
		},
		Head: plan.AtomSchema{Predicate: "ball-somewhere"},
	}}
}

type danglingAxiomTask struct{}

func (danglingAxiomTask) Domain() plan.Domain { return danglingAxiomDomain{} }
func (danglingAxiomTask) Objects() []string   { return []string{"ball1", "rooma"} }
func (danglingAxiomTask) InitialAtoms() []plan.GroundAtom {
	return []plan.GroundAtom{{Predicate: "at-ball", Args: []string{"ball1", "rooma"}}}
}
func (danglingAxiomTask) InitialFunctionValues() []plan.GroundFunctionValue { return nil }
func (danglingAxiomTask) Goal() []plan.GroundAtom {
	return []plan.GroundAtom{{Predicate: "ball-somewhere"}}
}

// unreachableGoalTask shares movingDomain but asks for a ball to be carried
// nowhere in the initial state can ever produce: ball2 is never placed
// anywhere, so no pick action can ever bind it.
type unreachableGoalTask struct{}

func (unreachableGoalTask) Domain() plan.Domain { return movingDomain{} }
func (unreachableGoalTask) Objects() []string   { return []string{"rooma", "roomb", "ball1", "ball2"} }
func (unreachableGoalTask) InitialAtoms() []plan.GroundAtom { return movingTask{}.InitialAtoms() }
func (unreachableGoalTask) InitialFunctionValues() []plan.GroundFunctionValue {
	return nil
}
func (unreachableGoalTask) Goal() []plan.GroundAtom {
	return []plan.GroundAtom{{Predicate: "carrying", Args: []string{"ball2"}}}
}
