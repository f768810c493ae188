// File: sets.go
// Role: FactSets bundles the four fact collections the engine reads and
// writes each iteration.
package facts

import "github.com/liftedplan/kpkc/ir"

// FactSets bundles every fact collection the bottom-up driver threads
// through a stratum's evaluation loop.
type FactSets struct {
	// Static never changes after the initial state is loaded.
	Static *PredicateFactSet
	// Fluent changes under rule/action effects (derived from action
	// schemas translated into RuleData by package plan).
	Fluent *PredicateFactSet
	// Derived holds axiom-produced atoms. CloneForSearchNode starts it
	// empty, so axioms recompute from scratch for every search node, since
	// their inputs may have changed.
	Derived *PredicateFactSet

	Functions *FunctionFactSet

	// Goal is the conjunction of ground atoms the termination policy
	// watches for achievement.
	Goal []ir.GroundAtomData
}

// NewFactSets returns an empty bundle.
func NewFactSets() *FactSets {
	return &FactSets{
		Static:    NewPredicateFactSet(),
		Fluent:    NewPredicateFactSet(),
		Derived:   NewPredicateFactSet(),
		Functions: NewFunctionFactSet(),
	}
}

// ForRole returns the fact set a predicate of the given role is tracked in.
// Static predicates are tracked in Static, Fluent in Fluent, Derived in
// Derived; Auxiliary has no predicate-role meaning and panics.
func (f *FactSets) ForRole(role ir.Role) *PredicateFactSet {
	switch role {
	case ir.Static:
		return f.Static
	case ir.Fluent:
		return f.Fluent
	case ir.Derived:
		return f.Derived
	default:
		panic("facts: no PredicateFactSet for role " + role.String())
	}
}

// AdvanceDelta clears every fact collection's delta in one call, matching
// the engine's per-bucket advance boundary.
func (f *FactSets) AdvanceDelta() {
	f.Static.AdvanceDelta()
	f.Fluent.AdvanceDelta()
	f.Derived.AdvanceDelta()
	f.Functions.AdvanceDelta()
}

// CloneForSearchNode returns a new bundle sharing f's Static set (static
// facts never change for the life of a task) but holding independent deep
// copies of Fluent and Functions — one per in-flight search node
// (package plan's State), and a fresh empty Derived set ready for the next
// stratified re-derivation. Goal is copied by reference: every node agrees
// on what the goal condition is.
func (f *FactSets) CloneForSearchNode() *FactSets {
	return &FactSets{
		Static:    f.Static,
		Fluent:    f.Fluent.Clone(),
		Derived:   NewPredicateFactSet(),
		Functions: f.Functions.Clone(),
		Goal:      f.Goal,
	}
}
