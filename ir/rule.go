package ir

import (
	"fmt"
	"strings"
)

// ConjunctiveCondition is the ordered body of a rule: declared
// parameter variables plus separate tuples of static, fluent and derived
// literals and numeric constraints. Keeping the tuples separate (rather
// than one mixed literal list) is what lets the engine apply each kind's
// evaluation rule (static fact set, fluent fact set + delta, derived fact
// set, arithmetic) without a type switch per literal at evaluation time.
type ConjunctiveCondition struct {
	Parameters []VariableData

	Static  []Literal // literals over Static predicates
	Fluent  []Literal // literals over Fluent predicates
	Derived []Literal // literals over Derived predicates
	Numeric []Index   // GroundExprData/ExprData indices of comparison ops
}

// Arity is the number of declared rule parameters (k in "k-partite
// k-clique").
func (c ConjunctiveCondition) Arity() int { return len(c.Parameters) }

// RuleData is a Datalog rule: body implies head, with an associated cost.
type RuleData struct {
	Body  ConjunctiveCondition
	Head  AtomData
	Cost  uint32
	Name  string // schema name this rule was translated from, for diagnostics
}

// Key implements Data. Two rules are the same node only if their body and
// head are literally identical; in practice rules are not deduplicated
// against each other (each action schema/axiom contributes its own rule),
// but Key is still required to store RuleData in a Repository.
func (r RuleData) Key() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s|params=%d|cost=%d|head=%s(", r.Name, len(r.Body.Parameters), r.Cost, r.Head.Key())
	writeLits := func(lits []Literal) {
		for i, l := range lits {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(l.key())
		}
		b.WriteByte('|')
	}
	writeLits(r.Body.Static)
	writeLits(r.Body.Fluent)
	writeLits(r.Body.Derived)
	for i, n := range r.Body.Numeric {
		if i > 0 {
			b.WriteByte(',')
		}
		fmt.Fprintf(&b, "n%d", n)
	}
	return b.String()
}

// AxiomData is a derived-predicate definition: body implies a derived head
// atom, with no cost contribution (axioms are not actions). Represented
// distinctly from RuleData at the planning-task level (package plan
// translates both axioms and action schemas into RuleData for the engine;
// an axiom becomes a zero-cost RuleData whose head predicate has Role
// Derived).
type AxiomData struct {
	Body ConjunctiveCondition
	Head AtomData
}
