// File: successor.go
// Role: SuccessorGenerator: finds every ground action
// applicable at a State by running the core engine once over the
// action-header rules and axioms (each header rule's Derived head is the
// translated action schema's "applicable now" signal) and reading off each
// witness binding, then builds the successor
// State for every ground action a caller chooses to expand.
//
// Applicability detection (the engine run) is split from effect
// application (Apply, in effects.go) so a caller can filter or rank
// ground actions before paying for any of them.
package plan

import (
	"context"
	"sort"

	"github.com/hashicorp/go-hclog"

	"github.com/liftedplan/kpkc/annotate"
	"github.com/liftedplan/kpkc/engine"
	"github.com/liftedplan/kpkc/ir"
)

// SuccessorGenerator finds every ground action applicable at a State.
type SuccessorGenerator struct {
	built  *Built
	log    hclog.Logger
	driver *engine.Driver
}

// SuccessorOption configures a SuccessorGenerator.
type SuccessorOption func(*SuccessorGenerator)

// WithSuccessorLogger overrides the generator's logger.
func WithSuccessorLogger(l hclog.Logger) SuccessorOption {
	return func(g *SuccessorGenerator) { g.log = l }
}

// NewSuccessorGenerator builds a generator over built.
func NewSuccessorGenerator(built *Built, opts ...SuccessorOption) *SuccessorGenerator {
	g := &SuccessorGenerator{built: built, log: hclog.NewNullLogger()}
	for _, o := range opts {
		o(g)
	}
	g.driver = engine.NewDriver(engine.WithLogger(g.log), engine.WithRuleFilter(func(r ir.Index) bool {
		// Effect-reachability rules belong to the heuristics' relaxed runs
		// only; a successor run evaluates headers and axioms against the
		// state exactly as it stands.
		_, isEffect := built.EffectRuleOwner[r]
		return !isEffect
	}))
	return g
}

// Applicable returns every ground action applicable at s, in a
// deterministic order (by schema name, then by object binding), running
// the engine's bottom-up evaluator to re-derive axioms and action headers
// against s's current facts. s itself is left untouched.
func (g *SuccessorGenerator) Applicable(ctx context.Context, s *State) ([]GroundAction, error) {
	// Run against a scratch clone: the driver widens its fact sets in place
	// (derived axiom heads and action headers), and none of that may leak
	// back into the real search node.
	work := s.Facts.CloneForSearchNode()
	table := annotate.NewTable(annotate.NoPolicy{})

	// Every fluent atom already true in s supports a body at no derivation
	// cost; without these seeds the driver would treat them as underived.
	for name, predIdx := range g.built.Predicates {
		decl := g.built.predicateDecls[name]
		if decl.Role != ir.Fluent {
			continue
		}
		present := work.Fluent.Present(predIdx)
		for v, ok := present.NextSet(0); ok; v, ok = present.NextSet(v + 1) {
			table.Seed(ir.GroupIndex{Group: predIdx, Value: ir.Index(v)}, 0)
		}
	}

	if err := g.driver.Run(ctx, g.built.Program, g.built.Strat, g.built.Domains, g.built.StaticAssignments, work, table, nil); err != nil {
		return nil, err
	}

	var out []GroundAction
	for headerPred, tmpl := range g.built.ActionByHeader {
		present := work.Derived.Present(headerPred)
		for v, ok := present.NextSet(0); ok; v, ok = present.NextSet(v + 1) {
			idx := ir.GroupIndex{Group: headerPred, Value: ir.Index(v)}
			w := table.Witness(idx)
			if w == nil {
				continue
			}
			out = append(out, groundActionFrom(g.built, tmpl, w.Binding))
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Schema.Name != out[j].Schema.Name {
			return out[i].Schema.Name < out[j].Schema.Name
		}
		return out[i].Name() < out[j].Name()
	})
	return out, nil
}

// Successor pairs one applicable ground action with the state reached by
// applying it.
type Successor struct {
	Action GroundAction
	Node   *State
}

// LabeledSuccessors returns one (action, successor state) pair per ground
// action applicable at s, in the same deterministic order Applicable uses.
// s itself is left untouched; every returned Node is an independent clone.
func (g *SuccessorGenerator) LabeledSuccessors(ctx context.Context, s *State) ([]Successor, error) {
	actions, err := g.Applicable(ctx, s)
	if err != nil {
		return nil, err
	}
	out := make([]Successor, len(actions))
	for i, a := range actions {
		out[i] = Successor{Action: a, Node: Apply(s, a)}
	}
	return out, nil
}

func groundActionFrom(built *Built, tmpl *ActionTemplate, binding ir.Binding) GroundAction {
	objects := make([]string, len(binding))
	for i, obj := range binding {
		objects[i] = built.ObjectName(obj)
	}
	cost := tmpl.Schema.Cost
	if tmpl.Schema.CostExpr != nil {
		rule := built.Program.Rules.Get(tmpl.RuleIdx)
		cost = rule.Cost
	}
	return GroundAction{Schema: &tmpl.Schema, Binding: binding, Objects: objects, Cost: cost}
}
