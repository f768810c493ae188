// File: driver.go
// Role: the bottom-up stratified semi-naive evaluation loop:
// per stratum, repeatedly enumerate new bindings via package kpkc, check
// each one exactly, fold accepted heads into the fact sets and annotation
// table, advance one cost bucket, and reschedule only the rules a changed
// predicate actually affects, until the stratum reaches a fixed point (or,
// when a GoalTracker is supplied, until every goal is settled).
package engine

import (
	"context"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"

	"github.com/liftedplan/kpkc/annotate"
	"github.com/liftedplan/kpkc/consistency"
	"github.com/liftedplan/kpkc/costbucket"
	"github.com/liftedplan/kpkc/domain"
	"github.com/liftedplan/kpkc/facts"
	"github.com/liftedplan/kpkc/ir"
	"github.com/liftedplan/kpkc/kpkc"
	"github.com/liftedplan/kpkc/schedule"
	"github.com/liftedplan/kpkc/stratify"
	"github.com/liftedplan/kpkc/terminate"
)

// Option configures a Driver, a functional-options pattern generalized
// to this package.
type Option func(*config)

type config struct {
	logger     hclog.Logger
	workers    int
	ruleFilter func(ir.Index) bool
}

func defaultConfig() config {
	return config{logger: hclog.NewNullLogger(), workers: 1}
}

// WithLogger overrides the driver's logger (default: discards everything).
func WithLogger(l hclog.Logger) Option {
	return func(c *config) { c.logger = l }
}

// WithWorkers sets the maximum number of goroutines rule enumeration may
// fan out across (default 1, i.e. fully sequential). Values below 1 are
// treated as 1.
func WithWorkers(n int) Option {
	return func(c *config) {
		if n < 1 {
			n = 1
		}
		c.workers = n
	}
}

// WithRuleFilter restricts Run to the rules filter accepts. Package plan's
// successor generator uses this to evaluate only action-header rules and
// axioms: feeding effect-reachability rules into a successor run would close
// the state under delete relaxation and report headers for bindings that are
// only applicable somewhere downstream, not here.
func WithRuleFilter(filter func(ir.Index) bool) Option {
	return func(c *config) { c.ruleFilter = filter }
}

// Driver runs the bottom-up evaluation loop over a stratified program. One
// Driver instance is reusable across multiple Run calls (e.g. one call per
// successor state in package plan's search loop); Stats accumulates across
// every call until the caller chooses to discard it.
type Driver struct {
	cfg   config
	stats *Stats
}

// NewDriver builds a Driver with opts applied over the defaults.
func NewDriver(opts ...Option) *Driver {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Driver{cfg: cfg, stats: &Stats{}}
}

// Stats returns the driver's accumulated diagnostic counters.
func (d *Driver) Stats() *Stats { return d.stats }

// Run evaluates every stratum of strat in order against p, widening fs and
// table in place. goalTracker may be nil, in which case it is simply never
// consulted and every stratum runs to a true fixed point regardless of any
// goal.
func (d *Driver) Run(
	ctx context.Context,
	p *ir.Program,
	strat *stratify.Result,
	doms *domain.Domains,
	staticAssignments consistency.StaticAssignments,
	fs *facts.FactSets,
	table *annotate.Table,
	goalTracker *terminate.GoalTracker,
) error {
	runID := uuid.New()
	log := d.cfg.logger.With("run_id", runID.String())

	rulesByStratum := make([][]ir.Index, strat.NumStrata)
	for r := ir.Index(0); r < p.Rules.Size(); r++ {
		if d.cfg.ruleFilter != nil && !d.cfg.ruleFilter(r) {
			continue
		}
		s := strat.RuleStratum[r]
		rulesByStratum[s] = append(rulesByStratum[s], r)
	}

	for s := 0; s < strat.NumStrata; s++ {
		rules := rulesByStratum[s]
		if len(rules) == 0 {
			continue
		}
		log.Debug("evaluating stratum", "stratum", s, "rules", len(rules))
		if err := d.runStratum(ctx, p, doms, staticAssignments, fs, table, goalTracker, rules, log.With("stratum", s)); err != nil {
			return err
		}
	}
	return nil
}

// runStratum iterates one stratum's rules to a fixed point, or until
// goalTracker reports Done.
func (d *Driver) runStratum(
	ctx context.Context,
	p *ir.Program,
	doms *domain.Domains,
	staticAssignments consistency.StaticAssignments,
	fs *facts.FactSets,
	table *annotate.Table,
	goalTracker *terminate.GoalTracker,
	rules []ir.Index,
	log hclog.Logger,
) error {
	d.stats.bumpStrata()

	ruleData := make(map[ir.Index]ir.RuleData, len(rules))
	states := make(map[ir.Index]*kpkc.RuleState, len(rules))
	pending := make(map[ir.Index][]ir.Binding)

	for _, r := range rules {
		rule := p.Rules.Get(r)
		ruleData[r] = rule
		graph := consistency.Build(p, r, rule, doms, staticAssignments)
		rs := kpkc.NewRuleState(p, r, rule, graph)
		foldExisting(p, fs, rs, rule)
		states[r] = rs
	}

	listeners := schedule.BuildListeners(p, rules)
	active := schedule.NewActiveSet(listeners)
	active.Seed(rules)

	queue := costbucket.NewQueue(table)

	for {
		activeRules := active.Drain()
		if len(activeRules) == 0 && queue.Empty() {
			break
		}
		d.stats.bumpIterations()

		activeStates := make([]*kpkc.RuleState, len(activeRules))
		for i, r := range activeRules {
			activeStates[i] = states[r]
		}

		results, err := kpkc.EnumerateAll(ctx, activeStates, d.cfg.workers)
		if err != nil {
			return err
		}
		for _, r := range activeRules {
			states[r].ResetDelta()
		}

		for i, res := range results {
			ruleIdx := activeRules[i]
			rule := ruleData[ruleIdx]
			rs := states[ruleIdx]
			for _, b := range res.Bindings {
				d.stats.bumpCliques()
				binding := resolveBinding(rs, b)
				if !StaticApplicable(p, rule, binding, fs) {
					continue
				}
				if !DynamicApplicable(p, rule, binding, fs) {
					pending[ruleIdx] = append(pending[ruleIdx], binding)
					continue
				}
				d.applyBinding(p, table, queue, ruleIdx, rule, binding)
			}
		}

		d.retryPending(p, ruleData, pending, fs, table, queue)

		atoms, bucketCost, ok := queue.NextBucket()
		if !ok {
			continue
		}
		log.Trace("advancing cost bucket", "cost", bucketCost, "atoms", len(atoms))
		for _, atom := range atoms {
			role := p.Predicates.Get(atom.Group).Role
			if !fs.ForRole(role).Add(atom) {
				continue
			}
			active.ActivateListeners(atom.Group)
			args := p.GroundAtoms.Get(atom).Args
			for _, rs := range states {
				rs.ObserveFluentAtom(atom.Group, args)
			}
		}
		for _, rs := range states {
			rs.RecomputeTouchedEdges()
		}

		if goalTracker != nil && goalTracker.Done(bucketCost) {
			break
		}
	}

	d.retryPending(p, ruleData, pending, fs, table, queue)
	return nil
}

// foldExisting folds every Fluent/Derived ground atom already present in fs
// (carried over from an earlier stratum, or part of the initial state) into
// rs's affected/delta sets, so the stratum's first Enumerate call sees them
// as eligible ( applied to "everything already true" rather than
// to a single newly-inserted atom).
func foldExisting(p *ir.Program, fs *facts.FactSets, rs *kpkc.RuleState, rule ir.RuleData) {
	seen := map[ir.Index]bool{}
	fold := func(lits []ir.Literal) {
		for _, l := range lits {
			atom := p.Atoms.Get(l.Atom)
			if seen[atom.Predicate] {
				continue
			}
			seen[atom.Predicate] = true
			role := p.Predicates.Get(atom.Predicate).Role
			if role != ir.Fluent && role != ir.Derived {
				continue
			}
			present := fs.ForRole(role).Present(atom.Predicate)
			for v, ok := present.NextSet(0); ok; v, ok = present.NextSet(v + 1) {
				ga := p.GroundAtoms.Get(ir.GroupIndex{Group: atom.Predicate, Value: ir.Index(v)})
				rs.ObserveFluentAtom(atom.Predicate, ga.Args)
			}
		}
	}
	fold(rule.Body.Fluent)
	fold(rule.Body.Derived)
	rs.RecomputeTouchedEdges()
}

// resolveBinding maps a kpkc.Binding's local partition vertices back to the
// objects they name, via the rule's static graph partitions.
func resolveBinding(rs *kpkc.RuleState, b kpkc.Binding) ir.Binding {
	out := make(ir.Binding, len(b))
	for pos, v := range b {
		out[pos] = rs.Static.Partitions[pos].Object(v)
	}
	return out
}

// applyBinding grounds rule's head under binding, combines its body costs
// through table's policy, and proposes the result as an OR-annotation
// update, pushing the head into queue if it improves. This runs on the
// sequential merge path: kpkc.EnumerateAll already did the CPU-heavy,
// actually-parallel part, so interning heads and updating annotations here
// needs no per-worker overlay of its own.
func (d *Driver) applyBinding(p *ir.Program, table *annotate.Table, queue *costbucket.Queue, ruleIdx ir.Index, rule ir.RuleData, binding ir.Binding) {
	d.stats.bumpApplicabilityChecks()

	headGround := ir.GroundAtom(rule.Head, binding)
	head, _ := p.GroundAtoms.GetOrCreate(rule.Head.Predicate, headGround)

	costs, support := bodyCostsAndSupport(p, rule, binding, table)
	cost := table.Policy().CombineBody(annotate.Cost(rule.Cost), costs)
	if cost == annotate.Inf {
		return
	}

	witness := &annotate.Witness{RuleIdx: ruleIdx, Binding: binding, Support: support}
	if table.UpdateOr(head, cost, witness) {
		queue.Push(head, cost)
		d.stats.bumpNewHeads()
	}
}

// bodyCostsAndSupport collects the OR-annotation cost of every positive
// Fluent/Derived body literal's ground atom under binding (the AND node's
// operands), together with their ground indices (the witness
// DAG's support edges). Static literals and negative literals contribute
// neither: a negative literal's absence has no derivation cost, and a
// Static literal is never itself derived.
func bodyCostsAndSupport(p *ir.Program, rule ir.RuleData, binding ir.Binding, table *annotate.Table) ([]annotate.Cost, []ir.GroupIndex) {
	var costs []annotate.Cost
	var support []ir.GroupIndex
	collect := func(lits []ir.Literal) {
		for _, l := range lits {
			if !l.Positive {
				continue
			}
			atom := p.Atoms.Get(l.Atom)
			ground := ir.GroundAtom(atom, binding)
			idx, found := p.GroundAtoms.Find(atom.Predicate, ground)
			if !found {
				costs = append(costs, annotate.Inf)
				continue
			}
			costs = append(costs, table.Cost(idx))
			support = append(support, idx)
		}
	}
	collect(rule.Body.Fluent)
	collect(rule.Body.Derived)
	return costs, support
}

// retryPending re-checks every rule's stored pending bindings (those whose
// static part already held but whose dynamic part did not)
// against the current fact sets, promoting any that now pass and dropping
// those from the pending list (a binding that still fails stays pending for
// the next retry).
func (d *Driver) retryPending(p *ir.Program, ruleData map[ir.Index]ir.RuleData, pending map[ir.Index][]ir.Binding, fs *facts.FactSets, table *annotate.Table, queue *costbucket.Queue) {
	for ruleIdx, bindings := range pending {
		if len(bindings) == 0 {
			continue
		}
		rule := ruleData[ruleIdx]
		kept := bindings[:0]
		for _, b := range bindings {
			if !DynamicApplicable(p, rule, b, fs) {
				kept = append(kept, b)
				continue
			}
			d.applyBinding(p, table, queue, ruleIdx, rule, b)
		}
		pending[ruleIdx] = kept
	}
}
