package terminate

import (
	"github.com/liftedplan/kpkc/annotate"
	"github.com/liftedplan/kpkc/ir"
)

// GoalTracker watches a fixed set of goal ground atoms against an
// annotation table and decides when a stratum iteration loop may stop.
type GoalTracker struct {
	table *annotate.Table
	goals []ir.GroupIndex
	prev  map[ir.GroupIndex]annotate.Cost
}

// NewGoalTracker builds a tracker over goals, read against table.
func NewGoalTracker(table *annotate.Table, goals []ir.GroupIndex) *GoalTracker {
	prev := make(map[ir.GroupIndex]annotate.Cost, len(goals))
	for _, g := range goals {
		prev[g] = annotate.Inf
	}
	return &GoalTracker{table: table, goals: goals, prev: prev}
}

// Changed reports whether any goal atom's cost moved since the previous
// call, and advances the snapshot. Call once per stratum iteration; a
// false return means the goal set reached its own fixed point even if the
// rest of the program has not.
func (g *GoalTracker) Changed() bool {
	changed := false
	for _, goal := range g.goals {
		c := g.table.Cost(goal)
		if c != g.prev[goal] {
			changed = true
			g.prev[goal] = c
		}
	}
	return changed
}

// AllDerived reports whether every goal atom currently carries a finite
// cost.
func (g *GoalTracker) AllDerived() bool {
	for _, goal := range g.goals {
		if !g.table.Derived(goal) {
			return false
		}
	}
	return true
}

// Done reports whether the engine may stop iterating this stratum early:
// every goal is derived, and the cost-bucket driver's current bucket cost
// already exceeds every goal's settled cost. Under the cost-bucket's
// monotone non-decreasing emission discipline (package costbucket) that
// means no future bucket can still improve a goal, the same argument
// Dijkstra uses to stop once every vertex of interest has been popped off
// the heap.
func (g *GoalTracker) Done(currentBucketCost annotate.Cost) bool {
	if !g.AllDerived() {
		return false
	}
	for _, goal := range g.goals {
		if g.table.Cost(goal) >= currentBucketCost {
			return false
		}
	}
	return true
}

// Goals returns the tracked goal atoms.
func (g *GoalTracker) Goals() []ir.GroupIndex { return g.goals }
