package schedule

import (
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/liftedplan/kpkc/ir"
)

// ActiveSet is the current iteration's worklist of rules worth
// enumerating. It starts seeded with an entire stratum (every rule
// deserves at least one enumeration pass) and thereafter only grows from
// Listeners.RulesFor(predicate) calls as new ground atoms arrive.
type ActiveSet struct {
	listeners *Listeners
	active    map[ir.Index]struct{}
}

// NewActiveSet builds an ActiveSet keyed against listeners.
func NewActiveSet(listeners *Listeners) *ActiveSet {
	return &ActiveSet{listeners: listeners, active: make(map[ir.Index]struct{})}
}

// Seed marks every rule in rules active, unconditionally (the stratum's
// first iteration: every rule must be tried at least once).
func (a *ActiveSet) Seed(rules []ir.Index) {
	for _, r := range rules {
		a.active[r] = struct{}{}
	}
}

// ActivateListeners marks every rule listening on predicate active (a new
// ground atom over predicate just appeared).
func (a *ActiveSet) ActivateListeners(predicate ir.Index) {
	for _, r := range a.listeners.RulesFor(predicate) {
		a.active[r] = struct{}{}
	}
}

// Drain returns the currently active rules, sorted, and clears the set for
// the next iteration's recompute: the active set is rebuilt from scratch
// each iteration off the previous iteration's new heads, not accumulated
// indefinitely.
func (a *ActiveSet) Drain() []ir.Index {
	rules := maps.Keys(a.active)
	slices.Sort(rules)
	a.active = make(map[ir.Index]struct{})
	return rules
}

// Empty reports whether no rule is currently active.
func (a *ActiveSet) Empty() bool { return len(a.active) == 0 }
