package schedule

import (
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/liftedplan/kpkc/ir"
)

// Listeners maps a predicate to every rule index (within one stratum)
// whose body reads that predicate via a Fluent or Derived literal. Static
// literals never listen: the static fact set never changes mid-run, so a
// rule that only reads Static predicates needs no reactivation.
type Listeners struct {
	byPredicate map[ir.Index][]ir.Index
}

// BuildListeners scans every rule in rules (indices into p.Rules) and
// records which predicates its Fluent/Derived body literals reference.
func BuildListeners(p *ir.Program, rules []ir.Index) *Listeners {
	l := &Listeners{byPredicate: make(map[ir.Index][]ir.Index)}
	for _, ruleIdx := range rules {
		rule := p.Rules.Get(ruleIdx)
		seen := map[ir.Index]bool{}
		record := func(lits []ir.Literal) {
			for _, lit := range lits {
				if !lit.Positive {
					// A negated literal's predicate growing can only falsify
					// bodies, never satisfy one; no reactivation needed.
					continue
				}
				pred := p.Atoms.Get(lit.Atom).Predicate
				if seen[pred] {
					continue
				}
				seen[pred] = true
				l.byPredicate[pred] = append(l.byPredicate[pred], ruleIdx)
			}
		}
		record(rule.Body.Fluent)
		record(rule.Body.Derived)
	}
	return l
}

// RulesFor returns every rule that listens on predicate, in a
// deterministic (sorted) order.
func (l *Listeners) RulesFor(predicate ir.Index) []ir.Index {
	rules := slices.Clone(l.byPredicate[predicate])
	slices.Sort(rules)
	return rules
}

// Predicates returns every predicate with at least one listener, sorted.
func (l *Listeners) Predicates() []ir.Index {
	preds := maps.Keys(l.byPredicate)
	slices.Sort(preds)
	return preds
}
