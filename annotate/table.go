package annotate

import (
	"sync"

	"github.com/liftedplan/kpkc/ir"
)

// entry is one ground atom's current OR-annotation.
type entry struct {
	cost    Cost
	witness *Witness
}

// Table is the OR-annotation store: one Cost+Witness per ground atom,
// shared read/write across a stratum's parallel rule workers the same way
// facts.PredicateFactSet is — a mutex-guarded map, since annotation writes
// are rare relative to adjacency reads during enumeration.
type Table struct {
	policy Policy

	mu      sync.Mutex
	entries map[ir.GroupIndex]*entry
}

// NewTable builds an empty annotation table under policy.
func NewTable(policy Policy) *Table {
	return &Table{policy: policy, entries: make(map[ir.GroupIndex]*entry)}
}

// Policy returns the table's annotation policy.
func (t *Table) Policy() Policy { return t.policy }

// Cost returns atom's current OR-annotation cost, Inf if never derived.
func (t *Table) Cost(atom ir.GroupIndex) Cost {
	t.mu.Lock()
	defer t.mu.Unlock()
	if e, ok := t.entries[atom]; ok {
		return e.cost
	}
	return Inf
}

// Witness returns atom's current best witness, nil if never derived.
func (t *Table) Witness(atom ir.GroupIndex) *Witness {
	t.mu.Lock()
	defer t.mu.Unlock()
	if e, ok := t.entries[atom]; ok {
		return e.witness
	}
	return nil
}

// UpdateOr proposes a candidate AND-cost (already combined via
// Policy.CombineBody) for atom, with the witness that produced it. It
// applies iff the policy's Improves test passes, and reports whether it
// did — the monotonic "update_annotation" contract every OR node
// satisfies: a ground atom's cost only ever moves toward
// cheaper, never regresses, so repeated application across iterations
// converges.
func (t *Table) UpdateOr(atom ir.GroupIndex, candidate Cost, witness *Witness) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	e, ok := t.entries[atom]
	if !ok {
		e = &entry{cost: Inf}
		t.entries[atom] = e
	}
	if !t.policy.Improves(candidate, e.cost) {
		return false
	}
	e.cost = candidate
	e.witness = witness
	return true
}

// Seed directly sets atom's annotation to cost with no witness (for
// initial ground facts, whose cost is 0 and which need no supporting
// derivation).
func (t *Table) Seed(atom ir.GroupIndex, cost Cost) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries[atom] = &entry{cost: cost}
}

// Derived reports whether atom currently carries a finite cost.
func (t *Table) Derived(atom ir.GroupIndex) bool {
	return t.Cost(atom) != Inf
}
