package annotate

import "github.com/liftedplan/kpkc/ir"

// Witness records which rule and binding produced a ground atom's current
// best OR-annotation, plus the supporting ground atoms its body literals
// resolved to — the edge list of the witness DAG relaxed-plan extraction
// walks backward from a goal atom.
type Witness struct {
	RuleIdx ir.Index
	// Binding is the ground object assigned to each rule parameter, in
	// parameter order.
	Binding []ir.Index
	// Support is every Fluent/Derived ground atom this binding's body
	// literals resolved to (Static literals contribute no witness edge:
	// they never change and are never the reason a goal becomes
	// unreachable).
	Support []ir.GroupIndex
}
