// File: action.go
// Role: GroundAction names one applicable grounding of an ActionSchema: the
// schema plus the concrete object bound to each parameter.
package plan

import (
	"fmt"
	"strings"

	"github.com/liftedplan/kpkc/ir"
)

// GroundAction is one fully-bound action instance, ready to apply to a
// State or to print as a plan step.
type GroundAction struct {
	Schema  *ActionSchema
	Binding ir.Binding // parameter position -> object, in Schema.Parameters order
	Objects []string   // Binding rendered back to task-level object names
	Cost    uint32
}

// Name renders the ground action the way plan output conventionally prints
// a step: "(name obj1 obj2 ...)".
func (g GroundAction) Name() string {
	var b strings.Builder
	b.WriteByte('(')
	b.WriteString(g.Schema.Name)
	for _, o := range g.Objects {
		b.WriteByte(' ')
		b.WriteString(o)
	}
	b.WriteByte(')')
	return b.String()
}

func (g GroundAction) String() string { return fmt.Sprintf("%s [cost %d]", g.Name(), g.Cost) }
