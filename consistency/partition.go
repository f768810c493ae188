// File: partition.go
// Role: Partition — one rule parameter's dense local vertex numbering over
// the restricted candidate-object domain computed during vertex
// construction.
package consistency

import "github.com/liftedplan/kpkc/ir"

// Partition maps a rule parameter's surviving candidate objects to dense
// local vertex ids, and back.
type Partition struct {
	objects  []ir.Index
	byObject map[ir.Index]int
}

// NewPartition builds a Partition over objects, in the given order. Callers
// that want a deterministic local numbering (for reproducible clique
// emission order) should pass objects already sorted by ir.Index.
func NewPartition(objects []ir.Index) *Partition {
	byObject := make(map[ir.Index]int, len(objects))
	for i, o := range objects {
		byObject[o] = i
	}
	return &Partition{objects: objects, byObject: byObject}
}

// Size is the number of vertices in this partition.
func (p *Partition) Size() int { return len(p.objects) }

// Local returns object's local vertex id, if it is a vertex of this
// partition.
func (p *Partition) Local(object ir.Index) (int, bool) {
	v, ok := p.byObject[object]
	return v, ok
}

// Object returns the object bound to local vertex id v.
func (p *Partition) Object(v int) ir.Index { return p.objects[v] }

// Objects returns the partition's vertices in local-id order.
func (p *Partition) Objects() []ir.Index { return p.objects }
