// File: layout.go
// Role: GraphLayout records the vertex count and flat-id offset per
// partition backing a rule's PartitionedAdjacencyMatrix.
package consistency

// GraphLayout records the per-partition vertex counts of a rule's static
// consistency graph. Partition p corresponds to rule parameter p.
type GraphLayout struct {
	sizes  []int
	offset []int // offset[p] = sum of sizes[0:p], for a flat global-vertex id space
}

// NewGraphLayout returns a layout with one partition per entry of sizes.
func NewGraphLayout(sizes []int) *GraphLayout {
	offset := make([]int, len(sizes))
	total := 0
	for p, n := range sizes {
		offset[p] = total
		total += n
	}
	out := make([]int, len(sizes))
	copy(out, sizes)
	return &GraphLayout{sizes: out, offset: offset}
}

// Arity is the number of partitions (rule parameters).
func (l *GraphLayout) Arity() int { return len(l.sizes) }

// PartitionSize returns the number of vertices partition p holds.
func (l *GraphLayout) PartitionSize(p int) int { return l.sizes[p] }

// Offset returns the flat global-vertex-id offset of partition p, useful
// for callers that want a single dense id space across all partitions.
func (l *GraphLayout) Offset(p int) int { return l.offset[p] }

// TotalVertices is the sum of every partition's size.
func (l *GraphLayout) TotalVertices() int {
	total := 0
	for _, n := range l.sizes {
		total += n
	}
	return total
}
